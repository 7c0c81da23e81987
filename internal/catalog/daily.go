package catalog

import (
	"time"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

const (
	lcgModulus    = 2147483647
	lcgMultiplier = 48271
)

// DailyIndex maps a calendar day to a stable position in a list of n items.
// The day is turned into a YYYYMMDD seed and stepped once through a
// Park-Miller generator.
func DailyIndex(day time.Time, n int) int {
	if n <= 0 {
		return -1
	}

	seed := int64(day.Year()*10000 + int(day.Month())*100 + day.Day())
	x := (seed % lcgModulus) * lcgMultiplier % lcgModulus
	return int(x % int64(n))
}

// Daily returns the dua of the day, or false when the catalog is empty.
func (c *Catalog) Daily(day time.Time) (entities.Dua, bool) {
	i := DailyIndex(day, c.Len())
	if i < 0 {
		return entities.Dua{}, false
	}
	return c.entries[i], true
}
