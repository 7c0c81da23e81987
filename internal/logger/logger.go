package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/config"
)

// New returns a production logger for the production environment and a
// development logger otherwise. verbose lowers the level to debug.
func New(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return zc.Build()
}
