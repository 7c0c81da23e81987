// Package onboarding implements the first-run tour.
package onboarding

import (
	"context"
	"sync"
	"time"
)

// DefaultAutoOpenDelay is the pause between the first load and the tour.
const DefaultAutoOpenDelay = 600 * time.Millisecond

// Control is a focusable control of the tour.
type Control string

const (
	ControlSkip   Control = "skip"
	ControlPrev   Control = "prev"
	ControlNext   Control = "next"
	ControlFinish Control = "finish"
)

// SeenStore persists the "onboarding seen" marker.
type SeenStore interface {
	OnboardingSeen(ctx context.Context) bool
	MarkOnboardingSeen(ctx context.Context)
}

// Controller is the state machine of the tour.
type Controller struct {
	store SeenStore

	mu       sync.Mutex
	open     bool
	steps    int
	current  int
	focus    int // index into controls()
	returnTo string
}

// NewController creates a closed controller.
func NewController(store SeenStore) *Controller {
	return &Controller{store: store}
}

// ShouldAutoOpen reports whether the tour has never been seen and is closed.
func (c *Controller) ShouldAutoOpen(ctx context.Context) bool {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	return !open && !c.store.OnboardingSeen(ctx)
}

// AutoOpen opens the tour after delay when ShouldAutoOpen still holds then,
// and calls onOpen. The returned function cancels the pending open.
func (c *Controller) AutoOpen(ctx context.Context, delay time.Duration, steps int, returnTo string, onOpen func()) (stop func() bool) {
	t := time.AfterFunc(delay, func() {
		if ctx.Err() != nil || !c.ShouldAutoOpen(ctx) {
			return
		}
		if c.Open(steps, returnTo) && onOpen != nil {
			onOpen()
		}
	})
	return t.Stop
}

// Open starts the tour at its first step. returnTo is handed back on close.
// It reports false when there are no steps.
func (c *Controller) Open(steps int, returnTo string) bool {
	if steps <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = true
	c.steps = steps
	c.current = 0
	c.returnTo = returnTo
	c.focusPrimary()
	return true
}

// Replay opens the tour regardless of the seen marker.
func (c *Controller) Replay(steps int, returnTo string) bool {
	return c.Open(steps, returnTo)
}

// IsOpen reports whether the tour is showing.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Current returns the zero-based step index and the step count.
func (c *Controller) Current() (step, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.steps
}

// Next advances one step. On the last step it finishes the tour, returning
// closed=true and the restore target.
func (c *Controller) Next(ctx context.Context) (returnTo string, closed bool) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return "", false
	}
	if c.current < c.steps-1 {
		c.current++
		c.focusPrimary()
		c.mu.Unlock()
		return "", false
	}
	c.mu.Unlock()
	return c.Finish(ctx), true
}

// Prev goes back one step; it is a no-op on the first step.
func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open && c.current > 0 {
		c.current--
		c.focusPrimary()
	}
}

// Finish closes the tour and marks it seen.
func (c *Controller) Finish(ctx context.Context) string { return c.close(ctx) }

// Skip closes the tour and marks it seen.
func (c *Controller) Skip(ctx context.Context) string { return c.close(ctx) }

// Escape closes the tour and marks it seen.
func (c *Controller) Escape(ctx context.Context) string { return c.close(ctx) }

// Controls returns the focusable controls of the current step in focus order.
func (c *Controller) Controls() []Control {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controls()
}

// Focused returns the control holding focus, empty when closed.
func (c *Controller) Focused() Control {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctrls := c.controls()
	if len(ctrls) == 0 {
		return ""
	}
	return ctrls[c.focus]
}

func (c *Controller) close(ctx context.Context) string {
	c.mu.Lock()
	wasOpen := c.open
	returnTo := c.returnTo
	c.open = false
	c.current = 0
	c.focus = 0
	c.returnTo = ""
	c.mu.Unlock()

	if wasOpen {
		c.store.MarkOnboardingSeen(ctx)
	}
	return returnTo
}

func (c *Controller) controls() []Control {
	if !c.open {
		return nil
	}
	out := []Control{ControlSkip}
	if c.current > 0 {
		out = append(out, ControlPrev)
	}
	if c.current == c.steps-1 {
		return append(out, ControlFinish)
	}
	return append(out, ControlNext)
}

// focusPrimary puts focus on Next or Finish. Caller holds mu.
func (c *Controller) focusPrimary() {
	c.focus = len(c.controls()) - 1
}
