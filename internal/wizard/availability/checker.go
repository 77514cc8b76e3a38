// Package availability runs the debounced CPF uniqueness check against the
// campaign platform. The checker owns an explicit typed state so the step-1
// validator can fail closed on anything other than a confirmed-available
// verdict.
package availability

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/luan640/nr01facil/internal/directory"
	"github.com/luan640/nr01facil/internal/errors"
	"github.com/luan640/nr01facil/internal/wizard/domain"
)

// DefaultDebounce is the delay between the last keystroke and the remote
// check.
const DefaultDebounce = 350 * time.Millisecond

// State is the checker's explicit state. The zero value means "not checked",
// which the step-1 validator treats as blocking.
type State struct {
	// Available is true only after the platform confirmed the CPF has not
	// answered this campaign yet.
	Available bool
	// InFlight is true while a remote check is running.
	InFlight bool
	// LastChecked is the digit string of the last completed successful
	// check, used to skip redundant calls.
	LastChecked string
	// Message is the user-facing text to display: the platform's own
	// message on an unavailable verdict, or the generic retry-later text
	// after a network failure. Empty otherwise.
	Message string
}

// CheckFunc performs the remote availability call.
type CheckFunc func(ctx context.Context, digits string) (directory.Availability, error)

// Config configures a Checker.
type Config struct {
	Check    CheckFunc
	Debounce time.Duration
	Locale   string
}

// Checker debounces identification-field edits into remote availability
// checks.
type Checker struct {
	mu       sync.Mutex
	state    State
	check    CheckFunc
	debounce time.Duration
	locale   string

	timer *time.Timer
	gen   uint64

	// after schedules the debounced call; swapped in tests for determinism.
	after func(d time.Duration, f func()) *time.Timer

	settled chan struct{}
}

// NewChecker creates a checker with the default debounce when none is set.
func NewChecker(cfg Config) *Checker {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Checker{
		check:    cfg.Check,
		debounce: debounce,
		locale:   cfg.Locale,
		after:    time.AfterFunc,
		settled:  make(chan struct{}, 1),
	}
}

// Input reacts to an edit of the identification field. Any previous error
// display is cleared. When the value does not normalize to eleven digits the
// state resets to not-checked and no remote call is scheduled. A value equal
// to the last successfully checked digits is skipped. Otherwise the remote
// check is (re)scheduled after the debounce interval.
func (c *Checker) Input(ctx context.Context, raw string) {
	digits := digitsOf(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Message = ""
	c.stopTimerLocked()

	if len(digits) != domain.IdentificationLength {
		c.state = State{}
		return
	}
	if digits == c.state.LastChecked {
		return
	}

	c.gen++
	gen := c.gen
	c.timer = c.after(c.debounce, func() {
		c.run(ctx, gen, digits)
	})
}

// Snapshot returns a copy of the checker state.
func (c *Checker) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Settled signals after each completed remote check. The channel is buffered
// so the checker never blocks; hosts drain it to refresh their display.
func (c *Checker) Settled() <-chan struct{} {
	return c.settled
}

func (c *Checker) run(ctx context.Context, gen uint64, digits string) {
	c.mu.Lock()
	if gen != c.gen {
		// A newer edit re-scheduled or cancelled this check.
		c.mu.Unlock()
		return
	}
	c.state.InFlight = true
	c.mu.Unlock()

	verdict, err := c.check(ctx, digits)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state.InFlight = false
	switch {
	case err != nil:
		c.state.Available = false
		c.state.Message = errors.Message(errors.CodeIdentificationUnreachable, c.locale, nil)
	default:
		c.state.Available = verdict.Available
		c.state.LastChecked = digits
		if !verdict.Available {
			c.state.Message = verdict.Message
			if c.state.Message == "" {
				c.state.Message = errors.Message(errors.CodeIdentificationUnavailable, c.locale, nil)
			}
		}
	}
	c.mu.Unlock()

	select {
	case c.settled <- struct{}{}:
	default:
	}
}

func (c *Checker) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// Invalidate any check already past its timer.
	c.gen++
}

func digitsOf(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
