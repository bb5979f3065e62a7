// Package clock provides an injectable time source.
// Domain services never read time.Now directly; the clock is a
// dependency so tests and backfills can control "today".
package clock

import (
	"time"

	"larder/internal/core/types"
)

// Clock is the time source for all date-sensitive operations.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// Today returns the current calendar date.
	Today() types.Date
}

// System returns a clock backed by the OS time in the given location.
// A nil location defaults to time.Local.
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &systemClock{loc: loc}
}

type systemClock struct {
	loc *time.Location
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Today() types.Date {
	return types.DateOf(c.Now())
}

// Fixed returns a clock frozen at the given instant. For tests.
func Fixed(t time.Time) Clock {
	return &fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

func (c *fixedClock) Today() types.Date {
	return types.DateOf(c.t)
}
