package scheduler

import (
	"fmt"
	"time"
)

// Schedule yields the next fire time strictly after t.
type Schedule interface {
	Next(t time.Time) time.Time
	fmt.Stringer
}

type interval struct {
	every time.Duration
}

// Every fires on multiples of d, aligned to the epoch like a cron step.
func Every(d time.Duration) Schedule {
	if d <= 0 {
		d = time.Minute
	}
	return interval{every: d}
}

func (i interval) Next(t time.Time) time.Time {
	return t.Truncate(i.every).Add(i.every)
}

func (i interval) String() string {
	return "every " + i.every.String()
}

type daily struct {
	hour, minute int
	loc          *time.Location
}

// DailyAt fires once a day at hour:minute wall time in loc.
func DailyAt(hour, minute int, loc *time.Location) Schedule {
	if loc == nil {
		loc = time.UTC
	}
	return daily{hour: hour, minute: minute, loc: loc}
}

func (d daily) Next(t time.Time) time.Time {
	local := t.In(d.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, d.hour, d.minute, 0, 0, d.loc)
	}
	return next
}

func (d daily) String() string {
	return fmt.Sprintf("daily at %02d:%02d %s", d.hour, d.minute, d.loc)
}
