package notify

import (
	"fmt"
	"slices"
	"time"
)

// Evaluator decides which windows contain a given instant. It holds no mutable state.
type Evaluator struct {
	loc       *time.Location
	zoneLabel string
	windows   []Window
}

// NewEvaluator binds windows to a zone. A nil loc means UTC.
func NewEvaluator(loc *time.Location, zoneLabel string, windows []Window) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{
		loc:       loc,
		zoneLabel: zoneLabel,
		windows:   slices.Clone(windows),
	}
}

// Location reports the zone windows are evaluated in.
func (e *Evaluator) Location() *time.Location {
	return e.loc
}

// ActiveWindows returns the windows containing now, in configuration order. Both
// ends are inclusive at minute granularity.
func (e *Evaluator) ActiveWindows(now time.Time) []Activation {
	local := now.In(e.loc)
	day := int(local.Weekday())
	minute := local.Hour()*60 + local.Minute()

	active := make([]Activation, 0, len(e.windows))
	for _, w := range e.windows {
		if !slices.Contains(w.Days, day) {
			continue
		}
		if minute < w.StartHour*60+w.StartMin || minute > w.EndHour*60+w.EndMin {
			continue
		}
		active = append(active, Activation{Type: w.Type, Label: w.Label})
	}
	return active
}

// Schedule projects every window for display.
func (e *Evaluator) Schedule() []ScheduleEntry {
	out := make([]ScheduleEntry, 0, len(e.windows))
	for _, w := range e.windows {
		days := make([]string, 0, len(w.Days))
		for _, d := range w.Days {
			days = append(days, time.Weekday(d).String())
		}
		out = append(out, ScheduleEntry{
			Type:   w.Type,
			Label:  w.Label,
			Days:   days,
			Window: fmt.Sprintf("%02d:%02d – %02d:%02d %s", w.StartHour, w.StartMin, w.EndHour, w.EndMin, e.zoneLabel),
		})
	}
	return out
}
