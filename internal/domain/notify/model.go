package notify

import "time"

// Window is a recurring day-of-week and local time range. Days use 0=Sunday..6=Saturday.
type Window struct {
	Type      string
	Label     string
	Days      []int
	StartHour int
	StartMin  int
	EndHour   int
	EndMin    int
}

// Activation is a window that contains the evaluated instant.
type Activation struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// ScheduleEntry is the display projection of a Window.
type ScheduleEntry struct {
	Type   string   `json:"type"`
	Label  string   `json:"label"`
	Days   []string `json:"days"`
	Window string   `json:"window"`
}

// Status is the result of an on-demand evaluation. ServerTime is rendered in the
// configured zone.
type Status struct {
	ServerTime time.Time    `json:"server_time_cst"`
	DayOfWeek  string       `json:"day_of_week"`
	Active     []Activation `json:"active_notifications"`
}

// FireRecord is one notifications_log row.
type FireRecord struct {
	ID       int64     `json:"id"`
	FiredAt  time.Time `json:"fired_at"`
	Type     string    `json:"notification_type"`
	ClientIP string    `json:"client_ip"`
}

// Config selects the zone the windows are interpreted in.
type Config struct {
	Timezone  string
	ZoneLabel string
}

const (
	DefaultTimezone  = "America/Chicago"
	DefaultZoneLabel = "CST"
)

var weekdays = []int{1, 2, 3, 4, 5}

// DefaultWindows is the team's reference reminder schedule.
var DefaultWindows = []Window{
	{Type: "checkin", Label: "Daily Check-In Reminder", Days: weekdays, StartHour: 9, StartMin: 1, EndHour: 9, EndMin: 5},
	{Type: "checkout", Label: "Daily Check-Out Reminder", Days: weekdays, StartHour: 17, StartMin: 0, EndHour: 17, EndMin: 10},
	{Type: "timesheet", Label: "Submit Your Timesheet", Days: []int{5}, StartHour: 16, StartMin: 0, EndHour: 16, EndMin: 15},
	{Type: "lunch", Label: "Lunch Break", Days: weekdays, StartHour: 12, StartMin: 0, EndHour: 12, EndMin: 15},
}

func (c Config) withDefaults() Config {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.ZoneLabel == "" {
		c.ZoneLabel = DefaultZoneLabel
	}
	return c
}
