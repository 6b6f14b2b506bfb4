package service

import "time"

type TempParams struct {
	Celsius float64
}

type ACParams struct {
	On        bool
	Frequency float64 // Hz; zero uses the device default when turning on
}

type ScheduleStatusParams struct {
	Enabled   bool
	Frequency float64
}

type ScheduleTimeParams struct {
	Enabled   bool
	OnTime    string // HH:MM
	OffTime   string // HH:MM
	Frequency float64
}

// StatsParams bounds a historical stats query, both ends inclusive.
type StatsParams struct {
	From time.Time
	To   time.Time
}

// LogFilter supports audit filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "LOGIN", "LOGOUT", "SET_TEMP", "CONTROL_AC", "SCHEDULE_STATUS", "SCHEDULE_TIME", "SESSION_EXPIRED", "VENDOR_ERROR"
}

// Export is a rendered report ready to be served.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}
