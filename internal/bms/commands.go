package bms

import (
	"math"
	"regexp"
	"time"
)

// Vendor handler paths, relative to the configured base URL.
const (
	PathLogin      = "/login"
	PathSetHandler = "/setHandler"
	PathGetHandler = "/getHandler"
	PathTableMgr   = "/TableMgr"
)

// Accepted target temperature range in °C, inclusive.
const (
	MinSetTempC = 23.0
	MaxSetTempC = 28.0
)

// StatsTimeLayout is the timestamp format of the TableMgr date range.
const StatsTimeLayout = "2006-01-02 15:04:05"

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Command is one vendor operation. Validate runs before any network I/O.
type Command interface {
	Name() string
	Path() string
	Validate() error
	Form(p DeviceProfile) Form
}

type commandText struct {
	ok     string
	failed string
}

var commandTexts = map[string]commandText{
	"SetTemperature":    {ok: "Temperature set successfully!", failed: "Failed to set temperature"},
	"ControlAc":         {ok: "AC control successful!", failed: "Failed to control AC"},
	"SetScheduleStatus": {ok: "Schedule status updated successfully!", failed: "Failed to set schedule status"},
	"SetScheduleTime":   {ok: "Schedule time updated successfully!", failed: "Failed to set schedule time"},
	"GetCurrentStatus":  {ok: "Current status retrieved successfully!", failed: "Failed to get current status"},
	"GetStats":          {ok: "VFD stats retrieved successfully!", failed: "Failed to get VFD stats"},
}

// SuccessMessage is the operator facing summary for a successful command.
func SuccessMessage(name string) string {
	if t, ok := commandTexts[name]; ok {
		return t.ok
	}
	return name + " completed successfully!"
}

// FailureMessage is the operator facing summary when a command could not be delivered.
func FailureMessage(name string) string {
	if t, ok := commandTexts[name]; ok {
		return t.failed
	}
	return name + " failed"
}

// SetTemperature changes the cooling set point.
type SetTemperature struct {
	Celsius float64
}

func (SetTemperature) Name() string { return "SetTemperature" }
func (SetTemperature) Path() string { return PathSetHandler }

func (c SetTemperature) Validate() error {
	if math.IsNaN(c.Celsius) || c.Celsius < MinSetTempC || c.Celsius > MaxSetTempC {
		return invalidf("temperature %v out of range [%v, %v]", c.Celsius, MinSetTempC, MaxSetTempC)
	}
	return nil
}

func (c SetTemperature) Form(p DeviceProfile) Form {
	return p.setForm(Form{}.Add("device_vfdReadingSetTemp", formatNumber(c.Celsius)))
}

// ControlAc switches the unit on or off. Frequency is only sent when
// switching on; zero means the profile default.
type ControlAc struct {
	On        bool
	Frequency float64
}

func (ControlAc) Name() string { return "ControlAc" }
func (ControlAc) Path() string { return PathSetHandler }

func (c ControlAc) Validate() error {
	if c.Frequency < 0 || math.IsNaN(c.Frequency) {
		return invalidf("frequency %v must not be negative", c.Frequency)
	}
	return nil
}

func (c ControlAc) Form(p DeviceProfile) Form {
	f := Form{}.Add("device_vfdReadingStatus", formatFlag(c.On))
	if c.On {
		freq := c.Frequency
		if freq == 0 {
			freq = p.DefaultFrequency
		}
		f = f.Add("device_vfdReadingFreq", formatNumber(freq))
	}
	return p.setForm(f)
}

// SetScheduleStatus enables or disables the on/off schedule.
type SetScheduleStatus struct {
	Enabled   bool
	Frequency float64 // optional, omitted when zero
}

func (SetScheduleStatus) Name() string { return "SetScheduleStatus" }
func (SetScheduleStatus) Path() string { return PathSetHandler }

func (c SetScheduleStatus) Validate() error {
	if c.Frequency < 0 || math.IsNaN(c.Frequency) {
		return invalidf("frequency %v must not be negative", c.Frequency)
	}
	return nil
}

func (c SetScheduleStatus) Form(p DeviceProfile) Form {
	f := Form{}.Add("device_vfdReadingScheduleStatus", formatFlag(c.Enabled))
	if c.Frequency > 0 {
		f = f.Add("device_vfdReadingFreq", formatNumber(c.Frequency))
	}
	return p.setForm(f)
}

// SetScheduleTime sets the daily on/off times (HH:MM) together with the
// schedule status.
type SetScheduleTime struct {
	Enabled   bool
	OnTime    string
	OffTime   string
	Frequency float64 // optional, omitted when zero
}

func (SetScheduleTime) Name() string { return "SetScheduleTime" }
func (SetScheduleTime) Path() string { return PathSetHandler }

func (c SetScheduleTime) Validate() error {
	if !clockPattern.MatchString(c.OnTime) {
		return invalidf("schedule on time %q must be HH:MM", c.OnTime)
	}
	if !clockPattern.MatchString(c.OffTime) {
		return invalidf("schedule off time %q must be HH:MM", c.OffTime)
	}
	if c.Frequency < 0 || math.IsNaN(c.Frequency) {
		return invalidf("frequency %v must not be negative", c.Frequency)
	}
	return nil
}

func (c SetScheduleTime) Form(p DeviceProfile) Form {
	f := Form{}.Add("device_vfdReadingScheduleStatus", formatFlag(c.Enabled))
	if c.Frequency > 0 {
		f = f.Add("device_vfdReadingFreq", formatNumber(c.Frequency))
	}
	f = f.Add("device_vfdReadingScheduleOnTime", c.OnTime).
		Add("device_vfdReadingScheduleOffTime", c.OffTime)
	return p.setForm(f)
}

// GetCurrentStatus reads the live device attributes.
type GetCurrentStatus struct{}

func (GetCurrentStatus) Name() string              { return "GetCurrentStatus" }
func (GetCurrentStatus) Path() string              { return PathGetHandler }
func (GetCurrentStatus) Validate() error           { return nil }
func (GetCurrentStatus) Form(p DeviceProfile) Form { return p.getForm() }

// GetStats reads historical rows between From and To inclusive.
type GetStats struct {
	From time.Time
	To   time.Time
}

func (GetStats) Name() string { return "GetStats" }
func (GetStats) Path() string { return PathTableMgr }

func (c GetStats) Validate() error {
	if c.From.IsZero() || c.To.IsZero() {
		return invalidf("stats range requires both start and end")
	}
	if c.From.After(c.To) {
		return invalidf("stats start %s is after end %s", c.From.Format(StatsTimeLayout), c.To.Format(StatsTimeLayout))
	}
	return nil
}

func (c GetStats) Form(p DeviceProfile) Form {
	return p.statsForm(c.From.Format(StatsTimeLayout), c.To.Format(StatsTimeLayout))
}
