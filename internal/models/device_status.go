package models

import "time"

// DeviceStatus is the last known reading of the VFD unit as reported by
// GetDataFromDevice. Readings keeps every raw vfd* value the vendor returned.
type DeviceStatus struct {
	ID              int               `json:"id"`
	Mode            string            `json:"mode"` // Auto | Manual
	ACOn            bool              `json:"ac_on"`
	SetTempC        float64           `json:"set_temp_c"`
	ReturnAirC      float64           `json:"return_air_c"`
	FrequencyHz     float64           `json:"frequency_hz"`
	PowerKW         float64           `json:"power_kw"`
	Humidity        float64           `json:"humidity"`
	ScheduleOn      bool              `json:"schedule_on"`
	ScheduleOnTime  string            `json:"schedule_on_time,omitempty"`  // HH:MM
	ScheduleOffTime string            `json:"schedule_off_time,omitempty"` // HH:MM
	DeviceLogTime   string            `json:"device_log_time,omitempty"`
	Readings        map[string]string `json:"readings,omitempty"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
