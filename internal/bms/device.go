package bms

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bms_proxy/internal/models"
)

var (
	errNoDeviceData = errors.New("reply carries no device data")
	errNoStatsRows  = errors.New("reply carries no stats rows")

	backslashRun = regexp.MustCompile(`\\+`)
)

// ParseDeviceStatus decodes the devicedata payload of a GetCurrentStatus
// reply. The vendor ships devicedata as a JSON string that may contain
// stray newlines and doubled escapes.
func ParseDeviceStatus(data any) (models.DeviceStatus, error) {
	outer, err := asObject(data)
	if err != nil {
		return models.DeviceStatus{}, err
	}
	inner, err := asObject(outer["devicedata"])
	if err != nil {
		return models.DeviceStatus{}, fmt.Errorf("devicedata: %w", err)
	}
	list, ok := inner["data"].([]any)
	if !ok || len(list) == 0 {
		return models.DeviceStatus{}, errNoDeviceData
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return models.DeviceStatus{}, errNoDeviceData
	}

	readings := make(map[string]string, len(first))
	for k := range first {
		readings[k] = stringField(first, k)
	}

	st := models.DeviceStatus{
		ID:              1,
		Mode:            "Manual",
		ACOn:            readings["vfdReadingStatus"] == "1",
		SetTempC:        number(readings["vfdReadingSetTemp"]),
		ReturnAirC:      number(readings["vfdReadingRetAirtemp"]),
		FrequencyHz:     number(readings["vfdReadingFreq"]),
		PowerKW:         number(readings["vfdReadingPower"]),
		Humidity:        number(readings["vfdReadingHumidity"]),
		ScheduleOn:      readings["vfdReadingScheduleStatus"] == "1",
		ScheduleOnTime:  readings["vfdReadingScheduleOnTime"],
		ScheduleOffTime: readings["vfdReadingScheduleOffTime"],
		DeviceLogTime:   readings["vfdReadingLogtime"],
		Readings:        readings,
		UpdatedAt:       time.Now().UTC(),
	}
	if readings["vfdReadingMode"] == "1" {
		st.Mode = "Auto"
	}
	return st, nil
}

// StatsRows returns the rows of a TableMgr reply.
func StatsRows(data any) ([]map[string]any, error) {
	obj, err := asObject(data)
	if err != nil {
		return nil, err
	}
	raw, ok := obj["rows"].([]any)
	if !ok {
		return nil, errNoStatsRows
	}
	rows := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			rows = append(rows, m)
		}
	}
	return rows, nil
}

func asObject(v any) (map[string]any, error) {
	switch t := v.(type) {
	case map[string]any:
		return t, nil
	case string:
		cleaned := strings.ReplaceAll(t, "\n", "")
		cleaned = backslashRun.ReplaceAllString(cleaned, `\`)
		obj, ok := decodeObject([]byte(cleaned))
		if !ok {
			return nil, fmt.Errorf("not a JSON object: %.64q", t)
		}
		return obj, nil
	case nil:
		return nil, errNoDeviceData
	default:
		return nil, fmt.Errorf("unexpected payload type %T", v)
	}
}

func number(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
