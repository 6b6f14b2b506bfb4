package bms

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTemperature_ValidateRange(t *testing.T) {
	cases := []struct {
		name    string
		celsius float64
		wantErr bool
	}{
		{"below_min", 22.9, true},
		{"min_inclusive", 23, false},
		{"mid", 26, false},
		{"max_inclusive", 28, false},
		{"above_max", 28.1, true},
		{"nan", math.NaN(), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := SetTemperature{Celsius: tc.celsius}.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCommand))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSetTemperature_FormCarriesEveryVendorField(t *testing.T) {
	p := DefaultProfile()
	f := SetTemperature{Celsius: 26.0}.Form(p)

	assert.Equal(t, "device_vfdReadingSetTemp", f[0].Key)
	want := map[string]string{
		"device_vfdReadingSetTemp": "26",
		"requestType":              "ElectricalMeters",
		"subRequestType":           "ConfigureDataAtDevice",
		"username":                 "crossbow",
		"operationDoneBy":          "crossbow",
		"neName":                   "CrossBowLab",
		"neVersion":                "VFD_005",
		"neId":                     "581",
		"agentId":                  "581",
		"subSystemId":              "128",
		"subSystem":                "VFD",
		"operationName":            "CONFIGURATION",
		"operationType":            "SET",
		"operationId":              "41061",
		"uniqueId":                 "SWAHVACAHU00000286",
		"managedObjectClass":       "VFD",
		"managedObjectInstance":    "VFD-128",
		"topic":                    "swadha/SWAHVACAHU00000286/VFD/set",
		"setQOS":                   "0",
		"retainSetTopic":           "false",
		"subSystemName":            "VFD-128",
	}
	for k, v := range want {
		got, ok := f.Get(k)
		require.True(t, ok, "missing field %s", k)
		assert.Equal(t, v, got, "field %s", k)
	}
	attrs, ok := f.Get("deviceAttributes")
	require.True(t, ok)
	assert.Contains(t, attrs, "device_vfdReadingMode,device_vfdReadingStatus,")
	assert.Contains(t, attrs, ",device_vfdReadingTPControl")
	assert.Len(t, f, len(want)+1)
}

func TestControlAc_FrequencyOnlyWhenOn(t *testing.T) {
	p := DefaultProfile()

	on := ControlAc{On: true}.Form(p)
	status, _ := on.Get("device_vfdReadingStatus")
	freq, ok := on.Get("device_vfdReadingFreq")
	assert.Equal(t, "1", status)
	assert.True(t, ok)
	assert.Equal(t, "40", freq)

	off := ControlAc{On: false}.Form(p)
	status, _ = off.Get("device_vfdReadingStatus")
	_, ok = off.Get("device_vfdReadingFreq")
	assert.Equal(t, "0", status)
	assert.False(t, ok)

	custom := ControlAc{On: true, Frequency: 45.5}.Form(p)
	freq, _ = custom.Get("device_vfdReadingFreq")
	assert.Equal(t, "45.5", freq)

	assert.Error(t, ControlAc{On: true, Frequency: -1}.Validate())
}

func TestSetScheduleStatus_OptionalFrequency(t *testing.T) {
	p := DefaultProfile()

	f := SetScheduleStatus{Enabled: true}.Form(p)
	v, _ := f.Get("device_vfdReadingScheduleStatus")
	assert.Equal(t, "1", v)
	_, ok := f.Get("device_vfdReadingFreq")
	assert.False(t, ok)

	f = SetScheduleStatus{Enabled: false, Frequency: 40}.Form(p)
	v, _ = f.Get("device_vfdReadingScheduleStatus")
	assert.Equal(t, "0", v)
	freq, ok := f.Get("device_vfdReadingFreq")
	assert.True(t, ok)
	assert.Equal(t, "40", freq)
}

func TestSetScheduleTime_ValidateAndForm(t *testing.T) {
	bad := []SetScheduleTime{
		{OnTime: "8:00", OffTime: "18:00"},
		{OnTime: "08:00", OffTime: "24:00"},
		{OnTime: "08:60", OffTime: "18:00"},
		{OnTime: "", OffTime: "18:00"},
		{OnTime: "08:00", OffTime: "18:00", Frequency: -5},
	}
	for _, c := range bad {
		err := c.Validate()
		assert.ErrorIs(t, err, ErrInvalidCommand, "%+v", c)
	}

	cmd := SetScheduleTime{Enabled: true, OnTime: "08:30", OffTime: "18:45"}
	require.NoError(t, cmd.Validate())
	f := cmd.Form(DefaultProfile())
	on, _ := f.Get("device_vfdReadingScheduleOnTime")
	off, _ := f.Get("device_vfdReadingScheduleOffTime")
	st, _ := f.Get("device_vfdReadingScheduleStatus")
	assert.Equal(t, "08:30", on)
	assert.Equal(t, "18:45", off)
	assert.Equal(t, "1", st)
}

func TestGetCurrentStatus_Form(t *testing.T) {
	f := GetCurrentStatus{}.Form(DefaultProfile())
	for k, v := range map[string]string{
		"subRequestType": "GetDataFromDevice",
		"operationType":  "CONFIGURATION",
		"operationName":  "GET",
		"topic":          "swadha/SWAHVACAHU00000286/VFD/get",
		"getQOS":         "0",
		"retainGetTopic": "false",
		"subSystemName":  "VFD-128",
	} {
		got, ok := f.Get(k)
		require.True(t, ok, "missing %s", k)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, PathGetHandler, GetCurrentStatus{}.Path())
}

func TestGetStats_ValidateAndForm(t *testing.T) {
	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 2, 23, 59, 59, 0, time.UTC)

	assert.ErrorIs(t, GetStats{From: to, To: from}.Validate(), ErrInvalidCommand)
	assert.ErrorIs(t, GetStats{To: to}.Validate(), ErrInvalidCommand)

	cmd := GetStats{From: from, To: to}
	require.NoError(t, cmd.Validate())
	f := cmd.Form(DefaultProfile())
	for k, v := range map[string]string{
		"subRequestType": "refreshStatsData",
		"QueryNum":       "8104",
		"key":            "VFD_STATS_DATA",
		"Parm1":          "581",
		"Parm2":          "20",
		"Parm3":          "2025-09-01 00:00:00",
		"Parm4":          "2025-09-02 23:59:59",
	} {
		got, ok := f.Get(k)
		require.True(t, ok, "missing %s", k)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, PathTableMgr, cmd.Path())
}

func TestCommandMessages(t *testing.T) {
	assert.Equal(t, "Temperature set successfully!", SuccessMessage(SetTemperature{}.Name()))
	assert.Equal(t, "Failed to control AC", FailureMessage(ControlAc{}.Name()))
	assert.Equal(t, "X completed successfully!", SuccessMessage("X"))
}
