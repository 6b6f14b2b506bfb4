package bms

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeviceProfile carries the addressing constants the vendor expects on
// every command for one VFD unit.
type DeviceProfile struct {
	Operator              string   `yaml:"operator"`
	NEName                string   `yaml:"ne_name"`
	NEVersion             string   `yaml:"ne_version"`
	NEID                  string   `yaml:"ne_id"`
	AgentID               string   `yaml:"agent_id"`
	SubSystemID           string   `yaml:"sub_system_id"`
	SubSystem             string   `yaml:"sub_system"`
	SubSystemName         string   `yaml:"sub_system_name"`
	OperationID           string   `yaml:"operation_id"`
	UniqueID              string   `yaml:"unique_id"`
	ManagedObjectClass    string   `yaml:"managed_object_class"`
	ManagedObjectInstance string   `yaml:"managed_object_instance"`
	TopicPrefix           string   `yaml:"topic_prefix"`
	Attributes            []string `yaml:"attributes"`
	DefaultFrequency      float64  `yaml:"default_frequency"`
	StatsQueryNum         string   `yaml:"stats_query_num"`
	StatsKey              string   `yaml:"stats_key"`
	StatsRowLimit         string   `yaml:"stats_row_limit"` // sent as Parm2
}

var defaultAttributes = []string{
	"device_vfdReadingMode",
	"device_vfdReadingStatus",
	"device_vfdReadingFreq",
	"device_vfdReadingScheduleStatus",
	"device_vfdReadingScheduleOnTime",
	"device_vfdReadingScheduleOffTime",
	"device_vfdReadingSetTemp",
	"device_vfdReadingH2OValve",
	"device_vfdReadingWaterIn",
	"device_vfdReadingWaterOut",
	"device_vfdReadingFlowMin",
	"device_vfdReadingRetAirtemp",
	"device_vfdReadingPower",
	"device_vfdReadingBtu",
	"device_vfdReadingFilterLevel",
	"device_vfdReadingVoltage",
	"device_vfdReadingCurrent",
	"device_vfdReadingRunningHrs",
	"device_vfdReadingFireSignal",
	"device_vfdReadingLogtime",
	"device_vfdReadingVfdOnOffSource",
	"device_vfdReadingHumidity",
	"device_vfdAirQualityIndex",
	"device_vfdParticleMatter1",
	"device_vfdParticleMatter2p5",
	"device_vfdParticleMatter10",
	"device_vfdTotVolatileOrganicComp",
	"device_vfdAirQualityIndexComp",
	"device_vfdReadingSetCo2",
	"device_vfdReadingCo2Level",
	"device_vfdReadingFreshAirValve",
	"device_vfdReadingSupplyAir",
	"device_vfdReadingWaterPressure",
	"device_vfdReadingMinFreq",
	"device_vfdReadingMaxFreq",
	"device_vfdReadingTPControl",
}

// DefaultProfile returns the addressing of the CrossBowLab VFD-128 unit.
func DefaultProfile() DeviceProfile {
	attrs := make([]string, len(defaultAttributes))
	copy(attrs, defaultAttributes)
	return DeviceProfile{
		Operator:              "crossbow",
		NEName:                "CrossBowLab",
		NEVersion:             "VFD_005",
		NEID:                  "581",
		AgentID:               "581",
		SubSystemID:           "128",
		SubSystem:             "VFD",
		SubSystemName:         "VFD-128",
		OperationID:           "41061",
		UniqueID:              "SWAHVACAHU00000286",
		ManagedObjectClass:    "VFD",
		ManagedObjectInstance: "VFD-128",
		TopicPrefix:           "swadha",
		Attributes:            attrs,
		DefaultFrequency:      40,
		StatsQueryNum:         "8104",
		StatsKey:              "VFD_STATS_DATA",
		StatsRowLimit:         "20",
	}
}

// LoadDeviceProfile overlays the YAML file at path on DefaultProfile.
// An empty path yields the defaults.
func LoadDeviceProfile(path string) (DeviceProfile, error) {
	p := DefaultProfile()
	if strings.TrimSpace(path) == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return DeviceProfile{}, fmt.Errorf("read device profile %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return DeviceProfile{}, fmt.Errorf("parse device profile %q: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return DeviceProfile{}, fmt.Errorf("device profile %q: %w", path, err)
	}
	return p, nil
}

// Validate checks that every field the vendor requires is populated.
func (p DeviceProfile) Validate() error {
	required := map[string]string{
		"operator":                p.Operator,
		"ne_name":                 p.NEName,
		"ne_version":              p.NEVersion,
		"ne_id":                   p.NEID,
		"agent_id":                p.AgentID,
		"sub_system_id":           p.SubSystemID,
		"sub_system":              p.SubSystem,
		"sub_system_name":         p.SubSystemName,
		"operation_id":            p.OperationID,
		"unique_id":               p.UniqueID,
		"managed_object_class":    p.ManagedObjectClass,
		"managed_object_instance": p.ManagedObjectInstance,
		"topic_prefix":            p.TopicPrefix,
		"stats_query_num":         p.StatsQueryNum,
		"stats_key":               p.StatsKey,
		"stats_row_limit":         p.StatsRowLimit,
	}
	var missing []string
	for k, v := range required {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}
	if len(p.Attributes) == 0 {
		return errors.New("attributes must not be empty")
	}
	if p.DefaultFrequency <= 0 {
		return errors.New("default_frequency must be positive")
	}
	return nil
}

func (p DeviceProfile) topic(direction string) string {
	return p.TopicPrefix + "/" + p.UniqueID + "/" + p.SubSystem + "/" + direction
}

func (p DeviceProfile) attributeList() string {
	return strings.Join(p.Attributes, ",")
}

// setForm appends the SET envelope after the command specific fields.
func (p DeviceProfile) setForm(fields Form) Form {
	return fields.
		Add("requestType", "ElectricalMeters").
		Add("subRequestType", "ConfigureDataAtDevice").
		Add("username", p.Operator).
		Add("operationDoneBy", p.Operator).
		Add("neName", p.NEName).
		Add("neVersion", p.NEVersion).
		Add("neId", p.NEID).
		Add("agentId", p.AgentID).
		Add("subSystemId", p.SubSystemID).
		Add("subSystem", p.SubSystem).
		Add("operationName", "CONFIGURATION").
		Add("operationType", "SET").
		Add("operationId", p.OperationID).
		Add("uniqueId", p.UniqueID).
		Add("managedObjectClass", p.ManagedObjectClass).
		Add("managedObjectInstance", p.ManagedObjectInstance).
		Add("topic", p.topic("set")).
		Add("setQOS", "0").
		Add("retainSetTopic", "false").
		Add("deviceAttributes", p.attributeList()).
		Add("subSystemName", p.SubSystemName)
}

func (p DeviceProfile) getForm() Form {
	return Form{}.
		Add("operationDoneBy", p.Operator).
		Add("requestType", "ElectricalMeters").
		Add("subRequestType", "GetDataFromDevice").
		Add("username", p.Operator).
		Add("neId", p.NEID).
		Add("neName", p.NEName).
		Add("neVersion", p.NEVersion).
		Add("agentId", p.AgentID).
		Add("operationType", "CONFIGURATION").
		Add("operationId", p.OperationID).
		Add("operationName", "GET").
		Add("uniqueId", p.UniqueID).
		Add("subSystem", p.SubSystem).
		Add("subSystemId", p.SubSystemID).
		Add("topic", p.topic("get")).
		Add("getQOS", "0").
		Add("retainGetTopic", "false").
		Add("deviceAttributes", p.attributeList()).
		Add("subSystemName", p.SubSystemName)
}

func (p DeviceProfile) statsForm(from, to string) Form {
	return Form{}.
		Add("operationDoneBy", p.Operator).
		Add("requestType", "ElectricalMeters").
		Add("subRequestType", "refreshStatsData").
		Add("QueryNum", p.StatsQueryNum).
		Add("key", p.StatsKey).
		Add("Parm1", p.NEID).
		Add("Parm2", p.StatsRowLimit).
		Add("Parm3", from).
		Add("Parm4", to)
}
