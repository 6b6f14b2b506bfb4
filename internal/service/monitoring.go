package service

import (
	"context"
	"time"

	"bms_proxy/internal/models"
	"bms_proxy/internal/repository"
)

const modeUnknown = "Unknown"

type MonitoringService struct {
	snapshots repository.SnapshotRepo
}

func NewMonitoringService(snapshots repository.SnapshotRepo) *MonitoringService {
	return &MonitoringService{snapshots: snapshots}
}

// GetState returns the latest persisted snapshot, or a baseline one when
// the device has never been read.
func (s *MonitoringService) GetState(ctx context.Context) (models.DeviceStatus, error) {
	st, err := s.snapshots.Load(ctx)
	if err != nil {
		return models.DeviceStatus{}, err
	}
	if st.ID == 0 {
		return baselineSnapshot(), nil
	}
	st.UpdatedAt = toUTC(st.UpdatedAt)
	return st, nil
}

func baselineSnapshot() models.DeviceStatus {
	return models.DeviceStatus{
		ID:        1,
		Mode:      modeUnknown,
		UpdatedAt: time.Now().UTC(),
	}
}

func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
