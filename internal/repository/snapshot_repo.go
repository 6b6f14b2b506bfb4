package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"bms_proxy/internal/models"
)

type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite {
	return &SnapshotSQLite{db: db}
}

const (
	snapshotRowID = 1

	upsertSnapshotSQL = `
		INSERT INTO device_snapshot (id, mode, ac_on, set_temp_c, return_air_c, frequency_hz, power_kw, humidity,
			schedule_on, schedule_on_time, schedule_off_time, device_log_time, readings, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode=excluded.mode,
			ac_on=excluded.ac_on,
			set_temp_c=excluded.set_temp_c,
			return_air_c=excluded.return_air_c,
			frequency_hz=excluded.frequency_hz,
			power_kw=excluded.power_kw,
			humidity=excluded.humidity,
			schedule_on=excluded.schedule_on,
			schedule_on_time=excluded.schedule_on_time,
			schedule_off_time=excluded.schedule_off_time,
			device_log_time=excluded.device_log_time,
			readings=excluded.readings,
			updated_at=excluded.updated_at
	`

	selectSnapshotSQL = `
		SELECT id, mode, ac_on, set_temp_c, return_air_c, frequency_hz, power_kw, humidity,
			schedule_on, schedule_on_time, schedule_off_time, device_log_time, readings, updated_at
		FROM device_snapshot WHERE id=?
	`
)

func marshalReadings(r map[string]string) (string, error) {
	if len(r) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalReadings(s string) (map[string]string, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var r map[string]string
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, err
	}
	return r, nil
}

// Save upserts the single device_snapshot row.
func (r *SnapshotSQLite) Save(ctx context.Context, s models.DeviceStatus) error {
	readings, err := marshalReadings(s.Readings)
	if err != nil {
		return err
	}

	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err = r.db.ExecContext(ctx, upsertSnapshotSQL,
		snapshotRowID,
		s.Mode,
		s.ACOn,
		s.SetTempC,
		s.ReturnAirC,
		s.FrequencyHz,
		s.PowerKW,
		s.Humidity,
		s.ScheduleOn,
		s.ScheduleOnTime,
		s.ScheduleOffTime,
		s.DeviceLogTime,
		readings,
		ts,
	)
	return err
}

// Load returns the stored snapshot, or the zero value when the poller has
// not written one yet.
func (r *SnapshotSQLite) Load(ctx context.Context) (models.DeviceStatus, error) {
	row := r.db.QueryRowContext(ctx, selectSnapshotSQL, snapshotRowID)

	var s models.DeviceStatus
	var readings string
	if err := row.Scan(
		&s.ID,
		&s.Mode,
		&s.ACOn,
		&s.SetTempC,
		&s.ReturnAirC,
		&s.FrequencyHz,
		&s.PowerKW,
		&s.Humidity,
		&s.ScheduleOn,
		&s.ScheduleOnTime,
		&s.ScheduleOffTime,
		&s.DeviceLogTime,
		&readings,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeviceStatus{}, nil
		}
		return models.DeviceStatus{}, err
	}

	m, err := unmarshalReadings(readings)
	if err != nil {
		return models.DeviceStatus{}, err
	}
	s.Readings = m
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
