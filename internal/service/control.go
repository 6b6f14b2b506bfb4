package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bms_proxy/internal/bms"
	"bms_proxy/internal/logger"
	"bms_proxy/internal/models"
	"bms_proxy/internal/repository"

	"github.com/google/uuid"
)

// Audit event types.
const (
	EventLogin          = "LOGIN"
	EventLogout         = "LOGOUT"
	EventSetTemp        = "SET_TEMP"
	EventControlAC      = "CONTROL_AC"
	EventScheduleStatus = "SCHEDULE_STATUS"
	EventScheduleTime   = "SCHEDULE_TIME"
	EventSessionExpired = "SESSION_EXPIRED"
	EventVendorError    = "VENDOR_ERROR"
)

type ControlService struct {
	sessions  VendorSessions
	forwarder VendorForwarder
	snapshots repository.SnapshotRepo
	events    repository.EventRepo
	log       *logger.Logger
}

func NewControlService(
	sessions VendorSessions,
	forwarder VendorForwarder,
	snapshots repository.SnapshotRepo,
	events repository.EventRepo,
	log *logger.Logger,
) *ControlService {
	if log == nil {
		log = logger.Nop()
	}
	return &ControlService{
		sessions:  sessions,
		forwarder: forwarder,
		snapshots: snapshots,
		events:    events,
		log:       log,
	}
}

// Login authenticates against the vendor and replaces the shared session.
func (s *ControlService) Login(ctx context.Context, username, password string) (models.Session, error) {
	sess, err := s.sessions.Login(ctx, username, password)
	if err != nil {
		return models.Session{}, err
	}
	s.audit(ctx, EventLogin, "Vendor session established", map[string]any{
		"username":  username,
		"secondary": sess.Secondary != "",
	})
	return sess, nil
}

// Logout drops the shared session. It never calls the vendor.
func (s *ControlService) Logout(ctx context.Context) error {
	_, had := s.sessions.Current()
	s.sessions.Clear()
	s.audit(ctx, EventLogout, "Vendor session cleared", map[string]any{"had_session": had})
	return nil
}

func (s *ControlService) SetTemperature(ctx context.Context, p TempParams) (models.VendorResult, error) {
	return s.send(ctx, bms.SetTemperature{Celsius: p.Celsius}, EventSetTemp,
		fmt.Sprintf("Set temperature to %g°C", p.Celsius),
		map[string]any{"celsius": p.Celsius})
}

func (s *ControlService) ControlAC(ctx context.Context, p ACParams) (models.VendorResult, error) {
	desc := "AC turned off"
	if p.On {
		desc = "AC turned on"
	}
	return s.send(ctx, bms.ControlAc{On: p.On, Frequency: p.Frequency}, EventControlAC, desc,
		map[string]any{"on": p.On, "frequency": p.Frequency})
}

func (s *ControlService) SetScheduleStatus(ctx context.Context, p ScheduleStatusParams) (models.VendorResult, error) {
	desc := "Schedule disabled"
	if p.Enabled {
		desc = "Schedule enabled"
	}
	return s.send(ctx, bms.SetScheduleStatus{Enabled: p.Enabled, Frequency: p.Frequency}, EventScheduleStatus, desc,
		map[string]any{"enabled": p.Enabled, "frequency": p.Frequency})
}

func (s *ControlService) SetScheduleTime(ctx context.Context, p ScheduleTimeParams) (models.VendorResult, error) {
	cmd := bms.SetScheduleTime{Enabled: p.Enabled, OnTime: p.OnTime, OffTime: p.OffTime, Frequency: p.Frequency}
	return s.send(ctx, cmd, EventScheduleTime,
		fmt.Sprintf("Schedule set to %s-%s", p.OnTime, p.OffTime),
		map[string]any{"enabled": p.Enabled, "on_time": p.OnTime, "off_time": p.OffTime})
}

// CurrentStatus reads the device, persisting the parsed snapshot when the
// vendor reply carries one. A reply without device data yields a nil snapshot.
func (s *ControlService) CurrentStatus(ctx context.Context) (models.VendorResult, *models.DeviceStatus, error) {
	res, err := s.send(ctx, bms.GetCurrentStatus{}, "", "", nil)
	if err != nil || !res.Success {
		return res, nil, err
	}

	st, perr := bms.ParseDeviceStatus(res.Data)
	if perr != nil {
		s.log.Warnw("device_status_unparsed", "err", perr)
		return res, nil, nil
	}
	if err := s.snapshots.Save(ctx, st); err != nil {
		s.log.Errorw("snapshot_save_failed", "err", err)
	}
	return res, &st, nil
}

func (s *ControlService) Stats(ctx context.Context, p StatsParams) (models.VendorResult, error) {
	return s.send(ctx, bms.GetStats{From: p.From, To: p.To}, "", "", nil)
}

// send forwards cmd and records the outcome. An empty evType skips the
// success audit entry for read-only commands.
func (s *ControlService) send(ctx context.Context, cmd bms.Command, evType, desc string, meta map[string]any) (models.VendorResult, error) {
	res, err := s.forwarder.Send(ctx, cmd)
	switch {
	case err == nil:
		if evType != "" && res.Success {
			s.audit(ctx, evType, desc, meta)
		}
	case errors.Is(err, bms.ErrSessionExpired):
		s.audit(ctx, EventSessionExpired, "Vendor session expired", map[string]any{"command": cmd.Name()})
	case errors.Is(err, bms.ErrVendorLogic):
		s.audit(ctx, EventVendorError, bms.FailureMessage(cmd.Name()), map[string]any{
			"command":        cmd.Name(),
			"vendor_status":  res.VendorStatus,
			"vendor_message": res.VendorMessage,
			"http_status":    res.HTTPStatus,
		})
	}
	return res, err
}

// audit appends an event. Storage failures are logged, never surfaced.
func (s *ControlService) audit(ctx context.Context, typ, desc string, meta map[string]any) {
	if s.events == nil {
		return
	}
	err := s.events.Append(ctx, models.CommandEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Errorw("audit_append_failed", "type", typ, "err", err)
	}
}
