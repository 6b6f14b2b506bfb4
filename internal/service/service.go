package service

import (
	"context"
	"time"

	"bms_proxy/internal/bms"
	"bms_proxy/internal/logger"
	"bms_proxy/internal/models"
	"bms_proxy/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Control drives the vendor: session lifecycle and device commands.
type Control interface {
	Login(ctx context.Context, username, password string) (models.Session, error)
	Logout(ctx context.Context) error
	SetTemperature(ctx context.Context, p TempParams) (models.VendorResult, error)
	ControlAC(ctx context.Context, p ACParams) (models.VendorResult, error)
	SetScheduleStatus(ctx context.Context, p ScheduleStatusParams) (models.VendorResult, error)
	SetScheduleTime(ctx context.Context, p ScheduleTimeParams) (models.VendorResult, error)
	CurrentStatus(ctx context.Context) (models.VendorResult, *models.DeviceStatus, error)
	Stats(ctx context.Context, p StatsParams) (models.VendorResult, error)
}

// Monitoring exposes the last persisted device snapshot.
type Monitoring interface {
	GetState(ctx context.Context) (models.DeviceStatus, error)
}

// EventLog exposes the audit trail with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.CommandEvent, error)
}

// Poller refreshes the snapshot in the background until ctx is canceled.
type Poller interface {
	Run(ctx context.Context, interval time.Duration)
}

// Reports renders stats rows as downloadable files.
type Reports interface {
	ExportStats(ctx context.Context, p StatsParams, format string) (Export, error)
}

// VendorSessions is the subset of *bms.SessionManager the services use.
type VendorSessions interface {
	Login(ctx context.Context, username, password string) (models.Session, error)
	Current() (models.Session, bool)
	Clear()
}

// VendorForwarder is the subset of *bms.Forwarder the services use.
type VendorForwarder interface {
	Send(ctx context.Context, cmd bms.Command) (models.VendorResult, error)
}

type Service struct {
	Control
	Monitoring
	EventLog
	Poller
	Reports
	Authorization
}

// Deps carries everything NewService needs besides the repositories.
type Deps struct {
	Sessions  VendorSessions
	Forwarder VendorForwarder
	AuthKey   string
	AuthTTL   time.Duration
	Log       *logger.Logger
}

func NewService(repos *repository.Repository, d Deps) *Service {
	control := NewControlService(d.Sessions, d.Forwarder, repos.Snapshot, repos.EventRepo, d.Log)
	return &Service{
		Control:       control,
		Monitoring:    NewMonitoringService(repos.Snapshot),
		EventLog:      NewEventLogService(repos.EventRepo),
		Poller:        NewPollerService(d.Sessions, control, d.Log),
		Reports:       NewReportsService(control),
		Authorization: NewAuthService(repos.Operators, d.AuthKey, d.AuthTTL),
	}
}
