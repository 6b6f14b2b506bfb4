package service

import (
	"context"
	"errors"
	"time"

	"bms_proxy/internal/bms"
	"bms_proxy/internal/logger"
	"bms_proxy/internal/metrics"
	"bms_proxy/internal/models"
)

type statusReader interface {
	CurrentStatus(ctx context.Context) (models.VendorResult, *models.DeviceStatus, error)
}

type sessionChecker interface {
	Current() (models.Session, bool)
}

// PollerService periodically reads the device while a vendor session is held.
type PollerService struct {
	sessions sessionChecker
	status   statusReader
	log      *logger.Logger
}

func NewPollerService(sessions sessionChecker, status statusReader, log *logger.Logger) *PollerService {
	if log == nil {
		log = logger.Nop()
	}
	return &PollerService{sessions: sessions, status: status, log: log}
}

// Run ticks at interval until ctx is canceled. A non-positive interval
// disables polling.
func (p *PollerService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		p.log.Infow("poller_disabled")
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.poll(ctx)
		}
	}
}

func (p *PollerService) poll(ctx context.Context) {
	if _, ok := p.sessions.Current(); !ok {
		metrics.IncPoll(metrics.ResultSkipped)
		return
	}
	res, st, err := p.status.CurrentStatus(ctx)
	switch {
	case err == nil && st != nil:
		metrics.IncPoll(metrics.ResultSuccess)
	case err == nil:
		metrics.IncPoll(metrics.ResultVendorError)
		p.log.Warnw("poll_no_device_data", "vendor_status", res.VendorStatus)
	case errors.Is(err, bms.ErrNoSession), errors.Is(err, bms.ErrSessionExpired):
		metrics.IncPoll(metrics.ResultExpired)
		p.log.Infow("poll_session_lost", "err", err)
	case errors.Is(err, bms.ErrVendorUnreachable):
		metrics.IncPoll(metrics.ResultUnreachable)
		p.log.Warnw("poll_unreachable", "err", err)
	default:
		metrics.IncPoll(metrics.ResultVendorError)
		p.log.Warnw("poll_failed", "err", err)
	}
}
