package bms

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bms_proxy/internal/logger"
	"bms_proxy/internal/metrics"
	"bms_proxy/internal/models"
)

// Operator facing messages for session failures.
const (
	MsgNoSession      = "No active session. Please login first."
	MsgSessionExpired = "Session expired. Please login again."
)

const maxErrorBodyChars = 256

// Forwarder sends typed commands to the vendor using the shared session.
type Forwarder struct {
	client  *Client
	store   SessionStore
	profile DeviceProfile
	log     *logger.Logger
}

// NewForwarder wires a forwarder. The profile supplies every addressing
// constant the vendor requires.
func NewForwarder(client *Client, store SessionStore, profile DeviceProfile, log *logger.Logger) *Forwarder {
	if log == nil {
		log = logger.Nop()
	}
	return &Forwarder{client: client, store: store, profile: profile, log: log}
}

// Profile returns the device addressing in use.
func (f *Forwarder) Profile() DeviceProfile {
	return f.profile
}

// Send validates cmd, attaches the session cookies and performs exactly one
// vendor call. A 401 clears the shared session.
func (f *Forwarder) Send(ctx context.Context, cmd Command) (models.VendorResult, error) {
	name := cmd.Name()
	if err := cmd.Validate(); err != nil {
		return models.VendorResult{}, err
	}
	sess, ok := f.store.Current()
	if !ok {
		return models.VendorResult{}, fmt.Errorf("%s: %w", name, ErrNoSession)
	}

	start := time.Now()
	rep, err := f.client.post(ctx, cmd.Path(), contentTypeForm, cmd.Form(f.profile).Encode(), &sess)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveVendorRequest(name, metrics.ResultUnreachable, elapsed)
		f.log.Errorw("bms_command_unreachable", "command", name, "elapsed_ms", elapsed.Milliseconds(), "err", err)
		return models.VendorResult{}, err
	}

	if rep.status == http.StatusUnauthorized {
		f.store.Clear()
		metrics.IncSessionExpired()
		metrics.SetSessionActive(false)
		metrics.ObserveVendorRequest(name, metrics.ResultExpired, elapsed)
		f.log.Warnw("bms_session_expired", "command", name)
		res := Normalize(rep.status, rep.contentType(), rep.body)
		res.Success = false
		res.Message = MsgSessionExpired
		return res, fmt.Errorf("%s: %w", name, ErrSessionExpired)
	}

	res := Normalize(rep.status, rep.contentType(), rep.body)
	switch {
	case recovered(res) && !res.Success:
		res.Message = "BMS Error: " + res.VendorMessage
		metrics.ObserveVendorRequest(name, metrics.ResultVendorError, elapsed)
		f.log.Warnw("bms_command_failed", "command", name, "vendor_status", res.VendorStatus,
			"vendor_message", res.VendorMessage, "vendor_status_code", res.VendorStatusCode)
		return res, &VendorError{
			Command:    name,
			HTTPStatus: rep.status,
			Status:     res.VendorStatus,
			StatusCode: res.VendorStatusCode,
			Message:    res.VendorMessage,
		}
	case !recovered(res) && rep.status >= http.StatusBadRequest:
		res.Message = "BMS Error: " + http.StatusText(rep.status)
		metrics.ObserveVendorRequest(name, metrics.ResultHTTPError, elapsed)
		f.log.Warnw("bms_command_http_error", "command", name, "status", rep.status)
		return res, &VendorError{
			Command:    name,
			HTTPStatus: rep.status,
			Message:    truncate(strings.TrimSpace(string(rep.body)), maxErrorBodyChars),
		}
	}

	if res.Success {
		res.Message = SuccessMessage(name)
	} else {
		res.Message = "BMS Error: " + orDefault(res.VendorMessage, "No message")
	}
	metrics.ObserveVendorRequest(name, metrics.ResultSuccess, elapsed)
	f.log.Infow("bms_command_sent", "command", name, "status", rep.status,
		"vendor_status", res.VendorStatus, "elapsed_ms", elapsed.Milliseconds())
	return res, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
