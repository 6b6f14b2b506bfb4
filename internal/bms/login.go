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

const (
	pathDWREngine = "/dwr/engine.js"
	pathDWRStatus = "/dwr/call/plaincall/DWRBroadcast.getStatus.dwr"
)

// SessionManager performs the vendor login handshake and owns the shared
// session. Concurrent logins are not coalesced; the last one to finish wins.
type SessionManager struct {
	client    *Client
	store     SessionStore
	handshake bool
	log       *logger.Logger
}

// NewSessionManager wires a manager over client and store. When handshake
// is set, a successful login is followed by the DWR bootstrap calls the
// vendor web UI makes.
func NewSessionManager(client *Client, store SessionStore, handshake bool, log *logger.Logger) *SessionManager {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionManager{client: client, store: store, handshake: handshake, log: log}
}

// Login authenticates against the vendor and replaces the shared session.
func (m *SessionManager) Login(ctx context.Context, username, password string) (models.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return models.Session{}, invalidf("username and password are required")
	}

	form := Form{}.
		Add("requestType", "Authentication").
		Add("subRequestType", "login").
		Add("username", username).
		Add("password", password)

	rep, err := m.client.post(ctx, PathLogin, contentTypeForm, form.Encode(), nil)
	if err != nil {
		metrics.IncLogin(metrics.ResultUnreachable)
		m.log.Errorw("bms_login_unreachable", "username", username, "err", err)
		return models.Session{}, err
	}

	if err := loginRejection(rep); err != nil {
		metrics.IncLogin(metrics.ResultRejected)
		m.log.Warnw("bms_login_rejected", "username", username, "status", rep.status, "err", err)
		return models.Session{}, err
	}

	sess := sessionFromReply(rep)
	if !sess.Valid() {
		metrics.IncLogin(metrics.ResultRejected)
		m.log.Warnw("bms_login_no_token", "username", username, "status", rep.status)
		return models.Session{}, fmt.Errorf("%w: no %s in vendor reply", ErrAuth, primaryCookie)
	}

	if m.handshake {
		m.dwrHandshake(ctx, &sess)
	}

	sess.CreatedAt = time.Now().UTC()
	m.store.Set(sess)
	metrics.IncLogin(metrics.ResultSuccess)
	metrics.SetSessionActive(true)
	m.log.Infow("bms_login_succeeded", "username", username, "has_secondary", sess.Secondary != "")
	return sess, nil
}

// Current returns the held session, if any.
func (m *SessionManager) Current() (models.Session, bool) {
	return m.store.Current()
}

// Clear drops the held session.
func (m *SessionManager) Clear() {
	m.store.Clear()
	metrics.SetSessionActive(false)
	m.log.Infow("bms_session_cleared")
}

func loginRejection(rep *reply) error {
	if rep.status >= http.StatusBadRequest {
		return fmt.Errorf("%w: vendor http %d", ErrAuth, rep.status)
	}
	res := Normalize(rep.status, rep.contentType(), rep.body)
	if recovered(res) && !res.Success {
		return fmt.Errorf("%w: %s", ErrAuth, res.VendorMessage)
	}
	return nil
}

// dwrHandshake mirrors the vendor UI bootstrap. Failures are logged and
// ignored; only a secondary token found along the way is kept.
func (m *SessionManager) dwrHandshake(ctx context.Context, sess *models.Session) {
	rep, err := m.client.get(ctx, pathDWREngine, sess)
	if err != nil {
		m.log.Warnw("bms_dwr_engine_failed", "err", err)
	} else {
		m.adoptSecondary(sess, rep, pathDWREngine)
	}

	body := "callCount=1\nscriptSessionId=\npage=1\nhttpSessionId=" + sess.Primary + "\ns=0"
	rep, err = m.client.post(ctx, pathDWRStatus, contentTypeText, body, sess)
	if err != nil {
		m.log.Warnw("bms_dwr_status_failed", "err", err)
		return
	}
	m.adoptSecondary(sess, rep, pathDWRStatus)
}

func (m *SessionManager) adoptSecondary(sess *models.Session, rep *reply, path string) {
	if rep.status >= http.StatusBadRequest {
		m.log.Warnw("bms_dwr_http_error", "path", path, "status", rep.status)
		return
	}
	if tok := tokenFromReply(rep, secondaryCookie); tok != "" {
		sess.Secondary = tok
	}
}
