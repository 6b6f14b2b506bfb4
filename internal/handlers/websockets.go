package handlers

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12
	defaultInterval  = 2 * time.Second
	minInterval      = 100 * time.Millisecond
	maxInterval      = time.Minute
	maxIntervalMilli = 60_000
)

// wsEnvelope frames every message pushed to dashboard clients.
type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// upgrader builds a websocket upgrader that admits same-origin requests,
// requests without an Origin header, and the configured origins ("*" admits all).
func (h *Handler) upgrader() *websocket.Upgrader {
	allowed := h.opts.AllowedOrigins
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
				return true
			}
			return strings.HasSuffix(origin, "://"+r.Host)
		},
	}
}

// @Summary      Device snapshot stream
// @Description  Pushes {"type":"state","data":DeviceStatus} on connect and every interval.
// @Tags         monitoring
// @Param        interval     query  string  false  "Push period, e.g. 5s"
// @Param        interval_ms  query  int     false  "Push period in milliseconds"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	h.streamState(c.Request.Context(), conn, interval, done)
}

// streamState pushes the snapshot immediately and then every interval,
// pinging the client in between, until the reader or the request ends.
func (h *Handler) streamState(ctx context.Context, conn *websocket.Conn, interval time.Duration, done <-chan struct{}) {
	push := time.NewTicker(interval)
	defer push.Stop()
	keepalive := time.NewTicker(pingPeriod)
	defer keepalive.Stop()

	if err := h.sendState(ctx, conn); err != nil {
		h.wsInfo("ws_initial_write_failed", err)
		return
	}
	for {
		var err error
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-keepalive.C:
			err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		case <-push.C:
			err = h.sendState(ctx, conn)
		}
		if err != nil {
			h.wsInfo("ws_write_failed", err)
			return
		}
	}
}

func (h *Handler) wsInfo(event string, err error) {
	if h.log != nil {
		h.log.Infow(event, "err", err)
	}
}

// parseInterval reads ?interval=5s or ?interval_ms=5000 within
// [minInterval, maxInterval], falling back to the configured period.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= int(minInterval/time.Millisecond) && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return h.opts.WSInterval
}

// startReader drains client frames so pongs and closes are processed.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendState writes the cached snapshot. A storage error is reported to the
// client in the envelope and keeps the stream open.
func (h *Handler) sendState(ctx context.Context, conn *websocket.Conn) error {
	msg := wsEnvelope{Type: "state"}
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_state_failed", "err", err)
		}
		msg = wsEnvelope{Type: "error", Error: "failed to load device state"}
	} else {
		msg.Data = st
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
