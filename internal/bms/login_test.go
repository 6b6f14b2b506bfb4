package bms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"bms_proxy/internal/logger"
	"bms_proxy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_TokenFromSetCookie(t *testing.T) {
	fv := newFakeVendor(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/bms"})
		http.SetCookie(w, &http.Cookie{Name: "DWRSESSIONID", Value: "dwr9"})
		w.WriteHeader(http.StatusOK)
	})
	store := NewMemoryStore()
	m := NewSessionManager(fv.client(time.Second), store, false, logger.Nop())

	sess, err := m.Login(context.Background(), "crossbow", "pw")
	require.NoError(t, err)
	assert.Equal(t, "abc123", sess.Primary)
	assert.Equal(t, "dwr9", sess.Secondary)

	cur, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "abc123", cur.Primary)

	calls := fv.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/bms/login", calls[0].Path)
	assert.Equal(t, "application/x-www-form-urlencoded", calls[0].ContentType)
	assert.Equal(t, DefaultUserAgent, calls[0].UserAgent)
	assert.Equal(t, acceptHeader, calls[0].Accept)
	assert.Empty(t, calls[0].Cookie)

	form, err := url.ParseQuery(calls[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "Authentication", form.Get("requestType"))
	assert.Equal(t, "login", form.Get("subRequestType"))
	assert.Equal(t, "crossbow", form.Get("username"))
	assert.Equal(t, "pw", form.Get("password"))
}

func TestLogin_TokenFromBody(t *testing.T) {
	cases := map[string]string{
		"js_assignment":   `<script>var JSESSIONID = "Y42";</script>`,
		"document_cookie": `<script>document.cookie = "JSESSIONID=Y42; path=/bms";</script>`,
		"single_quotes":   `<script>jsessionid='Y42'</script>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fv := newFakeVendor(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html>" + body + "</html>"))
			})
			m := NewSessionManager(fv.client(time.Second), NewMemoryStore(), false, logger.Nop())
			sess, err := m.Login(context.Background(), "u", "p")
			require.NoError(t, err)
			assert.Equal(t, "Y42", sess.Primary)
			assert.Empty(t, sess.Secondary)
		})
	}
}

func TestLogin_TokenFromLocationRedirect(t *testing.T) {
	fv := newFakeVendor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/bms/home.jsp;jsessionid=LOC77?x=1")
		w.WriteHeader(http.StatusFound)
	})
	m := NewSessionManager(fv.client(time.Second), NewMemoryStore(), false, logger.Nop())

	sess, err := m.Login(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "LOC77", sess.Primary)
	// redirect must not be followed
	assert.Len(t, fv.calls(), 1)
}

func TestLogin_SetCookieWinsOverBody(t *testing.T) {
	fv := newFakeVendor(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "from-header"})
		_, _ = w.Write([]byte(`<script>JSESSIONID="from-body"</script>`))
	})
	m := NewSessionManager(fv.client(time.Second), NewMemoryStore(), false, logger.Nop())
	sess, err := m.Login(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "from-header", sess.Primary)
}

func TestLogin_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"no_token", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>Login page</html>"))
		}},
		{"vendor_failure_status", func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc"})
			_, _ = w.Write([]byte(`{"status":"Failure","message":"Invalid credentials"}`))
		}},
		{"http_unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fv := newFakeVendor(t, tc.handler)
			store := NewMemoryStore()
			m := NewSessionManager(fv.client(time.Second), store, false, logger.Nop())

			_, err := m.Login(context.Background(), "u", "bad")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAuth), "got %v", err)
			_, ok := store.Current()
			assert.False(t, ok)
		})
	}
}

func TestLogin_FailureKeepsPreviousSession(t *testing.T) {
	fv := newFakeVendor(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"Failure","message":"locked"}`))
	})
	store := NewMemoryStore()
	store.Set(models.Session{Primary: "old"})
	m := NewSessionManager(fv.client(time.Second), store, false, logger.Nop())

	_, err := m.Login(context.Background(), "u", "p")
	require.ErrorIs(t, err, ErrAuth)
	cur, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "old", cur.Primary)
}

func TestLogin_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: base, Timeout: time.Second}, logger.Nop())
	m := NewSessionManager(c, NewMemoryStore(), false, logger.Nop())
	_, err := m.Login(context.Background(), "u", "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVendorUnreachable)
	assert.False(t, errors.Is(err, ErrAuth))
}

func TestLogin_RequiresCredentials(t *testing.T) {
	m := NewSessionManager(NewClient(Config{}, nil), NewMemoryStore(), false, nil)
	_, err := m.Login(context.Background(), " ", "")
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestLogin_DWRHandshakeAdoptsSecondary(t *testing.T) {
	fv := newFakeVendor(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bms/login":
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "J1"})
		case "/bms/dwr/engine.js":
			_, _ = w.Write([]byte("dwr.engine._origScriptSessionId = 'xyz';"))
		case "/bms/dwr/call/plaincall/DWRBroadcast.getStatus.dwr":
			http.SetCookie(w, &http.Cookie{Name: "DWRSESSIONID", Value: "D2"})
		}
	})
	m := NewSessionManager(fv.client(time.Second), NewMemoryStore(), true, logger.Nop())

	sess, err := m.Login(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "J1", sess.Primary)
	assert.Equal(t, "D2", sess.Secondary)

	calls := fv.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodGet, calls[1].Method)
	assert.Equal(t, "JSESSIONID=J1", calls[1].Cookie)
	assert.Equal(t, "text/plain", calls[2].ContentType)
	assert.Equal(t, "callCount=1\nscriptSessionId=\npage=1\nhttpSessionId=J1\ns=0", calls[2].Body)
}

func TestLogin_DWRHandshakeFailureIgnored(t *testing.T) {
	fv := newFakeVendor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bms/login" {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "J1"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	m := NewSessionManager(fv.client(time.Second), NewMemoryStore(), true, logger.Nop())

	sess, err := m.Login(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "J1", sess.Primary)
	assert.Empty(t, sess.Secondary)
}

func TestLogin_LastWriterWins(t *testing.T) {
	var n atomic.Int32
	fv := newFakeVendor(t, func(w http.ResponseWriter, r *http.Request) {
		i := n.Add(1)
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: []string{"first", "second"}[i-1]})
	})
	store := NewMemoryStore()
	m := NewSessionManager(fv.client(time.Second), store, false, logger.Nop())

	_, err := m.Login(context.Background(), "u", "p")
	require.NoError(t, err)
	_, err = m.Login(context.Background(), "u", "p")
	require.NoError(t, err)

	cur, _ := m.Current()
	assert.Equal(t, "second", cur.Primary)

	m.Clear()
	_, ok := m.Current()
	assert.False(t, ok)
}
