package bms

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"bms_proxy/internal/logger"
)

// recordedRequest is what the fake vendor saw.
type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Cookie      string
	UserAgent   string
	Accept      string
	Body        string
}

type fakeVendor struct {
	mu       sync.Mutex
	requests []recordedRequest
	srv      *httptest.Server
}

func newFakeVendor(t *testing.T, h http.HandlerFunc) *fakeVendor {
	t.Helper()
	fv := &fakeVendor{}
	fv.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		fv.mu.Lock()
		fv.requests = append(fv.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Cookie:      r.Header.Get("Cookie"),
			UserAgent:   r.Header.Get("User-Agent"),
			Accept:      r.Header.Get("Accept"),
			Body:        string(b),
		})
		fv.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(fv.srv.Close)
	return fv
}

func (fv *fakeVendor) calls() []recordedRequest {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	out := make([]recordedRequest, len(fv.requests))
	copy(out, fv.requests)
	return out
}

func (fv *fakeVendor) client(timeout time.Duration) *Client {
	return NewClient(Config{BaseURL: fv.srv.URL + "/bms", Timeout: timeout}, logger.Nop())
}
