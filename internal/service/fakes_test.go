package service

import (
	"context"
	"sync"
	"time"

	"bms_proxy/internal/bms"
	"bms_proxy/internal/models"
)

type fakeEventRepo struct {
	mu        sync.Mutex
	appended  []models.CommandEvent
	appendErr error

	gotFrom time.Time
	gotTo   time.Time
	gotType string
	events  []models.CommandEvent
	listErr error
	calls   int
}

func (f *fakeEventRepo) Append(_ context.Context, e models.CommandEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.CommandEvent, error) {
	f.calls++
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.events, f.listErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

type fakeSnapshotRepo struct {
	mu      sync.Mutex
	saved   []models.DeviceStatus
	saveErr error
	loaded  models.DeviceStatus
	loadErr error
}

func (f *fakeSnapshotRepo) Save(_ context.Context, s models.DeviceStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return f.saveErr
}

func (f *fakeSnapshotRepo) Load(context.Context) (models.DeviceStatus, error) {
	return f.loaded, f.loadErr
}

type fakeSessions struct {
	mu       sync.Mutex
	session  models.Session
	has      bool
	loginErr error
	cleared  int
}

func (f *fakeSessions) Login(_ context.Context, username, password string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	f.session = models.Session{Primary: "J-" + username}
	f.has = true
	return f.session, nil
}

func (f *fakeSessions) Current() (models.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.has
}

func (f *fakeSessions) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = models.Session{}
	f.has = false
	f.cleared++
}

type fakeForwarder struct {
	mu   sync.Mutex
	sent []bms.Command
	res  models.VendorResult
	err  error
}

func (f *fakeForwarder) Send(_ context.Context, cmd bms.Command) (models.VendorResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cmd)
	return f.res, f.err
}

func successResult(data any) models.VendorResult {
	return models.VendorResult{
		HTTPStatus:   200,
		Success:      true,
		VendorStatus: "Success",
		Data:         data,
	}
}
