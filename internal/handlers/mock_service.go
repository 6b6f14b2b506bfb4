package handlers

import (
	"context"
	"net/http"

	"bms_proxy/internal/models"
	"bms_proxy/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockControl struct {
	session  models.Session
	loginErr error
	result   models.VendorResult
	err      error
	device   *models.DeviceStatus

	lastUsername       string
	lastPassword       string
	logoutCalls        int
	lastTemp           service.TempParams
	lastAC             service.ACParams
	lastScheduleStatus service.ScheduleStatusParams
	lastScheduleTime   service.ScheduleTimeParams
	lastStats          service.StatsParams
	calls              int
}

func (m *mockControl) Login(ctx context.Context, username, password string) (models.Session, error) {
	m.lastUsername, m.lastPassword = username, password
	return m.session, m.loginErr
}

func (m *mockControl) Logout(ctx context.Context) error {
	m.logoutCalls++
	return nil
}

func (m *mockControl) SetTemperature(ctx context.Context, p service.TempParams) (models.VendorResult, error) {
	m.calls++
	m.lastTemp = p
	return m.result, m.err
}

func (m *mockControl) ControlAC(ctx context.Context, p service.ACParams) (models.VendorResult, error) {
	m.calls++
	m.lastAC = p
	return m.result, m.err
}

func (m *mockControl) SetScheduleStatus(ctx context.Context, p service.ScheduleStatusParams) (models.VendorResult, error) {
	m.calls++
	m.lastScheduleStatus = p
	return m.result, m.err
}

func (m *mockControl) SetScheduleTime(ctx context.Context, p service.ScheduleTimeParams) (models.VendorResult, error) {
	m.calls++
	m.lastScheduleTime = p
	return m.result, m.err
}

func (m *mockControl) CurrentStatus(ctx context.Context) (models.VendorResult, *models.DeviceStatus, error) {
	m.calls++
	return m.result, m.device, m.err
}

func (m *mockControl) Stats(ctx context.Context, p service.StatsParams) (models.VendorResult, error) {
	m.calls++
	m.lastStats = p
	return m.result, m.err
}

type mockMonitoring struct {
	state models.DeviceStatus
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.DeviceStatus, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp       []models.CommandEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.CommandEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockReports struct {
	out        service.Export
	err        error
	lastParams service.StatsParams
	lastFormat string
}

func (m *mockReports) ExportStats(ctx context.Context, p service.StatsParams, format string) (service.Export, error) {
	m.lastParams, m.lastFormat = p, format
	return m.out, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWith(s, Options{})
}

func newTestRouterWith(s *service.Service, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil, opts).InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
