package handlers

import (
	"context"
	"sync"
	"time"

	"reclaim_control/internal/models"
	"reclaim_control/internal/service"

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
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockBoost struct {
	result     models.BoostCommandResult
	fromErr    error
	targets    []models.BoostTarget
	lastFrom   models.BoostStatus
	fromCalled int
}

func (m *mockBoost) Toggle(_ context.Context, target models.BoostTarget) models.BoostCommandResult {
	m.targets = append(m.targets, target)
	return m.result
}
func (m *mockBoost) ToggleFrom(_ context.Context, from models.BoostStatus) (models.BoostCommandResult, error) {
	m.fromCalled++
	m.lastFrom = from
	if m.fromErr != nil {
		return models.BoostCommandResult{}, m.fromErr
	}
	return m.result, nil
}

type mockMonitoring struct {
	mu     sync.Mutex
	state  models.DeviceSnapshot
	err    error
	cached bool
}

func (m *mockMonitoring) GetState(_ context.Context) (models.DeviceSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.err
}
func (m *mockMonitoring) Cached() (models.DeviceSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.cached
}

type mockHistory struct {
	cols      models.HistoryColumns
	tables    []string
	row       models.HistoryRow
	deleted   int64
	err       error
	lastQuery models.HistoryQuery
	lastStart int64
	lastEnd   int64
}

func (m *mockHistory) Query(_ context.Context, q models.HistoryQuery) (models.HistoryColumns, error) {
	m.lastQuery = q
	return m.cols, m.err
}
func (m *mockHistory) Tables(context.Context) ([]string, error) { return m.tables, m.err }
func (m *mockHistory) AddTestData(context.Context) (models.HistoryRow, error) {
	return m.row, m.err
}
func (m *mockHistory) DeleteRange(_ context.Context, start, end int64) (int64, error) {
	m.lastStart, m.lastEnd = start, end
	return m.deleted, m.err
}
func (m *mockHistory) Record(context.Context, models.DeviceSnapshot) (models.HistoryRow, error) {
	return m.row, m.err
}
func (m *mockHistory) DeleteBefore(context.Context, int64) (int64, error) { return m.deleted, m.err }

type mockRecorder struct {
	startErr     error
	stopErr      error
	status       service.RecorderStatus
	lastInterval time.Duration
}

func (m *mockRecorder) Start(interval time.Duration) error {
	m.lastInterval = interval
	return m.startErr
}
func (m *mockRecorder) Stop() error                    { return m.stopErr }
func (m *mockRecorder) Status() service.RecorderStatus { return m.status }

type mockEventLog struct {
	resp     []models.BoostEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.BoostEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWithAuth(s, false)
}

func newTestRouterWithAuth(s *service.Service, requireAuth bool) *gin.Engine {
	h := NewHandler(s, nil, requireAuth)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
