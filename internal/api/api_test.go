package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vplan-io/vplan-core/internal/infrastructure/config"
	"github.com/vplan-io/vplan-core/internal/infrastructure/logging"
	"github.com/vplan-io/vplan-core/internal/refresh"
	"github.com/vplan-io/vplan-core/internal/schedule"
	"github.com/vplan-io/vplan-core/internal/store"
)

const validDocument = `
version: 1.0.0
plan:
  name: my-house
  location: Home
  refresh_time: "00:30"
  groups:
    - name: porch
      devices:
        - room: Porch
          device: Front Light
      triggers:
        - days: [all]
          on_time: "19:30"
          off_time: "23:00"
          variation: none
`

// mockRepo is an in-memory store.Repository for handler tests.
type mockRepo struct {
	account *store.Account
	plans   map[string]*store.PlanRecord
}

func newMockRepo() *mockRepo {
	return &mockRepo{plans: make(map[string]*store.PlanRecord)}
}

func (m *mockRepo) GetAccount(_ context.Context) (*store.Account, error) {
	if m.account == nil {
		return nil, store.ErrAccountNotFound
	}
	return m.account, nil
}

func (m *mockRepo) SetAccount(_ context.Context, name, patToken string) error {
	now := time.Now().UTC()
	m.account = &store.Account{Name: name, PatToken: patToken, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (m *mockRepo) DeleteAccount(_ context.Context) error {
	if m.account == nil {
		return store.ErrAccountNotFound
	}
	m.account = nil
	return nil
}

func (m *mockRepo) ListPlans(_ context.Context) ([]store.PlanRecord, error) {
	var records []store.PlanRecord
	for _, record := range m.plans {
		records = append(records, *record)
	}
	return records, nil
}

func (m *mockRepo) GetPlan(_ context.Context, name string) (*store.PlanRecord, error) {
	record, ok := m.plans[name]
	if !ok {
		return nil, store.ErrPlanNotFound
	}
	return record, nil
}

func (m *mockRepo) CreatePlan(_ context.Context, name, document string) (*store.PlanRecord, error) {
	if _, exists := m.plans[name]; exists {
		return nil, store.ErrPlanExists
	}
	now := time.Now().UTC()
	record := &store.PlanRecord{Name: name, Document: document, CreatedAt: now, UpdatedAt: now}
	m.plans[name] = record
	return record, nil
}

func (m *mockRepo) UpdatePlan(_ context.Context, name, document string) (*store.PlanRecord, error) {
	record, ok := m.plans[name]
	if !ok {
		return nil, store.ErrPlanNotFound
	}
	record.Document = document
	record.UpdatedAt = time.Now().UTC()
	return record, nil
}

func (m *mockRepo) SetPlanEnabled(_ context.Context, name string, enabled bool) error {
	record, ok := m.plans[name]
	if !ok {
		return store.ErrPlanNotFound
	}
	record.Enabled = enabled
	return nil
}

func (m *mockRepo) DeletePlan(_ context.Context, name string) error {
	if _, ok := m.plans[name]; !ok {
		return store.ErrPlanNotFound
	}
	delete(m.plans, name)
	return nil
}

// mockRunner records pass requests and serves scripted results.
type mockRunner struct {
	passErr    error
	passCalls  []string
	toggleErr  error
	toggleCall struct {
		plan, group string
		toggles     int
	}
}

func (m *mockRunner) RunPass(_ context.Context, planName, trigger string) (*refresh.PassReport, error) {
	m.passCalls = append(m.passCalls, planName)
	if m.passErr != nil {
		return nil, m.passErr
	}
	return &refresh.PassReport{Plan: planName, Trigger: trigger}, nil
}

func (m *mockRunner) DryRun(_ context.Context, planName string, date schedule.Date) (*refresh.Preview, error) {
	return &refresh.Preview{Plan: planName, Date: date.String()}, nil
}

func (m *mockRunner) Toggle(_ context.Context, planName, groupName string, toggles int) error {
	m.toggleCall.plan = planName
	m.toggleCall.group = groupName
	m.toggleCall.toggles = toggles
	return m.toggleErr
}

// mockScheduler records cron maintenance calls.
type mockScheduler struct {
	scheduled   []string
	unscheduled []string
}

func (m *mockScheduler) SchedulePlan(planName, _ string) error {
	m.scheduled = append(m.scheduled, planName)
	return nil
}

func (m *mockScheduler) UnschedulePlan(planName string) {
	m.unscheduled = append(m.unscheduled, planName)
}

type testServer struct {
	handler   http.Handler
	repo      *mockRepo
	runner    *mockRunner
	scheduler *mockScheduler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := newMockRepo()
	runner := &mockRunner{}
	scheduler := &mockScheduler{}

	server, err := New(Deps{
		Config:    config.APIConfig{Host: "127.0.0.1", Port: 8080},
		Logger:    logging.Default(),
		Repo:      repo,
		Runner:    runner,
		Scheduler: scheduler,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	return &testServer{
		handler:   server.buildRouter(),
		repo:      repo,
		runner:    runner,
		scheduler: scheduler,
	}
}

func (ts *testServer) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestCreatePlan(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: validDocument})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	record := decodeBody[store.PlanRecord](t, rec)
	if record.Name != "my-house" {
		t.Errorf("plan name = %q, want from document", record.Name)
	}
	if record.Enabled {
		t.Error("new plans should start disabled")
	}

	// Same name again conflicts.
	rec = ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: validDocument})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", rec.Code)
	}
}

func TestCreatePlanInvalidDocument(t *testing.T) {
	ts := newTestServer(t)

	bad := strings.Replace(validDocument, "version: 1.0.0", "version: 9.0.0", 1)
	rec := ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: bad})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	apiErr := decodeBody[Error](t, rec)
	if apiErr.Code != ErrCodeValidation {
		t.Errorf("error code = %q, want %q", apiErr.Code, ErrCodeValidation)
	}
}

func TestGetPlanNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/v1/plans/ghost/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	apiErr := decodeBody[Error](t, rec)
	if apiErr.Code != ErrCodeNotFound {
		t.Errorf("error code = %q", apiErr.Code)
	}
}

func TestUpdatePlanNameMismatch(t *testing.T) {
	ts := newTestServer(t)
	ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: validDocument})

	rec := ts.request(t, http.MethodPut, "/api/v1/plans/other-house/", planRequest{Document: validDocument})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 on name mismatch", rec.Code)
	}
}

func TestEnableDisablePlan(t *testing.T) {
	ts := newTestServer(t)
	ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: validDocument})

	rec := ts.request(t, http.MethodPost, "/api/v1/plans/my-house/enable", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("enable status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !ts.repo.plans["my-house"].Enabled {
		t.Error("plan not enabled in store")
	}
	if len(ts.scheduler.scheduled) != 1 || ts.scheduler.scheduled[0] != "my-house" {
		t.Errorf("scheduled = %v", ts.scheduler.scheduled)
	}
	if len(ts.runner.passCalls) != 1 {
		t.Errorf("enable should trigger an immediate pass, got %v", ts.runner.passCalls)
	}

	rec = ts.request(t, http.MethodPost, "/api/v1/plans/my-house/disable", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("disable status = %d", rec.Code)
	}
	if ts.repo.plans["my-house"].Enabled {
		t.Error("plan still enabled in store")
	}
	if len(ts.scheduler.unscheduled) != 1 {
		t.Errorf("unscheduled = %v", ts.scheduler.unscheduled)
	}
}

func TestRefreshPlanBusy(t *testing.T) {
	ts := newTestServer(t)
	ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: validDocument})
	ts.runner.passErr = refresh.ErrBusy

	rec := ts.request(t, http.MethodPost, "/api/v1/plans/my-house/refresh", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 when a pass is already running", rec.Code)
	}
}

func TestDeletePlanTearsDown(t *testing.T) {
	ts := newTestServer(t)
	ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: validDocument})
	ts.request(t, http.MethodPost, "/api/v1/plans/my-house/enable", nil)
	ts.runner.passCalls = nil

	rec := ts.request(t, http.MethodDelete, "/api/v1/plans/my-house/", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if _, exists := ts.repo.plans["my-house"]; exists {
		t.Error("plan still in store")
	}
	if len(ts.runner.passCalls) != 1 {
		t.Errorf("delete should run a teardown pass, got %v", ts.runner.passCalls)
	}
	if len(ts.scheduler.unscheduled) == 0 {
		t.Error("delete should remove the cron entry")
	}
}

func TestDeletePlanSurvivesTeardownFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: validDocument})
	ts.runner.passErr = refresh.ErrBusy

	rec := ts.request(t, http.MethodDelete, "/api/v1/plans/my-house/", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, teardown failure must not block the delete", rec.Code)
	}
}

func TestSchedulePreview(t *testing.T) {
	ts := newTestServer(t)
	ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: validDocument})

	rec := ts.request(t, http.MethodGet, "/api/v1/plans/my-house/schedule?date=2026-07-04", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	preview := decodeBody[refresh.Preview](t, rec)
	if preview.Date != "2026-07-04" {
		t.Errorf("preview date = %q", preview.Date)
	}

	rec = ts.request(t, http.MethodGet, "/api/v1/plans/my-house/schedule?date=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestTestPlan(t *testing.T) {
	ts := newTestServer(t)
	ts.request(t, http.MethodPost, "/api/v1/plans/", planRequest{Document: validDocument})

	rec := ts.request(t, http.MethodPost, "/api/v1/plans/my-house/test", testRequest{Group: "porch", Toggles: 3})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ts.runner.toggleCall.group != "porch" || ts.runner.toggleCall.toggles != 3 {
		t.Errorf("toggle call = %+v", ts.runner.toggleCall)
	}

	rec = ts.request(t, http.MethodPost, "/api/v1/plans/my-house/test", testRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing group status = %d, want 400", rec.Code)
	}
}

func TestAccountTokenNeverEchoed(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPut, "/api/v1/account/", accountRequest{PatToken: "secret-token"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-token") {
		t.Fatal("PAT token leaked into the response")
	}

	resp := decodeBody[accountResponse](t, rec)
	if resp.Name != "default" {
		t.Errorf("name = %q, want default when omitted", resp.Name)
	}

	rec = ts.request(t, http.MethodGet, "/api/v1/account/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-token") {
		t.Fatal("PAT token leaked into the get response")
	}
}

func TestAccountMissing(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/v1/account/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get status = %d, want 404", rec.Code)
	}
	rec = ts.request(t, http.MethodDelete, "/api/v1/account/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete status = %d, want 404", rec.Code)
	}

	rec = ts.request(t, http.MethodPut, "/api/v1/account/", accountRequest{Name: "default"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("put without token status = %d, want 400", rec.Code)
	}
}

func TestVersionAndRequestID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/v1/version", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("responses should carry a request id")
	}
	body := decodeBody[map[string]string](t, rec)
	if body["version"] != "test" {
		t.Errorf("version = %q", body["version"])
	}
}
