package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atendo/backend/internal/auth"
	"github.com/atendo/backend/internal/dashboard"
	"github.com/atendo/backend/internal/models"
	"github.com/atendo/backend/internal/models/dto"
	"github.com/atendo/backend/internal/storage"
)

const ellenPhone = "553172380072@s.whatsapp.net"

// memStore is an in-memory RecordStore keyed by tenant and phone.
type memStore struct {
	records     map[string]models.Record // phone → record
	updateCalls int
}

func newMemStore() *memStore {
	sector := "vendas"
	return &memStore{records: map[string]models.Record{
		ellenPhone: {
			Phone:        ellenPhone,
			TenantID:     "tenant_a",
			FullName:     "Ellen Viana",
			Email:        "daviemericko03@gmail.com",
			Status:       models.StatusPaused,
			Active:       true,
			LastActivity: time.Date(2025, 9, 13, 12, 1, 1, 0, time.UTC),
		},
		"5511987654321@s.whatsapp.net": {
			Phone:        "5511987654321@s.whatsapp.net",
			TenantID:     "tenant_b",
			FullName:     "João Silva",
			Status:       models.StatusActive,
			Sector:       &sector,
			Active:       true,
			LastActivity: time.Date(2025, 9, 14, 15, 20, 0, 0, time.UTC),
		},
	}}
}

func (m *memStore) ListByTenant(_ context.Context, tenantID string) ([]models.Record, error) {
	var out []models.Record
	for _, rec := range m.records {
		if rec.TenantID == tenantID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) ListAll(_ context.Context) ([]models.Record, error) {
	out := make([]models.Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func (m *memStore) GetByPhone(_ context.Context, tenantID, phone string) (models.Record, error) {
	rec, ok := m.records[phone]
	if !ok || rec.TenantID != tenantID {
		return models.Record{}, storage.ErrNotFound
	}
	return rec, nil
}

func (m *memStore) UpdateStatus(_ context.Context, tenantID, phone string, status models.Status, at time.Time) (models.Record, error) {
	m.updateCalls++
	rec, ok := m.records[phone]
	if !ok || rec.TenantID != tenantID {
		return models.Record{}, storage.ErrNotFound
	}
	rec.Status = status
	rec.LastActivity = at
	m.records[phone] = rec
	return rec, nil
}

func newDashboardFixture(t *testing.T, strictScope bool) (*httptest.Server, *memStore, *auth.TokenManager) {
	t.Helper()
	store := newMemStore()
	tokens := auth.NewTokenManager("test-secret", "atendo-backend", time.Hour)
	gateway := dashboard.New(store, time.Second, strictScope)

	mux := http.NewServeMux()
	NewDashboardHandler(gateway, tokens).Register(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, store, tokens
}

func tenantToken(t *testing.T, tokens *auth.TokenManager, tenantID string) string {
	t.Helper()
	token, err := tokens.Issue(
		models.Identity{ID: "1", Email: "admin@empresa.com"},
		models.Tenant{ID: tenantID},
	)
	require.NoError(t, err)
	return token
}

func doAuthed(t *testing.T, method, url, token, body string) (*http.Response, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestDashboard_RequiresToken(t *testing.T) {
	t.Parallel()

	ts, _, _ := newDashboardFixture(t, true)

	resp, env := doAuthed(t, http.MethodGet, ts.URL+"/api/dashboard-data", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", env.Error)
}

func TestDashboard_ListStrictScoping(t *testing.T) {
	t.Parallel()

	ts, _, tokens := newDashboardFixture(t, true)

	resp, env := doAuthed(t, http.MethodGet, ts.URL+"/api/dashboard-data", tenantToken(t, tokens, "tenant_a"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing dto.RecordList
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	assert.Equal(t, dashboard.ScopingStrict, listing.Scoping)
	assert.Empty(t, listing.Warning)
	require.Len(t, listing.Records, 1)
	assert.Equal(t, "tenant_a", listing.Records[0].TenantID)
}

func TestDashboard_ListDegradedIsLabeled(t *testing.T) {
	t.Parallel()

	ts, _, tokens := newDashboardFixture(t, false)

	resp, env := doAuthed(t, http.MethodGet, ts.URL+"/api/dashboard-data", tenantToken(t, tokens, "tenant_a"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing dto.RecordList
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	assert.Equal(t, dashboard.ScopingDegraded, listing.Scoping)
	assert.NotEmpty(t, listing.Warning)
	assert.Len(t, listing.Records, 2, "degraded mode returns unfiltered rows, labeled")
}

func TestDashboard_GetOwnTenantRecord(t *testing.T) {
	t.Parallel()

	ts, _, tokens := newDashboardFixture(t, true)

	resp, env := doAuthed(t, http.MethodGet, ts.URL+"/api/client/"+ellenPhone, tenantToken(t, tokens, "tenant_a"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec models.Record
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "Ellen Viana", rec.FullName)
}

// A record owned by another tenant is reported as not found, never as
// forbidden, so its existence does not leak.
func TestDashboard_GetCrossTenantIsNotFound(t *testing.T) {
	t.Parallel()

	ts, _, tokens := newDashboardFixture(t, true)

	resp, env := doAuthed(t, http.MethodGet, ts.URL+"/api/client/"+ellenPhone, tenantToken(t, tokens, "tenant_b"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", env.Error)
}

func TestDashboard_UpdateStatus(t *testing.T) {
	t.Parallel()

	ts, store, tokens := newDashboardFixture(t, true)

	before := store.records[ellenPhone].LastActivity
	resp, env := doAuthed(t, http.MethodPut, ts.URL+"/api/client/"+ellenPhone+"/status",
		tenantToken(t, tokens, "tenant_a"), `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec models.Record
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, models.StatusCompleted, rec.Status)
	assert.True(t, rec.LastActivity.After(before), "last activity must be stamped with the update")
}

func TestDashboard_UpdateStatusRejectsBadEnum(t *testing.T) {
	t.Parallel()

	ts, store, tokens := newDashboardFixture(t, true)

	resp, env := doAuthed(t, http.MethodPut, ts.URL+"/api/client/"+ellenPhone+"/status",
		tenantToken(t, tokens, "tenant_a"), `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_input", env.Error)
	assert.Equal(t, 0, store.updateCalls, "store must not be mutated")
	assert.Equal(t, models.StatusPaused, store.records[ellenPhone].Status, "record unchanged")
}

func TestDashboard_UpdateStatusCrossTenantIsNotFound(t *testing.T) {
	t.Parallel()

	ts, store, tokens := newDashboardFixture(t, true)

	resp, env := doAuthed(t, http.MethodPut, ts.URL+"/api/client/"+ellenPhone+"/status",
		tenantToken(t, tokens, "tenant_b"), `{"status":"active"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", env.Error)
	assert.Equal(t, models.StatusPaused, store.records[ellenPhone].Status, "record unchanged")
}

func TestDashboard_UnknownRecordIsNotFound(t *testing.T) {
	t.Parallel()

	ts, _, tokens := newDashboardFixture(t, true)

	resp, _ := doAuthed(t, http.MethodGet, ts.URL+"/api/client/000000@s.whatsapp.net", tenantToken(t, tokens, "tenant_a"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
