package incidents

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo Repository) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", NewHandler(NewService(repo)).RegisterRoutes)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHandler_CreateIncident(t *testing.T) {
	h := newTestRouter(newMockRepository())

	rec := doRequest(t, h, http.MethodPost, "/api/incidents",
		`{"title":"API latency","service":"API","severity":"SEV3","status":"OPEN"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "API latency", body["title"])
	assert.NotEmpty(t, body["id"])
	assert.Contains(t, body, "owner")
	assert.Nil(t, body["owner"])
	assert.Contains(t, body, "createdAt")
	assert.Contains(t, body, "updatedAt")
	assert.NotContains(t, body, "data", "create returns the bare record")
}

func TestHandler_CreateIncident_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "malformed json",
			body:    `{"title":`,
			wantMsg: "invalid json",
		},
		{
			name:    "validation",
			body:    `{"title":"","service":"API","severity":"SEV7","status":"OPEN"}`,
			wantMsg: "Title is required, Severity must be one of: SEV1, SEV2, SEV3, SEV4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(newMockRepository())
			rec := doRequest(t, h, http.MethodPost, "/api/incidents", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
		})
	}
}

func TestHandler_CreateIncident_StoreFailure(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = errDatabase
	h := newTestRouter(repo)

	rec := doRequest(t, h, http.MethodPost, "/api/incidents",
		`{"title":"x","service":"API","severity":"SEV3","status":"OPEN"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to create incident", decodeError(t, rec))
}

func TestHandler_GetIncident(t *testing.T) {
	repo := newMockRepository()
	h := newTestRouter(repo)
	require.NoError(t, repo.CreateIncident(t.Context(), &domain.Incident{
		Title: "DB failover", Service: "Database", Severity: domain.SeveritySEV1, Status: domain.StatusOpen,
	}))

	rec := doRequest(t, h, http.MethodGet, "/api/incidents/incident-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var incident domain.Incident
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incident))
	assert.Equal(t, "DB failover", incident.Title)

	rec = doRequest(t, h, http.MethodGet, "/api/incidents/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Incident not found", decodeError(t, rec))
}

func TestHandler_ListIncidents(t *testing.T) {
	repo := newMockRepository()
	h := newTestRouter(repo)
	for range 3 {
		require.NoError(t, repo.CreateIncident(t.Context(), &domain.Incident{
			Title: "t", Service: "s", Severity: domain.SeveritySEV4, Status: domain.StatusResolved,
		}))
	}

	rec := doRequest(t, h, http.MethodGet,
		"/api/incidents?page=1&limit=2&search=Auth&severity=SEV4&status=RESOLVED&sortBy=severity&order=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 2, result.Pages)

	f := repo.lastFilter
	assert.Equal(t, "Auth", f.Search)
	assert.Equal(t, SortBySeverity, f.SortBy)
	assert.Equal(t, OrderAsc, f.Order)
	assert.Equal(t, 2, f.Limit)
}

func TestHandler_ListIncidents_EmptyDataIsArray(t *testing.T) {
	h := newTestRouter(newMockRepository())

	rec := doRequest(t, h, http.MethodGet, "/api/incidents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"total":0,"page":1,"pages":0}`, rec.Body.String())
}

func TestHandler_ListIncidents_BadPaging(t *testing.T) {
	h := newTestRouter(newMockRepository())

	for target, msg := range map[string]string{
		"/api/incidents?page=abc":  "page must be a positive integer",
		"/api/incidents?page=0":    "page must be a positive integer",
		"/api/incidents?limit=-5":  "limit must be a positive integer",
		"/api/incidents?limit=1.5": "limit must be a positive integer",
	} {
		rec := doRequest(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, msg, decodeError(t, rec), target)
	}
}

func TestHandler_ListIncidents_StoreFailure(t *testing.T) {
	repo := newMockRepository()
	repo.countErr = errDatabase
	h := newTestRouter(repo)

	rec := doRequest(t, h, http.MethodGet, "/api/incidents", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch incidents", decodeError(t, rec))
}

func TestHandler_UpdateIncident(t *testing.T) {
	repo := newMockRepository()
	h := newTestRouter(repo)
	owner := "Maria Martin"
	require.NoError(t, repo.CreateIncident(t.Context(), &domain.Incident{
		Title: "t", Service: "s", Severity: domain.SeveritySEV2, Status: domain.StatusOpen, Owner: &owner,
	}))

	rec := doRequest(t, h, http.MethodPatch, "/api/incidents/incident-1", `{"status":"RESOLVED","summary":"fixed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var incident domain.Incident
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incident))
	assert.Equal(t, domain.StatusResolved, incident.Status)
	require.NotNil(t, incident.Owner)
	assert.Equal(t, "Maria Martin", *incident.Owner)
	require.NotNil(t, incident.Summary)
	assert.Equal(t, "fixed", *incident.Summary)

	rec = doRequest(t, h, http.MethodPatch, "/api/incidents/incident-1", `{"owner":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incident))
	assert.Nil(t, incident.Owner)
}

func TestHandler_UpdateIncident_Errors(t *testing.T) {
	repo := newMockRepository()
	h := newTestRouter(repo)
	require.NoError(t, repo.CreateIncident(t.Context(), &domain.Incident{
		Title: "t", Service: "s", Severity: domain.SeveritySEV2, Status: domain.StatusOpen,
	}))

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"invalid status", "/api/incidents/incident-1", `{"status":"DONE"}`, http.StatusBadRequest, "Status must be one of: OPEN, MITIGATED, RESOLVED"},
		{"null status", "/api/incidents/incident-1", `{"status":null}`, http.StatusBadRequest, "Status must be one of: OPEN, MITIGATED, RESOLVED"},
		{"malformed json", "/api/incidents/incident-1", `not json`, http.StatusBadRequest, "invalid json"},
		{"not found wins", "/api/incidents/missing", `{"status":"DONE"}`, http.StatusNotFound, "Incident not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPatch, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
		})
	}
}
