package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/incidents"
	"github.com/bissquit/incident-tracker/internal/pkg/nullable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestClient_ListIncidents(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/incidents", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "Auth", q.Get("search"))
		assert.Equal(t, "SEV1", q.Get("severity"))
		assert.False(t, q.Has("status"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(incidents.ListResult{
			Data:  []domain.Incident{{ID: "a", Title: "Auth down"}},
			Total: 6,
			Page:  2,
			Pages: 2,
		})
	})

	result, err := c.ListIncidents(context.Background(), ListParams{
		Page: 2, Limit: 5, Search: "Auth", Severity: "SEV1",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, result.Total)
	assert.Equal(t, 2, result.Pages)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Auth down", result.Data[0].Title)
}

func TestClient_GetIncident_NotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/incidents/missing", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Incident not found"}`))
	})

	_, err := c.GetIncident(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Incident not found", apiErr.Message)
}

func TestClient_CreateIncident(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Login failures", body["title"])
		assert.Equal(t, "OPEN", body["status"])
		assert.NotContains(t, body, "owner")

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.Incident{
			ID: "new-id", Title: "Login failures", Status: domain.StatusOpen,
		})
	})

	incident, err := c.CreateIncident(context.Background(), CreateParams{
		Title: "Login failures", Service: "Auth", Severity: "SEV2", Status: "OPEN",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", incident.ID)
}

func TestClient_CreateIncident_ValidationError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Title is required"}`))
	})

	_, err := c.CreateIncident(context.Background(), CreateParams{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Title is required", apiErr.Message)
	assert.False(t, IsNotFound(err))
}

func TestClient_UpdateIncident_SendsOnlySetFields(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"RESOLVED","owner":null}`, string(raw))

		_ = json.NewEncoder(w).Encode(domain.Incident{ID: "x", Status: domain.StatusResolved})
	})

	incident, err := c.UpdateIncident(context.Background(), "x", UpdateParams{
		Status: nullable.NewString("RESOLVED"),
		Owner:  nullable.Null(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, incident.Status)
}

func TestClient_Health(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status)
}

func TestClient_NonJSONError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Health(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestClient_WithHTTPClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	c := New(DefaultBaseURL, WithHTTPClient(hc))
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
