//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/incidents"
	"github.com/bissquit/incident-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// uniqueService returns a service name no other test uses, so searches on
// it see only this test's incidents in the shared database.
func uniqueService(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

type incidentOption func(map[string]any)

func withOwner(owner string) incidentOption {
	return func(m map[string]any) { m["owner"] = owner }
}

func withSummary(summary string) incidentOption {
	return func(m map[string]any) { m["summary"] = summary }
}

// createTestIncident creates an incident and returns the stored record.
func createTestIncident(t *testing.T, client *testutil.Client, title, service string, severity domain.Severity, status domain.Status, opts ...incidentOption) domain.Incident {
	t.Helper()

	payload := map[string]any{
		"title":    title,
		"service":  service,
		"severity": severity,
		"status":   status,
	}
	for _, opt := range opts {
		opt(payload)
	}

	resp, err := client.POST("/api/incidents", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var incident domain.Incident
	testutil.DecodeJSON(t, resp, &incident)
	return incident
}

func listIncidents(t *testing.T, client *testutil.Client, query string) incidents.ListResult {
	t.Helper()

	resp, err := client.GET("/api/incidents?" + query)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result incidents.ListResult
	testutil.DecodeJSON(t, resp, &result)
	return result
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	testutil.DecodeJSON(t, resp, &body)
	return body.Error
}
