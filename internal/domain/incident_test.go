package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityIsValid(t *testing.T) {
	for _, s := range AllSeverities {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Severity("SEV9").IsValid())
	assert.False(t, Severity("sev1").IsValid())
	assert.False(t, Severity("").IsValid())
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("CLOSED").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "SEV1, SEV2, SEV3, SEV4", JoinSeverities())
	assert.Equal(t, "OPEN, MITIGATED, RESOLVED", JoinStatuses())
}

func TestIncidentJSON(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(Incident{
		ID:        "id",
		Title:     "t",
		Service:   "s",
		Severity:  SeveritySEV2,
		Status:    StatusOpen,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "id",
		"title": "t",
		"service": "s",
		"severity": "SEV2",
		"status": "OPEN",
		"owner": null,
		"summary": null,
		"createdAt": "2024-05-01T10:00:00Z",
		"updatedAt": "2024-05-01T10:00:00Z"
	}`, string(raw))
}
