// Package domain contains the core types of the incident tracker.
package domain

import (
	"strings"
	"time"
)

// Severity is the urgency tier of an incident, SEV1 being the highest.
type Severity string

// Incident severities.
const (
	SeveritySEV1 Severity = "SEV1"
	SeveritySEV2 Severity = "SEV2"
	SeveritySEV3 Severity = "SEV3"
	SeveritySEV4 Severity = "SEV4"
)

// AllSeverities lists every valid severity in priority order.
var AllSeverities = []Severity{SeveritySEV1, SeveritySEV2, SeveritySEV3, SeveritySEV4}

// IsValid checks if the severity is one of the known tiers.
func (s Severity) IsValid() bool {
	switch s {
	case SeveritySEV1, SeveritySEV2, SeveritySEV3, SeveritySEV4:
		return true
	}
	return false
}

// Status is the lifecycle stage of an incident.
type Status string

// Incident statuses.
const (
	StatusOpen      Status = "OPEN"
	StatusMitigated Status = "MITIGATED"
	StatusResolved  Status = "RESOLVED"
)

// AllStatuses lists every valid status in lifecycle order.
var AllStatuses = []Status{StatusOpen, StatusMitigated, StatusResolved}

// IsValid checks if the status is one of the known lifecycle stages.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusMitigated, StatusResolved:
		return true
	}
	return false
}

// Incident is a tracked operational issue.
type Incident struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Service   string    `json:"service"`
	Severity  Severity  `json:"severity"`
	Status    Status    `json:"status"`
	Owner     *string   `json:"owner"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JoinSeverities renders the severity set as "SEV1, SEV2, ...".
func JoinSeverities() string {
	parts := make([]string, len(AllSeverities))
	for i, s := range AllSeverities {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// JoinStatuses renders the status set as "OPEN, MITIGATED, RESOLVED".
func JoinStatuses() string {
	parts := make([]string, len(AllStatuses))
	for i, s := range AllStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
