package incidents

import (
	"context"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/pkg/nullable"
)

// Repository defines the interface for incident storage.
type Repository interface {
	// CreateIncident persists a new incident, filling in ID, CreatedAt and UpdatedAt.
	CreateIncident(ctx context.Context, incident *domain.Incident) error
	GetIncident(ctx context.Context, id string) (*domain.Incident, error)
	ListIncidents(ctx context.Context, filter ListFilter) ([]domain.Incident, error)
	CountIncidents(ctx context.Context, filter ListFilter) (int, error)
	// UpdateIncident applies the patch and refreshes UpdatedAt in a single statement.
	UpdateIncident(ctx context.Context, id string, patch Patch) (*domain.Incident, error)
}

// ListFilter holds normalized filter, sort and paging options for listing incidents.
// Limit and Offset are ignored by CountIncidents.
type ListFilter struct {
	Search   string
	Severity *domain.Severity
	Status   *domain.Status
	SortBy   SortField
	Order    SortOrder
	Limit    int
	Offset   int
}

// Patch lists the mutable fields of an incident. Unset fields are left untouched.
type Patch struct {
	Status  *domain.Status
	Owner   nullable.String
	Summary nullable.String
}
