package incidents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bissquit/incident-tracker/internal/domain"
)

// mockRepository implements Repository in memory for testing.
type mockRepository struct {
	incidents map[string]*domain.Incident
	seq       int

	createErr error
	listErr   error
	countErr  error
	updateErr error

	lastFilter ListFilter
	listCalls  int
	lastPatch  *Patch
}

func newMockRepository() *mockRepository {
	return &mockRepository{incidents: make(map[string]*domain.Incident)}
}

func (m *mockRepository) CreateIncident(_ context.Context, incident *domain.Incident) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	now := time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	incident.ID = fmt.Sprintf("incident-%d", m.seq)
	incident.CreatedAt = now
	incident.UpdatedAt = now

	stored := *incident
	m.incidents[incident.ID] = &stored
	return nil
}

func (m *mockRepository) GetIncident(_ context.Context, id string) (*domain.Incident, error) {
	inc, ok := m.incidents[id]
	if !ok {
		return nil, ErrIncidentNotFound
	}
	cp := *inc
	return &cp, nil
}

func (m *mockRepository) ListIncidents(_ context.Context, filter ListFilter) ([]domain.Incident, error) {
	m.lastFilter = filter
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	list := make([]domain.Incident, 0, len(m.incidents))
	for _, inc := range m.incidents {
		list = append(list, *inc)
	}
	return list, nil
}

func (m *mockRepository) CountIncidents(_ context.Context, _ ListFilter) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.incidents), nil
}

func (m *mockRepository) UpdateIncident(_ context.Context, id string, patch Patch) (*domain.Incident, error) {
	m.lastPatch = &patch
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	inc, ok := m.incidents[id]
	if !ok {
		return nil, ErrIncidentNotFound
	}
	if patch.Status != nil {
		inc.Status = *patch.Status
	}
	if patch.Owner.Set {
		inc.Owner = patch.Owner.Value
	}
	if patch.Summary.Set {
		inc.Summary = patch.Summary.Value
	}
	inc.UpdatedAt = inc.UpdatedAt.Add(time.Minute)
	cp := *inc
	return &cp, nil
}

var errDatabase = errors.New("database is down")
