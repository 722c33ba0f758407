// Package postgres provides PostgreSQL implementation of the incidents repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/incidents"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const incidentColumns = `id, title, service, severity, status, owner, summary, created_at, updated_at`

// Repository implements the incidents.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateIncident inserts an incident; the database assigns id and timestamps.
func (r *Repository) CreateIncident(ctx context.Context, incident *domain.Incident) error {
	query := `
		INSERT INTO incidents (title, service, severity, status, owner, summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Service,
		incident.Severity,
		incident.Status,
		incident.Owner,
		incident.Summary,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

// GetIncident retrieves an incident by its ID.
func (r *Repository) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	// The id column is a UUID; anything else cannot exist.
	if _, err := uuid.Parse(id); err != nil {
		return nil, incidents.ErrIncidentNotFound
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, incidents.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("get incident: %w", err)
	}
	return incident, nil
}

// ListIncidents returns one page of incidents matching the filter.
func (r *Repository) ListIncidents(ctx context.Context, filter incidents.ListFilter) ([]domain.Incident, error) {
	where, args := buildWhere(filter)
	argNum := len(args) + 1

	query := `SELECT ` + incidentColumns + ` FROM incidents` + where
	query += fmt.Sprintf(" ORDER BY %s %s, id %s",
		filter.SortBy.Column(), filter.Order.SQL(), filter.Order.SQL())

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		list = append(list, *incident)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}

	return list, nil
}

// CountIncidents returns the number of incidents matching the filter.
func (r *Repository) CountIncidents(ctx context.Context, filter incidents.ListFilter) (int, error) {
	where, args := buildWhere(filter)

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM incidents`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count incidents: %w", err)
	}
	return count, nil
}

// UpdateIncident applies the patch and bumps updated_at.
func (r *Repository) UpdateIncident(ctx context.Context, id string, patch incidents.Patch) (*domain.Incident, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, incidents.ErrIncidentNotFound
	}

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argNum := 2

	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argNum))
		args = append(args, *patch.Status)
		argNum++
	}
	if patch.Owner.Set {
		sets = append(sets, fmt.Sprintf("owner = $%d", argNum))
		args = append(args, patch.Owner.Value)
		argNum++
	}
	if patch.Summary.Set {
		sets = append(sets, fmt.Sprintf("summary = $%d", argNum))
		args = append(args, patch.Summary.Value)
	}

	query := `UPDATE incidents SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + incidentColumns

	incident, err := scanIncident(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, incidents.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("update incident: %w", err)
	}
	return incident, nil
}

func buildWhere(filter incidents.ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	argNum := 1

	if filter.Search != "" {
		clauses = append(clauses, fmt.Sprintf(`(title LIKE $%d ESCAPE '\' OR service LIKE $%d ESCAPE '\')`, argNum, argNum))
		args = append(args, "%"+incidents.EscapeLike(filter.Search)+"%")
		argNum++
	}

	if filter.Severity != nil {
		clauses = append(clauses, fmt.Sprintf("severity = $%d", argNum))
		args = append(args, *filter.Severity)
		argNum++
	}

	if filter.Status != nil {
		clauses = append(clauses, fmt.Sprintf("status = $%d", argNum))
		args = append(args, *filter.Status)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var incident domain.Incident
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Service,
		&incident.Severity,
		&incident.Status,
		&incident.Owner,
		&incident.Summary,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &incident, nil
}
