// Package sqlite provides a single-file SQLite implementation of the incidents repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/incidents"
	"github.com/google/uuid"
)

// timeLayout is fixed-width so that text ordering matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const incidentColumns = `id, title, service, severity, status, owner, summary, created_at, updated_at`

// Repository implements the incidents.Repository interface using SQLite.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a new SQLite repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreateIncident inserts an incident with a generated UUID and timestamps.
func (r *Repository) CreateIncident(ctx context.Context, incident *domain.Incident) error {
	now := r.now()
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO incidents (id, title, service, severity, status, owner, summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		incident.Title,
		incident.Service,
		string(incident.Severity),
		string(incident.Status),
		nullString(incident.Owner),
		nullString(incident.Summary),
		now.Format(timeLayout),
		now.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}

	incident.ID = id
	incident.CreatedAt = now
	incident.UpdatedAt = now
	return nil
}

// GetIncident retrieves an incident by its ID.
func (r *Repository) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = ?`, id)

	incident, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, incidents.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("get incident: %w", err)
	}
	return incident, nil
}

// ListIncidents returns one page of incidents matching the filter.
func (r *Repository) ListIncidents(ctx context.Context, filter incidents.ListFilter) ([]domain.Incident, error) {
	where, args := buildWhere(filter)

	query := `SELECT ` + incidentColumns + ` FROM incidents` + where
	query += fmt.Sprintf(" ORDER BY %s %s, id %s",
		filter.SortBy.Column(), filter.Order.SQL(), filter.Order.SQL())

	// SQLite requires LIMIT before OFFSET; -1 means no limit.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count incidents: %w", err)
	}
	return count, nil
}

// UpdateIncident applies the patch and bumps updated_at.
func (r *Repository) UpdateIncident(ctx context.Context, id string, patch incidents.Patch) (*domain.Incident, error) {
	sets := []string{"updated_at = ?"}
	args := []any{r.now().Format(timeLayout)}

	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.Owner.Set {
		sets = append(sets, "owner = ?")
		args = append(args, nullString(patch.Owner.Value))
	}
	if patch.Summary.Set {
		sets = append(sets, "summary = ?")
		args = append(args, nullString(patch.Summary.Value))
	}
	args = append(args, id)

	query := `UPDATE incidents SET ` + strings.Join(sets, ", ") +
		` WHERE id = ? RETURNING ` + incidentColumns

	incident, err := scanIncident(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, incidents.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("update incident: %w", err)
	}
	return incident, nil
}

func buildWhere(filter incidents.ListFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Search != "" {
		clauses = append(clauses, `(title LIKE ? ESCAPE '\' OR service LIKE ? ESCAPE '\')`)
		q := "%" + incidents.EscapeLike(filter.Search) + "%"
		args = append(args, q, q)
	}
	if filter.Severity != nil {
		clauses = append(clauses, "severity = ?")
		args = append(args, string(*filter.Severity))
	}
	if filter.Status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, string(*filter.Status))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (*domain.Incident, error) {
	var (
		incident           domain.Incident
		severity, status   string
		owner, summary     sql.NullString
		createdAt, updated string
	)
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Service,
		&severity,
		&status,
		&owner,
		&summary,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	incident.Severity = domain.Severity(severity)
	incident.Status = domain.Status(status)
	if owner.Valid {
		incident.Owner = &owner.String
	}
	if summary.Valid {
		incident.Summary = &summary.String
	}

	if incident.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if incident.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &incident, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
