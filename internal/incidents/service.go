package incidents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/pkg/metrics"
	"github.com/bissquit/incident-tracker/internal/pkg/nullable"
	"github.com/go-playground/validator/v10"
)

// Service implements incident business logic.
type Service struct {
	repo      Repository
	validator *validator.Validate
}

// NewService creates a new incident service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		validator: validator.New(),
	}
}

// CreateIncidentInput holds data for creating an incident.
type CreateIncidentInput struct {
	Title    string `validate:"required"`
	Service  string `validate:"required"`
	Severity string `validate:"required,oneof=SEV1 SEV2 SEV3 SEV4"`
	Status   string `validate:"required,oneof=OPEN MITIGATED RESOLVED"`
	Owner    *string
	Summary  *string
}

// UpdateIncidentInput holds the fields a caller asked to change.
type UpdateIncidentInput struct {
	Status  nullable.String
	Owner   nullable.String
	Summary nullable.String
}

// CreateIncident validates and stores a new incident.
func (s *Service) CreateIncident(ctx context.Context, input CreateIncidentInput) (*domain.Incident, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Service = strings.TrimSpace(input.Service)

	if err := s.validator.Struct(input); err != nil {
		return nil, translateValidationErrors(err)
	}

	incident := &domain.Incident{
		Title:    input.Title,
		Service:  input.Service,
		Severity: domain.Severity(input.Severity),
		Status:   domain.Status(input.Status),
		Owner:    trimOptional(input.Owner),
		Summary:  trimOptional(input.Summary),
	}

	if err := s.repo.CreateIncident(ctx, incident); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}

	metrics.IncidentsCreated.WithLabelValues(string(incident.Severity)).Inc()

	return incident, nil
}

// GetIncident returns a single incident by ID.
func (s *Service) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	return s.repo.GetIncident(ctx, id)
}

// ListIncidents returns one page of incidents matching the query.
func (s *Service) ListIncidents(ctx context.Context, query ListQuery) (*ListResult, error) {
	page, limit := query.pageAndLimit()
	filter := query.Filter()

	total, err := s.repo.CountIncidents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count incidents: %w", err)
	}

	list := make([]domain.Incident, 0)
	if filter.Offset < total {
		list, err = s.repo.ListIncidents(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list incidents: %w", err)
		}
	}

	return &ListResult{
		Data:  list,
		Total: total,
		Page:  page,
		Pages: TotalPages(total, limit),
	}, nil
}

// UpdateIncident applies a partial update to an existing incident.
// A missing incident is reported before any validation error.
func (s *Service) UpdateIncident(ctx context.Context, id string, input UpdateIncidentInput) (*domain.Incident, error) {
	if _, err := s.repo.GetIncident(ctx, id); err != nil {
		return nil, err
	}

	patch := Patch{
		Owner:   input.Owner.Trimmed(),
		Summary: input.Summary.Trimmed(),
	}

	if input.Status.Set {
		if input.Status.Value == nil || !domain.Status(*input.Status.Value).IsValid() {
			return nil, newValidationError(statusOneOfMessage())
		}
		status := domain.Status(*input.Status.Value)
		patch.Status = &status
	}

	incident, err := s.repo.UpdateIncident(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrIncidentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update incident: %w", err)
	}

	metrics.IncidentsUpdated.WithLabelValues(string(incident.Status)).Inc()

	return incident, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	return nullable.NewString(*v).Trimmed().Value
}

func statusOneOfMessage() string {
	return "Status must be one of: " + domain.JoinStatuses()
}

func severityOneOfMessage() string {
	return "Severity must be one of: " + domain.JoinSeverities()
}

// translateValidationErrors turns validator output into the API's message list.
func translateValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate input: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch {
		case fe.Tag() == "required":
			messages = append(messages, fe.Field()+" is required")
		case fe.Tag() == "oneof" && fe.Field() == "Severity":
			messages = append(messages, severityOneOfMessage())
		case fe.Tag() == "oneof" && fe.Field() == "Status":
			messages = append(messages, statusOneOfMessage())
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return newValidationError(messages...)
}
