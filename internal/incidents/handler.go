// Package incidents provides HTTP handlers and business logic for tracking incidents.
package incidents

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bissquit/incident-tracker/internal/pkg/ctxlog"
	"github.com/bissquit/incident-tracker/internal/pkg/httputil"
	"github.com/bissquit/incident-tracker/internal/pkg/nullable"
	"github.com/go-chi/chi/v5"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrIncidentNotFound, Status: http.StatusNotFound, Message: "Incident not found"},
	{Error: ErrValidation, Status: http.StatusBadRequest},
}

// Handler handles HTTP requests for the incidents module.
type Handler struct {
	service *Service
}

// NewHandler creates a new incidents handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers incident routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.ListIncidents)
		r.Post("/", h.CreateIncident)
		r.Get("/{id}", h.GetIncident)
		r.Patch("/{id}", h.UpdateIncident)
	})
}

// CreateIncidentRequest represents the request body for creating an incident.
type CreateIncidentRequest struct {
	Title    string  `json:"title"`
	Service  string  `json:"service"`
	Severity string  `json:"severity"`
	Status   string  `json:"status"`
	Owner    *string `json:"owner"`
	Summary  *string `json:"summary"`
}

// ToInput converts the request to service input.
func (r *CreateIncidentRequest) ToInput() CreateIncidentInput {
	return CreateIncidentInput{
		Title:    r.Title,
		Service:  r.Service,
		Severity: r.Severity,
		Status:   r.Status,
		Owner:    r.Owner,
		Summary:  r.Summary,
	}
}

// UpdateIncidentRequest represents the request body for a partial update.
// Keys absent from the body leave the field untouched.
type UpdateIncidentRequest struct {
	Status  nullable.String `json:"status"`
	Owner   nullable.String `json:"owner"`
	Summary nullable.String `json:"summary"`
}

// CreateIncident handles POST /incidents.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	incident, err := h.service.CreateIncident(r.Context(), req.ToInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings, "Failed to create incident")
		return
	}

	ctxlog.FromContext(r.Context()).Debug("incident created", "incident_id", incident.ID)
	httputil.JSON(w, http.StatusCreated, incident)
}

// ListIncidents handles GET /incidents.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := positiveIntParam(q.Get("page"))
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	limit, ok := positiveIntParam(q.Get("limit"))
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	result, err := h.service.ListIncidents(r.Context(), ListQuery{
		Page:     page,
		Limit:    limit,
		Search:   q.Get("search"),
		Severity: q.Get("severity"),
		Status:   q.Get("status"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings, "Failed to fetch incidents")
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// GetIncident handles GET /incidents/{id}.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	incident, err := h.service.GetIncident(r.Context(), id)
	if err != nil {
		ctx := ctxlog.With(r.Context(), "incident_id", id)
		httputil.HandleError(ctx, w, err, errorMappings, "Failed to fetch incident")
		return
	}

	httputil.JSON(w, http.StatusOK, incident)
}

// UpdateIncident handles PATCH /incidents/{id}.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := ctxlog.With(r.Context(), "incident_id", id)

	var req UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	incident, err := h.service.UpdateIncident(ctx, id, UpdateIncidentInput{
		Status:  req.Status,
		Owner:   req.Owner,
		Summary: req.Summary,
	})
	if err != nil {
		httputil.HandleError(ctx, w, err, errorMappings, "Failed to update incident")
		return
	}

	httputil.JSON(w, http.StatusOK, incident)
}

// positiveIntParam parses an optional positive integer query parameter.
// An empty value yields 0, which the service replaces with its default.
func positiveIntParam(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
