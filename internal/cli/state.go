package cli

import (
	"fmt"
	"strings"

	"github.com/bissquit/incident-tracker/internal/client"
	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/incidents"
)

// ListState is the local state of the interactive list view.
type ListState struct {
	Page       int
	Limit      int
	Search     string
	Severity   string
	Status     string
	SortBy     string
	Order      string
	TotalPages int
}

// NewListState returns the state of a freshly opened list view.
func NewListState(limit int) *ListState {
	if limit <= 0 {
		limit = incidents.DefaultLimit
	}
	return &ListState{
		Page:       incidents.DefaultPage,
		Limit:      limit,
		SortBy:     string(incidents.SortByCreatedAt),
		Order:      string(incidents.OrderDesc),
		TotalPages: 1,
	}
}

// SetSearch changes the search text and returns to the first page.
// It reports false when the text did not change.
func (s *ListState) SetSearch(q string) bool {
	q = strings.TrimSpace(q)
	if q == s.Search {
		return false
	}
	s.Search = q
	s.Page = 1
	return true
}

// SetSeverity filters by severity; "" or "all" clears the filter.
func (s *ListState) SetSeverity(v string) error {
	v = normalizeFilter(v)
	if v != "" && !domain.Severity(v).IsValid() {
		return fmt.Errorf("severity must be one of: %s", domain.JoinSeverities())
	}
	s.Severity = v
	s.Page = 1
	return nil
}

// SetStatus filters by status; "" or "all" clears the filter.
func (s *ListState) SetStatus(v string) error {
	v = normalizeFilter(v)
	if v != "" && !domain.Status(v).IsValid() {
		return fmt.Errorf("status must be one of: %s", domain.JoinStatuses())
	}
	s.Status = v
	s.Page = 1
	return nil
}

// SetSort changes the sort key and direction.
func (s *ListState) SetSort(field, order string) {
	s.SortBy = string(incidents.ParseSortField(field))
	if order != "" {
		s.Order = string(incidents.ParseSortOrder(order))
	}
	s.Page = 1
}

// Next advances one page unless already on the last.
func (s *ListState) Next() bool {
	if s.Page >= s.TotalPages {
		return false
	}
	s.Page++
	return true
}

// Prev goes back one page unless already on the first.
func (s *ListState) Prev() bool {
	if s.Page <= 1 {
		return false
	}
	s.Page--
	return true
}

// Apply records the page count of a fetched result.
func (s *ListState) Apply(result *incidents.ListResult) {
	s.TotalPages = max(result.Pages, 1)
}

// Params converts the state into list query parameters.
func (s *ListState) Params() client.ListParams {
	return client.ListParams{
		Page:     s.Page,
		Limit:    s.Limit,
		Search:   s.Search,
		Severity: s.Severity,
		Status:   s.Status,
		SortBy:   s.SortBy,
		Order:    s.Order,
	}
}

func normalizeFilter(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "ALL" {
		return ""
	}
	return v
}
