package incidents

import (
	"math"
	"strings"

	"github.com/bissquit/incident-tracker/internal/domain"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// SortField is a whitelisted sort key.
type SortField string

// Sort fields accepted by the list operation.
const (
	SortByCreatedAt SortField = "createdAt"
	SortBySeverity  SortField = "severity"
	SortByTitle     SortField = "title"
)

// Column returns the table column backing the sort field.
func (f SortField) Column() string {
	switch f {
	case SortBySeverity:
		return "severity"
	case SortByTitle:
		return "title"
	default:
		return "created_at"
	}
}

// ParseSortField falls back to createdAt for unknown values.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortByCreatedAt, SortBySeverity, SortByTitle:
		return SortField(s)
	}
	return SortByCreatedAt
}

// SortOrder is the direction of a sort.
type SortOrder string

// Sort orders.
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SQL returns the keyword for an ORDER BY clause.
func (o SortOrder) SQL() string {
	if o == OrderAsc {
		return "ASC"
	}
	return "DESC"
}

// ParseSortOrder is case-insensitive and falls back to desc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(OrderAsc)) {
		return OrderAsc
	}
	return OrderDesc
}

// ListQuery is the caller-facing form of a list request.
// Zero Page and Limit select the defaults.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	Severity string
	Status   string
	SortBy   string
	Order    string
}

// ListResult is one page of incidents.
type ListResult struct {
	Data  []domain.Incident `json:"data"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
}

// Filter converts the query into a store filter.
func (q ListQuery) Filter() ListFilter {
	page, limit := q.pageAndLimit()

	filter := ListFilter{
		Search: q.Search,
		SortBy: ParseSortField(q.SortBy),
		Order:  ParseSortOrder(q.Order),
		Limit:  limit,
		Offset: offset(page, limit),
	}
	if q.Severity != "" {
		sev := domain.Severity(q.Severity)
		filter.Severity = &sev
	}
	if q.Status != "" {
		st := domain.Status(q.Status)
		filter.Status = &st
	}
	return filter
}

func (q ListQuery) pageAndLimit() (int, int) {
	page, limit := q.Page, q.Limit
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return page, limit
}

// offset is (page-1)*limit, saturating at math.MaxInt. Pages that far out
// are past any table, so the saturated value still selects nothing.
func offset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// TotalPages returns ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

// EscapeLike escapes LIKE wildcards so the search matches literally.
// Queries must declare ESCAPE '\'.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
