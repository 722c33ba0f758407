package cli

import (
	"testing"

	"github.com/bissquit/incident-tracker/internal/incidents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListState(t *testing.T) {
	s := NewListState(0)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 10, s.Limit)
	assert.Equal(t, "createdAt", s.SortBy)
	assert.Equal(t, "desc", s.Order)
}

func TestListState_SearchResetsPage(t *testing.T) {
	s := NewListState(10)
	s.TotalPages = 5
	s.Page = 3

	assert.True(t, s.SetSearch(" Auth "))
	assert.Equal(t, "Auth", s.Search)
	assert.Equal(t, 1, s.Page)

	s.Page = 2
	assert.False(t, s.SetSearch("Auth"))
	assert.Equal(t, 2, s.Page)
}

func TestListState_Filters(t *testing.T) {
	s := NewListState(10)
	s.Page = 4

	require.NoError(t, s.SetSeverity("sev2"))
	assert.Equal(t, "SEV2", s.Severity)
	assert.Equal(t, 1, s.Page)

	require.NoError(t, s.SetStatus("open"))
	assert.Equal(t, "OPEN", s.Status)

	require.NoError(t, s.SetSeverity("all"))
	assert.Empty(t, s.Severity)

	assert.Error(t, s.SetSeverity("SEV9"))
	assert.Error(t, s.SetStatus("CLOSED"))
	assert.Equal(t, "OPEN", s.Status)
}

func TestListState_Paging(t *testing.T) {
	s := NewListState(10)
	s.Apply(&incidents.ListResult{Pages: 2})

	assert.False(t, s.Prev())
	assert.True(t, s.Next())
	assert.Equal(t, 2, s.Page)
	assert.False(t, s.Next())
	assert.True(t, s.Prev())
	assert.Equal(t, 1, s.Page)
}

func TestListState_ApplyEmpty(t *testing.T) {
	s := NewListState(10)
	s.Apply(&incidents.ListResult{Pages: 0})
	assert.Equal(t, 1, s.TotalPages)
	assert.False(t, s.Next())
}

func TestListState_SortAndParams(t *testing.T) {
	s := NewListState(25)
	s.SetSort("bogus", "ASC")
	assert.Equal(t, "createdAt", s.SortBy)
	assert.Equal(t, "asc", s.Order)

	s.SetSort("title", "")
	assert.Equal(t, "asc", s.Order)

	_ = s.SetStatus("RESOLVED")
	p := s.Params()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, "title", p.SortBy)
	assert.Equal(t, "RESOLVED", p.Status)
}
