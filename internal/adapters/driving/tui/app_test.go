package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
)

type stubSearcher struct {
	results []domain.SearchResult
	err     error
	lastQ   string
	lastK   int
}

func (s *stubSearcher) Search(_ context.Context, query string, k int) ([]domain.SearchResult, error) {
	s.lastQ = query
	s.lastK = k
	return s.results, s.err
}

func resized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func pressEnter(m Model) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model)
}

func TestEnterRunsQuery(t *testing.T) {
	searcher := &stubSearcher{results: []domain.SearchResult{
		{ChunkID: 4, Text: "борщ украинский", Score: 0.92},
		{ChunkID: 1, Text: "окрошка", Score: 0.88},
	}}
	m := resized(New(searcher, 5))
	m.input.SetValue("красный суп")

	m = pressEnter(m)

	assert.Equal(t, "красный суп", searcher.lastQ)
	assert.Equal(t, 5, searcher.lastK)
	require.Len(t, m.results, 2)
	assert.Contains(t, m.status, "2 recipes")
	assert.Contains(t, m.View(), "борщ украинский")
}

func TestEnterWithEmptyInputDoesNothing(t *testing.T) {
	searcher := &stubSearcher{}
	m := resized(New(searcher, 5))
	m.input.SetValue("   ")

	m = pressEnter(m)

	assert.Empty(t, searcher.lastQ)
	assert.Empty(t, m.results)
}

func TestSearchErrorShownInStatus(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("index down")}
	m := resized(New(searcher, 5))
	m.input.SetValue("суп")

	m = pressEnter(m)

	assert.Empty(t, m.results)
	assert.Contains(t, m.status, "index down")
}

func TestCursorWrapsAround(t *testing.T) {
	searcher := &stubSearcher{results: []domain.SearchResult{
		{ChunkID: 0, Text: "первый", Score: 0.9},
		{ChunkID: 1, Text: "второй", Score: 0.8},
	}}
	m := resized(New(searcher, 5))
	m.input.SetValue("суп")
	m = pressEnter(m)

	down := func() {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = updated.(Model)
	}

	require.Equal(t, 0, m.cursor)
	down()
	assert.Equal(t, 1, m.cursor)
	down()
	assert.Equal(t, 0, m.cursor)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)
	assert.True(t, strings.Contains(m.View(), "второй"))
}

func TestCtrlCQuits(t *testing.T) {
	m := resized(New(&stubSearcher{}, 5))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
