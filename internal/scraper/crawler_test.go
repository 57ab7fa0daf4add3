package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
)

// memRecipeStore is an in-memory driven.RecipeStore for crawl tests.
type memRecipeStore struct {
	links    []driven.RecipeLink
	records  map[string]domain.RawRecord
	sessions int
}

var _ driven.RecipeStore = (*memRecipeStore)(nil)

func newMemRecipeStore() *memRecipeStore {
	return &memRecipeStore{records: map[string]domain.RawRecord{}}
}

func (m *memRecipeStore) SaveLinks(_ context.Context, links []driven.RecipeLink) (int, error) {
	saved := 0
	for _, link := range links {
		dup := false
		for _, have := range m.links {
			if have.URL == link.URL {
				dup = true
				break
			}
		}
		if !dup {
			m.links = append(m.links, link)
			saved++
		}
	}
	return saved, nil
}

func (m *memRecipeStore) ListLinks(_ context.Context, pendingOnly bool) ([]driven.RecipeLink, error) {
	if !pendingOnly {
		return m.links, nil
	}
	var pending []driven.RecipeLink
	for _, link := range m.links {
		if _, ok := m.records[link.URL]; !ok {
			pending = append(pending, link)
		}
	}
	return pending, nil
}

func (m *memRecipeStore) SaveRecord(_ context.Context, rec domain.RawRecord) error {
	m.records[rec.URL] = rec
	return nil
}

func (m *memRecipeStore) ListRecords(context.Context) ([]domain.RawRecord, error) {
	var recs []domain.RawRecord
	for _, rec := range m.records {
		recs = append(recs, rec)
	}
	return recs, nil
}

func (m *memRecipeStore) UpdateRecords(context.Context, []domain.RawRecord) error { return nil }

func (m *memRecipeStore) RecordScrapeSession(_ context.Context, _ string, _, _ int) error {
	m.sessions++
	return nil
}

func fastClient() *Client {
	return NewClient(ClientConfig{RatePerSec: 1000, Timeout: time.Second})
}

func TestCrawlListings(t *testing.T) {
	// fid=2 has one listing page then an empty one; fid=3 is empty
	// right away.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fid") == "2" && r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`
				<div class="in_seen"><a href="/recipes/recipe/1.php"><h3>Борщ</h3></a></div>
				<div class="in_seen"><a href="/recipes/recipe/2.php"><h3>Окрошка</h3></a></div>`))
			return
		}
		w.Write([]byte("<html>пусто</html>"))
	}))
	defer server.Close()

	store := newMemRecipeStore()
	crawler := NewCrawler(fastClient(), store)

	found, err := crawler.CrawlListings(context.Background(), CrawlConfig{
		BaseURL:   server.URL,
		StartFid:  2,
		MaxFid:    3,
		StartPage: 1,
		MaxPage:   5,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, found)
	require.Len(t, store.links, 2)
	assert.Equal(t, "борщ", store.links[0].Title)
	assert.Equal(t, server.URL+"/recipes/recipe/1.php", store.links[0].URL)
	assert.Equal(t, 1, store.sessions)
}

func TestScrapeRecipes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`
			<table class="ingr">
			<tr><td>шапка</td></tr>
			<tr><td><span>на</span><span>2 порции</span><span>Свёкла</span></td></tr>
			</table>
			<div class="step_n"><p>Сварить.</p></div>`))
	}))
	defer server.Close()

	store := newMemRecipeStore()
	store.links = []driven.RecipeLink{
		{URL: server.URL + "/recipes/recipe/1.php", Title: "борщ"},
		{URL: server.URL + "/recipes/recipe/broken.php", Title: "битая"},
	}

	crawler := NewCrawler(fastClient(), store)
	scraped, err := crawler.ScrapeRecipes(context.Background(), true)
	require.NoError(t, err)

	// The broken page is skipped, not fatal.
	assert.Equal(t, 1, scraped)

	rec, ok := store.records[server.URL+"/recipes/recipe/1.php"]
	require.True(t, ok)
	assert.Equal(t, "борщ", rec.Title)
	assert.Equal(t, "['свёкла']", rec.Ingredients)
	assert.Equal(t, "['сварить.']", rec.Steps)
}

func TestScrapeRecipes_PendingOnly(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	store := newMemRecipeStore()
	store.links = []driven.RecipeLink{
		{URL: server.URL + "/r/1", Title: "борщ"},
		{URL: server.URL + "/r/2", Title: "окрошка"},
	}
	store.records[server.URL+"/r/1"] = domain.RawRecord{URL: server.URL + "/r/1"}

	crawler := NewCrawler(fastClient(), store)
	scraped, err := crawler.ScrapeRecipes(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, scraped)
	assert.Equal(t, 1, calls)
}
