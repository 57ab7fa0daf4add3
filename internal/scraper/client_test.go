package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPage_Direct(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html>страница</html>"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		Agents:     []string{"agent-a"},
		RatePerSec: 1000,
		Timeout:    time.Second,
	})

	body, err := client.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>страница</html>", body)
	assert.Equal(t, "agent-a", gotAgent)
}

func TestFetchPage_ThroughProxy(t *testing.T) {
	t.Setenv(EnvProxyAPIKey, "proxy-key")

	var gotKey, gotTarget string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotTarget = r.URL.Query().Get("url")
		w.Write([]byte("ok"))
	}))
	defer proxy.Close()

	client := NewClient(ClientConfig{
		ProxyURL:   proxy.URL,
		RatePerSec: 1000,
		Timeout:    time.Second,
	})

	body, err := client.FetchPage(context.Background(), "https://www.russianfood.com/recipes/recipe/1.php")
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, "proxy-key", gotKey)
	assert.Equal(t, "https://www.russianfood.com/recipes/recipe/1.php", gotTarget)
}

func TestFetchPage_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{RatePerSec: 1000, Timeout: time.Second})

	_, err := client.FetchPage(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchPage_CancelledContext(t *testing.T) {
	// Rate 0.5/s with a spent burst makes the limiter block, so the
	// cancelled context surfaces from the wait.
	client := NewClient(ClientConfig{Timeout: time.Second})
	_, _ = client.FetchPage(context.Background(), "http://127.0.0.1:1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.FetchPage(ctx, "http://127.0.0.1:1")
	require.Error(t, err)
}
