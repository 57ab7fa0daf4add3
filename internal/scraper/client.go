// Package scraper collects the recipe corpus: it crawls listing pages
// for recipe links and fetches recipe pages, going through a scraping
// proxy with rotating user agents and a polite request rate.
package scraper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// EnvProxyAPIKey names the environment variable holding the scraping
// proxy API key. It is read from the environment (or a .env file)
// only, never from configuration.
const EnvProxyAPIKey = "SCRAPEOPS_API_KEY"

// defaultAgent is used when no agents file is configured.
const defaultAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

// ClientConfig holds fetch settings for the scraper.
type ClientConfig struct {
	// ProxyURL is the scraping proxy endpoint. When empty, pages are
	// fetched directly.
	ProxyURL string

	// Agents is the pool of user-agent strings to rotate.
	Agents []string

	// RatePerSec caps the request rate (default 0.5 req/s).
	RatePerSec float64

	// Timeout bounds each page fetch.
	Timeout time.Duration
}

// Client fetches pages at a bounded rate.
type Client struct {
	httpClient *http.Client
	proxyURL   string
	apiKey     string
	agents     []string
	limiter    *rate.Limiter
}

// NewClient creates a page-fetching client. The proxy API key is read
// from the environment.
func NewClient(cfg ClientConfig) *Client {
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 0.5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	agents := cfg.Agents
	if len(agents) == 0 {
		agents = []string{defaultAgent}
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		proxyURL:   cfg.ProxyURL,
		apiKey:     os.Getenv(EnvProxyAPIKey),
		agents:     agents,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
	}
}

// FetchPage retrieves one page, waiting out the rate limiter first.
func (c *Client) FetchPage(ctx context.Context, target string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	requestURL := target
	if c.proxyURL != "" {
		params := url.Values{}
		params.Set("api_key", c.apiKey)
		params.Set("url", target)
		requestURL = c.proxyURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.agents[rand.Intn(len(c.agents))])

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %s", target, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", target, err)
	}
	return string(body), nil
}
