// Package fetch talks to the public species API and caches its responses.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/store"
)

const (
	DefaultBaseURL   = "https://pokeapi.co/api/v2"
	DefaultTTL       = 24 * time.Hour
	DefaultCacheSize = 1024
)

type Client struct {
	HTTP         *http.Client
	Store        *store.RawCache // optional disk cache
	BaseURL      string
	UserAgent    string
	Sleep        time.Duration
	PrettyWrite  bool
	UseCache     bool
	DisableWrite bool

	profiles *expirable.LRU[string, model.SpeciesProfile]
}

func NewClient(st *store.RawCache) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 20 * time.Second},
		Store:       st,
		BaseURL:     DefaultBaseURL,
		UserAgent:   "arena-stats/1.0",
		PrettyWrite: true,
		UseCache:    true,
		profiles:    expirable.NewLRU[string, model.SpeciesProfile](DefaultCacheSize, nil, DefaultTTL),
	}
}

// SetTTL replaces the in-memory profile cache with one holding entries for
// ttl. Cached profiles are dropped.
func (c *Client) SetTTL(size int, ttl time.Duration) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c.profiles = expirable.NewLRU[string, model.SpeciesProfile](size, nil, ttl)
}

// statusError carries a non-2xx response.
type statusError struct {
	Path   string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s failed: %d body=%s", e.Path, e.Status, e.Body)
}

// FetchRaw downloads urlPath (like "/pokemon/garchomp") and writes it to
// relPath in the disk cache. Returns raw bytes (from cache or network).
func (c *Client) FetchRaw(ctx context.Context, urlPath string, relPath string, force bool) ([]byte, error) {
	if !force && c.UseCache && c.Store != nil && c.Store.Fresh(relPath) {
		return c.Store.Read(relPath)
	}

	if c.Sleep > 0 {
		select {
		case <-time.After(c.Sleep):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+urlPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{Path: urlPath, Status: resp.StatusCode, Body: string(body)}
	}

	if !c.DisableWrite && c.Store != nil {
		if err := c.Store.Write(relPath, body, c.PrettyWrite); err != nil {
			return nil, err
		}
	}
	return body, nil
}
