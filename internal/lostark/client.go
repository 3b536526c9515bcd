package lostark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/engine"
)

const (
	DefaultBaseURL = "https://developer-lostark.game.onstove.com"
	defaultTimeout = 10 * time.Second
)

// Client reads character stats from the Lost Ark developer API.
// It does not retry.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ engine.Source = (*Client)(nil)

func (c *Client) FetchProfile(ctx context.Context, name string) (*engine.Profile, error) {
	var p profilePayload
	if err := c.get(ctx, "/armories/characters/"+url.PathEscape(name)+"/profiles", &p); err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	if strings.TrimSpace(p.CharacterName) == "" {
		return nil, fmt.Errorf("profile %s: %w", name, engine.ErrNotFound)
	}
	out := p.toProfile(c.log)
	return &out, nil
}

func (c *Client) FetchRoster(ctx context.Context, representative string) ([]engine.RosterEntry, error) {
	var siblings []siblingPayload
	if err := c.get(ctx, "/characters/"+url.PathEscape(representative)+"/siblings", &siblings); err != nil {
		return nil, fmt.Errorf("roster %s: %w", representative, err)
	}
	out := make([]engine.RosterEntry, 0, len(siblings))
	for _, s := range siblings {
		if strings.TrimSpace(s.CharacterName) == "" {
			continue
		}
		out = append(out, s.toEntry(c.log))
	}
	return out, nil
}

// get decodes a JSON body into out. 404, an empty body and a literal null all
// map to ErrNotFound; any other failure is ErrSourceUnavailable.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", engine.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return engine.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.log.Warn("lostark api status", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", engine.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", engine.ErrSourceUnavailable, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return engine.ErrNotFound
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode: %v", engine.ErrSourceUnavailable, err)
	}
	return nil
}
