// Package source talks to the salary data API and keeps one validated copy
// of its dataset for the rest of the service.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"salarydash/internal/domain"
)

const (
	DefaultURL     = "http://localhost:7000/data"
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 64 << 20
)

// Payload is one validated response from the data API.
type Payload struct {
	Records []domain.Record
	Rejects []domain.Reject
}

// TokenFunc returns the bearer token for the data API, or "" for none.
type TokenFunc func() (string, error)

type Options struct {
	URL     string
	Timeout time.Duration
	MaxRPS  float64
	Burst   int
	Token   TokenFunc
}

type Client struct {
	url     string
	hc      *http.Client
	limiter *HostLimiter
	token   TokenFunc
	log     zerolog.Logger
}

func New(opts Options, log zerolog.Logger) *Client {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Client{
		url:     opts.URL,
		hc:      &http.Client{Timeout: opts.Timeout},
		limiter: NewHostLimiter(opts.MaxRPS, opts.Burst),
		token:   opts.Token,
		log:     log.With().Str("component", "source").Logger(),
	}
}

func (c *Client) URL() string { return c.url }

// Fetch performs one GET of the dataset.
func (c *Client) Fetch(ctx context.Context) (Payload, error) {
	if err := c.limiter.WaitURL(ctx, c.url); err != nil {
		return Payload{}, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "salarydash/1.0 (+local)")
	if c.token != nil {
		tok, err := c.token()
		if err != nil {
			c.log.Warn().Err(err).Msg("api token unavailable, fetching without auth")
		} else if tok = strings.TrimSpace(tok); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("get %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		c.log.Debug().Int("status", resp.StatusCode).Str("body", string(b)).Msg("upstream error body")
		return Payload{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Payload{}, fmt.Errorf("read body: %w", err)
	}

	records, rejects, err := DecodeRecords(body)
	if err != nil {
		return Payload{}, err
	}
	for _, r := range rejects {
		c.log.Warn().Int("index", r.Index).Str("reason", r.Reason).Msg("record quarantined")
	}
	c.log.Info().
		Int("records", len(records)).
		Int("rejected", len(rejects)).
		Dur("took", time.Since(start)).
		Msg("dataset fetched")

	return Payload{Records: records, Rejects: rejects}, nil
}
