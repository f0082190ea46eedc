// Package strudel is a client for the lookUP name resolver
// (https://www.strudel.org.uk/lookUP/), which turns an object name into
// sky coordinates by querying SIMBAD, NED and friends.
package strudel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.strudel.org.uk/lookUP/json/"

// ErrMalformedPayload is returned when the service answered but the body
// could not be decoded as a lookup result.
var ErrMalformedPayload = errors.New("malformed lookup payload")

type Config struct {
	BaseURL    string
	UserAgent  string
	RPS        float64
	MaxRetries int
	Backoff    time.Duration
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:  cfg.UserAgent,
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		logger:     logger,
	}
}

// Result matches the lookUP json response. RA and Dec are only present
// when the name resolved to a position.
type Result struct {
	Target   Target    `json:"target"`
	Service  *Service  `json:"service,omitempty"`
	Coordsys string    `json:"coordsys,omitempty"`
	Equinox  string    `json:"equinox,omitempty"`
	RA       *RA       `json:"ra,omitempty"`
	Dec      *Dec      `json:"dec,omitempty"`
	Galactic *Galactic `json:"galactic,omitempty"`
	Category *Category `json:"category,omitempty"`
	Image    *Image    `json:"image,omitempty"`
}

type Target struct {
	Name       string `json:"name"`
	Suggestion string `json:"suggestion,omitempty"`
}

type Service struct {
	Name string `json:"name"`
	Href string `json:"href,omitempty"`
}

type RA struct {
	H       float64 `json:"h"`
	M       float64 `json:"m"`
	S       float64 `json:"s"`
	Decimal float64 `json:"decimal"`
}

type Dec struct {
	D       float64 `json:"d"`
	M       float64 `json:"m"`
	S       float64 `json:"s"`
	Decimal float64 `json:"decimal"`
}

type Galactic struct {
	L float64 `json:"l"`
	B float64 `json:"b"`
}

type Category struct {
	AVMCode string `json:"avmcode,omitempty"`
	AVMDesc string `json:"avmdesc,omitempty"`
	Otype   string `json:"otype,omitempty"`
}

type Image struct {
	Src  string `json:"src,omitempty"`
	Href string `json:"href,omitempty"`
}

// Resolve looks up name. callback is echoed as the JSONP callback
// parameter; the response is accepted with or without the wrapper.
// A literal null body yields a nil result and nil error.
func (c *Client) Resolve(ctx context.Context, name, callback string) (*Result, error) {
	q := url.Values{}
	q.Set("name", name)
	if callback != "" {
		q.Set("callback", callback)
	}
	u := c.baseURL + "?" + q.Encode()

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	return Decode(body)
}

var jsonpWrapper = regexp.MustCompile(`(?s)^\s*[A-Za-z_$][\w$.]*\s*\((.*)\)\s*;?\s*$`)

// Decode parses a lookUP response body, stripping a JSONP wrapper if
// one is present.
func Decode(body []byte) (*Result, error) {
	if m := jsonpWrapper.FindSubmatch(body); m != nil {
		body = m[1]
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: base, 2*base, 4*base...
			backoff := time.Duration(1<<uint(i-1)) * c.backoff
			c.logger.Warn("retrying lookup",
				zap.Int("attempt", i),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retry, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json, text/javascript")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
