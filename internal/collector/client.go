package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrKeysExhausted means every configured API key hit its quota.
	ErrKeysExhausted = errors.New("collector: all API keys exhausted")
	// ErrMalformedResponse means a source answered without the expected fields.
	ErrMalformedResponse = errors.New("collector: malformed response")
)

// ClientOptions tunes an APIClient.
type ClientOptions struct {
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
	Proxy      string
	// AuthHeader carries the key in a request header (StormGlass style).
	AuthHeader string
	// AuthQuery carries the key in a query parameter (OpenWeather style).
	AuthQuery string
	// KeyCooldown is how long a key stays out of rotation after a quota error.
	KeyCooldown time.Duration
}

// APIClient performs JSON GET requests with API-key rotation and retry.
// Keys are rotated on 402/429 answers; transport errors and 5xx answers are
// retried with exponential backoff. Safe for concurrent use.
type APIClient struct {
	Client *http.Client
	opts   ClientOptions
	logger zerolog.Logger

	mu        sync.Mutex
	keys      []string
	current   int
	exhausted map[int]time.Time // key index -> usable again after
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewAPIClient creates a client rotating over keys.
func NewAPIClient(keys []string, opts ClientOptions, logger zerolog.Logger) *APIClient {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryBase == 0 {
		opts.RetryBase = time.Second
	}
	if opts.KeyCooldown == 0 {
		opts.KeyCooldown = 24 * time.Hour
	}
	transport := &http.Transport{}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &APIClient{
		Client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:      opts,
		logger:    logger,
		keys:      append([]string(nil), keys...),
		exhausted: make(map[int]time.Time),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// pickKey returns the current usable key, advancing past exhausted ones.
func (c *APIClient) pickKey() (int, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.keys) == 0 {
		return -1, "", nil
	}
	now := c.now()
	for i := 0; i < len(c.keys); i++ {
		idx := (c.current + i) % len(c.keys)
		if until, ok := c.exhausted[idx]; ok && now.Before(until) {
			continue
		}
		delete(c.exhausted, idx)
		c.current = idx
		return idx, c.keys[idx], nil
	}
	return -1, "", ErrKeysExhausted
}

func (c *APIClient) markExhausted(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exhausted[idx] = c.now().Add(c.opts.KeyCooldown)
	c.current = (idx + 1) % len(c.keys)
}

// ActiveKeys returns how many keys are currently usable.
func (c *APIClient) ActiveKeys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for i := range c.keys {
		if until, ok := c.exhausted[i]; !ok || !now.Before(until) {
			n++
		}
	}
	return n
}

func (c *APIClient) newRequest(ctx context.Context, rawURL, key string) (*http.Request, error) {
	if key != "" && c.opts.AuthQuery != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse url: %w", err)
		}
		q := u.Query()
		q.Set(c.opts.AuthQuery, key)
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if key != "" && c.opts.AuthHeader != "" {
		req.Header.Set(c.opts.AuthHeader, key)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// GetJSON fetches rawURL and decodes the JSON body into dest.
func (c *APIClient) GetJSON(ctx context.Context, rawURL string, dest any) error {
	retries := 0
	for {
		idx, key, err := c.pickKey()
		if err != nil {
			return err
		}
		req, err := c.newRequest(ctx, rawURL, key)
		if err != nil {
			return err
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if retries >= c.opts.MaxRetries {
				return fmt.Errorf("request %s: %w", req.URL.Path, err)
			}
			if err := c.backoff(ctx, retries, err); err != nil {
				return err
			}
			retries++
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusTooManyRequests:
			if idx < 0 {
				return fmt.Errorf("request %s: quota exceeded (status %d)", req.URL.Path, resp.StatusCode)
			}
			c.logger.Warn().Int("status", resp.StatusCode).Int("key", idx).Msg("API key quota reached, rotating")
			c.markExhausted(idx)
			continue
		case resp.StatusCode >= 500:
			statusErr := fmt.Errorf("request %s: status %d", req.URL.Path, resp.StatusCode)
			if retries >= c.opts.MaxRetries {
				return statusErr
			}
			if err := c.backoff(ctx, retries, statusErr); err != nil {
				return err
			}
			retries++
			continue
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("request %s: status %d: %s", req.URL.Path, resp.StatusCode, truncate(body, 200))
		}

		if readErr != nil {
			return fmt.Errorf("read body: %w", readErr)
		}
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, req.URL.Path, err)
		}
		return nil
	}
}

func (c *APIClient) backoff(ctx context.Context, attempt int, cause error) error {
	d := c.opts.RetryBase * time.Duration(1<<uint(attempt))
	c.logger.Warn().Err(cause).Int("attempt", attempt+1).Dur("backoff", d).Msg("request failed, retrying")
	return c.sleep(ctx, d)
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
