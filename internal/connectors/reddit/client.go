package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for 5xx responses.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	maxErrorBody = 512
)

// Client is an app-only Reddit API client.
type Client struct {
	cfg         Config
	http        *http.Client
	rateLimiter *RateLimiter
	retryDelay  time.Duration
}

// NewClient creates a client that authenticates with client credentials.
// The token is fetched lazily on the first request and refreshed as needed.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	base := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &userAgentTransport{userAgent: cfg.UserAgent, base: http.DefaultTransport},
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// The token source keeps this context for refreshes, so detach it from
	// the caller's cancellation.
	tokenCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, base)
	hc := cc.Client(tokenCtx)
	hc.Timeout = DefaultTimeout
	// Reddit redirects missing communities to search; report those as not found.
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		cfg:         cfg,
		http:        hc,
		rateLimiter: NewRateLimiter(cfg.RequestsPerMinute),
		retryDelay:  RetryDelay,
	}, nil
}

// RateLimiter returns the client's limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// getJSON issues a GET against the API and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("raw_json", "1")
	endpoint := c.cfg.BaseURL + path + "?" + query.Encode()

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return c.wrapError(ctx, err, path)
		}

		if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
			resp.Body.Close()
			return err
		}

		if resp.StatusCode >= http.StatusInternalServerError && attempt < MaxRetries {
			resp.Body.Close()
			logger.Debug("reddit: %s returned %d, retrying", path, resp.StatusCode)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt+1)):
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()
			return &APIError{StatusCode: resp.StatusCode, Message: string(body), URL: path}
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("reddit: decode %s: %w", path, err)
		}
		return nil
	}
}

// wrapError maps transport and token errors to domain errors.
func (c *Client) wrapError(ctx context.Context, err error, path string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: reddit token request failed: %v", domain.ErrAuthInvalid, retrieveErr)
	}
	return fmt.Errorf("reddit: %s: %w", path, err)
}

// userAgentTransport sets the User-Agent header Reddit requires on every request.
type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}
