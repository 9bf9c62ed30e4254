package tvmaze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Digital-Shane/media-sort/internal/provider"
	"github.com/Digital-Shane/media-sort/internal/util"
)

const (
	providerName = "tvmaze"

	// DefaultBaseURL is the public TVmaze API.
	DefaultBaseURL = "https://api.tvmaze.com"

	maxAttempts = 3
)

// Provider searches TVmaze for series titles. Transient failures are retried
// silently.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	backoff    time.Duration
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL points the provider at another API root.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// WithBackoff sets the base delay between retries. It doubles per attempt.
func WithBackoff(d time.Duration) Option {
	return func(p *Provider) { p.backoff = d }
}

// New creates a TVmaze provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		backoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Kinds reports that TVmaze only knows series.
func (p *Provider) Kinds() []provider.Kind {
	return []provider.Kind{provider.KindSeries}
}

type show struct {
	Name      string `json:"name"`
	Premiered string `json:"premiered"`
}

type searchResult struct {
	Score float64 `json:"score"`
	Show  show    `json:"show"`
}

// Search queries /search/shows. Entries that fail to decode are dropped.
func (p *Provider) Search(ctx context.Context, q provider.Query) ([]provider.Candidate, error) {
	u, err := url.Parse(p.baseURL + "/search/shows")
	if err != nil {
		return nil, fmt.Errorf("tvmaze base url: %w", err)
	}
	params := u.Query()
	params.Set("q", q.Title)
	u.RawQuery = params.Encode()

	body, err := p.get(ctx, u.String())
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeDecode,
			Message:  "parse tvmaze response: " + err.Error(),
		}
	}

	out := make([]provider.Candidate, 0, len(raw))
	for _, item := range raw {
		var r searchResult
		if err := json.Unmarshal(item, &r); err != nil || r.Show.Name == "" {
			continue
		}
		out = append(out, provider.Candidate{Title: r.Show.Name, Year: util.YearFromDate(r.Show.Premiered)})
	}
	return out, nil
}

// get fetches u, retrying network errors, 429 and 5xx replies. A 404 yields
// a nil body and no error.
func (p *Provider) get(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := p.backoff << uint(attempt-1)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, p.abandoned(ctx.Err())
			case <-timer.C:
			}
		}

		body, retry, err := p.do(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, lastErr
}

func (p *Provider) do(ctx context.Context, u string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, p.abandoned(ctxErr)
		}
		return nil, true, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnavailable,
			Message:  "tvmaze request: " + err.Error(),
			Retry:    true,
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    "tvmaze rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	case resp.StatusCode >= 500:
		return nil, true, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnavailable,
			Message:  fmt.Sprintf("tvmaze returned %s", resp.Status),
			Retry:    true,
		}
	case resp.StatusCode != http.StatusOK:
		return nil, false, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnknown,
			Message:  fmt.Sprintf("tvmaze returned %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnavailable,
			Message:  "read tvmaze response: " + err.Error(),
			Retry:    true,
		}
	}
	if body == nil {
		body = []byte{}
	}
	return body, false, nil
}

func (p *Provider) abandoned(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnavailable,
			Message:  "tvmaze request abandoned: " + err.Error(),
			Retry:    true,
		}
	}
	return err
}
