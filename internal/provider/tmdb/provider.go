package tmdb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Digital-Shane/media-sort/internal/provider"
	"github.com/Digital-Shane/media-sort/internal/util"
	"github.com/ryanbradynd05/go-tmdb"
)

const (
	providerName = "tmdb"
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("tmdb api key is required")

// Client is the subset of *tmdb.TMDb used for title search, so tests can mock it.
type Client interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error)
}

// Provider searches The Movie Database for movie and series titles.
type Provider struct {
	client      Client
	rateLimiter *rateLimiter
}

// New creates a provider backed by the TMDB API.
func New(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client := tmdb.Init(tmdb.Config{
		APIKey:   apiKey,
		Proxies:  nil,
		UseProxy: false,
	})
	return NewWithClient(client), nil
}

// NewWithClient creates a provider around an existing client.
func NewWithClient(client Client) *Provider {
	return &Provider{
		client:      client,
		rateLimiter: newRateLimiter(38, 10*time.Second), // 38 requests per 10 seconds
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Kinds reports that TMDB serves both movie and series searches.
func (p *Provider) Kinds() []provider.Kind {
	return []provider.Kind{provider.KindMovie, provider.KindSeries}
}

// Search queries the movie or tv endpoint depending on q.Kind.
func (p *Provider) Search(ctx context.Context, q provider.Query) ([]provider.Candidate, error) {
	options := map[string]string{}
	if q.Language != "" {
		options["language"] = q.Language
	}

	if err := p.rateLimiter.wait(ctx); err != nil {
		return nil, p.mapError(err)
	}

	if q.Kind == provider.KindMovie {
		if q.Year != "" {
			options["year"] = q.Year
		}
		results, err := call(ctx, func() (*tmdb.MovieSearchResults, error) {
			return p.client.SearchMovie(q.Title, options)
		})
		if err != nil {
			return nil, p.mapError(err)
		}
		return movieCandidates(results), nil
	}

	if q.Year != "" {
		options["first_air_date_year"] = q.Year
	}
	results, err := call(ctx, func() (*tmdb.TvSearchResults, error) {
		return p.client.SearchTv(q.Title, options)
	})
	if err != nil {
		return nil, p.mapError(err)
	}
	return tvCandidates(results), nil
}

// call runs fn and gives up when ctx ends first. The client has no context
// support, so an abandoned request finishes in the background.
func call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func movieCandidates(results *tmdb.MovieSearchResults) []provider.Candidate {
	if results == nil {
		return nil
	}
	out := make([]provider.Candidate, 0, len(results.Results))
	for _, m := range results.Results {
		if m.Title == "" {
			continue
		}
		out = append(out, provider.Candidate{Title: m.Title, Year: util.YearFromDate(m.ReleaseDate)})
	}
	return out
}

func tvCandidates(results *tmdb.TvSearchResults) []provider.Candidate {
	if results == nil {
		return nil
	}
	out := make([]provider.Candidate, 0, len(results.Results))
	for _, s := range results.Results {
		if s.Name == "" {
			continue
		}
		out = append(out, provider.Candidate{Title: s.Name, Year: util.YearFromDate(s.FirstAirDate)})
	}
	return out
}

// mapError maps TMDB errors to provider errors
func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnavailable,
			Message:  "TMDB request abandoned: " + err.Error(),
			Retry:    true,
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "TMDB authentication failed: " + err.Error(),
			Retry:    false,
		}
	}
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	}
	if strings.Contains(errStr, "503") || strings.Contains(errStr, "unavailable") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeUnavailable,
			Message:    "TMDB service unavailable",
			Retry:      true,
			RetryAfter: 30,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeUnknown,
		Message:  "TMDB error: " + err.Error(),
		Retry:    false,
	}
}
