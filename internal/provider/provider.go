package provider

import (
	"context"
	"fmt"
)

// Kind selects which catalog endpoint a search goes to.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Query is a free-text title search. Year is a hint and may be empty.
type Query struct {
	Kind     Kind
	Title    string
	Year     string
	Language string
}

// Candidate is one search hit as returned by a catalog.
type Candidate struct {
	Title string
	Year  string
}

// Searcher is implemented by every title catalog.
type Searcher interface {
	// Name identifies the catalog in logs, errors and cache keys.
	Name() string
	// Kinds lists the media kinds the catalog can search.
	Kinds() []Kind
	// Search returns the candidates for q in catalog order.
	Search(ctx context.Context, q Query) ([]Candidate, error)
}

// ProviderError represents an error from a catalog
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Error codes shared by the catalog clients.
const (
	CodeAuthFailed  = "AUTH_FAILED"
	CodeRateLimited = "RATE_LIMITED"
	CodeUnavailable = "UNAVAILABLE"
	CodeDecode      = "DECODE"
	CodeUnknown     = "UNKNOWN"
)

// NewError builds a ProviderError with a formatted message.
func NewError(provider, code string, retry bool, format string, args ...any) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Retry:    retry,
	}
}
