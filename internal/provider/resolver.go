package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/Digital-Shane/media-sort/internal/media"
	"github.com/Digital-Shane/media-sort/internal/util"
	"golang.org/x/text/unicode/norm"
)

// DefaultTimeout bounds a single catalog request.
const DefaultTimeout = 10 * time.Second

// Resolver corrects Episode titles against the registered catalogs.
type Resolver struct {
	registry *Registry
	cache    *Cache
	language string
	timeout  time.Duration
	logger   *slog.Logger
}

// ResolverOptions configures a Resolver. Zero values select defaults.
type ResolverOptions struct {
	Cache    *Cache
	Language string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewResolver creates a resolver over the catalogs in reg.
func NewResolver(reg *Registry, opts ResolverOptions) *Resolver {
	r := &Resolver{
		registry: reg,
		cache:    opts.Cache,
		language: opts.Language,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}
	if r.language == "" {
		r.language = "en-US"
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Resolve searches the catalogs for ep and, when a candidate scores above
// zero, replaces ep.Title with the sanitized catalog title and ep.Year with
// the catalog year. Catalogs for the kind are tried in priority order until
// one returns candidates. The returned error is the first catalog failure; it
// never prevents the remaining catalogs from being tried and leaves ep
// unchanged when nothing matched.
func (r *Resolver) Resolve(ctx context.Context, ep *media.Episode) (bool, error) {
	q := Query{
		Kind:     KindSeries,
		Title:    ep.Title,
		Year:     ep.Year,
		Language: r.language,
	}
	if ep.IsMovie {
		q.Kind = KindMovie
	}

	var firstErr error
	var candidates []Candidate
	for _, s := range r.registry.For(q.Kind) {
		found, err := r.search(ctx, s, q)
		if err != nil {
			r.logger.Warn("title lookup failed", "provider", s.Name(), "title", q.Title, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(found) > 0 {
			candidates = found
			break
		}
	}

	best, score, ok := Best(q.Title, candidates)
	if !ok {
		return false, firstErr
	}
	title := SanitizeTitle(best.Title)
	if title == "" {
		return false, firstErr
	}

	r.logger.Debug("title resolved", "from", ep.Title, "to", title, "year", best.Year, "accuracy", score)
	ep.Title = title
	if best.Year != "" {
		ep.Year = best.Year
	}
	return true, nil
}

func (r *Resolver) search(ctx context.Context, s Searcher, q Query) ([]Candidate, error) {
	key := CacheKey(s.Name(), q)
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	found, err := s.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, found)
	return found, nil
}

// Best returns the candidate closest to query. Only accuracies strictly above
// zero qualify, and on a tie the earlier candidate wins.
func Best(query string, candidates []Candidate) (Candidate, int, bool) {
	q := norm.NFC.String(query)

	var best Candidate
	bestScore := 0
	found := false
	for _, c := range candidates {
		score := util.Accuracy(q, norm.NFC.String(c.Title))
		if score > bestScore {
			best, bestScore, found = c, score, true
		}
	}
	return best, bestScore, found
}
