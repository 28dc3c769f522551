package search

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/resilience"
)

// Service is the client-side front door to the compare function. Price
// lookups are cached for a short window and retried once when the backend
// answers successfully but empty; conversational actions bypass the cache.
//
// Service methods never return an error: every outcome, including transport
// failures, is expressed as a CompareResult envelope so callers have exactly
// one rendering path.
type Service struct {
	client   *backendClient
	retry    resilience.RetryConfig
	group    singleflight.Group
	cache    *responseCache
	cacheTTL time.Duration
	cacheMax int
}

type Option func(*Service)

// WithHTTPClient overrides the HTTP client used for backend calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.client.http = c
	}
}

// WithCacheTTL overrides the freshness window of cached lookups.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithCacheSize overrides the cache entry bound.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		s.cacheMax = n
	}
}

// WithRetry overrides the retry policy for backend calls.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(s *Service) {
		s.retry = cfg
	}
}

func New(baseURL string, opts ...Option) *Service {
	s := &Service{
		client:   newBackendClient(baseURL, nil),
		retry:    resilience.FromRetryConfig(2, 250, true),
		cacheTTL: 30 * time.Minute,
		cacheMax: 256,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = newResponseCache(s.cacheTTL, s.cacheMax)
	return s
}

// Compare classifies the query (product name, URL or barcode) and runs a
// price lookup.
func (s *Service) Compare(ctx context.Context, query string) *model.CompareResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.CompareFailure("query is required")
	}

	kind := model.ClassifyQuery(query)
	return s.lookup(ctx, backendRequest{
		Query:  query,
		Type:   string(kind),
		Action: actionForKind(kind),
	})
}

// LookupBarcode runs a price lookup for a scanned barcode.
func (s *Service) LookupBarcode(ctx context.Context, code string) *model.CompareResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.CompareFailure("barcode is required")
	}
	return s.lookup(ctx, backendRequest{
		Query:  code,
		Type:   string(model.KindBarcode),
		Action: actionBarcodeLookup,
	})
}

// LookupByName runs a price lookup for a product name, skipping
// classification.
func (s *Service) LookupByName(ctx context.Context, name string) *model.CompareResult {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.CompareFailure("product name is required")
	}
	return s.lookup(ctx, backendRequest{
		Query:  name,
		Type:   string(model.KindName),
		Action: actionNameLookup,
	})
}

// Chat sends a free-form question with optional accumulated conversation
// context. Never cached.
func (s *Service) Chat(ctx context.Context, message, conversation string) *model.CompareResult {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.CompareFailure("message is required")
	}
	return s.ask(ctx, backendRequest{
		Query:   message,
		Type:    string(model.KindName),
		Action:  actionChat,
		Context: conversation,
	})
}

// Summarize asks for a short product summary. Never cached.
func (s *Service) Summarize(ctx context.Context, product string) *model.CompareResult {
	product = strings.TrimSpace(product)
	if product == "" {
		return model.CompareFailure("product name is required")
	}
	return s.ask(ctx, backendRequest{
		Query:  product,
		Type:   string(model.KindName),
		Action: actionSummarize,
	})
}

// AnalyzeReviews asks for a sentiment breakdown of the given reviews.
// Never cached.
func (s *Service) AnalyzeReviews(ctx context.Context, product string, reviews []string) *model.CompareResult {
	product = strings.TrimSpace(product)
	if product == "" {
		return model.CompareFailure("product name is required")
	}
	if len(reviews) == 0 {
		return model.CompareFailure("at least one review is required")
	}
	return s.ask(ctx, backendRequest{
		Query:   product,
		Type:    string(model.KindName),
		Action:  actionAnalyzeReviews,
		Reviews: reviews,
	})
}

func actionForKind(kind model.QueryKind) string {
	switch kind {
	case model.KindBarcode:
		return actionBarcodeLookup
	case model.KindName:
		return actionNameLookup
	default:
		return actionCompare
	}
}

// lookup serves a price lookup through the cache. Concurrent lookups for the
// same key are coalesced into one backend call; only successful, non-empty
// results are cached.
func (s *Service) lookup(ctx context.Context, req backendRequest) *model.CompareResult {
	key := cacheKey(req.Action, req.Query)

	if result, ok := s.cache.get(key); ok {
		zap.L().Debug("cache hit", zap.String("key", key))
		return result
	}
	zap.L().Debug("cache miss", zap.String("key", key))

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.fetch(ctx, req)
	})
	if err != nil {
		zap.L().Error("price lookup failed",
			zap.String("query", req.Query),
			zap.Error(err),
		)
		return model.CompareFailure("could not reach the price service, check your connection and try again")
	}

	result := v.(*model.CompareResult)
	if result.Success && !result.Empty() {
		s.cache.set(key, result)
	}
	return result
}

// fetch calls the backend under the retry policy. A successful-but-empty
// envelope is converted to ErrEmptyResult so the policy can retry it; if the
// last attempt is still empty, the empty envelope is returned as-is for the
// caller to render.
func (s *Service) fetch(ctx context.Context, req backendRequest) (*model.CompareResult, error) {
	var lastEmpty *model.CompareResult

	cfg := s.retry
	cfg.OnRetry = resilience.RetryLogger("compare " + req.Query)

	result, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*model.CompareResult, error) {
		r, err := s.client.compare(ctx, req)
		if err != nil {
			return nil, err
		}
		if r.Empty() {
			lastEmpty = r
			return nil, resilience.ErrEmptyResult
		}
		return r, nil
	})
	if err != nil {
		if resilience.IsEmptyResult(err) && lastEmpty != nil {
			return lastEmpty, nil
		}
		return nil, err
	}
	return result, nil
}

// ask runs an uncached conversational call. Transient failures are still
// retried; an empty answer is not.
func (s *Service) ask(ctx context.Context, req backendRequest) *model.CompareResult {
	cfg := s.retry
	cfg.ShouldRetry = resilience.IsTransient
	cfg.OnRetry = resilience.RetryLogger(req.Action)

	result, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*model.CompareResult, error) {
		return s.client.compare(ctx, req)
	})
	if err != nil {
		zap.L().Error("backend call failed",
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return model.CompareFailure("could not reach the assistant, check your connection and try again")
	}
	return result
}
