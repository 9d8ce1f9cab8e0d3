package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/supplydesk/search-agent/internal/models"
)

const (
	vectorSearchPath = "/api/supply/products/vector-search"
	productsPath     = "/api/supply/products"
)

// Backend is the slice of the backend client the orchestrator needs.
type Backend interface {
	Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error)
}

// Options carries the configured query defaults. Zero values select the
// model-level defaults.
type Options struct {
	DefaultLimit     int
	DefaultThreshold float64
}

// Searcher implements the two search operations, the vector-first fallback
// policy of literal search, and normalization into the SearchResult shape.
// Neither operation ever returns an error to its caller; failures degrade to
// a success:false result.
type Searcher struct {
	backend          Backend
	defaultLimit     int
	defaultThreshold float64
	logger           *zerolog.Logger
}

func NewSearcher(backend Backend, opts Options, logger *zerolog.Logger) *Searcher {
	if opts.DefaultLimit == 0 {
		opts.DefaultLimit = models.DefaultLimit
	}
	if opts.DefaultThreshold == 0 {
		opts.DefaultThreshold = models.DefaultThreshold
	}

	return &Searcher{
		backend:          backend,
		defaultLimit:     opts.DefaultLimit,
		defaultThreshold: opts.DefaultThreshold,
		logger:           logger,
	}
}

// LiteralSearch looks up products by name or code. It opportunistically tries
// vector search first for better precision; when that call fails, reports
// success=false, or finds nothing, it falls back once to the literal listing
// endpoint. At most two upstream calls are made.
func (s *Searcher) LiteralSearch(ctx context.Context, query models.SearchQuery) models.SearchResult {
	s.applyDefaults(&query)
	if err := query.Validate(); err != nil {
		return models.Failure(query.Text, err)
	}

	s.logger.Debug().Str("query", query.Text).Int("limit", query.Limit).Msg("Starting literal search")

	vec, err := s.vectorCall(ctx, query, false)
	if err == nil && vec.Success && vec.TotalFound > 0 {
		return models.SearchResult{
			Success:    true,
			Query:      query.Text,
			TotalFound: vec.TotalFound,
			Products:   toProducts(vec.Products),
		}
	}

	if err != nil {
		s.logger.Warn().Err(err).Str("query", query.Text).Msg("Vector search unavailable, falling back to listing")
	} else {
		s.logger.Debug().Str("query", query.Text).Msg("Vector search found nothing, falling back to listing")
	}

	params := url.Values{}
	params.Set("search", query.Text)
	params.Set("limit", strconv.Itoa(query.Limit))

	raw, err := s.backend.Get(ctx, productsPath, params)
	if err != nil {
		return models.Failure(query.Text, err)
	}

	// The listing endpoint returns a bare product array, not a result envelope.
	var items []backendProduct
	if err := json.Unmarshal(raw, &items); err != nil {
		return models.Failure(query.Text, fmt.Errorf("decoding product listing: %w", err))
	}

	return models.SearchResult{
		Success:    true,
		Query:      query.Text,
		TotalFound: len(items),
		Products:   toProducts(items),
	}
}

// VectorSearch looks up products by embedding similarity. It makes exactly
// one upstream call and never falls back to the literal endpoint.
func (s *Searcher) VectorSearch(ctx context.Context, query models.SearchQuery) models.SearchResult {
	s.applyDefaults(&query)
	if err := query.Validate(); err != nil {
		return models.Failure(query.Text, err)
	}

	s.logger.Debug().
		Str("query", query.Text).
		Int("limit", query.Limit).
		Float64("threshold", query.Threshold).
		Msg("Starting vector search")

	vec, err := s.vectorCall(ctx, query, true)
	if err != nil {
		return models.Failure(query.Text, err)
	}

	threshold := query.Threshold
	if vec.Threshold != nil {
		threshold = *vec.Threshold
	}

	return models.SearchResult{
		Success:    vec.Success,
		Query:      query.Text,
		TotalFound: vec.TotalFound,
		Products:   toProducts(vec.Products),
		Threshold:  &threshold,
		CacheInfo:  vec.CacheInfo,
	}
}

func (s *Searcher) applyDefaults(query *models.SearchQuery) {
	if query.Limit == 0 {
		query.Limit = s.defaultLimit
	}
	if query.Threshold == 0 {
		query.Threshold = s.defaultThreshold
	}
}

func (s *Searcher) vectorCall(ctx context.Context, query models.SearchQuery, withThreshold bool) (*vectorSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query.Text)
	params.Set("limit", strconv.Itoa(query.Limit))
	if withThreshold {
		params.Set("threshold", strconv.FormatFloat(query.Threshold, 'f', -1, 64))
	}

	raw, err := s.backend.Get(ctx, vectorSearchPath, params)
	if err != nil {
		return nil, err
	}

	var resp vectorSearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding vector search response: %w", err)
	}

	return &resp, nil
}
