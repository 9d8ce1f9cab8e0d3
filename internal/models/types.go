package models

import (
	"encoding/json"
	"fmt"
)

const (
	DefaultLimit     = 10
	DefaultThreshold = 0.7
)

// SearchQuery is the normalized input for both search operations.
// Threshold only applies to vector search.
type SearchQuery struct {
	Text      string
	Limit     int
	Threshold float64
}

// ApplyDefaults fills unset fields. A zero limit or threshold means the
// caller did not supply one.
func (q *SearchQuery) ApplyDefaults() {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Threshold == 0 {
		q.Threshold = DefaultThreshold
	}
}

func (q SearchQuery) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("query text is required")
	}
	if q.Limit < 1 {
		return fmt.Errorf("limit must be a positive integer, got %d", q.Limit)
	}
	if q.Threshold < 0 || q.Threshold > 1 {
		return fmt.Errorf("threshold must be between 0.0 and 1.0, got %g", q.Threshold)
	}
	return nil
}

// Product is the normalized projection of a backend product. Built fresh per
// response, never cached or mutated after construction.
type Product struct {
	Code           int      `json:"code"`
	Name           string   `json:"name"`
	Unit           string   `json:"unit"`
	EstimatedPrice float64  `json:"estimatedPrice"`
	Description    string   `json:"description,omitempty"`
	Type           string   `json:"type,omitempty"`
	Family         string   `json:"family,omitempty"`
	Similarity     *float64 `json:"similarity,omitempty"`
}

// SearchResult is the externally visible contract. Every code path (success,
// fallback, failure) produces a value of this shape.
//
// TotalFound reflects the backend's count; Products is the page actually
// returned. Callers must not assume the two match.
type SearchResult struct {
	Success    bool            `json:"success"`
	Query      string          `json:"query"`
	TotalFound int             `json:"totalFound"`
	Products   []Product       `json:"products"`
	Threshold  *float64        `json:"threshold,omitempty"`
	CacheInfo  json.RawMessage `json:"cacheInfo,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Failure builds the uniform failure envelope. Products is non-nil so the
// field marshals as an empty array rather than null.
func Failure(query string, err error) SearchResult {
	return SearchResult{
		Success:  false,
		Query:    query,
		Products: []Product{},
		Error:    err.Error(),
	}
}
