package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestSearchQuery_ApplyDefaults(t *testing.T) {
	q := SearchQuery{Text: "cement"}
	q.ApplyDefaults()

	if q.Limit != DefaultLimit {
		t.Errorf("expected limit %d, got %d", DefaultLimit, q.Limit)
	}
	if q.Threshold != DefaultThreshold {
		t.Errorf("expected threshold %g, got %g", DefaultThreshold, q.Threshold)
	}
}

func TestSearchQuery_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	q := SearchQuery{Text: "cement", Limit: 3, Threshold: 0.5}
	q.ApplyDefaults()

	if q.Limit != 3 || q.Threshold != 0.5 {
		t.Errorf("explicit values overwritten: %+v", q)
	}
}

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   SearchQuery
		wantErr bool
	}{
		{"valid", SearchQuery{Text: "cement", Limit: 10, Threshold: 0.7}, false},
		{"empty text", SearchQuery{Limit: 10, Threshold: 0.7}, true},
		{"zero limit", SearchQuery{Text: "cement", Threshold: 0.7}, true},
		{"negative limit", SearchQuery{Text: "cement", Limit: -1, Threshold: 0.7}, true},
		{"threshold too high", SearchQuery{Text: "cement", Limit: 10, Threshold: 1.1}, true},
		{"threshold too low", SearchQuery{Text: "cement", Limit: 10, Threshold: -0.1}, true},
		{"threshold bounds", SearchQuery{Text: "cement", Limit: 10, Threshold: 1.0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFailure_EnvelopeShape(t *testing.T) {
	result := Failure("cement", errors.New("connection refused"))

	if result.Success {
		t.Error("expected success=false")
	}
	if result.Products == nil {
		t.Fatal("expected non-nil products")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(payload), `"products":[]`) {
		t.Errorf("expected products to marshal as empty array: %s", payload)
	}
	if !strings.Contains(string(payload), `"error":"connection refused"`) {
		t.Errorf("expected error string in payload: %s", payload)
	}
}

func TestProduct_OptionalFieldsOmitted(t *testing.T) {
	payload, err := json.Marshal(Product{Code: 12345, Name: "X", Unit: "UN", EstimatedPrice: 2.5})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, field := range []string{"description", "type", "family", "similarity"} {
		if strings.Contains(string(payload), field) {
			t.Errorf("expected %q omitted when absent: %s", field, payload)
		}
	}
	if !strings.Contains(string(payload), `"estimatedPrice":2.5`) {
		t.Errorf("expected estimatedPrice field: %s", payload)
	}
}

func TestSearchResult_OptionalFieldsOmitted(t *testing.T) {
	payload, err := json.Marshal(SearchResult{Success: true, Query: "x", Products: []Product{}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, field := range []string{"threshold", "cacheInfo", "error"} {
		if strings.Contains(string(payload), field) {
			t.Errorf("expected %q omitted when absent: %s", field, payload)
		}
	}
}
