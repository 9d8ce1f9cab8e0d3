package search

import (
	"encoding/json"

	"github.com/supplydesk/search-agent/internal/models"
)

// Wire shapes as the supply backend returns them.

type backendProduct struct {
	Code           int      `json:"code"`
	Name           string   `json:"name"`
	Unit           string   `json:"unit"`
	PriceEstimated float64  `json:"priceEstimated"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	Family         string   `json:"family"`
	Similarity     *float64 `json:"similarity"`
}

type vectorSearchResponse struct {
	Success    bool             `json:"success"`
	TotalFound int              `json:"totalFound"`
	Threshold  *float64         `json:"threshold"`
	Products   []backendProduct `json:"products"`
	CacheInfo  json.RawMessage  `json:"cacheInfo"`
}

// toProduct renames the backend's priceEstimated field to estimatedPrice and
// leaves similarity absent unless the backend supplied one.
func toProduct(p backendProduct) models.Product {
	return models.Product{
		Code:           p.Code,
		Name:           p.Name,
		Unit:           p.Unit,
		EstimatedPrice: p.PriceEstimated,
		Description:    p.Description,
		Type:           p.Type,
		Family:         p.Family,
		Similarity:     p.Similarity,
	}
}

func toProducts(items []backendProduct) []models.Product {
	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		products = append(products, toProduct(item))
	}
	return products
}
