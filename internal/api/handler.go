package api

import (
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
	"github.com/supplydesk/search-agent/internal/api/middleware"
	"github.com/supplydesk/search-agent/internal/models"
	"github.com/supplydesk/search-agent/internal/search"
)

// SearchRequest is the body for POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// VectorSearchRequest is the body for POST /api/v1/search/vector.
type VectorSearchRequest struct {
	Query     string  `json:"query"`
	Limit     int     `json:"limit,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type Handler struct {
	searcher *search.Searcher
	logger   *zerolog.Logger
}

func NewHandler(searcher *search.Searcher, logger *zerolog.Logger) *Handler {
	return &Handler{
		searcher: searcher,
		logger:   logger,
	}
}

func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC(),
	})
}

// POST /api/v1/search
// Body: SearchRequest
// Returns: models.SearchResult
func (h *Handler) Search(req *restful.Request, resp *restful.Response) {
	var searchReq SearchRequest
	if err := req.ReadEntity(&searchReq); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if searchReq.Query == "" {
		middleware.HandleError(resp, errMissingQuery, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("query", searchReq.Query).
		Int("limit", searchReq.Limit).
		Msg("Start literal search")

	ctx := req.Request.Context()
	result := h.searcher.LiteralSearch(ctx, models.SearchQuery{
		Text:  searchReq.Query,
		Limit: searchReq.Limit,
	})

	h.logger.Info().
		Str("query", result.Query).
		Bool("success", result.Success).
		Int("total_found", result.TotalFound).
		Msg("Literal search complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/search/vector
// Body: VectorSearchRequest
// Returns: models.SearchResult
func (h *Handler) VectorSearch(req *restful.Request, resp *restful.Response) {
	var searchReq VectorSearchRequest
	if err := req.ReadEntity(&searchReq); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if searchReq.Query == "" {
		middleware.HandleError(resp, errMissingQuery, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("query", searchReq.Query).
		Int("limit", searchReq.Limit).
		Float64("threshold", searchReq.Threshold).
		Msg("Start vector search")

	ctx := req.Request.Context()
	result := h.searcher.VectorSearch(ctx, models.SearchQuery{
		Text:      searchReq.Query,
		Limit:     searchReq.Limit,
		Threshold: searchReq.Threshold,
	})

	h.logger.Info().
		Str("query", result.Query).
		Bool("success", result.Success).
		Int("total_found", result.TotalFound).
		Msg("Vector search complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}
