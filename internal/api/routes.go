package api

import (
	"errors"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/supplydesk/search-agent/internal/api/middleware"
	"github.com/supplydesk/search-agent/internal/models"
)

var errMissingQuery = errors.New("query is required")

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/search").
			To(handler.Search).
			Doc("Search products by name or code").
			Metadata(restfulspec.KeyOpenAPITags, []string{"search"}).
			Reads(SearchRequest{}).
			Writes(models.SearchResult{}).
			Returns(200, "OK", models.SearchResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/search/vector").
			To(handler.VectorSearch).
			Doc("Search products by embedding similarity").
			Metadata(restfulspec.KeyOpenAPITags, []string{"search"}).
			Reads(VectorSearchRequest{}).
			Writes(models.SearchResult{}).
			Returns(200, "OK", models.SearchResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
