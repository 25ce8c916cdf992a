// Package flora proxies the read-only plant catalog API (species,
// diseases, plant instances and their GeoJSON occurrences). The upstream
// is unauthenticated, so no bearer token is attached; routing it through
// the gateway removes the hardcoded cross-origin host the dashboard used
// to fetch directly.
package flora

import (
	"net/url"

	"floragate/internal/proxy"

	"github.com/gin-gonic/gin"
)

// Handler exposes the catalog endpoints.
type Handler struct {
	client *proxy.Client
}

// NewHandler creates a new flora catalog handler
func NewHandler(client *proxy.Client) *Handler {
	return &Handler{client: client}
}

// ListSpecies handles GET /flora/species with query passthrough
func (h *Handler) ListSpecies(c *gin.Context) {
	h.forward(c, "/species")
}

// GetSpecies handles GET /flora/species/:id
func (h *Handler) GetSpecies(c *gin.Context) {
	h.forward(c, "/species/"+url.PathEscape(c.Param("id")))
}

// ListDiseases handles GET /flora/diseases
func (h *Handler) ListDiseases(c *gin.Context) {
	h.forward(c, "/diseases")
}

// ListPlants handles GET /flora/plants
func (h *Handler) ListPlants(c *gin.Context) {
	h.forward(c, "/plants")
}

// PlantsGeoJSON handles GET /flora/plants/geojson for the map viewer
func (h *Handler) PlantsGeoJSON(c *gin.Context) {
	h.forward(c, "/plants/geojson")
}

func (h *Handler) forward(c *gin.Context, path string) {
	resp, err := h.client.Get(c.Request.Context(), path, c.Request.URL.RawQuery, "")
	if err != nil {
		proxy.RelayError(c, err)
		return
	}
	proxy.Relay(c, resp)
}
