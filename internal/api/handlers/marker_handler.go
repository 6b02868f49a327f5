package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"geocell/internal/geo"
	"geocell/internal/services"
)

// MarkerHandler exposes the quadtree-backed marker index: insert, remove,
// viewport listing, and grid clustering.
type MarkerHandler struct {
	clusterService *services.ClusterService
}

func NewMarkerHandler(clusterService *services.ClusterService) *MarkerHandler {
	return &MarkerHandler{clusterService: clusterService}
}

// Lat and Lon deliberately carry no "required" binding: 0 is a legal
// coordinate (equator, prime meridian) and the validator treats required
// zero values as missing.
type addMarkerRequest struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

// Add handles POST /markers
func (h *MarkerHandler) Add(c *gin.Context) {
	var req addMarkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	marker, err := h.clusterService.AddMarker(req.Label, req.Lat, req.Lon)
	if err != nil {
		if errors.Is(err, services.ErrOutOfBounds) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, marker)
}

// Remove handles DELETE /markers/:id
func (h *MarkerHandler) Remove(c *gin.Context) {
	if !h.clusterService.RemoveMarker(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "marker not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /markers with a viewport in min/max lat/lon parameters.
func (h *MarkerHandler) List(c *gin.Context) {
	viewport, err := viewportFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	markers := h.clusterService.MarkersIn(viewport)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(markers),
		"markers": markers,
	})
}

// Clusters handles GET /markers/clusters with a viewport plus a cells
// parameter controlling grid resolution.
func (h *MarkerHandler) Clusters(c *gin.Context) {
	viewport, err := viewportFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cells, err := strconv.Atoi(c.DefaultQuery("cells", "8"))
	if err != nil || cells < 1 || cells > 64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cells"})
		return
	}
	clusters := h.clusterService.Clusters(viewport, cells)
	c.JSON(http.StatusOK, gin.H{
		"count":    len(clusters),
		"clusters": clusters,
	})
}

func viewportFromQuery(c *gin.Context) (geo.LatLonRect, error) {
	var rect geo.LatLonRect
	var err error
	if rect.MinLat, err = strconv.ParseFloat(c.Query("min_lat"), 64); err != nil {
		return rect, errBadParam("min_lat")
	}
	if rect.MinLon, err = strconv.ParseFloat(c.Query("min_lon"), 64); err != nil {
		return rect, errBadParam("min_lon")
	}
	if rect.MaxLat, err = strconv.ParseFloat(c.Query("max_lat"), 64); err != nil {
		return rect, errBadParam("max_lat")
	}
	if rect.MaxLon, err = strconv.ParseFloat(c.Query("max_lon"), 64); err != nil {
		return rect, errBadParam("max_lon")
	}
	if rect.MinLat > rect.MaxLat || rect.MinLon > rect.MaxLon {
		return rect, errBadParam("viewport bounds")
	}
	return rect, nil
}
