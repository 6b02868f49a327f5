package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"geocell/internal/geo"
)

// GeohashHandler exposes the pure geohash operations: encode, decode with
// bounding box, and neighbor lookup.
type GeohashHandler struct{}

func NewGeohashHandler() *GeohashHandler {
	return &GeohashHandler{}
}

// Encode handles GET /geohash/encode?lat=..&lon=..&length=..
func (h *GeohashHandler) Encode(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat"})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lon"})
		return
	}
	length, err := strconv.Atoi(c.DefaultQuery("length", "6"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid length"})
		return
	}

	box := geo.EncodeBox(lat, lon, length)
	c.JSON(http.StatusOK, gin.H{
		"code": box.Code,
		"box":  boxJSON(box),
	})
}

// Decode handles GET /geohash/:code
func (h *GeohashHandler) Decode(c *gin.Context) {
	code := c.Param("code")

	lat, lon, ok := geo.Decode(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "malformed geohash"})
		return
	}
	box, _ := geo.DecodeBox(code)

	resp := gin.H{
		"code": box.Code,
		"lat":  lat,
		"lon":  lon,
		"box":  boxJSON(box),
	}
	if parent, ok := geo.Parent(box.Code); ok {
		resp["parent"] = parent
	}
	c.JSON(http.StatusOK, resp)
}

// Neighbors handles GET /geohash/:code/neighbors
func (h *GeohashHandler) Neighbors(c *gin.Context) {
	code := c.Param("code")

	neighbors, ok := geo.AllNeighbors(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "malformed geohash"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":      code,
		"neighbors": neighbors,
	})
}

func boxJSON(b geo.Box) gin.H {
	cLat, cLon := b.Center()
	return gin.H{
		"min_lat": b.MinLat,
		"min_lon": b.MinLon,
		"max_lat": b.MaxLat,
		"max_lon": b.MaxLon,
		"center":  gin.H{"lat": cLat, "lon": cLon},
	}
}
