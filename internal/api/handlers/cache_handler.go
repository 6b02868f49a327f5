package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"geocell/internal/geo"
	"geocell/internal/services"
)

// CacheHandler exposes the geohash-keyed cache: writes tagged by cell, and
// region reads that union covered cells.
type CacheHandler struct {
	cacheService *services.GeoCacheService
}

func NewCacheHandler(cacheService *services.GeoCacheService) *CacheHandler {
	return &CacheHandler{cacheService: cacheService}
}

// No "required" binding on the coordinates: 0 is a legal value on both
// axes and the validator would reject it as missing.
type putCacheItemRequest struct {
	Lat     float64         `json:"lat"`
	Lon     float64         `json:"lon"`
	Payload json.RawMessage `json:"payload"`
}

// PutItem handles POST /cache/items
func (h *CacheHandler) PutItem(c *gin.Context) {
	var req putCacheItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.cacheService.Put(c.Request.Context(), req.Lat, req.Lon, req.Payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Query handles GET /cache/query. A radius_m parameter selects a circular
// region around (lat, lon); otherwise min/max lat/lon select a rectangle.
func (h *CacheHandler) Query(c *gin.Context) {
	region, err := regionFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	includeIntersecting := c.DefaultQuery("include_intersecting", "true") == "true"

	result, err := h.cacheService.Query(c.Request.Context(), region, includeIntersecting)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ForgetCell handles DELETE /cache/cells/:code
func (h *CacheHandler) ForgetCell(c *gin.Context) {
	if err := h.cacheService.Forget(c.Request.Context(), c.Param("code")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Cells handles GET /cache/cells
func (h *CacheHandler) Cells(c *gin.Context) {
	codes, err := h.cacheService.Cells(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cells": codes})
}

func regionFromQuery(c *gin.Context) (geo.Region, error) {
	if radius := c.Query("radius_m"); radius != "" {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return nil, errBadParam("lat")
		}
		lon, err := strconv.ParseFloat(c.Query("lon"), 64)
		if err != nil {
			return nil, errBadParam("lon")
		}
		r, err := strconv.ParseFloat(radius, 64)
		if err != nil || r <= 0 {
			return nil, errBadParam("radius_m")
		}
		return geo.Circle{Lat: lat, Lon: lon, RadiusM: r}, nil
	}

	var rect geo.LatLonRect
	var err error
	if rect.MinLat, err = strconv.ParseFloat(c.Query("min_lat"), 64); err != nil {
		return nil, errBadParam("min_lat")
	}
	if rect.MinLon, err = strconv.ParseFloat(c.Query("min_lon"), 64); err != nil {
		return nil, errBadParam("min_lon")
	}
	if rect.MaxLat, err = strconv.ParseFloat(c.Query("max_lat"), 64); err != nil {
		return nil, errBadParam("max_lat")
	}
	if rect.MaxLon, err = strconv.ParseFloat(c.Query("max_lon"), 64); err != nil {
		return nil, errBadParam("max_lon")
	}
	if rect.MinLat > rect.MaxLat || rect.MinLon > rect.MaxLon {
		return nil, errBadParam("rect bounds")
	}
	return rect, nil
}

type paramError string

func (e paramError) Error() string { return "invalid " + string(e) }

func errBadParam(name string) error { return paramError(name) }
