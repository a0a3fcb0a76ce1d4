package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"docvault/internal/apierror"
	"docvault/internal/dto"
	"docvault/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Rollups are recomputed from scratch on every call, so the product rollup,
// the heaviest one and the one the front-end polls, gets a short-lived Redis
// cache. Mutating handlers invalidate it; the TTL bounds staleness if an
// invalidation is lost.
const productsCacheTTL = 60 * time.Second

// AnalyticsHandler serves the read-side rollups and the Excel export.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	rdb       *redis.Client
}

func NewAnalyticsHandler(analytics service.AnalyticsService, rdb *redis.Client) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, rdb: rdb}
}

// parseFilter reads the shared rollup filter from the query string. List
// parameters accept both repeated keys and comma-separated values.
func parseFilter(c *gin.Context) dto.AnalyticsFilter {
	return dto.AnalyticsFilter{
		Suppliers:      queryList(c, "supplier"),
		DocTypes:       queryList(c, "doc_type"),
		Start:          c.Query("start"),
		End:            c.Query("end"),
		Invoice:        c.Query("invoice"),
		Product:        c.Query("product"),
		Generic:        c.Query("generic") == "true" || c.Query("generic") == "1",
		ExpandPackages: c.Query("expand_packages") == "true" || c.Query("expand_packages") == "1",
	}
}

func queryList(c *gin.Context, name string) []string {
	var values []string
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

// invalidateProducts is a seam over InvalidateProductsCache, swapped out in
// handler tests to observe invalidation.
var invalidateProducts = InvalidateProductsCache

// InvalidateProductsCache drops every cached product rollup. Mutating
// handlers call it after ingest, dedup, wipe and the catalog upserts that
// change how the rollup groups, so stale rollups never outlive the data
// they summarize. Best effort, tolerates a nil client.
func InvalidateProductsCache(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	iter := rdb.Scan(ctx, 0, "analytics:products:*", 100).Iterator()
	for iter.Next(ctx) {
		_ = rdb.Del(ctx, iter.Val()).Err()
	}
}

func (h *AnalyticsHandler) Products(c *gin.Context) {
	ctx := c.Request.Context()
	cacheKey := "analytics:products:" + c.Request.URL.RawQuery

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var rollups []dto.ProductRollup
			if jsonErr := json.Unmarshal(cached, &rollups); jsonErr == nil {
				c.JSON(http.StatusOK, gin.H{"products": rollups})
				return
			}
		}
	}

	// 2. Cache miss — compute from the database
	rollups, err := h.analytics.Products(ctx, parseFilter(c))
	if err != nil {
		log.Error().Err(err).Msg("error al calcular el resumen de productos")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el resumen de productos"))
		return
	}

	// 3. Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(rollups); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, productsCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, gin.H{"products": rollups})
}

func (h *AnalyticsHandler) Categories(c *gin.Context) {
	rollups, err := h.analytics.Categories(c.Request.Context(), parseFilter(c))
	if err != nil {
		log.Error().Err(err).Msg("error al calcular el resumen por categoría")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el resumen por categoría"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": rollups})
}

func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	rollups, err := h.analytics.Monthly(c.Request.Context(), parseFilter(c))
	if err != nil {
		log.Error().Err(err).Msg("error al calcular el resumen mensual")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el resumen mensual"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": rollups})
}

func (h *AnalyticsHandler) Suppliers(c *gin.Context) {
	rollups, err := h.analytics.Suppliers(c.Request.Context(), parseFilter(c))
	if err != nil {
		log.Error().Err(err).Msg("error al calcular el resumen por proveedor")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el resumen por proveedor"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": rollups})
}

func (h *AnalyticsHandler) ExportProducts(c *gin.Context) {
	data, err := h.analytics.ExportProductsXLSX(c.Request.Context(), parseFilter(c))
	if err != nil {
		log.Error().Err(err).Msg("error al generar el archivo excel")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el archivo Excel"))
		return
	}
	filename := "resumen_productos_" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
