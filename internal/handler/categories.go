package handler

import (
	"errors"
	"net/http"

	"docvault/internal/apierror"
	"docvault/internal/dto"
	"docvault/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CategoriesHandler exposes classification plus the three catalog mappings:
// manual category overrides, generic product aliases and package units.
type CategoriesHandler struct {
	categories service.CategoryService
	rdb        *redis.Client
}

func NewCategoriesHandler(categories service.CategoryService, rdb *redis.Client) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, rdb: rdb}
}

func (h *CategoriesHandler) Classify(c *gin.Context) {
	resp, err := h.categories.Classify(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) UpsertManual(c *gin.Context) {
	var req dto.UpsertManualCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.categories.UpsertManual(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) ListManual(c *gin.Context) {
	list, err := h.categories.ListManual(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

func (h *CategoriesHandler) DeleteManual(c *gin.Context) {
	name := c.Query("name")
	if err := h.categories.DeleteManual(c.Request.Context(), name); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoría eliminada"})
}

func (h *CategoriesHandler) Promote(c *gin.Context) {
	promoted, err := h.categories.PromoteHeuristics(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PromoteResponse{Promoted: promoted})
}

func (h *CategoriesHandler) UpsertGeneric(c *gin.Context) {
	var req dto.UpsertGenericProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.categories.UpsertGeneric(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	// Generic aliases change how the product rollup groups.
	invalidateProducts(c.Request.Context(), h.rdb)
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) ListGeneric(c *gin.Context) {
	list, err := h.categories.ListGeneric(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"generic_products": list})
}

func (h *CategoriesHandler) UpsertPackageUnit(c *gin.Context) {
	var req dto.UpsertPackageUnitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.categories.UpsertPackageUnit(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	// Package units feed the expanded-quantity view of the product rollup.
	invalidateProducts(c.Request.Context(), h.rdb)
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) ListPackageUnits(c *gin.Context) {
	list, err := h.categories.ListPackageUnits(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"package_units": list})
}

// writeError distinguishes catalog validation errors (caller mistakes) from
// infrastructure failures.
func (h *CategoriesHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNameRequired),
		errors.Is(err, service.ErrCategoryRequired),
		errors.Is(err, service.ErrGenericNameRequired),
		errors.Is(err, service.ErrUnitsInvalid):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		log.Error().Err(err).Msg("error interno del servidor")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
