package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docvault/internal/dto"
	"docvault/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCategoryService struct{}

func (s *stubCategoryService) Classify(_ context.Context, name string) (dto.ClassifyResponse, error) {
	if strings.TrimSpace(name) == "" {
		return dto.ClassifyResponse{}, service.ErrProductNameRequired
	}
	return dto.ClassifyResponse{ProductName: name, Category: "Lácteos"}, nil
}

func (s *stubCategoryService) UpsertManual(_ context.Context, req dto.UpsertManualCategoryRequest) (dto.ManualCategoryResponse, error) {
	return dto.ManualCategoryResponse{ProductName: req.ProductName, Category: req.Category}, nil
}

func (s *stubCategoryService) ListManual(_ context.Context) ([]dto.ManualCategoryResponse, error) {
	return nil, nil
}

func (s *stubCategoryService) DeleteManual(_ context.Context, _ string) error { return nil }

func (s *stubCategoryService) PromoteHeuristics(_ context.Context) (int, error) { return 0, nil }

func (s *stubCategoryService) UpsertGeneric(_ context.Context, req dto.UpsertGenericProductRequest) (dto.GenericProductResponse, error) {
	return dto.GenericProductResponse{ProductName: req.ProductName, GenericName: req.GenericName}, nil
}

func (s *stubCategoryService) ListGeneric(_ context.Context) ([]dto.GenericProductResponse, error) {
	return nil, nil
}

func (s *stubCategoryService) UpsertPackageUnit(_ context.Context, req dto.UpsertPackageUnitRequest) (dto.PackageUnitResponse, error) {
	return dto.PackageUnitResponse{ProductName: req.ProductName, Units: req.Units}, nil
}

func (s *stubCategoryService) ListPackageUnits(_ context.Context) ([]dto.PackageUnitResponse, error) {
	return nil, nil
}

var _ service.CategoryService = (*stubCategoryService)(nil)

// countInvalidations swaps the cache invalidation seam for the duration of
// one test and reports how often the handler triggered it.
func countInvalidations(t *testing.T) *int {
	t.Helper()
	calls := 0
	invalidateProducts = func(_ context.Context, _ *redis.Client) { calls++ }
	t.Cleanup(func() { invalidateProducts = InvalidateProductsCache })
	return &calls
}

func newCategoriesRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCategoriesHandler(&stubCategoryService{}, nil)
	r := gin.New()
	r.POST("/api/categories/manual", h.UpsertManual)
	r.POST("/api/products/generic", h.UpsertGeneric)
	r.POST("/api/products/package-units", h.UpsertPackageUnit)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUpsertGenericInvalidatesProductsCache(t *testing.T) {
	calls := countInvalidations(t)
	r := newCategoriesRouter()

	rec := postJSON(t, r, "/api/products/generic",
		`{"product_name":"leche colun 1l","generic_name":"Leche"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestUpsertPackageUnitInvalidatesProductsCache(t *testing.T) {
	calls := countInvalidations(t)
	r := newCategoriesRouter()

	rec := postJSON(t, r, "/api/products/package-units",
		`{"product_name":"bebida pack 6","units":6}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestUpsertRejectedLeavesCacheAlone(t *testing.T) {
	calls := countInvalidations(t)
	r := newCategoriesRouter()

	rec := postJSON(t, r, "/api/products/generic", `{"product_name":""}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, *calls)
}

func TestUpsertManualDoesNotInvalidateProductsCache(t *testing.T) {
	// Manual categories only shape the category rollup, which is not cached.
	calls := countInvalidations(t)
	r := newCategoriesRouter()

	rec := postJSON(t, r, "/api/categories/manual",
		`{"product_name":"leche entera 1l","category":"Otros"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, *calls)
}
