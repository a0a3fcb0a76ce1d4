package service

import (
	"context"
	"testing"
	"time"

	"docvault/internal/dto"
	"docvault/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAnalyticsDocs(t *testing.T, docs *stubDocumentRepo) {
	t.Helper()
	sup := &model.Supplier{ID: 1, RUT: "76123456-7", Name: "Distribuidora Los Andes"}
	mar := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	feb29 := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	d1 := invoiceDoc("a.xml", "100", 1, mar,
		item("Leche Colun 1L", "10", "990"),
		item("Pan Marraqueta", "2", "1800"))
	d1.Supplier = sup
	require.NoError(t, docs.CreateTx(nil, d1))

	d2 := invoiceDoc("b.xml", "101", 1, feb29,
		item("Leche Soprole 1L", "5", "950"),
		item("Producto Sin Precio", "3", ""))
	d2.Supplier = sup
	require.NoError(t, docs.CreateTx(nil, d2))
}

func TestProductsRollup(t *testing.T) {
	docs := newStubDocumentRepo()
	seedAnalyticsDocs(t, docs)
	svc := NewAnalyticsService(docs, newStubCatalogRepo())

	rollups, err := svc.Products(context.Background(), dto.AnalyticsFilter{})
	require.NoError(t, err)
	require.Len(t, rollups, 4)

	byName := make(map[string]dto.ProductRollup, len(rollups))
	for _, r := range rollups {
		byName[r.Product] = r
	}

	leche := byName["Leche Colun 1L"]
	assert.True(t, leche.TotalQuantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, leche.TotalValue.Equal(decimal.NewFromInt(9900)))
	require.NotNil(t, leche.MinPrice)
	assert.True(t, leche.MinPrice.Equal(decimal.NewFromInt(990)))
	assert.Equal(t, []string{"2024-03"}, leche.Months)
	assert.Equal(t, []string{"Distribuidora Los Andes"}, leche.Suppliers)
	assert.Equal(t, []string{"76123456-7"}, leche.SupplierRUTs)

	// Absent price: quantity still accumulates, value and price stats do not.
	sinPrecio := byName["Producto Sin Precio"]
	assert.True(t, sinPrecio.TotalQuantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, sinPrecio.TotalValue.IsZero())
	assert.Nil(t, sinPrecio.MinPrice)
	assert.Nil(t, sinPrecio.MaxPrice)
	assert.Nil(t, sinPrecio.AvgPrice)
	assert.Equal(t, 1, sinPrecio.ItemCount)
}

func TestProductsRollupGenericGrouping(t *testing.T) {
	docs := newStubDocumentRepo()
	seedAnalyticsDocs(t, docs)
	catalog := newStubCatalogRepo()
	catalog.generic["leche colun 1l"] = "Leche"
	catalog.generic["leche soprole 1l"] = "Leche"
	svc := NewAnalyticsService(docs, catalog)

	rollups, err := svc.Products(context.Background(), dto.AnalyticsFilter{Generic: true})
	require.NoError(t, err)

	byName := make(map[string]dto.ProductRollup, len(rollups))
	for _, r := range rollups {
		byName[r.Product] = r
	}
	leche, ok := byName["Leche"]
	require.True(t, ok)
	assert.True(t, leche.TotalQuantity.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 2, leche.ItemCount)
	require.NotNil(t, leche.MinPrice)
	assert.True(t, leche.MinPrice.Equal(decimal.NewFromInt(950)))
	require.NotNil(t, leche.MaxPrice)
	assert.True(t, leche.MaxPrice.Equal(decimal.NewFromInt(990)))
	assert.Equal(t, []string{"2024-02", "2024-03"}, leche.Months)

	_, stillThere := byName["Leche Colun 1L"]
	assert.False(t, stillThere)
}

func TestProductsRollupPackageExpansion(t *testing.T) {
	docs := newStubDocumentRepo()
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, docs.CreateTx(nil, invoiceDoc("p.xml", "1", 1, day,
		item("Bebida Pack 6", "2", "5400"))))

	catalog := newStubCatalogRepo()
	catalog.packages["bebida pack 6"] = decimal.NewFromInt(6)
	svc := NewAnalyticsService(docs, catalog)

	rollups, err := svc.Products(context.Background(), dto.AnalyticsFilter{ExpandPackages: true})
	require.NoError(t, err)
	require.Len(t, rollups, 1)
	// 2 packs × 6 units; value stays pack-priced.
	assert.True(t, rollups[0].TotalQuantity.Equal(decimal.NewFromInt(12)))
	assert.True(t, rollups[0].TotalValue.Equal(decimal.NewFromInt(10800)))
}

func TestCategoriesRollupManualOverride(t *testing.T) {
	docs := newStubDocumentRepo()
	seedAnalyticsDocs(t, docs)
	catalog := newStubCatalogRepo()
	catalog.manual["pan marraqueta"] = "Panadería Artesanal"
	svc := NewAnalyticsService(docs, catalog)

	rollups, err := svc.Categories(context.Background(), dto.AnalyticsFilter{})
	require.NoError(t, err)

	byCat := make(map[string]dto.CategoryRollup, len(rollups))
	for _, r := range rollups {
		byCat[r.Category] = r
	}
	assert.Contains(t, byCat, "Lácteos")
	assert.Contains(t, byCat, "Panadería Artesanal")
	assert.Contains(t, byCat, "Sin categoría")
	assert.Equal(t, 2, byCat["Lácteos"].ItemCount)
	assert.True(t, byCat["Lácteos"].TotalQuantity.Equal(decimal.NewFromInt(15)))
}

func TestMonthlyRollupAndLeapBoundary(t *testing.T) {
	docs := newStubDocumentRepo()
	seedAnalyticsDocs(t, docs)
	mar1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, docs.CreateTx(nil, invoiceDoc("c.xml", "102", 1, mar1,
		item("Leche Colun 1L", "4", "990"))))

	svc := NewAnalyticsService(docs, newStubCatalogRepo())
	ctx := context.Background()

	rollups, err := svc.Monthly(ctx, dto.AnalyticsFilter{})
	require.NoError(t, err)
	require.Len(t, rollups, 2)
	assert.Equal(t, "2024-02", rollups[0].Month)
	assert.True(t, rollups[0].TotalQuantity.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "2024-03", rollups[1].Month)
	assert.True(t, rollups[1].TotalQuantity.Equal(decimal.NewFromInt(16)))

	// An end bound of 2024-02 includes Feb 29 and excludes Mar 1.
	rollups, err = svc.Monthly(ctx, dto.AnalyticsFilter{End: "2024-02"})
	require.NoError(t, err)
	require.Len(t, rollups, 1)
	assert.Equal(t, "2024-02", rollups[0].Month)

	// Product filter narrows to matching lines; months without a match
	// disappear entirely.
	rollups, err = svc.Monthly(ctx, dto.AnalyticsFilter{Product: "Leche Colun 1L"})
	require.NoError(t, err)
	require.Len(t, rollups, 1)
	assert.Equal(t, "2024-03", rollups[0].Month)
	assert.True(t, rollups[0].TotalQuantity.Equal(decimal.NewFromInt(14)))
}

func TestSuppliersRollup(t *testing.T) {
	docs := newStubDocumentRepo()
	seedAnalyticsDocs(t, docs)
	svc := NewAnalyticsService(docs, newStubCatalogRepo())

	rollups, err := svc.Suppliers(context.Background(), dto.AnalyticsFilter{})
	require.NoError(t, err)
	require.Len(t, rollups, 1)
	assert.Equal(t, "Distribuidora Los Andes", rollups[0].Name)
	assert.Equal(t, "76123456-7", rollups[0].RUT)
	assert.Equal(t, 2, rollups[0].DocumentCount)
}

func TestExportProductsXLSX(t *testing.T) {
	docs := newStubDocumentRepo()
	seedAnalyticsDocs(t, docs)
	svc := NewAnalyticsService(docs, newStubCatalogRepo())

	data, err := svc.ExportProductsXLSX(context.Background(), dto.AnalyticsFilter{})
	require.NoError(t, err)
	// XLSX is a ZIP container.
	require.Greater(t, len(data), 4)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
