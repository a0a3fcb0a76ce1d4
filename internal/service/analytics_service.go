package service

import (
	"context"
	"sort"

	"docvault/internal/dto"
	"docvault/internal/export"
	"docvault/internal/model"
	"docvault/internal/repository"

	"github.com/shopspring/decimal"
)

// AnalyticsService computes filterable rollups over (Document × Item) pairs.
// Pure read side: everything is derived per call, nothing is stored.
type AnalyticsService interface {
	Products(ctx context.Context, filter dto.AnalyticsFilter) ([]dto.ProductRollup, error)
	Categories(ctx context.Context, filter dto.AnalyticsFilter) ([]dto.CategoryRollup, error)
	Monthly(ctx context.Context, filter dto.AnalyticsFilter) ([]dto.MonthlyRollup, error)
	Suppliers(ctx context.Context, filter dto.AnalyticsFilter) ([]dto.SupplierRollup, error)
	ExportProductsXLSX(ctx context.Context, filter dto.AnalyticsFilter) ([]byte, error)
}

type analyticsService struct {
	docs    repository.DocumentRepository
	catalog repository.CatalogRepository
}

func NewAnalyticsService(docs repository.DocumentRepository, catalog repository.CatalogRepository) AnalyticsService {
	return &analyticsService{docs: docs, catalog: catalog}
}

// rollupStats accumulates one bucket. Absent quantities and prices
// contribute 0 to the sums; absent prices are additionally excluded from
// the min/max/avg statistics.
type rollupStats struct {
	quantity  decimal.Decimal
	value     decimal.Decimal
	minPrice  *decimal.Decimal
	maxPrice  *decimal.Decimal
	priceSum  decimal.Decimal
	priceN    int
	itemCount int
	months    map[string]bool
	suppliers map[string]bool
	ruts      map[string]bool
}

func newRollupStats() *rollupStats {
	return &rollupStats{
		months:    make(map[string]bool),
		suppliers: make(map[string]bool),
		ruts:      make(map[string]bool),
	}
}

func (st *rollupStats) add(doc *model.Document, it *model.Item, qtyMultiplier decimal.Decimal) {
	st.itemCount++

	if it.Quantity != nil {
		st.quantity = st.quantity.Add(it.Quantity.Mul(qtyMultiplier))
		if it.Price != nil {
			st.value = st.value.Add(it.Quantity.Mul(*it.Price))
		}
	}
	if it.Price != nil {
		p := *it.Price
		if st.minPrice == nil || p.LessThan(*st.minPrice) {
			st.minPrice = &p
		}
		if st.maxPrice == nil || p.GreaterThan(*st.maxPrice) {
			st.maxPrice = &p
		}
		st.priceSum = st.priceSum.Add(p)
		st.priceN++
	}

	if doc.DocDate != nil {
		st.months[doc.DocDate.Format("2006-01")] = true
	}
	if doc.Supplier != nil {
		st.suppliers[doc.Supplier.Name] = true
		st.ruts[doc.Supplier.RUT] = true
	}
}

func (st *rollupStats) avgPrice() *decimal.Decimal {
	if st.priceN == 0 {
		return nil
	}
	avg := st.priceSum.Div(decimal.NewFromInt(int64(st.priceN)))
	return &avg
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *analyticsService) Products(ctx context.Context, filter dto.AnalyticsFilter) ([]dto.ProductRollup, error) {
	docs, err := s.docs.ListForAnalytics(ctx, filter)
	if err != nil {
		return nil, err
	}

	var generic map[string]string
	if filter.Generic {
		if generic, err = s.catalog.GenericMap(ctx); err != nil {
			return nil, err
		}
	}
	var packages map[string]decimal.Decimal
	if filter.ExpandPackages {
		if packages, err = s.catalog.PackageUnitMap(ctx); err != nil {
			return nil, err
		}
	}

	buckets := make(map[string]*rollupStats)
	for i := range docs {
		doc := &docs[i]
		for j := range doc.Items {
			it := &doc.Items[j]
			normalized := normalizeName(it.Name)

			label := it.Name
			if filter.Generic {
				if g, ok := generic[normalized]; ok {
					label = g
				}
			}
			multiplier := decimal.NewFromInt(1)
			if filter.ExpandPackages {
				if u, ok := packages[normalized]; ok {
					multiplier = u
				}
			}

			st, ok := buckets[label]
			if !ok {
				st = newRollupStats()
				buckets[label] = st
			}
			st.add(doc, it, multiplier)
		}
	}

	result := make([]dto.ProductRollup, 0, len(buckets))
	for label, st := range buckets {
		result = append(result, dto.ProductRollup{
			Product:       label,
			TotalQuantity: st.quantity,
			TotalValue:    st.value,
			MinPrice:      st.minPrice,
			MaxPrice:      st.maxPrice,
			AvgPrice:      st.avgPrice(),
			ItemCount:     st.itemCount,
			Months:        sortedKeys(st.months),
			Suppliers:     sortedKeys(st.suppliers),
			SupplierRUTs:  sortedKeys(st.ruts),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Product < result[j].Product })
	return result, nil
}

func (s *analyticsService) Categories(ctx context.Context, filter dto.AnalyticsFilter) ([]dto.CategoryRollup, error) {
	docs, err := s.docs.ListForAnalytics(ctx, filter)
	if err != nil {
		return nil, err
	}
	manual, err := s.catalog.ManualMap(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*rollupStats)
	one := decimal.NewFromInt(1)
	for i := range docs {
		doc := &docs[i]
		for j := range doc.Items {
			it := &doc.Items[j]
			normalized := normalizeName(it.Name)

			// Manual override wins unconditionally over the keyword rules.
			category, ok := manual[normalized]
			if !ok {
				category = heuristicCategory(normalized)
			}

			st, found := buckets[category]
			if !found {
				st = newRollupStats()
				buckets[category] = st
			}
			st.add(doc, it, one)
		}
	}

	result := make([]dto.CategoryRollup, 0, len(buckets))
	for category, st := range buckets {
		result = append(result, dto.CategoryRollup{
			Category:      category,
			TotalQuantity: st.quantity,
			TotalValue:    st.value,
			MinPrice:      st.minPrice,
			MaxPrice:      st.maxPrice,
			AvgPrice:      st.avgPrice(),
			ItemCount:     st.itemCount,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

func (s *analyticsService) Monthly(ctx context.Context, filter dto.AnalyticsFilter) ([]dto.MonthlyRollup, error) {
	docs, err := s.docs.ListForAnalytics(ctx, filter)
	if err != nil {
		return nil, err
	}

	product := normalizeName(filter.Product)
	totals := make(map[string]decimal.Decimal)
	for i := range docs {
		doc := &docs[i]
		if doc.DocDate == nil {
			continue
		}
		month := doc.DocDate.Format("2006-01")
		for j := range doc.Items {
			it := &doc.Items[j]
			if product != "" && normalizeName(it.Name) != product {
				continue
			}
			if it.Quantity != nil {
				totals[month] = totals[month].Add(*it.Quantity)
			} else if _, seen := totals[month]; !seen {
				totals[month] = decimal.Zero
			}
		}
	}

	result := make([]dto.MonthlyRollup, 0, len(totals))
	for month, qty := range totals {
		result = append(result, dto.MonthlyRollup{Month: month, TotalQuantity: qty})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

func (s *analyticsService) Suppliers(ctx context.Context, filter dto.AnalyticsFilter) ([]dto.SupplierRollup, error) {
	docs, err := s.docs.ListForAnalytics(ctx, filter)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		rollup dto.SupplierRollup
	}
	buckets := make(map[uint]*bucket)
	for i := range docs {
		doc := &docs[i]
		if doc.Supplier == nil {
			continue
		}
		b, ok := buckets[doc.Supplier.ID]
		if !ok {
			b = &bucket{rollup: dto.SupplierRollup{
				SupplierID: doc.Supplier.ID,
				Name:       doc.Supplier.Name,
				RUT:        doc.Supplier.RUT,
			}}
			buckets[doc.Supplier.ID] = b
		}
		b.rollup.DocumentCount++
	}

	result := make([]dto.SupplierRollup, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, b.rollup)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *analyticsService) ExportProductsXLSX(ctx context.Context, filter dto.AnalyticsFilter) ([]byte, error) {
	rollups, err := s.Products(ctx, filter)
	if err != nil {
		return nil, err
	}
	return export.ProductsWorkbook(rollups)
}
