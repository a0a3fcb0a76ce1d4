package dto

import "github.com/shopspring/decimal"

// AnalyticsFilter narrows which (Document × Item) pairs feed a rollup.
// Suppliers entries may be numeric ids or exact names; DocTypes are document
// type labels; Start/End are inclusive YYYY-MM months.
type AnalyticsFilter struct {
	Suppliers []string
	DocTypes  []string
	Start     string
	End       string
	Invoice   string

	// Product limits the monthly rollup to one product name.
	Product string
	// Generic routes product names through the GenericProduct mapping.
	Generic bool
	// ExpandPackages multiplies quantities by the PackageUnit multiplier.
	ExpandPackages bool
}

// ProductRollup aggregates all line items of one product. Price statistics
// ignore lines whose unit price is absent; quantity and value sums treat
// absent numeric fields as contributing 0.
type ProductRollup struct {
	Product       string           `json:"product"`
	TotalQuantity decimal.Decimal  `json:"total_quantity"`
	TotalValue    decimal.Decimal  `json:"total_value"`
	MinPrice      *decimal.Decimal `json:"min_price"`
	MaxPrice      *decimal.Decimal `json:"max_price"`
	AvgPrice      *decimal.Decimal `json:"avg_price"`
	ItemCount     int              `json:"item_count"`
	Months        []string         `json:"months"`
	Suppliers     []string         `json:"suppliers"`
	SupplierRUTs  []string         `json:"supplier_ruts"`
}

type CategoryRollup struct {
	Category      string           `json:"category"`
	TotalQuantity decimal.Decimal  `json:"total_quantity"`
	TotalValue    decimal.Decimal  `json:"total_value"`
	MinPrice      *decimal.Decimal `json:"min_price"`
	MaxPrice      *decimal.Decimal `json:"max_price"`
	AvgPrice      *decimal.Decimal `json:"avg_price"`
	ItemCount     int              `json:"item_count"`
}

type MonthlyRollup struct {
	Month         string          `json:"month"` // YYYY-MM
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

type SupplierRollup struct {
	SupplierID    uint   `json:"supplier_id"`
	Name          string `json:"name"`
	RUT           string `json:"rut"`
	DocumentCount int    `json:"document_count"`
}
