package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManualCategory pins a product name (case-folded) to a category label,
// overriding the keyword heuristic unconditionally. One row per product
// name; upserts replace the previous value.
type ManualCategory struct {
	ID          uint   `gorm:"primaryKey"`
	ProductName string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Category    string `gorm:"type:varchar(100);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ManualCategory) TableName() string { return "manual_categories" }

// GenericProduct maps a specific product name to a generic grouping label
// ("Leche Entera 1L" → "Leche") used by the per-product rollup when generic
// grouping is requested.
type GenericProduct struct {
	ID          uint   `gorm:"primaryKey"`
	ProductName string `gorm:"type:varchar(255);uniqueIndex;not null"`
	GenericName string `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (GenericProduct) TableName() string { return "generic_products" }

// PackageUnit records how many sellable units one purchased package of a
// product contains. Products without a row have an implicit multiplier of 1.
type PackageUnit struct {
	ID          uint            `gorm:"primaryKey"`
	ProductName string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Units       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PackageUnit) TableName() string { return "package_units" }
