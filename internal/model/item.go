package model

import "github.com/shopspring/decimal"

// Item is one detail line of a Document. Numeric fields are nullable on
// purpose: a value that failed to parse is stored as absent, preserving the
// distinction between "reported zero" and "unreported".
type Item struct {
	ID         uint   `gorm:"primaryKey"`
	DocumentID uint   `gorm:"index;not null"`
	Name       string `gorm:"type:varchar(255);not null"`

	Quantity *decimal.Decimal `gorm:"type:decimal(14,4)"`
	Price    *decimal.Decimal `gorm:"type:decimal(14,4)"` // unit price
	Total    *decimal.Decimal `gorm:"type:decimal(14,2)"` // reported line total

	Document *Document `gorm:"foreignKey:DocumentID"`
}

func (Item) TableName() string { return "items" }

// LineValue is the monetary value this line contributes to the invoice
// total: reported total when present, else quantity×price, else 0.
func (i *Item) LineValue() decimal.Decimal {
	if i.Total != nil {
		return *i.Total
	}
	if i.Quantity != nil && i.Price != nil {
		return i.Quantity.Mul(*i.Price)
	}
	return decimal.Zero
}
