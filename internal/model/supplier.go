package model

import "time"

// Supplier is the issuer (emisor) of one or more ingested documents,
// identified by its RUT. The RUT is immutable once set; the display name
// may only be upgraded when the stored one is a blank or RUT placeholder.
type Supplier struct {
	ID        uint   `gorm:"primaryKey"`
	RUT       string `gorm:"column:rut;type:varchar(20);uniqueIndex;not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Documents []Document `gorm:"foreignKey:SupplierID"`
}

func (Supplier) TableName() string { return "suppliers" }

// HasPlaceholderName reports whether the stored name carries no real
// information (blank, or just the RUT repeated) and may be overwritten
// by a freshly extracted name.
func (s *Supplier) HasPlaceholderName() bool {
	return s.Name == "" || s.Name == s.RUT
}
