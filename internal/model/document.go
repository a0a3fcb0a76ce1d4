package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Filetype values accepted by the ingestion pipeline.
const (
	FiletypePDF = "pdf"
	FiletypeXML = "xml"
)

// vatFactor is the fixed 19% Chilean IVA applied on top of the net total.
// Policy constant, not user-configurable.
var vatFactor = decimal.New(119, -2)

// Document is one ingested invoice/record — either a DTE envelope parsed out
// of an uploaded XML file, or a bare PDF/XML upload that carries only
// file-level metadata. Items are owned: deleting a Document deletes them.
type Document struct {
	ID       uint   `gorm:"primaryKey"`
	Filename string `gorm:"type:varchar(255);not null"` // stored name, collision-safe
	Filetype string `gorm:"type:varchar(10);not null"`  // pdf | xml

	// Best-effort probe results; both may be nil.
	Pages   *int    `gorm:"column:pages"`
	XMLRoot *string `gorm:"column:xml_root;type:varchar(120)"`

	SizeBytes  int64     `gorm:"not null"`
	UploadDate time.Time `gorm:"autoCreateTime"`

	// Envelope header fields. All optional: a field that cannot be
	// extracted stays nil, never zero-valued.
	InvoiceNumber  *string    `gorm:"type:varchar(50)"`
	InvoiceAddress *string    `gorm:"type:varchar(255)"`
	DocType        *string    `gorm:"column:doc_type;type:varchar(60)"`
	DocDate        *time.Time `gorm:"type:date"`

	SupplierID *uint `gorm:"index"`
	Supplier   *Supplier
	Items      []Item `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

func (Document) TableName() string { return "documents" }

// InvoiceTotal derives the net total: per item, the reported line total when
// present, else quantity×price, else 0.
func (d *Document) InvoiceTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.LineValue())
	}
	return total
}

// InvoiceTotalWithTax applies the fixed 19% IVA, rounded to 2 decimals.
func (d *Document) InvoiceTotalWithTax() decimal.Decimal {
	return d.InvoiceTotal().Mul(vatFactor).Round(2)
}
