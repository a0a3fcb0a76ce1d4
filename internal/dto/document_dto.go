package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DocumentFilter narrows the document listing. Supplier takes a numeric id
// or an exact name; Start/End are inclusive YYYY-MM months; Invoice is a
// case-insensitive partial match.
type DocumentFilter struct {
	Supplier string
	Invoice  string
	Start    string
	End      string
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID         uint             `json:"id"`
	DocumentID uint             `json:"document_id"`
	Name       string           `json:"name"`
	Quantity   *decimal.Decimal `json:"quantity"`
	Price      *decimal.Decimal `json:"price"`
	Total      *decimal.Decimal `json:"total"`
}

type DocumentResponse struct {
	ID              uint            `json:"id"`
	Filename        string          `json:"filename"`
	Filetype        string          `json:"filetype"`
	Pages           *int            `json:"pages"`
	XMLRoot         *string         `json:"xml_root"`
	SizeBytes       int64           `json:"size_bytes"`
	UploadDate      string          `json:"upload_date"`
	DocDate         *string         `json:"doc_date"`
	DocType         *string         `json:"doc_type"`
	InvoiceNumber   *string         `json:"invoice_number"`
	InvoiceAddress  *string         `json:"invoice_address"`
	SupplierRUT     *string         `json:"supplier_rut,omitempty"`
	SupplierName    *string         `json:"supplier_name,omitempty"`
	InvoiceTotal    decimal.Decimal `json:"invoice_total"`
	InvoiceTotalTax decimal.Decimal `json:"invoice_total_with_tax"`
	Items           []ItemResponse  `json:"items,omitempty"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

type UploadResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

type PurgeResponse struct {
	Removed int `json:"removed"`
}

type SupplierResponse struct {
	ID   uint   `json:"id"`
	RUT  string `json:"rut"`
	Name string `json:"name"`
}
