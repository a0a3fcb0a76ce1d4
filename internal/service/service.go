// Package service implements the business operations of the document vault:
// ingestion of uploaded files into normalized records, duplicate purging,
// product categorization and analytics rollups.
package service

import (
	"context"
	"time"

	"docvault/internal/dto"
	"docvault/internal/model"

	"gorm.io/gorm"
)

// FileStore is the slice of the storage layer the services need. Satisfied
// by *storage.Store; stubbed in unit tests.
type FileStore interface {
	Save(filename string, content []byte) (string, error)
	Remove(name string) error
	Path(name string) string
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// mapDocument converts a model to a DTO response. Items are included only
// for detail views; list views stay lean.
func mapDocument(d *model.Document, withItems bool) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:              d.ID,
		Filename:        d.Filename,
		Filetype:        d.Filetype,
		Pages:           d.Pages,
		XMLRoot:         d.XMLRoot,
		SizeBytes:       d.SizeBytes,
		UploadDate:      d.UploadDate.Format(time.RFC3339),
		DocType:         d.DocType,
		InvoiceNumber:   d.InvoiceNumber,
		InvoiceAddress:  d.InvoiceAddress,
		InvoiceTotal:    d.InvoiceTotal(),
		InvoiceTotalTax: d.InvoiceTotalWithTax(),
	}
	if d.DocDate != nil {
		s := d.DocDate.Format("2006-01-02")
		resp.DocDate = &s
	}
	if d.Supplier != nil {
		resp.SupplierRUT = &d.Supplier.RUT
		resp.SupplierName = &d.Supplier.Name
	}
	if withItems {
		resp.Items = make([]dto.ItemResponse, 0, len(d.Items))
		for _, it := range d.Items {
			resp.Items = append(resp.Items, dto.ItemResponse{
				ID:         it.ID,
				DocumentID: it.DocumentID,
				Name:       it.Name,
				Quantity:   it.Quantity,
				Price:      it.Price,
				Total:      it.Total,
			})
		}
	}
	return resp
}
