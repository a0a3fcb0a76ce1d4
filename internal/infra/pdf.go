package infra

// pdf.go — invoice summary rendering using go-pdf/fpdf.
// Produces an A4 one-pager with supplier details, the item table
// (product, quantity, unit price, subtotal) and the net / tax-inclusive
// totals of one document.

import (
	"bytes"

	"docvault/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateDocumentSummary renders a downloadable PDF summary for one
// document and returns the raw bytes.
func GenerateDocumentSummary(doc *model.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252 for accented labels

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Resumen de Factura"), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	labelValue := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(40, 8, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, tr(value), "", 1, "L", false, 0, "")
	}

	supplierName, supplierRUT := "-", "-"
	if doc.Supplier != nil {
		supplierName = doc.Supplier.Name
		supplierRUT = doc.Supplier.RUT
	}
	labelValue("Proveedor:", supplierName)
	labelValue("RUT:", supplierRUT)
	date := "-"
	if doc.DocDate != nil {
		date = doc.DocDate.Format("02/01/2006")
	}
	labelValue("Fecha factura:", date)
	if doc.InvoiceNumber != nil {
		labelValue("Folio:", *doc.InvoiceNumber)
	}
	if doc.DocType != nil {
		labelValue("Tipo:", *doc.DocType)
	}
	pdf.Ln(5)

	// ── Item table ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 8, tr("Producto"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, tr("Cantidad"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, tr("Precio"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, tr("Subtotal"), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i := range doc.Items {
		it := &doc.Items[i]
		pdf.CellFormat(80, 7, tr(it.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, decimalCell(it.Quantity, 2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, decimalCell(it.Price, 0), "1", 0, "R", false, 0, "")
		subtotal := it.LineValue()
		pdf.CellFormat(40, 7, subtotal.StringFixed(0), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 8, tr("Total neto:"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(40, 8, doc.InvoiceTotal().StringFixed(0), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 8, tr("Total factura (IVA incl.):"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(40, 8, doc.InvoiceTotalWithTax().StringFixed(2), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decimalCell(d *decimal.Decimal, places int32) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(places)
}
