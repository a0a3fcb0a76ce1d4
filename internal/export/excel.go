// Package export renders analytics rollups into downloadable workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"docvault/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const productsSheet = "Productos"

// productHeaders matches the historical export layout consumed downstream.
var productHeaders = []string{
	"Producto", "Meses", "Proveedores", "RUT proveedores",
	"Cantidad total", "Precio mínimo", "Precio máximo", "Precio promedio",
}

// ProductsWorkbook renders one row per product rollup. Months are joined as
// MMYYYY with "-", suppliers and RUTs with ";". Missing price statistics
// render as 0, matching the legacy export.
func ProductsWorkbook(rollups []dto.ProductRollup) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(productsSheet)
	if err != nil {
		return nil, fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export: drop default sheet: %w", err)
	}

	for col, h := range productHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(productsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, r := range rollups {
		values := []interface{}{
			r.Product,
			strings.Join(exportMonths(r.Months), "-"),
			strings.Join(r.Suppliers, ";"),
			strings.Join(r.SupplierRUTs, ";"),
			r.TotalQuantity.InexactFloat64(),
			priceOrZero(r.MinPrice),
			priceOrZero(r.MaxPrice),
			priceOrZero(r.AvgPrice),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(productsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// exportMonths converts YYYY-MM rollup months to the MMYYYY export format.
func exportMonths(months []string) []string {
	out := make([]string, 0, len(months))
	for _, m := range months {
		if t, err := time.Parse("2006-01", m); err == nil {
			out = append(out, t.Format("012006"))
		} else {
			out = append(out, m)
		}
	}
	return out
}

func priceOrZero(p *decimal.Decimal) float64 {
	if p == nil {
		return 0
	}
	return p.InexactFloat64()
}
