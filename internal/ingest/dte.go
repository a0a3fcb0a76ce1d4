// Package ingest turns raw uploaded files into normalized invoice records.
// It contains the best-effort metadata probe and the DTE envelope parser for
// XML files following the SII e-invoicing schema.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SIINamespace is the fixed namespace of DTE envelopes.
const SIINamespace = "http://www.sii.cl/SiiDte"

// ErrNoEnvelopes signals well-formed XML that contains no DTE elements
// (wrong schema). Callers fall back to a metadata-only document.
var ErrNoEnvelopes = errors.New("ingest: no DTE envelopes found")

// docTypeLabels maps TipoDTE codes to their human labels. Codes outside the
// table pass through as their raw string.
var docTypeLabels = map[string]string{
	"33": "Factura electrónica",
	"34": "Factura exenta",
	"61": "Nota de crédito",
	"56": "Nota de débito",
	"52": "Guía de despacho",
	"39": "Boleta",
	"41": "Boleta exenta",
}

// DocTypeLabel resolves a TipoDTE code. Unknown codes are returned verbatim.
func DocTypeLabel(code string) string {
	if label, ok := docTypeLabels[code]; ok {
		return label
	}
	return code
}

// Envelope is one normalized DTE: header fields plus detail lines. Every
// field except the issuer RUT/name pair is optional — extraction steps fail
// independently and leave their field absent.
type Envelope struct {
	IssuerRUT  string
	IssuerName string

	Folio        *string
	DocDate      *time.Time
	DocType      *string
	DeliveryAddr *string

	Items []Line
}

// Line is one Detalle element with tolerant numeric coercion applied.
type Line struct {
	Name     string
	Quantity *decimal.Decimal
	Price    *decimal.Decimal
	Total    *decimal.Decimal
}

// Result is the outcome of one parse pass over an uploaded XML file.
type Result struct {
	RootTag   string
	Envelopes []Envelope
}

// ParseDTE walks one XML document and yields every DTE envelope it contains.
// A file that cannot be parsed at all returns the wrapped decode error; a
// well-formed file with no envelopes returns ErrNoEnvelopes. Malformed
// individual fields never fail the pass.
func ParseDTE(content []byte) (*Result, error) {
	root, err := parseTree(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("ingest: parse xml: %w", err)
	}

	dtes := root.findAll(SIINamespace, "DTE")
	if len(dtes) == 0 {
		return nil, ErrNoEnvelopes
	}

	res := &Result{RootTag: root.local}
	for _, dte := range dtes {
		res.Envelopes = append(res.Envelopes, extractEnvelope(dte))
	}
	return res, nil
}

// extractEnvelope runs the named extraction steps for one DTE element. Each
// step only sees its own block and degrades to absence on failure.
func extractEnvelope(dte *node) Envelope {
	var env Envelope

	if emisor := dte.findFirst(SIINamespace, "Emisor"); emisor != nil {
		env.IssuerRUT = emisor.textOf(SIINamespace, "RUTEmisor")
		// RznSoc is the primary name field; older emitters use RznSocEmisor.
		env.IssuerName = emisor.firstTextOf(SIINamespace, "RznSoc", "RznSocEmisor")
	}

	if iddoc := dte.findFirst(SIINamespace, "IdDoc"); iddoc != nil {
		env.DocDate = coerceDate(iddoc.textOf(SIINamespace, "FchEmis"))
		env.Folio = coerceString(iddoc.textOf(SIINamespace, "Folio"))
		if code := iddoc.textOf(SIINamespace, "TipoDTE"); code != "" {
			label := DocTypeLabel(code)
			env.DocType = &label
		}
	}

	if receptor := dte.findFirst(SIINamespace, "Receptor"); receptor != nil {
		env.DeliveryAddr = coerceString(receptor.firstTextOf(SIINamespace, "DirRecep", "DirDest"))
	}

	for _, det := range dte.findAll(SIINamespace, "Detalle") {
		env.Items = append(env.Items, Line{
			Name:     det.textOf(SIINamespace, "NmbItem"),
			Quantity: coerceDecimal(det.textOf(SIINamespace, "QtyItem")),
			Price:    coerceDecimal(det.textOf(SIINamespace, "PrcItem")),
			Total:    coerceDecimal(det.textOf(SIINamespace, "MontoItem")),
		})
	}

	return env
}
