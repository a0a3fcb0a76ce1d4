package ingest

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Metadata is the result of the best-effort file probe. Both fields may be
// nil; callers must tolerate that.
type Metadata struct {
	Pages   *int    // PDF only
	XMLRoot *string // XML only, namespace prefix stripped
}

// ExtractMetadata inspects raw file content according to the declared type.
// It is purely a probe: corrupt or unreadable input never surfaces as an
// error, it just leaves the corresponding field absent.
func ExtractMetadata(content []byte, filetype string) Metadata {
	var meta Metadata
	switch strings.ToLower(filetype) {
	case "pdf":
		meta.Pages = probePDFPages(content)
	case "xml":
		meta.XMLRoot = probeXMLRoot(content)
	}
	return meta
}

func probePDFPages(content []byte) (pages *int) {
	defer func() {
		// ledongthuc/pdf can panic on malformed xref tables; a probe
		// failure must stay a probe failure.
		if recover() != nil {
			pages = nil
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil
	}
	n := r.NumPage()
	return &n
}

func probeXMLRoot(content []byte) *string {
	dec := xml.NewDecoder(bytes.NewReader(content))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		if start, ok := tok.(xml.StartElement); ok {
			root := start.Name.Local
			return &root
		}
	}
}
