package ingest

import (
	"bytes"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadataXMLRoot(t *testing.T) {
	meta := ExtractMetadata([]byte(`<?xml version="1.0"?><EnvioDTE xmlns="http://www.sii.cl/SiiDte"><SetDTE/></EnvioDTE>`), "xml")
	require.NotNil(t, meta.XMLRoot)
	assert.Equal(t, "EnvioDTE", *meta.XMLRoot)
	assert.Nil(t, meta.Pages)
}

func TestExtractMetadataGarbageXML(t *testing.T) {
	meta := ExtractMetadata([]byte("esto no es xml"), "xml")
	assert.Nil(t, meta.XMLRoot)
}

func TestExtractMetadataPDFPages(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < 3; i++ {
		doc.AddPage()
		doc.Cell(40, 10, "pagina de prueba")
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	meta := ExtractMetadata(buf.Bytes(), "pdf")
	require.NotNil(t, meta.Pages)
	assert.Equal(t, 3, *meta.Pages)
	assert.Nil(t, meta.XMLRoot)
}

func TestExtractMetadataCorruptPDF(t *testing.T) {
	meta := ExtractMetadata([]byte("%PDF-1.4 truncado"), "pdf")
	assert.Nil(t, meta.Pages)
}

func TestExtractMetadataUnknownType(t *testing.T) {
	meta := ExtractMetadata([]byte("cualquier cosa"), "docx")
	assert.Nil(t, meta.Pages)
	assert.Nil(t, meta.XMLRoot)
}
