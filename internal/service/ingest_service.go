package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"docvault/internal/dto"
	"docvault/internal/ingest"
	"docvault/internal/model"
	"docvault/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrUnsupportedFiletype rejects uploads that are neither PDF nor XML.
var ErrUnsupportedFiletype = errors.New("solo se aceptan archivos PDF o XML")

// IngestService turns one uploaded file into persisted Documents. XML files
// run through the DTE parser and may yield several documents; PDFs and
// unparsable XML yield a single metadata-only document. All records derived
// from one file are committed atomically.
type IngestService interface {
	Ingest(ctx context.Context, filename string, content []byte) ([]dto.DocumentResponse, error)
}

type ingestService struct {
	docs      repository.DocumentRepository
	suppliers repository.SupplierRepository
	store     FileStore
}

func NewIngestService(docs repository.DocumentRepository, suppliers repository.SupplierRepository, store FileStore) IngestService {
	return &ingestService{docs: docs, suppliers: suppliers, store: store}
}

func (s *ingestService) Ingest(ctx context.Context, filename string, content []byte) ([]dto.DocumentResponse, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext != model.FiletypePDF && ext != model.FiletypeXML {
		return nil, ErrUnsupportedFiletype
	}

	stored, err := s.store.Save(filename, content)
	if err != nil {
		return nil, err
	}

	meta := ingest.ExtractMetadata(content, ext)

	var created []*model.Document
	err = runTx(ctx, s.docs.DB(), func(tx *gorm.DB) error {
		if ext == model.FiletypeXML {
			var xerr error
			created, xerr = s.ingestXML(tx, stored, content, meta, int64(len(content)))
			return xerr
		}
		doc := s.bareDocument(stored, ext, meta, int64(len(content)))
		if err := s.docs.CreateTx(tx, doc); err != nil {
			return err
		}
		created = []*model.Document{doc}
		return nil
	})
	if err != nil {
		// Nothing was committed; drop the orphaned artifact.
		if rmErr := s.store.Remove(stored); rmErr != nil {
			log.Warn().Err(rmErr).Str("file", stored).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	responses := make([]dto.DocumentResponse, 0, len(created))
	for _, d := range created {
		responses = append(responses, mapDocument(d, true))
	}
	return responses, nil
}

// ingestXML parses every DTE envelope out of the file. A structural parse
// failure degrades to one bare document — the upload is retained and
// recorded, never dropped.
func (s *ingestService) ingestXML(tx *gorm.DB, stored string, content []byte, meta ingest.Metadata, size int64) ([]*model.Document, error) {
	res, err := ingest.ParseDTE(content)
	if err != nil {
		log.Warn().Err(err).Str("file", stored).Msg("DTE parse failed, storing metadata-only document")
		doc := s.bareDocument(stored, model.FiletypeXML, meta, size)
		if cerr := s.docs.CreateTx(tx, doc); cerr != nil {
			return nil, cerr
		}
		return []*model.Document{doc}, nil
	}

	docs := make([]*model.Document, 0, len(res.Envelopes))
	for _, env := range res.Envelopes {
		sup, serr := s.resolveSupplier(tx, env.IssuerRUT, env.IssuerName)
		if serr != nil {
			return nil, serr
		}

		rootTag := res.RootTag
		doc := &model.Document{
			Filename:       stored,
			Filetype:       model.FiletypeXML,
			XMLRoot:        &rootTag,
			SizeBytes:      size,
			InvoiceNumber:  env.Folio,
			InvoiceAddress: env.DeliveryAddr,
			DocType:        env.DocType,
			DocDate:        env.DocDate,
		}
		if sup != nil {
			doc.SupplierID = &sup.ID
		}
		for _, line := range env.Items {
			doc.Items = append(doc.Items, model.Item{
				Name:     line.Name,
				Quantity: line.Quantity,
				Price:    line.Price,
				Total:    line.Total,
			})
		}
		if cerr := s.docs.CreateTx(tx, doc); cerr != nil {
			return nil, cerr
		}
		doc.Supplier = sup // for the response mapping only
		docs = append(docs, doc)
	}
	return docs, nil
}

// resolveSupplier finds or creates the supplier for an envelope, keyed by
// RUT. Concurrent creates on the same RUT are absorbed by the unique index:
// the insert is a no-op on conflict and the winner is re-read. An existing
// supplier keeps its name unless it is a blank/RUT placeholder.
func (s *ingestService) resolveSupplier(tx *gorm.DB, rut, name string) (*model.Supplier, error) {
	rut = strings.TrimSpace(rut)
	if rut == "" {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = rut
	}

	sup, err := s.suppliers.FindByRUTTx(tx, rut)
	if err == nil {
		if sup.HasPlaceholderName() && name != rut {
			if uerr := s.suppliers.UpdateNameTx(tx, sup.ID, name); uerr != nil {
				return nil, uerr
			}
			sup.Name = name
		}
		return sup, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sup = &model.Supplier{RUT: rut, Name: name}
	if cerr := s.suppliers.CreateTx(tx, sup); cerr != nil {
		return nil, cerr
	}
	if sup.ID == 0 {
		// Lost the race: another upload inserted this RUT first.
		return s.suppliers.FindByRUTTx(tx, rut)
	}
	return sup, nil
}

func (s *ingestService) bareDocument(stored, filetype string, meta ingest.Metadata, size int64) *model.Document {
	return &model.Document{
		Filename:  stored,
		Filetype:  filetype,
		Pages:     meta.Pages,
		XMLRoot:   meta.XMLRoot,
		SizeBytes: size,
	}
}
