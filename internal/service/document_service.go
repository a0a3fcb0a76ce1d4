package service

import (
	"context"
	"errors"
	"fmt"

	"docvault/internal/dto"
	"docvault/internal/infra"
	"docvault/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrDocumentNotFound is returned for lookups of unknown document ids.
var ErrDocumentNotFound = errors.New("documento no encontrado")

// DocumentService serves the read side of the document corpus plus the
// destructive wipe operation.
type DocumentService interface {
	List(ctx context.Context, filter dto.DocumentFilter) ([]dto.DocumentResponse, error)
	Get(ctx context.Context, id uint) (*dto.DocumentResponse, error)
	DeleteAll(ctx context.Context) error
	SummaryPDF(ctx context.Context, id uint) (data []byte, filename string, err error)
	ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error)
}

type documentService struct {
	docs      repository.DocumentRepository
	suppliers repository.SupplierRepository
	store     FileStore
}

func NewDocumentService(docs repository.DocumentRepository, suppliers repository.SupplierRepository, store FileStore) DocumentService {
	return &documentService{docs: docs, suppliers: suppliers, store: store}
}

func (s *documentService) List(ctx context.Context, filter dto.DocumentFilter) ([]dto.DocumentResponse, error) {
	docs, err := s.docs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		result = append(result, mapDocument(&docs[i], false))
	}
	return result, nil
}

func (s *documentService) Get(ctx context.Context, id uint) (*dto.DocumentResponse, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	resp := mapDocument(doc, true)
	return &resp, nil
}

// DeleteAll wipes documents, items and suppliers, then removes the stored
// file artifacts. File removal is best effort: a missing artifact must not
// resurrect already-deleted records.
func (s *documentService) DeleteAll(ctx context.Context) error {
	names, err := s.docs.AllFilenames(ctx)
	if err != nil {
		return err
	}
	err = runTx(ctx, s.docs.DB(), func(tx *gorm.DB) error {
		return s.docs.DeleteAllTx(tx)
	})
	if err != nil {
		return err
	}
	for _, name := range names {
		if rmErr := s.store.Remove(name); rmErr != nil {
			log.Warn().Err(rmErr).Str("file", name).Msg("failed to remove stored upload")
		}
	}
	return nil
}

func (s *documentService) SummaryPDF(ctx context.Context, id uint) ([]byte, string, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrDocumentNotFound
		}
		return nil, "", err
	}
	data, err := infra.GenerateDocumentSummary(doc)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("factura_resumen_%d.pdf", doc.ID), nil
}

func (s *documentService) ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, sup := range suppliers {
		result = append(result, dto.SupplierResponse{ID: sup.ID, RUT: sup.RUT, Name: sup.Name})
	}
	return result, nil
}
