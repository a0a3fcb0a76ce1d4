package service

import (
	"context"
	"errors"
	"strings"

	"docvault/internal/dto"
	"docvault/internal/model"
	"docvault/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Validation errors for catalog upserts. Rejected before persistence; no
// partial write ever happens.
var (
	ErrProductNameRequired = errors.New("nombre de producto requerido")
	ErrCategoryRequired    = errors.New("categoría requerida")
	ErrGenericNameRequired = errors.New("nombre genérico requerido")
	ErrUnitsInvalid        = errors.New("unidades por paquete debe ser mayor que cero")
)

// CategoryService is the categorization engine plus the catalog mappings
// that feed it and the rollups.
type CategoryService interface {
	Classify(ctx context.Context, productName string) (dto.ClassifyResponse, error)
	UpsertManual(ctx context.Context, req dto.UpsertManualCategoryRequest) (dto.ManualCategoryResponse, error)
	ListManual(ctx context.Context) ([]dto.ManualCategoryResponse, error)
	DeleteManual(ctx context.Context, productName string) error

	// PromoteHeuristics persists the heuristic category as a manual override
	// for every distinct product name that has none, skipping fallback
	// results. Explicit batch operation; returns the count promoted.
	PromoteHeuristics(ctx context.Context) (int, error)

	UpsertGeneric(ctx context.Context, req dto.UpsertGenericProductRequest) (dto.GenericProductResponse, error)
	ListGeneric(ctx context.Context) ([]dto.GenericProductResponse, error)

	UpsertPackageUnit(ctx context.Context, req dto.UpsertPackageUnitRequest) (dto.PackageUnitResponse, error)
	ListPackageUnits(ctx context.Context) ([]dto.PackageUnitResponse, error)
}

type categoryService struct {
	catalog repository.CatalogRepository
	docs    repository.DocumentRepository
}

func NewCategoryService(catalog repository.CatalogRepository, docs repository.DocumentRepository) CategoryService {
	return &categoryService{catalog: catalog, docs: docs}
}

func (s *categoryService) Classify(ctx context.Context, productName string) (dto.ClassifyResponse, error) {
	normalized := normalizeName(productName)
	if normalized == "" {
		return dto.ClassifyResponse{}, ErrProductNameRequired
	}

	manual, err := s.catalog.FindManual(ctx, normalized)
	if err == nil {
		return dto.ClassifyResponse{ProductName: productName, Category: manual.Category, Manual: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ClassifyResponse{}, err
	}
	return dto.ClassifyResponse{ProductName: productName, Category: heuristicCategory(normalized)}, nil
}

func (s *categoryService) UpsertManual(ctx context.Context, req dto.UpsertManualCategoryRequest) (dto.ManualCategoryResponse, error) {
	normalized := normalizeName(req.ProductName)
	category := strings.TrimSpace(req.Category)
	if normalized == "" {
		return dto.ManualCategoryResponse{}, ErrProductNameRequired
	}
	if category == "" {
		return dto.ManualCategoryResponse{}, ErrCategoryRequired
	}
	if err := s.catalog.UpsertManual(ctx, normalized, category); err != nil {
		return dto.ManualCategoryResponse{}, err
	}
	return dto.ManualCategoryResponse{ProductName: normalized, Category: category}, nil
}

func (s *categoryService) ListManual(ctx context.Context) ([]dto.ManualCategoryResponse, error) {
	list, err := s.catalog.ListManual(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ManualCategoryResponse, 0, len(list))
	for _, m := range list {
		result = append(result, dto.ManualCategoryResponse{ProductName: m.ProductName, Category: m.Category})
	}
	return result, nil
}

func (s *categoryService) DeleteManual(ctx context.Context, productName string) error {
	normalized := normalizeName(productName)
	if normalized == "" {
		return ErrProductNameRequired
	}
	return s.catalog.DeleteManual(ctx, normalized)
}

// PromoteHeuristics runs in a single transaction: the distinct-name scan and
// the inserts see one consistent snapshot. Products that already carry a
// manual entry are skipped whether that entry was user-curated or itself
// auto-promoted — the two are deliberately indistinguishable.
func (s *categoryService) PromoteHeuristics(ctx context.Context) (int, error) {
	promoted := 0
	err := runTx(ctx, s.catalog.DB(), func(tx *gorm.DB) error {
		manual, err := s.catalog.ManualMapTx(tx)
		if err != nil {
			return err
		}
		names, err := s.docs.DistinctItemNamesTx(tx)
		if err != nil {
			return err
		}

		done := make(map[string]bool, len(names))
		for _, name := range names {
			normalized := normalizeName(name)
			if normalized == "" || done[normalized] {
				continue
			}
			done[normalized] = true
			if _, exists := manual[normalized]; exists {
				continue
			}
			category := heuristicCategory(normalized)
			if category == FallbackCategory {
				continue
			}
			if err := s.catalog.CreateManualTx(tx, &model.ManualCategory{
				ProductName: normalized,
				Category:    category,
			}); err != nil {
				return err
			}
			promoted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Info().Int("promoted", promoted).Msg("heuristic categories promoted to manual overrides")
	return promoted, nil
}

func (s *categoryService) UpsertGeneric(ctx context.Context, req dto.UpsertGenericProductRequest) (dto.GenericProductResponse, error) {
	normalized := normalizeName(req.ProductName)
	generic := strings.TrimSpace(req.GenericName)
	if normalized == "" {
		return dto.GenericProductResponse{}, ErrProductNameRequired
	}
	if generic == "" {
		return dto.GenericProductResponse{}, ErrGenericNameRequired
	}
	if err := s.catalog.UpsertGeneric(ctx, normalized, generic); err != nil {
		return dto.GenericProductResponse{}, err
	}
	return dto.GenericProductResponse{ProductName: normalized, GenericName: generic}, nil
}

func (s *categoryService) ListGeneric(ctx context.Context) ([]dto.GenericProductResponse, error) {
	list, err := s.catalog.ListGeneric(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.GenericProductResponse, 0, len(list))
	for _, g := range list {
		result = append(result, dto.GenericProductResponse{ProductName: g.ProductName, GenericName: g.GenericName})
	}
	return result, nil
}

func (s *categoryService) UpsertPackageUnit(ctx context.Context, req dto.UpsertPackageUnitRequest) (dto.PackageUnitResponse, error) {
	normalized := normalizeName(req.ProductName)
	if normalized == "" {
		return dto.PackageUnitResponse{}, ErrProductNameRequired
	}
	if !req.Units.GreaterThan(decimal.Zero) {
		return dto.PackageUnitResponse{}, ErrUnitsInvalid
	}
	if err := s.catalog.UpsertPackageUnit(ctx, normalized, req.Units); err != nil {
		return dto.PackageUnitResponse{}, err
	}
	return dto.PackageUnitResponse{ProductName: normalized, Units: req.Units}, nil
}

func (s *categoryService) ListPackageUnits(ctx context.Context) ([]dto.PackageUnitResponse, error) {
	list, err := s.catalog.ListPackageUnits(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PackageUnitResponse, 0, len(list))
	for _, p := range list {
		result = append(result, dto.PackageUnitResponse{ProductName: p.ProductName, Units: p.Units})
	}
	return result, nil
}
