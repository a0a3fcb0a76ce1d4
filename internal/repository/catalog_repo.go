package repository

import (
	"context"
	"strings"

	"docvault/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func lower(s string) string { return strings.ToLower(s) }

// CatalogRepository stores the per-product mappings that steer
// categorization and rollups: manual category overrides, generic product
// groupings and package-unit multipliers. All three share the same
// discipline: unique per product name, last write wins.
type CatalogRepository interface {
	UpsertManual(ctx context.Context, productName, category string) error
	FindManual(ctx context.Context, productName string) (*model.ManualCategory, error)
	ListManual(ctx context.Context) ([]model.ManualCategory, error)
	DeleteManual(ctx context.Context, productName string) error
	ManualMap(ctx context.Context) (map[string]string, error)
	ManualMapTx(tx *gorm.DB) (map[string]string, error)
	CreateManualTx(tx *gorm.DB, m *model.ManualCategory) error

	UpsertGeneric(ctx context.Context, productName, genericName string) error
	ListGeneric(ctx context.Context) ([]model.GenericProduct, error)
	GenericMap(ctx context.Context) (map[string]string, error)

	UpsertPackageUnit(ctx context.Context, productName string, units decimal.Decimal) error
	ListPackageUnits(ctx context.Context) ([]model.PackageUnit, error)
	PackageUnitMap(ctx context.Context) (map[string]decimal.Decimal, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// onProductName is the shared upsert clause: conflict on the product name
// key replaces the mapped value.
func onProductName(updates ...string) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_name"}},
		DoUpdates: clause.AssignmentColumns(append(updates, "updated_at")),
	}
}

// ── Manual categories ────────────────────────────────────────────────────────

func (r *catalogRepo) UpsertManual(ctx context.Context, productName, category string) error {
	return r.db.WithContext(ctx).Clauses(onProductName("category")).
		Create(&model.ManualCategory{ProductName: productName, Category: category}).Error
}

func (r *catalogRepo) FindManual(ctx context.Context, productName string) (*model.ManualCategory, error) {
	var m model.ManualCategory
	err := r.db.WithContext(ctx).Where("product_name = ?", productName).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *catalogRepo) ListManual(ctx context.Context) ([]model.ManualCategory, error) {
	var list []model.ManualCategory
	err := r.db.WithContext(ctx).Order("product_name ASC").Find(&list).Error
	return list, err
}

func (r *catalogRepo) DeleteManual(ctx context.Context, productName string) error {
	return r.db.WithContext(ctx).Where("product_name = ?", productName).
		Delete(&model.ManualCategory{}).Error
}

func (r *catalogRepo) ManualMap(ctx context.Context) (map[string]string, error) {
	return r.ManualMapTx(r.db.WithContext(ctx))
}

func (r *catalogRepo) ManualMapTx(tx *gorm.DB) (map[string]string, error) {
	var list []model.ManualCategory
	if err := r.conn(tx).Find(&list).Error; err != nil {
		return nil, err
	}
	m := make(map[string]string, len(list))
	for _, e := range list {
		m[e.ProductName] = e.Category
	}
	return m, nil
}

func (r *catalogRepo) CreateManualTx(tx *gorm.DB, m *model.ManualCategory) error {
	return r.conn(tx).Create(m).Error
}

// ── Generic products ─────────────────────────────────────────────────────────

func (r *catalogRepo) UpsertGeneric(ctx context.Context, productName, genericName string) error {
	return r.db.WithContext(ctx).Clauses(onProductName("generic_name")).
		Create(&model.GenericProduct{ProductName: productName, GenericName: genericName}).Error
}

func (r *catalogRepo) ListGeneric(ctx context.Context) ([]model.GenericProduct, error) {
	var list []model.GenericProduct
	err := r.db.WithContext(ctx).Order("product_name ASC").Find(&list).Error
	return list, err
}

func (r *catalogRepo) GenericMap(ctx context.Context) (map[string]string, error) {
	list, err := r.ListGeneric(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(list))
	for _, e := range list {
		m[e.ProductName] = e.GenericName
	}
	return m, nil
}

// ── Package units ────────────────────────────────────────────────────────────

func (r *catalogRepo) UpsertPackageUnit(ctx context.Context, productName string, units decimal.Decimal) error {
	return r.db.WithContext(ctx).Clauses(onProductName("units")).
		Create(&model.PackageUnit{ProductName: productName, Units: units}).Error
}

func (r *catalogRepo) ListPackageUnits(ctx context.Context) ([]model.PackageUnit, error) {
	var list []model.PackageUnit
	err := r.db.WithContext(ctx).Order("product_name ASC").Find(&list).Error
	return list, err
}

func (r *catalogRepo) PackageUnitMap(ctx context.Context) (map[string]decimal.Decimal, error) {
	list, err := r.ListPackageUnits(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]decimal.Decimal, len(list))
	for _, e := range list {
		m[e.ProductName] = e.Units
	}
	return m, nil
}

func (r *catalogRepo) DB() *gorm.DB { return r.db }
