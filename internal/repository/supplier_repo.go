package repository

import (
	"context"

	"docvault/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SupplierRepository defines data access for suppliers. Tx-suffixed methods
// run inside a caller-owned transaction; they accept nil in unit tests where
// stubs back the interface.
type SupplierRepository interface {
	FindByRUTTx(tx *gorm.DB, rut string) (*model.Supplier, error)
	CreateTx(tx *gorm.DB, s *model.Supplier) error
	UpdateNameTx(tx *gorm.DB, id uint, name string) error
	List(ctx context.Context) ([]model.Supplier, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *supplierRepo) FindByRUTTx(tx *gorm.DB, rut string) (*model.Supplier, error) {
	var s model.Supplier
	err := r.conn(tx).Where("rut = ?", rut).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateTx inserts a supplier. A concurrent insert of the same RUT is not an
// error: the conflicting row is left alone and s.ID stays 0, which callers
// treat as "lost the race, re-read the winner".
func (r *supplierRepo) CreateTx(tx *gorm.DB, s *model.Supplier) error {
	return r.conn(tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rut"}},
		DoNothing: true,
	}).Create(s).Error
}

func (r *supplierRepo) UpdateNameTx(tx *gorm.DB, id uint, name string) error {
	return r.conn(tx).Model(&model.Supplier{}).Where("id = ?", id).Update("name", name).Error
}

func (r *supplierRepo) List(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) DB() *gorm.DB { return r.db }
