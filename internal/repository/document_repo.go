package repository

import (
	"context"
	"strconv"

	"docvault/internal/dto"
	"docvault/internal/model"

	"gorm.io/gorm"
)

// DocumentRepository defines data access for documents and their items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type DocumentRepository interface {
	CreateTx(tx *gorm.DB, d *model.Document) error
	FindByID(ctx context.Context, id uint) (*model.Document, error)
	List(ctx context.Context, filter dto.DocumentFilter) ([]model.Document, error)
	ListForAnalytics(ctx context.Context, filter dto.AnalyticsFilter) ([]model.Document, error)

	// Dedup pass — XML documents in insertion order, items preloaded.
	ListXMLTx(tx *gorm.DB) ([]model.Document, error)
	DeleteTx(tx *gorm.DB, ids []uint) error

	// Wipe — returns stored filenames so callers can remove the artifacts.
	AllFilenames(ctx context.Context) ([]string, error)
	DeleteAllTx(tx *gorm.DB) error

	DistinctItemNamesTx(tx *gorm.DB) ([]string, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type documentRepo struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) DocumentRepository { return &documentRepo{db: db} }

func (r *documentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *documentRepo) CreateTx(tx *gorm.DB, d *model.Document) error {
	return r.conn(tx).Create(d).Error
}

func (r *documentRepo) FindByID(ctx context.Context, id uint) (*model.Document, error) {
	var d model.Document
	err := r.db.WithContext(ctx).Preload("Supplier").Preload("Items").First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) List(ctx context.Context, filter dto.DocumentFilter) ([]model.Document, error) {
	q := r.db.WithContext(ctx).Model(&model.Document{}).
		Preload("Supplier").Preload("Items")

	if filter.Supplier != "" {
		q = q.Joins("JOIN suppliers ON suppliers.id = documents.supplier_id")
		if id, err := strconv.Atoi(filter.Supplier); err == nil {
			q = q.Where("suppliers.id = ?", id)
		} else {
			q = q.Where("suppliers.name = ?", filter.Supplier)
		}
	}
	if filter.Invoice != "" {
		// LOWER/LIKE instead of ILIKE so the same query runs on sqlite in tests
		q = q.Where("documents.invoice_number IS NOT NULL").
			Where("LOWER(documents.invoice_number) LIKE ?", "%"+lower(filter.Invoice)+"%")
	}
	if from, to := dto.MonthRange(filter.Start, filter.End); from != nil || to != nil {
		q = q.Where("documents.doc_date IS NOT NULL")
		if from != nil {
			q = q.Where("documents.doc_date >= ?", *from)
		}
		if to != nil {
			q = q.Where("documents.doc_date <= ?", *to)
		}
	}

	var docs []model.Document
	err := q.Order("documents.upload_date DESC, documents.id DESC").Find(&docs).Error
	return docs, err
}

func (r *documentRepo) ListForAnalytics(ctx context.Context, filter dto.AnalyticsFilter) ([]model.Document, error) {
	q := r.db.WithContext(ctx).Model(&model.Document{}).
		Preload("Supplier").Preload("Items").
		Where("documents.doc_date IS NOT NULL")

	if len(filter.Suppliers) > 0 {
		var ids []int
		var names []string
		for _, s := range filter.Suppliers {
			if id, err := strconv.Atoi(s); err == nil {
				ids = append(ids, id)
			} else {
				names = append(names, s)
			}
		}
		q = q.Joins("JOIN suppliers ON suppliers.id = documents.supplier_id")
		switch {
		case len(ids) > 0 && len(names) > 0:
			q = q.Where("suppliers.id IN ? OR suppliers.name IN ?", ids, names)
		case len(ids) > 0:
			q = q.Where("suppliers.id IN ?", ids)
		default:
			q = q.Where("suppliers.name IN ?", names)
		}
	}
	if len(filter.DocTypes) > 0 {
		q = q.Where("documents.doc_type IN ?", filter.DocTypes)
	}
	if filter.Invoice != "" {
		q = q.Where("documents.invoice_number IS NOT NULL").
			Where("LOWER(documents.invoice_number) LIKE ?", "%"+lower(filter.Invoice)+"%")
	}
	if from, to := dto.MonthRange(filter.Start, filter.End); from != nil || to != nil {
		if from != nil {
			q = q.Where("documents.doc_date >= ?", *from)
		}
		if to != nil {
			q = q.Where("documents.doc_date <= ?", *to)
		}
	}

	var docs []model.Document
	err := q.Order("documents.id ASC").Find(&docs).Error
	return docs, err
}

func (r *documentRepo) ListXMLTx(tx *gorm.DB) ([]model.Document, error) {
	var docs []model.Document
	err := r.conn(tx).Preload("Items").
		Where("filetype = ?", model.FiletypeXML).
		Order("id ASC").Find(&docs).Error
	return docs, err
}

func (r *documentRepo) DeleteTx(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	conn := r.conn(tx)
	if err := conn.Where("document_id IN ?", ids).Delete(&model.Item{}).Error; err != nil {
		return err
	}
	return conn.Where("id IN ?", ids).Delete(&model.Document{}).Error
}

func (r *documentRepo) AllFilenames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Document{}).Pluck("filename", &names).Error
	return names, err
}

func (r *documentRepo) DeleteAllTx(tx *gorm.DB) error {
	conn := r.conn(tx)
	if err := conn.Where("1 = 1").Delete(&model.Item{}).Error; err != nil {
		return err
	}
	if err := conn.Where("1 = 1").Delete(&model.Document{}).Error; err != nil {
		return err
	}
	return conn.Where("1 = 1").Delete(&model.Supplier{}).Error
}

func (r *documentRepo) DistinctItemNamesTx(tx *gorm.DB) ([]string, error) {
	var names []string
	err := r.conn(tx).Model(&model.Item{}).Distinct("name").Pluck("name", &names).Error
	return names, err
}

func (r *documentRepo) DB() *gorm.DB { return r.db }
