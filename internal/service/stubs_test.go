package service

import (
	"context"
	"sort"
	"strings"

	"docvault/internal/dto"
	"docvault/internal/model"
	"docvault/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubDocumentRepo is an in-memory DocumentRepository. Documents keep
// insertion order, which the dedup pass relies on.
type stubDocumentRepo struct {
	docs   []*model.Document
	nextID uint
}

func newStubDocumentRepo() *stubDocumentRepo { return &stubDocumentRepo{nextID: 0} }

func (r *stubDocumentRepo) CreateTx(_ *gorm.DB, d *model.Document) error {
	r.nextID++
	d.ID = r.nextID
	for i := range d.Items {
		d.Items[i].DocumentID = d.ID
	}
	r.docs = append(r.docs, d)
	return nil
}

func (r *stubDocumentRepo) FindByID(_ context.Context, id uint) (*model.Document, error) {
	for _, d := range r.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubDocumentRepo) List(_ context.Context, _ dto.DocumentFilter) ([]model.Document, error) {
	out := make([]model.Document, 0, len(r.docs))
	for i := len(r.docs) - 1; i >= 0; i-- {
		out = append(out, *r.docs[i])
	}
	return out, nil
}

func (r *stubDocumentRepo) ListForAnalytics(_ context.Context, filter dto.AnalyticsFilter) ([]model.Document, error) {
	from, to := dto.MonthRange(filter.Start, filter.End)
	var out []model.Document
	for _, d := range r.docs {
		if d.DocDate == nil {
			continue
		}
		if from != nil && d.DocDate.Before(*from) {
			continue
		}
		if to != nil && d.DocDate.After(*to) {
			continue
		}
		if len(filter.DocTypes) > 0 {
			if d.DocType == nil || !contains(filter.DocTypes, *d.DocType) {
				continue
			}
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *stubDocumentRepo) ListXMLTx(_ *gorm.DB) ([]model.Document, error) {
	var out []model.Document
	for _, d := range r.docs {
		if d.Filetype == model.FiletypeXML {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDocumentRepo) DeleteTx(_ *gorm.DB, ids []uint) error {
	drop := make(map[uint]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.docs[:0]
	for _, d := range r.docs {
		if !drop[d.ID] {
			kept = append(kept, d)
		}
	}
	r.docs = kept
	return nil
}

func (r *stubDocumentRepo) AllFilenames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(r.docs))
	for _, d := range r.docs {
		names = append(names, d.Filename)
	}
	return names, nil
}

func (r *stubDocumentRepo) DeleteAllTx(_ *gorm.DB) error {
	r.docs = nil
	return nil
}

func (r *stubDocumentRepo) DistinctItemNamesTx(_ *gorm.DB) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, d := range r.docs {
		for _, it := range d.Items {
			if !seen[it.Name] {
				seen[it.Name] = true
				names = append(names, it.Name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *stubDocumentRepo) DB() *gorm.DB { return nil }

var _ repository.DocumentRepository = (*stubDocumentRepo)(nil)

// stubSupplierRepo is an in-memory SupplierRepository keyed by RUT.
type stubSupplierRepo struct {
	byRUT  map[string]*model.Supplier
	nextID uint

	// raceOnCreate simulates a concurrent insert winning the unique index:
	// CreateTx becomes a silent no-op (ID stays 0).
	raceOnCreate bool
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{byRUT: make(map[string]*model.Supplier)}
}

func (r *stubSupplierRepo) FindByRUTTx(_ *gorm.DB, rut string) (*model.Supplier, error) {
	if s, ok := r.byRUT[rut]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSupplierRepo) CreateTx(_ *gorm.DB, s *model.Supplier) error {
	if r.raceOnCreate {
		r.raceOnCreate = false
		winner := &model.Supplier{RUT: s.RUT, Name: "Ganador SA"}
		r.nextID++
		winner.ID = r.nextID
		r.byRUT[s.RUT] = winner
		return nil // conflict absorbed, s.ID stays 0
	}
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.byRUT[s.RUT] = &cp
	return nil
}

func (r *stubSupplierRepo) UpdateNameTx(_ *gorm.DB, id uint, name string) error {
	for _, s := range r.byRUT {
		if s.ID == id {
			s.Name = name
		}
	}
	return nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(r.byRUT))
	for _, s := range r.byRUT {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubSupplierRepo) DB() *gorm.DB { return nil }

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// stubCatalogRepo keeps the three catalog maps in memory.
type stubCatalogRepo struct {
	manual   map[string]string
	generic  map[string]string
	packages map[string]decimal.Decimal
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		manual:   make(map[string]string),
		generic:  make(map[string]string),
		packages: make(map[string]decimal.Decimal),
	}
}

func (r *stubCatalogRepo) UpsertManual(_ context.Context, productName, category string) error {
	r.manual[productName] = category
	return nil
}

func (r *stubCatalogRepo) FindManual(_ context.Context, productName string) (*model.ManualCategory, error) {
	if cat, ok := r.manual[productName]; ok {
		return &model.ManualCategory{ProductName: productName, Category: cat}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCatalogRepo) ListManual(_ context.Context) ([]model.ManualCategory, error) {
	names := make([]string, 0, len(r.manual))
	for n := range r.manual {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]model.ManualCategory, 0, len(names))
	for _, n := range names {
		out = append(out, model.ManualCategory{ProductName: n, Category: r.manual[n]})
	}
	return out, nil
}

func (r *stubCatalogRepo) DeleteManual(_ context.Context, productName string) error {
	delete(r.manual, productName)
	return nil
}

func (r *stubCatalogRepo) ManualMap(_ context.Context) (map[string]string, error) {
	return r.ManualMapTx(nil)
}

func (r *stubCatalogRepo) ManualMapTx(_ *gorm.DB) (map[string]string, error) {
	m := make(map[string]string, len(r.manual))
	for k, v := range r.manual {
		m[k] = v
	}
	return m, nil
}

func (r *stubCatalogRepo) CreateManualTx(_ *gorm.DB, m *model.ManualCategory) error {
	r.manual[m.ProductName] = m.Category
	return nil
}

func (r *stubCatalogRepo) UpsertGeneric(_ context.Context, productName, genericName string) error {
	r.generic[productName] = genericName
	return nil
}

func (r *stubCatalogRepo) ListGeneric(_ context.Context) ([]model.GenericProduct, error) {
	names := make([]string, 0, len(r.generic))
	for n := range r.generic {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]model.GenericProduct, 0, len(names))
	for _, n := range names {
		out = append(out, model.GenericProduct{ProductName: n, GenericName: r.generic[n]})
	}
	return out, nil
}

func (r *stubCatalogRepo) GenericMap(_ context.Context) (map[string]string, error) {
	m := make(map[string]string, len(r.generic))
	for k, v := range r.generic {
		m[k] = v
	}
	return m, nil
}

func (r *stubCatalogRepo) UpsertPackageUnit(_ context.Context, productName string, units decimal.Decimal) error {
	r.packages[productName] = units
	return nil
}

func (r *stubCatalogRepo) ListPackageUnits(_ context.Context) ([]model.PackageUnit, error) {
	names := make([]string, 0, len(r.packages))
	for n := range r.packages {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]model.PackageUnit, 0, len(names))
	for _, n := range names {
		out = append(out, model.PackageUnit{ProductName: n, Units: r.packages[n]})
	}
	return out, nil
}

func (r *stubCatalogRepo) PackageUnitMap(_ context.Context) (map[string]decimal.Decimal, error) {
	m := make(map[string]decimal.Decimal, len(r.packages))
	for k, v := range r.packages {
		m[k] = v
	}
	return m, nil
}

func (r *stubCatalogRepo) DB() *gorm.DB { return nil }

var _ repository.CatalogRepository = (*stubCatalogRepo)(nil)

// stubFileStore records saves and removals without touching disk.
type stubFileStore struct {
	saved   map[string][]byte
	removed []string
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{saved: make(map[string][]byte)}
}

func (s *stubFileStore) Save(filename string, content []byte) (string, error) {
	name := filename
	for i := 1; ; i++ {
		if _, exists := s.saved[name]; !exists {
			break
		}
		name = filename + "_" + strings.Repeat("x", i)
	}
	s.saved[name] = content
	return name, nil
}

func (s *stubFileStore) Remove(name string) error {
	delete(s.saved, name)
	s.removed = append(s.removed, name)
	return nil
}

func (s *stubFileStore) Path(name string) string { return "/dev/null/" + name }

var _ FileStore = (*stubFileStore)(nil)

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
