package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"docvault/internal/model"
	"docvault/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DedupService purges duplicate XML-sourced documents. PDF documents carry
// no structured comparison key and are never touched.
type DedupService interface {
	// Purge removes every duplicate, keeping the earliest-ingested document
	// of each group, and returns the count removed. Safe to re-run.
	Purge(ctx context.Context) (int, error)
}

type dedupService struct {
	docs  repository.DocumentRepository
	store FileStore
}

func NewDedupService(docs repository.DocumentRepository, store FileStore) DedupService {
	return &dedupService{docs: docs, store: store}
}

func (s *dedupService) Purge(ctx context.Context) (int, error) {
	var orphanedFiles []string
	removed := 0

	err := runTx(ctx, s.docs.DB(), func(tx *gorm.DB) error {
		docs, err := s.docs.ListXMLTx(tx)
		if err != nil {
			return err
		}

		// Documents arrive in insertion order, so the first holder of a key
		// is the earliest-ingested one and is the one retained.
		seen := make(map[string]bool, len(docs))
		keptFiles := make(map[string]bool, len(docs))
		var purgeIDs []uint
		var purgeFiles []string
		for i := range docs {
			key := dedupKey(&docs[i])
			if seen[key] {
				purgeIDs = append(purgeIDs, docs[i].ID)
				purgeFiles = append(purgeFiles, docs[i].Filename)
				continue
			}
			seen[key] = true
			keptFiles[docs[i].Filename] = true
		}

		if err := s.docs.DeleteTx(tx, purgeIDs); err != nil {
			return err
		}
		removed = len(purgeIDs)

		// A multi-envelope file may back both a kept and a purged document;
		// its artifact must survive.
		for _, f := range purgeFiles {
			if !keptFiles[f] {
				orphanedFiles = append(orphanedFiles, f)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, f := range orphanedFiles {
		if rmErr := s.store.Remove(f); rmErr != nil {
			log.Warn().Err(rmErr).Str("file", f).Msg("failed to remove purged upload")
		}
	}
	return removed, nil
}

// dedupKey derives the composite duplicate key of a document: invoice
// number, supplier identity, issuance date and the sorted set of item
// (name, quantity, price) tuples. Item order within the document is
// irrelevant by construction.
func dedupKey(d *model.Document) string {
	var b strings.Builder
	if d.InvoiceNumber != nil {
		b.WriteString(*d.InvoiceNumber)
	}
	b.WriteByte('\x1e')
	if d.SupplierID != nil {
		fmt.Fprintf(&b, "%d", *d.SupplierID)
	}
	b.WriteByte('\x1e')
	if d.DocDate != nil {
		b.WriteString(d.DocDate.Format("2006-01-02"))
	}
	b.WriteByte('\x1e')

	tuples := make([]string, 0, len(d.Items))
	for i := range d.Items {
		tuples = append(tuples, itemTuple(&d.Items[i]))
	}
	sort.Strings(tuples)
	b.WriteString(strings.Join(tuples, "\x1d"))
	return b.String()
}

// itemTuple renders one item for key purposes. StringFixed gives a
// canonical form so "1.5" and "1.50" compare equal.
func itemTuple(it *model.Item) string {
	qty, price := "-", "-"
	if it.Quantity != nil {
		qty = it.Quantity.StringFixed(6)
	}
	if it.Price != nil {
		price = it.Price.StringFixed(6)
	}
	return it.Name + "\x1f" + qty + "\x1f" + price
}
