// Package reconciliation settles uploaded bank-statement entries against
// open invoices and learns description aliases from confirmed links.
package reconciliation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boleto-backoffice/internal/models"
	"boleto-backoffice/internal/repository"
	"boleto-backoffice/internal/services/statement"
)

var (
	ErrEntryNotFound      = errors.New("statement entry not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrInvoiceNotEligible = errors.New("invoice is not open for settlement")
)

type Service struct {
	invoiceRepo *repository.InvoiceRepository
	entryRepo   *repository.StatementEntryRepository
	aliasRepo   *repository.AliasRepository
	db          *gorm.DB
}

func NewService(
	invoiceRepo *repository.InvoiceRepository,
	entryRepo *repository.StatementEntryRepository,
	aliasRepo *repository.AliasRepository,
) *Service {
	return &Service{
		invoiceRepo: invoiceRepo,
		entryRepo:   entryRepo,
		aliasRepo:   aliasRepo,
		db:          invoiceRepo.DB(),
	}
}

// ImportStatement parses the upload and runs upsert plus auto-settlement for
// every line. Parse failures reject the whole batch with no entry writes;
// each settled line commits in its own transaction, so a crash mid-file
// leaves settled lines durable and the rest safe to re-upload.
func (s *Service) ImportStatement(filename string, raw []byte) (*models.StatementImport, error) {
	batch := &models.StatementImport{
		ID:        uuid.New(),
		Filename:  filename,
		Status:    models.ImportStatusProcessing,
		StartedAt: time.Now(),
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(batch).Error; err != nil {
		return nil, fmt.Errorf("create statement import: %w", err)
	}

	parsed, err := statement.Parse(raw)
	if err != nil {
		s.finalizeBatch(batch, models.ImportStatusRejected, err.Error())
		return nil, err
	}

	for _, line := range parsed.Lines {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			entry, _, err := s.entryRepo.WithTx(tx).Upsert(line)
			if err != nil {
				return err
			}
			settled, err := s.attemptSettle(tx, entry)
			if err != nil {
				return err
			}
			if settled {
				batch.AutoSettledCount++
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("process statement line: %w", err)
		}
		batch.TotalProcessed++
	}

	batch.SkippedLineCount = parsed.SkippedLines
	s.finalizeBatch(batch, models.ImportStatusCompleted, "")
	log.Printf("statement import %s: %d processed, %d auto-settled, %d skipped",
		batch.ID, batch.TotalProcessed, batch.AutoSettledCount, batch.SkippedLineCount)
	return batch, nil
}

func (s *Service) finalizeBatch(batch *models.StatementImport, status, reason string) {
	now := time.Now()
	batch.Status = status
	batch.CompletedAt = &now

	summary := map[string]interface{}{
		"total_processed":    batch.TotalProcessed,
		"auto_settled_count": batch.AutoSettledCount,
		"skipped_line_count": batch.SkippedLineCount,
	}
	if reason != "" {
		summary["rejected_reason"] = reason
	}
	if blob, err := json.Marshal(summary); err == nil {
		batch.Summary = blob
	}

	if err := s.db.Save(batch).Error; err != nil {
		log.Printf("finalize statement import %s: %v", batch.ID, err)
	}
}

// attemptSettle tries, in order: re-settling the invoice the entry is already
// linked to, then an alias-guided exact-amount match. Reports whether the
// entry ended up settled in this call.
func (s *Service) attemptSettle(tx *gorm.DB, entry *models.StatementEntry) (bool, error) {
	if entry.LinkedInvoiceID != nil {
		invoice, err := s.invoiceRepo.WithTx(tx).GetByID(*entry.LinkedInvoiceID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
		if invoice != nil && invoice.Open() {
			if err := s.settle(tx, entry, invoice); err != nil {
				return false, err
			}
			return true, nil
		}
		return false, nil
	}

	alias, err := s.aliasRepo.WithTx(tx).FindByKey(entry.DescriptionKey)
	if err != nil {
		return false, err
	}
	if alias == nil {
		return false, nil
	}

	invoice, err := s.invoiceRepo.WithTx(tx).FindOpenMatch(alias.CustomerID, entry.Amount)
	if err != nil {
		return false, err
	}
	if invoice == nil {
		return false, nil
	}

	if err := s.settle(tx, entry, invoice); err != nil {
		return false, err
	}
	return true, nil
}

// settle is the shared settlement procedure: link the entry, mark the invoice
// paid via pix on the entry's date, and reinforce the alias. Settling an
// invoice that is no longer open is a silent no-op, never a downgrade.
func (s *Service) settle(tx *gorm.DB, entry *models.StatementEntry, invoice *models.Invoice) error {
	if !invoice.Open() {
		return nil
	}

	entry.LinkedInvoiceID = &invoice.ID
	if err := tx.Model(entry).Update("linked_invoice_id", invoice.ID).Error; err != nil {
		return fmt.Errorf("link entry to invoice: %w", err)
	}

	paymentDate := entry.Date
	invoice.Status = models.InvoiceStatusPaid
	invoice.PaymentMethod = models.PaymentMethodPix
	invoice.PaymentDate = &paymentDate
	err := tx.Model(invoice).Updates(map[string]interface{}{
		"status":         models.InvoiceStatusPaid,
		"payment_method": models.PaymentMethodPix,
		"payment_date":   paymentDate,
	}).Error
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}

	return s.aliasRepo.WithTx(tx).Upsert(entry.DescriptionKey, invoice.CustomerID)
}

// ConfirmLink applies a human confirmation: settles the invoice against the
// entry exactly as auto-settlement would, including the alias write, so the
// learning behavior is identical either way.
func (s *Service) ConfirmLink(entryID, invoiceID uint) error {
	entry, err := s.entryRepo.GetByID(entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvoiceNotFound
		}
		return err
	}
	if !invoice.Open() {
		return ErrInvoiceNotEligible
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		key := entry.DescriptionKey
		if key == "" {
			key = statement.NormalizeKey(entry.Description)
			if key != "" {
				if err := tx.Model(entry).Update("description_key", key).Error; err != nil {
					return err
				}
				entry.DescriptionKey = key
			}
		}
		return s.settle(tx, entry, invoice)
	})
}

// PendingEntry pairs an unlinked entry with its ranked suggestions.
type PendingEntry struct {
	Entry       models.StatementEntry
	Suggestions []Suggestion
}

// ListPending returns unlinked entries with candidate invoices ranked for
// human confirmation. Read-only.
func (s *Service) ListPending(limit int) ([]PendingEntry, error) {
	entries, err := s.entryRepo.ListPending(limit)
	if err != nil {
		return nil, err
	}
	open, err := s.invoiceRepo.ListOpen()
	if err != nil {
		return nil, err
	}

	pending := make([]PendingEntry, 0, len(entries))
	for _, entry := range entries {
		pending = append(pending, PendingEntry{
			Entry:       entry,
			Suggestions: Rank(entry, open),
		})
	}
	return pending, nil
}

// PurgePending removes every entry that never got linked to an invoice.
func (s *Service) PurgePending() (int64, error) {
	return s.entryRepo.PurgePending()
}
