package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boleto-backoffice/internal/models"
	"boleto-backoffice/internal/services/statement"
)

type StatementEntryRepository struct {
	db *gorm.DB
}

func NewStatementEntryRepository(db *gorm.DB) *StatementEntryRepository {
	return &StatementEntryRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *StatementEntryRepository) WithTx(tx *gorm.DB) *StatementEntryRepository {
	return &StatementEntryRepository{db: tx}
}

// Upsert creates the entry for the line's fingerprint or refreshes the
// mutable fields of the existing one. The uniqueness constraint plus
// ON CONFLICT make this safe under concurrent uploads of overlapping
// periods; the invoice link is never touched here.
func (r *StatementEntryRepository) Upsert(line statement.Line) (*models.StatementEntry, bool, error) {
	entry := models.StatementEntry{
		Fingerprint:    statement.Fingerprint(line.Date, line.Description, line.Amount),
		Date:           line.Date,
		Description:    line.Description,
		DescriptionKey: line.DescriptionKey,
		Amount:         line.Amount,
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoNothing: true,
	}).Create(&entry)
	if result.Error != nil {
		return nil, false, fmt.Errorf("upsert statement entry: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return &entry, true, nil
	}

	var existing models.StatementEntry
	if err := r.db.First(&existing, "fingerprint = ?", entry.Fingerprint).Error; err != nil {
		return nil, false, fmt.Errorf("load statement entry: %w", err)
	}

	updates := map[string]interface{}{}
	if !existing.Date.Equal(line.Date) {
		updates["date"] = line.Date
	}
	if existing.Description != line.Description {
		updates["description"] = line.Description
	}
	if existing.DescriptionKey != line.DescriptionKey {
		updates["description_key"] = line.DescriptionKey
	}
	if !existing.Amount.Equal(line.Amount) {
		updates["amount"] = line.Amount
	}
	if len(updates) > 0 {
		if err := r.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, false, fmt.Errorf("refresh statement entry: %w", err)
		}
		existing.Date = line.Date
		existing.Description = line.Description
		existing.DescriptionKey = line.DescriptionKey
		existing.Amount = line.Amount
	}

	return &existing, false, nil
}

func (r *StatementEntryRepository) GetByID(id uint) (*models.StatementEntry, error) {
	var entry models.StatementEntry
	if err := r.db.First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListPending returns unlinked entries, newest statement date first.
func (r *StatementEntryRepository) ListPending(limit int) ([]models.StatementEntry, error) {
	var entries []models.StatementEntry
	query := r.db.Where("linked_invoice_id IS NULL").Order("date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&entries).Error
	return entries, err
}

func (r *StatementEntryRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&models.StatementEntry{}).Where("linked_invoice_id IS NULL").Count(&count).Error
	return count, err
}

// PurgePending deletes every entry that was never linked to an invoice.
func (r *StatementEntryRepository) PurgePending() (int64, error) {
	result := r.db.Where("linked_invoice_id IS NULL").Delete(&models.StatementEntry{})
	return result.RowsAffected, result.Error
}
