package repository

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"boleto-backoffice/internal/models"
)

var openStatuses = []string{models.InvoiceStatusIssued, models.InvoiceStatusOverdue}

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) WithTx(tx *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: tx}
}

// Expose DB if needed
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

func (r *InvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.Preload("Customer").First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindOpenMatch returns the open invoice for the customer with exactly the
// given amount, earliest due date first, lowest id on ties. Nil when there is
// no match.
func (r *InvoiceRepository) FindOpenMatch(customerID uint, amount decimal.Decimal) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.
		Where("customer_id = ?", customerID).
		Where("status IN ?", openStatuses).
		Where("amount = ?", amount).
		Order("due_date ASC, id ASC").
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListOpen returns all eligible reconciliation targets with their customers.
func (r *InvoiceRepository) ListOpen() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.
		Preload("Customer").
		Where("status IN ?", openStatuses).
		Order("due_date ASC, id ASC").
		Find(&invoices).Error
	return invoices, err
}
