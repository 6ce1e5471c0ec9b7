package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InvoiceStatusNew       = "new"
	InvoiceStatusIssued    = "issued"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
	InvoiceStatusError     = "error"
	InvoiceStatusOverdue   = "overdue"
)

const (
	PaymentMethodPix  = "pix"
	PaymentMethodCash = "cash"
)

type Invoice struct {
	ID            uint `gorm:"primaryKey"`
	CustomerID    uint `gorm:"index"`
	Customer      Customer
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);index"`
	DueDate       time.Time
	Status        string `gorm:"index;default:new"`
	PaymentMethod string
	PaymentDate   *time.Time
	CreatedAt     time.Time
}

// Open reports whether the invoice is still an eligible reconciliation target.
func (i *Invoice) Open() bool {
	return i.Status == InvoiceStatusIssued || i.Status == InvoiceStatusOverdue
}
