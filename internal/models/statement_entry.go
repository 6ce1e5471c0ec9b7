package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementEntry is one parsed bank-statement line. The fingerprint is the
// identity key: re-uploading a statement that covers the same period maps
// onto the same rows instead of creating duplicates.
type StatementEntry struct {
	ID              uint   `gorm:"primaryKey"`
	Fingerprint     string `gorm:"size:128;uniqueIndex"`
	Date            time.Time
	Description     string          `gorm:"size:255"`
	DescriptionKey  string          `gorm:"size:255;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2)"`
	LinkedInvoiceID *uint           `gorm:"index"`
	LinkedInvoice   *Invoice        `gorm:"foreignKey:LinkedInvoiceID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
