package models

import "time"

// DescriptionAlias remembers which customer a normalized statement
// description refers to. Written every time a link is confirmed, manually or
// automatically; at most one customer per key, last writer wins.
type DescriptionAlias struct {
	ID             uint   `gorm:"primaryKey"`
	DescriptionKey string `gorm:"size:255;uniqueIndex"`
	CustomerID     uint   `gorm:"index"`
	Customer       Customer
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
