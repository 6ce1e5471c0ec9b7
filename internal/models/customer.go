package models

import "time"

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"index"`
	Document  string
	Email     string
	Active    bool `gorm:"default:true"`
	CreatedAt time.Time
}
