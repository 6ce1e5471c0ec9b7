package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
	ImportStatusRejected   = "rejected"
)

type StatementImport struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Filename         string
	TotalProcessed   int
	AutoSettledCount int
	SkippedLineCount int
	Status           string `gorm:"index"`
	Summary          datatypes.JSON
	StartedAt        time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time
}
