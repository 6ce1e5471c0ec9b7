package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boleto-backoffice/internal/models"
)

type AliasRepository struct {
	db *gorm.DB
}

func NewAliasRepository(db *gorm.DB) *AliasRepository {
	return &AliasRepository{db: db}
}

func (r *AliasRepository) WithTx(tx *gorm.DB) *AliasRepository {
	return &AliasRepository{db: tx}
}

// FindByKey returns the learned alias for a description key, nil if none.
func (r *AliasRepository) FindByKey(key string) (*models.DescriptionAlias, error) {
	if key == "" {
		return nil, nil
	}
	var alias models.DescriptionAlias
	err := r.db.Preload("Customer").First(&alias, "description_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alias, nil
}

// Upsert points the key at the customer, overwriting any previous mapping.
// Last confirmed link wins; concurrent writers resolve the same way.
func (r *AliasRepository) Upsert(key string, customerID uint) error {
	if key == "" {
		return nil
	}
	alias := models.DescriptionAlias{
		DescriptionKey: key,
		CustomerID:     customerID,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "description_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"customer_id", "updated_at"}),
	}).Create(&alias).Error
	if err != nil {
		return fmt.Errorf("upsert description alias: %w", err)
	}
	return nil
}
