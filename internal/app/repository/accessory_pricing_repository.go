package repository

import (
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccessoryPricingRepository interface {
	// Upsert writes the pricing row for pricing.AccessoryID, inserting or
	// overwriting the totals. One row per accessory.
	Upsert(pricing *model.AccessoryPricing) error
	FindByAccessoryID(accessoryID uint) (*model.AccessoryPricing, error)
	DeleteByAccessoryID(accessoryID uint) error
}

type accessoryPricingRepository struct {
	db *gorm.DB
}

func NewAccessoryPricingRepository(db *gorm.DB) AccessoryPricingRepository {
	return &accessoryPricingRepository{db: db}
}

func (r *accessoryPricingRepository) Upsert(pricing *model.AccessoryPricing) error {
	logger.Debug("Upserting accessory pricing in database", map[string]interface{}{
		"accessory_id":          pricing.AccessoryID,
		"total_materials_price": pricing.TotalMaterialsPrice,
		"total_price":           pricing.TotalPrice,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "accessory_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"owner_company_id",
			"total_materials_price",
			"markup_percentage",
			"total_price",
			"updated_at",
		}),
	}).Create(pricing).Error
	if err != nil {
		logger.Error("Failed to upsert accessory pricing in database", err, map[string]interface{}{
			"accessory_id": pricing.AccessoryID,
		})
		return err
	}
	return nil
}

func (r *accessoryPricingRepository) FindByAccessoryID(accessoryID uint) (*model.AccessoryPricing, error) {
	var pricing model.AccessoryPricing
	err := r.db.Where("accessory_id = ?", accessoryID).First(&pricing).Error
	if err != nil {
		return nil, err
	}
	return &pricing, nil
}

func (r *accessoryPricingRepository) DeleteByAccessoryID(accessoryID uint) error {
	err := r.db.Where("accessory_id = ?", accessoryID).
		Delete(&model.AccessoryPricing{}).Error
	if err != nil {
		logger.Error("Failed to delete accessory pricing from database", err, map[string]interface{}{
			"accessory_id": accessoryID,
		})
		return err
	}
	return nil
}
