package db

import (
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.OwnerCompany{},
		&model.MaterialType{},
		&model.Material{},
		&model.Accessory{},
		&model.AccessoryMaterial{},
		&model.AccessoryComponent{},
		&model.AccessoryPricing{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedMaterialTypes(); err != nil {
		logger.Error("Failed to seed material types during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedMaterialTypes ensures the two costing modes exist. Costing is decided by
// type name, so these rows are required before any material can be created.
func seedMaterialTypes() error {
	var count int64
	if err := DB.Model(&model.MaterialType{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Material types already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding material types...")

	types := []model.MaterialType{
		{Name: model.MaterialTypeAreaName},
		{Name: model.MaterialTypeUnitName},
	}

	for _, t := range types {
		if err := DB.Create(&t).Error; err != nil {
			logger.Error("Failed to create material type", err, map[string]interface{}{
				"name": t.Name,
			})
			return err
		}
	}

	logger.Info("Material types seeded successfully", map[string]interface{}{
		"count": len(types),
	})
	return nil
}
