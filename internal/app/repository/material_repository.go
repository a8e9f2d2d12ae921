package repository

import (
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaterialRepository interface {
	Create(material *model.Material) error
	FindByID(id uint) (*model.Material, error)
	FindAll() ([]model.Material, error)
	Update(material *model.Material) error
	Delete(id uint) error
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(material *model.Material) error {
	logger.Debug("Creating material in database", map[string]interface{}{
		"name":             material.Name,
		"material_type_id": material.MaterialTypeID,
	})

	if err := r.db.Create(material).Error; err != nil {
		logger.Error("Failed to create material in database", err, map[string]interface{}{
			"name": material.Name,
		})
		return err
	}
	return nil
}

func (r *materialRepository) FindByID(id uint) (*model.Material, error) {
	var material model.Material
	err := r.db.Preload("MaterialType").First(&material, id).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) FindAll() ([]model.Material, error) {
	var materials []model.Material
	err := r.db.Preload("MaterialType").Order("name").Find(&materials).Error
	if err != nil {
		logger.Error("Failed to list materials from database", err)
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) Update(material *model.Material) error {
	logger.Debug("Updating material in database", map[string]interface{}{
		"material_id":    material.ID,
		"purchase_price": material.PurchasePrice,
	})

	if err := r.db.Omit(clause.Associations).Save(material).Error; err != nil {
		logger.Error("Failed to update material in database", err, map[string]interface{}{
			"material_id": material.ID,
		})
		return err
	}
	return nil
}

func (r *materialRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Material{}, id).Error; err != nil {
		logger.Error("Failed to delete material from database", err, map[string]interface{}{
			"material_id": id,
		})
		return err
	}
	return nil
}
