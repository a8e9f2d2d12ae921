package repository

import (
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
)

type AccessoryRepository interface {
	Create(accessory *model.Accessory) error
	FindByID(id uint) (*model.Accessory, error)
	FindByOwnerID(ownerID uint) ([]model.Accessory, error)
	FindAll() ([]model.Accessory, error)
	Update(accessory *model.Accessory) error
	Delete(id uint) error
}

type accessoryRepository struct {
	db *gorm.DB
}

func NewAccessoryRepository(db *gorm.DB) AccessoryRepository {
	return &accessoryRepository{db: db}
}

func (r *accessoryRepository) Create(accessory *model.Accessory) error {
	logger.Debug("Creating accessory in database", map[string]interface{}{
		"name":             accessory.Name,
		"owner_company_id": accessory.OwnerCompanyID,
	})

	if err := r.db.Create(accessory).Error; err != nil {
		logger.Error("Failed to create accessory in database", err, map[string]interface{}{
			"name": accessory.Name,
		})
		return err
	}
	return nil
}

func (r *accessoryRepository) FindByID(id uint) (*model.Accessory, error) {
	var accessory model.Accessory
	if err := r.db.First(&accessory, id).Error; err != nil {
		return nil, err
	}
	return &accessory, nil
}

func (r *accessoryRepository) FindByOwnerID(ownerID uint) ([]model.Accessory, error) {
	var accessories []model.Accessory
	err := r.db.Where("owner_company_id = ?", ownerID).Order("name").Find(&accessories).Error
	if err != nil {
		logger.Error("Failed to list accessories by owner from database", err, map[string]interface{}{
			"owner_company_id": ownerID,
		})
		return nil, err
	}
	return accessories, nil
}

func (r *accessoryRepository) FindAll() ([]model.Accessory, error) {
	var accessories []model.Accessory
	if err := r.db.Order("id").Find(&accessories).Error; err != nil {
		logger.Error("Failed to list accessories from database", err)
		return nil, err
	}
	return accessories, nil
}

func (r *accessoryRepository) Update(accessory *model.Accessory) error {
	if err := r.db.Save(accessory).Error; err != nil {
		logger.Error("Failed to update accessory in database", err, map[string]interface{}{
			"accessory_id": accessory.ID,
		})
		return err
	}
	return nil
}

func (r *accessoryRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Accessory{}, id).Error; err != nil {
		logger.Error("Failed to delete accessory from database", err, map[string]interface{}{
			"accessory_id": id,
		})
		return err
	}
	return nil
}
