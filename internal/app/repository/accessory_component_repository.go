package repository

import (
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
)

type AccessoryComponentRepository interface {
	// ReplaceForParent swaps the parent's full edge set in one transaction, so
	// concurrent readers never observe a mix of old and new edges.
	ReplaceForParent(parentID uint, components []model.AccessoryComponent) error
	FindByID(id uint) (*model.AccessoryComponent, error)
	FindByParentID(parentID uint) ([]model.AccessoryComponent, error)
	FindByChildID(childID uint) ([]model.AccessoryComponent, error)
	DeleteByParent(parentID uint) error
	Delete(id uint) error
}

type accessoryComponentRepository struct {
	db *gorm.DB
}

func NewAccessoryComponentRepository(db *gorm.DB) AccessoryComponentRepository {
	return &accessoryComponentRepository{db: db}
}

func (r *accessoryComponentRepository) ReplaceForParent(parentID uint, components []model.AccessoryComponent) error {
	logger.Debug("Replacing component links for parent in database", map[string]interface{}{
		"parent_accessory_id": parentID,
		"count":               len(components),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_accessory_id = ?", parentID).
			Delete(&model.AccessoryComponent{}).Error; err != nil {
			return err
		}
		if len(components) == 0 {
			return nil
		}
		return tx.Create(&components).Error
	})
	if err != nil {
		logger.Error("Failed to replace component links in database", err, map[string]interface{}{
			"parent_accessory_id": parentID,
		})
		return err
	}
	return nil
}

func (r *accessoryComponentRepository) FindByID(id uint) (*model.AccessoryComponent, error) {
	var component model.AccessoryComponent
	if err := r.db.Preload("Child").First(&component, id).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *accessoryComponentRepository) FindByParentID(parentID uint) ([]model.AccessoryComponent, error) {
	var components []model.AccessoryComponent
	err := r.db.Where("parent_accessory_id = ?", parentID).
		Preload("Child").
		Find(&components).Error
	if err != nil {
		logger.Error("Failed to find components by parent in database", err, map[string]interface{}{
			"parent_accessory_id": parentID,
		})
		return nil, err
	}
	return components, nil
}

// FindByChildID is the reverse-edge index used to walk the graph upward from
// an affected accessory to the assemblies containing it.
func (r *accessoryComponentRepository) FindByChildID(childID uint) ([]model.AccessoryComponent, error) {
	var components []model.AccessoryComponent
	err := r.db.Where("child_accessory_id = ?", childID).
		Preload("Parent").
		Find(&components).Error
	if err != nil {
		logger.Error("Failed to find components by child in database", err, map[string]interface{}{
			"child_accessory_id": childID,
		})
		return nil, err
	}
	return components, nil
}

func (r *accessoryComponentRepository) DeleteByParent(parentID uint) error {
	err := r.db.Where("parent_accessory_id = ?", parentID).
		Delete(&model.AccessoryComponent{}).Error
	if err != nil {
		logger.Error("Failed to delete components by parent from database", err, map[string]interface{}{
			"parent_accessory_id": parentID,
		})
		return err
	}
	return nil
}

func (r *accessoryComponentRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.AccessoryComponent{}, id).Error; err != nil {
		logger.Error("Failed to delete component link from database", err, map[string]interface{}{
			"component_id": id,
		})
		return err
	}
	return nil
}
