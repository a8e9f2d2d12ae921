package repository

import (
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccessoryOwnerPair identifies one accessory/owner combination affected by a
// material price change.
type AccessoryOwnerPair struct {
	AccessoryID    uint
	OwnerCompanyID uint
}

type AccessoryMaterialRepository interface {
	Create(link *model.AccessoryMaterial) error
	FindByID(id uint) (*model.AccessoryMaterial, error)
	FindByAccessoryID(accessoryID uint) ([]model.AccessoryMaterial, error)
	FindByMaterialID(materialID uint) ([]model.AccessoryMaterial, error)
	FindByOwnerID(ownerID uint) ([]model.AccessoryMaterial, error)
	Save(link *model.AccessoryMaterial) error
	Delete(id uint) error
	DistinctAccessoryOwnerPairs(materialID uint) ([]AccessoryOwnerPair, error)
}

type accessoryMaterialRepository struct {
	db *gorm.DB
}

func NewAccessoryMaterialRepository(db *gorm.DB) AccessoryMaterialRepository {
	return &accessoryMaterialRepository{db: db}
}

func (r *accessoryMaterialRepository) Create(link *model.AccessoryMaterial) error {
	logger.Debug("Creating accessory material link in database", map[string]interface{}{
		"accessory_id": link.AccessoryID,
		"material_id":  link.MaterialID,
		"quantity":     link.Quantity,
	})

	if err := r.db.Create(link).Error; err != nil {
		logger.Error("Failed to create accessory material link in database", err, map[string]interface{}{
			"accessory_id": link.AccessoryID,
			"material_id":  link.MaterialID,
		})
		return err
	}
	return nil
}

func (r *accessoryMaterialRepository) FindByID(id uint) (*model.AccessoryMaterial, error) {
	var link model.AccessoryMaterial
	err := r.db.Preload("Material").Preload("Material.MaterialType").First(&link, id).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *accessoryMaterialRepository) FindByAccessoryID(accessoryID uint) ([]model.AccessoryMaterial, error) {
	var links []model.AccessoryMaterial
	err := r.db.Where("accessory_id = ?", accessoryID).
		Preload("Material").
		Preload("Material.MaterialType").
		Find(&links).Error
	if err != nil {
		logger.Error("Failed to find material links by accessory in database", err, map[string]interface{}{
			"accessory_id": accessoryID,
		})
		return nil, err
	}
	return links, nil
}

func (r *accessoryMaterialRepository) FindByMaterialID(materialID uint) ([]model.AccessoryMaterial, error) {
	var links []model.AccessoryMaterial
	err := r.db.Where("material_id = ?", materialID).
		Preload("Material").
		Preload("Material.MaterialType").
		Find(&links).Error
	if err != nil {
		logger.Error("Failed to find material links by material in database", err, map[string]interface{}{
			"material_id": materialID,
		})
		return nil, err
	}
	return links, nil
}

func (r *accessoryMaterialRepository) FindByOwnerID(ownerID uint) ([]model.AccessoryMaterial, error) {
	var links []model.AccessoryMaterial
	err := r.db.Where("owner_company_id = ?", ownerID).
		Preload("Material").
		Preload("Material.MaterialType").
		Find(&links).Error
	if err != nil {
		logger.Error("Failed to find material links by owner in database", err, map[string]interface{}{
			"owner_company_id": ownerID,
		})
		return nil, err
	}
	return links, nil
}

func (r *accessoryMaterialRepository) Save(link *model.AccessoryMaterial) error {
	// Links are saved with Material preloaded; only the link row itself
	// must be written back.
	if err := r.db.Omit(clause.Associations).Save(link).Error; err != nil {
		logger.Error("Failed to save accessory material link in database", err, map[string]interface{}{
			"link_id": link.ID,
		})
		return err
	}
	return nil
}

func (r *accessoryMaterialRepository) Delete(id uint) error {
	logger.Debug("Deleting accessory material link from database", map[string]interface{}{
		"link_id": id,
	})

	if err := r.db.Delete(&model.AccessoryMaterial{}, id).Error; err != nil {
		logger.Error("Failed to delete accessory material link from database", err, map[string]interface{}{
			"link_id": id,
		})
		return err
	}
	return nil
}

// DistinctAccessoryOwnerPairs returns the accessories (with their owners)
// that reference the given material through at least one link.
func (r *accessoryMaterialRepository) DistinctAccessoryOwnerPairs(materialID uint) ([]AccessoryOwnerPair, error) {
	var pairs []AccessoryOwnerPair
	err := r.db.Model(&model.AccessoryMaterial{}).
		Select("DISTINCT accessory_id, owner_company_id").
		Where("material_id = ?", materialID).
		Scan(&pairs).Error
	if err != nil {
		logger.Error("Failed to query affected accessories for material", err, map[string]interface{}{
			"material_id": materialID,
		})
		return nil, err
	}
	return pairs, nil
}
