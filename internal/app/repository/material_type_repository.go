package repository

import (
	"github.com/tallerix/taller-backend/internal/app/model"
	"gorm.io/gorm"
)

type MaterialTypeRepository interface {
	Create(materialType *model.MaterialType) error
	FindByID(id uint) (*model.MaterialType, error)
	FindByName(name string) (*model.MaterialType, error)
	FindAll() ([]model.MaterialType, error)
}

type materialTypeRepository struct {
	db *gorm.DB
}

func NewMaterialTypeRepository(db *gorm.DB) MaterialTypeRepository {
	return &materialTypeRepository{db: db}
}

func (r *materialTypeRepository) Create(materialType *model.MaterialType) error {
	return r.db.Create(materialType).Error
}

func (r *materialTypeRepository) FindByID(id uint) (*model.MaterialType, error) {
	var materialType model.MaterialType
	if err := r.db.First(&materialType, id).Error; err != nil {
		return nil, err
	}
	return &materialType, nil
}

func (r *materialTypeRepository) FindByName(name string) (*model.MaterialType, error) {
	var materialType model.MaterialType
	if err := r.db.Where("name = ?", name).First(&materialType).Error; err != nil {
		return nil, err
	}
	return &materialType, nil
}

func (r *materialTypeRepository) FindAll() ([]model.MaterialType, error) {
	var types []model.MaterialType
	if err := r.db.Order("id").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
