package repository

import (
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
)

type OwnerCompanyRepository interface {
	Create(owner *model.OwnerCompany) error
	FindByID(id uint) (*model.OwnerCompany, error)
	Update(owner *model.OwnerCompany) error
	Delete(id uint) error
}

type ownerCompanyRepository struct {
	db *gorm.DB
}

func NewOwnerCompanyRepository(db *gorm.DB) OwnerCompanyRepository {
	return &ownerCompanyRepository{db: db}
}

func (r *ownerCompanyRepository) Create(owner *model.OwnerCompany) error {
	if err := r.db.Create(owner).Error; err != nil {
		logger.Error("Failed to create owner company in database", err, map[string]interface{}{
			"name": owner.Name,
		})
		return err
	}
	return nil
}

func (r *ownerCompanyRepository) FindByID(id uint) (*model.OwnerCompany, error) {
	var owner model.OwnerCompany
	if err := r.db.First(&owner, id).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *ownerCompanyRepository) Update(owner *model.OwnerCompany) error {
	if err := r.db.Save(owner).Error; err != nil {
		logger.Error("Failed to update owner company in database", err, map[string]interface{}{
			"owner_company_id": owner.ID,
		})
		return err
	}
	return nil
}

func (r *ownerCompanyRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.OwnerCompany{}, id).Error; err != nil {
		logger.Error("Failed to delete owner company from database", err, map[string]interface{}{
			"owner_company_id": id,
		})
		return err
	}
	return nil
}
