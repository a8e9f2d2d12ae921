package service

import (
	"errors"

	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
)

type AccessoryService interface {
	CreateAccessory(name, description string, ownerID uint) (*model.Accessory, error)
	GetAccessory(id uint) (*model.Accessory, error)
	ListAccessories(ownerID uint) ([]model.Accessory, error)
	UpdateAccessory(id uint, name, description string) (*model.Accessory, error)
	// DeleteAccessory removes the accessory together with its material links,
	// its component edges (in both directions) and its pricing row, in one
	// transaction.
	DeleteAccessory(id uint) error
}

type accessoryService struct {
	accessoryRepo repository.AccessoryRepository
	ownerRepo     repository.OwnerCompanyRepository
	db            *gorm.DB
}

var ErrOwnerNotFound = errors.New("owner company not found")

func NewAccessoryService(
	accessoryRepo repository.AccessoryRepository,
	ownerRepo repository.OwnerCompanyRepository,
	db *gorm.DB,
) AccessoryService {
	return &accessoryService{
		accessoryRepo: accessoryRepo,
		ownerRepo:     ownerRepo,
		db:            db,
	}
}

func (s *accessoryService) CreateAccessory(name, description string, ownerID uint) (*model.Accessory, error) {
	if _, err := s.ownerRepo.FindByID(ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	accessory := &model.Accessory{
		Name:           name,
		Description:    description,
		OwnerCompanyID: ownerID,
	}
	if err := s.accessoryRepo.Create(accessory); err != nil {
		return nil, err
	}

	logger.Info("Accessory created", map[string]interface{}{
		"accessory_id":     accessory.ID,
		"owner_company_id": ownerID,
	})
	return accessory, nil
}

func (s *accessoryService) GetAccessory(id uint) (*model.Accessory, error) {
	accessory, err := s.accessoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessoryNotFound
		}
		return nil, err
	}
	return accessory, nil
}

func (s *accessoryService) ListAccessories(ownerID uint) ([]model.Accessory, error) {
	return s.accessoryRepo.FindByOwnerID(ownerID)
}

func (s *accessoryService) UpdateAccessory(id uint, name, description string) (*model.Accessory, error) {
	accessory, err := s.accessoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessoryNotFound
		}
		return nil, err
	}

	accessory.Name = name
	accessory.Description = description
	if err := s.accessoryRepo.Update(accessory); err != nil {
		return nil, err
	}
	return accessory, nil
}

func (s *accessoryService) DeleteAccessory(id uint) error {
	if _, err := s.accessoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccessoryNotFound
		}
		return err
	}

	logger.Info("Deleting accessory with dependent rows", map[string]interface{}{
		"accessory_id": id,
	})

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("accessory_id = ?", id).
			Delete(&model.AccessoryMaterial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_accessory_id = ? OR child_accessory_id = ?", id, id).
			Delete(&model.AccessoryComponent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("accessory_id = ?", id).
			Delete(&model.AccessoryPricing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Accessory{}, id).Error
	})
}
