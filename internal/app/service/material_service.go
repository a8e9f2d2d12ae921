package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
)

// UpdateMaterialInput carries the editable material fields; nil means keep.
type UpdateMaterialInput struct {
	Name           *string
	PurchasePrice  *decimal.Decimal
	MaterialTypeID *uint
}

type MaterialService interface {
	CreateMaterial(name string, purchasePrice decimal.Decimal, materialTypeID uint) (*model.Material, error)
	GetMaterial(id uint) (*model.Material, error)
	ListMaterials() ([]model.Material, error)
	// UpdateMaterial persists the edit and, when the purchase price or the
	// costing type changed, cascades the recompute to every accessory that
	// references the material.
	UpdateMaterial(id uint, input UpdateMaterialInput) (*model.Material, error)
	DeleteMaterial(id uint) error
	ListMaterialTypes() ([]model.MaterialType, error)
}

type materialService struct {
	materialRepo     repository.MaterialRepository
	materialTypeRepo repository.MaterialTypeRepository
	cascadeService   CascadeService
}

func NewMaterialService(
	materialRepo repository.MaterialRepository,
	materialTypeRepo repository.MaterialTypeRepository,
	cascadeService CascadeService,
) MaterialService {
	return &materialService{
		materialRepo:     materialRepo,
		materialTypeRepo: materialTypeRepo,
		cascadeService:   cascadeService,
	}
}

func (s *materialService) CreateMaterial(name string, purchasePrice decimal.Decimal, materialTypeID uint) (*model.Material, error) {
	if _, err := s.materialTypeRepo.FindByID(materialTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialTypeNotFound
		}
		return nil, err
	}

	material := &model.Material{
		Name:           name,
		PurchasePrice:  purchasePrice,
		MaterialTypeID: materialTypeID,
	}
	if err := s.materialRepo.Create(material); err != nil {
		return nil, err
	}

	logger.Info("Material created", map[string]interface{}{
		"material_id":    material.ID,
		"name":           material.Name,
		"purchase_price": material.PurchasePrice,
	})
	return s.materialRepo.FindByID(material.ID)
}

func (s *materialService) GetMaterial(id uint) (*model.Material, error) {
	material, err := s.materialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return material, nil
}

func (s *materialService) ListMaterials() ([]model.Material, error) {
	return s.materialRepo.FindAll()
}

func (s *materialService) UpdateMaterial(id uint, input UpdateMaterialInput) (*model.Material, error) {
	material, err := s.materialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	priceChanged := false
	if input.Name != nil {
		material.Name = *input.Name
	}
	if input.PurchasePrice != nil && !material.PurchasePrice.Equal(*input.PurchasePrice) {
		material.PurchasePrice = *input.PurchasePrice
		priceChanged = true
	}
	if input.MaterialTypeID != nil && material.MaterialTypeID != *input.MaterialTypeID {
		if _, err := s.materialTypeRepo.FindByID(*input.MaterialTypeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMaterialTypeNotFound
			}
			return nil, err
		}
		material.MaterialTypeID = *input.MaterialTypeID
		// Switching between area and unit costing changes every snapshot the
		// same way a price edit does.
		priceChanged = true
	}

	if err := s.materialRepo.Update(material); err != nil {
		return nil, err
	}

	if priceChanged {
		logger.Info("Material price changed, triggering cascade", map[string]interface{}{
			"material_id":    material.ID,
			"purchase_price": material.PurchasePrice,
		})
		if err := s.cascadeService.OnMaterialPriceChanged(material.ID); err != nil {
			// The material row is already saved; a partial cascade is
			// reported but does not undo the edit.
			logger.Error("Cascade after material edit failed", err, map[string]interface{}{
				"material_id": material.ID,
			})
			return nil, err
		}
	}

	return s.materialRepo.FindByID(material.ID)
}

func (s *materialService) DeleteMaterial(id uint) error {
	if _, err := s.materialRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}
	return s.materialRepo.Delete(id)
}

func (s *materialService) ListMaterialTypes() ([]model.MaterialType, error) {
	return s.materialTypeRepo.FindAll()
}
