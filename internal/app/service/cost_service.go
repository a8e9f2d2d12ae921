package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrMaterialTypeNotFound = errors.New("material type not found")
)

// MaterialCost is the snapshot produced for one material usage.
type MaterialCost struct {
	ProportionalCost decimal.Decimal
	SalePrice        decimal.Decimal
	ProfitPercentage decimal.Decimal
}

// CostService computes the proportional cost and sale price for a single
// material usage. It has no side effects and is safe for concurrent use.
type CostService interface {
	CalculateMaterialCost(material *model.Material, quantity decimal.Decimal, usage *model.MaterialUsage, ownerID uint) (*MaterialCost, error)
}

type costService struct {
	materialTypeRepo repository.MaterialTypeRepository
	ownerRepo        repository.OwnerCompanyRepository
}

func NewCostService(
	materialTypeRepo repository.MaterialTypeRepository,
	ownerRepo repository.OwnerCompanyRepository,
) CostService {
	return &costService{
		materialTypeRepo: materialTypeRepo,
		ownerRepo:        ownerRepo,
	}
}

func (s *costService) CalculateMaterialCost(material *model.Material, quantity decimal.Decimal, usage *model.MaterialUsage, ownerID uint) (*MaterialCost, error) {
	materialType, err := s.resolveMaterialType(material)
	if err != nil {
		return nil, err
	}

	var proportionalCost decimal.Decimal
	if materialType.IsAreaBased() {
		// Missing dimensions yield zero area and therefore zero cost. That is
		// policy, not an error: the usage simply has not been measured yet.
		proportionalCost = material.PurchasePrice.Mul(usage.Area())
	} else {
		proportionalCost = material.PurchasePrice.Mul(quantity)
	}

	profit, err := s.lookupProfitPercentage(ownerID)
	if err != nil {
		return nil, err
	}
	multiplier := decimal.NewFromInt(1).Add(profit.Div(decimal.NewFromInt(100)))
	salePrice := proportionalCost.Mul(multiplier)

	logger.Debug("Material cost calculated", map[string]interface{}{
		"material_id":       material.ID,
		"material_type":     materialType.Name,
		"owner_company_id":  ownerID,
		"proportional_cost": proportionalCost,
		"sale_price":        salePrice,
	})

	return &MaterialCost{
		ProportionalCost: proportionalCost,
		SalePrice:        salePrice,
		ProfitPercentage: profit,
	}, nil
}

func (s *costService) resolveMaterialType(material *model.Material) (*model.MaterialType, error) {
	if material.MaterialType.ID != 0 {
		return &material.MaterialType, nil
	}

	materialType, err := s.materialTypeRepo.FindByID(material.MaterialTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Material type not found for cost calculation", map[string]interface{}{
				"material_id":      material.ID,
				"material_type_id": material.MaterialTypeID,
			})
			return nil, ErrMaterialTypeNotFound
		}
		logger.Error("Failed to resolve material type", err, map[string]interface{}{
			"material_type_id": material.MaterialTypeID,
		})
		return nil, err
	}
	return materialType, nil
}

// lookupProfitPercentage returns the owner's profit percentage. A missing
// owner means 0% markup; storage failures propagate.
func (s *costService) lookupProfitPercentage(ownerID uint) (decimal.Decimal, error) {
	owner, err := s.ownerRepo.FindByID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		logger.Error("Failed to fetch owner company for markup", err, map[string]interface{}{
			"owner_company_id": ownerID,
		})
		return decimal.Zero, err
	}
	return owner.ProfitPercentage, nil
}
