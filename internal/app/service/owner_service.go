package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidProfitPercentage = errors.New("profit percentage must not be negative")

type OwnerCompanyService interface {
	CreateOwner(name string, profitPercentage decimal.Decimal) (*model.OwnerCompany, error)
	GetOwner(id uint) (*model.OwnerCompany, error)
	// UpdateProfitPercentage saves the new markup and cascades the recompute
	// to every link and accessory of the owner.
	UpdateProfitPercentage(id uint, profitPercentage decimal.Decimal) (*model.OwnerCompany, error)
}

type ownerCompanyService struct {
	ownerRepo      repository.OwnerCompanyRepository
	cascadeService CascadeService
}

func NewOwnerCompanyService(
	ownerRepo repository.OwnerCompanyRepository,
	cascadeService CascadeService,
) OwnerCompanyService {
	return &ownerCompanyService{
		ownerRepo:      ownerRepo,
		cascadeService: cascadeService,
	}
}

func (s *ownerCompanyService) CreateOwner(name string, profitPercentage decimal.Decimal) (*model.OwnerCompany, error) {
	if profitPercentage.IsNegative() {
		return nil, ErrInvalidProfitPercentage
	}

	owner := &model.OwnerCompany{
		Name:             name,
		ProfitPercentage: profitPercentage,
	}
	if err := s.ownerRepo.Create(owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func (s *ownerCompanyService) GetOwner(id uint) (*model.OwnerCompany, error) {
	owner, err := s.ownerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}
	return owner, nil
}

func (s *ownerCompanyService) UpdateProfitPercentage(id uint, profitPercentage decimal.Decimal) (*model.OwnerCompany, error) {
	if profitPercentage.IsNegative() {
		return nil, ErrInvalidProfitPercentage
	}

	owner, err := s.ownerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	if owner.ProfitPercentage.Equal(profitPercentage) {
		return owner, nil
	}

	owner.ProfitPercentage = profitPercentage
	if err := s.ownerRepo.Update(owner); err != nil {
		return nil, err
	}

	logger.Info("Owner profit percentage changed, triggering cascade", map[string]interface{}{
		"owner_company_id":  owner.ID,
		"profit_percentage": owner.ProfitPercentage,
	})
	if err := s.cascadeService.OnOwnerProfitChanged(owner.ID); err != nil {
		logger.Error("Cascade after profit edit failed", err, map[string]interface{}{
			"owner_company_id": owner.ID,
		})
		return nil, err
	}

	return owner, nil
}
