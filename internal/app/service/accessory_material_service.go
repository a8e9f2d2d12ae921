package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrMaterialNotFound  = errors.New("material not found")
	ErrAccessoryNotFound = errors.New("accessory not found")
	ErrLinkNotFound      = errors.New("accessory material link not found")
	ErrInvalidQuantity   = errors.New("quantity must not be negative")
)

// SnapshotRefreshError reports the links a best-effort snapshot refresh could
// not update. The remaining links were still processed.
type SnapshotRefreshError struct {
	MaterialID    uint
	FailedLinkIDs []uint
}

func (e *SnapshotRefreshError) Error() string {
	return fmt.Sprintf("failed to refresh snapshots of %d link(s) for material %d: %v",
		len(e.FailedLinkIDs), e.MaterialID, e.FailedLinkIDs)
}

// AddMaterialInput describes one material usage to attach to an accessory.
// Width and Length are only meaningful for area-based materials.
type AddMaterialInput struct {
	AccessoryID    uint
	MaterialID     uint
	OwnerCompanyID uint
	Quantity       decimal.Decimal
	Width          *decimal.Decimal
	Length         *decimal.Decimal
}

type AccessoryMaterialService interface {
	AddMaterialToAccessory(input AddMaterialInput) (*model.AccessoryMaterial, error)
	GetMaterialsForAccessory(accessoryID uint) ([]model.AccessoryMaterial, error)
	// RemoveMaterialFromAccessory deletes the link without re-aggregating the
	// accessory's pricing; callers decide when to recompute.
	RemoveMaterialFromAccessory(linkID uint) error
	UpdateMaterialSnapshots(materialID uint) error
	UpdateOwnerSnapshots(ownerID uint) error
}

type accessoryMaterialService struct {
	linkRepo      repository.AccessoryMaterialRepository
	materialRepo  repository.MaterialRepository
	accessoryRepo repository.AccessoryRepository
	costService   CostService
}

func NewAccessoryMaterialService(
	linkRepo repository.AccessoryMaterialRepository,
	materialRepo repository.MaterialRepository,
	accessoryRepo repository.AccessoryRepository,
	costService CostService,
) AccessoryMaterialService {
	return &accessoryMaterialService{
		linkRepo:      linkRepo,
		materialRepo:  materialRepo,
		accessoryRepo: accessoryRepo,
		costService:   costService,
	}
}

func (s *accessoryMaterialService) AddMaterialToAccessory(input AddMaterialInput) (*model.AccessoryMaterial, error) {
	logger.Info("Adding material to accessory", map[string]interface{}{
		"accessory_id":     input.AccessoryID,
		"material_id":      input.MaterialID,
		"owner_company_id": input.OwnerCompanyID,
		"quantity":         input.Quantity,
	})

	if input.Quantity.IsNegative() {
		logger.Warn("Rejecting material link: negative quantity", map[string]interface{}{
			"accessory_id": input.AccessoryID,
			"quantity":     input.Quantity,
		})
		return nil, ErrInvalidQuantity
	}

	if _, err := s.accessoryRepo.FindByID(input.AccessoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add material: accessory not found", map[string]interface{}{
				"accessory_id": input.AccessoryID,
			})
			return nil, ErrAccessoryNotFound
		}
		logger.Error("Failed to fetch accessory", err, map[string]interface{}{
			"accessory_id": input.AccessoryID,
		})
		return nil, err
	}

	material, err := s.materialRepo.FindByID(input.MaterialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add material: material not found", map[string]interface{}{
				"material_id": input.MaterialID,
			})
			return nil, ErrMaterialNotFound
		}
		logger.Error("Failed to fetch material", err, map[string]interface{}{
			"material_id": input.MaterialID,
		})
		return nil, err
	}

	usage := buildUsage(input.Width, input.Length)

	cost, err := s.costService.CalculateMaterialCost(material, input.Quantity, usage, input.OwnerCompanyID)
	if err != nil {
		return nil, err
	}

	link := &model.AccessoryMaterial{
		AccessoryID:      input.AccessoryID,
		MaterialID:       input.MaterialID,
		OwnerCompanyID:   input.OwnerCompanyID,
		Quantity:         input.Quantity,
		Usage:            usage,
		ProportionalCost: cost.ProportionalCost,
		ProfitPercentage: cost.ProfitPercentage,
		SalePrice:        cost.SalePrice,
	}

	if err := s.linkRepo.Create(link); err != nil {
		return nil, err
	}

	logger.Info("Material linked to accessory", map[string]interface{}{
		"link_id":           link.ID,
		"proportional_cost": link.ProportionalCost,
		"sale_price":        link.SalePrice,
	})
	return link, nil
}

func (s *accessoryMaterialService) GetMaterialsForAccessory(accessoryID uint) ([]model.AccessoryMaterial, error) {
	links, err := s.linkRepo.FindByAccessoryID(accessoryID)
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (s *accessoryMaterialService) RemoveMaterialFromAccessory(linkID uint) error {
	if _, err := s.linkRepo.FindByID(linkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return err
	}

	if err := s.linkRepo.Delete(linkID); err != nil {
		return err
	}

	logger.Info("Material link removed", map[string]interface{}{
		"link_id": linkID,
	})
	return nil
}

// UpdateMaterialSnapshots recomputes the cached cost snapshot of every link
// referencing the material, using each link's stored usage and owner. Links
// are processed independently: a failure on one is recorded and the rest
// continue, so one broken row cannot freeze pricing for the whole catalog.
func (s *accessoryMaterialService) UpdateMaterialSnapshots(materialID uint) error {
	links, err := s.linkRepo.FindByMaterialID(materialID)
	if err != nil {
		return err
	}

	logger.Info("Refreshing material link snapshots", map[string]interface{}{
		"material_id": materialID,
		"link_count":  len(links),
	})

	failed := s.refreshLinks(links)
	if len(failed) > 0 {
		return &SnapshotRefreshError{MaterialID: materialID, FailedLinkIDs: failed}
	}
	return nil
}

// UpdateOwnerSnapshots recomputes the snapshots of every link belonging to the
// owner, after its profit percentage changed.
func (s *accessoryMaterialService) UpdateOwnerSnapshots(ownerID uint) error {
	links, err := s.linkRepo.FindByOwnerID(ownerID)
	if err != nil {
		return err
	}

	logger.Info("Refreshing owner link snapshots", map[string]interface{}{
		"owner_company_id": ownerID,
		"link_count":       len(links),
	})

	failed := s.refreshLinks(links)
	if len(failed) > 0 {
		return &SnapshotRefreshError{FailedLinkIDs: failed}
	}
	return nil
}

func (s *accessoryMaterialService) refreshLinks(links []model.AccessoryMaterial) []uint {
	var failed []uint
	for i := range links {
		link := &links[i]

		cost, err := s.costService.CalculateMaterialCost(&link.Material, link.Quantity, link.Usage, link.OwnerCompanyID)
		if err != nil {
			logger.Error("Failed to recompute link snapshot", err, map[string]interface{}{
				"link_id":     link.ID,
				"material_id": link.MaterialID,
			})
			failed = append(failed, link.ID)
			continue
		}

		link.ProportionalCost = cost.ProportionalCost
		link.ProfitPercentage = cost.ProfitPercentage
		link.SalePrice = cost.SalePrice

		if err := s.linkRepo.Save(link); err != nil {
			failed = append(failed, link.ID)
		}
	}
	return failed
}

func buildUsage(width, length *decimal.Decimal) *model.MaterialUsage {
	if width == nil && length == nil {
		return nil
	}
	usage := &model.MaterialUsage{}
	if width != nil {
		usage.Width = *width
	}
	if length != nil {
		usage.Length = *length
	}
	return usage
}
