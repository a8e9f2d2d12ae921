package service

import (
	"errors"
	"fmt"

	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/pkg/logger"
)

// CascadeService propagates price-relevant edits: it refreshes the cached
// link snapshots and re-aggregates every affected accessory.
type CascadeService interface {
	OnMaterialPriceChanged(materialID uint) error
	OnOwnerProfitChanged(ownerID uint) error
}

type cascadeService struct {
	linkService    AccessoryMaterialService
	pricingService PricingService
	linkRepo       repository.AccessoryMaterialRepository
	componentRepo  repository.AccessoryComponentRepository
	accessoryRepo  repository.AccessoryRepository
	// cascadeUpward extends the recompute set with the transitive parents of
	// each affected accessory, so assemblies containing it only as a
	// component are repriced too. Disable to restrict the cascade to
	// accessories that reference the material directly.
	cascadeUpward bool
}

func NewCascadeService(
	linkService AccessoryMaterialService,
	pricingService PricingService,
	linkRepo repository.AccessoryMaterialRepository,
	componentRepo repository.AccessoryComponentRepository,
	accessoryRepo repository.AccessoryRepository,
	cascadeUpward bool,
) CascadeService {
	return &cascadeService{
		linkService:    linkService,
		pricingService: pricingService,
		linkRepo:       linkRepo,
		componentRepo:  componentRepo,
		accessoryRepo:  accessoryRepo,
		cascadeUpward:  cascadeUpward,
	}
}

func (s *cascadeService) OnMaterialPriceChanged(materialID uint) error {
	logger.Info("Cascading material price change", map[string]interface{}{
		"material_id":    materialID,
		"cascade_upward": s.cascadeUpward,
	})

	if err := s.linkService.UpdateMaterialSnapshots(materialID); err != nil {
		var refreshErr *SnapshotRefreshError
		if !errors.As(err, &refreshErr) {
			return err
		}
		// Best-effort: the failed links are already logged; the accessories
		// whose snapshots did refresh still need re-aggregation.
		logger.Warn("Snapshot refresh was partial, continuing cascade", map[string]interface{}{
			"material_id":  materialID,
			"failed_links": refreshErr.FailedLinkIDs,
		})
	}

	pairs, err := s.linkRepo.DistinctAccessoryOwnerPairs(materialID)
	if err != nil {
		return err
	}

	if s.cascadeUpward {
		pairs, err = s.expandUpward(pairs)
		if err != nil {
			return err
		}
	}

	return s.reaggregate(pairs)
}

func (s *cascadeService) OnOwnerProfitChanged(ownerID uint) error {
	logger.Info("Cascading owner profit change", map[string]interface{}{
		"owner_company_id": ownerID,
	})

	if err := s.linkService.UpdateOwnerSnapshots(ownerID); err != nil {
		var refreshErr *SnapshotRefreshError
		if !errors.As(err, &refreshErr) {
			return err
		}
		logger.Warn("Snapshot refresh was partial, continuing cascade", map[string]interface{}{
			"owner_company_id": ownerID,
			"failed_links":     refreshErr.FailedLinkIDs,
		})
	}

	// A profit change moves every sale price of the owner, so all of its
	// accessories are re-aggregated, not only the ones with direct links.
	accessories, err := s.accessoryRepo.FindByOwnerID(ownerID)
	if err != nil {
		return err
	}

	pairs := make([]repository.AccessoryOwnerPair, 0, len(accessories))
	for i := range accessories {
		pairs = append(pairs, repository.AccessoryOwnerPair{
			AccessoryID:    accessories[i].ID,
			OwnerCompanyID: ownerID,
		})
	}
	return s.reaggregate(pairs)
}

// expandUpward walks the child→parent reverse index transitively and appends
// every assembly containing an affected accessory. Children stay ahead of
// their parents in the returned slice.
func (s *cascadeService) expandUpward(pairs []repository.AccessoryOwnerPair) ([]repository.AccessoryOwnerPair, error) {
	visited := make(map[uint]bool, len(pairs))
	queue := make([]repository.AccessoryOwnerPair, 0, len(pairs))
	for _, pair := range pairs {
		if !visited[pair.AccessoryID] {
			visited[pair.AccessoryID] = true
			queue = append(queue, pair)
		}
	}

	for i := 0; i < len(queue); i++ {
		edges, err := s.componentRepo.FindByChildID(queue[i].AccessoryID)
		if err != nil {
			return nil, err
		}
		for j := range edges {
			parentID := edges[j].ParentAccessoryID
			if visited[parentID] {
				continue
			}
			visited[parentID] = true
			// The preload skips soft-deleted parents; their edges carry a
			// zero-value Parent and the accessory no longer needs repricing.
			if edges[j].Parent.ID == 0 {
				continue
			}
			queue = append(queue, repository.AccessoryOwnerPair{
				AccessoryID:    parentID,
				OwnerCompanyID: edges[j].Parent.OwnerCompanyID,
			})
		}
	}
	return queue, nil
}

func (s *cascadeService) reaggregate(pairs []repository.AccessoryOwnerPair) error {
	failures := 0
	for _, pair := range pairs {
		if _, err := s.pricingService.UpdateAccessoryPrice(pair.AccessoryID, pair.OwnerCompanyID); err != nil {
			logger.Error("Failed to re-aggregate accessory during cascade", err, map[string]interface{}{
				"accessory_id":     pair.AccessoryID,
				"owner_company_id": pair.OwnerCompanyID,
			})
			failures++
		}
	}

	logger.Info("Cascade re-aggregation finished", map[string]interface{}{
		"accessory_count": len(pairs),
		"failures":        failures,
	})

	if failures > 0 {
		return fmt.Errorf("cascade re-aggregation failed for %d of %d accessories", failures, len(pairs))
	}
	return nil
}
