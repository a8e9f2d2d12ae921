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
	ErrComponentCycle  = errors.New("component graph contains a cycle")
	ErrPricingNotFound = errors.New("accessory pricing not found")
)

// PricingTotals is the aggregation result for one accessory.
type PricingTotals struct {
	TotalCost  decimal.Decimal `json:"total_cost"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// PricingCache caches persisted pricing rows for the read path. Implementations
// must tolerate being bypassed: the database row is always authoritative.
type PricingCache interface {
	Get(accessoryID uint) (*model.AccessoryPricing, bool)
	Set(pricing *model.AccessoryPricing)
	Invalidate(accessoryID uint)
}

// PricingService aggregates an accessory's cost and price across its full
// component subgraph and persists the result per node.
type PricingService interface {
	// UpdateAccessoryPrice recomputes and persists the pricing of the
	// accessory and every accessory reachable below it.
	UpdateAccessoryPrice(accessoryID, ownerID uint) (*PricingTotals, error)
	// GetAccessoryPricing returns the persisted row without recomputing.
	GetAccessoryPricing(accessoryID uint) (*model.AccessoryPricing, error)
	// RefreshAll re-aggregates every accessory and returns how many succeeded.
	RefreshAll() (int, error)
}

type pricingService struct {
	linkRepo      repository.AccessoryMaterialRepository
	componentRepo repository.AccessoryComponentRepository
	pricingRepo   repository.AccessoryPricingRepository
	ownerRepo     repository.OwnerCompanyRepository
	accessoryRepo repository.AccessoryRepository
	cache         PricingCache
}

func NewPricingService(
	linkRepo repository.AccessoryMaterialRepository,
	componentRepo repository.AccessoryComponentRepository,
	pricingRepo repository.AccessoryPricingRepository,
	ownerRepo repository.OwnerCompanyRepository,
	accessoryRepo repository.AccessoryRepository,
	cache PricingCache,
) PricingService {
	return &pricingService{
		linkRepo:      linkRepo,
		componentRepo: componentRepo,
		pricingRepo:   pricingRepo,
		ownerRepo:     ownerRepo,
		accessoryRepo: accessoryRepo,
		cache:         cache,
	}
}

// visit states for the traversal cycle guard.
const (
	visitInProgress = 1
	visitDone       = 2
)

func (s *pricingService) UpdateAccessoryPrice(accessoryID, ownerID uint) (*PricingTotals, error) {
	logger.Info("Updating accessory price", map[string]interface{}{
		"accessory_id":     accessoryID,
		"owner_company_id": ownerID,
	})

	markup := decimal.Zero
	owner, err := s.ownerRepo.FindByID(ownerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Missing owner means 0% markup, by policy.
	} else {
		markup = owner.ProfitPercentage
	}

	// Post-order traversal: each reachable accessory is computed and
	// persisted exactly once per top-level call, with the memo serving
	// repeated components and the visit state guarding against cycles.
	memo := make(map[uint]*PricingTotals)
	state := make(map[uint]int)

	totals, err := s.aggregate(accessoryID, ownerID, markup, memo, state)
	if err != nil {
		logger.Error("Failed to update accessory price", err, map[string]interface{}{
			"accessory_id": accessoryID,
		})
		return nil, err
	}

	logger.Info("Accessory price updated", map[string]interface{}{
		"accessory_id":   accessoryID,
		"total_cost":     totals.TotalCost,
		"total_price":    totals.TotalPrice,
		"nodes_repriced": len(memo),
	})
	return totals, nil
}

func (s *pricingService) aggregate(accessoryID, ownerID uint, markup decimal.Decimal, memo map[uint]*PricingTotals, state map[uint]int) (*PricingTotals, error) {
	if totals, ok := memo[accessoryID]; ok {
		return totals, nil
	}
	if state[accessoryID] == visitInProgress {
		logger.Error("Cycle detected in component graph", ErrComponentCycle, map[string]interface{}{
			"accessory_id": accessoryID,
		})
		return nil, ErrComponentCycle
	}
	state[accessoryID] = visitInProgress

	totalCost := decimal.Zero
	totalPrice := decimal.Zero

	// Direct material links contribute their cached snapshots as stored; the
	// cost calculator already ran when each link was created or refreshed.
	links, err := s.linkRepo.FindByAccessoryID(accessoryID)
	if err != nil {
		return nil, err
	}
	for i := range links {
		totalCost = totalCost.Add(links[i].ProportionalCost)
		totalPrice = totalPrice.Add(links[i].SalePrice)
	}

	components, err := s.componentRepo.FindByParentID(accessoryID)
	if err != nil {
		return nil, err
	}
	for i := range components {
		child, err := s.aggregate(components[i].ChildAccessoryID, ownerID, markup, memo, state)
		if err != nil {
			return nil, err
		}
		totalCost = totalCost.Add(child.TotalCost.Mul(components[i].Quantity))
		totalPrice = totalPrice.Add(child.TotalPrice.Mul(components[i].Quantity))
	}

	pricing := &model.AccessoryPricing{
		AccessoryID:         accessoryID,
		OwnerCompanyID:      ownerID,
		TotalMaterialsPrice: totalCost,
		MarkupPercentage:    markup,
		TotalPrice:          totalPrice,
	}
	if err := s.pricingRepo.Upsert(pricing); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(accessoryID)
	}

	totals := &PricingTotals{TotalCost: totalCost, TotalPrice: totalPrice}
	state[accessoryID] = visitDone
	memo[accessoryID] = totals
	return totals, nil
}

func (s *pricingService) GetAccessoryPricing(accessoryID uint) (*model.AccessoryPricing, error) {
	if s.cache != nil {
		if pricing, ok := s.cache.Get(accessoryID); ok {
			return pricing, nil
		}
	}

	pricing, err := s.pricingRepo.FindByAccessoryID(accessoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPricingNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(pricing)
	}
	return pricing, nil
}

func (s *pricingService) RefreshAll() (int, error) {
	accessories, err := s.accessoryRepo.FindAll()
	if err != nil {
		return 0, err
	}

	logger.Info("Refreshing pricing for all accessories", map[string]interface{}{
		"count": len(accessories),
	})

	updated := 0
	var failures int
	for i := range accessories {
		if _, err := s.UpdateAccessoryPrice(accessories[i].ID, accessories[i].OwnerCompanyID); err != nil {
			logger.Error("Failed to refresh accessory pricing", err, map[string]interface{}{
				"accessory_id": accessories[i].ID,
			})
			failures++
			continue
		}
		updated++
	}

	if failures > 0 {
		return updated, &RefreshAllError{Failed: failures, Total: len(accessories)}
	}
	return updated, nil
}

// RefreshAllError reports a partially failed bulk repricing run.
type RefreshAllError struct {
	Failed int
	Total  int
}

func (e *RefreshAllError) Error() string {
	return fmt.Sprintf("pricing refresh failed for %d of %d accessories", e.Failed, e.Total)
}
