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
	ErrComponentNotFound      = errors.New("component link not found")
	ErrInvalidComponentInput  = errors.New("invalid component input")
	ErrSelfReferenceComponent = errors.New("an accessory cannot be a component of itself")
)

// ComponentInput describes one child accessory in a batch replace.
type ComponentInput struct {
	ChildAccessoryID uint            `json:"child_accessory_id"`
	Quantity         decimal.Decimal `json:"quantity"`
}

// ComponentDetail is the reporting view of one component edge, with the
// child's cost and price computed on demand (never read from the persisted
// pricing rows) and the owner's profit multiplier applied.
type ComponentDetail struct {
	ComponentID      uint            `json:"component_id"`
	ChildAccessoryID uint            `json:"child_accessory_id"`
	ChildName        string          `json:"child_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalPrice       decimal.Decimal `json:"total_price"`
}

type ComponentService interface {
	// ReplaceComponents swaps the parent's full component list atomically.
	// Input is validated before any mutation; no pricing recompute is
	// triggered here.
	ReplaceComponents(parentID uint, components []ComponentInput) ([]model.AccessoryComponent, error)
	GetComponents(parentID uint) ([]model.AccessoryComponent, error)
	GetComponentsDetailed(parentID, ownerID uint) ([]ComponentDetail, error)
	RemoveComponent(componentID uint) error
	RemoveAllComponents(parentID uint) error
}

type componentService struct {
	componentRepo repository.AccessoryComponentRepository
	accessoryRepo repository.AccessoryRepository
	linkRepo      repository.AccessoryMaterialRepository
	ownerRepo     repository.OwnerCompanyRepository
}

func NewComponentService(
	componentRepo repository.AccessoryComponentRepository,
	accessoryRepo repository.AccessoryRepository,
	linkRepo repository.AccessoryMaterialRepository,
	ownerRepo repository.OwnerCompanyRepository,
) ComponentService {
	return &componentService{
		componentRepo: componentRepo,
		accessoryRepo: accessoryRepo,
		linkRepo:      linkRepo,
		ownerRepo:     ownerRepo,
	}
}

func (s *componentService) ReplaceComponents(parentID uint, components []ComponentInput) ([]model.AccessoryComponent, error) {
	logger.Info("Replacing accessory components", map[string]interface{}{
		"parent_accessory_id": parentID,
		"count":               len(components),
	})

	if _, err := s.accessoryRepo.FindByID(parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessoryNotFound
		}
		return nil, err
	}

	edges := make([]model.AccessoryComponent, 0, len(components))
	seen := make(map[uint]bool, len(components))
	for _, input := range components {
		if input.ChildAccessoryID == 0 || !input.Quantity.IsPositive() {
			logger.Warn("Rejecting component batch: invalid entry", map[string]interface{}{
				"parent_accessory_id": parentID,
				"child_accessory_id":  input.ChildAccessoryID,
				"quantity":            input.Quantity,
			})
			return nil, ErrInvalidComponentInput
		}
		if input.ChildAccessoryID == parentID {
			return nil, ErrSelfReferenceComponent
		}
		if seen[input.ChildAccessoryID] {
			return nil, ErrInvalidComponentInput
		}
		seen[input.ChildAccessoryID] = true

		if _, err := s.accessoryRepo.FindByID(input.ChildAccessoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccessoryNotFound
			}
			return nil, err
		}

		cyclic, err := s.wouldCloseCycle(parentID, input.ChildAccessoryID)
		if err != nil {
			return nil, err
		}
		if cyclic {
			logger.Warn("Rejecting component batch: would close a cycle", map[string]interface{}{
				"parent_accessory_id": parentID,
				"child_accessory_id":  input.ChildAccessoryID,
			})
			return nil, ErrComponentCycle
		}

		edges = append(edges, model.AccessoryComponent{
			ParentAccessoryID: parentID,
			ChildAccessoryID:  input.ChildAccessoryID,
			Quantity:          input.Quantity,
		})
	}

	if err := s.componentRepo.ReplaceForParent(parentID, edges); err != nil {
		return nil, err
	}

	logger.Info("Accessory components replaced", map[string]interface{}{
		"parent_accessory_id": parentID,
		"count":               len(edges),
	})
	return edges, nil
}

// wouldCloseCycle reports whether parentID is reachable from childID through
// existing edges, which would make the new parent→child edge close a cycle.
func (s *componentService) wouldCloseCycle(parentID, childID uint) (bool, error) {
	visited := make(map[uint]bool)
	stack := []uint{childID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == parentID {
			return true, nil
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		edges, err := s.componentRepo.FindByParentID(current)
		if err != nil {
			return false, err
		}
		for i := range edges {
			stack = append(stack, edges[i].ChildAccessoryID)
		}
	}
	return false, nil
}

func (s *componentService) GetComponents(parentID uint) ([]model.AccessoryComponent, error) {
	return s.componentRepo.FindByParentID(parentID)
}

func (s *componentService) GetComponentsDetailed(parentID, ownerID uint) ([]ComponentDetail, error) {
	multiplier := decimal.NewFromInt(1)
	owner, err := s.ownerRepo.FindByID(ownerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		multiplier = owner.ProfitMultiplier()
	}

	components, err := s.componentRepo.FindByParentID(parentID)
	if err != nil {
		return nil, err
	}

	details := make([]ComponentDetail, 0, len(components))
	for i := range components {
		component := &components[i]

		visited := map[uint]bool{parentID: true}
		unitCost, err := s.computeCost(component.ChildAccessoryID, visited)
		if err != nil {
			return nil, err
		}

		unitPrice := unitCost.Mul(multiplier)
		details = append(details, ComponentDetail{
			ComponentID:      component.ID,
			ChildAccessoryID: component.ChildAccessoryID,
			ChildName:        component.Child.Name,
			Quantity:         component.Quantity,
			UnitCost:         unitCost,
			UnitPrice:        unitPrice,
			TotalCost:        unitCost.Mul(component.Quantity),
			TotalPrice:       unitPrice.Mul(component.Quantity),
		})
	}
	return details, nil
}

// computeCost recursively sums the accessory's material cost across its
// subgraph, on demand. This reporting path deliberately ignores the persisted
// pricing rows so the report reflects current snapshots even before a
// recompute trigger ran.
func (s *componentService) computeCost(accessoryID uint, visited map[uint]bool) (decimal.Decimal, error) {
	if visited[accessoryID] {
		return decimal.Zero, ErrComponentCycle
	}
	visited[accessoryID] = true

	total := decimal.Zero

	links, err := s.linkRepo.FindByAccessoryID(accessoryID)
	if err != nil {
		return decimal.Zero, err
	}
	for i := range links {
		total = total.Add(links[i].ProportionalCost)
	}

	edges, err := s.componentRepo.FindByParentID(accessoryID)
	if err != nil {
		return decimal.Zero, err
	}
	for i := range edges {
		childCost, err := s.computeCost(edges[i].ChildAccessoryID, visited)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(childCost.Mul(edges[i].Quantity))
	}

	delete(visited, accessoryID)
	return total, nil
}

func (s *componentService) RemoveComponent(componentID uint) error {
	if _, err := s.componentRepo.FindByID(componentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComponentNotFound
		}
		return err
	}
	return s.componentRepo.Delete(componentID)
}

func (s *componentService) RemoveAllComponents(parentID uint) error {
	return s.componentRepo.DeleteByParent(parentID)
}
