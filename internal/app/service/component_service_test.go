package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/internal/db"
	"gorm.io/gorm"
)

type componentFixture struct {
	componentService ComponentService
	linkService      AccessoryMaterialService
	owner            *model.OwnerCompany
	unitType         *model.MaterialType
	db               *gorm.DB
}

func setupComponentServiceTest(t *testing.T) *componentFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	componentRepo := repository.NewAccessoryComponentRepository(testDB)
	accessoryRepo := repository.NewAccessoryRepository(testDB)
	linkRepo := repository.NewAccessoryMaterialRepository(testDB)
	ownerRepo := repository.NewOwnerCompanyRepository(testDB)
	materialRepo := repository.NewMaterialRepository(testDB)
	materialTypeRepo := repository.NewMaterialTypeRepository(testDB)

	costService := NewCostService(materialTypeRepo, ownerRepo)
	linkService := NewAccessoryMaterialService(linkRepo, materialRepo, accessoryRepo, costService)
	componentService := NewComponentService(componentRepo, accessoryRepo, linkRepo, ownerRepo)

	_, unit := createMaterialTypes(t, testDB)

	owner := &model.OwnerCompany{Name: "Taller Uno", ProfitPercentage: dec("10")}
	require.NoError(t, testDB.Create(owner).Error)

	return &componentFixture{
		componentService: componentService,
		linkService:      linkService,
		owner:            owner,
		unitType:         unit,
		db:               testDB,
	}
}

func (f *componentFixture) createAccessory(t *testing.T, name string) *model.Accessory {
	t.Helper()
	accessory := &model.Accessory{Name: name, OwnerCompanyID: f.owner.ID}
	require.NoError(t, f.db.Create(accessory).Error)
	return accessory
}

func TestComponentService_ReplaceComponents(t *testing.T) {
	f := setupComponentServiceTest(t)
	parent := f.createAccessory(t, "Mueble")
	first := f.createAccessory(t, "Cajón")
	second := f.createAccessory(t, "Puerta")

	edges, err := f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: first.ID, Quantity: dec("2")},
		{ChildAccessoryID: second.ID, Quantity: dec("1")},
	})
	require.NoError(t, err)
	assert.Len(t, edges, 2)

	// Replacing again swaps the whole list, not appends.
	edges, err = f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: second.ID, Quantity: dec("5")},
	})
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	stored, err := f.componentService.GetComponents(parent.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, second.ID, stored[0].ChildAccessoryID)
	assertDecimal(t, "5", stored[0].Quantity)
}

func TestComponentService_ReplaceComponents_EmptyClearsAll(t *testing.T) {
	f := setupComponentServiceTest(t)
	parent := f.createAccessory(t, "Mueble")
	child := f.createAccessory(t, "Cajón")

	_, err := f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: child.ID, Quantity: dec("1")},
	})
	require.NoError(t, err)

	_, err = f.componentService.ReplaceComponents(parent.ID, nil)
	require.NoError(t, err)

	stored, err := f.componentService.GetComponents(parent.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 0)
}

func TestComponentService_ReplaceComponents_Validation(t *testing.T) {
	f := setupComponentServiceTest(t)
	parent := f.createAccessory(t, "Mueble")
	child := f.createAccessory(t, "Cajón")

	// Non-positive quantity.
	_, err := f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: child.ID, Quantity: dec("0")},
	})
	assert.ErrorIs(t, err, ErrInvalidComponentInput)

	// Self reference.
	_, err = f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: parent.ID, Quantity: dec("1")},
	})
	assert.ErrorIs(t, err, ErrSelfReferenceComponent)

	// Duplicate child in one batch.
	_, err = f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: child.ID, Quantity: dec("1")},
		{ChildAccessoryID: child.ID, Quantity: dec("2")},
	})
	assert.ErrorIs(t, err, ErrInvalidComponentInput)

	// Missing child accessory.
	_, err = f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: 9999, Quantity: dec("1")},
	})
	assert.ErrorIs(t, err, ErrAccessoryNotFound)

	// Nothing was written by the failing batches.
	stored, err := f.componentService.GetComponents(parent.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 0)
}

func TestComponentService_ReplaceComponents_RejectsCycle(t *testing.T) {
	f := setupComponentServiceTest(t)
	a := f.createAccessory(t, "A")
	b := f.createAccessory(t, "B")
	c := f.createAccessory(t, "C")

	_, err := f.componentService.ReplaceComponents(a.ID, []ComponentInput{
		{ChildAccessoryID: b.ID, Quantity: dec("1")},
	})
	require.NoError(t, err)
	_, err = f.componentService.ReplaceComponents(b.ID, []ComponentInput{
		{ChildAccessoryID: c.ID, Quantity: dec("1")},
	})
	require.NoError(t, err)

	// C → A would close A → B → C → A.
	_, err = f.componentService.ReplaceComponents(c.ID, []ComponentInput{
		{ChildAccessoryID: a.ID, Quantity: dec("1")},
	})
	assert.ErrorIs(t, err, ErrComponentCycle)
}

func TestComponentService_GetComponentsDetailed(t *testing.T) {
	f := setupComponentServiceTest(t)
	parent := f.createAccessory(t, "Mueble")
	child := f.createAccessory(t, "Cajón")
	nested := f.createAccessory(t, "Riel armado")

	material := &model.Material{Name: "Madera", PurchasePrice: dec("100"), MaterialTypeID: f.unitType.ID}
	require.NoError(t, f.db.Create(material).Error)

	_, err := f.linkService.AddMaterialToAccessory(AddMaterialInput{
		AccessoryID:    child.ID,
		MaterialID:     material.ID,
		OwnerCompanyID: f.owner.ID,
		Quantity:       dec("1"),
	})
	require.NoError(t, err)
	_, err = f.linkService.AddMaterialToAccessory(AddMaterialInput{
		AccessoryID:    nested.ID,
		MaterialID:     material.ID,
		OwnerCompanyID: f.owner.ID,
		Quantity:       dec("2"),
	})
	require.NoError(t, err)

	// child also contains 3 × nested: unit cost = 100 + 3×200 = 700.
	_, err = f.componentService.ReplaceComponents(child.ID, []ComponentInput{
		{ChildAccessoryID: nested.ID, Quantity: dec("3")},
	})
	require.NoError(t, err)
	_, err = f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: child.ID, Quantity: dec("2")},
	})
	require.NoError(t, err)

	details, err := f.componentService.GetComponentsDetailed(parent.ID, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)

	detail := details[0]
	assert.Equal(t, child.ID, detail.ChildAccessoryID)
	assert.Equal(t, "Cajón", detail.ChildName)
	assertDecimal(t, "700", detail.UnitCost)
	assertDecimal(t, "770", detail.UnitPrice) // 10% owner markup
	assertDecimal(t, "1400", detail.TotalCost)
	assertDecimal(t, "1540", detail.TotalPrice)
}

func TestComponentService_GetComponentsDetailed_MissingOwner(t *testing.T) {
	f := setupComponentServiceTest(t)
	parent := f.createAccessory(t, "Mueble")
	child := f.createAccessory(t, "Cajón")

	material := &model.Material{Name: "Madera", PurchasePrice: dec("50"), MaterialTypeID: f.unitType.ID}
	require.NoError(t, f.db.Create(material).Error)
	_, err := f.linkService.AddMaterialToAccessory(AddMaterialInput{
		AccessoryID:    child.ID,
		MaterialID:     material.ID,
		OwnerCompanyID: f.owner.ID,
		Quantity:       dec("1"),
	})
	require.NoError(t, err)

	_, err = f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: child.ID, Quantity: dec("1")},
	})
	require.NoError(t, err)

	// Unknown owner → multiplier 1, price equals cost.
	details, err := f.componentService.GetComponentsDetailed(parent.ID, 9999)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assertDecimal(t, "50", details[0].UnitCost)
	assertDecimal(t, "50", details[0].UnitPrice)
}

func TestComponentService_RemoveComponent(t *testing.T) {
	f := setupComponentServiceTest(t)
	parent := f.createAccessory(t, "Mueble")
	child := f.createAccessory(t, "Cajón")

	edges, err := f.componentService.ReplaceComponents(parent.ID, []ComponentInput{
		{ChildAccessoryID: child.ID, Quantity: dec("1")},
	})
	require.NoError(t, err)
	require.Len(t, edges, 1)

	require.NoError(t, f.componentService.RemoveComponent(edges[0].ID))

	stored, err := f.componentService.GetComponents(parent.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 0)

	assert.ErrorIs(t, f.componentService.RemoveComponent(edges[0].ID), ErrComponentNotFound)
}
