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

type ownerFixture struct {
	ownerService   OwnerCompanyService
	linkService    AccessoryMaterialService
	pricingService PricingService
	unitType       *model.MaterialType
	db             *gorm.DB
}

func setupOwnerServiceTest(t *testing.T) *ownerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	linkRepo := repository.NewAccessoryMaterialRepository(testDB)
	componentRepo := repository.NewAccessoryComponentRepository(testDB)
	pricingRepo := repository.NewAccessoryPricingRepository(testDB)
	ownerRepo := repository.NewOwnerCompanyRepository(testDB)
	accessoryRepo := repository.NewAccessoryRepository(testDB)
	materialRepo := repository.NewMaterialRepository(testDB)
	materialTypeRepo := repository.NewMaterialTypeRepository(testDB)

	costService := NewCostService(materialTypeRepo, ownerRepo)
	linkService := NewAccessoryMaterialService(linkRepo, materialRepo, accessoryRepo, costService)
	pricingService := NewPricingService(linkRepo, componentRepo, pricingRepo, ownerRepo, accessoryRepo, nil)
	cascadeService := NewCascadeService(linkService, pricingService, linkRepo, componentRepo, accessoryRepo, true)
	ownerService := NewOwnerCompanyService(ownerRepo, cascadeService)

	_, unit := createMaterialTypes(t, testDB)

	return &ownerFixture{
		ownerService:   ownerService,
		linkService:    linkService,
		pricingService: pricingService,
		unitType:       unit,
		db:             testDB,
	}
}

func TestOwnerCompanyService_CreateOwner(t *testing.T) {
	f := setupOwnerServiceTest(t)

	owner, err := f.ownerService.CreateOwner("Taller Uno", dec("25"))
	require.NoError(t, err)
	assert.NotZero(t, owner.ID)
	assertDecimal(t, "25", owner.ProfitPercentage)
}

func TestOwnerCompanyService_CreateOwner_NegativeProfit(t *testing.T) {
	f := setupOwnerServiceTest(t)

	_, err := f.ownerService.CreateOwner("Taller Uno", dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidProfitPercentage)
}

func TestOwnerCompanyService_GetOwner_NotFound(t *testing.T) {
	f := setupOwnerServiceTest(t)

	_, err := f.ownerService.GetOwner(9999)
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestOwnerCompanyService_UpdateProfit_Cascades(t *testing.T) {
	f := setupOwnerServiceTest(t)

	owner, err := f.ownerService.CreateOwner("Taller Uno", dec("0"))
	require.NoError(t, err)

	material := &model.Material{Name: "Acero", PurchasePrice: dec("100"), MaterialTypeID: f.unitType.ID}
	require.NoError(t, f.db.Create(material).Error)
	accessory := &model.Accessory{Name: "Repisa", OwnerCompanyID: owner.ID}
	require.NoError(t, f.db.Create(accessory).Error)

	link, err := f.linkService.AddMaterialToAccessory(AddMaterialInput{
		AccessoryID:    accessory.ID,
		MaterialID:     material.ID,
		OwnerCompanyID: owner.ID,
		Quantity:       dec("1"),
	})
	require.NoError(t, err)
	assertDecimal(t, "100", link.SalePrice)

	updated, err := f.ownerService.UpdateProfitPercentage(owner.ID, dec("30"))
	require.NoError(t, err)
	assertDecimal(t, "30", updated.ProfitPercentage)

	// Link snapshot and accessory pricing reflect the new markup.
	links, err := f.linkService.GetMaterialsForAccessory(accessory.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assertDecimal(t, "130", links[0].SalePrice)

	pricing, err := f.pricingService.GetAccessoryPricing(accessory.ID)
	require.NoError(t, err)
	assertDecimal(t, "100", pricing.TotalMaterialsPrice)
	assertDecimal(t, "130", pricing.TotalPrice)
}

func TestOwnerCompanyService_UpdateProfit_NegativeRejected(t *testing.T) {
	f := setupOwnerServiceTest(t)

	owner, err := f.ownerService.CreateOwner("Taller Uno", dec("10"))
	require.NoError(t, err)

	_, err = f.ownerService.UpdateProfitPercentage(owner.ID, dec("-5"))
	assert.ErrorIs(t, err, ErrInvalidProfitPercentage)

	stored, err := f.ownerService.GetOwner(owner.ID)
	require.NoError(t, err)
	assertDecimal(t, "10", stored.ProfitPercentage)
}

func TestOwnerCompanyService_UpdateProfit_NotFound(t *testing.T) {
	f := setupOwnerServiceTest(t)

	_, err := f.ownerService.UpdateProfitPercentage(9999, dec("10"))
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}
