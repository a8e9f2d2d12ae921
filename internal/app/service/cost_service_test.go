package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/internal/db"
	"gorm.io/gorm"
)

// assertDecimal compares decimals by value, not representation.
func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual),
		"expected %s, got %s", expected, actual.String())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupCostServiceTest(t *testing.T) (CostService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	materialTypeRepo := repository.NewMaterialTypeRepository(testDB)
	ownerRepo := repository.NewOwnerCompanyRepository(testDB)
	costService := NewCostService(materialTypeRepo, ownerRepo)

	return costService, testDB
}

func createMaterialTypes(t *testing.T, testDB *gorm.DB) (area, unit *model.MaterialType) {
	t.Helper()
	area = &model.MaterialType{Name: model.MaterialTypeAreaName}
	unit = &model.MaterialType{Name: model.MaterialTypeUnitName}
	require.NoError(t, testDB.Create(area).Error)
	require.NoError(t, testDB.Create(unit).Error)
	return area, unit
}

func TestCostService_UnitMaterial(t *testing.T) {
	costService, testDB := setupCostServiceTest(t)
	_, unit := createMaterialTypes(t, testDB)

	owner := &model.OwnerCompany{Name: "Taller Uno", ProfitPercentage: dec("25")}
	require.NoError(t, testDB.Create(owner).Error)

	material := &model.Material{
		Name:           "Tornillo",
		PurchasePrice:  dec("10"),
		MaterialTypeID: unit.ID,
		MaterialType:   *unit,
	}

	cost, err := costService.CalculateMaterialCost(material, dec("4"), nil, owner.ID)
	require.NoError(t, err)

	assertDecimal(t, "40", cost.ProportionalCost)
	assertDecimal(t, "50", cost.SalePrice)
	assertDecimal(t, "25", cost.ProfitPercentage)
}

func TestCostService_AreaMaterial(t *testing.T) {
	costService, testDB := setupCostServiceTest(t)
	area, _ := createMaterialTypes(t, testDB)

	owner := &model.OwnerCompany{Name: "Taller Uno", ProfitPercentage: dec("10")}
	require.NoError(t, testDB.Create(owner).Error)

	material := &model.Material{
		Name:           "Lámina MDF",
		PurchasePrice:  dec("100"),
		MaterialTypeID: area.ID,
		MaterialType:   *area,
	}
	usage := &model.MaterialUsage{Width: dec("0.5"), Length: dec("2")}

	// Quantity is ignored for area-based materials.
	cost, err := costService.CalculateMaterialCost(material, dec("99"), usage, owner.ID)
	require.NoError(t, err)

	assertDecimal(t, "100", cost.ProportionalCost)
	assertDecimal(t, "110", cost.SalePrice)
}

func TestCostService_AreaMaterial_MissingDimensions(t *testing.T) {
	costService, testDB := setupCostServiceTest(t)
	area, _ := createMaterialTypes(t, testDB)

	owner := &model.OwnerCompany{Name: "Taller Uno", ProfitPercentage: dec("10")}
	require.NoError(t, testDB.Create(owner).Error)

	material := &model.Material{
		Name:           "Lámina MDF",
		PurchasePrice:  dec("100"),
		MaterialTypeID: area.ID,
		MaterialType:   *area,
	}

	// No usage at all: zero area, zero cost.
	cost, err := costService.CalculateMaterialCost(material, dec("1"), nil, owner.ID)
	require.NoError(t, err)
	assertDecimal(t, "0", cost.ProportionalCost)
	assertDecimal(t, "0", cost.SalePrice)

	// Only one dimension: still zero.
	cost, err = costService.CalculateMaterialCost(material, dec("1"), &model.MaterialUsage{Width: dec("2")}, owner.ID)
	require.NoError(t, err)
	assertDecimal(t, "0", cost.ProportionalCost)
}

func TestCostService_MissingOwner_ZeroMarkup(t *testing.T) {
	costService, testDB := setupCostServiceTest(t)
	_, unit := createMaterialTypes(t, testDB)

	material := &model.Material{
		Name:           "Tornillo",
		PurchasePrice:  dec("10"),
		MaterialTypeID: unit.ID,
		MaterialType:   *unit,
	}

	cost, err := costService.CalculateMaterialCost(material, dec("3"), nil, 9999)
	require.NoError(t, err)

	assertDecimal(t, "30", cost.ProportionalCost)
	assertDecimal(t, "30", cost.SalePrice)
	assertDecimal(t, "0", cost.ProfitPercentage)
}

func TestCostService_MaterialTypeResolvedFromRepo(t *testing.T) {
	costService, testDB := setupCostServiceTest(t)
	area, _ := createMaterialTypes(t, testDB)

	// No preloaded type: the service must look it up by ID.
	material := &model.Material{
		Name:           "Vidrio",
		PurchasePrice:  dec("200"),
		MaterialTypeID: area.ID,
	}
	usage := &model.MaterialUsage{Width: dec("1"), Length: dec("1")}

	cost, err := costService.CalculateMaterialCost(material, dec("0"), usage, 0)
	require.NoError(t, err)
	assertDecimal(t, "200", cost.ProportionalCost)
}

func TestCostService_MaterialTypeNotFound(t *testing.T) {
	costService, _ := setupCostServiceTest(t)

	material := &model.Material{
		Name:           "Huérfano",
		PurchasePrice:  dec("10"),
		MaterialTypeID: 9999,
	}

	_, err := costService.CalculateMaterialCost(material, dec("1"), nil, 0)
	assert.ErrorIs(t, err, ErrMaterialTypeNotFound)
}
