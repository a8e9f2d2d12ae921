package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/internal/db"
	"gorm.io/gorm"
)

type linkRepoFixture struct {
	repo      AccessoryMaterialRepository
	owner     *model.OwnerCompany
	material  *model.Material
	accessory *model.Accessory
	db        *gorm.DB
}

func setupLinkRepoTest(t *testing.T) *linkRepoFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	owner := &model.OwnerCompany{Name: "Taller Uno"}
	require.NoError(t, testDB.Create(owner).Error)
	materialType := &model.MaterialType{Name: model.MaterialTypeUnitName}
	require.NoError(t, testDB.Create(materialType).Error)
	material := &model.Material{Name: "Acero", PurchasePrice: decimal.NewFromInt(10), MaterialTypeID: materialType.ID}
	require.NoError(t, testDB.Create(material).Error)
	accessory := &model.Accessory{Name: "Repisa", OwnerCompanyID: owner.ID}
	require.NoError(t, testDB.Create(accessory).Error)

	return &linkRepoFixture{
		repo:      NewAccessoryMaterialRepository(testDB),
		owner:     owner,
		material:  material,
		accessory: accessory,
		db:        testDB,
	}
}

func TestAccessoryMaterialRepository_FindByAccessoryID_PreloadsMaterial(t *testing.T) {
	f := setupLinkRepoTest(t)

	require.NoError(t, f.repo.Create(&model.AccessoryMaterial{
		AccessoryID:    f.accessory.ID,
		MaterialID:     f.material.ID,
		OwnerCompanyID: f.owner.ID,
		Quantity:       decimal.NewFromInt(2),
	}))

	links, err := f.repo.FindByAccessoryID(f.accessory.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Acero", links[0].Material.Name)
	assert.Equal(t, model.MaterialTypeUnitName, links[0].Material.MaterialType.Name)
}

func TestAccessoryMaterialRepository_Save_DoesNotTouchMaterial(t *testing.T) {
	f := setupLinkRepoTest(t)

	require.NoError(t, f.repo.Create(&model.AccessoryMaterial{
		AccessoryID:    f.accessory.ID,
		MaterialID:     f.material.ID,
		OwnerCompanyID: f.owner.ID,
		Quantity:       decimal.NewFromInt(1),
	}))

	links, err := f.repo.FindByMaterialID(f.material.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)

	// Mutate the preloaded association and the snapshot, then save: only the
	// link row may change.
	link := &links[0]
	link.Material.PurchasePrice = decimal.NewFromInt(999)
	link.ProportionalCost = decimal.NewFromInt(30)
	require.NoError(t, f.repo.Save(link))

	var material model.Material
	require.NoError(t, f.db.First(&material, f.material.ID).Error)
	assert.True(t, material.PurchasePrice.Equal(decimal.NewFromInt(10)))

	stored, err := f.repo.FindByID(link.ID)
	require.NoError(t, err)
	assert.True(t, stored.ProportionalCost.Equal(decimal.NewFromInt(30)))
}

func TestAccessoryMaterialRepository_DistinctAccessoryOwnerPairs(t *testing.T) {
	f := setupLinkRepoTest(t)

	second := &model.Accessory{Name: "Mueble", OwnerCompanyID: f.owner.ID}
	require.NoError(t, f.db.Create(second).Error)

	// Two links of the same material on the first accessory: one pair.
	for i := 0; i < 2; i++ {
		require.NoError(t, f.repo.Create(&model.AccessoryMaterial{
			AccessoryID:    f.accessory.ID,
			MaterialID:     f.material.ID,
			OwnerCompanyID: f.owner.ID,
			Quantity:       decimal.NewFromInt(1),
		}))
	}
	require.NoError(t, f.repo.Create(&model.AccessoryMaterial{
		AccessoryID:    second.ID,
		MaterialID:     f.material.ID,
		OwnerCompanyID: f.owner.ID,
		Quantity:       decimal.NewFromInt(1),
	}))

	pairs, err := f.repo.DistinctAccessoryOwnerPairs(f.material.ID)
	require.NoError(t, err)
	assert.Len(t, pairs, 2)

	seen := map[uint]bool{}
	for _, pair := range pairs {
		seen[pair.AccessoryID] = true
		assert.Equal(t, f.owner.ID, pair.OwnerCompanyID)
	}
	assert.True(t, seen[f.accessory.ID])
	assert.True(t, seen[second.ID])
}

func TestAccessoryMaterialRepository_UsageRoundTrip(t *testing.T) {
	f := setupLinkRepoTest(t)

	require.NoError(t, f.repo.Create(&model.AccessoryMaterial{
		AccessoryID:    f.accessory.ID,
		MaterialID:     f.material.ID,
		OwnerCompanyID: f.owner.ID,
		Quantity:       decimal.NewFromInt(1),
		Usage:          &model.MaterialUsage{Width: decimal.RequireFromString("1.5"), Length: decimal.NewFromInt(2)},
	}))

	links, err := f.repo.FindByAccessoryID(f.accessory.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.NotNil(t, links[0].Usage)
	assert.True(t, links[0].Usage.Area().Equal(decimal.NewFromInt(3)))
}

func TestAccessoryMaterialRepository_Delete(t *testing.T) {
	f := setupLinkRepoTest(t)

	link := &model.AccessoryMaterial{
		AccessoryID:    f.accessory.ID,
		MaterialID:     f.material.ID,
		OwnerCompanyID: f.owner.ID,
		Quantity:       decimal.NewFromInt(1),
	}
	require.NoError(t, f.repo.Create(link))
	require.NoError(t, f.repo.Delete(link.ID))

	_, err := f.repo.FindByID(link.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
