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

func setupPricingRepoTest(t *testing.T) (AccessoryPricingRepository, *model.Accessory, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	owner := &model.OwnerCompany{Name: "Taller Uno"}
	require.NoError(t, testDB.Create(owner).Error)
	accessory := &model.Accessory{Name: "Repisa", OwnerCompanyID: owner.ID}
	require.NoError(t, testDB.Create(accessory).Error)

	return NewAccessoryPricingRepository(testDB), accessory, testDB
}

func TestAccessoryPricingRepository_Upsert(t *testing.T) {
	repo, accessory, testDB := setupPricingRepoTest(t)

	first := &model.AccessoryPricing{
		AccessoryID:         accessory.ID,
		OwnerCompanyID:      accessory.OwnerCompanyID,
		TotalMaterialsPrice: decimal.NewFromInt(100),
		MarkupPercentage:    decimal.NewFromInt(10),
		TotalPrice:          decimal.NewFromInt(110),
	}
	require.NoError(t, repo.Upsert(first))

	// Second upsert for the same accessory overwrites, never duplicates.
	second := &model.AccessoryPricing{
		AccessoryID:         accessory.ID,
		OwnerCompanyID:      accessory.OwnerCompanyID,
		TotalMaterialsPrice: decimal.NewFromInt(200),
		MarkupPercentage:    decimal.NewFromInt(20),
		TotalPrice:          decimal.NewFromInt(240),
	}
	require.NoError(t, repo.Upsert(second))

	var count int64
	testDB.Model(&model.AccessoryPricing{}).Where("accessory_id = ?", accessory.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	stored, err := repo.FindByAccessoryID(accessory.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalMaterialsPrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, stored.TotalPrice.Equal(decimal.NewFromInt(240)))
	assert.True(t, stored.MarkupPercentage.Equal(decimal.NewFromInt(20)))
}

func TestAccessoryPricingRepository_FindByAccessoryID_NotFound(t *testing.T) {
	repo, _, _ := setupPricingRepoTest(t)

	_, err := repo.FindByAccessoryID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAccessoryPricingRepository_DeleteByAccessoryID(t *testing.T) {
	repo, accessory, _ := setupPricingRepoTest(t)

	require.NoError(t, repo.Upsert(&model.AccessoryPricing{
		AccessoryID:    accessory.ID,
		OwnerCompanyID: accessory.OwnerCompanyID,
	}))
	require.NoError(t, repo.DeleteByAccessoryID(accessory.ID))

	_, err := repo.FindByAccessoryID(accessory.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
