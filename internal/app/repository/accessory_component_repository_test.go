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

func setupComponentRepoTest(t *testing.T) (AccessoryComponentRepository, []*model.Accessory, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	owner := &model.OwnerCompany{Name: "Taller Uno"}
	require.NoError(t, testDB.Create(owner).Error)

	accessories := make([]*model.Accessory, 3)
	for i, name := range []string{"Mueble", "Cajón", "Puerta"} {
		accessories[i] = &model.Accessory{Name: name, OwnerCompanyID: owner.ID}
		require.NoError(t, testDB.Create(accessories[i]).Error)
	}

	return NewAccessoryComponentRepository(testDB), accessories, testDB
}

func TestAccessoryComponentRepository_ReplaceForParent(t *testing.T) {
	repo, accessories, _ := setupComponentRepoTest(t)
	parent, first, second := accessories[0], accessories[1], accessories[2]

	require.NoError(t, repo.ReplaceForParent(parent.ID, []model.AccessoryComponent{
		{ParentAccessoryID: parent.ID, ChildAccessoryID: first.ID, Quantity: decimal.NewFromInt(2)},
		{ParentAccessoryID: parent.ID, ChildAccessoryID: second.ID, Quantity: decimal.NewFromInt(1)},
	}))

	stored, err := repo.FindByParentID(parent.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	// Replace swaps the full set.
	require.NoError(t, repo.ReplaceForParent(parent.ID, []model.AccessoryComponent{
		{ParentAccessoryID: parent.ID, ChildAccessoryID: second.ID, Quantity: decimal.NewFromInt(7)},
	}))

	stored, err = repo.FindByParentID(parent.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, second.ID, stored[0].ChildAccessoryID)
	assert.True(t, stored[0].Quantity.Equal(decimal.NewFromInt(7)))
	// Child is preloaded for reporting.
	assert.Equal(t, "Puerta", stored[0].Child.Name)
}

func TestAccessoryComponentRepository_ReplaceForParent_Empty(t *testing.T) {
	repo, accessories, _ := setupComponentRepoTest(t)
	parent, child := accessories[0], accessories[1]

	require.NoError(t, repo.ReplaceForParent(parent.ID, []model.AccessoryComponent{
		{ParentAccessoryID: parent.ID, ChildAccessoryID: child.ID, Quantity: decimal.NewFromInt(1)},
	}))
	require.NoError(t, repo.ReplaceForParent(parent.ID, nil))

	stored, err := repo.FindByParentID(parent.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 0)
}

func TestAccessoryComponentRepository_FindByChildID(t *testing.T) {
	repo, accessories, _ := setupComponentRepoTest(t)
	first, second, shared := accessories[0], accessories[1], accessories[2]

	require.NoError(t, repo.ReplaceForParent(first.ID, []model.AccessoryComponent{
		{ParentAccessoryID: first.ID, ChildAccessoryID: shared.ID, Quantity: decimal.NewFromInt(1)},
	}))
	require.NoError(t, repo.ReplaceForParent(second.ID, []model.AccessoryComponent{
		{ParentAccessoryID: second.ID, ChildAccessoryID: shared.ID, Quantity: decimal.NewFromInt(2)},
	}))

	edges, err := repo.FindByChildID(shared.ID)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	// Parent is preloaded so the upward cascade can read its owner.
	parents := map[string]bool{}
	for _, edge := range edges {
		parents[edge.Parent.Name] = true
	}
	assert.True(t, parents["Mueble"])
	assert.True(t, parents["Cajón"])
}
