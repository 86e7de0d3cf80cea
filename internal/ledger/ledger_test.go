package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakeibo/internal/logging"
	"kakeibo/internal/models"
	"kakeibo/internal/parsererror"
	"kakeibo/internal/store"
)

func newLedger() (*Service, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return New(st, logging.NewMockLogger()), st
}

func TestCreateCategory_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CategoryInput
		field string
	}{
		{"missing name", CategoryInput{Type: models.CategoryExpense}, "name,type"},
		{"blank name", CategoryInput{Name: "  ", Type: models.CategoryExpense}, "name,type"},
		{"missing type", CategoryInput{Name: "食費"}, "name,type"},
		{"bad type", CategoryInput{Name: "食費", Type: "transfer"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newLedger()
			_, err := svc.CreateCategory(context.Background(), "u1", tt.input)
			var invalid *parsererror.ValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestCreateCategory_DefaultsAndKeywords(t *testing.T) {
	svc, _ := newLedger()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, "u1", CategoryInput{Name: " 食費 ", Type: models.CategoryExpense, Keywords: []string{"", " "}})
	require.NoError(t, err)
	assert.Equal(t, "食費", c.Name)
	assert.Equal(t, models.DefaultCategoryColor, c.Color)
	assert.Equal(t, models.DefaultCategoryIcon, c.Icon)
	assert.Nil(t, c.Keywords)

	_, err = svc.CreateCategory(ctx, "u1", CategoryInput{Name: "食費", Type: models.CategoryIncome})
	var invalid *parsererror.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "name", invalid.Field)

	// Names are unique per owner only.
	_, err = svc.CreateCategory(ctx, "u2", CategoryInput{Name: "食費", Type: models.CategoryExpense})
	assert.NoError(t, err)
}

func TestListCategories_TypeFilter(t *testing.T) {
	svc, _ := newLedger()
	ctx := context.Background()
	_, err := svc.CreateCategory(ctx, "u1", CategoryInput{Name: "給与", Type: models.CategoryIncome})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "u1", CategoryInput{Name: "交通", Type: models.CategoryExpense})
	require.NoError(t, err)

	all, err := svc.ListCategories(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	income, err := svc.ListCategories(ctx, "u1", "income")
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "給与", income[0].Name)

	ignored, err := svc.ListCategories(ctx, "u1", "bogus")
	require.NoError(t, err)
	assert.Len(t, ignored, 2)
}

func TestUpdateCategory(t *testing.T) {
	svc, _ := newLedger()
	ctx := context.Background()
	food, err := svc.CreateCategory(ctx, "u1", CategoryInput{Name: "食費", Type: models.CategoryExpense, Keywords: []string{"セブン"}})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "u1", CategoryInput{Name: "交通", Type: models.CategoryExpense})
	require.NoError(t, err)

	name := "外食"
	empty := ""
	keywords := []string{"マクドナルド", " "}
	updated, err := svc.UpdateCategory(ctx, "u1", food.ID, CategoryPatch{Name: &name, Color: &empty, Keywords: &keywords})
	require.NoError(t, err)
	assert.Equal(t, "外食", updated.Name)
	assert.Equal(t, models.DefaultCategoryColor, updated.Color)
	assert.Equal(t, []string{"マクドナルド"}, updated.Keywords)

	cleared := []string{}
	updated, err = svc.UpdateCategory(ctx, "u1", food.ID, CategoryPatch{Keywords: &cleared})
	require.NoError(t, err)
	assert.Nil(t, updated.Keywords)

	taken := "交通"
	_, err = svc.UpdateCategory(ctx, "u1", food.ID, CategoryPatch{Name: &taken})
	var invalid *parsererror.ValidationError
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.UpdateCategory(ctx, "u2", food.ID, CategoryPatch{Name: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListTransactions_MonthAndCategory(t *testing.T) {
	svc, st := newLedger()
	ctx := context.Background()
	cat, err := svc.CreateCategory(ctx, "u1", CategoryInput{Name: "食費", Type: models.CategoryExpense})
	require.NoError(t, err)

	insert := func(day string, categoryID *string) {
		d, _ := time.Parse(models.DateLayoutISO, day)
		ext := day
		_, err := st.InsertTransaction(ctx, models.NewTransaction{
			OwnerID: "u1", Date: d, Amount: decimal.NewFromInt(-1),
			Description: day, Source: models.SourceManual, ExternalID: &ext, CategoryID: categoryID,
		})
		require.NoError(t, err)
	}
	insert("2024-01-31", &cat.ID)
	insert("2024-02-01", nil)
	insert("2024-02-29", &cat.ID)
	insert("2024-03-01", nil)

	feb, err := svc.ListTransactions(ctx, "u1", "2024-02", "")
	require.NoError(t, err)
	require.Len(t, feb, 2)
	assert.Equal(t, "2024-02-29", feb[0].ISODate())

	febFood, err := svc.ListTransactions(ctx, "u1", "2024-02", cat.ID)
	require.NoError(t, err)
	assert.Len(t, febFood, 1)

	all, err := svc.ListTransactions(ctx, "u1", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = svc.ListTransactions(ctx, "u1", "2024-13", "")
	var invalid *parsererror.ValidationError
	assert.ErrorAs(t, err, &invalid)
}

func TestDeleteCategoryAndTransaction(t *testing.T) {
	svc, st := newLedger()
	ctx := context.Background()
	cat, err := svc.CreateCategory(ctx, "u1", CategoryInput{Name: "食費", Type: models.CategoryExpense})
	require.NoError(t, err)

	ext := "x"
	tx, err := st.InsertTransaction(ctx, models.NewTransaction{
		OwnerID: "u1", Amount: decimal.NewFromInt(-1), Source: models.SourceManual,
		ExternalID: &ext, CategoryID: &cat.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, "u1", cat.ID))
	pending, err := st.ListUncategorized(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	assert.ErrorIs(t, svc.DeleteTransaction(ctx, "u2", tx.ID), store.ErrNotFound)
	require.NoError(t, svc.DeleteTransaction(ctx, "u1", tx.ID))
}
