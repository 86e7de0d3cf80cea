package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakeibo/internal/logging"
	"kakeibo/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.yaml")
	writeFile(t, testFile, "test content")

	file, err := FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestYAMLCategoryStore_Document(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `categories:
  - id: food
    name: 食費
    type: expense
    keywords: ["セブン", " ", "ローソン "]
  - name: 給与
    type: income
  - name: 雑費
`)

	s := NewYAMLCategoryStore(file, logging.NewMockLogger())
	ctx := context.Background()

	all, err := s.ListCategories(ctx, "u1", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	byName := map[string]models.Category{}
	for _, c := range all {
		byName[c.Name] = c
		assert.Equal(t, "u1", c.OwnerID)
	}
	assert.Equal(t, "food", byName["食費"].ID)
	assert.Equal(t, []string{"セブン", "ローソン"}, byName["食費"].Keywords)
	assert.Equal(t, "給与", byName["給与"].ID)
	assert.Nil(t, byName["給与"].Keywords)
	assert.Equal(t, models.CategoryExpense, byName["雑費"].Type)
	assert.Equal(t, models.DefaultCategoryColor, byName["雑費"].Color)
	assert.Equal(t, models.DefaultCategoryIcon, byName["雑費"].Icon)

	income := models.CategoryIncome
	incomes, err := s.ListCategories(ctx, "u1", &income)
	require.NoError(t, err)
	require.Len(t, incomes, 1)

	got, err := s.GetCategory(ctx, "u2", "food")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.OwnerID)
	_, err = s.GetCategory(ctx, "u2", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestYAMLCategoryStore_Fallbacks(t *testing.T) {
	dir := t.TempDir()

	list := filepath.Join(dir, "list.yaml")
	writeFile(t, list, `- name: 交通
  keywords: [JR]
`)
	cats, err := NewYAMLCategoryStore(list, logging.NewMockLogger()).LoadCategories()
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, []string{"JR"}, cats[0].Keywords)

	byName := filepath.Join(dir, "map.yaml")
	writeFile(t, byName, `食費: [セブン]
交通: [JR, 東急]
`)
	cats, err = NewYAMLCategoryStore(byName, logging.NewMockLogger()).LoadCategories()
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "交通", cats[0].Name)
	assert.Equal(t, []string{"JR", "東急"}, cats[0].Keywords)
}

func TestYAMLCategoryStore_MissingFile(t *testing.T) {
	logger := logging.NewMockLogger()
	s := NewYAMLCategoryStore(filepath.Join(t.TempDir(), "nope.yaml"), logger)

	cats, err := s.ListCategories(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Empty(t, cats)
	assert.True(t, logger.HasEntry("WARN", "Categories file not found"))
}

func TestYAMLCategoryStore_InvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, file, "categories: [unterminated")

	_, err := NewYAMLCategoryStore(file, logging.NewMockLogger()).LoadCategories()
	assert.Error(t, err)
}

func TestYAMLCategoryStore_ReadOnly(t *testing.T) {
	s := NewYAMLCategoryStore("", logging.NewMockLogger())
	ctx := context.Background()

	_, err := s.CreateCategory(ctx, models.Category{Name: "x"})
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = s.UpdateCategory(ctx, models.Category{Name: "x"})
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, s.DeleteCategory(ctx, "u1", "x"), ErrReadOnly)
}
