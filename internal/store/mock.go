package store

import (
	"context"

	"kakeibo/internal/models"
)

// MockStore is a MemoryStore with injectable failures for testing.
type MockStore struct {
	*MemoryStore

	// Error flags for testing error conditions
	ListCategoriesError    error
	ListUncategorizedError error
	UpdateCategoryError    error
	// InsertError, when set, is consulted before every insert. Returning nil
	// lets the insert through to the memory store.
	InsertError func(tx models.NewTransaction) error
}

// NewMockStore creates a MockStore with an empty backing store.
func NewMockStore() *MockStore {
	return &MockStore{MemoryStore: NewMemoryStore()}
}

// InsertTransaction fails when InsertError says so.
func (m *MockStore) InsertTransaction(ctx context.Context, tx models.NewTransaction) (models.Transaction, error) {
	if m.InsertError != nil {
		if err := m.InsertError(tx); err != nil {
			return models.Transaction{}, err
		}
	}
	return m.MemoryStore.InsertTransaction(ctx, tx)
}

// ListCategories returns ListCategoriesError when set.
func (m *MockStore) ListCategories(ctx context.Context, ownerID string, typeFilter *models.CategoryType) ([]models.Category, error) {
	if m.ListCategoriesError != nil {
		return nil, m.ListCategoriesError
	}
	return m.MemoryStore.ListCategories(ctx, ownerID, typeFilter)
}

// ListUncategorized returns ListUncategorizedError when set.
func (m *MockStore) ListUncategorized(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	if m.ListUncategorizedError != nil {
		return nil, m.ListUncategorizedError
	}
	return m.MemoryStore.ListUncategorized(ctx, ownerID)
}

// UpdateTransactionCategory returns UpdateCategoryError when set.
func (m *MockStore) UpdateTransactionCategory(ctx context.Context, ownerID, id string, categoryID *string) error {
	if m.UpdateCategoryError != nil {
		return m.UpdateCategoryError
	}
	return m.MemoryStore.UpdateTransactionCategory(ctx, ownerID, id, categoryID)
}
