// Package store defines the persistence collaborators of the import pipeline
// and provides in-memory and YAML-backed implementations. The PostgreSQL
// implementation lives in store/postgres.
package store

import (
	"context"
	"errors"

	"kakeibo/internal/models"
)

var (
	// ErrDuplicate is returned when a row violates a uniqueness constraint,
	// most importantly (owner, external id) on transactions.
	ErrDuplicate = errors.New("duplicate record")

	// ErrNotFound is returned when a row does not exist or is owned by
	// someone else.
	ErrNotFound = errors.New("record not found")

	// ErrReadOnly is returned by stores that cannot be written to.
	ErrReadOnly = errors.New("store is read-only")
)

// TransactionStore persists transactions. Every method is scoped to an owner.
type TransactionStore interface {
	// InsertTransaction returns ErrDuplicate when the owner already has a
	// transaction with the same external id.
	InsertTransaction(ctx context.Context, tx models.NewTransaction) (models.Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id string) (models.Transaction, error)
	// ListTransactions orders by date, newest first.
	ListTransactions(ctx context.Context, ownerID string, filter models.TransactionFilter) ([]models.Transaction, error)
	// ListUncategorized returns transactions without a category, oldest first.
	ListUncategorized(ctx context.Context, ownerID string) ([]models.Transaction, error)
	// UpdateTransactionCategory sets or, with nil, clears the category.
	UpdateTransactionCategory(ctx context.Context, ownerID, id string, categoryID *string) error
	DeleteTransaction(ctx context.Context, ownerID, id string) error
}

// CategoryStore persists categories. Every method is scoped to an owner.
type CategoryStore interface {
	// ListCategories orders by name. A nil typeFilter returns every type.
	ListCategories(ctx context.Context, ownerID string, typeFilter *models.CategoryType) ([]models.Category, error)
	GetCategory(ctx context.Context, ownerID, id string) (models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) (models.Category, error)
	// DeleteCategory also clears the category from the owner's transactions.
	DeleteCategory(ctx context.Context, ownerID, id string) error
}

// Store is the full persistence collaborator.
type Store interface {
	TransactionStore
	CategoryStore
}

type composite struct {
	TransactionStore
	CategoryStore
}

// Compose combines separate transaction and category stores, for example
// an in-memory ledger with categories read from a YAML file.
func Compose(transactions TransactionStore, categories CategoryStore) Store {
	return composite{TransactionStore: transactions, CategoryStore: categories}
}
