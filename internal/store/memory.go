package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"kakeibo/internal/models"
)

// MemoryStore is a Store held in process memory. It enforces the same
// uniqueness and ownership rules as the PostgreSQL store and is used for
// dry runs and tests.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions []models.Transaction
	categories   []models.Category
	now          func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// InsertTransaction implements TransactionStore.
func (s *MemoryStore) InsertTransaction(_ context.Context, tx models.NewTransaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ExternalID != nil {
		for _, existing := range s.transactions {
			if existing.OwnerID == tx.OwnerID && existing.ExternalID != nil && *existing.ExternalID == *tx.ExternalID {
				return models.Transaction{}, ErrDuplicate
			}
		}
	}

	now := s.now().UTC()
	row := models.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     tx.OwnerID,
		Date:        tx.Date,
		Amount:      tx.Amount,
		Description: tx.Description,
		Source:      tx.Source,
		ExternalID:  cloneString(tx.ExternalID),
		CategoryID:  cloneString(tx.CategoryID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.transactions = append(s.transactions, row)
	return row, nil
}

// GetTransaction implements TransactionStore.
func (s *MemoryStore) GetTransaction(_ context.Context, ownerID, id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.transactionIndex(ownerID, id)
	if i < 0 {
		return models.Transaction{}, ErrNotFound
	}
	return s.transactions[i], nil
}

// ListTransactions implements TransactionStore.
func (s *MemoryStore) ListTransactions(_ context.Context, ownerID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.OwnerID != ownerID {
			continue
		}
		if !filter.From.IsZero() && tx.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !tx.Date.Before(filter.To) {
			continue
		}
		if filter.CategoryID != "" && (tx.CategoryID == nil || *tx.CategoryID != filter.CategoryID) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// ListUncategorized implements TransactionStore.
func (s *MemoryStore) ListUncategorized(_ context.Context, ownerID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.OwnerID == ownerID && tx.CategoryID == nil {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// UpdateTransactionCategory implements TransactionStore.
func (s *MemoryStore) UpdateTransactionCategory(_ context.Context, ownerID, id string, categoryID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.transactionIndex(ownerID, id)
	if i < 0 {
		return ErrNotFound
	}
	s.transactions[i].CategoryID = cloneString(categoryID)
	s.transactions[i].UpdatedAt = s.now().UTC()
	return nil
}

// DeleteTransaction implements TransactionStore.
func (s *MemoryStore) DeleteTransaction(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.transactionIndex(ownerID, id)
	if i < 0 {
		return ErrNotFound
	}
	s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
	return nil
}

// ListCategories implements CategoryStore.
func (s *MemoryStore) ListCategories(_ context.Context, ownerID string, typeFilter *models.CategoryType) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Category
	for _, c := range s.categories {
		if c.OwnerID != ownerID {
			continue
		}
		if typeFilter != nil && c.Type != *typeFilter {
			continue
		}
		out = append(out, cloneCategory(c))
	}
	sortByName(out)
	return out, nil
}

// GetCategory implements CategoryStore.
func (s *MemoryStore) GetCategory(_ context.Context, ownerID, id string) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.categoryIndex(ownerID, id)
	if i < 0 {
		return models.Category{}, ErrNotFound
	}
	return cloneCategory(s.categories[i]), nil
}

// CreateCategory implements CategoryStore. Names are unique per owner.
func (s *MemoryStore) CreateCategory(_ context.Context, c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(c.OwnerID, c.Name, "") {
		return models.Category{}, ErrDuplicate
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = s.now().UTC()
	c = cloneCategory(c)
	s.categories = append(s.categories, c)
	return cloneCategory(c), nil
}

// UpdateCategory implements CategoryStore.
func (s *MemoryStore) UpdateCategory(_ context.Context, c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(c.OwnerID, c.ID)
	if i < 0 {
		return models.Category{}, ErrNotFound
	}
	if s.nameTaken(c.OwnerID, c.Name, c.ID) {
		return models.Category{}, ErrDuplicate
	}
	c.CreatedAt = s.categories[i].CreatedAt
	s.categories[i] = cloneCategory(c)
	return cloneCategory(c), nil
}

// DeleteCategory implements CategoryStore.
func (s *MemoryStore) DeleteCategory(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(ownerID, id)
	if i < 0 {
		return ErrNotFound
	}
	s.categories = append(s.categories[:i], s.categories[i+1:]...)

	now := s.now().UTC()
	for j := range s.transactions {
		tx := &s.transactions[j]
		if tx.OwnerID == ownerID && tx.CategoryID != nil && *tx.CategoryID == id {
			tx.CategoryID = nil
			tx.UpdatedAt = now
		}
	}
	return nil
}

func (s *MemoryStore) transactionIndex(ownerID, id string) int {
	for i, tx := range s.transactions {
		if tx.ID == id && tx.OwnerID == ownerID {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) categoryIndex(ownerID, id string) int {
	for i, c := range s.categories {
		if c.ID == id && c.OwnerID == ownerID {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) nameTaken(ownerID, name, exceptID string) bool {
	for _, c := range s.categories {
		if c.OwnerID == ownerID && c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

func sortByName(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
}

func cloneCategory(c models.Category) models.Category {
	if c.Keywords != nil {
		c.Keywords = append([]string(nil), c.Keywords...)
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
