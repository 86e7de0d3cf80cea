// Package ledger manages a user's categories and lists or removes their
// transactions.
package ledger

import (
	"context"
	"errors"
	"strings"

	"kakeibo/internal/dateutils"
	"kakeibo/internal/logging"
	"kakeibo/internal/models"
	"kakeibo/internal/parsererror"
	"kakeibo/internal/store"
)

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name     string              `json:"name"`
	Color    string              `json:"color"`
	Icon     string              `json:"icon"`
	Type     models.CategoryType `json:"type"`
	Keywords []string            `json:"keywords"`
}

// CategoryPatch updates selected fields. Nil and empty strings leave a
// field unchanged. A non-nil Keywords replaces the list; an empty list
// clears it.
type CategoryPatch struct {
	Name     *string   `json:"name"`
	Color    *string   `json:"color"`
	Icon     *string   `json:"icon"`
	Keywords *[]string `json:"keywords"`
}

var errDuplicateName = &parsererror.ValidationError{Field: "name", Reason: "a category with this name already exists"}

// Service implements category and transaction management for one store.
type Service struct {
	store  store.Store
	logger logging.Logger
}

// New creates a Service.
func New(st store.Store, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Service{store: st, logger: logger}
}

// ListCategories returns the owner's categories ordered by name. typeName
// narrows the list when it is "income" or "expense" and is ignored otherwise.
func (s *Service) ListCategories(ctx context.Context, ownerID, typeName string) ([]models.Category, error) {
	var filter *models.CategoryType
	if t := models.CategoryType(typeName); t.Valid() {
		filter = &t
	}
	return s.store.ListCategories(ctx, ownerID, filter)
}

// CreateCategory validates in and stores it for ownerID.
func (s *Service) CreateCategory(ctx context.Context, ownerID string, in CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Type == "" {
		return models.Category{}, &parsererror.ValidationError{Field: "name,type", Reason: "name and type are required"}
	}
	if !in.Type.Valid() {
		return models.Category{}, &parsererror.ValidationError{Field: "type", Reason: "must be income or expense"}
	}
	taken, err := s.nameTaken(ctx, ownerID, name, "")
	if err != nil {
		return models.Category{}, err
	}
	if taken {
		return models.Category{}, errDuplicateName
	}

	c := models.Category{
		OwnerID:  ownerID,
		Name:     name,
		Color:    orDefault(in.Color, models.DefaultCategoryColor),
		Icon:     orDefault(in.Icon, models.DefaultCategoryIcon),
		Type:     in.Type,
		Keywords: models.NormalizeKeywords(in.Keywords),
	}
	created, err := s.store.CreateCategory(ctx, c)
	if errors.Is(err, store.ErrDuplicate) {
		return models.Category{}, errDuplicateName
	}
	if err != nil {
		return models.Category{}, err
	}

	s.logger.Info("Created category",
		logging.F(logging.FieldOwner, ownerID),
		logging.F(logging.FieldCategory, created.Name))
	return created, nil
}

// UpdateCategory applies patch to the owner's category id.
func (s *Service) UpdateCategory(ctx context.Context, ownerID, id string, patch CategoryPatch) (models.Category, error) {
	if id == "" {
		return models.Category{}, &parsererror.ValidationError{Field: "id", Reason: "category id is required"}
	}
	c, err := s.store.GetCategory(ctx, ownerID, id)
	if err != nil {
		return models.Category{}, err
	}

	if name := trimmed(patch.Name); name != "" && name != c.Name {
		taken, err := s.nameTaken(ctx, ownerID, name, id)
		if err != nil {
			return models.Category{}, err
		}
		if taken {
			return models.Category{}, errDuplicateName
		}
		c.Name = name
	}
	if color := trimmed(patch.Color); color != "" {
		c.Color = color
	}
	if icon := trimmed(patch.Icon); icon != "" {
		c.Icon = icon
	}
	if patch.Keywords != nil {
		c.Keywords = models.NormalizeKeywords(*patch.Keywords)
	}

	updated, err := s.store.UpdateCategory(ctx, c)
	if errors.Is(err, store.ErrDuplicate) {
		return models.Category{}, errDuplicateName
	}
	return updated, err
}

// DeleteCategory removes a category. Its transactions become uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteCategory(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("Deleted category",
		logging.F(logging.FieldOwner, ownerID),
		logging.F(logging.FieldCategory, id))
	return nil
}

// ListTransactions returns the owner's transactions, newest first. month is
// "YYYY-MM" or empty for all months; categoryID is optional.
func (s *Service) ListTransactions(ctx context.Context, ownerID, month, categoryID string) ([]models.Transaction, error) {
	filter := models.TransactionFilter{CategoryID: categoryID}
	if month != "" {
		from, to, err := dateutils.MonthRange(month)
		if err != nil {
			return nil, &parsererror.ValidationError{Field: "month", Reason: err.Error()}
		}
		filter.From, filter.To = from, to
	}
	return s.store.ListTransactions(ctx, ownerID, filter)
}

// DeleteTransaction removes one of the owner's transactions.
func (s *Service) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteTransaction(ctx, ownerID, id)
}

func (s *Service) nameTaken(ctx context.Context, ownerID, name, exceptID string) (bool, error) {
	existing, err := s.store.ListCategories(ctx, ownerID, nil)
	if err != nil {
		return false, err
	}
	for _, c := range existing {
		if c.Name == name && c.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
