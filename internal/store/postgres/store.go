// Package postgres implements store.Store on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"kakeibo/internal/models"
	"kakeibo/internal/store"
)

// uniqueViolation is the SQLSTATE of a unique constraint violation.
const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var transactionColumns = []string{
	"id", "user_id", "date", "amount::text", "description", "source",
	"external_id", "category_id", "created_at", "updated_at",
}

var categoryColumns = []string{
	"id", "user_id", "name", "color", "icon", "type", "keywords", "created_at",
}

// Store persists transactions and categories in PostgreSQL.
type Store struct {
	db DB
}

// New creates a Store over db.
func New(db DB) *Store {
	return &Store{db: db}
}

// mapError translates driver errors into store sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		tx     models.Transaction
		amount string
		source string
	)
	if err := row.Scan(&tx.ID, &tx.OwnerID, &tx.Date, &amount, &tx.Description, &source,
		&tx.ExternalID, &tx.CategoryID, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return models.Transaction{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	tx.Amount = d
	tx.Source = models.Source(source)
	return tx, nil
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var (
		c       models.Category
		catType string
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Color, &c.Icon, &catType,
		&c.Keywords, &c.CreatedAt); err != nil {
		return models.Category{}, err
	}
	c.Type = models.CategoryType(catType)
	c.Keywords = models.NormalizeKeywords(c.Keywords)
	return c, nil
}

func (s *Store) queryTransactions(ctx context.Context, q squirrel.SelectBuilder) ([]models.Transaction, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// InsertTransaction implements store.TransactionStore.
func (s *Store) InsertTransaction(ctx context.Context, tx models.NewTransaction) (models.Transaction, error) {
	sql, args, err := psql.Insert("transactions").
		Columns("user_id", "date", "amount", "description", "source", "external_id", "category_id").
		Values(tx.OwnerID, tx.Date, tx.Amount.String(), tx.Description, string(tx.Source), tx.ExternalID, tx.CategoryID).
		Suffix("RETURNING " + strings.Join(transactionColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Transaction{}, err
	}
	row, err := scanTransaction(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return models.Transaction{}, mapError(err)
	}
	return row, nil
}

// GetTransaction implements store.TransactionStore.
func (s *Store) GetTransaction(ctx context.Context, ownerID, id string) (models.Transaction, error) {
	sql, args, err := psql.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return models.Transaction{}, err
	}
	tx, err := scanTransaction(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return models.Transaction{}, mapError(err)
	}
	return tx, nil
}

// ListTransactions implements store.TransactionStore.
func (s *Store) ListTransactions(ctx context.Context, ownerID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	q := psql.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": ownerID})
	if !filter.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"date": filter.From})
	}
	if !filter.To.IsZero() {
		q = q.Where(squirrel.Lt{"date": filter.To})
	}
	if filter.CategoryID != "" {
		q = q.Where(squirrel.Eq{"category_id": filter.CategoryID})
	}
	return s.queryTransactions(ctx, q.OrderBy("date DESC", "created_at DESC"))
}

// ListUncategorized implements store.TransactionStore.
func (s *Store) ListUncategorized(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	q := psql.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": ownerID, "category_id": nil}).
		OrderBy("date ASC", "created_at ASC")
	return s.queryTransactions(ctx, q)
}

// UpdateTransactionCategory implements store.TransactionStore.
func (s *Store) UpdateTransactionCategory(ctx context.Context, ownerID, id string, categoryID *string) error {
	sql, args, err := psql.Update("transactions").
		Set("category_id", categoryID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, sql, args...)
}

// DeleteTransaction implements store.TransactionStore.
func (s *Store) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	sql, args, err := psql.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, sql, args...)
}

// ListCategories implements store.CategoryStore.
func (s *Store) ListCategories(ctx context.Context, ownerID string, typeFilter *models.CategoryType) ([]models.Category, error) {
	q := psql.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"user_id": ownerID})
	if typeFilter != nil {
		q = q.Where(squirrel.Eq{"type": string(*typeFilter)})
	}
	sql, args, err := q.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategory implements store.CategoryStore.
func (s *Store) GetCategory(ctx context.Context, ownerID, id string) (models.Category, error) {
	sql, args, err := psql.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return models.Category{}, err
	}
	c, err := scanCategory(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return c, nil
}

// CreateCategory implements store.CategoryStore.
func (s *Store) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	sql, args, err := psql.Insert("categories").
		Columns("user_id", "name", "color", "icon", "type", "keywords").
		Values(c.OwnerID, c.Name, c.Color, c.Icon, string(c.Type), keywordsArg(c.Keywords)).
		Suffix("RETURNING " + strings.Join(categoryColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Category{}, err
	}
	created, err := scanCategory(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return created, nil
}

// UpdateCategory implements store.CategoryStore.
func (s *Store) UpdateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	sql, args, err := psql.Update("categories").
		Set("name", c.Name).
		Set("color", c.Color).
		Set("icon", c.Icon).
		Set("type", string(c.Type)).
		Set("keywords", keywordsArg(c.Keywords)).
		Where(squirrel.Eq{"id": c.ID, "user_id": c.OwnerID}).
		Suffix("RETURNING " + strings.Join(categoryColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Category{}, err
	}
	updated, err := scanCategory(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return updated, nil
}

// DeleteCategory implements store.CategoryStore. The foreign key clears
// the category from transactions.
func (s *Store) DeleteCategory(ctx context.Context, ownerID, id string) error {
	sql, args, err := psql.Delete("categories").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, sql, args...)
}

// execOne runs a statement that must affect exactly one row.
func (s *Store) execOne(ctx context.Context, sql string, args ...any) error {
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// keywordsArg stores an empty keyword list as NULL.
func keywordsArg(keywords []string) any {
	keywords = models.NormalizeKeywords(keywords)
	if keywords == nil {
		return nil
	}
	return keywords
}

var _ store.Store = (*Store)(nil)
