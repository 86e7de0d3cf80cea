package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"kakeibo/internal/logging"
	"kakeibo/internal/models"
)

// categoriesFile is the top-level shape of a categories YAML file.
type categoriesFile struct {
	Categories []models.Category `yaml:"categories"`
}

// YAMLCategoryStore is a read-only CategoryStore backed by a YAML file.
// The same category list is served to every owner.
type YAMLCategoryStore struct {
	file   string
	logger logging.Logger

	once       sync.Once
	categories []models.Category
	loadErr    error
}

// NewYAMLCategoryStore creates a store reading from file. A relative file
// is looked up in the usual configuration locations on first use.
func NewYAMLCategoryStore(file string, logger logging.Logger) *YAMLCategoryStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &YAMLCategoryStore{file: file, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "kakeibo", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCategories reads and normalizes the categories file. A missing file
// yields an empty list.
func (s *YAMLCategoryStore) LoadCategories() ([]models.Category, error) {
	filename := s.file
	if filename == "" {
		filename = "categories.yaml"
	}

	path, err := FindConfigFile(filename)
	if err != nil {
		s.logger.Warn("Categories file not found", logging.F(logging.FieldFile, filename))
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	categories, err := decodeCategories(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", path, err)
	}

	for i := range categories {
		c := &categories[i]
		if c.ID == "" {
			c.ID = c.Name
		}
		if c.Type == "" {
			c.Type = models.CategoryExpense
		}
		if c.Color == "" {
			c.Color = models.DefaultCategoryColor
		}
		if c.Icon == "" {
			c.Icon = models.DefaultCategoryIcon
		}
		c.Keywords = models.NormalizeKeywords(c.Keywords)
	}
	sortByName(categories)

	s.logger.Debug("Loaded categories",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(categories)))
	return categories, nil
}

// decodeCategories accepts a "categories:" document, a bare list, or a map
// from category name to keyword list.
func decodeCategories(data []byte) ([]models.Category, error) {
	var doc categoriesFile
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Categories) > 0 {
		return doc.Categories, nil
	}

	var list []models.Category
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list, nil
	}

	var byName map[string][]string
	if err := yaml.Unmarshal(data, &byName); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		if name == "categories" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.Category, 0, len(names))
	for _, name := range names {
		out = append(out, models.Category{Name: name, Keywords: byName[name]})
	}
	return out, nil
}

func (s *YAMLCategoryStore) load() ([]models.Category, error) {
	s.once.Do(func() {
		s.categories, s.loadErr = s.LoadCategories()
	})
	return s.categories, s.loadErr
}

// ListCategories implements CategoryStore.
func (s *YAMLCategoryStore) ListCategories(_ context.Context, ownerID string, typeFilter *models.CategoryType) ([]models.Category, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []models.Category
	for _, c := range all {
		if typeFilter != nil && c.Type != *typeFilter {
			continue
		}
		c = cloneCategory(c)
		c.OwnerID = ownerID
		out = append(out, c)
	}
	return out, nil
}

// GetCategory implements CategoryStore.
func (s *YAMLCategoryStore) GetCategory(_ context.Context, ownerID, id string) (models.Category, error) {
	all, err := s.load()
	if err != nil {
		return models.Category{}, err
	}
	for _, c := range all {
		if c.ID == id {
			c = cloneCategory(c)
			c.OwnerID = ownerID
			return c, nil
		}
	}
	return models.Category{}, ErrNotFound
}

// CreateCategory always fails with ErrReadOnly.
func (s *YAMLCategoryStore) CreateCategory(context.Context, models.Category) (models.Category, error) {
	return models.Category{}, ErrReadOnly
}

// UpdateCategory always fails with ErrReadOnly.
func (s *YAMLCategoryStore) UpdateCategory(context.Context, models.Category) (models.Category, error) {
	return models.Category{}, ErrReadOnly
}

// DeleteCategory always fails with ErrReadOnly.
func (s *YAMLCategoryStore) DeleteCategory(context.Context, string, string) error {
	return ErrReadOnly
}
