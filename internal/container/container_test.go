package container

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakeibo/internal/config"
	"kakeibo/internal/logging"
	"kakeibo/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Encoding.MinConfidence = 50
	cfg.Categories.File = "categories.yaml"
	return cfg
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(context.Background(), nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")
}

func TestNewContainer_RequiresDatabase(t *testing.T) {
	_, err := NewContainer(context.Background(), testConfig(), Options{Logger: logging.NewMockLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewContainer_DryRun(t *testing.T) {
	file := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`categories:
  - id: food
    name: 食費
    type: expense
    keywords: [ローソン]
`), 0600))

	logger := logging.NewMockLogger()
	c, err := NewContainer(context.Background(), testConfig(), Options{DryRun: true, CategoriesFile: file, Logger: logger})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Nil(t, c.GetPool())
	assert.NotNil(t, c.GetMetrics())
	assert.Same(t, logger, c.GetLogger())

	csv := "4980-****-****-****,三井住友カード\n2024/02/01,ローソン,540,1,1,540,\n"
	result, err := c.GetImporter().Upload(context.Background(), "u1", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)

	txs, err := c.GetLedger().ListTransactions(context.Background(), "u1", "2024-02", "food")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.SourceSumitomo, txs[0].Source)
}
