package services_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bencao/herbquiz/internal/catalog"
	apperrors "github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/services"
	"github.com/bencao/herbquiz/internal/testutil"
)

func writeSampleData(t *testing.T, dir string) {
	t.Helper()

	herbsJSON, err := json.Marshal(testutil.SampleHerbs())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.HerbsFile), herbsJSON, 0o644))

	catsJSON, err := json.Marshal(testutil.SampleCategories())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.CategoriesFile), catsJSON, 0o644))
}

func newTestCatalogService(t *testing.T) services.CatalogService {
	t.Helper()
	dir := t.TempDir()
	writeSampleData(t, dir)
	return services.NewCatalogService(dir, catalog.DefaultSuggestionLimit)
}

func assertServiceCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestCatalogService_Herbs(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	all, err := svc.Herbs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	got, err := svc.Herbs(ctx, "黃連")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestCatalogService_HerbNotFound(t *testing.T) {
	svc := newTestCatalogService(t)

	_, err := svc.Herb(context.Background(), 999)
	assertServiceCode(t, err, "NOT_FOUND")
}

func TestCatalogService_DisabledUntilLoaded(t *testing.T) {
	// Empty data dir: initial load fails, every view is disabled.
	dir := t.TempDir()
	svc := services.NewCatalogService(dir, catalog.DefaultSuggestionLimit)
	ctx := context.Background()

	_, err := svc.Herbs(ctx, "")
	assertServiceCode(t, err, "DATA_LOAD_ERROR")
	_, err = svc.Setup(ctx)
	assertServiceCode(t, err, "DATA_LOAD_ERROR")

	// A later publish recovers the service.
	writeSampleData(t, dir)
	require.NoError(t, svc.Reload(ctx))

	all, err := svc.Herbs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestCatalogService_ReloadFailureKeepsOldStore(t *testing.T) {
	dir := t.TempDir()
	writeSampleData(t, dir)
	svc := services.NewCatalogService(dir, catalog.DefaultSuggestionLimit)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.HerbsFile), []byte("{broken"), 0o644))
	err := svc.Reload(ctx)
	assertServiceCode(t, err, "DATA_LOAD_ERROR")

	all, herr := svc.Herbs(ctx, "")
	require.NoError(t, herr)
	assert.Len(t, all, 5)
}

func TestCatalogService_CategoryView(t *testing.T) {
	svc := newTestCatalogService(t)

	view, err := svc.Category(context.Background(), "生物鹼")
	require.NoError(t, err)

	assert.Equal(t, "Alkaloid", view.NameForeign)
	require.Len(t, view.Groups, 2)
	require.Len(t, view.Groups[0].Herbs, 1)
	assert.Equal(t, int64(2), view.Groups[0].Herbs[0].ID)
	require.Len(t, view.Groups[1].Herbs, 1)
	assert.Equal(t, int64(4), view.Groups[1].Herbs[0].ID)
	assert.Empty(t, view.Ungrouped)
}

func TestCatalogService_CategoryNotFound(t *testing.T) {
	svc := newTestCatalogService(t)

	_, err := svc.Category(context.Background(), "nope")
	assertServiceCode(t, err, "NOT_FOUND")
}

func TestCatalogService_Setup(t *testing.T) {
	svc := newTestCatalogService(t)

	opts, err := svc.Setup(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"二年級", "三年級"}, opts.Grades)
	assert.Len(t, opts.Herbs, 5)
	assert.Equal(t, models.AllModes(), opts.Modes)
}
