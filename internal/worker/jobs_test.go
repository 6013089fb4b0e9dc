package worker_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bencao/herbquiz/internal/content"
	"github.com/bencao/herbquiz/internal/worker"
)

type stubSource struct {
	doc *content.Document
	err error
}

func (s *stubSource) Document(ctx context.Context, doc string) (*content.Document, error) {
	return s.doc, s.err
}

type stubReloader struct {
	calls int
	err   error
}

func (r *stubReloader) Reload(ctx context.Context) error {
	r.calls++
	return r.err
}

func TestSyncCatalogJob(t *testing.T) {
	dir := t.TempDir()
	reloader := &stubReloader{}
	job := &worker.SyncCatalogJob{
		Source: &stubSource{doc: &content.Document{
			Path:    "data/herbs.json",
			Content: json.RawMessage(`[{"id":1}]`),
			Version: "v2",
		}},
		Reloader: reloader,
		Doc:      "herbs",
		DataDir:  dir,
		FileName: "herbs.json",
	}

	require.NoError(t, job.Run(context.Background()))

	got, err := os.ReadFile(filepath.Join(dir, "herbs.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(got))
	assert.Equal(t, 1, reloader.calls)

	_, err = os.Stat(filepath.Join(dir, "herbs.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestSyncCatalogJob_FetchFailureLeavesLocalCopy(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "herbs.json")
	require.NoError(t, os.WriteFile(dst, []byte(`[]`), 0o644))

	reloader := &stubReloader{}
	job := &worker.SyncCatalogJob{
		Source:   &stubSource{err: fmt.Errorf("remote unavailable")},
		Reloader: reloader,
		Doc:      "herbs",
		DataDir:  dir,
		FileName: "herbs.json",
	}

	require.Error(t, job.Run(context.Background()))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.Equal(t, 0, reloader.calls)
}

func TestSyncCatalogJob_ReloadFailureSurfaces(t *testing.T) {
	dir := t.TempDir()
	job := &worker.SyncCatalogJob{
		Source: &stubSource{doc: &content.Document{
			Content: json.RawMessage(`[]`),
		}},
		Reloader: &stubReloader{err: fmt.Errorf("bad data")},
		Doc:      "herbs",
		DataDir:  dir,
		FileName: "herbs.json",
	}

	assert.Error(t, job.Run(context.Background()))
}
