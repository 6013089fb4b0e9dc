package worker

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bencao/herbquiz/internal/content"
	"github.com/bencao/herbquiz/internal/logger"
)

// DocumentSource fetches one named catalog document from the remote
// repository. Satisfied by the content service.
type DocumentSource interface {
	Document(ctx context.Context, doc string) (*content.Document, error)
}

// CatalogReloader re-reads the data directory into the in-memory store.
type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// SyncCatalogJob runs after an admin publishes a catalog document: it pulls
// the fresh file from the remote repository, replaces the local copy, and
// reloads the in-memory store so queries and quizzes see the new data.
type SyncCatalogJob struct {
	Source   DocumentSource
	Reloader CatalogReloader
	Doc      string // document name, e.g. "herbs"
	DataDir  string
	FileName string // local name, e.g. "herbs.json"
}

func (j *SyncCatalogJob) Name() string { return "sync_catalog" }

func (j *SyncCatalogJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("doc", j.Doc)
	log.Info("syncing catalog document from remote")

	doc, err := j.Source.Document(ctx, j.Doc)
	if err != nil {
		log.Error("failed to fetch remote document: %v", err)
		return err
	}

	// Write-then-rename so a crash never leaves a half-written data file.
	dst := filepath.Join(j.DataDir, j.FileName)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, doc.Content, 0o644); err != nil {
		log.Error("failed to write local copy: %v", err)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		log.Error("failed to replace local copy: %v", err)
		return err
	}
	log.Debug("local copy replaced: %s (%d bytes)", dst, len(doc.Content))

	if err := j.Reloader.Reload(ctx); err != nil {
		log.Error("failed to reload catalog: %v", err)
		return err
	}
	log.Info("catalog synced and reloaded")
	return nil
}
