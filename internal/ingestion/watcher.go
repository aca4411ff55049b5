package ingestion

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/extract"
	"github.com/talentsift/talentsift/internal/screening"
	"github.com/talentsift/talentsift/internal/storage"
	"github.com/talentsift/talentsift/internal/util"
)

// Ingested documents need more text than an API upload before they are worth
// storing unattended.
const minIngestTextLength = 50

const defaultPollInterval = 5 * time.Minute

var ingestableExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".doc":  {},
	".txt":  {},
}

type driveClient interface {
	ListFolderChildren(ctx context.Context, driveID, folderID string) ([]DriveItem, error)
	DownloadItem(ctx context.Context, driveID, itemID string) ([]byte, error)
}

type resumeStore interface {
	ResumeExists(ctx context.Context, itemID string) (bool, error)
	SaveResume(ctx context.Context, resume *storage.Resume) error
}

// Watcher polls one drive folder and ingests unseen resume files. Each cycle
// is independent: any failure is logged and retried on the next tick.
type Watcher struct {
	client   driveClient
	store    resumeStore
	logger   *zap.Logger
	driveID  string
	folderID string
	interval time.Duration
}

func NewWatcher(client driveClient, store resumeStore, logger *zap.Logger, driveID, folderID string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Watcher{
		client:   client,
		store:    store,
		logger:   logger,
		driveID:  driveID,
		folderID: folderID,
		interval: interval,
	}
}

// Run polls until the context is canceled.
func (w *Watcher) Run(ctx context.Context) {
	w.logger.Info("drive ingestion started",
		zap.String("drive_id", w.driveID),
		zap.String("folder_id", w.folderID),
		zap.Duration("interval", w.interval),
	)

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.logger.Error("ingestion cycle failed", zap.Error(err))
		}

		if err := util.WaitFor(ctx, w.interval); err != nil {
			w.logger.Info("drive ingestion stopped")
			return
		}
	}
}

// RunOnce lists the folder and ingests every unseen file. Item-level problems
// are logged and skipped; only a failed listing fails the cycle.
func (w *Watcher) RunOnce(ctx context.Context) error {
	items, err := w.client.ListFolderChildren(ctx, w.driveID, w.folderID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if !item.IsFile() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(item.Name))
		if _, ok := ingestableExtensions[ext]; !ok {
			continue
		}

		exists, err := w.store.ResumeExists(ctx, item.ID)
		if err != nil {
			w.logger.Warn("existence check failed", zap.String("item_id", item.ID), zap.Error(err))
			continue
		}
		if exists {
			continue
		}

		if err := w.ingest(ctx, item); err != nil {
			w.logger.Warn("item ingestion failed",
				zap.String("item_id", item.ID),
				zap.String("name", item.Name),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (w *Watcher) ingest(ctx context.Context, item DriveItem) error {
	content, err := w.client.DownloadItem(ctx, w.driveID, item.ID)
	if err != nil {
		return err
	}

	text := extract.Text(item.Name, content)
	if len(strings.TrimSpace(text)) < minIngestTextLength {
		w.logger.Debug("item skipped, insufficient text", zap.String("name", item.Name))
		return nil
	}

	profile := screening.Profile(item.Name, text)
	resume := storage.FromRecord(profile, w.driveID, item.ID)

	if err := w.store.SaveResume(ctx, resume); err != nil {
		return err
	}

	w.logger.Info("resume ingested",
		zap.String("name", item.Name),
		zap.String("category", profile.Category),
		zap.String("item_id", item.ID),
	)
	return nil
}
