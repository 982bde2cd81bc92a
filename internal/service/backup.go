package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gmgoals/goals/internal/db"
	"github.com/gmgoals/goals/internal/storage"
)

const backupPrefix = "backups/"

var ErrBackupUnsupported = errors.New("backups are only supported for sqlite")

type BackupResult struct {
	Key    string   `json:"key"`
	Size   int64    `json:"size"`
	Pruned []string `json:"pruned"`
}

// BackupService snapshots the SQLite file into object storage.
type BackupService struct {
	db     *sqlx.DB
	driver string
	store  storage.Storage
	keep   int
	now    func() time.Time
}

// NewBackupService accepts a nil store; Backup then reports
// storage.ErrNotConfigured.
func NewBackupService(conn *sqlx.DB, driver string, store storage.Storage, keep int) *BackupService {
	return &BackupService{
		db:     conn,
		driver: driver,
		store:  store,
		keep:   keep,
		now:    time.Now,
	}
}

// Backup writes a consistent copy with VACUUM INTO, uploads it and prunes
// all but the newest keep backups.
func (s *BackupService) Backup(ctx context.Context) (*BackupResult, error) {
	if s.store == nil {
		return nil, storage.ErrNotConfigured
	}
	if s.driver != db.DriverSQLite {
		return nil, ErrBackupUnsupported
	}

	dir, err := os.MkdirTemp("", "goals-backup-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	snapshot := filepath.Join(dir, "goals.db")
	_, err = s.db.ExecContext(ctx, `VACUUM INTO $1`, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot database: %w", err)
	}

	f, err := os.Open(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	result := &BackupResult{
		Key:    backupPrefix + "goals-" + s.now().UTC().Format("20060102T150405Z") + ".db",
		Size:   info.Size(),
		Pruned: []string{},
	}

	err = s.store.Save(ctx, result.Key, f)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "backup uploaded", "key", result.Key, "size", result.Size)

	pruned, err := s.prune(ctx)
	if err != nil {
		// the upload itself succeeded
		slog.WarnContext(ctx, "backup prune failed", "error", err)
	}
	result.Pruned = append(result.Pruned, pruned...)

	return result, nil
}

func (s *BackupService) prune(ctx context.Context) ([]string, error) {
	if s.keep <= 0 {
		return nil, nil
	}

	objects, err := s.store.List(ctx, backupPrefix)
	if err != nil {
		return nil, err
	}
	if len(objects) <= s.keep {
		return nil, nil
	}

	var pruned []string
	for _, obj := range objects[s.keep:] {
		err = s.store.Delete(ctx, obj.Key)
		if err != nil {
			return pruned, err
		}
		pruned = append(pruned, obj.Key)
	}

	slog.InfoContext(ctx, "pruned old backups", "count", len(pruned), "keep", s.keep)
	return pruned, nil
}

// DownloadURL presigns a temporary link to a stored backup.
func (s *BackupService) DownloadURL(ctx context.Context, key string) (string, error) {
	if s.store == nil {
		return "", storage.ErrNotConfigured
	}
	return s.store.PresignedURL(ctx, key, time.Hour)
}
