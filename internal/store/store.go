// Package store persists generated scripts and reports keyed by run and path.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Store defines operations for persisting run files.
type Store interface {
	Put(ctx context.Context, runID, path string, content []byte) error
	Get(ctx context.Context, runID, path string) ([]byte, error)
	GetURL(ctx context.Context, runID, path string) (string, error)
	List(ctx context.Context, runID string) ([]string, error)
}

var ErrNotFound = errors.New("file not found")

const (
	BackendDisk     = "disk"
	BackendMemory   = "memory"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend     string
	Root        string
	S3          S3Config
	PostgresDSN string

	// Cache wraps the backend in a CachedStore when set.
	Cache *CacheConfig
}

// Open builds the configured backend. An empty backend means disk.
func Open(cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendDisk:
		root := strings.TrimSpace(cfg.Root)
		if root == "" {
			root = "out"
		}
		s = NewDiskStore(root)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendS3:
		s, err = NewS3Store(cfg.S3)
	case BackendPostgres:
		s, err = openPostgres(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Cache != nil {
		s = NewCachedStore(s, *cfg.Cache)
	}
	return s, nil
}

func openPostgres(dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewPostgresStore(db), nil
}

// Exists reports whether runID/path is present in s.
func Exists(ctx context.Context, s Store, runID, path string) (bool, error) {
	_, err := s.Get(ctx, runID, path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func checkKey(runID, path string) (string, string, error) {
	runID = strings.TrimSpace(runID)
	path = strings.TrimSpace(path)
	if runID == "" {
		return "", "", fmt.Errorf("run_id is required")
	}
	if path == "" {
		return "", "", fmt.Errorf("path is required")
	}
	return runID, path, nil
}

func objectKey(runID, path string) string {
	normalized := strings.TrimLeft(strings.TrimSpace(path), "/")
	return strings.TrimSpace(runID) + "/" + normalized
}
