// Package bolt implements a file-backed transcript backend on bbolt.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/alem-hub/transcripts/internal/domain/shared"
	"github.com/alem-hub/transcripts/internal/domain/transcript"
)

// BucketName is the bucket holding one entry per student.
var BucketName = []byte("transcripts")

// ErrClosed is returned by operations on a closed backend.
var ErrClosed = errors.New("bolt: backend is closed")

// Config holds bbolt settings.
type Config struct {
	// Path is the database file. Parent directories are created on open.
	Path string

	// OpenTimeout bounds waiting for the file lock held by another process.
	OpenTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Path:        "data/transcripts.db",
		OpenTimeout: time.Second,
	}
}

var _ transcript.Backend = (*Backend)(nil)

// Backend is a transcript.Backend stored in a single bbolt file.
type Backend struct {
	path string
	db   *bolt.DB
}

// Open creates the database file if it doesn't exist and ensures the bucket.
func Open(cfg Config) (*Backend, error) {
	if cfg.Path == "" {
		return nil, errors.New("bolt: path is required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("bolt: unable to create directory for %s: %w", cfg.Path, err)
	}

	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{Timeout: cfg.OpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("bolt: unable to open %s: %w", cfg.Path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(BucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: could not ensure bucket exists: %w", err)
	}

	return &Backend{path: cfg.Path, db: db}, nil
}

// Path returns the database file path.
func (b *Backend) Path() string {
	return b.path
}

// Get copies the value for key out of a read transaction.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(BucketName).Get([]byte(key))
		if v != nil {
			// v is only valid for the life of the transaction.
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, b.wrap("Get", err)
	}

	return value, value != nil, nil
}

// Set writes value under key in an update transaction.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketName).Put([]byte(key), value)
	})
	if err != nil {
		return b.wrap("Set", err)
	}
	return nil
}

// Ping reports whether the database is still open.
func (b *Backend) Ping(context.Context) error {
	if b.db == nil {
		return ErrClosed
	}
	return b.db.View(func(*bolt.Tx) error { return nil })
}

// Close closes the database file.
func (b *Backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func (b *Backend) wrap(op string, err error) error {
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		err = fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return shared.WrapError("bolt", op, shared.ErrStorage, "transaction failed", err)
}
