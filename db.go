// Database directory and configuration.
//
// A DB is a directory of collection files sharing one Config and one handle
// Registry. It holds no open file descriptors: every operation opens the
// file it needs and closes it before returning, so there is nothing to
// tear down.
package rowfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Default configuration values.
const (
	DefaultChunkSize    = 64 * 1024
	DefaultExtension    = "jsonl"
	DefaultRewriteQueue = 1024
)

// Config holds database configuration options.
type Config struct {
	ChunkSize     int          // Read window size in bytes (default 64KB)
	Extension     string       // Collection file extension without dot (default "jsonl")
	RewriteQueue  int          // Lines in flight between rewrite reader and writer (default 1024)
	HashAlgorithm int          // Checksum algorithm: 1=xxHash3, 2=FNV1a, 3=Blake2b
	SyncWrites    bool         // Call fsync after writes
	Logger        *slog.Logger // Debug output (default discards)
}

// withDefaults returns a copy of c with zero values replaced.
func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	c.Extension = strings.TrimPrefix(c.Extension, ".")
	if c.RewriteQueue <= 0 {
		c.RewriteQueue = DefaultRewriteQueue
	}
	if c.HashAlgorithm == 0 {
		c.HashAlgorithm = AlgXXHash3
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// DB represents a directory of collections.
type DB struct {
	dir    string    // Absolute base directory
	config Config    // Configuration with defaults applied
	files  *Registry // Handles for collection files
}

// Open prepares dir as a database, creating it if needed.
func Open(dir string, config Config) (*DB, error) {
	config = config.withDefaults()

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("open: create directory: %w", err)
	}

	return &DB{
		dir:    abs,
		config: config,
		files:  NewRegistry(config),
	}, nil
}

// Dir returns the absolute base directory.
func (db *DB) Dir() string {
	return db.dir
}

// Path returns the file path backing the named collection. The name is
// lowercased; it must be non-empty and free of path separators.
func (db *DB) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(db.dir, strings.ToLower(name)+"."+db.config.Extension), nil
}

// File returns the shared handle for the named collection's file.
func (db *DB) File(name string) (*File, error) {
	path, err := db.Path(name)
	if err != nil {
		return nil, err
	}
	return db.files.File(path)
}

// Collection returns the named collection of plain documents.
func (db *DB) Collection(name string) (*Collection[*Document], error) {
	return OpenCollection(db, name, NewDocument)
}
