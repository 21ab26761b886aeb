// Process-wide handle cache, made explicit.
//
// A Registry hands out at most one *File per normalized absolute path, so
// independent callers asking for the same collection observe the same
// chunk size and settings. Each DB owns its own Registry; tests that need
// isolation simply create another.
package rowfile

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
)

// Registry maps normalized paths to their File handle.
type Registry struct {
	config Config
	log    *slog.Logger
	mu     sync.Mutex
	files  map[string]*File
}

// NewRegistry returns an empty registry whose handles use config.
func NewRegistry(config Config) *Registry {
	config = config.withDefaults()
	return &Registry{
		config: config,
		log:    config.Logger,
		files:  make(map[string]*File),
	}
}

// File returns the handle for path, creating it on first use. The path
// need not exist yet.
func (r *Registry) File(path string) (*File, error) {
	abs, err := normalize(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.files[abs]; ok {
		return f, nil
	}
	f := &File{
		path:   abs,
		config: r.config,
		reg:    r,
	}
	r.files[abs] = f
	r.log.Debug("registry: new handle", "path", abs)
	return f, nil
}

// Len returns the number of cached handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// normalize returns the cleaned absolute form of path.
func normalize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("registry: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("registry: %w", err)
	}
	return abs, nil
}
