// Package kv provides the key-value backends the history store persists to.
package kv

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/pkg/filesystem"
	"github.com/doeshing/rxdbg/internal/ports"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Open builds the named backend. An empty path selects DefaultPath(backend).
// The returned store may implement io.Closer; use Close to release it.
func Open(backend, path string) (ports.KeyValueStore, error) {
	backend = strings.ToLower(backend)
	if path == "" {
		path = DefaultPath(backend)
	}
	path = filesystem.ExpandPath(path)

	switch backend {
	case domain.BackendMemory:
		return NewMemory(), nil
	case domain.BackendFile:
		return NewFile(path), nil
	case "", domain.BackendSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %s (want memory|file|sqlite)", ErrUnknownBackend, backend)
	}
}

// DefaultPath returns ~/.rxdbg/history.json for the file backend and
// ~/.rxdbg/history.db otherwise.
func DefaultPath(backend string) string {
	if strings.EqualFold(backend, domain.BackendFile) {
		return filepath.Join(filesystem.AppDir(), "history.json")
	}
	return filepath.Join(filesystem.AppDir(), "history.db")
}

// Close releases the store if it holds resources.
func Close(store ports.KeyValueStore) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
