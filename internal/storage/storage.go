// Package storage provides the key/value collaborators behind favorites and
// the session cache. Values are opaque byte slices, usually JSON documents.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store is closed")

// Store is a small key/value store modelled on browser storage.
type Store interface {
	// Read returns the value for key. ok is false when the key is absent.
	Read(key string) (value []byte, ok bool, err error)
	Write(key string, value []byte) error
	// Clear removes every key.
	Clear() error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

const (
	localFileName = "local.json"
	badgerDirName = "badger"
)

// Open creates the durable store for the given backend inside dataDir.
func Open(backend, dataDir string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFile(filepath.Join(dataDir, localFileName)), nil
	case BackendBadger:
		return OpenBadger(filepath.Join(dataDir, badgerDirName), logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// OpenSession creates the ephemeral store scoped to one program run. It falls
// back to a plain in-memory map when badger cannot start.
func OpenSession(logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	store, err := OpenBadgerInMemory(logger)
	if err != nil {
		logger.Warn("session store unavailable, using memory map", slog.String("error", err.Error()))
		return NewMemory()
	}
	return store
}
