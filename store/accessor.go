package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Accessor tracks the staleness of a store file and keeps a read-only
// Map open over it. The backing file is replaced atomically by the
// update producer; EnsureFresh notices the advanced modification time
// and swaps in a fresh handle. Not safe for concurrent use.
type Accessor struct {
	path    string
	logger  *slog.Logger
	m       Map
	modTime time.Time
}

func NewAccessor(path string, logger *slog.Logger) *Accessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accessor{path: path, logger: logger}
}

// EnsureFresh re-stats the backing file and (re)opens it when it has
// never been opened or its modification time advanced past the cached
// value. Failures wrap ErrStoreUnavailable.
func (a *Accessor) EnsureFresh() error {
	fi, err := os.Stat(a.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if a.m != nil && !fi.ModTime().After(a.modTime) {
		return nil
	}

	if a.m != nil {
		if err := a.m.Close(); err != nil {
			a.logger.Warn("closing superseded store handle", "path", a.path, "error", err)
		}
		a.m = nil
	}

	m, err := OpenBolt(a.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	a.m = m
	a.modTime = fi.ModTime()
	a.logger.Debug("opened blocklist store", "path", a.path, "mtime", a.modTime)
	return nil
}

// Lookup reports whether key exists in the open map. Callers must have
// called EnsureFresh; without an open map the answer is false.
func (a *Accessor) Lookup(key []byte) bool {
	if a.m == nil {
		return false
	}
	found, err := a.m.Lookup(key)
	if err != nil {
		a.logger.Warn("store lookup failed", "path", a.path, "error", err)
		return false
	}
	return found
}

// ReadMetadata reads one reserved metadata entry.
func (a *Accessor) ReadMetadata(key ReservedKey) ([]byte, bool) {
	if a.m == nil {
		return nil, false
	}
	v, err := a.m.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Warn("store metadata read failed", "path", a.path, "key", string(key), "error", err)
		}
		return nil, false
	}
	return v, true
}

// Close releases the open map and resets staleness tracking, so a later
// EnsureFresh starts from scratch. Idempotent.
func (a *Accessor) Close() error {
	if a.m == nil {
		return nil
	}
	err := a.m.Close()
	a.m = nil
	a.modTime = time.Time{}
	return err
}
