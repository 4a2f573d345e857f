// Package blocklist matches URIs against a locally cached blocklist in
// the style of the Google SafeBrowsing lookup protocol. A Blocklist
// handle reads a pre-populated store file produced by an external
// updater; it performs no network I/O itself. Every failure mode
// degrades to "no match" so a broken or stale local cache can never
// block the caller.
package blocklist

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gitpan/Net-Google-SafeBrowsing-Blocklist/store"
)

// DefaultMaxStaleness is how old the store's freshness timestamp may be
// before its contents are distrusted and matching reports no match.
const DefaultMaxStaleness = 1800 * time.Second

// Blocklist is a handle on one logical blocklist. The backing store is
// opened lazily on first use and reopened whenever the file changes.
// A handle is not safe for concurrent use; concurrent callers must
// serialize access or open independent handles.
type Blocklist struct {
	name         string
	key          string // update credential, passed through to the updater, unused here
	accessor     *store.Accessor
	logger       *slog.Logger
	maxStaleness time.Duration
	now          func() time.Time
}

// Option configures a Blocklist handle.
type Option func(*Blocklist)

// WithLogger sets the logger for diagnostics. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Blocklist) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMaxStaleness overrides the staleness window.
func WithMaxStaleness(d time.Duration) Option {
	return func(b *Blocklist) {
		if d > 0 {
			b.maxStaleness = d
		}
	}
}

// WithNow injects the clock used for staleness checks.
func WithNow(now func() time.Time) Option {
	return func(b *Blocklist) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a handle for the named blocklist backed by the store file
// at path. key is the update credential for the external updater; the
// matching logic never uses it. The store is not touched until the
// first operation that needs it.
func New(name, path, key string, opts ...Option) *Blocklist {
	b := &Blocklist{
		name:         name,
		key:          key,
		logger:       slog.Default(),
		maxStaleness: DefaultMaxStaleness,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.accessor = store.NewAccessor(path, b.logger)
	return b
}

// Name returns the blocklist's label.
func (b *Blocklist) Name() string {
	return b.name
}

// Timestamp returns when the store was last refreshed from the
// authoritative source.
func (b *Blocklist) Timestamp() (time.Time, bool) {
	return b.metadataTime(store.Timestamp)
}

// LastAttempt returns when the updater last attempted a refresh.
func (b *Blocklist) LastAttempt() (time.Time, bool) {
	return b.metadataTime(store.LastAttempt)
}

// ClientKey returns the client key recorded by the updater.
func (b *Blocklist) ClientKey() (string, bool) {
	return b.metadataString(store.ClientKey)
}

// WrappedKey returns the wrapped key recorded by the updater.
func (b *Blocklist) WrappedKey() (string, bool) {
	return b.metadataString(store.WrappedKey)
}

// Version returns the store's schema version.
func (b *Blocklist) Version() (major, minor string, ok bool) {
	major, ok = b.metadataString(store.MajorVersion)
	if !ok {
		return "", "", false
	}
	minor, ok = b.metadataString(store.MinorVersion)
	if !ok {
		return "", "", false
	}
	return major, minor, true
}

// ErrorCount returns the updater's consecutive-error counter.
func (b *Blocklist) ErrorCount() (int, bool) {
	v, ok := b.metadataString(store.ErrorCount)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Close releases the store handle. The handle stays usable: the next
// operation reopens the store from scratch.
func (b *Blocklist) Close() {
	if err := b.accessor.Close(); err != nil {
		b.logger.Warn("closing blocklist store", "list", b.name, "error", err)
	}
}

func (b *Blocklist) metadataString(key store.ReservedKey) (string, bool) {
	if err := b.accessor.EnsureFresh(); err != nil {
		b.logger.Warn("blocklist store unavailable", "list", b.name, "error", err)
		return "", false
	}
	v, ok := b.accessor.ReadMetadata(key)
	if !ok {
		return "", false
	}
	return string(v), true
}

func (b *Blocklist) metadataTime(key store.ReservedKey) (time.Time, bool) {
	v, ok := b.metadataString(key)
	if !ok {
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}
