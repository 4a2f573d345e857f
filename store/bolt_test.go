package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestBoltLookupAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.db")

	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := w.PutURL("malware.test/"); err != nil {
		t.Fatalf("PutURL() failed: %v", err)
	}
	if err := w.PutMetadata(ClientKey, []byte("client-key-value")); err != nil {
		t.Fatalf("PutMetadata() failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	m, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt() failed: %v", err)
	}
	defer m.Close()

	found, err := m.Lookup(Digest("malware.test/"))
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if !found {
		t.Errorf("Lookup() = false for stored hash")
	}

	found, err = m.Lookup(Digest("clean.test/"))
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if found {
		t.Errorf("Lookup() = true for absent hash")
	}

	v, err := m.Get([]byte(ClientKey))
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(v) != "client-key-value" {
		t.Errorf("Get(ClientKey) = %q, want %q", v, "client-key-value")
	}

	if _, err := m.Get([]byte(WrappedKey)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(WrappedKey) error = %v, want ErrNotFound", err)
	}
}

func TestOpenBoltMissingFile(t *testing.T) {
	if _, err := OpenBolt(filepath.Join(t.TempDir(), "absent.db")); err == nil {
		t.Errorf("OpenBolt() on a missing file expected error, got nil")
	}
}

func TestPutHashRejectsWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.db")

	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	defer w.Close()

	if err := w.PutHash([]byte("short")); err == nil {
		t.Errorf("PutHash() accepted a %d-byte key", len("short"))
	}
}

func TestReservedKeysDistinctFromHashes(t *testing.T) {
	seen := make(map[ReservedKey]bool)
	for _, key := range ReservedKeys() {
		if len(key) == HashSize {
			t.Errorf("reserved key %q is %d bytes and collides with the content-hash keyspace", key, HashSize)
		}
		if seen[key] {
			t.Errorf("reserved key %q duplicated", key)
		}
		seen[key] = true
	}
	if len(seen) != 7 {
		t.Errorf("expected 7 reserved keys, got %d", len(seen))
	}
}

func TestDigestSize(t *testing.T) {
	if got := len(Digest("malware.test/")); got != HashSize {
		t.Errorf("Digest() length = %d, want %d", got, HashSize)
	}
}
