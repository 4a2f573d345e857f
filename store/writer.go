package store

import (
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

// presence is the value stored under content-hash keys; only key
// existence matters to the matcher.
var presence = []byte{1}

// Writer builds a blocklist store file. It is the producer half of the
// schema: the external update process uses it to materialize a store,
// and the tests use it to build fixtures. Producers should write to a
// temporary path and rename over the live file so readers never see a
// partial store.
type Writer struct {
	db *bolt.DB
}

// Create opens (or creates) a writable store at path.
func Create(path string) (*Writer, error) {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, fmt.Errorf("create store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create store %s: %w", path, err)
	}
	return &Writer{db: db}, nil
}

// PutHash records one content-hash entry.
func (w *Writer) PutHash(digest []byte) error {
	if len(digest) != HashSize {
		return fmt.Errorf("content hash must be %d bytes, got %d", HashSize, len(digest))
	}
	return w.put(digest, presence)
}

// PutURL hashes a canonical URI string and records it.
func (w *Writer) PutURL(canonical string) error {
	return w.PutHash(Digest(canonical))
}

// PutMetadata writes one reserved metadata entry.
func (w *Writer) PutMetadata(key ReservedKey, value []byte) error {
	return w.put([]byte(key), value)
}

// PutTimestamp writes a reserved entry holding t as decimal epoch
// seconds, the schema's timestamp encoding.
func (w *Writer) PutTimestamp(key ReservedKey, t time.Time) error {
	return w.PutMetadata(key, strconv.AppendInt(nil, t.Unix(), 10))
}

func (w *Writer) put(key, value []byte) error {
	return w.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, value)
	})
}

func (w *Writer) Close() error {
	return w.db.Close()
}
