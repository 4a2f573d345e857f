package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("blocklist")

// Bolt is the default Map implementation, a read-only view over a bbolt
// file. The single-file layout is what makes modification-time staleness
// tracking in Accessor work: the updater replaces the whole file
// atomically and readers notice the new mtime.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens path read-only. The file must already exist; creating
// stores is the producer's job (see Writer).
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{
		ReadOnly: true,
		Timeout:  time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Lookup(key []byte) (bool, error) {
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		if bkt := tx.Bucket(bucketName); bkt != nil {
			found = bkt.Get(key) != nil
		}
		return nil
	})
	return found, err
}

func (b *Bolt) Get(key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if bkt := tx.Bucket(bucketName); bkt != nil {
			if v := bkt.Get(key); v != nil {
				value = append([]byte(nil), v...)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, ErrNotFound
	}
	return value, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
