package bolt

import (
	"encoding/binary"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/rr-names/internal/names/domain"
	"github.com/haukened/rr-names/internal/names/repos/blacklist"
)

var (
	bucketCollections = []byte("collections")
	bucketMeta        = []byte("meta")

	keyVersion = []byte("version")
	keyUpdated = []byte("updated")
)

// boltStore implements blacklist.Store using bbolt. Each collection is a
// nested bucket under "collections"; entries are keyed by their big-endian
// position so cursor order is document order.
type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (blacklist.Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketCollections); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

// RebuildAll replaces the whole snapshot in a single write transaction, so
// readers see either the old or the new blacklist.
func (s *boltStore) RebuildAll(bl *domain.Blacklist, version uint64, updatedUnix int64) error {
	if bl == nil {
		return fmt.Errorf("blacklist must not be nil")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketCollections) != nil {
			if err := tx.DeleteBucket(bucketCollections); err != nil {
				return err
			}
		}
		root, err := tx.CreateBucket(bucketCollections)
		if err != nil {
			return err
		}
		for _, name := range bl.Collections() {
			b, err := root.CreateBucket([]byte(name))
			if err != nil {
				return fmt.Errorf("collection %q: %w", name, err)
			}
			entries, _ := bl.Collection(name)
			for i, e := range entries {
				if err := b.Put(positionKey(uint64(i)), []byte(e.Raw)); err != nil {
					return err
				}
			}
		}
		meta := tx.Bucket(bucketMeta)
		if err := meta.Put(keyVersion, u64(version)); err != nil {
			return err
		}
		return meta.Put(keyUpdated, u64(uint64(updatedUnix)))
	})
}

// Load reads the snapshot back and re-validates it through domain.NewBlacklist.
func (s *boltStore) Load() (*domain.Blacklist, error) {
	collections := make(map[string][]domain.Entry)
	err := s.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket(bucketCollections)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(name []byte) error {
			b := root.Bucket(name)
			entries := make([]domain.Entry, 0)
			c := b.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				e, err := domain.ParseEntry(string(v))
				if err != nil {
					return fmt.Errorf("collection %q entry %d: %w", name, binary.BigEndian.Uint64(k), err)
				}
				entries = append(entries, e)
			}
			collections[string(name)] = entries
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return domain.NewBlacklist(collections)
}

func (s *boltStore) Stats() blacklist.StoreStats {
	st := blacklist.StoreStats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if root := tx.Bucket(bucketCollections); root != nil {
			_ = root.ForEachBucket(func(name []byte) error {
				st.Collections++
				st.Entries += uint64(root.Bucket(name).Stats().KeyN)
				return nil
			})
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			if v := b.Get(keyVersion); len(v) == 8 {
				st.Version = binary.BigEndian.Uint64(v)
			}
			if v := b.Get(keyUpdated); len(v) == 8 {
				st.UpdatedUnix = int64(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return st
}

func positionKey(i uint64) []byte { return u64(i) }

func u64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

var _ blacklist.Store = (*boltStore)(nil)
