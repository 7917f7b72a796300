// Package index keeps a persistent table of game offsets and headers per
// PGN file in a bbolt database, so that a game can be found again without
// rescanning the archive.
//
// Each indexed file gets a bucket under "files", keyed by its path. The
// bucket holds a "meta" record and a "games" sub-bucket whose keys are
// big-endian game numbers starting at 1.
package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

var (
	bucketFiles = []byte("files")
	bucketGames = []byte("games")
	keyMeta     = []byte("meta")
)

// Entry is one game of an indexed file.
type Entry struct {
	Offset  int64             `json:"offset"`
	Headers map[string]string `json:"headers"`
}

// FileInfo describes an indexed file as it was when it was scanned.
type FileInfo struct {
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	Compression string    `json:"compression"`
	Games       int       `json:"games"`
	Bytes       int64     `json:"bytes"` // decompressed bytes scanned
	IndexedAt   time.Time `json:"indexed_at"`
}

// Current reports whether the file still has the size and modification
// time it was indexed with.
func (fi FileInfo) Current(size int64, modTime time.Time) bool {
	return fi.Size == size && fi.ModTime.Equal(modTime)
}

// Store is the bbolt-backed index.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the index database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFiles)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func gameKey(n int) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(n))
	return k[:]
}

// Put replaces everything stored for info.Path in one transaction.
func (s *Store) Put(info FileInfo, entries []Entry) error {
	info.Games = len(entries)
	meta, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		files := tx.Bucket(bucketFiles)
		name := []byte(info.Path)
		if files.Bucket(name) != nil {
			if err := files.DeleteBucket(name); err != nil {
				return err
			}
		}
		fb, err := files.CreateBucket(name)
		if err != nil {
			return err
		}
		if err := fb.Put(keyMeta, meta); err != nil {
			return err
		}
		gb, err := fb.CreateBucket(bucketGames)
		if err != nil {
			return err
		}
		gb.FillPercent = 1 // keys only ever grow
		for i, e := range entries {
			v, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshal game %d: %w", i+1, err)
			}
			if err := gb.Put(gameKey(i+1), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// fileBucket returns the bucket of path or an ErrIndexNotFound error.
func fileBucket(tx *bolt.Tx, path string) (*bolt.Bucket, error) {
	fb := tx.Bucket(bucketFiles).Bucket([]byte(path))
	if fb == nil {
		return nil, fmt.Errorf("%s: %w", path, errors.ErrIndexNotFound)
	}
	return fb, nil
}

// Info returns what is known about path.
func (s *Store) Info(path string) (FileInfo, error) {
	var info FileInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		fb, err := fileBucket(tx, path)
		if err != nil {
			return err
		}
		return json.Unmarshal(fb.Get(keyMeta), &info)
	})
	return info, err
}

// Entry returns game n (1-based) of path.
func (s *Store) Entry(path string, n int) (Entry, error) {
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		fb, err := fileBucket(tx, path)
		if err != nil {
			return err
		}
		v := fb.Bucket(bucketGames).Get(gameKey(n))
		if v == nil {
			return fmt.Errorf("%s game %d: %w", path, n, errors.ErrIndexNotFound)
		}
		return json.Unmarshal(v, &e)
	})
	return e, err
}

// Entries returns every game of path in file order.
func (s *Store) Entries(path string) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		fb, err := fileBucket(tx, path)
		if err != nil {
			return err
		}
		return fb.Bucket(bucketGames).ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	return entries, err
}

// Offsets returns the game offsets of path in file order.
func (s *Store) Offsets(path string) ([]int64, error) {
	entries, err := s.Entries(path)
	if err != nil {
		return nil, err
	}
	offsets := make([]int64, len(entries))
	for i, e := range entries {
		offsets[i] = e.Offset
	}
	return offsets, nil
}

// Files lists every indexed file ordered by path.
func (s *Store) Files() ([]FileInfo, error) {
	var infos []FileInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		files := tx.Bucket(bucketFiles)
		return files.ForEachBucket(func(name []byte) error {
			var info FileInfo
			if err := json.Unmarshal(files.Bucket(name).Get(keyMeta), &info); err != nil {
				return fmt.Errorf("meta of %s: %w", name, err)
			}
			infos = append(infos, info)
			return nil
		})
	})
	return infos, err
}

// Delete drops path from the index.
func (s *Store) Delete(path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if _, err := fileBucket(tx, path); err != nil {
			return err
		}
		return tx.Bucket(bucketFiles).DeleteBucket([]byte(path))
	})
}
