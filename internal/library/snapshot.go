package library

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmcdole/folio/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket and key names
var (
	bucketLibrary = []byte("library")
	keyBooks      = []byte("books")
	keySavedAt    = []byte("saved_at")
)

// Snapshot persists the book list locally so the library renders before the
// first fetch completes (and when the server is unreachable). Locally-owned
// bookmarks live here too; the backend has no bookmark endpoint.
type Snapshot struct {
	db *bolt.DB
}

// OpenSnapshot opens (or creates) the snapshot database under baseDir,
// partitioned per server so switching backends never mixes lists.
func OpenSnapshot(baseDir, serverURL string) (*Snapshot, error) {
	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "folio.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLibrary)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Snapshot{db: db}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *Snapshot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores the full list, preserving server order.
func (s *Snapshot) Save(books []domain.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLibrary)
		if err := b.Put(keyBooks, data); err != nil {
			return err
		}
		savedAt, _ := time.Now().UTC().MarshalText()
		return b.Put(keySavedAt, savedAt)
	})
}

// Load returns the stored list, or ok=false if nothing has been saved yet.
func (s *Snapshot) Load() ([]domain.Book, bool) {
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLibrary)
		if b == nil {
			return nil
		}
		if v := b.Get(keyBooks); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	var books []domain.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, false
	}
	return books, true
}

// Clear drops all snapshot data, used on logout.
func (s *Snapshot) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketLibrary); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketLibrary)
		return err
	})
}
