// Package idempotency provides a BoltDB-backed replay cache for mutating
// HTTP requests. A client that retries a request with the same
// Idempotency-Key receives the stored first response instead of re-running
// the operation. Only successful responses are cached: a failed attempt
// leaves no entry, so a retry re-executes from scratch.
package idempotency

import (
	"encoding/json"
	"errors"
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "responses"

// ErrNotFound is returned when no response is cached under the given key.
var ErrNotFound = errors.New("idempotency key not found")

// Response is the cached outcome of a completed request.
type Response struct {
	Status    int             `json:"status"`
	Body      json.RawMessage `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
}

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(key string) (*Response, error) {
	var resp Response
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Put stores the response under key. If an entry already exists it is left
// unchanged so the first completed response always wins.
func (s *Store) Put(key string, resp Response) error {
	resp.CreatedAt = time.Now().UTC()
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b.Get([]byte(key)) != nil {
			return nil
		}
		return b.Put([]byte(key), data)
	})
}
