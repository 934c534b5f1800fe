package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketCredentials = []byte("credentials")
	keyToken          = []byte("token")
	keyAPIKey         = []byte("api_key")
)

// CredentialStore persists the bearer token and the query API key across
// process restarts. The two values are keyed independently: logout clears
// both, while the API key alone is rewritten after each validated query.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	APIKey(ctx context.Context) (string, error)
	SetAPIKey(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

type BboltCredentialStore struct {
	db *bolt.DB
}

func NewBboltCredentialStore(path string) (*BboltCredentialStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("credential db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCredentials)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BboltCredentialStore{db: db}, nil
}

func (s *BboltCredentialStore) Token(ctx context.Context) (string, error) {
	return s.get(keyToken)
}

func (s *BboltCredentialStore) SetToken(ctx context.Context, token string) error {
	return s.put(keyToken, token)
}

func (s *BboltCredentialStore) APIKey(ctx context.Context) (string, error) {
	return s.get(keyAPIKey)
}

func (s *BboltCredentialStore) SetAPIKey(ctx context.Context, key string) error {
	return s.put(keyAPIKey, key)
}

// Clear removes every stored credential in one transaction.
func (s *BboltCredentialStore) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCredentials)
		if bucket == nil {
			return nil
		}
		if err := bucket.Delete(keyToken); err != nil {
			return err
		}
		return bucket.Delete(keyAPIKey)
	})
}

func (s *BboltCredentialStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BboltCredentialStore) get(key []byte) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCredentials)
		if bucket == nil {
			return nil
		}
		value = string(bucket.Get(key))
		return nil
	})
	return value, err
}

func (s *BboltCredentialStore) put(key []byte, value string) error {
	value = strings.TrimSpace(value)
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCredentials)
		if bucket == nil {
			return errors.New("credentials bucket missing")
		}
		if value == "" {
			return bucket.Delete(key)
		}
		return bucket.Put(key, []byte(value))
	})
}
