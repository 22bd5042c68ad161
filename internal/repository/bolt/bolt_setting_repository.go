// Package bolt provides a bbolt-backed SettingRepository that persists to a local file.
package bolt

import (
	"context"
	"errors"
	"fmt"

	"github.com/roguepikachu/pasteshare/internal/repository"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("settings")

// SettingRepository stores settings in a single bbolt bucket.
type SettingRepository struct {
	db *bolt.DB
}

// NewSettingRepository wraps db, creating the settings bucket if needed.
func NewSettingRepository(db *bolt.DB) (*SettingRepository, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &SettingRepository{db: db}, nil
}

// Get returns the stored value or repository.ErrNotFound.
func (r *SettingRepository) Get(_ context.Context, key string) (string, error) {
	var (
		val   string
		found bool
	)
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		// bbolt values are only valid inside the transaction
		if v := b.Get([]byte(key)); v != nil {
			val, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("bolt view: %w", err)
	}
	if !found {
		return "", repository.ErrNotFound
	}
	return val, nil
}

// Set stores value under key.
func (r *SettingRepository) Set(_ context.Context, key, value string) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("bolt put: %w", err)
	}
	return nil
}

// Delete removes key; a missing key is not an error.
func (r *SettingRepository) Delete(_ context.Context, key string) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("bolt delete: %w", err)
	}
	return nil
}

// Ping verifies the database file is open and readable.
func (r *SettingRepository) Ping(_ context.Context) error {
	err := r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketName) == nil {
			return errors.New("settings bucket missing")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bolt ping: %w", err)
	}
	return nil
}

var _ repository.SettingRepository = (*SettingRepository)(nil)
