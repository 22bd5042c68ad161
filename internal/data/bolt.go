package data

import (
	"fmt"
	"time"

	"github.com/roguepikachu/pasteshare/internal/config"
	bolt "go.etcd.io/bbolt"
)

// NewBoltDB opens (creating if needed) the bbolt file at cfg.BoltPath.
func NewBoltDB(cfg config.Config) (*bolt.DB, error) {
	path := orDefault(cfg.BoltPath, "pasteshare.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	return db, nil
}
