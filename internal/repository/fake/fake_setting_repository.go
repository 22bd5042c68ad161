// Package fake provides an in-memory SettingRepository.
package fake

import (
	"context"
	"sync"

	"github.com/roguepikachu/pasteshare/internal/repository"
)

// SettingRepository keeps settings in a map. Values live as long as the process.
type SettingRepository struct {
	mu      sync.RWMutex
	values  map[string]string
	pingErr error
}

// Option configures the fake repository.
type Option func(*SettingRepository)

// WithValue seeds a setting.
func WithValue(key, value string) Option {
	return func(r *SettingRepository) { r.values[key] = value }
}

// WithPingError makes Ping report err.
func WithPingError(err error) Option {
	return func(r *SettingRepository) { r.pingErr = err }
}

// NewSettingRepository creates an in-memory repository.
func NewSettingRepository(opts ...Option) *SettingRepository {
	r := &SettingRepository{values: make(map[string]string)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SettingRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (r *SettingRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *SettingRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

func (r *SettingRepository) Ping(context.Context) error { return r.pingErr }

var _ repository.SettingRepository = (*SettingRepository)(nil)
