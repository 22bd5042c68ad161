package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/roguepikachu/pasteshare/internal/apiclient"
	"github.com/roguepikachu/pasteshare/internal/repository"
	"github.com/roguepikachu/pasteshare/pkg/logger"
)

// ErrInvalidOverride is returned when the stored override is not a millisecond timestamp.
var ErrInvalidOverride = errors.New("test clock override is not a millisecond timestamp")

// TestClockService manages the simulated "now" forwarded to the API as x-test-now-ms.
type TestClockService struct {
	repo  repository.SettingRepository
	clock Clock
}

// NewTestClockService creates a TestClockService backed by repo.
func NewTestClockService(repo repository.SettingRepository, clock Clock) *TestClockService {
	return &TestClockService{repo: repo, clock: clock}
}

// TestNowMS returns the raw stored override, or "" when none is set.
// The value is forwarded verbatim.
func (s *TestClockService) TestNowMS(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, apiclient.HeaderTestNow)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read test clock: %w", err)
	}
	return v, nil
}

// Now returns the overridden time and true, or the real clock and false.
func (s *TestClockService) Now(ctx context.Context) (time.Time, bool, error) {
	v, err := s.TestNowMS(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	if v == "" {
		return s.clock.Now(), false, nil
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: %q", ErrInvalidOverride, v)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

// SetMS stores ms as the override.
func (s *TestClockService) SetMS(ctx context.Context, ms int64) error {
	if err := s.repo.Set(ctx, apiclient.HeaderTestNow, strconv.FormatInt(ms, 10)); err != nil {
		return fmt.Errorf("store test clock: %w", err)
	}
	logger.WithField(ctx, "test_now_ms", ms).Info("test clock override set")
	return nil
}

// Set stores t as the override.
func (s *TestClockService) Set(ctx context.Context, t time.Time) error {
	return s.SetMS(ctx, t.UnixMilli())
}

// Advance moves the override forward by d, starting from the current
// override or, when none is set, from the real clock.
func (s *TestClockService) Advance(ctx context.Context, d time.Duration) (time.Time, error) {
	now, _, err := s.Now(ctx)
	if err != nil {
		return time.Time{}, err
	}
	next := now.Add(d)
	if err := s.Set(ctx, next); err != nil {
		return time.Time{}, err
	}
	return next, nil
}

// Clear removes the override so requests carry no x-test-now-ms header.
func (s *TestClockService) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, apiclient.HeaderTestNow); err != nil {
		return fmt.Errorf("clear test clock: %w", err)
	}
	logger.Info(ctx, "test clock override cleared")
	return nil
}

var _ apiclient.TestClockSource = (*TestClockService)(nil)
