package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/branchauth/internal/auth/store"
)

// HousekeepingService periodically clears refresh token hashes whose token
// has expired. Those hashes can never match a verifiable token again.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. If interval is 0 or
// negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass and reports how many hashes were cleared.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	n, err := s.Store.Users().ClearExpiredRefreshTokenHashes(ctx, s.Now().UTC())
	if err != nil {
		s.Logger.Error("failed to clear expired refresh token hashes", "error", err)
		return 0
	}

	RefreshHashesCleared.Add(float64(n))
	s.Logger.Info("housekeeping cleanup completed", "cleared_refresh_hashes", n)
	return n
}
