package matching

import (
	"context"
	"log"
	"time"

	"github.com/peerlink/peerlink-backend/internal/profile"
)

// Scheduler runs ledger housekeeping: connections with no interaction inside
// the idle window are marked inactive once a day.
type Scheduler struct {
	store      profile.Store
	idleWindow time.Duration
}

func NewScheduler(store profile.Store, idleWindow time.Duration) *Scheduler {
	return &Scheduler{store: store, idleWindow: idleWindow}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.runDaily(ctx, 3, 0, s.markDormantConnections)
}

func (s *Scheduler) markDormantConnections(ctx context.Context) error {
	count, err := s.store.MarkDormantConnections(ctx, s.idleWindow)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("marked %d connections inactive after %s idle", count, s.idleWindow)
	}
	return nil
}

func (s *Scheduler) runDaily(ctx context.Context, hour, minute int, task func(context.Context) error) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			if err := task(ctx); err != nil {
				log.Printf("Scheduled task failed: %v", err)
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}
