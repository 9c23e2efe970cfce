package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper periodically drops expired sessions so an idle process does
// not accumulate dead entries between logins.
type Sweeper struct {
	store    *Store
	interval time.Duration
	log      *logrus.Entry
}

func NewSweeper(logger *logrus.Logger, store *Store, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		log:      logger.WithField("component", "session_sweeper"),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Starting session sweeper")

	for {
		select {
		case <-ticker.C:
			if purged := s.store.PurgeExpired(); purged > 0 {
				s.log.WithField("count", purged).Info("Purged expired sessions")
			}
		case <-ctx.Done():
			s.log.Info("Stopping session sweeper")
			return
		}
	}
}
