// Package history keeps the best-effort, append-only audit trail of
// registry mutations. Entries always land in a bounded in-memory ring;
// when Postgres is configured they are additionally persisted in the
// background, so a slow database never blocks a dashboard request.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
)

type Recorder struct {
	mu      sync.Mutex
	entries []models.HistoryEntry
	nextID  uint
	limit   int
	db      *gorm.DB
	log     *logrus.Entry
}

// NewRecorder creates a recorder holding at most limit in-memory
// entries. db may be nil.
func NewRecorder(logger *logrus.Logger, db *gorm.DB, limit int) *Recorder {
	if limit <= 0 {
		limit = 200
	}
	return &Recorder{
		limit:  limit,
		nextID: 1,
		db:     db,
		log:    logger.WithField("component", "history"),
	}
}

// Record appends one entry. Failures are logged and swallowed; the
// audit trail is best-effort and must never fail a mutation that
// already succeeded.
func (r *Recorder) Record(action, scriptName, user, details string) {
	entry := models.HistoryEntry{
		Action:     action,
		ScriptName: scriptName,
		User:       user,
		Timestamp:  time.Now(),
		Details:    details,
	}

	r.mu.Lock()
	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, entry)
	if len(r.entries) > r.limit {
		r.entries = r.entries[len(r.entries)-r.limit:]
	}
	r.mu.Unlock()

	if r.db == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		row := entry
		row.ID = 0
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			r.log.WithError(err).Warn("Failed to persist history entry")
		}
	}()
}

// List returns entries newest first. With a database configured it is
// the authoritative source; otherwise the in-memory ring is served.
func (r *Recorder) List(ctx context.Context) ([]models.HistoryEntry, error) {
	if r.db != nil {
		var rows []models.HistoryEntry
		err := r.db.WithContext(ctx).
			Order("timestamp desc").
			Limit(r.limit).
			Find(&rows).Error
		if err != nil {
			r.log.WithError(err).Warn("History query failed, serving in-memory entries")
		} else {
			return rows, nil
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.HistoryEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
