package models

import (
	"strings"
	"time"
)

// Script statuses as reported by the guard service.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// History actions.
const (
	ActionCreate = "CREATE"
	ActionEdit   = "EDIT"
	ActionDelete = "DELETE"
	ActionUpload = "UPLOAD"
)

// Script is one protected payload. The dashboard never owns script
// content durably: in delegated mode the guard service is the system
// of record, in simulated mode the record lives only in process memory.
type Script struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Size      int       `json:"size"`
	Lines     int       `json:"lines"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Views     int       `json:"views"`
	Status    string    `json:"status"`

	// Derived on the way out, never stored.
	RawURL     string `json:"rawUrl,omitempty"`
	Loadstring string `json:"loadstring,omitempty"`
}

// Measure recomputes Size and Lines from Code.
func (s *Script) Measure() {
	s.Size = len(s.Code)
	s.Lines = strings.Count(s.Code, "\n") + 1
}

// Stats is the aggregation served by /api/stats. Always computed from a
// fresh listing, never cached.
type Stats struct {
	TotalScripts  int `json:"totalScripts"`
	TotalViews    int `json:"totalViews"`
	TotalSize     int `json:"totalSize"`
	ActiveCount   int `json:"activeCount"`
	InactiveCount int `json:"inactiveCount"`
}

// Aggregate computes Stats over a script listing.
func Aggregate(scripts []Script) Stats {
	st := Stats{TotalScripts: len(scripts)}
	for _, s := range scripts {
		st.TotalViews += s.Views
		st.TotalSize += s.Size
		if s.Status == StatusInactive {
			st.InactiveCount++
		} else {
			st.ActiveCount++
		}
	}
	return st
}

// HistoryEntry is one best-effort audit record. Append-only; persisted
// to Postgres only when a database is configured.
type HistoryEntry struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Action     string    `gorm:"type:varchar(10);not null;index" json:"action"`
	ScriptName string    `gorm:"type:varchar(255);not null" json:"scriptName"`
	User       string    `gorm:"type:varchar(64);not null" json:"user"`
	Timestamp  time.Time `gorm:"index;not null" json:"timestamp"`
	Details    string    `gorm:"type:text" json:"details"`
}

type AccessLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"index;not null"`
	Method    string    `gorm:"type:varchar(10);not null"`
	Path      string    `gorm:"type:text;not null"`
	Status    int       `gorm:"not null;index"`
	Duration  time.Duration
	ClientIP  string `gorm:"type:varchar(45);not null"`
	UserAgent string `gorm:"type:text"`
	BytesSent int    `gorm:"not null;default:0"`
}

func (HistoryEntry) TableName() string {
	return "history_entries"
}

func (AccessLog) TableName() string {
	return "access_logs"
}
