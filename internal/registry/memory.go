package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
)

// MemoryRegistry is the simulated-mode store: a name-keyed map guarded
// by a single mutex so that read-check-and-insert is one atomic unit.
// Nothing survives a process restart.
type MemoryRegistry struct {
	mu      sync.Mutex
	scripts map[string]models.Script
	now     func() time.Time
	log     *logrus.Entry
}

func NewMemoryRegistry(logger *logrus.Logger) *MemoryRegistry {
	return &MemoryRegistry{
		scripts: make(map[string]models.Script),
		now:     time.Now,
		log:     logger.WithField("component", "memory_registry"),
	}
}

func (m *MemoryRegistry) Mode() string {
	return ModeSimulated
}

func (m *MemoryRegistry) List(_ context.Context) ([]models.Script, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Script, 0, len(m.scripts))
	for _, s := range m.scripts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRegistry) Create(_ context.Context, name, code string) (*models.Script, error) {
	if err := validate(name, code); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.scripts[name]; exists {
		return nil, &ConflictError{Name: name}
	}

	now := m.now()
	s := models.Script{
		ID:        uuid.NewString(),
		Name:      name,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    models.StatusActive,
	}
	s.Measure()
	m.scripts[name] = s

	m.log.WithFields(logrus.Fields{
		"name": name,
		"size": s.Size,
	}).Info("Script created")
	return &s, nil
}

func (m *MemoryRegistry) Update(_ context.Context, name, code string) (*models.Script, error) {
	if err := validate(name, code); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.scripts[name]
	if !exists {
		return nil, &NotFoundError{Name: name}
	}

	s.Code = code
	s.UpdatedAt = m.now()
	s.Measure()
	m.scripts[name] = s

	m.log.WithField("name", name).Info("Script updated")
	return &s, nil
}

func (m *MemoryRegistry) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.scripts[name]; !exists {
		return &NotFoundError{Name: name}
	}
	delete(m.scripts, name)

	m.log.WithField("name", name).Info("Script deleted")
	return nil
}

// Len reports the current script count. Used by tests to verify that
// rejected operations leave the store untouched.
func (m *MemoryRegistry) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scripts)
}
