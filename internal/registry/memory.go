package registry

import (
	"context"
	"sort"
	"sync"

	"CarbonCompendium/internal/model"
)

// MemoryStore is an in-process Store used when SQLite is unavailable and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	projects map[int64]model.Project
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[int64]model.Project)}
}

func (m *MemoryStore) Create(_ context.Context, p *model.Project) error {
	if err := prepare(p); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.projects[p.ID] = *p
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (*model.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) List(_ context.Context) ([]model.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, p *model.Project) error {
	if err := prepare(p); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return ErrNotFound
	}
	m.projects[p.ID] = *p
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
