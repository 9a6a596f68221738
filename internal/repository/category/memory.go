package category

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"open-producten/internal/domain"
	"open-producten/internal/mptree"
)

// Memory is an in-process Repository. WithinTx runs on a copy of the state
// and swaps it in on success, so a failed operation leaves no trace. Writes
// made outside WithinTx are not isolated from concurrent transactions.
type Memory struct {
	txMu sync.Mutex

	mu    sync.RWMutex
	rows  map[string]domain.Category
	types map[string][]string
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		rows:  map[string]domain.Category{},
		types: map[string][]string{},
		now:   time.Now,
	}
}

func (m *Memory) WithinTx(ctx context.Context, fn func(Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	tx := &Memory{rows: make(map[string]domain.Category, len(m.rows)), types: make(map[string][]string, len(m.types)), now: m.now}
	for id, c := range m.rows {
		tx.rows[id] = c
	}
	for id, ids := range m.types {
		tx.types[id] = append([]string(nil), ids...)
	}
	m.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	m.rows, m.types = tx.rows, tx.types
	m.mu.Unlock()
	return nil
}

func (m *Memory) LockTree(context.Context) error { return nil }

func (m *Memory) LockSubtree(context.Context, string) error { return nil }

func (m *Memory) Get(_ context.Context, id string) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *Memory) GetByPath(_ context.Context, path string) (*domain.Category, error) {
	out := m.filter(func(c domain.Category) bool { return c.Path == path })
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return &out[0], nil
}

func (m *Memory) List(context.Context) ([]domain.Category, error) {
	return m.filter(func(domain.Category) bool { return true }), nil
}

func (m *Memory) Subtree(_ context.Context, path string) ([]domain.Category, error) {
	return m.filter(func(c domain.Category) bool { return mptree.InSubtree(c.Path, path) }), nil
}

func (m *Memory) Children(_ context.Context, parentPath string) ([]domain.Category, error) {
	depth := mptree.Depth(parentPath) + 1
	return m.filter(func(c domain.Category) bool {
		return c.Depth == depth && strings.HasPrefix(c.Path, parentPath)
	}), nil
}

func (m *Memory) ByPaths(_ context.Context, paths []string) ([]domain.Category, error) {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}
	return m.filter(func(c domain.Category) bool { return want[c.Path] }), nil
}

func (m *Memory) Insert(_ context.Context, c domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Path == c.Path {
			return nil, domain.ErrConflict
		}
	}
	c.ID = uuid.NewString()
	c.CreatedAt = m.now()
	c.UpdatedAt = c.CreatedAt
	m.rows[c.ID] = c
	return &c, nil
}

func (m *Memory) Update(_ context.Context, c domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[c.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cur.Name, cur.Description, cur.Published = c.Name, c.Description, c.Published
	cur.UpdatedAt = m.now()
	m.rows[c.ID] = cur
	return &cur, nil
}

func (m *Memory) SetPublished(_ context.Context, published map[string]bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range published {
		cur, ok := m.rows[id]
		if !ok {
			continue
		}
		cur.Published = p
		cur.UpdatedAt = m.now()
		m.rows[id] = cur
	}
	return nil
}

func (m *Memory) Relocate(_ context.Context, oldPrefix, newPrefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	taken := map[string]bool{}
	for _, c := range m.rows {
		if !mptree.InSubtree(c.Path, oldPrefix) {
			taken[c.Path] = true
		}
	}
	moved := map[string]domain.Category{}
	for id, c := range m.rows {
		if !mptree.InSubtree(c.Path, oldPrefix) {
			continue
		}
		c.Path = mptree.Rebase(c.Path, oldPrefix, newPrefix)
		if taken[c.Path] {
			return domain.ErrConflict
		}
		c.Depth = mptree.Depth(c.Path)
		c.UpdatedAt = m.now()
		moved[id] = c
	}
	for id, c := range moved {
		m.rows[id] = c
	}
	return nil
}

func (m *Memory) DeleteSubtree(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for id, c := range m.rows {
		if mptree.InSubtree(c.Path, path) {
			delete(m.rows, id)
			delete(m.types, id)
			deleted++
		}
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *Memory) ProductTypeIDs(_ context.Context, categoryID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := append([]string(nil), m.types[categoryID]...)
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) SetProductTypes(_ context.Context, categoryID string, productTypeIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[categoryID]; !ok {
		return domain.ErrNotFound
	}
	m.types[categoryID] = append([]string(nil), productTypeIDs...)
	return nil
}

func (m *Memory) filter(keep func(domain.Category) bool) []domain.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Category
	for _, c := range m.rows {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
