package pricing

import (
	"context"
	"sort"
	"sync"

	"github.com/banksampah/banksampah/internal/ledger"
)

type memoryRepository struct {
	mu         sync.RWMutex
	categories map[string]Category
}

// NewMemoryRepository builds an in-memory catalogue seeded with categories.
func NewMemoryRepository(categories ...Category) Repository {
	r := &memoryRepository{categories: make(map[string]Category, len(categories))}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *memoryRepository) Get(_ context.Context, id string) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return Category{}, ledger.ErrCategoryNotFound
	}
	return c, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Category, error) {
	r.mu.RLock()
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
