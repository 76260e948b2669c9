package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
)

// memoryRepository keeps the catalog in process memory. Used by tests and
// by standalone runs that have no database configured.
type memoryRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]models.Item
}

// NewMemoryRepository returns an empty in-memory catalog repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{nextID: 1, items: map[int64]models.Item{}}
}

func (r *memoryRepository) List(ctx context.Context) ([]models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]models.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *memoryRepository) Create(ctx context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = *item
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = *item
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}
