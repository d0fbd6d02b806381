package repo

import (
	"context"
	"sync"

	dom "justdo/internal/domain"
	"justdo/internal/query"

	"github.com/google/uuid"
)

// MemoryRepo keeps todos in insertion order. Used for STORE_DRIVER=memory and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	todos map[uuid.UUID]dom.Todo
	order []uuid.UUID
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{todos: map[uuid.UUID]dom.Todo{}}
}

// Seed inserts todos as-is, keeping their IDs.
func (r *MemoryRepo) Seed(ctx context.Context, todos []dom.Todo) error {
	for _, t := range todos {
		if _, err := r.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	if err := ctx.Err(); err != nil {
		return dom.Todo{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[t.ID]; ok {
		return dom.Todo{}, ErrDuplicateID
	}
	t.DueDate = t.DueDate.UTC()
	r.todos[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error) {
	if err := ctx.Err(); err != nil {
		return dom.Todo{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) Update(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	if err := ctx.Err(); err != nil {
		return dom.Todo{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[t.ID]; !ok {
		return dom.Todo{}, ErrNotFound
	}
	t.DueDate = t.DueDate.UTC()
	r.todos[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return ErrNotFound
	}
	delete(r.todos, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepo) Find(ctx context.Context, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(ctx, p, w)
}

func (r *MemoryRepo) Count(ctx context.Context, p query.Predicate) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countLocked(ctx, p)
}

// ReadCommitted holds the read lock for the whole of fn, so the reads it makes
// see one snapshot.
func (r *MemoryRepo) ReadCommitted(ctx context.Context, fn func(query.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(lockedMemoryReader{r: r})
}

func (r *MemoryRepo) findLocked(ctx context.Context, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]dom.Todo, 0)
	skipped := 0
	for _, id := range r.order {
		t := r.todos[id]
		if !p.Match(t) {
			continue
		}
		if skipped < w.Offset {
			skipped++
			continue
		}
		if w.Limit > 0 && len(out) >= w.Limit {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *MemoryRepo) countLocked(ctx context.Context, p query.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range r.order {
		if p.Match(r.todos[id]) {
			n++
		}
	}
	return n, nil
}

type lockedMemoryReader struct {
	r *MemoryRepo
}

func (l lockedMemoryReader) Find(ctx context.Context, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	return l.r.findLocked(ctx, p, w)
}

func (l lockedMemoryReader) Count(ctx context.Context, p query.Predicate) (int64, error) {
	return l.r.countLocked(ctx, p)
}
