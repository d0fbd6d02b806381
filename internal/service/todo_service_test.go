package service

import (
	"context"
	"testing"
	"time"

	"justdo/internal/cache"
	dom "justdo/internal/domain"
	"justdo/internal/metrics"
	"justdo/internal/query"
	"justdo/internal/repo"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*TodoService, *repo.MemoryRepo) {
	t.Helper()
	r := repo.NewMemoryRepo()
	return NewTodoService(r, nil, metrics.New(), zap.NewNop()), r
}

func due(s string) time.Time {
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTodoService_CreateAndGet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "  pay rent  ", due("2020-01-10T10:00:00Z"), dom.PriorityHigh)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "pay rent", got.Name)
	assert.Equal(t, dom.PriorityHigh, got.Priority)
	assert.False(t, got.Done)
	assert.True(t, due("2020-01-10T10:00:00Z").Equal(got.DueDate))
}

func TestTodoService_CreateRejectsBlankName(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), "   ", time.Now(), dom.PriorityNotSet)

	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestTodoService_UpdatePartial(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "call mom", due("2020-01-10T00:00:00Z"), dom.PriorityLow)
	require.NoError(t, err)

	done := true
	blank := " "
	got, err := svc.Update(ctx, id, &blank, nil, &done, nil)
	require.NoError(t, err)
	assert.Equal(t, "call mom", got.Name)
	assert.True(t, got.Done)
	assert.Equal(t, dom.PriorityLow, got.Priority)

	name := "call dad"
	newDue := due("2020-02-01T00:00:00Z")
	got, err = svc.Update(ctx, id, &name, &newDue, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "call dad", got.Name)
	assert.True(t, newDue.Equal(got.DueDate))
	assert.True(t, got.Done)
}

func TestTodoService_NotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	missing := uuid.New()

	_, err := svc.GetByID(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)

	done := true
	_, err = svc.Update(ctx, missing, nil, nil, &done, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, missing), ErrNotFound)
}

func TestTodoService_DeleteRemovesFromQueries(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "temp", time.Now(), dom.PriorityNotSet)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	env, err := svc.List(ctx, query.ListQuery{Filter: &query.Filter{Done: query.DoneAll}})
	require.NoError(t, err)
	assert.Equal(t, 0, env.TodoList.Len())
}

func TestTodoService_ListAndPaged(t *testing.T) {
	svc, r := newService(t)
	ctx := context.Background()
	require.NoError(t, r.Seed(ctx, []dom.Todo{
		{ID: uuid.New(), Name: "Buy milk", DueDate: due("2020-01-10T00:00:00Z")},
		{ID: uuid.New(), Name: "Pay bills", DueDate: due("2020-01-10T00:00:00Z"), Done: true},
		{ID: uuid.New(), Name: "Apple", DueDate: due("2020-02-01T00:00:00Z")},
	}))

	list, err := svc.List(ctx, query.ListQuery{Filter: &query.Filter{Done: query.DoneAll}})
	require.NoError(t, err)
	require.Len(t, list.TodoList, 2)
	assert.True(t, due("2020-02-01T00:00:00Z").Equal(list.TodoList[0].DueDate))

	paged, err := svc.PagedList(ctx, query.PagedQuery{
		ListQuery:    query.ListQuery{Filter: &query.Filter{Done: query.DoneNot}},
		Page:         1,
		ItemsPerPage: 1,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, paged.TodoPaged.TotalItems)
	assert.Equal(t, 1, paged.TodoPaged.Items.Len())
	assert.Equal(t, "Buy milk", paged.TodoPaged.Items[0].Todos[0].Name)
}

func TestTodoService_UnreachableCacheFallsBackToStore(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	r := repo.NewMemoryRepo()
	svc := NewTodoService(r, cache.NewTodoCache(rdb, time.Minute), metrics.New(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "still works", due("2020-01-10T00:00:00Z"), dom.PriorityNotSet)
	require.NoError(t, err)

	env, err := svc.List(ctx, query.ListQuery{Filter: &query.Filter{Done: query.DoneAll}})
	require.NoError(t, err)
	assert.Equal(t, 1, env.TodoList.Len())
}

func TestTodoService_CancelledQuery(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.PagedList(ctx, query.PagedQuery{Page: 1, ItemsPerPage: 10})

	assert.ErrorIs(t, err, context.Canceled)
}

// findHookRepo runs afterFind once, after the first read has returned.
type findHookRepo struct {
	*repo.MemoryRepo
	afterFind func()
}

func (r *findHookRepo) Find(ctx context.Context, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	todos, err := r.MemoryRepo.Find(ctx, p, w)
	if hook := r.afterFind; hook != nil {
		r.afterFind = nil
		hook()
	}
	return todos, err
}

func TestTodoService_WriteDuringLoadDoesNotLeaveStaleCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := &findHookRepo{MemoryRepo: repo.NewMemoryRepo()}
	svc := NewTodoService(r, cache.NewTodoCache(rdb, time.Minute), metrics.New(), zap.NewNop())
	ctx := context.Background()
	all := query.ListQuery{Filter: &query.Filter{Done: query.DoneAll}}

	id, err := svc.Create(ctx, "soon gone", due("2020-01-10T00:00:00Z"), dom.PriorityNotSet)
	require.NoError(t, err)

	r.afterFind = func() { assert.NoError(t, svc.Delete(ctx, id)) }
	first, err := svc.List(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TodoList.Len())

	second, err := svc.List(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, 0, second.TodoList.Len())
}

func TestTodoService_CacheHitServesWithoutStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := &findHookRepo{MemoryRepo: repo.NewMemoryRepo()}
	svc := NewTodoService(r, cache.NewTodoCache(rdb, time.Minute), metrics.New(), zap.NewNop())
	ctx := context.Background()
	all := query.ListQuery{Filter: &query.Filter{Done: query.DoneAll}}

	_, err := svc.Create(ctx, "cached", due("2020-01-10T00:00:00Z"), dom.PriorityNotSet)
	require.NoError(t, err)
	_, err = svc.List(ctx, all)
	require.NoError(t, err)

	reads := 0
	r.afterFind = func() { reads++ }
	env, err := svc.List(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, 1, env.TodoList.Len())
	assert.Zero(t, reads)
}
