package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	dom "justdo/internal/domain"
	"justdo/internal/query"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*TodoCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTodoCache(rdb, time.Minute), mr
}

func mustKey(t *testing.T) func(key string, err error) string {
	return func(key string, err error) string {
		t.Helper()
		require.NoError(t, err)
		return key
	}
}

func TestKeys_EqualQueriesShareKey(t *testing.T) {
	a := query.ListQuery{Filter: &query.Filter{Name: "milk", Done: query.DoneAll}}
	b := query.ListQuery{Filter: &query.Filter{Name: "milk", Done: query.DoneAll}}

	ka := mustKey(t)(ListKey(3, a))
	assert.Equal(t, ka, mustKey(t)(ListKey(3, b)))
	assert.True(t, strings.HasPrefix(ka, "todo:query:list:3:"))
}

func TestKeys_DifferentQueriesAndGenerationsDiffer(t *testing.T) {
	base := query.ListQuery{TodoOrder: []query.Order{{Field: "name", Direction: query.Asc}}}
	other := query.ListQuery{TodoOrder: []query.Order{{Field: "name", Direction: query.Desc}}}

	assert.NotEqual(t, mustKey(t)(ListKey(0, base)), mustKey(t)(ListKey(0, other)))
	assert.NotEqual(t, mustKey(t)(ListKey(0, base)), mustKey(t)(ListKey(1, base)))

	p1 := query.PagedQuery{ListQuery: base, Page: 1, ItemsPerPage: 10}
	p2 := query.PagedQuery{ListQuery: base, Page: 2, ItemsPerPage: 10}
	assert.NotEqual(t, mustKey(t)(PagedKey(0, p1)), mustKey(t)(PagedKey(0, p2)))
	assert.True(t, strings.HasPrefix(mustKey(t)(PagedKey(0, p1)), "todo:query:paged:0:"))
}

func TestTodoCache_ListRoundTripKeepsGroupOrder(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	early := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	env := query.ListEnvelope{TodoList: query.Groups{
		{DueDate: late, Todos: []dom.Todo{{ID: uuid.New(), Name: "Apple", DueDate: late}}},
		{DueDate: early, Todos: []dom.Todo{
			{ID: uuid.New(), Name: "Buy milk", DueDate: early},
			{ID: uuid.New(), Name: "Pay bills", DueDate: early, Done: true, Priority: dom.PriorityHigh},
		}},
	}}

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)
	key := mustKey(t)(ListKey(gen, query.ListQuery{}))

	miss, err := c.GetList(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, c.SetList(ctx, key, env))
	assert.Equal(t, time.Minute, mr.TTL(key))

	hit, err := c.GetList(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, hit)
	require.Len(t, hit.TodoList, 2)
	assert.True(t, late.Equal(hit.TodoList[0].DueDate))
	assert.Equal(t, env.TodoList[1].Todos, hit.TodoList[1].Todos)
}

func TestTodoCache_PagedRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := mustKey(t)(PagedKey(0, query.PagedQuery{Page: 2, ItemsPerPage: 5}))

	env := query.PagedEnvelope{TodoPaged: query.Paged{TotalItems: 7, Items: query.Groups{}, PageNum: 2, ItemsPerPage: 5}}
	require.NoError(t, c.SetPaged(ctx, key, env))

	hit, err := c.GetPaged(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.EqualValues(t, 7, hit.TodoPaged.TotalItems)
	assert.Equal(t, 2, hit.TodoPaged.PageNum)
}

func TestTodoCache_InvalidateAllRetiresEarlierGeneration(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	q := query.ListQuery{}

	before, err := c.Generation(ctx)
	require.NoError(t, err)
	oldKey := mustKey(t)(ListKey(before, q))
	require.NoError(t, c.SetList(ctx, oldKey, query.ListEnvelope{TodoList: query.Groups{}}))

	require.NoError(t, c.InvalidateAll(ctx))
	assert.False(t, mr.Exists(oldKey))

	// a load that read the store before the write finishes late
	require.NoError(t, c.SetList(ctx, oldKey, query.ListEnvelope{TodoList: query.Groups{}}))

	after, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	hit, err := c.GetList(ctx, mustKey(t)(ListKey(after, q)))
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestTodoCache_CorruptEntryIsAnError(t *testing.T) {
	c, mr := newTestCache(t)
	key := mustKey(t)(ListKey(0, query.ListQuery{}))
	require.NoError(t, mr.Set(key, "not json"))

	_, err := c.GetList(context.Background(), key)

	assert.Error(t, err)
}
