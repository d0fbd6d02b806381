package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	dom "justdo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceStore serves records in slice order.
type sliceStore struct {
	mu       sync.Mutex
	todos    []dom.Todo
	findErr  error
	countErr error
	txCalls  int
}

func (s *sliceStore) Find(ctx context.Context, p Predicate, w Window) ([]dom.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.findErr != nil {
		return nil, s.findErr
	}
	matched := Apply(s.todos, p)
	if w.Offset >= len(matched) {
		return []dom.Todo{}, nil
	}
	matched = matched[w.Offset:]
	if w.Limit > 0 && w.Limit < len(matched) {
		matched = matched[:w.Limit]
	}
	return matched, nil
}

func (s *sliceStore) Count(ctx context.Context, p Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(Apply(s.todos, p))), nil
}

func (s *sliceStore) ReadCommitted(ctx context.Context, fn func(Reader) error) error {
	s.mu.Lock()
	s.txCalls++
	s.mu.Unlock()
	return fn(s)
}

func fiveOpen() []dom.Todo {
	out := make([]dom.Todo, 0, 5)
	for i := 1; i <= 5; i++ {
		out = append(out, todo(fmt.Sprintf("t%d", i), fmt.Sprintf("2020-01-0%dT00:00:00Z", i), false))
	}
	return out
}

func TestPage_FirstPage(t *testing.T) {
	s := &sliceStore{todos: fiveOpen()}
	p := Compile(&Filter{Done: DoneNot})

	items, total, err := Page(context.Background(), s, p, 0, 2)

	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Equal(t, []string{"t1", "t2"}, names(items))
}

func TestPage_LastPartialPage(t *testing.T) {
	s := &sliceStore{todos: fiveOpen()}

	items, total, err := Page(context.Background(), s, Compile(&Filter{Done: DoneAll}), 2, 2)

	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Equal(t, []string{"t5"}, names(items))
}

func TestPage_BeyondEndIsEmptyWithTotal(t *testing.T) {
	s := &sliceStore{todos: fiveOpen()}

	items, total, err := Page(context.Background(), s, Compile(&Filter{Done: DoneAll}), 10, 2)

	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Empty(t, items)
}

func TestPage_TotalIndependentOfWindow(t *testing.T) {
	s := &sliceStore{todos: fiveOpen()}
	p := Compile(&Filter{Done: DoneAll})

	for _, size := range []int{1, 2, 3, 7} {
		for idx := 0; idx < 4; idx++ {
			_, total, err := Page(context.Background(), s, p, idx, size)
			require.NoError(t, err)
			assert.EqualValues(t, 5, total, "index=%d size=%d", idx, size)
		}
	}
}

func TestPage_RejectsInvalidWindow(t *testing.T) {
	s := &sliceStore{todos: fiveOpen()}

	_, _, err := Page(context.Background(), s, Predicate{}, -1, 2)
	assert.Error(t, err)
	_, _, err = Page(context.Background(), s, Predicate{}, 0, 0)
	assert.Error(t, err)
}

func TestPage_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")

	_, _, err := Page(context.Background(), &sliceStore{todos: fiveOpen(), countErr: boom}, Predicate{}, 0, 2)
	assert.ErrorIs(t, err, boom)

	_, _, err = Page(context.Background(), &sliceStore{todos: fiveOpen(), findErr: boom}, Predicate{}, 0, 2)
	assert.ErrorIs(t, err, boom)
}

func TestPage_OverflowingOffsetIsPastTheEnd(t *testing.T) {
	s := &sliceStore{todos: fiveOpen()}

	items, total, err := Page(context.Background(), s, Compile(&Filter{Done: DoneAll}), 1<<60, 16)

	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Empty(t, items)
}
