package query

import (
	"context"
	"fmt"
	"math"

	dom "justdo/internal/domain"
)

// Window bounds a Find. Limit <= 0 means no limit.
type Window struct {
	Offset int
	Limit  int
}

// Reader is the read side of a record store.
type Reader interface {
	Find(ctx context.Context, p Predicate, w Window) ([]dom.Todo, error)
	Count(ctx context.Context, p Predicate) (int64, error)
}

// Store is a Reader that can group several reads into one read-committed,
// read-only unit. It does not prevent count/slice skew under concurrent writes.
type Store interface {
	Reader
	ReadCommitted(ctx context.Context, fn func(r Reader) error) error
}

// Page counts the records matching p and reads the pageIndex-th slice of
// pageSize records in the store's own order. pageIndex is zero-based.
func Page(ctx context.Context, r Reader, p Predicate, pageIndex, pageSize int) ([]dom.Todo, int64, error) {
	if pageIndex < 0 || pageSize <= 0 {
		return nil, 0, fmt.Errorf("page: invalid window index=%d size=%d", pageIndex, pageSize)
	}
	total, err := r.Count(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}
	// An index whose offset overflows int is past any store's end.
	if pageIndex > math.MaxInt/pageSize {
		return []dom.Todo{}, total, nil
	}
	offset := pageIndex * pageSize
	if int64(offset) >= total {
		return []dom.Todo{}, total, nil
	}
	items, err := r.Find(ctx, p, Window{Offset: offset, Limit: pageSize})
	if err != nil {
		return nil, 0, fmt.Errorf("find: %w", err)
	}
	return items, total, nil
}
