package query

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	dom "justdo/internal/domain"
)

// ListQuery is an unpaged grouped listing request.
type ListQuery struct {
	Filter     *Filter
	GroupOrder *Order
	TodoOrder  []Order
}

// PagedQuery adds paging. Page is 1-based as on the wire; the first page is 1.
type PagedQuery struct {
	ListQuery
	Page         int
	ItemsPerPage int
}

type ListEnvelope struct {
	TodoList Groups `json:"todoList"`
}

type Paged struct {
	TotalItems   int64  `json:"totalItems"`
	Items        Groups `json:"items"`
	PageNum      int    `json:"pageNum"`
	ItemsPerPage int    `json:"itemsPerPage"`
}

type PagedEnvelope struct {
	TodoPaged Paged `json:"todoPaged"`
}

// Pipeline runs filter, page, group and sort stages against an injected store.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	store Store
	log   *zap.Logger
}

func NewPipeline(store Store, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{store: store, log: log}
}

// List returns every matching record grouped by due date.
func (p *Pipeline) List(ctx context.Context, q ListQuery) (ListEnvelope, error) {
	start := time.Now()
	pred := Compile(q.Filter)

	todos, err := p.store.Find(ctx, pred, Window{})
	if err != nil {
		return ListEnvelope{}, fmt.Errorf("list todos: %w", err)
	}
	groups, err := p.group(ctx, todos, q)
	if err != nil {
		return ListEnvelope{}, err
	}

	p.log.Debug("todo list query",
		zap.Int("items", len(todos)),
		zap.Int("groups", len(groups)),
		zap.Duration("took", time.Since(start)),
	)
	return ListEnvelope{TodoList: groups}, nil
}

// PagedList counts the matching records and groups one page of them. Paging
// happens before ordering: group and item order only rearrange the page.
func (p *Pipeline) PagedList(ctx context.Context, q PagedQuery) (PagedEnvelope, error) {
	start := time.Now()
	pred := Compile(q.Filter)

	var (
		todos []dom.Todo
		total int64
	)
	err := p.store.ReadCommitted(ctx, func(r Reader) error {
		var err error
		todos, total, err = Page(ctx, r, pred, q.Page-1, q.ItemsPerPage)
		return err
	})
	if err != nil {
		return PagedEnvelope{}, fmt.Errorf("paged todos: %w", err)
	}
	groups, err := p.group(ctx, todos, q.ListQuery)
	if err != nil {
		return PagedEnvelope{}, err
	}

	p.log.Debug("todo paged query",
		zap.Int("page", q.Page),
		zap.Int("items_per_page", q.ItemsPerPage),
		zap.Int("items", len(todos)),
		zap.Int64("total", total),
		zap.Duration("took", time.Since(start)),
	)
	return PagedEnvelope{TodoPaged: Paged{
		TotalItems:   total,
		Items:        groups,
		PageNum:      q.Page,
		ItemsPerPage: q.ItemsPerPage,
	}}, nil
}

func (p *Pipeline) group(ctx context.Context, todos []dom.Todo, q ListQuery) (Groups, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return GroupAndOrderContext(ctx, todos, q.GroupOrder, q.TodoOrder)
}
