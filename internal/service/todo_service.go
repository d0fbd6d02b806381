package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"justdo/internal/cache"
	dom "justdo/internal/domain"
	"justdo/internal/metrics"
	"justdo/internal/query"
	"justdo/internal/repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrEmptyName = errors.New("name must not be empty")
)

type TodoService struct {
	repo     repo.TodoRepo
	pipeline *query.Pipeline
	cache    *cache.TodoCache
	metrics  *metrics.Metrics
	log      *zap.Logger
	sf       singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled;
// m may be nil as well.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache, m *metrics.Metrics, log *zap.Logger) *TodoService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TodoService{
		repo:     r,
		pipeline: query.NewPipeline(r, log.Named("query")),
		cache:    c,
		metrics:  m,
		log:      log,
	}
}

func (s *TodoService) Create(ctx context.Context, name string, dueDate time.Time, priority dom.Priority) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, ErrEmptyName
	}
	t, err := s.repo.Create(ctx, dom.Todo{
		ID:       uuid.New(),
		Name:     name,
		DueDate:  dueDate.UTC(),
		Priority: priority,
	})
	if err != nil {
		return uuid.Nil, err
	}
	s.invalidateCache(ctx)
	return t.ID, nil
}

func (s *TodoService) GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Update applies the non-nil fields. A blank name leaves the name unchanged.
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, name *string, dueDate *time.Time, done *bool, priority *dom.Priority) (dom.Todo, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	patch := existing
	if name != nil && strings.TrimSpace(*name) != "" {
		patch.Name = strings.TrimSpace(*name)
	}
	if dueDate != nil {
		patch.DueDate = dueDate.UTC()
	}
	if done != nil {
		patch.Done = *done
	}
	if priority != nil {
		patch.Priority = *priority
	}
	if patch == existing {
		return existing, nil
	}
	t, err := s.repo.Update(ctx, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// List runs the unpaged grouped query.
func (s *TodoService) List(ctx context.Context, q query.ListQuery) (query.ListEnvelope, error) {
	load := func(ctx context.Context) (query.ListEnvelope, error) {
		start := time.Now()
		env, err := s.pipeline.List(ctx, q)
		s.metrics.ObserveQuery("list", err, time.Since(start))
		return env, err
	}
	if s.cache == nil {
		return load(ctx)
	}
	key, err := s.cacheKey(ctx, "list", func(gen int64) (string, error) { return cache.ListKey(gen, q) })
	if err != nil {
		return load(ctx)
	}
	return cachedQuery(ctx, s, "list", key, s.cache.GetList, s.cache.SetList, load)
}

// PagedList runs the paged grouped query. q.Page is 1-based.
func (s *TodoService) PagedList(ctx context.Context, q query.PagedQuery) (query.PagedEnvelope, error) {
	load := func(ctx context.Context) (query.PagedEnvelope, error) {
		start := time.Now()
		env, err := s.pipeline.PagedList(ctx, q)
		s.metrics.ObserveQuery("paged", err, time.Since(start))
		return env, err
	}
	if s.cache == nil {
		return load(ctx)
	}
	key, err := s.cacheKey(ctx, "paged", func(gen int64) (string, error) { return cache.PagedKey(gen, q) })
	if err != nil {
		return load(ctx)
	}
	return cachedQuery(ctx, s, "paged", key, s.cache.GetPaged, s.cache.SetPaged, load)
}

// cacheKey builds the key from the generation current before the load. On
// error the caller skips the cache.
func (s *TodoService) cacheKey(ctx context.Context, kind string, build func(gen int64) (string, error)) (string, error) {
	gen, err := s.cache.Generation(ctx)
	if err == nil {
		var key string
		if key, err = build(gen); err == nil {
			return key, nil
		}
	}
	s.metrics.CacheResult(kind, "error")
	s.log.Warn("query cache key unavailable", zap.String("kind", kind), zap.Error(err))
	return "", err
}

// cachedQuery serves key from the cache, collapsing concurrent misses into one
// load. A load that failed only because another caller's context ended is
// retried with ours.
func cachedQuery[T any](
	ctx context.Context,
	s *TodoService,
	kind, key string,
	get func(context.Context, string) (*T, error),
	set func(context.Context, string, T) error,
	load func(context.Context) (T, error),
) (T, error) {
	ch := s.sf.DoChan(key, func() (any, error) {
		hit, err := get(ctx, key)
		switch {
		case err != nil:
			s.metrics.CacheResult(kind, "error")
			s.log.Warn("query cache read failed", zap.String("key", key), zap.Error(err))
		case hit != nil:
			s.metrics.CacheResult(kind, "hit")
			return *hit, nil
		default:
			s.metrics.CacheResult(kind, "miss")
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := set(ctx, key, v); err != nil {
			s.log.Warn("query cache write failed", zap.String("key", key), zap.Error(err))
		}
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if isContextErr(res.Err) && ctx.Err() == nil {
				return load(ctx)
			}
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.log.Warn("query cache invalidation failed", zap.Error(err))
		}
	}
}
