package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dom "justdo/internal/domain"
	"justdo/internal/query"
	"justdo/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// todoRow mirrors the todos table (see migrations/00001_create_todos.sql).
type todoRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"not null"`
	DueDateUTC time.Time `gorm:"column:due_date_utc;not null"`
	Priority   int16     `gorm:"not null;default:0"`
	Done       bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (todoRow) TableName() string { return "todos" }

func rowFromTodo(t dom.Todo) todoRow {
	return todoRow{
		ID:         t.ID,
		Name:       t.Name,
		DueDateUTC: t.DueDate.UTC(),
		Priority:   int16(t.Priority),
		Done:       t.Done,
	}
}

func (r todoRow) todo() dom.Todo {
	return dom.Todo{
		ID:       r.ID,
		Name:     r.Name,
		DueDate:  r.DueDateUTC.UTC(),
		Priority: dom.Priority(r.Priority),
		Done:     r.Done,
	}
}

// GormTodoRepo is the STORE_DRIVER=gorm record store.
type GormTodoRepo struct {
	db *gorm.DB
}

func NewGormTodoRepo(db *gorm.DB) *GormTodoRepo {
	return &GormTodoRepo{db: db}
}

func (r *GormTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	row := rowFromTodo(t)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || utils.IsPGUniqueViolation(err) {
			return dom.Todo{}, ErrDuplicateID
		}
		return dom.Todo{}, err
	}
	return row.todo(), nil
}

func (r *GormTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error) {
	var row todoRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return row.todo(), nil
}

func (r *GormTodoRepo) Update(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	row := rowFromTodo(t)
	res := r.db.WithContext(ctx).Model(&todoRow{}).Where("id = ?", t.ID).Updates(map[string]any{
		"name":         row.Name,
		"due_date_utc": row.DueDateUTC,
		"priority":     row.Priority,
		"done":         row.Done,
	})
	if res.Error != nil {
		return dom.Todo{}, res.Error
	}
	if res.RowsAffected == 0 {
		return dom.Todo{}, ErrNotFound
	}
	return row.todo(), nil
}

func (r *GormTodoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&todoRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormTodoRepo) Find(ctx context.Context, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	return gormFind(r.db.WithContext(ctx), p, w)
}

func (r *GormTodoRepo) Count(ctx context.Context, p query.Predicate) (int64, error) {
	return gormCount(r.db.WithContext(ctx), p)
}

func (r *GormTodoRepo) ReadCommitted(ctx context.Context, fn func(query.Reader) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormTxReader{tx: tx})
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: true})
}

type gormTxReader struct {
	tx *gorm.DB
}

func (r gormTxReader) Find(ctx context.Context, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	return gormFind(r.tx.WithContext(ctx), p, w)
}

func (r gormTxReader) Count(ctx context.Context, p query.Predicate) (int64, error) {
	return gormCount(r.tx.WithContext(ctx), p)
}

func gormFind(db *gorm.DB, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	var rows []todoRow
	q := applyPredicate(db.Model(&todoRow{}), p).Order("created_at ASC").Order("id ASC")
	if w.Limit > 0 {
		q = q.Limit(w.Limit)
	}
	if w.Offset > 0 {
		q = q.Offset(w.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dom.Todo, len(rows))
	for i := range rows {
		out[i] = rows[i].todo()
	}
	return out, nil
}

func gormCount(db *gorm.DB, p query.Predicate) (int64, error) {
	var n int64
	err := applyPredicate(db.Model(&todoRow{}), p).Count(&n).Error
	return n, err
}

// applyPredicate is the gorm rendering of query.Predicate; keep in step with whereClause.
func applyPredicate(q *gorm.DB, p query.Predicate) *gorm.DB {
	if p.From != nil {
		q = q.Where("(due_date_utc AT TIME ZONE 'UTC')::date >= ?::date", *p.From)
	}
	if p.To != nil {
		q = q.Where("(due_date_utc AT TIME ZONE 'UTC')::date <= ?::date", *p.To)
	}
	if p.Name != "" {
		q = q.Where(`name ILIKE ? ESCAPE '\'`, utils.ContainsPattern(p.Name))
	}
	if p.Done != nil {
		q = q.Where("done = ?", *p.Done)
	}
	return q
}
