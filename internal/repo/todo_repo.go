package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dom "justdo/internal/domain"
	"justdo/internal/query"
	"justdo/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("todo not found")
	ErrDuplicateID = errors.New("todo id already exists")
)

// TodoRepo is the record store: CRUD plus predicate reads.
type TodoRepo interface {
	query.Store
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error)
	Update(ctx context.Context, t dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const todoColumns = `id, name, due_date_utc, priority, done`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	stmt := `
		INSERT INTO todos (id, name, due_date_utc, priority, done)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + todoColumns
	out, err := scanTodo(r.db.QueryRow(ctx, stmt, t.ID, t.Name, t.DueDate.UTC(), int16(t.Priority), t.Done))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.Todo{}, ErrDuplicateID
		}
		return dom.Todo{}, err
	}
	return out, nil
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error) {
	stmt := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	t, err := scanTodo(r.db.QueryRow(ctx, stmt, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, ErrNotFound
	}
	return t, err
}

func (r *PGTodoRepo) Update(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	stmt := `
		UPDATE todos SET name = $2, due_date_utc = $3, priority = $4, done = $5
		WHERE id = $1
		RETURNING ` + todoColumns
	out, err := scanTodo(r.db.QueryRow(ctx, stmt, t.ID, t.Name, t.DueDate.UTC(), int16(t.Priority), t.Done))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, ErrNotFound
	}
	return out, err
}

func (r *PGTodoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGTodoRepo) Find(ctx context.Context, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	return findTodos(ctx, r.db, p, w)
}

func (r *PGTodoRepo) Count(ctx context.Context, p query.Predicate) (int64, error) {
	return countTodos(ctx, r.db, p)
}

// ReadCommitted runs fn inside one read-only READ COMMITTED transaction.
func (r *PGTodoRepo) ReadCommitted(ctx context.Context, fn func(query.Reader) error) error {
	return pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadOnly,
	}, func(tx pgx.Tx) error {
		return fn(pgTxReader{tx: tx})
	})
}

type pgTxReader struct {
	tx pgx.Tx
}

func (r pgTxReader) Find(ctx context.Context, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	return findTodos(ctx, r.tx, p, w)
}

func (r pgTxReader) Count(ctx context.Context, p query.Predicate) (int64, error) {
	return countTodos(ctx, r.tx, p)
}

func findTodos(ctx context.Context, q querier, p query.Predicate, w query.Window) ([]dom.Todo, error) {
	where, args := whereClause(p)
	sql := `SELECT ` + todoColumns + ` FROM todos` + where + ` ORDER BY created_at, id`
	if w.Limit > 0 {
		args = append(args, w.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if w.Offset > 0 {
		args = append(args, w.Offset)
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]dom.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func countTodos(ctx context.Context, q querier, p query.Predicate) (int64, error) {
	where, args := whereClause(p)
	var n int64
	err := q.QueryRow(ctx, `SELECT count(*) FROM todos`+where, args...).Scan(&n)
	return n, err
}

// whereClause renders p as SQL. Range bounds compare UTC calendar days.
func whereClause(p query.Predicate) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if p.From != nil {
		add(`(due_date_utc AT TIME ZONE 'UTC')::date >= $%d::date`, *p.From)
	}
	if p.To != nil {
		add(`(due_date_utc AT TIME ZONE 'UTC')::date <= $%d::date`, *p.To)
	}
	if p.Name != "" {
		add(`name ILIKE $%d ESCAPE '\'`, utils.ContainsPattern(p.Name))
	}
	if p.Done != nil {
		add(`done = $%d`, *p.Done)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanTodo(row pgx.Row) (dom.Todo, error) {
	var (
		t        dom.Todo
		priority int16
	)
	if err := row.Scan(&t.ID, &t.Name, &t.DueDate, &priority, &t.Done); err != nil {
		return dom.Todo{}, err
	}
	t.DueDate = t.DueDate.UTC()
	t.Priority = dom.Priority(priority)
	return t, nil
}
