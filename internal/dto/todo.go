package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "justdo/internal/domain"
	"justdo/internal/query"

	"github.com/google/uuid"
)

// DateTime parses a timestamp from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is taken as start of that day in UTC. The offset is kept so the
// `utc` validator can reject non-UTC input.
type DateTime struct {
	t   time.Time
	set bool
}

func NewDateTime(t time.Time) DateTime { return DateTime{t: t, set: true} }

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*d = DateTime{}
		return nil
	}
	s := strings.TrimSpace(*raw)
	if parsed, err := time.Parse("2006-01-02", s); err == nil {
		*d = DateTime{t: parsed.UTC(), set: true}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("use date (YYYY-MM-DD) or RFC3339 datetime, got %q", s)
	}
	*d = DateTime{t: parsed, set: true}
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if !d.set {
		return []byte("null"), nil
	}
	return json.Marshal(d.t.Format(time.RFC3339Nano))
}

func (d DateTime) IsSet() bool { return d.set }

// Time returns the parsed value as written, offset included.
func (d DateTime) Time() time.Time { return d.t }

// Ptr returns the UTC value, nil when unset.
func (d DateTime) Ptr() *time.Time {
	if !d.set {
		return nil
	}
	u := d.t.UTC()
	return &u
}

type CreateTodoRequest struct {
	Name     string        `json:"name" binding:"required,min=1,max=200"`
	DueDate  DateTime      `json:"dueDate" binding:"required,utc"`
	Priority *dom.Priority `json:"priority"` // optional, default not_set
}

type CreateTodoResponse struct {
	ID uuid.UUID `json:"id"`
}

type UpdateTodoRequest struct {
	Name     *string       `json:"name" binding:"omitempty,max=200"`
	DueDate  *DateTime     `json:"dueDate" binding:"omitempty,utc"`
	Done     *bool         `json:"done"`
	Priority *dom.Priority `json:"priority"`
}

type TodoEnvelope struct {
	Todo dom.Todo `json:"todo"`
}

type DateRangeRequest struct {
	From DateTime `json:"from" binding:"omitempty,utc"`
	To   DateTime `json:"to" binding:"omitempty,utc"`
}

type FiltersRequest struct {
	DueDate *DateRangeRequest `json:"dueDate"`
	Name    string            `json:"name" binding:"max=200"`
	Done    string            `json:"done" binding:"omitempty,oneof=done not_done all"`
}

type OrderRequest struct {
	Field     string `json:"field" binding:"required,max=64"`
	Direction string `json:"direction" binding:"omitempty,direction"`
}

type ListQueryRequest struct {
	Filters    *FiltersRequest `json:"filters"`
	GroupOrder *OrderRequest   `json:"groupOrder"`
	TodoOrder  []OrderRequest  `json:"todoOrder" binding:"omitempty,max=16,dive"`
}

type PagedQueryRequest struct {
	ListQueryRequest
	Page         *int `json:"page" binding:"omitempty,min=1,max=1000000"`
	ItemsPerPage *int `json:"itemsPerPage" binding:"omitempty,min=1"`
}

const (
	MaxPage             = 1000000
	DefaultPage         = 1
	DefaultItemsPerPage = 25
)

func (o OrderRequest) toOrder() query.Order {
	return query.Order{Field: o.Field, Direction: query.ParseDirection(o.Direction)}
}

// ToQuery converts a validated request into pipeline input.
func (r ListQueryRequest) ToQuery() query.ListQuery {
	var q query.ListQuery
	if r.Filters != nil {
		f := &query.Filter{
			Name: r.Filters.Name,
			Done: query.ParseDoneState(r.Filters.Done),
		}
		if r.Filters.DueDate != nil {
			f.DueFrom = r.Filters.DueDate.From.Ptr()
			f.DueTo = r.Filters.DueDate.To.Ptr()
		}
		q.Filter = f
	}
	if r.GroupOrder != nil {
		o := r.GroupOrder.toOrder()
		q.GroupOrder = &o
	}
	for _, o := range r.TodoOrder {
		q.TodoOrder = append(q.TodoOrder, o.toOrder())
	}
	return q
}

// ToQuery applies the paging defaults: page 1, DefaultItemsPerPage.
func (r PagedQueryRequest) ToQuery() query.PagedQuery {
	q := query.PagedQuery{
		ListQuery:    r.ListQueryRequest.ToQuery(),
		Page:         DefaultPage,
		ItemsPerPage: DefaultItemsPerPage,
	}
	if r.Page != nil {
		q.Page = *r.Page
	}
	if r.ItemsPerPage != nil {
		q.ItemsPerPage = *r.ItemsPerPage
	}
	return q
}

// ErrorResponse is one entry of an error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ErrorsResponse struct {
	Errors []ErrorResponse `json:"errors"`
}
