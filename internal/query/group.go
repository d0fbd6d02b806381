package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	dom "justdo/internal/domain"
)

// Group holds the records sharing one exact due date.
type Group struct {
	DueDate time.Time
	Todos   []dom.Todo
}

// Groups is an ordered due-date mapping. It marshals to a JSON object whose
// keys appear in slice order.
type Groups []Group

// GroupAndOrder partitions records by exact due-date timestamp, orders each
// group with itemOrders and orders the groups by groupOrder.
func GroupAndOrder(records []dom.Todo, groupOrder *Order, itemOrders []Order) Groups {
	g, _ := GroupAndOrderContext(context.Background(), records, groupOrder, itemOrders)
	return g
}

// GroupAndOrderContext is GroupAndOrder that stops between groups once ctx is done.
func GroupAndOrderContext(ctx context.Context, records []dom.Todo, groupOrder *Order, itemOrders []Order) (Groups, error) {
	index := make(map[time.Time]int)
	groups := make(Groups, 0)
	for _, t := range records {
		key := t.DueDate.UTC().Round(0)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{DueDate: key})
		}
		groups[i].Todos = append(groups[i].Todos, t)
	}

	for i := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		groups[i].Todos = Sort(groups[i].Todos, itemOrders)
	}

	desc := groupDirection(groupOrder) == Desc
	slices.SortFunc(groups, func(a, b Group) int {
		c := a.DueDate.Compare(b.DueDate)
		if desc {
			return -c
		}
		return c
	})
	return groups, nil
}

// groupDirection applies the fallback rule: only a due-date group order is
// honoured, everything else sorts groups descending.
func groupDirection(o *Order) Direction {
	if o == nil || ParseField(o.Field) != FieldDueDate {
		return Desc
	}
	return o.Direction.Resolve()
}

// Len is the number of records across all groups.
func (g Groups) Len() int {
	n := 0
	for _, grp := range g {
		n += len(grp.Todos)
	}
	return n
}

const groupKeyLayout = time.RFC3339Nano

func (g Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, grp := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(grp.DueDate.UTC().Format(groupKeyLayout))
		if err != nil {
			return nil, err
		}
		todos := grp.Todos
		if todos == nil {
			todos = []dom.Todo{}
		}
		val, err := json.Marshal(todos)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (g *Groups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("groups: expected object, got %v", tok)
	}
	out := make(Groups, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("groups: expected key, got %v", tok)
		}
		due, err := time.Parse(groupKeyLayout, key)
		if err != nil {
			return fmt.Errorf("groups: key %q: %w", key, err)
		}
		var todos []dom.Todo
		if err := dec.Decode(&todos); err != nil {
			return err
		}
		out = append(out, Group{DueDate: due.UTC(), Todos: todos})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = out
	return nil
}
