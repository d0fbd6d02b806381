package query

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	dom "justdo/internal/domain"
)

// Field is a sortable Todo attribute. Client strings are mapped onto this
// closed set; anything unknown is FieldUnknown.
type Field int

const (
	FieldUnknown Field = iota
	FieldName
	FieldDone
	FieldDueDate
)

var fieldTokens = map[string]Field{
	"name":       FieldName,
	"done":       FieldDone,
	"duedate":    FieldDueDate,
	"duedateutc": FieldDueDate,
	"due_date":   FieldDueDate,
}

// ParseField matches s case-insensitively against the whitelist.
func ParseField(s string) Field {
	return fieldTokens[strings.ToLower(strings.TrimSpace(s))]
}

// Direction of a sort key. The zero value is unspecified and resolves to Desc.
type Direction int

const (
	DirectionUnspecified Direction = iota
	Asc
	Desc
)

// ParseDirection maps "asc"/"desc" case-insensitively; anything else is unspecified.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc
	case "desc":
		return Desc
	}
	return DirectionUnspecified
}

func (d Direction) Resolve() Direction {
	if d == DirectionUnspecified {
		return Desc
	}
	return d
}

func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	}
	return ""
}

// Order is one client-supplied (field, direction) pair.
type Order struct {
	Field     string
	Direction Direction
}

type compareFunc func(a, b dom.Todo) int

type sortKey struct {
	cmp  compareFunc
	desc bool
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// comparators builds the accessor table for one sort call; collate.Collator
// keeps internal buffers and is not safe to share between goroutines.
func comparators() map[Field]compareFunc {
	col := collate.New(language.Und)
	return map[Field]compareFunc{
		FieldName: func(a, b dom.Todo) int {
			if c := col.CompareString(a.Name, b.Name); c != 0 {
				return c
			}
			return strings.Compare(a.Name, b.Name)
		},
		FieldDone: func(a, b dom.Todo) int {
			return compareBool(a.Done, b.Done)
		},
		FieldDueDate: func(a, b dom.Todo) int {
			return a.DueDate.Compare(b.DueDate)
		},
	}
}

// defaultOrder: done, due date, name, all ascending.
var defaultOrder = []Order{
	{Field: "done", Direction: Asc},
	{Field: "dueDate", Direction: Asc},
	{Field: "name", Direction: Asc},
}

func buildKeys(orders []Order, table map[Field]compareFunc) []sortKey {
	keys := make([]sortKey, 0, len(orders))
	for _, o := range orders {
		f := ParseField(o.Field)
		if f == FieldUnknown {
			continue
		}
		keys = append(keys, sortKey{cmp: table[f], desc: o.Direction.Resolve() == Desc})
	}
	return keys
}

// Sort returns a stably ordered copy of records. Orders with unknown fields
// are skipped; when none remain the default order applies.
func Sort(records []dom.Todo, orders []Order) []dom.Todo {
	table := comparators()
	keys := buildKeys(orders, table)
	if len(keys) == 0 {
		keys = buildKeys(defaultOrder, table)
	}

	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b dom.Todo) int {
		for _, k := range keys {
			c := k.cmp(a, b)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}
