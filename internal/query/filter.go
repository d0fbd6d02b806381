package query

import (
	"strings"
	"time"

	dom "justdo/internal/domain"
)

// DoneState selects records by completion. The zero value is unspecified
// and resolves to DoneOnly.
type DoneState int

const (
	DoneUnspecified DoneState = iota
	DoneOnly
	DoneNot
	DoneAll
)

// ParseDoneState maps the wire values "done", "not_done" and "all".
// Anything else, including "", is unspecified.
func ParseDoneState(s string) DoneState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "done":
		return DoneOnly
	case "not_done":
		return DoneNot
	case "all":
		return DoneAll
	}
	return DoneUnspecified
}

func (d DoneState) Resolve() DoneState {
	if d == DoneUnspecified {
		return DoneOnly
	}
	return d
}

func (d DoneState) String() string {
	switch d {
	case DoneOnly:
		return "done"
	case DoneNot:
		return "not_done"
	case DoneAll:
		return "all"
	}
	return ""
}

// Filter narrows which records take part in a query.
type Filter struct {
	DueFrom *time.Time
	DueTo   *time.Time
	Name    string
	Done    DoneState
}

// Predicate is a compiled Filter. Bounds are UTC midnights, nil when unset.
// Done is nil when every completion state matches.
type Predicate struct {
	From *time.Time
	To   *time.Time
	Name string
	Done *bool
}

// Compile turns f into a Predicate. A nil filter matches every record.
func Compile(f *Filter) Predicate {
	var p Predicate
	if f == nil {
		return p
	}
	if f.DueFrom != nil {
		d := DateOf(*f.DueFrom)
		p.From = &d
	}
	if f.DueTo != nil {
		d := DateOf(*f.DueTo)
		p.To = &d
	}
	p.Name = f.Name
	switch f.Done.Resolve() {
	case DoneOnly:
		v := true
		p.Done = &v
	case DoneNot:
		v := false
		p.Done = &v
	}
	return p
}

// Match reports whether t satisfies every rule of p.
func (p Predicate) Match(t dom.Todo) bool {
	if p.From != nil || p.To != nil {
		day := DateOf(t.DueDate)
		if p.From != nil && day.Before(*p.From) {
			return false
		}
		if p.To != nil && day.After(*p.To) {
			return false
		}
	}
	if p.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(p.Name)) {
		return false
	}
	if p.Done != nil && t.Done != *p.Done {
		return false
	}
	return true
}

// Apply returns the records of src matching p, in src order.
func Apply(src []dom.Todo, p Predicate) []dom.Todo {
	out := make([]dom.Todo, 0, len(src))
	for _, t := range src {
		if p.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
