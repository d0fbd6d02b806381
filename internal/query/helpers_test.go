package query

import (
	"time"

	dom "justdo/internal/domain"

	"github.com/google/uuid"
)

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func todo(name, due string, done bool) dom.Todo {
	return dom.Todo{ID: uuid.New(), Name: name, DueDate: day(due), Done: done}
}

func names(todos []dom.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.Name)
	}
	return out
}
