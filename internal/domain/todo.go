package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Todo is the single tracked entity. DueDate is always UTC.
// Не зависит от Gin, Postgres, Redis.
type Todo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	DueDate  time.Time `json:"dueDateUtc"`
	Priority Priority  `json:"priority"`
	Done     bool      `json:"done"`
}

type Priority int16

const (
	PriorityNotSet Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

var priorityNames = map[Priority]string{
	PriorityNotSet: "not_set",
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
}

func (p Priority) String() string {
	if s, ok := priorityNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Priority(%d)", int16(p))
}

func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// ParsePriority accepts the wire names case-insensitively.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	return PriorityNotSet, fmt.Errorf("unknown priority %q", s)
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int16(p))
	}
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("priority must be a string: %w", err)
	}
	v, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
