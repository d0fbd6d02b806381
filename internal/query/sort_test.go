package query

import (
	"testing"

	dom "justdo/internal/domain"

	"github.com/stretchr/testify/assert"
)

func sample() []dom.Todo {
	return []dom.Todo{
		todo("b", "2020-01-02T00:00:00Z", true),
		todo("a", "2020-01-02T00:00:00Z", false),
		todo("c", "2020-01-01T00:00:00Z", true),
		todo("d", "2020-01-03T00:00:00Z", false),
	}
}

func TestSort_DefaultOrder(t *testing.T) {
	got := Sort(sample(), nil)

	// not done first, then by due date, then by name
	assert.Equal(t, []string{"a", "d", "c", "b"}, names(got))
}

func TestSort_UnknownFieldsFallBackToDefault(t *testing.T) {
	orders := []Order{{Field: "priority", Direction: Asc}, {Field: "bogus"}}

	assert.Equal(t, names(Sort(sample(), nil)), names(Sort(sample(), orders)))
}

func TestSort_UnknownFieldsAreSkipped(t *testing.T) {
	orders := []Order{{Field: "bogus", Direction: Asc}, {Field: "name", Direction: Asc}}

	assert.Equal(t, []string{"a", "b", "c", "d"}, names(Sort(sample(), orders)))
}

func TestSort_UnspecifiedDirectionIsDescending(t *testing.T) {
	got := Sort(sample(), []Order{{Field: "name"}})

	assert.Equal(t, []string{"d", "c", "b", "a"}, names(got))
}

func TestSort_MultipleKeys(t *testing.T) {
	got := Sort(sample(), []Order{
		{Field: "dueDate", Direction: Desc},
		{Field: "Name", Direction: Asc},
	})

	assert.Equal(t, []string{"d", "a", "b", "c"}, names(got))
}

func TestSort_FieldNamesAreCaseInsensitive(t *testing.T) {
	for _, f := range []string{"DUEDATE", "dueDateUtc", "due_date"} {
		assert.Equal(t, FieldDueDate, ParseField(f), f)
	}
	assert.Equal(t, FieldDone, ParseField("Done"))
	assert.Equal(t, FieldUnknown, ParseField("priority"))
}

func TestSort_IsStable(t *testing.T) {
	src := []dom.Todo{
		todo("first", "2020-01-01T00:00:00Z", false),
		todo("second", "2020-01-01T00:00:00Z", false),
		todo("third", "2020-01-01T00:00:00Z", false),
	}

	got := Sort(src, []Order{{Field: "done", Direction: Asc}})

	assert.Equal(t, []string{"first", "second", "third"}, names(got))
}

func TestSort_DoesNotModifyInput(t *testing.T) {
	src := sample()
	before := names(src)

	_ = Sort(src, []Order{{Field: "name", Direction: Asc}})

	assert.Equal(t, before, names(src))
}

func TestSort_NameUsesCaseInsensitiveCollation(t *testing.T) {
	src := []dom.Todo{
		todo("banana", "2020-01-01T00:00:00Z", false),
		todo("Apple", "2020-01-01T00:00:00Z", false),
		todo("cherry", "2020-01-01T00:00:00Z", false),
	}

	got := Sort(src, []Order{{Field: "name", Direction: Asc}})

	assert.Equal(t, []string{"Apple", "banana", "cherry"}, names(got))
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Asc, ParseDirection("ASC"))
	assert.Equal(t, Desc, ParseDirection("desc"))
	assert.Equal(t, DirectionUnspecified, ParseDirection("up"))
	assert.Equal(t, Desc, DirectionUnspecified.Resolve())
}
