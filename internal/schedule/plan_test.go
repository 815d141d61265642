package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanInsertionOrder(t *testing.T) {
	plan := NewPlan()
	plan.Set(&Entry{Name: "c"})
	plan.Set(&Entry{Name: "a"})
	plan.Set(&Entry{Name: "b"})

	assert.Equal(t, []string{"c", "a", "b"}, plan.Names())
}

func TestPlanReplaceKeepsPosition(t *testing.T) {
	plan := NewPlan()
	plan.Set(&Entry{Name: "a", Task: "one"})
	plan.Set(&Entry{Name: "b"})
	plan.Set(&Entry{Name: "a", Task: "two"})

	assert.Equal(t, []string{"a", "b"}, plan.Names())

	entry, ok := plan.Get("a")
	require.True(t, ok)
	assert.Equal(t, "two", entry.Task)
}

func TestPlanRemove(t *testing.T) {
	plan := NewPlan()
	plan.Set(&Entry{Name: "a"})
	plan.Set(&Entry{Name: "b"})
	plan.Set(&Entry{Name: "c"})

	plan.Remove("b")
	plan.Remove("missing")

	assert.Equal(t, []string{"a", "c"}, plan.Names())
	assert.Equal(t, 2, plan.Len())

	_, ok := plan.Get("b")
	assert.False(t, ok)
}

func TestPlanEntriesFollowOrder(t *testing.T) {
	plan := NewPlan()
	plan.Set(&Entry{Name: "z"})
	plan.Set(&Entry{Name: "a"})

	entries := plan.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "z", entries[0].Name)
	assert.Equal(t, "a", entries[1].Name)
}
