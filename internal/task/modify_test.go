package task

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tasklet/internal/primitives"
)

func TestParseModificationsClassifiesAssignTagAndWord(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	m, err := ParseModifications([]string{"project:Home", "priority:H", "+next", "-waiting", "Buy", "milk"}, now)
	require.NoError(t, err)

	require.Equal(t, "Home", m.Sets["project"])
	require.Equal(t, "H", m.Sets["priority"])
	require.Equal(t, []string{"next"}, m.AddTags)
	require.Equal(t, []string{"waiting"}, m.RemoveTags)
	require.Equal(t, "Buy milk", m.Description())
}

func TestParseModificationsResolvesRelativeDateAttribute(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	m, err := ParseModifications([]string{"due:tomorrow"}, now)
	require.NoError(t, err)

	want := now.StartOfDay().Add(86400)
	require.Equal(t, "", m.Description())
	gotEpoch := m.Sets["due"]
	require.NotEmpty(t, gotEpoch)
	require.Equal(t, want.Epoch, mustParseEpoch(t, gotEpoch))
}

func TestParseModificationsEmptyValueRemovesAttribute(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	m, err := ParseModifications([]string{"project:"}, now)
	require.NoError(t, err)
	require.Equal(t, []string{"project"}, m.Removes)
	require.NotContains(t, m.Sets, "project")
}

func TestApplyToMutatesTaskInPlace(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	tk := NewWithUUID(now)
	tk.Set("project", "Old")
	tk.AddTag("stale")

	m, err := ParseModifications([]string{"project:New", "+fresh", "-stale"}, now)
	require.NoError(t, err)
	m.ApplyTo(tk)

	require.Equal(t, "New", tk.Get("project"))
	require.True(t, tk.HasTag("fresh"))
	require.False(t, tk.HasTag("stale"))
}

func mustParseEpoch(t *testing.T, s string) int64 {
	t.Helper()
	d, ok := (&Task{attrs: map[string]string{"x": s}}).GetDate("x")
	require.True(t, ok)
	return d.Epoch
}

func TestNewUDASchemaRejectsReservedNameCollision(t *testing.T) {
	_, err := NewUDASchema(map[string]UDAType{"due": UDAString})
	require.Error(t, err)
}

func TestNewUDASchemaRejectsUnknownType(t *testing.T) {
	_, err := NewUDASchema(map[string]UDAType{"estimate": UDAType("bogus")})
	require.Error(t, err)
}

func TestUDASchemaDiagnosticsFlagsOrphanAttributes(t *testing.T) {
	schema, err := NewUDASchema(map[string]UDAType{"estimate": UDANumeric})
	require.NoError(t, err)

	now := primitives.Date{Epoch: 1700000000}
	tk := NewWithUUID(now)
	tk.Set("description", "x")
	tk.Set("estimate", "3")
	tk.Set("mystery", "huh")

	orphans := schema.Diagnostics(tk)
	require.Equal(t, []string{"mystery"}, orphans)
}
