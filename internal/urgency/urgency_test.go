package urgency

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tasklet/internal/primitives"
	"tasklet/internal/task"
)

func TestHighPriorityDueTomorrowOutranksLowPriorityDueFar(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	cfg := DefaultConfig()

	t1 := task.NewWithUUID(now)
	t1.Set("description", "t1")
	t1.Set("priority", "H")
	t1.SetDate("due", now.Add(86400))

	t2 := task.NewWithUUID(now)
	t2.Set("description", "t2")
	t2.Set("priority", "L")
	t2.SetDate("due", now.Add(30*86400))

	u1 := Score(t1, false, false, cfg, now)
	u2 := Score(t2, false, false, cfg, now)
	require.Greater(t, u1, u2)
}

func TestZeroingPriorityCoefficientCanFlipOrdering(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	cfg := DefaultConfig()
	cfg.Priority = 0
	cfg.Due = 0

	t1 := task.NewWithUUID(now)
	t1.Set("description", "t1")
	t1.Set("priority", "H")

	t2 := task.NewWithUUID(primitives.Date{Epoch: now.Epoch - 365*86400})
	t2.Set("description", "t2")
	t2.Set("priority", "L")

	u1 := Score(t1, false, false, cfg, now)
	u2 := Score(t2, false, false, cfg, now)
	require.Greater(t, u2, u1, "older entry date should now dominate with priority weighted out")
}

func TestScoreIsPureFunctionOfInputs(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	cfg := DefaultConfig()
	tk := task.NewWithUUID(now)
	tk.Set("description", "x")
	tk.Set("priority", "M")
	tk.AddTag("next")

	a := Score(tk, true, false, cfg, now)
	b := Score(tk, true, false, cfg, now)
	require.Equal(t, a, b)
}

func TestBlockedAndBlockingContributeOppositeSigns(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	cfg := DefaultConfig()
	tk := task.NewWithUUID(now)
	tk.Set("description", "x")

	base := Score(tk, false, false, cfg, now)
	blocked := Score(tk, true, false, cfg, now)
	blocking := Score(tk, false, true, cfg, now)

	require.Less(t, blocked, base)
	require.Greater(t, blocking, base)
}

func TestDueScorePiecewiseBoundaries(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	cfg := Config{Due: 1.0}

	overdue := task.NewWithUUID(now)
	overdue.Set("description", "x")
	overdue.SetDate("due", now.Add(-8*86400))
	require.InDelta(t, 1.0, Score(overdue, false, false, cfg, now), 0.001)

	farOut := task.NewWithUUID(now)
	farOut.Set("description", "x")
	farOut.SetDate("due", now.Add(20*86400))
	require.InDelta(t, 0.2, Score(farOut, false, false, cfg, now), 0.001)
}

func TestTagsScoreCapsAtThree(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	cfg := Config{Tags: 1.0}

	tk := task.NewWithUUID(now)
	tk.Set("description", "x")
	tk.SetTags([]string{"a", "b", "c", "d", "e"})

	require.InDelta(t, 1.0, Score(tk, false, false, cfg, now), 0.001)
}
