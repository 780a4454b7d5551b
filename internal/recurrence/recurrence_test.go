package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tasklet/internal/primitives"
	"tasklet/internal/task"
)

func newParent(now primitives.Date, due primitives.Date, recur string) *task.Task {
	p := task.NewWithUUID(now)
	p.Set("description", "Pay rent")
	p.SetStatus(task.StatusRecurring)
	p.SetDate("due", due)
	p.Set("recur", recur)
	return p
}

func TestMaterializeWeeklyProducesFourChildren(t *testing.T) {
	due, err := primitives.ParseDate("2024-01-01", primitives.Date{})
	require.NoError(t, err)
	now, err := primitives.ParseDate("2024-01-22", primitives.Date{})
	require.NoError(t, err)

	parent := newParent(now, due, "weekly")
	children, mask, deleteParent, warn := Materialize(now, parent)

	require.NoError(t, warn)
	require.False(t, deleteParent)
	require.Len(t, children, 4)
	require.Equal(t, "----", mask)

	wantDue := []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}
	gotByImask := make(map[int]*task.Task)
	for _, c := range children {
		imask, ok := c.GetInt("imask")
		require.True(t, ok)
		gotByImask[imask] = c
		require.Equal(t, task.StatusPending, c.Status())
		require.Equal(t, parent.UUID(), c.Get("parent"))
	}
	for i, wantISO := range wantDue {
		c, ok := gotByImask[i]
		require.True(t, ok, "missing child at imask %d", i)
		wantD, _ := primitives.ParseDate(wantISO, primitives.Date{})
		gotD, _ := c.GetDate("due")
		require.Equal(t, wantD.Epoch, gotD.Epoch)
	}
}

func TestMaterializeIsIdempotentAcrossReloads(t *testing.T) {
	due, _ := primitives.ParseDate("2024-01-01", primitives.Date{})
	now, _ := primitives.ParseDate("2024-01-10", primitives.Date{})
	parent := newParent(now, due, "weekly")

	children1, mask1, _, _ := Materialize(now, parent)
	parent.Set("mask", mask1)
	require.NotEmpty(t, children1)

	children2, mask2, _, _ := Materialize(now, parent)
	require.Empty(t, children2, "a second pass at the same instant must not re-materialize")
	require.Equal(t, mask1, mask2)
}

func TestMaterializeDeletesParentWhenUntilExpiredAndMaskResolved(t *testing.T) {
	due, _ := primitives.ParseDate("2024-01-01", primitives.Date{})
	until, _ := primitives.ParseDate("2024-01-08", primitives.Date{})
	now, _ := primitives.ParseDate("2024-02-01", primitives.Date{})

	parent := newParent(now, due, "weekly")
	parent.SetDate("until", until)
	parent.Set("mask", "++")

	children, _, deleteParent, _ := Materialize(now, parent)
	require.Empty(t, children)
	require.True(t, deleteParent)
}

func TestMaterializeDoesNotDeleteParentWithUnresolvedOccurrence(t *testing.T) {
	due, _ := primitives.ParseDate("2024-01-01", primitives.Date{})
	until, _ := primitives.ParseDate("2024-01-08", primitives.Date{})
	now, _ := primitives.ParseDate("2024-02-01", primitives.Date{})

	parent := newParent(now, due, "weekly")
	parent.SetDate("until", until)
	parent.Set("mask", "-+")

	_, _, deleteParent, _ := Materialize(now, parent)
	require.False(t, deleteParent)
}

func TestUpdateParentMaskSetsCompletedAndDeletedCodes(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	parent := newParent(now, now, "weekly")
	parent.Set("mask", "---")

	UpdateParentMask(parent, 1, '+')
	require.Equal(t, "-+-", parent.Get("mask"))

	UpdateParentMask(parent, 2, 'X')
	require.Equal(t, "-+X", parent.Get("mask"))
}

func TestUpdateParentMaskExtendsWithFillerForOutOfRangeImask(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	parent := newParent(now, now, "weekly")
	parent.Set("mask", "-")

	UpdateParentMask(parent, 3, '+')
	require.Equal(t, "-??+", parent.Get("mask"))
}

func TestParsePeriodCalendarVsFixed(t *testing.T) {
	monthly, err := ParsePeriod("monthly")
	require.NoError(t, err)
	require.True(t, monthly.IsCalendar())
	require.Equal(t, 1, monthly.Months)

	quarterly, err := ParsePeriod("quarterly")
	require.NoError(t, err)
	require.True(t, quarterly.IsCalendar())
	require.Equal(t, 3, quarterly.Months)

	yearly, err := ParsePeriod("yearly")
	require.NoError(t, err)
	require.True(t, yearly.IsCalendar())
	require.Equal(t, 1, yearly.Years)

	weekly, err := ParsePeriod("weekly")
	require.NoError(t, err)
	require.False(t, weekly.IsCalendar())
	require.Equal(t, int64(86400*7), weekly.Seconds)
}

func TestMonthlyStepClampsToMonthEnd(t *testing.T) {
	jan31, err := primitives.ParseDate("2024-01-31", primitives.Date{})
	require.NoError(t, err)
	p, err := ParsePeriod("monthly")
	require.NoError(t, err)

	feb := p.Step(jan31)
	require.Equal(t, time.February, feb.Time().Month())
	require.LessOrEqual(t, feb.Time().Day(), 29)
}
