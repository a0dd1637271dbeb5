package slider

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type pair struct{ low, high float64 }

func newTestRange(t *testing.T, low, high float64) (*Range, *[]pair) {
	t.Helper()
	var notified []pair
	r, err := NewRange(mustConfig(t, 0, 100, 5, 100), low, high, func(lo, hi float64) {
		notified = append(notified, pair{lo, hi})
	})
	require.NoError(t, err)
	return r, &notified
}

func TestNewRangeOrdersInitialValues(t *testing.T) {
	r, _ := newTestRange(t, 82, 21)
	low, high := r.Values()
	require.Equal(t, 20.0, low)
	require.Equal(t, 80.0, high)
}

func TestRangeHandlesMayCrossVisuallyButNotOnCommit(t *testing.T) {
	r, notified := newTestRange(t, 20, 60)

	r.Begin(Low)
	r.Move(80)
	lowPos, highPos := r.VisualPositions()
	require.Equal(t, 100.0, lowPos)
	require.Equal(t, 60.0, highPos)

	low, high := r.End(80)
	require.Equal(t, 60.0, low)
	require.Equal(t, 60.0, high)
	require.Equal(t, Idle, r.State())
	require.Equal(t, []pair{{60, 60}}, *notified)

	r.Begin(High)
	low, high = r.End(-50)
	require.Equal(t, 60.0, low)
	require.Equal(t, 60.0, high)
	require.Len(t, *notified, 2)
}

func TestRangeCommitMovesOnlyActiveHandle(t *testing.T) {
	r, notified := newTestRange(t, 20, 60)

	r.Begin(High)
	r.Move(12)
	low, high := r.End(12)
	require.Equal(t, 20.0, low)
	require.Equal(t, 70.0, high)
	require.Equal(t, High, r.Active())
	require.Equal(t, []pair{{20, 70}}, *notified)
}

func TestRangeCancelRestoresBothHandles(t *testing.T) {
	r, notified := newTestRange(t, 20, 60)

	r.Begin(Low)
	r.Move(30)
	r.Cancel()

	lowPos, highPos := r.VisualPositions()
	require.Equal(t, 20.0, lowPos)
	require.Equal(t, 60.0, highPos)
	require.Equal(t, Idle, r.State())
	require.Empty(t, *notified)
}

func TestRangeNearest(t *testing.T) {
	r, _ := newTestRange(t, 20, 60)
	require.Equal(t, Low, r.Nearest(30))
	require.Equal(t, High, r.Nearest(50))
	require.Equal(t, Low, r.Nearest(40))

	r, _ = newTestRange(t, 60, 60)
	require.Equal(t, High, r.Nearest(70))
	require.Equal(t, Low, r.Nearest(50))
}

func TestRangeSetValueClampsAndNotifiesOnChange(t *testing.T) {
	r, notified := newTestRange(t, 20, 60)

	low, high := r.SetValue(Low, 90)
	require.Equal(t, 60.0, low)
	require.Equal(t, 60.0, high)

	low, high = r.SetValue(Low, 60)
	require.Equal(t, 60.0, low)
	require.Equal(t, 60.0, high)

	low, high = r.Nudge(High, -3)
	require.Equal(t, 60.0, low)
	require.Equal(t, 60.0, high)

	low, high = r.Nudge(High, 2)
	require.Equal(t, 60.0, low)
	require.Equal(t, 70.0, high)

	require.Equal(t, []pair{{60, 60}, {60, 70}}, *notified)
}

func TestRangeOrderHoldsAfterAnyCommitSequence(t *testing.T) {
	r, _ := newTestRange(t, 10, 90)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		h := Handle(rng.Intn(2))
		dx := rng.Float64()*240 - 120
		switch rng.Intn(4) {
		case 0:
			r.Begin(h)
			r.Move(dx)
			r.Cancel()
		case 1:
			r.SetValue(h, rng.Float64()*140-20)
		default:
			r.Begin(h)
			r.Move(dx / 2)
			r.End(dx)
		}
		low, high := r.Values()
		require.LessOrEqual(t, low, high, "step %d", i)
		require.GreaterOrEqual(t, low, 0.0)
		require.LessOrEqual(t, high, 100.0)
	}
}

func TestRangeLayoutChangeCancelsGesture(t *testing.T) {
	r, notified := newTestRange(t, 20, 60)
	r.Begin(High)
	r.Move(25)
	r.SetTrackLength(200)

	require.Equal(t, Idle, r.State())
	lowPos, highPos := r.VisualPositions()
	require.Equal(t, 40.0, lowPos)
	require.Equal(t, 120.0, highPos)
	require.Empty(t, *notified)
}

func TestHandleString(t *testing.T) {
	require.Equal(t, "low", Low.String())
	require.Equal(t, "high", High.String())
}
