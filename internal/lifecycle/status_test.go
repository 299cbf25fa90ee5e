package lifecycle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusTraveling, StatusCancel},
		StatusTraveling: {StatusStarted, StatusOnHold, StatusCancel},
		StatusStarted:   {StatusOnHold, StatusCompleted, StatusCancel},
		StatusOnHold:    {StatusStarted, StatusCancel},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := contains(allowed[from], to)
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancel} {
		assert.Empty(t, Next(s))
		assert.True(t, s.IsTerminal())
	}
}

func TestValidateTransition_TravelingBackToPending(t *testing.T) {
	err := ValidateTransition(StatusTraveling, StatusPending)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "TRAVELING -> PENDING")
}

func TestAdminTable_OnlyRejectsCompleted(t *testing.T) {
	assert.True(t, CanAdminTransition(StatusCompleted, StatusOnHold))
	assert.NoError(t, ValidateAdminTransition(StatusCompleted, StatusOnHold))

	// the correction path is not a worker capability
	assert.False(t, CanTransition(StatusCompleted, StatusOnHold))

	for _, from := range []Status{StatusPending, StatusTraveling, StatusStarted, StatusOnHold, StatusCancel} {
		assert.ErrorIs(t, ValidateAdminTransition(from, StatusOnHold), ErrInvalidTransition)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" on_hold ")
	require.NoError(t, err)
	assert.Equal(t, StatusOnHold, s)

	_, err = ParseStatus("DONE")
	assert.Error(t, err)
}

func TestValidWalk(t *testing.T) {
	assert.True(t, ValidWalk([]Status{StatusPending, StatusTraveling, StatusStarted, StatusOnHold, StatusStarted, StatusCompleted}))
	assert.True(t, ValidWalk([]Status{StatusPending, StatusTraveling, StatusStarted, StatusCompleted, StatusOnHold, StatusStarted, StatusCompleted}))
	assert.False(t, ValidWalk([]Status{StatusPending, StatusStarted}))
	assert.False(t, ValidWalk([]Status{StatusTraveling, StatusStarted}))
	assert.False(t, ValidWalk([]Status{StatusPending, StatusCancel, StatusTraveling}))
}

// Any sequence built only from accepted transitions is a valid walk, and
// every rejected request leaves the history unchanged.
func TestRandomRequestsProduceValidWalks(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 500; run++ {
		history := []Status{StatusPending}
		current := StatusPending
		for step := 0; step < 20; step++ {
			requested := AllStatuses[rng.Intn(len(AllStatuses))]
			if err := ValidateTransition(current, requested); err != nil {
				require.ErrorIs(t, err, ErrInvalidTransition)
				continue
			}
			current = requested
			history = append(history, current)
		}
		require.Truef(t, ValidWalk(history), "run %d: %v", run, history)
	}
}
