package rtfiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastStateStartsCreated(t *testing.T) {
	s := NewFastState()
	assert.Equal(t, StateCreated, s.Load())
	assert.False(t, s.IsTerminal(), "a fresh state must not be terminal")
	assert.True(t, s.CanAcceptWork(), "StateCreated must accept work")
}

func TestFastStateTransitionLifecycle(t *testing.T) {
	s := NewFastState()

	require.True(t, s.TryTransition(StateCreated, StateRunning))
	assert.True(t, s.CanAcceptWork(), "StateRunning must accept work")

	require.True(t, s.TryTransition(StateRunning, StateDraining))
	assert.False(t, s.CanAcceptWork(), "StateDraining must not accept work")
	assert.False(t, s.IsTerminal(), "StateDraining must not be terminal")

	require.True(t, s.TryTransition(StateDraining, StateStopped))
	assert.True(t, s.IsTerminal(), "StateStopped must be terminal")
	assert.False(t, s.CanAcceptWork(), "StateStopped must not accept work")
}

func TestFastStateRejectsInvalidTransition(t *testing.T) {
	s := NewFastState()
	require.False(t, s.TryTransition(StateRunning, StateDraining), "Running->Draining must fail from StateCreated")
	assert.Equal(t, StateCreated, s.Load())
}

func TestSchedulerStateString(t *testing.T) {
	cases := map[SchedulerState]string{
		StateCreated:       "Created",
		StateRunning:       "Running",
		StateDraining:      "Draining",
		StateStopped:       "Stopped",
		SchedulerState(99): "Unknown",
	}
	for state, want := range cases {
		assert.Equal(t, want, state.String())
	}
}
