package entity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func threeStages() []*Stage {
	return []*Stage{NewStage("S1"), NewStage("S2"), NewStage("S3")}
}

func TestNavigationState_InitialRefreshSelectsFirst(t *testing.T) {
	stages := threeStages()

	s := NavigationState{}.Refresh(stages)
	require.Same(t, stages[0], s.Selected)
	require.Nil(t, s.Pinned)
	require.Same(t, stages[0], s.Display())
}

func TestNavigationState_RefreshEmptyClearsEverything(t *testing.T) {
	stages := threeStages()
	s := NavigationState{Selected: stages[1], Pinned: stages[2]}

	require.Equal(t, NavigationState{}, s.Refresh(nil))
}

func TestNavigationState_NextTwice(t *testing.T) {
	stages := threeStages()
	s := NavigationState{Selected: stages[0]}

	var err error
	s, err = s.Navigate(stages, NavNext)
	require.NoError(t, err)
	s, err = s.Navigate(stages, NavNext)
	require.NoError(t, err)

	require.Same(t, stages[2], s.Display())
	want := Commands{First: true, Previous: true, Next: false, Last: false}
	if diff := cmp.Diff(want, s.Commands(stages)); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigationState_PinnedNavigationMovesPin(t *testing.T) {
	stages := threeStages()
	s := NavigationState{Selected: stages[1]}.TogglePin()
	require.Same(t, stages[1], s.Pinned)

	s, err := s.Navigate(stages, NavFirst)
	require.NoError(t, err)
	require.Same(t, stages[0], s.Pinned)
	require.Same(t, stages[1], s.Selected)
	require.Same(t, stages[0], s.Display())

	s = s.TogglePin()
	require.False(t, s.IsPinned())
	require.Same(t, stages[1], s.Display())

	s, err = s.Navigate(stages, NavLast)
	require.NoError(t, err)
	require.Same(t, stages[2], s.Selected)
}

func TestNavigationState_RefreshDropsStaleSelection(t *testing.T) {
	stages := []*Stage{NewStage("S1"), NewStage("S2")}
	s := NavigationState{Selected: stages[1]}.TogglePin()

	s = s.Refresh(stages[:1])
	require.Same(t, stages[0], s.Selected)
	require.Nil(t, s.Pinned)
}

func TestNavigationState_RefreshDropsStalePinOnly(t *testing.T) {
	stages := threeStages()
	s := NavigationState{Selected: stages[0], Pinned: stages[2]}

	s = s.Refresh(stages[:2])
	require.Same(t, stages[0], s.Selected)
	require.Nil(t, s.Pinned)
}

func TestNavigationState_SelectKeepsPin(t *testing.T) {
	stages := threeStages()
	s := NavigationState{Selected: stages[0], Pinned: stages[2]}

	s = s.Select(stages[1])
	require.Same(t, stages[1], s.Selected)
	require.Same(t, stages[2], s.Display())
}

func TestNavigationState_DisabledCommandsFail(t *testing.T) {
	stages := threeStages()

	_, err := NavigationState{}.Navigate(stages, NavFirst)
	require.ErrorIs(t, err, ErrNavigationDisabled)

	s := NavigationState{Selected: stages[0]}
	_, err = s.Navigate(stages, NavPrevious)
	require.ErrorIs(t, err, ErrNavigationDisabled)
	_, err = s.Navigate(stages, NavFirst)
	require.ErrorIs(t, err, ErrNavigationDisabled)

	s = NavigationState{Selected: stages[2]}
	_, err = s.Navigate(stages, NavNext)
	require.ErrorIs(t, err, ErrNavigationDisabled)

	_, err = s.Navigate(nil, NavLast)
	require.ErrorIs(t, err, ErrNoStages)
}

func TestNavigationState_NoSelectionDisablesAll(t *testing.T) {
	require.Equal(t, Commands{}, NavigationState{}.Commands(threeStages()))
}

func TestNavigationState_IndexStaysInRange(t *testing.T) {
	stages := threeStages()
	s := NavigationState{}.Refresh(stages)
	sequence := []NavigationCommand{NavNext, NavLast, NavPrevious, NavFirst, NavNext, NavNext, NavPrevious}

	for _, cmd := range sequence {
		if !s.Commands(stages).Enabled(cmd) {
			continue
		}
		var err error
		s, err = s.Navigate(stages, cmd)
		require.NoError(t, err)
		idx := IndexOf(stages, s.Display())
		require.GreaterOrEqual(t, idx, 0)
		require.LessOrEqual(t, idx, len(stages)-1)
	}
}

func TestNavigationState_PinLeavesSelectionAlone(t *testing.T) {
	stages := threeStages()
	s := NavigationState{Selected: stages[0]}.TogglePin()

	for _, cmd := range []NavigationCommand{NavLast, NavPrevious, NavFirst, NavNext} {
		var err error
		s, err = s.Navigate(stages, cmd)
		require.NoError(t, err)
		require.Same(t, stages[0], s.Selected)
	}
}
