package pairing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgtennis/court-scheduler/internal/pairing"
)

func TestSessionAutoFormsTeamOnSecondSelection(t *testing.T) {
	session := pairing.NewSession("2025-06-03", seededPlayers(4))

	require.NoError(t, session.SelectPlayer("p1"))
	assert.Len(t, session.Selected(), 1)
	assert.Empty(t, session.Teams())

	require.NoError(t, session.SelectPlayer("p3"))
	assert.Empty(t, session.Selected(), "selection buffer clears once a team forms")

	teams := session.Teams()
	require.Len(t, teams, 1)
	assert.Equal(t, "team-1", teams[0].ID)
	assert.Equal(t, "p1", teams[0].Player1.ID)
	assert.Equal(t, "p3", teams[0].Player2.ID)
	assert.Equal(t, 2.0, teams[0].AverageSeed)

	assert.Len(t, session.Available(), 2)
}

func TestSessionSelectUnknownPlayer(t *testing.T) {
	session := pairing.NewSession("2025-06-03", seededPlayers(2))
	assert.ErrorIs(t, session.SelectPlayer("ghost"), pairing.ErrPlayerNotAvailable)

	// A selected player can no longer be selected again.
	require.NoError(t, session.SelectPlayer("p1"))
	assert.ErrorIs(t, session.SelectPlayer("p1"), pairing.ErrPlayerNotAvailable)
}

func TestSessionDisbandTeam(t *testing.T) {
	session := pairing.NewSession("2025-06-03", seededPlayers(4))
	require.NoError(t, session.SelectPlayer("p1"))
	require.NoError(t, session.SelectPlayer("p2"))
	require.NoError(t, session.SelectPlayer("p3"))
	require.NoError(t, session.SelectPlayer("p4"))
	require.Len(t, session.Teams(), 2)

	require.NoError(t, session.DisbandTeam("team-1"))

	teams := session.Teams()
	require.Len(t, teams, 1)
	assert.Equal(t, "team-1", teams[0].ID, "remaining team renumbers from 1")
	assert.Equal(t, "p3", teams[0].Player1.ID)
	assert.Len(t, session.Available(), 2)

	assert.ErrorIs(t, session.DisbandTeam("team-9"), pairing.ErrTeamNotFound)
}

func TestSessionReserveMoves(t *testing.T) {
	session := pairing.NewSession("2025-06-03", seededPlayers(3))

	require.NoError(t, session.MoveToReserves("p2"))
	assert.Len(t, session.Reserves(), 1)
	assert.Len(t, session.Available(), 2)

	require.NoError(t, session.MoveFromReserves("p2"))
	assert.Empty(t, session.Reserves())
	assert.Len(t, session.Available(), 3)

	assert.ErrorIs(t, session.MoveFromReserves("p2"), pairing.ErrPlayerNotReserved)
	assert.ErrorIs(t, session.MoveToReserves("ghost"), pairing.ErrPlayerNotAvailable)
}

func TestSessionFinalizeSweepsLeftovers(t *testing.T) {
	session := pairing.NewSession("2025-06-03", seededPlayers(7))
	require.NoError(t, session.SelectPlayer("p1"))
	require.NoError(t, session.SelectPlayer("p2"))
	require.NoError(t, session.SelectPlayer("p3"))
	require.NoError(t, session.SelectPlayer("p4"))
	require.NoError(t, session.MoveToReserves("p5"))
	// p6 stays available, p7 is half-selected at finalize time.
	require.NoError(t, session.SelectPlayer("p7"))

	assignment, err := session.Finalize()
	require.NoError(t, err)

	assert.Equal(t, pairing.AlgorithmManual, assignment.Algorithm)
	assert.Equal(t, "2025-06-03", assignment.DateID)
	require.Len(t, assignment.Teams, 2)
	require.Len(t, assignment.Matches, 1)
	assert.Equal(t, "match-1", assignment.Matches[0].ID)

	// p5 (explicit reserve), p6 (still available), p7 (selection buffer).
	reserveIDs := []string{}
	for _, player := range assignment.ReservePlayers {
		reserveIDs = append(reserveIDs, player.ID)
	}
	assert.ElementsMatch(t, []string{"p5", "p6", "p7"}, reserveIDs)

	assert.Equal(t, pairing.StateFinalized, session.State())
	_, err = session.Finalize()
	assert.ErrorIs(t, err, pairing.ErrSessionFinalized)
	assert.ErrorIs(t, session.SelectPlayer("p6"), pairing.ErrSessionFinalized)
}

func TestSessionFinalizeOddTeamFallsBackToReserves(t *testing.T) {
	session := pairing.NewSession("2025-06-03", seededPlayers(6))
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		require.NoError(t, session.SelectPlayer(id))
	}
	require.Len(t, session.Teams(), 3)

	assignment, err := session.Finalize()
	require.NoError(t, err)

	require.Len(t, assignment.Teams, 2)
	require.Len(t, assignment.Matches, 1)
	reserveIDs := []string{}
	for _, player := range assignment.ReservePlayers {
		reserveIDs = append(reserveIDs, player.ID)
	}
	assert.ElementsMatch(t, []string{"p5", "p6"}, reserveIDs)
}

func TestSessionsRegistry(t *testing.T) {
	registry := pairing.NewSessions()

	_, ok := registry.Get("2025-06-03")
	assert.False(t, ok)

	first := registry.Start("2025-06-03", seededPlayers(4))
	got, ok := registry.Get("2025-06-03")
	require.True(t, ok)
	assert.Same(t, first, got)

	// Starting again replaces the in-flight session.
	second := registry.Start("2025-06-03", seededPlayers(4))
	got, _ = registry.Get("2025-06-03")
	assert.Same(t, second, got)
	assert.NotSame(t, first, got)

	// Abandonment leaves no trace.
	registry.Discard("2025-06-03")
	_, ok = registry.Get("2025-06-03")
	assert.False(t, ok)
}
