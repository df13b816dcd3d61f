package pairing_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/roster"
)

// seededPlayers returns n players with seeds 1..n ascending.
func seededPlayers(n int) []roster.Player {
	players := make([]roster.Player, 0, n)
	for i := 1; i <= n; i++ {
		players = append(players, roster.Player{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("Player %d", i),
			Seed: i,
		})
	}
	return players
}

func newTestEngine() *pairing.Engine {
	return pairing.NewWithRand(rand.New(rand.NewSource(42)))
}

// assertCoverage checks the total-coverage invariant: every input player
// lands in exactly one of a matched team or the reserve list.
func assertCoverage(t *testing.T, input []roster.Player, a *pairing.Assignment) {
	t.Helper()

	assert.Equal(t, len(input), len(a.Teams)*2+len(a.ReservePlayers))

	seen := map[string]int{}
	for _, team := range a.Teams {
		seen[team.Player1.ID]++
		seen[team.Player2.ID]++
	}
	for _, player := range a.ReservePlayers {
		seen[player.ID]++
	}
	for _, player := range input {
		assert.Equal(t, 1, seen[player.ID], "player %s must appear exactly once", player.ID)
	}

	// Every team must be part of a match.
	matched := map[string]bool{}
	for _, match := range a.Matches {
		matched[match.TeamA.ID] = true
		matched[match.TeamB.ID] = true
	}
	for _, team := range a.Teams {
		assert.True(t, matched[team.ID], "team %s must be part of a match", team.ID)
	}
}

func TestCoverageInvariantAcrossAlgorithms(t *testing.T) {
	algorithms := []pairing.Algorithm{
		pairing.AlgorithmRandom,
		pairing.AlgorithmBalanced,
		pairing.AlgorithmGrouped,
	}
	for _, algorithm := range algorithms {
		for _, n := range []int{0, 1, 3, 4, 5, 7, 8, 9, 11, 12, 16} {
			t.Run(fmt.Sprintf("%s/%d_players", algorithm, n), func(t *testing.T) {
				engine := newTestEngine()
				input := seededPlayers(n)
				a, err := engine.Generate("2025-06-03", input, algorithm)
				require.NoError(t, err)
				assert.Equal(t, algorithm, a.Algorithm)
				assert.Equal(t, "2025-06-03", a.DateID)
				assertCoverage(t, input, a)
			})
		}
	}
}

func TestGroupedEightPlayers(t *testing.T) {
	engine := newTestEngine()
	a, err := engine.Generate("2025-06-03", seededPlayers(8), pairing.AlgorithmGrouped)
	require.NoError(t, err)

	require.Len(t, a.Teams, 4)
	assert.Empty(t, a.ReservePlayers)

	// Groups of 4: best+worst vs 2nd-best+2nd-worst within each tier.
	expect := [][2]string{{"p1", "p4"}, {"p2", "p3"}, {"p5", "p8"}, {"p6", "p7"}}
	for i, pair := range expect {
		assert.Equal(t, pair[0], a.Teams[i].Player1.ID)
		assert.Equal(t, pair[1], a.Teams[i].Player2.ID)
	}

	require.Len(t, a.Matches, 2)
	assert.Equal(t, "match-1", a.Matches[0].ID)
	assert.Equal(t, "team-1", a.Matches[0].TeamA.ID)
	assert.Equal(t, "team-2", a.Matches[0].TeamB.ID)
}

func TestGroupedTrailingChunkGoesToReserves(t *testing.T) {
	engine := newTestEngine()
	a, err := engine.Generate("2025-06-03", seededPlayers(7), pairing.AlgorithmGrouped)
	require.NoError(t, err)

	require.Len(t, a.Teams, 2)
	require.Len(t, a.ReservePlayers, 3)
	assert.Equal(t, "p5", a.ReservePlayers[0].ID)
	assert.Equal(t, "p6", a.ReservePlayers[1].ID)
	assert.Equal(t, "p7", a.ReservePlayers[2].ID)
}

func TestBalancedEightPlayers(t *testing.T) {
	engine := newTestEngine()
	a, err := engine.Generate("2025-06-03", seededPlayers(8), pairing.AlgorithmBalanced)
	require.NoError(t, err)

	require.Len(t, a.Teams, 4)
	assert.Empty(t, a.ReservePlayers)

	// Top half p1..p4, bottom half p5..p8, best interleaved with worst.
	expect := [][2]string{{"p1", "p8"}, {"p2", "p7"}, {"p3", "p6"}, {"p4", "p5"}}
	for i, pair := range expect {
		assert.Equal(t, pair[0], a.Teams[i].Player1.ID)
		assert.Equal(t, pair[1], a.Teams[i].Player2.ID)
	}

	assert.Equal(t, 4.5, a.Teams[0].AverageSeed)
	assert.Equal(t, 4.5, a.Teams[1].AverageSeed)
}

func TestBalancedTruncatesWorstSeeds(t *testing.T) {
	engine := newTestEngine()
	a, err := engine.Generate("2025-06-03", seededPlayers(10), pairing.AlgorithmBalanced)
	require.NoError(t, err)

	// 10 voters truncate to 8; the two worst seeds sit out.
	require.Len(t, a.Teams, 4)
	require.Len(t, a.ReservePlayers, 2)
	assert.Equal(t, "p9", a.ReservePlayers[0].ID)
	assert.Equal(t, "p10", a.ReservePlayers[1].ID)
}

func TestRandomOddPlayerBecomesReserve(t *testing.T) {
	engine := newTestEngine()
	a, err := engine.Generate("2025-06-03", seededPlayers(9), pairing.AlgorithmRandom)
	require.NoError(t, err)

	// 9 players: one reserve before pairing, then 4 teams, 2 matches.
	require.Len(t, a.Teams, 4)
	require.Len(t, a.Matches, 2)
	require.Len(t, a.ReservePlayers, 1)
}

func TestRandomOddTeamCountFallsBackToReserves(t *testing.T) {
	engine := newTestEngine()
	a, err := engine.Generate("2025-06-03", seededPlayers(6), pairing.AlgorithmRandom)
	require.NoError(t, err)

	// 6 players pair into 3 teams; the trailing team cannot form a match,
	// so its players become reserves.
	require.Len(t, a.Teams, 2)
	require.Len(t, a.Matches, 1)
	require.Len(t, a.ReservePlayers, 2)
}

func TestRandomIsReproducibleWithFixedSeed(t *testing.T) {
	a1, err := pairing.NewWithRand(rand.New(rand.NewSource(7))).Generate("2025-06-03", seededPlayers(8), pairing.AlgorithmRandom)
	require.NoError(t, err)
	a2, err := pairing.NewWithRand(rand.New(rand.NewSource(7))).Generate("2025-06-03", seededPlayers(8), pairing.AlgorithmRandom)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
}

func TestGenerateRejectsUnknownAlgorithm(t *testing.T) {
	engine := newTestEngine()
	_, err := engine.Generate("2025-06-03", seededPlayers(8), pairing.Algorithm("bogus"))
	assert.ErrorIs(t, err, pairing.ErrUnknownAlgorithm)
}

func TestGenerateRejectsManual(t *testing.T) {
	engine := newTestEngine()
	_, err := engine.Generate("2025-06-03", seededPlayers(8), pairing.AlgorithmManual)
	assert.ErrorIs(t, err, pairing.ErrManualNotDirect)
}

func TestRemoveMatch(t *testing.T) {
	engine := newTestEngine()
	a, err := engine.Generate("2025-06-03", seededPlayers(8), pairing.AlgorithmGrouped)
	require.NoError(t, err)
	require.Len(t, a.Matches, 2)

	require.NoError(t, pairing.RemoveMatch(a, "match-1"))

	require.Len(t, a.Matches, 1)
	assert.Equal(t, "match-1", a.Matches[0].ID)
	require.Len(t, a.Teams, 2)
	assert.Equal(t, "team-1", a.Teams[0].ID)
	assert.Equal(t, "team-2", a.Teams[1].ID)
	// The removed match's four players are now reserves.
	require.Len(t, a.ReservePlayers, 4)

	assert.ErrorIs(t, pairing.RemoveMatch(a, "match-9"), pairing.ErrMatchNotFound)
}

func TestClearMatches(t *testing.T) {
	engine := newTestEngine()
	a, err := engine.Generate("2025-06-03", seededPlayers(9), pairing.AlgorithmGrouped)
	require.NoError(t, err)
	require.Len(t, a.Teams, 4)
	require.Len(t, a.ReservePlayers, 1)

	pairing.ClearMatches(a)

	assert.Empty(t, a.Teams)
	assert.Empty(t, a.Matches)
	// Reserves are the union of the prior reserves and every teamed player.
	assert.Len(t, a.ReservePlayers, 9)
}

func TestAutoGenerateTooFewPlayers(t *testing.T) {
	engine := newTestEngine()
	a := engine.AutoGenerate("2025-06-03", seededPlayers(3))
	assert.Empty(t, a.Matches)
	assert.Empty(t, a.ReservePlayers)
	assert.Equal(t, pairing.AlgorithmRoundRobin, a.Algorithm)
}

func TestAutoGenerateProducesFourOverlappingMatches(t *testing.T) {
	engine := newTestEngine()
	input := seededPlayers(5)
	a := engine.AutoGenerate("2025-06-03", input)

	require.Len(t, a.Matches, 4)
	assert.Empty(t, a.Teams)
	assert.Empty(t, a.ReservePlayers)

	usage := map[string]int{}
	for _, match := range a.Matches {
		lineup := []roster.Player{
			match.TeamA.Player1, match.TeamA.Player2,
			match.TeamB.Player1, match.TeamB.Player2,
		}
		distinct := map[string]bool{}
		for _, player := range lineup {
			distinct[player.ID] = true
			usage[player.ID]++
		}
		assert.Len(t, distinct, 4, "each match needs 4 distinct players")
		assert.Equal(t, "team-1", match.TeamA.ID)
		assert.Equal(t, "team-2", match.TeamB.ID)
	}

	// Least-usage scheduling: 16 slots over 5 players means nobody plays
	// more than one match above anybody else.
	min, max := 16, 0
	for _, player := range input {
		if usage[player.ID] < min {
			min = usage[player.ID]
		}
		if usage[player.ID] > max {
			max = usage[player.ID]
		}
	}
	assert.LessOrEqual(t, max-min, 1)
}
