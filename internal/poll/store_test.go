package poll_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgtennis/court-scheduler/internal/database"
	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/poll"
	"github.com/vgtennis/court-scheduler/internal/roster"
	"github.com/vgtennis/court-scheduler/internal/schedule"
)

// setupTestStore creates a poll store over an in-memory database with a
// controllable clock. The clock starts on Monday 2025-06-02, so the
// initial rolling week is 2025-06-03 .. 2025-06-09.
func setupTestStore(t *testing.T) (poll.PollStore, *clockwork.FakeClock, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	now, err := time.Parse(time.RFC3339, "2025-06-02T08:00:00Z")
	require.NoError(t, err)
	clock := clockwork.NewFakeClockAt(now)

	window := schedule.New(schedule.StrategyWeek, clock, time.UTC)
	store := poll.New(db, window)
	return store, clock, dbTeardown
}

func TestCreateAndGetPoll(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	created, err := store.Create("Morning Tennis", "Vote for your preferred date to play!")
	require.NoError(t, err)
	require.Len(t, created.Options, 7)
	assert.Equal(t, "2025-06-03", created.Options[0].ID)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Morning Tennis", got.Title)
	assert.Empty(t, got.Votes)
	assert.Zero(t, got.TotalVotes)
}

func TestGetUnknownPoll(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, poll.ErrPollNotFound)
}

func TestSubmitVoteValidation(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	created, err := store.Create("Poll", "")
	require.NoError(t, err)

	_, err = store.SubmitVote(created.ID, "", "Alice", []string{"2025-06-03"})
	assert.ErrorIs(t, err, poll.ErrInvalidVote)

	_, err = store.SubmitVote(created.ID, "p1", "Alice", nil)
	assert.ErrorIs(t, err, poll.ErrInvalidVote)
}

func TestSubmitVoteLifecycle(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	created, err := store.Create("Poll", "")
	require.NoError(t, err)

	// Unsorted input is normalized; duplicates are preserved verbatim.
	result, err := store.SubmitVote(created.ID, "p1", "Alice", []string{"2025-06-05", "2025-06-03"})
	require.NoError(t, err)
	assert.Equal(t, poll.MsgVoteSubmitted, result.Message)
	require.Len(t, result.Poll.Votes, 1)
	assert.Equal(t, []string{"2025-06-03", "2025-06-05"}, result.Poll.Votes[0].OptionIDs)
	assert.Equal(t, 2, result.Poll.TotalVotes)
	assert.ElementsMatch(t, []string{"2025-06-03", "2025-06-05"}, result.ChangedDates)

	// Resubmitting the identical selection is a no-op.
	result, err = store.SubmitVote(created.ID, "p1", "Alice", []string{"2025-06-03", "2025-06-05"})
	require.NoError(t, err)
	assert.Equal(t, poll.MsgVoteUnchanged, result.Message)
	assert.Empty(t, result.ChangedDates)
	require.Len(t, result.Poll.Votes, 1)

	// A different selection replaces the record; only the dates whose
	// voter set changed are reported.
	result, err = store.SubmitVote(created.ID, "p1", "Alice", []string{"2025-06-03", "2025-06-07"})
	require.NoError(t, err)
	assert.Equal(t, poll.MsgVoteSubmitted, result.Message)
	require.Len(t, result.Poll.Votes, 1)
	assert.Equal(t, []string{"2025-06-03", "2025-06-07"}, result.Poll.Votes[0].OptionIDs)
	assert.ElementsMatch(t, []string{"2025-06-05", "2025-06-07"}, result.ChangedDates)
	assert.Equal(t, 2, result.Poll.TotalVotes)

	// A second player gets their own record; still one per player.
	result, err = store.SubmitVote(created.ID, "p2", "Bob", []string{"2025-06-03"})
	require.NoError(t, err)
	require.Len(t, result.Poll.Votes, 2)
	assert.Equal(t, 3, result.Poll.TotalVotes)

	// Empty selection clears the vote.
	result, err = store.SubmitVote(created.ID, "p1", "Alice", []string{})
	require.NoError(t, err)
	assert.Equal(t, poll.MsgVotesRemoved, result.Message)
	require.Len(t, result.Poll.Votes, 1)
	assert.Equal(t, "p2", result.Poll.Votes[0].PlayerID)
	assert.Equal(t, 1, result.Poll.TotalVotes)
	assert.ElementsMatch(t, []string{"2025-06-03", "2025-06-07"}, result.ChangedDates)

	// Clearing again is a successful no-op.
	result, err = store.SubmitVote(created.ID, "p1", "Alice", []string{})
	require.NoError(t, err)
	assert.Equal(t, poll.MsgNoVotesToRemove, result.Message)
}

func TestSubmitVoteDuplicateOptionIDs(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	created, err := store.Create("Poll", "")
	require.NoError(t, err)

	result, err := store.SubmitVote(created.ID, "p1", "Alice", []string{"2025-06-03", "2025-06-03"})
	require.NoError(t, err)

	// The stored selection keeps the duplicate verbatim, but the date is
	// reported changed once.
	require.Len(t, result.Poll.Votes, 1)
	assert.Equal(t, []string{"2025-06-03", "2025-06-03"}, result.Poll.Votes[0].OptionIDs)
	assert.Equal(t, []string{"2025-06-03"}, result.ChangedDates)

	// Clearing the duplicate-bearing vote also reports the date once.
	result, err = store.SubmitVote(created.ID, "p1", "Alice", []string{})
	require.NoError(t, err)
	assert.Equal(t, poll.MsgVotesRemoved, result.Message)
	assert.Equal(t, []string{"2025-06-03"}, result.ChangedDates)
}

func TestReconcileOnRolledOverWindow(t *testing.T) {
	store, clock, teardown := setupTestStore(t)
	defer teardown()

	created, err := store.Create("Poll", "")
	require.NoError(t, err)

	// p1 keeps one valid date after the roll, p2 loses everything.
	_, err = store.SubmitVote(created.ID, "p1", "Alice", []string{"2025-06-03", "2025-06-09"})
	require.NoError(t, err)
	_, err = store.SubmitVote(created.ID, "p2", "Bob", []string{"2025-06-03"})
	require.NoError(t, err)

	// Two days later the window is 2025-06-05 .. 2025-06-11.
	clock.Advance(48 * time.Hour)

	got, err := store.Get(created.ID)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-05", got.Options[0].ID)
	require.Len(t, got.Votes, 1)
	assert.Equal(t, "p1", got.Votes[0].PlayerID)
	assert.Equal(t, []string{"2025-06-09"}, got.Votes[0].OptionIDs)
	assert.Equal(t, 1, got.TotalVotes)

	// Every surviving vote references only current window ids.
	valid := map[string]bool{}
	for _, option := range got.Options {
		valid[option.ID] = true
	}
	for _, vote := range got.Votes {
		require.NotEmpty(t, vote.OptionIDs)
		for _, id := range vote.OptionIDs {
			assert.True(t, valid[id])
		}
	}

	// The reconciled state was persisted: a second read is stable.
	again, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Votes, again.Votes)
}

func sampleAssignment(dateID string) pairing.Assignment {
	p1 := roster.Player{ID: "p1", Name: "One", Seed: 1}
	p2 := roster.Player{ID: "p2", Name: "Two", Seed: 2}
	team := pairing.Team{ID: "team-1", Player1: p1, Player2: p2, AverageSeed: 1.5}
	return pairing.Assignment{
		DateID:         dateID,
		Algorithm:      pairing.AlgorithmGrouped,
		Teams:          []pairing.Team{team},
		Matches:        []pairing.Match{},
		ReservePlayers: []roster.Player{},
	}
}

func TestSaveAssignmentReplacesSameDate(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	created, err := store.Create("Poll", "")
	require.NoError(t, err)

	_, err = store.SaveAssignment(created.ID, sampleAssignment("2025-06-03"))
	require.NoError(t, err)
	_, err = store.SaveAssignment(created.ID, sampleAssignment("2025-06-04"))
	require.NoError(t, err)

	replacement := sampleAssignment("2025-06-03")
	replacement.Algorithm = pairing.AlgorithmBalanced
	_, err = store.SaveAssignment(created.ID, replacement)
	require.NoError(t, err)

	assignments, err := store.Assignments(created.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	// Replacement re-appends, so the replaced date moves to the end.
	assert.Equal(t, "2025-06-04", assignments[0].DateID)
	assert.Equal(t, "2025-06-03", assignments[1].DateID)
	assert.Equal(t, pairing.AlgorithmBalanced, assignments[1].Algorithm)
}

func TestClearAssignments(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	created, err := store.Create("Poll", "")
	require.NoError(t, err)
	_, err = store.SaveAssignment(created.ID, sampleAssignment("2025-06-03"))
	require.NoError(t, err)
	_, err = store.SaveAssignment(created.ID, sampleAssignment("2025-06-04"))
	require.NoError(t, err)

	cleared, err := store.ClearAssignments(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	assignments, err := store.Assignments(created.ID)
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestClearOneAssignment(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	created, err := store.Create("Poll", "")
	require.NoError(t, err)
	_, err = store.SaveAssignment(created.ID, sampleAssignment("2025-06-03"))
	require.NoError(t, err)
	_, err = store.SaveAssignment(created.ID, sampleAssignment("2025-06-04"))
	require.NoError(t, err)

	require.NoError(t, store.ClearAssignment(created.ID, "2025-06-03"))
	// Clearing a date with no assignment is a no-op.
	require.NoError(t, store.ClearAssignment(created.ID, "2025-06-03"))

	assignments, err := store.Assignments(created.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "2025-06-04", assignments[0].DateID)
}

func TestVotersForDate(t *testing.T) {
	players := []roster.Player{
		{ID: "p1", Name: "One", Seed: 1},
		{ID: "p2", Name: "Two", Seed: 2},
		{ID: "p3", Name: "Three", Seed: 3},
	}
	p := &poll.Poll{
		Votes: []poll.Vote{
			{PlayerID: "p3", OptionIDs: []string{"2025-06-03"}},
			{PlayerID: "p1", OptionIDs: []string{"2025-06-03", "2025-06-04"}},
			{PlayerID: "p2", OptionIDs: []string{"2025-06-04"}},
		},
	}

	voters := poll.VotersForDate(p, players, "2025-06-03")
	require.Len(t, voters, 2)
	assert.Equal(t, "p1", voters[0].ID)
	assert.Equal(t, "p3", voters[1].ID)

	assert.Empty(t, poll.VotersForDate(p, players, "2025-06-09"))
}

func TestVotersByClaim(t *testing.T) {
	players := []roster.Player{
		{ID: "p1", Name: "One", Seed: 1},
		{ID: "p2", Name: "Two", Seed: 2},
		{ID: "p3", Name: "Three", Seed: 3},
	}
	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	p := &poll.Poll{
		Votes: []poll.Vote{
			{PlayerID: "p3", OptionIDs: []string{"2025-06-03"}, CreatedAt: base},
			{PlayerID: "p1", OptionIDs: []string{"2025-06-03"}, CreatedAt: base.Add(2 * time.Second)},
			{PlayerID: "p2", OptionIDs: []string{"2025-06-03"}, CreatedAt: base.Add(1 * time.Second)},
		},
	}

	// Ordered by when the slot was claimed, not by seed.
	voters := poll.VotersByClaim(p, players, "2025-06-03")
	require.Len(t, voters, 3)
	assert.Equal(t, "p3", voters[0].ID)
	assert.Equal(t, "p2", voters[1].ID)
	assert.Equal(t, "p1", voters[2].ID)
}
