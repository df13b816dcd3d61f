package activity_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgtennis/court-scheduler/internal/activity"
	"github.com/vgtennis/court-scheduler/internal/database"
)

func setupTestStore(t *testing.T) (activity.ActivityStore, *clockwork.FakeClock, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
	return activity.New(db, clock), clock, teardown
}

func TestLogAndList(t *testing.T) {
	store, clock, teardown := setupTestStore(t)
	defer teardown()

	_, err := store.Log("alice", "VOTE_SUBMITTED", "poll-1")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = store.Log("bob", "PAGE_VIEW", "players")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	entry, err := store.Log("", "PAGE_VIEW", "calendar")
	require.NoError(t, err)
	assert.Equal(t, "anonymous", entry.Username)

	entries, total, err := store.List(activity.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 3)
	// Newest first.
	assert.Equal(t, "anonymous", entries[0].Username)
	assert.Equal(t, "VOTE_SUBMITTED", entries[2].Action)
}

func TestLogRequiresAction(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	_, err := store.Log("alice", "", "")
	assert.Error(t, err)
}

func TestListFilters(t *testing.T) {
	store, clock, teardown := setupTestStore(t)
	defer teardown()

	for i, action := range []string{"PAGE_VIEW", "VOTE_SUBMITTED", "PAGE_VIEW", "PLAYER_ADDED"} {
		user := "alice"
		if i%2 == 1 {
			user = "bob"
		}
		_, err := store.Log(user, action, "")
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	views, total, err := store.List(activity.Filter{Action: "PAGE_VIEW"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, views, 2)

	bobs, total, err := store.List(activity.Filter{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, bobs, 2)

	page, total, err := store.List(activity.Filter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 1)
	assert.Equal(t, "PAGE_VIEW", page[0].Action)
}

func TestStats(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	for _, action := range []string{"PAGE_VIEW", "PAGE_VIEW", "PAGE_VIEW", "VOTE_SUBMITTED", "VOTE_SUBMITTED", "PLAYER_ADDED"} {
		_, err := store.Log("alice", action, "")
		require.NoError(t, err)
	}

	stats, err := store.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, activity.ActionCount{Action: "PAGE_VIEW", Count: 3}, stats[0])
	assert.Equal(t, activity.ActionCount{Action: "VOTE_SUBMITTED", Count: 2}, stats[1])
	assert.Equal(t, activity.ActionCount{Action: "PLAYER_ADDED", Count: 1}, stats[2])
}
