package poll

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/schedule"
)

// store handles all database operations for polls. A poll is persisted
// as a single row with JSON blob columns, so every mutation is one
// atomic document write and concurrent submissions resolve by
// last-write-wins at the row level.
type store struct {
	db     *sql.DB
	window *schedule.Generator
	mu     sync.RWMutex
}

// Vote is one player's selection of date options. OptionIDs is stored
// sorted; an empty list is never persisted, the record is removed
// instead. CreatedAt is the authoritative tie-break for who claimed a
// slot first.
type Vote struct {
	PlayerName string    `json:"playerName"`
	PlayerID   string    `json:"playerId"`
	OptionIDs  []string  `json:"optionIds"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Poll bundles the rolling date options, the votes against them and any
// generated team assignments. TotalVotes is a derived cache equal to the
// sum of len(OptionIDs) over all votes.
type Poll struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Options        []schedule.Option    `json:"options"`
	Votes          []Vote               `json:"votes"`
	GeneratedTeams []pairing.Assignment `json:"generatedTeams"`
	TotalVotes     int                  `json:"totalVotes"`
}

// VoteResult is the outcome of one vote submission. ChangedDates lists
// the date ids whose voter set changed, so the caller can invalidate
// exactly the affected assignments.
type VoteResult struct {
	Message      string   `json:"message"`
	Poll         *Poll    `json:"poll"`
	ChangedDates []string `json:"-"`
}

// Messages returned for the no-op submission outcomes.
const (
	MsgVoteSubmitted   = "Vote submitted successfully!"
	MsgVoteUnchanged   = "Vote already recorded."
	MsgVotesRemoved    = "All votes removed successfully!"
	MsgNoVotesToRemove = "No votes to remove."
)

var (
	// ErrPollNotFound is returned when no poll exists for the given id.
	ErrPollNotFound = errors.New("poll not found")
	// ErrInvalidVote is returned when a submission is missing the player
	// id or the option list entirely. An empty option list is valid and
	// means "clear my vote".
	ErrInvalidVote = errors.New("player ID and option IDs are required")
)
