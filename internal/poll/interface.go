package poll

import (
	"sort"

	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/roster"
)

// PollStore defines the interface for interacting with poll data. Reads
// regenerate the rolling date window and reconcile stored votes against
// it before returning.
type PollStore interface {
	Create(title, description string) (*Poll, error)
	// Get fetches a poll, refreshing its options to the current rolling
	// window and pruning votes that reference rolled-out dates.
	Get(pollID string) (*Poll, error)
	List() ([]Poll, error)
	Delete(pollID string) error

	// SubmitVote applies one player's selection: insert, replace, or
	// delete-on-empty, keeping at most one vote record per player.
	// Identical resubmissions and removals of absent votes are successful
	// no-ops distinguished by the result message.
	SubmitVote(pollID, playerID, playerName string, optionIDs []string) (*VoteResult, error)

	// SaveAssignment replaces any stored assignment for the same date,
	// delete-then-insert, never merge.
	SaveAssignment(pollID string, assignment pairing.Assignment) (*Poll, error)
	Assignments(pollID string) ([]pairing.Assignment, error)
	// ClearAssignments empties the whole list and reports how many
	// entries were dropped.
	ClearAssignments(pollID string) (int, error)
	ClearAssignment(pollID, dateID string) error
}

// VotersForDate joins the poll's votes for one date against the roster,
// returning the voters seed ascending. A player with several vote
// fragments naming the same date is counted once by the join itself.
func VotersForDate(p *Poll, players []roster.Player, dateID string) []roster.Player {
	voted := map[string]bool{}
	for _, vote := range p.Votes {
		for _, optionID := range vote.OptionIDs {
			if optionID == dateID {
				voted[vote.PlayerID] = true
				break
			}
		}
	}

	voters := []roster.Player{}
	for _, player := range players {
		if voted[player.ID] {
			voters = append(voters, player)
		}
	}
	sort.Slice(voters, func(i, j int) bool { return voters[i].Seed < voters[j].Seed })
	return voters
}

// VotersByClaim returns the voters for one date ordered by when they
// claimed their slot, earliest CreatedAt first. Ties keep submission
// order, which is the order the votes are stored in.
func VotersByClaim(p *Poll, players []roster.Player, dateID string) []roster.Player {
	byID := make(map[string]roster.Player, len(players))
	for _, player := range players {
		byID[player.ID] = player
	}

	claimants := []Vote{}
	for _, vote := range p.Votes {
		for _, optionID := range vote.OptionIDs {
			if optionID == dateID {
				claimants = append(claimants, vote)
				break
			}
		}
	}
	sort.SliceStable(claimants, func(i, j int) bool {
		return claimants[i].CreatedAt.Before(claimants[j].CreatedAt)
	})

	voters := []roster.Player{}
	for _, vote := range claimants {
		if player, ok := byID[vote.PlayerID]; ok {
			voters = append(voters, player)
		}
	}
	return voters
}
