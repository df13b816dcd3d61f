package poll

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// SubmitVote applies one player's new selection. A nil option list is
// invalid; an empty one clears the player's vote. Option ids are sorted
// before storage but deliberately not deduplicated: duplicate ids in the
// input are preserved verbatim, only order is normalized.
func (s *store) SubmitVote(pollID, playerID, playerName string, optionIDs []string) (*VoteResult, error) {
	if playerID == "" || optionIDs == nil {
		return nil, ErrInvalidVote
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(pollID)
	if err != nil {
		return nil, err
	}

	existing := -1
	for i, vote := range p.Votes {
		if vote.PlayerID == playerID {
			existing = i
			break
		}
	}

	// Empty selection means "clear my vote". Removing a vote that does
	// not exist is a successful no-op, not an error.
	if len(optionIDs) == 0 {
		if existing == -1 {
			return &VoteResult{Message: MsgNoVotesToRemove, Poll: p}, nil
		}
		changed := dedupeSorted(p.Votes[existing].OptionIDs)
		p.Votes = append(p.Votes[:existing], p.Votes[existing+1:]...)
		p.TotalVotes = totalVotes(p.Votes)
		if err := s.save(p); err != nil {
			return nil, err
		}
		log.Info("Removed vote", "poll", pollID, "player", playerID)
		return &VoteResult{Message: MsgVotesRemoved, Poll: p, ChangedDates: changed}, nil
	}

	sorted := append([]string{}, optionIDs...)
	sort.Strings(sorted)

	if existing != -1 {
		previous := append([]string{}, p.Votes[existing].OptionIDs...)
		sort.Strings(previous)
		if slices.Equal(sorted, previous) {
			return &VoteResult{Message: MsgVoteUnchanged, Poll: p}, nil
		}
		changedDates := symmetricDiff(previous, sorted)
		p.Votes = append(p.Votes[:existing], p.Votes[existing+1:]...)
		return s.appendVote(p, playerID, playerName, sorted, changedDates)
	}

	return s.appendVote(p, playerID, playerName, sorted, dedupeSorted(sorted))
}

func (s *store) appendVote(p *Poll, playerID, playerName string, sorted, changedDates []string) (*VoteResult, error) {
	now := time.Now()
	p.Votes = append(p.Votes, Vote{
		PlayerName: playerName,
		PlayerID:   playerID,
		OptionIDs:  sorted,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	p.TotalVotes = totalVotes(p.Votes)
	if err := s.save(p); err != nil {
		return nil, fmt.Errorf("failed to save vote: %w", err)
	}

	log.Info("Recorded vote", "poll", p.ID, "player", playerID, "options", len(sorted))
	return &VoteResult{Message: MsgVoteSubmitted, Poll: p, ChangedDates: changedDates}, nil
}

// symmetricDiff returns the ids present in exactly one of the two sorted
// lists: the dates whose voter set actually changed. Each changed date
// appears once even when the stored vote carries duplicates.
func symmetricDiff(before, after []string) []string {
	inBefore := map[string]bool{}
	for _, id := range before {
		inBefore[id] = true
	}
	inAfter := map[string]bool{}
	for _, id := range after {
		inAfter[id] = true
	}

	diff := []string{}
	for _, id := range dedupeSorted(before) {
		if !inAfter[id] {
			diff = append(diff, id)
		}
	}
	for _, id := range dedupeSorted(after) {
		if !inBefore[id] {
			diff = append(diff, id)
		}
	}
	return diff
}

// dedupeSorted collapses duplicate neighbours in a sorted id list. Stored
// votes keep their duplicates verbatim; only the changed-date report is
// unique, so each affected assignment is invalidated once.
func dedupeSorted(ids []string) []string {
	unique := []string{}
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		unique = append(unique, id)
	}
	return unique
}
