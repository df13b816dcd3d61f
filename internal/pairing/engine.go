package pairing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vgtennis/court-scheduler/internal/roster"
)

// Engine partitions the voters for a date into teams and matches.
// Input lists are expected sorted ascending by seed (the voter join
// produces them that way); the engine never mutates its input.
type Engine struct {
	rng *rand.Rand
}

// New creates an Engine with a time-seeded random source.
func New() *Engine {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates an Engine with the given random source. Tests pass
// a fixed seed to make shuffles reproducible.
func NewWithRand(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// Generate runs one pairing pass for dateID over the given voters.
// Every input player ends up in exactly one of: a team that is part of a
// match, or the reserve list.
func (e *Engine) Generate(dateID string, players []roster.Player, algorithm Algorithm) (*Assignment, error) {
	var assignment *Assignment
	switch algorithm {
	case AlgorithmRandom:
		assignment = e.generateRandom(dateID, players)
	case AlgorithmBalanced:
		assignment = generateBalanced(dateID, players)
	case AlgorithmGrouped:
		assignment = generateGrouped(dateID, players)
	case AlgorithmManual:
		return nil, ErrManualNotDirect
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	log.Info("Generated assignment",
		"date", dateID,
		"algorithm", algorithm,
		"players", len(players),
		"teams", len(assignment.Teams),
		"matches", len(assignment.Matches),
		"reserves", len(assignment.ReservePlayers))
	return assignment, nil
}

// generateRandom shuffles the voters uniformly and pairs neighbours. An
// odd player count sends the last shuffled player to reserves before
// pairing; an odd team count sends the last team's players to reserves
// so every match has exactly two teams.
func (e *Engine) generateRandom(dateID string, players []roster.Player) *Assignment {
	shuffled := make([]roster.Player, len(players))
	copy(shuffled, players)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	reserves := []roster.Player{}
	if len(shuffled)%2 != 0 {
		reserves = append(reserves, shuffled[len(shuffled)-1])
		shuffled = shuffled[:len(shuffled)-1]
	}

	teams := []Team{}
	for i := 0; i+1 < len(shuffled); i += 2 {
		teams = append(teams, newTeam(len(teams)+1, shuffled[i], shuffled[i+1]))
	}

	if len(teams)%2 != 0 {
		last := teams[len(teams)-1]
		reserves = append(reserves, last.Player1, last.Player2)
		teams = teams[:len(teams)-1]
	}

	return &Assignment{
		DateID:         dateID,
		Algorithm:      AlgorithmRandom,
		Teams:          teams,
		Matches:        buildMatches(teams),
		ReservePlayers: reserves,
	}
}

// generateBalanced truncates the seed-sorted voters to the largest
// multiple of 4 (the worst seeds become reserves), splits the remainder
// into a top and a bottom half and interleaves best against worst:
// top[i] pairs with bottom[last-i], top[i+1] with bottom[last-i-1].
func generateBalanced(dateID string, players []roster.Player) *Assignment {
	playable := (len(players) / 4) * 4
	kept := players[:playable]
	reserves := append([]roster.Player{}, players[playable:]...)

	half := len(kept) / 2
	top := kept[:half]
	bottom := kept[half:]

	teams := []Team{}
	for i := 0; i+1 < len(top); i += 2 {
		last := len(bottom) - 1 - i
		teams = append(teams, newTeam(len(teams)+1, top[i], bottom[last]))
		teams = append(teams, newTeam(len(teams)+1, top[i+1], bottom[last-1]))
	}

	return &Assignment{
		DateID:         dateID,
		Algorithm:      AlgorithmBalanced,
		Teams:          teams,
		Matches:        buildMatches(teams),
		ReservePlayers: reserves,
	}
}

// generateGrouped walks the seed-sorted voters in chunks of exactly 4.
// Within a chunk [g0 g1 g2 g3] (g0 best) it forms (g0,g3) and (g1,g2);
// an incomplete trailing chunk goes entirely to reserves.
func generateGrouped(dateID string, players []roster.Player) *Assignment {
	teams := []Team{}
	reserves := []roster.Player{}

	for i := 0; i < len(players); i += 4 {
		if i+4 > len(players) {
			reserves = append(reserves, players[i:]...)
			break
		}
		group := players[i : i+4]
		teams = append(teams, newTeam(len(teams)+1, group[0], group[3]))
		teams = append(teams, newTeam(len(teams)+1, group[1], group[2]))
	}

	return &Assignment{
		DateID:         dateID,
		Algorithm:      AlgorithmGrouped,
		Teams:          teams,
		Matches:        buildMatches(teams),
		ReservePlayers: reserves,
	}
}

func newTeam(number int, p1, p2 roster.Player) Team {
	return Team{
		ID:          fmt.Sprintf("team-%d", number),
		Player1:     p1,
		Player2:     p2,
		AverageSeed: float64(p1.Seed+p2.Seed) / 2,
	}
}

// buildMatches pairs consecutive teams. Callers guarantee an even team
// count; a trailing unpaired team is never silently dropped as a match,
// its players are moved to reserves upstream.
func buildMatches(teams []Team) []Match {
	matches := []Match{}
	for i := 0; i+1 < len(teams); i += 2 {
		matches = append(matches, Match{
			ID:    fmt.Sprintf("match-%d", len(matches)+1),
			TeamA: teams[i],
			TeamB: teams[i+1],
		})
	}
	return matches
}

// RemoveMatch deletes one match from an existing assignment. Its four
// players move to reserves and the remaining teams and matches are
// renumbered from 1 contiguously. Algorithm and DateID are untouched.
func RemoveMatch(assignment *Assignment, matchID string) error {
	idx := -1
	for i, match := range assignment.Matches {
		if match.ID == matchID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	removed := assignment.Matches[idx]
	assignment.ReservePlayers = append(assignment.ReservePlayers,
		removed.TeamA.Player1, removed.TeamA.Player2,
		removed.TeamB.Player1, removed.TeamB.Player2)

	assignment.Matches = append(assignment.Matches[:idx], assignment.Matches[idx+1:]...)

	teams := []Team{}
	for _, team := range assignment.Teams {
		if team.ID == removed.TeamA.ID || team.ID == removed.TeamB.ID {
			continue
		}
		teams = append(teams, team)
	}
	renumber(teams, &assignment.Matches)
	assignment.Teams = teams
	return nil
}

// ClearMatches empties the assignment's teams and matches, moving every
// teamed player into the reserve list.
func ClearMatches(assignment *Assignment) {
	for _, team := range assignment.Teams {
		assignment.ReservePlayers = append(assignment.ReservePlayers, team.Player1, team.Player2)
	}
	assignment.Teams = []Team{}
	assignment.Matches = []Match{}
}

// renumber reassigns positional ids from 1 and rebuilds match ids; the
// match pairing itself is preserved.
func renumber(teams []Team, matches *[]Match) {
	byOld := make(map[string]string, len(teams))
	for i := range teams {
		old := teams[i].ID
		teams[i].ID = fmt.Sprintf("team-%d", i+1)
		byOld[old] = teams[i].ID
	}
	for i := range *matches {
		m := &(*matches)[i]
		m.ID = fmt.Sprintf("match-%d", i+1)
		if id, ok := byOld[m.TeamA.ID]; ok {
			m.TeamA.ID = id
		}
		if id, ok := byOld[m.TeamB.ID]; ok {
			m.TeamB.ID = id
		}
	}
}
