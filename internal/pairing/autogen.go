package pairing

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/vgtennis/court-scheduler/internal/roster"
)

// maxAutoMatches caps how many matches a round-robin synthesis produces.
const maxAutoMatches = 4

// AutoGenerate synthesizes an assignment for read-heavy views when a date
// has 4+ voters and nothing generated yet. It repeatedly picks the 4
// least-used eligible players (ties broken randomly) to form one match,
// so lineups overlap when the pool is small instead of partitioning it.
// Reserves are always empty and the top-level team list stays empty; the
// teams only exist inside their match, numbered team-1/team-2 per match.
func (e *Engine) AutoGenerate(dateID string, players []roster.Player) *Assignment {
	assignment := &Assignment{
		DateID:         dateID,
		Algorithm:      AlgorithmRoundRobin,
		Teams:          []Team{},
		Matches:        []Match{},
		ReservePlayers: []roster.Player{},
	}
	if len(players) < 4 {
		return assignment
	}

	usage := make(map[string]int, len(players))
	for _, player := range players {
		usage[player.ID] = 0
	}

	pool := make([]roster.Player, len(players))
	copy(pool, players)

	for matchNum := 1; matchNum <= maxAutoMatches; matchNum++ {
		// Shuffle first so the stable sort breaks usage ties randomly.
		e.rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		sort.SliceStable(pool, func(i, j int) bool {
			return usage[pool[i].ID] < usage[pool[j].ID]
		})

		selected := pool[:4]
		teamA := newTeam(1, selected[0], selected[1])
		teamB := newTeam(2, selected[2], selected[3])
		for _, player := range selected {
			usage[player.ID]++
		}

		assignment.Matches = append(assignment.Matches, Match{
			ID:    fmt.Sprintf("match-%d", matchNum),
			TeamA: teamA,
			TeamB: teamB,
		})
	}

	log.Info("Auto-generated assignment", "date", dateID, "players", len(players), "matches", len(assignment.Matches))
	return assignment
}
