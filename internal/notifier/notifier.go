package notifier

import (
	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/roster"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For a freshly generated lineup on one play date.
	SendLineupNotification(assignment *pairing.Assignment, dryRun bool) error
	// For the day's vote tally.
	SendVoteSummary(dateID string, voters []roster.Player, maxPlayers int, dryRun bool) error
	// For roster changes worth announcing.
	SendRosterUpdate(players []roster.Player, dryRun bool) error
}
