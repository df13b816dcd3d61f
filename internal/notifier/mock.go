package notifier

import (
	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/roster"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
type MockNotifier struct {
	SendLineupNotificationFunc func(assignment *pairing.Assignment, dryRun bool) error
	SendVoteSummaryFunc        func(dateID string, voters []roster.Player, maxPlayers int, dryRun bool) error
	SendRosterUpdateFunc       func(players []roster.Player, dryRun bool) error

	LineupCalls      []LineupCall
	VoteSummaryCalls []VoteSummaryCall
	RosterCalls      []RosterCall
}

// LineupCall records the arguments of a SendLineupNotification call.
type LineupCall struct {
	Assignment *pairing.Assignment
	DryRun     bool
}

// VoteSummaryCall records the arguments of a SendVoteSummary call.
type VoteSummaryCall struct {
	DateID     string
	Voters     []roster.Player
	MaxPlayers int
	DryRun     bool
}

// RosterCall records the arguments of a SendRosterUpdate call.
type RosterCall struct {
	Players []roster.Player
	DryRun  bool
}

var _ Notifier = (*MockNotifier)(nil)

// NewMock creates a new mock notifier.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendLineupNotification(assignment *pairing.Assignment, dryRun bool) error {
	m.LineupCalls = append(m.LineupCalls, LineupCall{Assignment: assignment, DryRun: dryRun})
	if m.SendLineupNotificationFunc != nil {
		return m.SendLineupNotificationFunc(assignment, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendVoteSummary(dateID string, voters []roster.Player, maxPlayers int, dryRun bool) error {
	m.VoteSummaryCalls = append(m.VoteSummaryCalls, VoteSummaryCall{DateID: dateID, Voters: voters, MaxPlayers: maxPlayers, DryRun: dryRun})
	if m.SendVoteSummaryFunc != nil {
		return m.SendVoteSummaryFunc(dateID, voters, maxPlayers, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendRosterUpdate(players []roster.Player, dryRun bool) error {
	m.RosterCalls = append(m.RosterCalls, RosterCall{Players: players, DryRun: dryRun})
	if m.SendRosterUpdateFunc != nil {
		return m.SendRosterUpdateFunc(players, dryRun)
	}
	return nil
}
