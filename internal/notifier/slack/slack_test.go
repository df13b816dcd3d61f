package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgtennis/court-scheduler/internal/metrics"
	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/roster"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func sampleAssignment() *pairing.Assignment {
	p1 := roster.Player{ID: "p1", Name: "Alice", Seed: 1}
	p2 := roster.Player{ID: "p2", Name: "Bob", Seed: 2}
	p3 := roster.Player{ID: "p3", Name: "Carol", Seed: 3}
	p4 := roster.Player{ID: "p4", Name: "Dave", Seed: 4}
	teamA := pairing.Team{ID: "team-1", Player1: p1, Player2: p4, AverageSeed: 2.5}
	teamB := pairing.Team{ID: "team-2", Player1: p2, Player2: p3, AverageSeed: 2.5}
	return &pairing.Assignment{
		DateID:    "2025-06-03",
		Algorithm: pairing.AlgorithmBalanced,
		Teams:     []pairing.Team{teamA, teamB},
		Matches: []pairing.Match{
			{ID: "match-1", TeamA: teamA, TeamB: teamB},
		},
		ReservePlayers: []roster.Player{{ID: "p5", Name: "Eve", Seed: 5}},
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics, time.UTC)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics, time.UTC)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics, time.UTC)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendLineupNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics, time.UTC)

	err := notifier.SendLineupNotification(sampleAssignment(), false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled)
	assert.Equal(t, 1, metrics.SlackNotifSent())
}

func TestFormatLineupNotification(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock(), time.UTC)

	msg := notifier.formatLineupNotification(sampleAssignment())
	blocks := msg.Blocks.BlockSet
	// Header, details, teams, matches, reserves.
	require.Len(t, blocks, 5)

	header, ok := blocks[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Teams are up")

	details, ok := blocks[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, details.Text.Text, "Tuesday 03 Jun")
	assert.Contains(t, details.Text.Text, "balanced")

	teams, ok := blocks[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, teams.Text.Text, "Alice & Dave")
	assert.Contains(t, teams.Text.Text, "Bob & Carol")

	matches, ok := blocks[3].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, matches.Text.Text, "Alice & Dave vs Bob & Carol")

	reserves, ok := blocks[4].(*slackapi.ContextBlock)
	require.True(t, ok)
	require.Len(t, reserves.ContextElements.Elements, 1)
}

func TestFormatVoteSummary(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock(), time.UTC)

	voters := []roster.Player{
		{ID: "p1", Name: "Alice", Seed: 1},
		{ID: "p2", Name: "Bob", Seed: 2},
	}
	msg := notifier.formatVoteSummary("2025-06-03", voters, 8)
	blocks := msg.Blocks.BlockSet
	require.Len(t, blocks, 3)

	list, ok := blocks[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, list.Text.Text, "1. Alice")
	assert.Contains(t, list.Text.Text, "2. Bob")

	// No voters yields a prompt instead of a list.
	empty := notifier.formatVoteSummary("2025-06-03", nil, 8)
	require.Len(t, empty.Blocks.BlockSet, 2)
}

func TestFormatVoteSummary_Oversubscribed(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock(), time.UTC)

	voters := make([]roster.Player, 10)
	for i := range voters {
		voters[i] = roster.Player{ID: "p", Name: "Player", Seed: i + 1}
	}
	msg := notifier.formatVoteSummary("2025-06-03", voters, 8)
	blocks := msg.Blocks.BlockSet
	require.Len(t, blocks, 3)

	footer, ok := blocks[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	text, ok := footer.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Contains(t, text.Text, "First 8 play")
}
