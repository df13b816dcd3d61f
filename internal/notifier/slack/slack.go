package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
	"github.com/vgtennis/court-scheduler/internal/metrics"
	"github.com/vgtennis/court-scheduler/internal/notifier"
	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/roster"
	"github.com/vgtennis/court-scheduler/internal/schedule"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	loc       *time.Location
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics, loc *time.Location) *Notifier {
	api := slack.New(token)
	return NewNotifierWithAPI(api, channelID, metrics, loc)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		loc:       loc,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendLineupNotification(assignment *pairing.Assignment, dryRun bool) error {
	msg := s.formatLineupNotification(assignment)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendVoteSummary(dateID string, voters []roster.Player, maxPlayers int, dryRun bool) error {
	msg := s.formatVoteSummary(dateID, voters, maxPlayers)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendRosterUpdate(players []roster.Player, dryRun bool) error {
	msg := s.formatRosterUpdate(players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// playDate renders a poll date id like "2025-06-03" in the club's timezone.
func (s *Notifier) playDate(dateID string) string {
	t, err := time.ParseInLocation(schedule.DateLayout, dateID, s.loc)
	if err != nil {
		return dateID
	}
	return t.Format("Monday 02 Jan")
}

// formatLineupNotification creates the Slack message for a generated lineup using Block Kit.
func (s *Notifier) formatLineupNotification(assignment *pairing.Assignment) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Teams are up! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Play date: %s\nPairing: %s", s.playDate(assignment.DateID), assignment.Algorithm)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	if len(assignment.Teams) > 0 {
		teamLines := make([]string, 0, len(assignment.Teams))
		for i, team := range assignment.Teams {
			teamLines = append(teamLines, fmt.Sprintf("• Team %d: %s & %s", i+1, team.Player1.Name, team.Player2.Name))
		}
		teamsText := "Teams:\n" + strings.Join(teamLines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", teamsText, true, false), nil, nil))
	}

	if len(assignment.Matches) > 0 {
		teamNames := make(map[string]string, len(assignment.Teams))
		for _, team := range assignment.Teams {
			teamNames[team.ID] = fmt.Sprintf("%s & %s", team.Player1.Name, team.Player2.Name)
		}
		matchLines := make([]string, 0, len(assignment.Matches))
		for i, match := range assignment.Matches {
			matchLines = append(matchLines, fmt.Sprintf("• Match %d: %s vs %s", i+1, teamNames[match.TeamA.ID], teamNames[match.TeamB.ID]))
		}
		matchesText := "Matches:\n" + strings.Join(matchLines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", matchesText, true, false), nil, nil))
	}

	if len(assignment.ReservePlayers) > 0 {
		names := make([]string, 0, len(assignment.ReservePlayers))
		for _, player := range assignment.ReservePlayers {
			names = append(names, player.Name)
		}
		reserveText := fmt.Sprintf("🎾 Reserves: %s", strings.Join(names, ", "))
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", reserveText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatVoteSummary creates a Slack message summarizing who is in for one play date.
func (s *Notifier) formatVoteSummary(dateID string, voters []roster.Player, maxPlayers int) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🎾 Who's in for %s?", s.playDate(dateID)), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(voters) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No votes yet. Open the poll and pick your dates!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	lines := make([]string, 0, len(voters))
	for i, voter := range voters {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, voter.Name))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	countText := fmt.Sprintf("%d of %d spots taken", len(voters), maxPlayers)
	if len(voters) > maxPlayers {
		countText = fmt.Sprintf("%d signed up, %d spots. First %d play, the rest are reserves.", len(voters), maxPlayers, maxPlayers)
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", countText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatRosterUpdate creates a Slack message listing the roster in seed order.
func (s *Notifier) formatRosterUpdate(players []roster.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Club roster updated 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "The roster is empty.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, player := range players {
		playerText := fmt.Sprintf("%d. %s", player.Seed, player.Name)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
