package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventVoteSubmitted       EventType = "vote-submitted"
	EventAssignmentGenerated EventType = "assignment-generated"
	EventRosterReordered     EventType = "roster-reordered"
)

// VoteSubmittedEvent is published after a vote changes a poll.
type VoteSubmittedEvent struct {
	PollID       string   `msgpack:"poll_id"`
	PlayerID     string   `msgpack:"player_id"`
	PlayerName   string   `msgpack:"player_name"`
	ChangedDates []string `msgpack:"changed_dates"`
	TotalVotes   int      `msgpack:"total_votes"`
}

// AssignmentGeneratedEvent is published after a lineup is generated and saved.
type AssignmentGeneratedEvent struct {
	PollID    string `msgpack:"poll_id"`
	DateID    string `msgpack:"date_id"`
	Algorithm string `msgpack:"algorithm"`
	Teams     int    `msgpack:"teams"`
	Matches   int    `msgpack:"matches"`
	Reserves  int    `msgpack:"reserves"`
}

// RosterReorderedEvent is published after a full roster reorder.
type RosterReorderedEvent struct {
	PlayerIDs []string `msgpack:"player_ids"`
	Partial   bool     `msgpack:"partial"`
}
