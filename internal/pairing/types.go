package pairing

import (
	"errors"

	"github.com/vgtennis/court-scheduler/internal/roster"
)

// Algorithm names a pairing strategy.
type Algorithm string

const (
	// AlgorithmRandom shuffles voters uniformly and pairs neighbours.
	AlgorithmRandom Algorithm = "random"
	// AlgorithmBalanced pairs the top half of the seed order against the
	// bottom half ("top vs bottom").
	AlgorithmBalanced Algorithm = "balanced"
	// AlgorithmGrouped forms skill-tier groups of 4 and pairs
	// best+worst against 2nd-best+2nd-worst within each group.
	AlgorithmGrouped Algorithm = "grouped"
	// AlgorithmManual is the interactive session workflow; it cannot be
	// run as a one-shot generation.
	AlgorithmManual Algorithm = "manual"
	// AlgorithmRoundRobin synthesizes up to 4 overlapping matches by
	// least-usage selection. Used for read-only views when no assignment
	// exists yet; it is not a partition and never fills reserves.
	AlgorithmRoundRobin Algorithm = "round-robin"
)

// Team is a fixed pair of two players. AverageSeed is the plain
// arithmetic mean of the two seeds, not rounded.
type Team struct {
	ID          string        `json:"id"`
	Player1     roster.Player `json:"player1"`
	Player2     roster.Player `json:"player2"`
	AverageSeed float64       `json:"averageSeed"`
}

// Match is a fixed pair of two teams, four distinct players.
type Match struct {
	ID    string `json:"id"`
	TeamA Team   `json:"teamA"`
	TeamB Team   `json:"teamB"`
}

// Assignment is the persisted result of one pairing run for one date.
// Team and match ids are positional (team-1, match-1, ...) and are not
// stable across regeneration.
type Assignment struct {
	DateID         string          `json:"dateId"`
	Algorithm      Algorithm       `json:"algorithm"`
	Teams          []Team          `json:"teams"`
	Matches        []Match         `json:"matches"`
	ReservePlayers []roster.Player `json:"reservePlayers"`
}

var (
	// ErrUnknownAlgorithm is returned for an algorithm name the engine
	// does not recognize.
	ErrUnknownAlgorithm = errors.New("unknown pairing algorithm")
	// ErrManualNotDirect is returned when manual is requested as a
	// one-shot generation; manual pairing goes through a Session.
	ErrManualNotDirect = errors.New("manual pairing requires an interactive session")
	// ErrMatchNotFound is returned when mutating a missing match.
	ErrMatchNotFound = errors.New("match not found in assignment")
)
