package roster

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// store handles all database operations for the player roster.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Player is a club member eligible for voting and pairing. Seed is the
// player's rank (1 = best); the roster keeps seeds unique but the pairing
// engine never relies on that.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seed int    `json:"seed"`
}

// ErrPlayerNotFound is returned when no player exists for the given id.
var ErrPlayerNotFound = errors.New("player not found")

// ErrDuplicateSeed is returned when an update would give two players the
// same seed.
var ErrDuplicateSeed = errors.New("seed already in use")

// PartialReorderError reports a bulk reorder that was interrupted midway.
// Reorder persists one player at a time, so a failure leaves a mix of old
// and new seeds; callers should reload and surface a degraded outcome
// instead of retrying automatically.
type PartialReorderError struct {
	Completed int
	Total     int
	FailedID  string
	Err       error
}

func (e *PartialReorderError) Error() string {
	return fmt.Sprintf("reorder interrupted at player %s: %d/%d updated: %v", e.FailedID, e.Completed, e.Total, e.Err)
}

func (e *PartialReorderError) Unwrap() error {
	return e.Err
}
