package activity

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type store struct {
	db    *sql.DB
	clock clockwork.Clock
	mu    sync.RWMutex
}

// Entry is one recorded action.
type Entry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Filter narrows a List call. Zero values match everything.
type Filter struct {
	Username string
	Action   string
	Limit    int
	Offset   int
}

// ActionCount is one row of the per-action usage summary.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}
