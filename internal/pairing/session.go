package pairing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vgtennis/court-scheduler/internal/roster"
)

// SessionState is the phase of a manual pairing session.
type SessionState string

const (
	StatePairing   SessionState = "PAIRING"
	StateFinalized SessionState = "FINALIZED"
)

var (
	// ErrSessionFinalized is returned for any mutation after Finalize.
	ErrSessionFinalized = errors.New("session already finalized")
	// ErrPlayerNotAvailable is returned when the named player is not in
	// the available list.
	ErrPlayerNotAvailable = errors.New("player not in available list")
	// ErrPlayerNotReserved is returned when the named player is not in
	// the reserve list.
	ErrPlayerNotReserved = errors.New("player not in reserve list")
	// ErrTeamNotFound is returned when disbanding an unknown team.
	ErrTeamNotFound = errors.New("team not found in session")
)

// Session is the in-memory working state of a manual pairing run for one
// date. It lives only until Finalize or abandonment; an abandoned session
// is simply discarded with no persisted trace.
type Session struct {
	mu sync.Mutex

	dateID    string
	state     SessionState
	available []roster.Player
	selected  []roster.Player
	teams     []Team
	reserves  []roster.Player
}

// NewSession starts a manual pairing session over the date's voters.
func NewSession(dateID string, players []roster.Player) *Session {
	available := make([]roster.Player, len(players))
	copy(available, players)
	return &Session{
		dateID:    dateID,
		state:     StatePairing,
		available: available,
		selected:  []roster.Player{},
		teams:     []Team{},
		reserves:  []roster.Player{},
	}
}

// SelectPlayer moves a player from available to the selection buffer. The
// moment two players are selected they are combined into a team and the
// buffer clears.
func (s *Session) SelectPlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinalized {
		return ErrSessionFinalized
	}

	player, ok := take(&s.available, playerID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotAvailable, playerID)
	}
	s.selected = append(s.selected, player)

	if len(s.selected) == 2 {
		s.teams = append(s.teams, newTeam(len(s.teams)+1, s.selected[0], s.selected[1]))
		s.selected = []roster.Player{}
	}
	return nil
}

// DisbandTeam removes a formed team, returning both players to available.
func (s *Session) DisbandTeam(teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinalized {
		return ErrSessionFinalized
	}

	idx := -1
	for i, team := range s.teams {
		if team.ID == teamID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}

	team := s.teams[idx]
	s.available = append(s.available, team.Player1, team.Player2)
	s.teams = append(s.teams[:idx], s.teams[idx+1:]...)
	for i := range s.teams {
		s.teams[i].ID = fmt.Sprintf("team-%d", i+1)
	}
	return nil
}

// MoveToReserves moves a player from available to reserves without
// forming a team.
func (s *Session) MoveToReserves(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinalized {
		return ErrSessionFinalized
	}

	player, ok := take(&s.available, playerID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotAvailable, playerID)
	}
	s.reserves = append(s.reserves, player)
	return nil
}

// MoveFromReserves returns a reserved player to the available list.
func (s *Session) MoveFromReserves(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinalized {
		return ErrSessionFinalized
	}

	player, ok := take(&s.reserves, playerID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotReserved, playerID)
	}
	s.available = append(s.available, player)
	return nil
}

// Finalize sweeps any still-available (or half-selected) players into
// reserves, builds matches from the accumulated teams and returns the
// committed assignment. A trailing unpaired team falls back to reserves
// like in every other strategy. After Finalize the session is dead.
func (s *Session) Finalize() (*Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinalized {
		return nil, ErrSessionFinalized
	}

	reserves := append([]roster.Player{}, s.reserves...)
	reserves = append(reserves, s.available...)
	reserves = append(reserves, s.selected...)

	teams := append([]Team{}, s.teams...)
	if len(teams)%2 != 0 {
		last := teams[len(teams)-1]
		reserves = append(reserves, last.Player1, last.Player2)
		teams = teams[:len(teams)-1]
	}

	s.state = StateFinalized
	s.available = nil
	s.selected = nil
	s.teams = nil
	s.reserves = nil

	return &Assignment{
		DateID:         s.dateID,
		Algorithm:      AlgorithmManual,
		Teams:          teams,
		Matches:        buildMatches(teams),
		ReservePlayers: reserves,
	}, nil
}

// State reports the session phase.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Available returns a copy of the available list.
func (s *Session) Available() []roster.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]roster.Player{}, s.available...)
}

// Selected returns a copy of the selection buffer.
func (s *Session) Selected() []roster.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]roster.Player{}, s.selected...)
}

// Teams returns a copy of the formed teams.
func (s *Session) Teams() []Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Team{}, s.teams...)
}

// Reserves returns a copy of the reserve list.
func (s *Session) Reserves() []roster.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]roster.Player{}, s.reserves...)
}

// take removes the player with the given id from the slice, returning it.
func take(players *[]roster.Player, playerID string) (roster.Player, bool) {
	for i, player := range *players {
		if player.ID == playerID {
			*players = append((*players)[:i], (*players)[i+1:]...)
			return player, true
		}
	}
	return roster.Player{}, false
}

// Sessions holds in-flight manual pairing sessions keyed by date. State
// is process-local; abandoned sessions are dropped without persistence.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session)}
}

// Start begins a session for the date, replacing any in-flight one.
func (r *Sessions) Start(dateID string, players []roster.Player) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := NewSession(dateID, players)
	r.sessions[dateID] = session
	return session
}

// Get returns the in-flight session for the date, if any.
func (r *Sessions) Get(dateID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[dateID]
	return session, ok
}

// Discard drops the session for the date, committed or not.
func (r *Sessions) Discard(dateID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, dateID)
}
