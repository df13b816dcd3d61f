package roster

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new RosterStore.
func New(db *sql.DB) RosterStore {
	return &store{
		db: db,
	}
}

func (s *store) Create(name string, seed int) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seed <= 0 {
		next, err := s.nextAvailableSeed()
		if err != nil {
			return nil, fmt.Errorf("failed to determine next seed: %w", err)
		}
		seed = next
	}

	player := &Player{
		ID:   uuid.New().String(),
		Name: name,
		Seed: seed,
	}
	_, err := s.db.Exec("INSERT INTO players (id, name, seed) VALUES (?, ?, ?)", player.ID, player.Name, player.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}

	log.Info("Created player", "id", player.ID, "name", player.Name, "seed", player.Seed)
	return player, nil
}

// nextAvailableSeed finds the first gap in the sorted seed sequence,
// defaulting to count+1 when the sequence is dense.
func (s *store) nextAvailableSeed() (int, error) {
	rows, err := s.db.Query("SELECT seed FROM players ORDER BY seed ASC")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var seeds []int
	for rows.Next() {
		var seed int
		if err := rows.Scan(&seed); err != nil {
			return 0, err
		}
		seeds = append(seeds, seed)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	sort.Ints(seeds)
	next := len(seeds) + 1
	for i, seed := range seeds {
		if seed != i+1 {
			next = i + 1
			break
		}
	}
	return next, nil
}

func (s *store) Get(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var player Player
	err := s.db.QueryRow("SELECT id, name, seed FROM players WHERE id = ?", playerID).
		Scan(&player.ID, &player.Name, &player.Seed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &player, nil
}

func (s *store) List() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryPlayers("SELECT id, name, seed FROM players ORDER BY seed ASC")
}

func (s *store) GetPlayers(playerIDs []string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(playerIDs) == 0 {
		return []Player{}, nil
	}

	query := "SELECT id, name, seed FROM players WHERE id IN (?" + strings.Repeat(",?", len(playerIDs)-1) + ") ORDER BY seed ASC"
	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}
	return s.queryPlayers(query, args...)
}

func (s *store) queryPlayers(query string, args ...any) ([]Player, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		var player Player
		if err := rows.Scan(&player.ID, &player.Name, &player.Seed); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (s *store) Update(player Player) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The seed uniqueness check excludes the player being edited.
	var holder string
	err := s.db.QueryRow("SELECT id FROM players WHERE seed = ? AND id != ?", player.Seed, player.ID).Scan(&holder)
	if err == nil {
		return nil, fmt.Errorf("seed %d held by player %s: %w", player.Seed, holder, ErrDuplicateSeed)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check seed uniqueness: %w", err)
	}

	result, err := s.db.Exec("UPDATE players SET name = ?, seed = ? WHERE id = ?", player.Name, player.Seed, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrPlayerNotFound
	}

	log.Info("Updated player", "id", player.ID, "name", player.Name, "seed", player.Seed)
	return &player, nil
}

func (s *store) Delete(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM players WHERE id = ?", playerID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlayerNotFound
	}

	log.Info("Deleted player", "id", playerID)
	return nil
}

func (s *store) Reorder(orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// One independent write per player, deliberately not a transaction:
	// the caller contract is "partial failure leaves a mix of old and new
	// seeds and must be surfaced, not masked".
	for i, playerID := range orderedIDs {
		_, err := s.db.Exec("UPDATE players SET seed = ? WHERE id = ?", i+1, playerID)
		if err != nil {
			log.Error("Reorder interrupted", "player_id", playerID, "completed", i, "total", len(orderedIDs), "error", err)
			return &PartialReorderError{
				Completed: i,
				Total:     len(orderedIDs),
				FailedID:  playerID,
				Err:       err,
			}
		}
	}

	log.Info("Reordered roster", "players", len(orderedIDs))
	return nil
}
