package roster

// RosterStore defines the interface for managing the player roster.
type RosterStore interface {
	// Create adds a player. A zero seed means "assign the next available
	// seed": the smallest positive integer not currently in use.
	Create(name string, seed int) (*Player, error)
	Get(playerID string) (*Player, error)
	// List returns all players sorted by seed ascending.
	List() ([]Player, error)
	// GetPlayers returns the players for the given ids, seed ascending.
	// Unknown ids are silently skipped.
	GetPlayers(playerIDs []string) ([]Player, error)
	// Update edits a player's name and seed. Assigning a seed already held
	// by a different player fails with ErrDuplicateSeed.
	Update(player Player) (*Player, error)
	Delete(playerID string) error
	// Reorder assigns seed = index+1 for the whole roster in the given
	// order, one write per player. A mid-way failure returns
	// *PartialReorderError; the writes already made are not rolled back.
	Reorder(orderedIDs []string) error
}
