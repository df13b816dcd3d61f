package roster

import (
	"sync"
)

// MockStore is a mock implementation of the RosterStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateFunc     func(name string, seed int) (*Player, error)
	GetFunc        func(playerID string) (*Player, error)
	ListFunc       func() ([]Player, error)
	GetPlayersFunc func(playerIDs []string) ([]Player, error)
	UpdateFunc     func(player Player) (*Player, error)
	DeleteFunc     func(playerID string) error
	ReorderFunc    func(orderedIDs []string) error

	// Call records
	CreateCalls []struct {
		Name string
		Seed int
	}
	GetCalls        []string
	GetPlayersCalls [][]string
	UpdateCalls     []Player
	DeleteCalls     []string
	ReorderCalls    [][]string
}

var _ RosterStore = (*MockStore)(nil)

// NewMock creates a new mock RosterStore.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(name string, seed int) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, struct {
		Name string
		Seed int
	}{name, seed})
	if m.CreateFunc != nil {
		return m.CreateFunc(name, seed)
	}
	return &Player{ID: "mock-player", Name: name, Seed: seed}, nil
}

func (m *MockStore) Get(playerID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, playerID)
	if m.GetFunc != nil {
		return m.GetFunc(playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) List() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return []Player{}, nil
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, playerIDs)
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return []Player{}, nil
}

func (m *MockStore) Update(player Player) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, player)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(player)
	}
	return &player, nil
}

func (m *MockStore) Delete(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, playerID)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(playerID)
	}
	return nil
}

func (m *MockStore) Reorder(orderedIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReorderCalls = append(m.ReorderCalls, orderedIDs)
	if m.ReorderFunc != nil {
		return m.ReorderFunc(orderedIDs)
	}
	return nil
}
