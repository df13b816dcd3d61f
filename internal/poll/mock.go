package poll

import (
	"sync"

	"github.com/vgtennis/court-scheduler/internal/pairing"
)

// MockStore is a mock implementation of the PollStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateFunc           func(title, description string) (*Poll, error)
	GetFunc              func(pollID string) (*Poll, error)
	ListFunc             func() ([]Poll, error)
	DeleteFunc           func(pollID string) error
	SubmitVoteFunc       func(pollID, playerID, playerName string, optionIDs []string) (*VoteResult, error)
	SaveAssignmentFunc   func(pollID string, assignment pairing.Assignment) (*Poll, error)
	AssignmentsFunc      func(pollID string) ([]pairing.Assignment, error)
	ClearAssignmentsFunc func(pollID string) (int, error)
	ClearAssignmentFunc  func(pollID, dateID string) error

	// Call records
	GetCalls        []string
	SubmitVoteCalls []SubmitVoteCall
	SaveAssignmentCalls []struct {
		PollID     string
		Assignment pairing.Assignment
	}
	ClearAssignmentsCalls []string
	ClearAssignmentCalls  []struct {
		PollID string
		DateID string
	}
}

// SubmitVoteCall holds the arguments for a call to SubmitVote.
type SubmitVoteCall struct {
	PollID     string
	PlayerID   string
	PlayerName string
	OptionIDs  []string
}

var _ PollStore = (*MockStore)(nil)

// NewMock creates a new mock PollStore.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(title, description string) (*Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(title, description)
	}
	return &Poll{ID: "mock-poll", Title: title, Description: description}, nil
}

func (m *MockStore) Get(pollID string) (*Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, pollID)
	if m.GetFunc != nil {
		return m.GetFunc(pollID)
	}
	return nil, ErrPollNotFound
}

func (m *MockStore) List() ([]Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return []Poll{}, nil
}

func (m *MockStore) Delete(pollID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(pollID)
	}
	return nil
}

func (m *MockStore) SubmitVote(pollID, playerID, playerName string, optionIDs []string) (*VoteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitVoteCalls = append(m.SubmitVoteCalls, SubmitVoteCall{pollID, playerID, playerName, optionIDs})
	if m.SubmitVoteFunc != nil {
		return m.SubmitVoteFunc(pollID, playerID, playerName, optionIDs)
	}
	return &VoteResult{Message: MsgVoteSubmitted, Poll: &Poll{ID: pollID}}, nil
}

func (m *MockStore) SaveAssignment(pollID string, assignment pairing.Assignment) (*Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveAssignmentCalls = append(m.SaveAssignmentCalls, struct {
		PollID     string
		Assignment pairing.Assignment
	}{pollID, assignment})
	if m.SaveAssignmentFunc != nil {
		return m.SaveAssignmentFunc(pollID, assignment)
	}
	return &Poll{ID: pollID, GeneratedTeams: []pairing.Assignment{assignment}}, nil
}

func (m *MockStore) Assignments(pollID string) ([]pairing.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AssignmentsFunc != nil {
		return m.AssignmentsFunc(pollID)
	}
	return []pairing.Assignment{}, nil
}

func (m *MockStore) ClearAssignments(pollID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearAssignmentsCalls = append(m.ClearAssignmentsCalls, pollID)
	if m.ClearAssignmentsFunc != nil {
		return m.ClearAssignmentsFunc(pollID)
	}
	return 0, nil
}

func (m *MockStore) ClearAssignment(pollID, dateID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearAssignmentCalls = append(m.ClearAssignmentCalls, struct {
		PollID string
		DateID string
	}{pollID, dateID})
	if m.ClearAssignmentFunc != nil {
		return m.ClearAssignmentFunc(pollID, dateID)
	}
	return nil
}
