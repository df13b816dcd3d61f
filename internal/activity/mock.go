package activity

// MockStore is a mock implementation of the ActivityStore for testing.
type MockStore struct {
	LogFunc   func(username, action, detail string) (*Entry, error)
	ListFunc  func(filter Filter) ([]Entry, int, error)
	StatsFunc func() ([]ActionCount, error)

	LogCalls []LogCall
}

// LogCall records the arguments of a Log call.
type LogCall struct {
	Username string
	Action   string
	Detail   string
}

var _ ActivityStore = (*MockStore)(nil)

// NewMock creates a new mock activity store.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Log(username, action, detail string) (*Entry, error) {
	m.LogCalls = append(m.LogCalls, LogCall{Username: username, Action: action, Detail: detail})
	if m.LogFunc != nil {
		return m.LogFunc(username, action, detail)
	}
	return &Entry{Username: username, Action: action, Detail: detail}, nil
}

func (m *MockStore) List(filter Filter) ([]Entry, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(filter)
	}
	return nil, 0, nil
}

func (m *MockStore) Stats() ([]ActionCount, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc()
	}
	return nil, nil
}
