package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	votesSubmitted       int
	assignmentsGenerated map[string]int
	generationDurations  []float64
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		assignmentsGenerated: make(map[string]int),
		generationDurations:  make([]float64, 0),
	}
}

func (m *Mock) IncVotesSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.votesSubmitted++
}

func (m *Mock) IncAssignmentsGenerated(algorithm string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignmentsGenerated[algorithm]++
}

func (m *Mock) ObserveGenerationDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generationDurations = append(m.generationDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// VotesSubmitted returns the number of times IncVotesSubmitted was called.
func (m *Mock) VotesSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.votesSubmitted
}

// AssignmentsGenerated returns the generation count for one algorithm.
func (m *Mock) AssignmentsGenerated(algorithm string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignmentsGenerated[algorithm]
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

var _ Metrics = (*Mock)(nil)
