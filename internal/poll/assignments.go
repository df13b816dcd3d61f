package poll

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/vgtennis/court-scheduler/internal/pairing"
)

// SaveAssignment stores a generated assignment, replacing any existing
// one for the same date. Delete-then-insert, never a field merge.
func (s *store) SaveAssignment(pollID string, assignment pairing.Assignment) (*Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(pollID)
	if err != nil {
		return nil, err
	}

	kept := []pairing.Assignment{}
	for _, existing := range p.GeneratedTeams {
		if existing.DateID != assignment.DateID {
			kept = append(kept, existing)
		}
	}
	p.GeneratedTeams = append(kept, assignment)

	if err := s.save(p); err != nil {
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}
	log.Info("Saved assignment", "poll", pollID, "date", assignment.DateID, "algorithm", assignment.Algorithm)
	return p, nil
}

// Assignments returns the poll's stored assignments in insertion order;
// callers sort for display.
func (s *store) Assignments(pollID string) ([]pairing.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.load(pollID)
	if err != nil {
		return nil, err
	}
	return p.GeneratedTeams, nil
}

// ClearAssignments drops every assignment in the poll. This is the blunt
// invalidation used when any vote changes without precise date info.
func (s *store) ClearAssignments(pollID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(pollID)
	if err != nil {
		return 0, err
	}

	cleared := len(p.GeneratedTeams)
	p.GeneratedTeams = []pairing.Assignment{}
	if err := s.save(p); err != nil {
		return 0, fmt.Errorf("failed to clear assignments: %w", err)
	}
	log.Info("Cleared all assignments", "poll", pollID, "count", cleared)
	return cleared, nil
}

// ClearAssignment drops the assignment for one date, if present.
func (s *store) ClearAssignment(pollID, dateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(pollID)
	if err != nil {
		return err
	}

	kept := []pairing.Assignment{}
	for _, existing := range p.GeneratedTeams {
		if existing.DateID != dateID {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(p.GeneratedTeams) {
		return nil
	}
	p.GeneratedTeams = kept

	if err := s.save(p); err != nil {
		return fmt.Errorf("failed to clear assignment: %w", err)
	}
	log.Info("Cleared assignment", "poll", pollID, "date", dateID)
	return nil
}
