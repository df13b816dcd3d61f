package poll

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/schedule"
)

// New creates a new PollStore. The generator supplies the rolling date
// window applied on every read.
func New(db *sql.DB, window *schedule.Generator) PollStore {
	return &store{
		db:     db,
		window: window,
	}
}

func (s *store) Create(title, description string) (*Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &Poll{
		ID:             uuid.New().String(),
		Title:          title,
		Description:    description,
		Options:        s.window.Options(),
		Votes:          []Vote{},
		GeneratedTeams: []pairing.Assignment{},
	}

	optionsJSON, votesJSON, teamsJSON, err := marshalBlobs(p)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	_, err = s.db.Exec(`
		INSERT INTO polls (id, title, description, options_json, votes_json, teams_json, total_votes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Title, p.Description, optionsJSON, votesJSON, teamsJSON, p.TotalVotes, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert poll: %w", err)
	}

	log.Info("Created poll", "id", p.ID, "title", p.Title)
	return p, nil
}

func (s *store) Get(pollID string) (*Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(pollID)
	if err != nil {
		return nil, err
	}
	if reconcile(p, s.window.Options()) {
		if err := s.save(p); err != nil {
			return nil, fmt.Errorf("failed to persist reconciled poll: %w", err)
		}
	}
	return p, nil
}

func (s *store) List() ([]Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT id FROM polls ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	newOptions := s.window.Options()
	polls := []Poll{}
	for _, id := range ids {
		p, err := s.load(id)
		if err != nil {
			return nil, err
		}
		if reconcile(p, newOptions) {
			if err := s.save(p); err != nil {
				return nil, fmt.Errorf("failed to persist reconciled poll: %w", err)
			}
		}
		polls = append(polls, *p)
	}
	return polls, nil
}

func (s *store) Delete(pollID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM polls WHERE id = ?", pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPollNotFound
	}
	log.Info("Deleted poll", "id", pollID)
	return nil
}

// load reads a poll row without reconciling. Callers hold the lock.
func (s *store) load(pollID string) (*Poll, error) {
	var p Poll
	var optionsJSON, votesJSON, teamsJSON string
	err := s.db.QueryRow(`
		SELECT id, title, description, options_json, votes_json, teams_json, total_votes
		FROM polls WHERE id = ?
	`, pollID).Scan(&p.ID, &p.Title, &p.Description, &optionsJSON, &votesJSON, &teamsJSON, &p.TotalVotes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := json.Unmarshal([]byte(optionsJSON), &p.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if err := json.Unmarshal([]byte(votesJSON), &p.Votes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal votes: %w", err)
	}
	if err := json.Unmarshal([]byte(teamsJSON), &p.GeneratedTeams); err != nil {
		return nil, fmt.Errorf("failed to unmarshal generated teams: %w", err)
	}
	return &p, nil
}

// save writes the whole poll document back in one statement. Callers
// hold the lock.
func (s *store) save(p *Poll) error {
	optionsJSON, votesJSON, teamsJSON, err := marshalBlobs(p)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		UPDATE polls
		SET title = ?, description = ?, options_json = ?, votes_json = ?, teams_json = ?, total_votes = ?, updated_at = ?
		WHERE id = ?
	`, p.Title, p.Description, optionsJSON, votesJSON, teamsJSON, p.TotalVotes, time.Now().Unix(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to save poll: %w", err)
	}
	return nil
}

func marshalBlobs(p *Poll) (string, string, string, error) {
	optionsJSON, err := json.Marshal(p.Options)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal options: %w", err)
	}
	votesJSON, err := json.Marshal(p.Votes)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal votes: %w", err)
	}
	teamsJSON, err := json.Marshal(p.GeneratedTeams)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal generated teams: %w", err)
	}
	return string(optionsJSON), string(votesJSON), string(teamsJSON), nil
}

// reconcile migrates a poll onto the freshly generated window. Votes are
// filtered to the intersection with the new option ids; votes left with
// nothing are dropped, not migrated to an equivalent later date. Returns
// whether the poll changed and needs persisting.
func reconcile(p *Poll, newOptions []schedule.Option) bool {
	valid := make(map[string]bool, len(newOptions))
	for _, option := range newOptions {
		valid[option.ID] = true
	}

	// Cheap signal the window rolled over, plus a scan for stale votes.
	needsUpdate := len(p.Options) == 0 || p.Options[0].Date != newOptions[0].Date
	if !needsUpdate {
		for _, vote := range p.Votes {
			for _, optionID := range vote.OptionIDs {
				if !valid[optionID] {
					needsUpdate = true
					break
				}
			}
			if needsUpdate {
				break
			}
		}
	}
	if !needsUpdate {
		return false
	}

	log.Info("Reconciling poll onto current window", "poll", p.ID, "first_date", newOptions[0].Date)

	votes := []Vote{}
	for _, vote := range p.Votes {
		kept := []string{}
		for _, optionID := range vote.OptionIDs {
			if valid[optionID] {
				kept = append(kept, optionID)
			}
		}
		if len(kept) == 0 {
			log.Info("Dropping stale vote", "poll", p.ID, "player", vote.PlayerID)
			continue
		}
		vote.OptionIDs = kept
		votes = append(votes, vote)
	}

	p.Options = newOptions
	p.Votes = votes
	p.TotalVotes = totalVotes(votes)
	return true
}

func totalVotes(votes []Vote) int {
	total := 0
	for _, vote := range votes {
		total += len(vote.OptionIDs)
	}
	return total
}
