package activity

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// New creates a new ActivityStore.
func New(db *sql.DB, clock clockwork.Clock) ActivityStore {
	return &store{
		db:    db,
		clock: clock,
	}
}

func (s *store) Log(username, action, detail string) (*Entry, error) {
	if username == "" {
		username = "anonymous"
	}
	if action == "" {
		return nil, fmt.Errorf("activity action is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	res, err := s.db.Exec(
		`INSERT INTO activity_logs (username, action, detail, created_at) VALUES (?, ?, ?, ?)`,
		username, action, detail, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Entry{
		ID:        id,
		Username:  username,
		Action:    action,
		Detail:    detail,
		CreatedAt: now.UTC().Truncate(time.Second),
	}, nil
}

func (s *store) List(filter Filter) ([]Entry, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	where := ` WHERE 1=1`
	var args []any
	if filter.Username != "" {
		where += ` AND username = ?`
		args = append(args, filter.Username)
	}
	if filter.Action != "" {
		where += ` AND action = ?`
		args = append(args, filter.Action)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM activity_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, username, action, detail, created_at FROM activity_logs`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.Detail, &createdAt); err != nil {
			return nil, 0, err
		}
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (s *store) Stats() ([]ActionCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT action, COUNT(*) FROM activity_logs GROUP BY action ORDER BY COUNT(*) DESC, action ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize activity: %w", err)
	}
	defer rows.Close()

	var counts []ActionCount
	for rows.Next() {
		var c ActionCount
		if err := rows.Scan(&c.Action, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
