package coins

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// New creates a new CoinStore over the given database.
func New(db *sql.DB, clock clockwork.Clock, clubID, adminUser string) CoinStore {
	return &store{
		db:        db,
		clock:     clock,
		clubID:    clubID,
		adminUser: adminUser,
	}
}

func (s *store) IsAdmin(username string) bool {
	return username != "" && username == s.adminUser
}

func (s *store) Balance(username string) (*Balance, error) {
	if s.IsAdmin(username) {
		return &Balance{
			ClubID:      s.clubID,
			Balance:     UnlimitedBalance,
			LastUpdated: s.clock.Now(),
			Unlimited:   true,
		}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clubBalance()
}

// clubBalance reads the singleton pool row, creating it with the default
// allowance on first use. Callers must hold the lock.
func (s *store) clubBalance() (*Balance, error) {
	if err := s.ensureBalance(); err != nil {
		return nil, err
	}

	var b Balance
	var lastUpdated int64
	err := s.db.QueryRow(
		`SELECT club_id, balance, total_purchased, total_used, last_updated FROM club_balance WHERE club_id = ?`,
		s.clubID,
	).Scan(&b.ClubID, &b.Balance, &b.TotalPurchased, &b.TotalUsed, &lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("failed to load club balance: %w", err)
	}
	b.LastUpdated = unixTime(lastUpdated)
	return &b, nil
}

func (s *store) ensureBalance() error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO club_balance (club_id, balance, total_purchased, total_used, last_updated) VALUES (?, ?, ?, 0, ?)`,
		s.clubID, DefaultBalance, DefaultBalance, s.clock.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure club balance: %w", err)
	}
	return nil
}

func (s *store) Debit(username, feature, description string) (*Transaction, error) {
	cost, ok := FeatureCost(feature)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, feature)
	}
	if description == "" {
		description = fmt.Sprintf("Used %d coins for %s", cost, feature)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.adminLocked(username) {
		return s.journal(username, TypeUsage, cost, feature, description, UnlimitedBalance)
	}

	if err := s.ensureBalance(); err != nil {
		return nil, err
	}

	// The guard in the WHERE clause keeps the pool from going negative
	// even under concurrent debits.
	res, err := s.db.Exec(
		`UPDATE club_balance SET balance = balance - ?, total_used = total_used + ?, last_updated = ? WHERE club_id = ? AND balance >= ?`,
		cost, cost, s.clock.Now().Unix(), s.clubID, cost,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to debit club balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInsufficientCoins
	}

	balance, err := s.clubBalance()
	if err != nil {
		return nil, err
	}
	return s.journal(username, TypeUsage, cost, feature, description, balance.Balance)
}

func (s *store) Credit(username string, amount int, txType TransactionType, description string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	switch txType {
	case TypePurchase, TypeRefund, TypeBonus:
	default:
		return nil, fmt.Errorf("cannot credit with transaction type %q", txType)
	}
	if description == "" {
		description = fmt.Sprintf("Added %d coins to club balance", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureBalance(); err != nil {
		return nil, err
	}
	_, err := s.db.Exec(
		`UPDATE club_balance SET balance = balance + ?, total_purchased = total_purchased + ?, last_updated = ? WHERE club_id = ?`,
		amount, amount, s.clock.Now().Unix(), s.clubID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to credit club balance: %w", err)
	}

	balance, err := s.clubBalance()
	if err != nil {
		return nil, err
	}
	return s.journal(username, txType, amount, "COIN_PURCHASE", description, balance.Balance)
}

// journal records one ledger entry. Callers must hold the lock.
func (s *store) journal(username string, txType TransactionType, amount int, feature, description string, balanceAfter int) (*Transaction, error) {
	tx := &Transaction{
		ID:           uuid.NewString(),
		Username:     username,
		ClubID:       s.clubID,
		Type:         txType,
		Amount:       amount,
		Feature:      feature,
		Description:  description,
		BalanceAfter: balanceAfter,
		CreatedAt:    s.clock.Now(),
	}
	_, err := s.db.Exec(
		`INSERT INTO coin_transactions (id, username, club_id, type, amount, feature, description, balance_after, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Username, tx.ClubID, tx.Type, tx.Amount, tx.Feature, tx.Description, tx.BalanceAfter, tx.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record coin transaction: %w", err)
	}
	return tx, nil
}

func (s *store) Transactions(limit, offset int, txType TransactionType) ([]Transaction, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, username, club_id, type, amount, feature, description, balance_after, created_at FROM coin_transactions WHERE club_id = ?`
	countQuery := `SELECT COUNT(*) FROM coin_transactions WHERE club_id = ?`
	args := []any{s.clubID}
	if txType != "" {
		query += ` AND type = ?`
		countQuery += ` AND type = ?`
		args = append(args, string(txType))
	}

	var total int
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count coin transactions: %w", err)
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := s.db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coin transactions: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.Username, &t.ClubID, &t.Type, &t.Amount, &t.Feature, &t.Description, &t.BalanceAfter, &createdAt); err != nil {
			return nil, 0, err
		}
		t.CreatedAt = unixTime(createdAt)
		transactions = append(transactions, t)
	}
	return transactions, total, rows.Err()
}

func (s *store) Pricing() []FeaturePrice {
	pricing := make([]FeaturePrice, 0, len(featurePricing))
	for feature, cost := range featurePricing {
		pricing = append(pricing, FeaturePrice{Feature: feature, Cost: cost})
	}
	sort.Slice(pricing, func(i, j int) bool { return pricing[i].Feature < pricing[j].Feature })
	return pricing
}

// adminLocked is IsAdmin without taking the lock again.
func (s *store) adminLocked(username string) bool {
	return username != "" && username == s.adminUser
}
