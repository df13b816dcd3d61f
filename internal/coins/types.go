package coins

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// store is the sqlite-backed implementation of CoinStore.
type store struct {
	db        *sql.DB
	clock     clockwork.Clock
	clubID    string
	adminUser string
	mu        sync.RWMutex
}

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TypePurchase TransactionType = "PURCHASE"
	TypeUsage    TransactionType = "USAGE"
	TypeRefund   TransactionType = "REFUND"
	TypeBonus    TransactionType = "BONUS"
)

// DefaultBalance is the pool a new club starts with.
const DefaultBalance = 500

// UnlimitedBalance marks the admin's balance, which is never deducted.
const UnlimitedBalance = -1

// Balance is the current state of a coin pool.
type Balance struct {
	ClubID         string    `json:"clubId"`
	Balance        int       `json:"balance"`
	TotalPurchased int       `json:"totalPurchased"`
	TotalUsed      int       `json:"totalUsed"`
	LastUpdated    time.Time `json:"lastUpdated"`
	Unlimited      bool      `json:"isUnlimited"`
}

// Transaction is one ledger entry.
type Transaction struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	ClubID       string          `json:"clubId"`
	Type         TransactionType `json:"type"`
	Amount       int             `json:"amount"`
	Feature      string          `json:"feature"`
	Description  string          `json:"description"`
	BalanceAfter int             `json:"balanceAfter"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// FeaturePrice is one row of the pricing table.
type FeaturePrice struct {
	Feature string `json:"feature"`
	Cost    int    `json:"cost"`
}

var (
	ErrInsufficientCoins = errors.New("insufficient club coins")
	ErrUnknownFeature    = errors.New("unknown feature")
	ErrInvalidAmount     = errors.New("invalid coin amount")
)

// featurePricing maps every billable feature to its cost in coins.
var featurePricing = map[string]int{
	// Page access
	"CALENDAR_VIEW":      1,
	"POLL_VOTING_VIEW":   2,
	"PLAYERS_VIEW":       3,
	"TEAMS_MATCHES_VIEW": 2,
	"POLL_RESULTS_VIEW":  5,
	"ACTIVITY_LOGS_VIEW": 1,

	// Actions
	"VOTE_SUBMISSION":      1,
	"PLAYER_ADD":           2,
	"PLAYER_EDIT":          1,
	"PLAYER_DELETE":        1,
	"TEAM_GENERATION":      4,
	"MATCH_SCHEDULING":     3,
	"ACTIVITY_LOGS_FILTER": 2,
	"ACTIVITY_LOGS_EXPORT": 5,
	"ACTIVITY_STATS_VIEW":  3,
	"DATA_EXPORT":          2,
	"USER_ANALYTICS":       4,
}

// FeatureCost reports the price of a feature, if it is billable.
func FeatureCost(feature string) (int, bool) {
	cost, ok := featurePricing[feature]
	return cost, ok
}
