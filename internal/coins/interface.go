package coins

// CoinStore manages the shared club coin pool and its transaction ledger.
// The club pool can never go below zero. The configured admin user has an
// unlimited balance and is never debited, only journaled.
type CoinStore interface {
	// Balance returns the pool the given user draws from. For the admin
	// user the returned balance is unlimited.
	Balance(username string) (*Balance, error)
	// Debit charges the price of a feature against the club pool. The
	// deduction is atomic and fails with ErrInsufficientCoins when the
	// pool is short. Unknown features fail with ErrUnknownFeature.
	Debit(username, feature, description string) (*Transaction, error)
	// Credit adds coins to the club pool (PURCHASE, REFUND or BONUS).
	Credit(username string, amount int, txType TransactionType, description string) (*Transaction, error)
	// Transactions lists ledger entries newest first. An empty txType
	// matches all types. It also reports the total count for paging.
	Transactions(limit, offset int, txType TransactionType) ([]Transaction, int, error)
	// Pricing lists all billable features and their costs.
	Pricing() []FeaturePrice
	// IsAdmin reports whether the username is the unlimited admin account.
	IsAdmin(username string) bool
}
