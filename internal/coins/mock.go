package coins

// MockStore is a mock implementation of the CoinStore for testing.
type MockStore struct {
	BalanceFunc      func(username string) (*Balance, error)
	DebitFunc        func(username, feature, description string) (*Transaction, error)
	CreditFunc       func(username string, amount int, txType TransactionType, description string) (*Transaction, error)
	TransactionsFunc func(limit, offset int, txType TransactionType) ([]Transaction, int, error)
	PricingFunc      func() []FeaturePrice
	IsAdminFunc      func(username string) bool

	BalanceCalls []string
	DebitCalls   []DebitCall
	CreditCalls  []CreditCall
}

// DebitCall records the arguments of a Debit call.
type DebitCall struct {
	Username    string
	Feature     string
	Description string
}

// CreditCall records the arguments of a Credit call.
type CreditCall struct {
	Username    string
	Amount      int
	Type        TransactionType
	Description string
}

var _ CoinStore = (*MockStore)(nil)

// NewMock creates a new mock coin store.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Balance(username string) (*Balance, error) {
	m.BalanceCalls = append(m.BalanceCalls, username)
	if m.BalanceFunc != nil {
		return m.BalanceFunc(username)
	}
	return &Balance{Balance: DefaultBalance}, nil
}

func (m *MockStore) Debit(username, feature, description string) (*Transaction, error) {
	m.DebitCalls = append(m.DebitCalls, DebitCall{Username: username, Feature: feature, Description: description})
	if m.DebitFunc != nil {
		return m.DebitFunc(username, feature, description)
	}
	return &Transaction{Type: TypeUsage, Feature: feature}, nil
}

func (m *MockStore) Credit(username string, amount int, txType TransactionType, description string) (*Transaction, error) {
	m.CreditCalls = append(m.CreditCalls, CreditCall{Username: username, Amount: amount, Type: txType, Description: description})
	if m.CreditFunc != nil {
		return m.CreditFunc(username, amount, txType, description)
	}
	return &Transaction{Type: txType, Amount: amount}, nil
}

func (m *MockStore) Transactions(limit, offset int, txType TransactionType) ([]Transaction, int, error) {
	if m.TransactionsFunc != nil {
		return m.TransactionsFunc(limit, offset, txType)
	}
	return nil, 0, nil
}

func (m *MockStore) Pricing() []FeaturePrice {
	if m.PricingFunc != nil {
		return m.PricingFunc()
	}
	return nil
}

func (m *MockStore) IsAdmin(username string) bool {
	if m.IsAdminFunc != nil {
		return m.IsAdminFunc(username)
	}
	return false
}
