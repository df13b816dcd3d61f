package schedule

// Option is a single candidate date offered for voting. ID doubles as the
// canonical date string (YYYY-MM-DD); Time is unused by the current
// generation strategies but kept on the wire for older clients.
type Option struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	MaxPlayers int    `json:"maxPlayers"`
}

// Strategy selects how the rolling window is generated.
type Strategy string

const (
	// StrategyWeek offers the next 7 calendar days starting tomorrow.
	StrategyWeek Strategy = "week"
	// StrategyMWF offers the next 9 Monday/Wednesday/Friday occurrences,
	// starting today when today qualifies.
	StrategyMWF Strategy = "mwf"
)

// DefaultMaxPlayers is enough for two doubles matches per date.
const DefaultMaxPlayers = 8

// DateLayout is the canonical option id/date format.
const DateLayout = "2006-01-02"
