package schedule

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Generator produces the current valid set of date options. It is a pure
// function of "now": callers must regenerate on every poll read rather
// than cache the result, because "today" changes between requests.
type Generator struct {
	strategy Strategy
	clock    clockwork.Clock
	loc      *time.Location
}

// New creates a Generator. An unknown strategy falls back to StrategyWeek.
func New(strategy Strategy, clock clockwork.Clock, loc *time.Location) *Generator {
	if strategy != StrategyWeek && strategy != StrategyMWF {
		strategy = StrategyWeek
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{
		strategy: strategy,
		clock:    clock,
		loc:      loc,
	}
}

// Options returns the ordered rolling window for the configured strategy.
func (g *Generator) Options() []Option {
	today := g.clock.Now().In(g.loc)
	switch g.strategy {
	case StrategyMWF:
		return rollingMWF(today)
	default:
		return rollingWeek(today)
	}
}

// rollingWeek generates the next 7 calendar days starting tomorrow.
func rollingWeek(today time.Time) []Option {
	options := make([]Option, 0, 7)
	for i := 1; i <= 7; i++ {
		date := today.AddDate(0, 0, i).Format(DateLayout)
		options = append(options, Option{
			ID:         date,
			Date:       date,
			Time:       "",
			MaxPlayers: DefaultMaxPlayers,
		})
	}
	return options
}

// rollingMWF generates the next 9 Monday/Wednesday/Friday occurrences,
// starting today if today is one of those days.
func rollingMWF(today time.Time) []Option {
	options := make([]Option, 0, 9)
	day := today
	for len(options) < 9 {
		switch day.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
			date := day.Format(DateLayout)
			options = append(options, Option{
				ID:         date,
				Date:       date,
				Time:       "",
				MaxPlayers: DefaultMaxPlayers,
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return options
}
