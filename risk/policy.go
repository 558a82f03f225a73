// Package risk checks a prospective stake against bankroll limits. Its
// decisions are advisory: operations are recorded whatever it says.
package risk

import (
	"time"

	"github.com/rustyeddy/banca/config"
	"github.com/shopspring/decimal"
)

type Policy struct {
	// Largest stake as a share of the current balance (0-100).
	MaxStakePct float64

	// Circuit breakers
	MaxDailyLossPct float64 // share of the balance at day start (0-100)
	MaxLossStreak   int
}

func PolicyFrom(c config.RiskConfig) Policy {
	return Policy{
		MaxStakePct:     c.MaxStakePct,
		MaxDailyLossPct: c.MaxDailyLossPct,
		MaxLossStreak:   c.MaxLossStreak,
	}
}

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`

	Balance   decimal.Decimal `json:"balance"`
	StakePct  float64         `json:"stakePct"`
	DayProfit decimal.Decimal `json:"dayProfit"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// DayStart is local midnight of now's day, in now's location.
func DayStart(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
