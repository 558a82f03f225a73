package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPISnapshot is everything the dashboard shows, derived from a State at a
// given instant.
type KPISnapshot struct {
	CurrentBalance decimal.Decimal `json:"currentBalance"`

	MonthStart        time.Time       `json:"monthStart"`
	ProfitBeforeMonth decimal.Decimal `json:"profitBeforeMonth"`
	MonthBaseline     decimal.Decimal `json:"monthBaseline"`

	MonthOperations    int             `json:"monthOperations"`
	MonthWins          int             `json:"monthWins"`
	MonthLosses        int             `json:"monthLosses"`
	HitRate            float64         `json:"hitRate"` // 0-100
	MonthProfit        decimal.Decimal `json:"monthProfit"`
	MonthVariationPct  float64         `json:"monthVariationPct"`
	AverageMonthAmount decimal.Decimal `json:"averageMonthAmount"`

	CurrentStreak       int    `json:"currentStreak"`
	CurrentStreakResult Result `json:"currentStreakResult,omitempty"` // empty for an empty log
	MaxWinStreak        int    `json:"maxWinStreak"`
	MaxLossStreak       int    `json:"maxLossStreak"`

	LastOperation *Operation `json:"lastOperation,omitempty"`
}

// MonthStart returns midnight on the first day of now's month, in now's
// location.
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ComputeKPIs derives the KPI set for s as seen at now. It has no side
// effects and the same inputs always give the same snapshot.
func ComputeKPIs(s State, now time.Time) KPISnapshot {
	start := MonthStart(now)

	snap := KPISnapshot{
		MonthStart:         start,
		ProfitBeforeMonth:  decimal.Zero,
		MonthProfit:        decimal.Zero,
		AverageMonthAmount: decimal.Zero,
	}

	total := decimal.Zero
	monthAmount := decimal.Zero
	for _, op := range s.Operations {
		p := Profit(op)
		total = total.Add(p)

		if op.CreatedAt.Before(start) {
			snap.ProfitBeforeMonth = snap.ProfitBeforeMonth.Add(p)
			continue
		}
		if op.CreatedAt.After(now) {
			continue
		}

		snap.MonthOperations++
		snap.MonthProfit = snap.MonthProfit.Add(p)
		monthAmount = monthAmount.Add(op.Amount)
		switch op.Result {
		case Win:
			snap.MonthWins++
		case Loss:
			snap.MonthLosses++
		}
	}

	snap.CurrentBalance = s.InitialBalance.Add(total)
	snap.MonthBaseline = s.InitialBalance.Add(snap.ProfitBeforeMonth)

	if decided := snap.MonthWins + snap.MonthLosses; decided > 0 {
		snap.HitRate = float64(snap.MonthWins) / float64(decided) * 100
	}
	if snap.MonthBaseline.IsPositive() {
		snap.MonthVariationPct = snap.MonthProfit.Div(snap.MonthBaseline).Mul(hundred).InexactFloat64()
	}
	if snap.MonthOperations > 0 {
		snap.AverageMonthAmount = monthAmount.Div(decimal.NewFromInt(int64(snap.MonthOperations)))
	}

	snap.CurrentStreak, snap.CurrentStreakResult = CurrentStreak(s.Operations)
	snap.MaxWinStreak = MaxStreak(s.Operations, Win)
	snap.MaxLossStreak = MaxStreak(s.Operations, Loss)

	if last, ok := s.Last(); ok {
		snap.LastOperation = &last
	}
	return snap
}

// CurrentStreak counts the trailing operations that share the last
// operation's result.
func CurrentStreak(ops []Operation) (int, Result) {
	if len(ops) == 0 {
		return 0, ""
	}
	want := ops[len(ops)-1].Result
	n := 0
	for i := len(ops) - 1; i >= 0 && ops[i].Result == want; i-- {
		n++
	}
	return n, want
}

// MaxStreak returns the longest run of consecutive r results in ops.
func MaxStreak(ops []Operation, r Result) int {
	best, run := 0, 0
	for _, op := range ops {
		if op.Result != r {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}
