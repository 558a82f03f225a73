package risk

import (
	"fmt"
	"time"

	"github.com/rustyeddy/banca/ledger"
	"github.com/shopspring/decimal"
)

// DayProfit sums the profit of operations created between local midnight
// and now.
func DayProfit(s ledger.State, now time.Time) decimal.Decimal {
	start := DayStart(now)
	total := decimal.Zero
	for _, op := range s.Operations {
		if !op.CreatedAt.Before(start) && !op.CreatedAt.After(now) {
			total = total.Add(ledger.Profit(op))
		}
	}
	return total
}

// Evaluate checks a stake of amount against p, given the ledger as it is
// before the stake is recorded.
func Evaluate(p Policy, s ledger.State, amount decimal.Decimal, now time.Time) Decision {
	snap := ledger.ComputeKPIs(s, now)
	d := Decision{
		Allowed:   true,
		Balance:   snap.CurrentBalance,
		DayProfit: DayProfit(s, now),
	}

	if snap.CurrentBalance.IsPositive() {
		d.StakePct = amount.Div(snap.CurrentBalance).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	if p.MaxStakePct > 0 {
		switch {
		case !snap.CurrentBalance.IsPositive():
			d.add("NO_BALANCE",
				fmt.Sprintf("balance %s leaves nothing to stake", snap.CurrentBalance.StringFixed(2)))
		case d.StakePct > p.MaxStakePct:
			d.add("STAKE_TOO_HIGH",
				fmt.Sprintf("stake %.2f%% of balance exceeds max %.2f%%", d.StakePct, p.MaxStakePct))
		}
	}

	if p.MaxDailyLossPct > 0 {
		dayBaseline := snap.CurrentBalance.Sub(d.DayProfit)
		if dayBaseline.IsPositive() {
			limit := dayBaseline.Mul(decimal.NewFromFloat(p.MaxDailyLossPct)).Div(decimal.NewFromInt(100)).Neg()
			if d.DayProfit.LessThanOrEqual(limit) {
				d.add("DAILY_LOSS_LIMIT",
					fmt.Sprintf("day P&L %s <= limit %s", d.DayProfit.StringFixed(2), limit.StringFixed(2)))
			}
		}
	}

	if p.MaxLossStreak > 0 && snap.CurrentStreakResult == ledger.Loss && snap.CurrentStreak >= p.MaxLossStreak {
		d.add("LOSS_STREAK",
			fmt.Sprintf("%d losses in a row (max %d)", snap.CurrentStreak, p.MaxLossStreak))
	}

	return d
}
