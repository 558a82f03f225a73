package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StrategyStats aggregates the whole log for one strategy label.
type StrategyStats struct {
	Strategy   string          `json:"strategy"`
	Operations int             `json:"operations"`
	Wins       int             `json:"wins"`
	Losses     int             `json:"losses"`
	HitRate    float64         `json:"hitRate"`
	NetProfit  decimal.Decimal `json:"netProfit"`
}

// StrategyBreakdown groups every operation in s by Strategy, sorted by name.
// Operations without a strategy are grouped under "".
func StrategyBreakdown(s State) []StrategyStats {
	byName := map[string]*StrategyStats{}
	for _, op := range s.Operations {
		st, ok := byName[op.Strategy]
		if !ok {
			st = &StrategyStats{Strategy: op.Strategy, NetProfit: decimal.Zero}
			byName[op.Strategy] = st
		}
		st.Operations++
		st.NetProfit = st.NetProfit.Add(Profit(op))
		if op.Result == Win {
			st.Wins++
		} else {
			st.Losses++
		}
	}

	out := make([]StrategyStats, 0, len(byName))
	for _, st := range byName {
		if st.Operations > 0 {
			st.HitRate = float64(st.Wins) / float64(st.Operations) * 100
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strategy < out[j].Strategy })
	return out
}
