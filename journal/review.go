package journal

import (
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/banca/ledger"
	"github.com/shopspring/decimal"
)

// MonthReview is the input to the monthly Org review page.
type MonthReview struct {
	Account    string
	Currency   string
	Created    time.Time
	KPIs       ledger.KPISnapshot
	Strategies []ledger.StrategyStats
	Operations []ledger.Operation // this month's operations
}

var reviewFuncs = template.FuncMap{
	"money":  func(d decimal.Decimal) string { return d.StringFixed(2) },
	"profit": func(op ledger.Operation) string { return ledger.Profit(op).StringFixed(2) },
	"short":  shortID,
}

var reviewTemplate = template.Must(template.New("review").Funcs(reviewFuncs).Parse(ReviewOrgTemplate))

// WriteReviewOrg renders r as an Org-mode page.
func WriteReviewOrg(w io.Writer, r MonthReview) error {
	return reviewTemplate.Execute(w, r)
}

const ReviewOrgTemplate = `* REVIEW: {{.Account}} {{.KPIs.MonthStart.Format "2006-01"}}
:PROPERTIES:
:CURRENCY:    {{.Currency}}
:BALANCE:     {{money .KPIs.CurrentBalance}}
:BASELINE:    {{money .KPIs.MonthBaseline}}
:MONTH_PL:    {{money .KPIs.MonthProfit}}
:MONTH_PCT:   {{printf "%.2f" .KPIs.MonthVariationPct}}
:OPERATIONS:  {{.KPIs.MonthOperations}}
:WINS:        {{.KPIs.MonthWins}}
:LOSSES:      {{.KPIs.MonthLosses}}
:HIT_RATE:    {{printf "%.2f" .KPIs.HitRate}}
:AVG_AMOUNT:  {{money .KPIs.AverageMonthAmount}}
:MAX_WIN_RUN: {{.KPIs.MaxWinStreak}}
:CREATED:     [{{.Created.Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategies
| Strategy | Ops | Wins | Losses | Hit % | Net P/L |
|----------+-----+------+--------+-------+---------|
{{- range .Strategies}}
| {{if .Strategy}}{{.Strategy}}{{else}}(none){{end}} | {{.Operations}} | {{.Wins}} | {{.Losses}} | {{printf "%.1f" .HitRate}} | {{money .NetProfit}} |
{{- end}}

** Operations
{{- range .Operations}}
- [{{.CreatedAt.Format "2006-01-02 15:04"}}] {{.Result}} {{money .Amount}} → {{profit .}} {{short .ID}}{{if .Strategy}} /{{.Strategy}}/{{end}}
{{- else}}
- (no operations this month)
{{- end}}

** Notes
-

** Next Actions
- [ ]
`
