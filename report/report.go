// Package report turns KPI snapshots into display text. It formats and
// labels; every number it shows comes from the ledger package.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rustyeddy/banca/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tone is the visual treatment for a value.
type Tone int

const (
	Neutral Tone = iota
	Positive
	Negative
)

func (t Tone) String() string {
	switch t {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	}
	return "neutral"
}

func (t Tone) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ToneOf classifies d by sign.
func ToneOf(d decimal.Decimal) Tone {
	switch d.Sign() {
	case 1:
		return Positive
	case -1:
		return Negative
	}
	return Neutral
}

// Line is one labelled KPI ready for display.
type Line struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	Tone  Tone   `json:"tone"`
}

// Renderer formats values for one locale and currency.
type Renderer struct {
	tag     language.Tag
	printer *message.Printer
	symbol  string
	layout  string
}

// NewRenderer parses a BCP 47 locale and an ISO 4217 currency code.
func NewRenderer(locale, iso string) (*Renderer, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(iso)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", iso, err)
	}

	p := message.NewPrinter(tag)
	return &Renderer{
		tag:     tag,
		printer: p,
		symbol:  p.Sprint(currency.Symbol(unit)),
		layout:  dateLayout(tag),
	}, nil
}

func dateLayout(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()
	switch {
	case base.String() == "en" && region.String() == "US":
		return "01/02/2006 3:04 PM"
	case base.String() == "en" || base.String() == "pt" || base.String() == "es" ||
		base.String() == "fr" || base.String() == "it":
		return "02/01/2006 15:04"
	case base.String() == "de":
		return "02.01.2006 15:04"
	}
	return "2006-01-02 15:04"
}

// Money formats d with the currency symbol and two decimals. The sign is
// taken after rounding, so amounts that round to zero print unsigned.
func (r *Renderer) Money(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + r.symbol + " " + r.printer.Sprintf("%.2f", d.Abs().InexactFloat64())
}

// SignedMoney is Money with an explicit plus sign on positive values.
func (r *Renderer) SignedMoney(d decimal.Decimal) string {
	if d.Round(2).IsPositive() {
		return "+" + r.Money(d)
	}
	return r.Money(d)
}

// Percent formats a 0-100 scale value.
func (r *Renderer) Percent(f float64) string {
	return r.printer.Sprintf("%.2f%%", f)
}

func (r *Renderer) Date(t time.Time) string {
	return t.Format(r.layout)
}

func (r *Renderer) label(key string) string {
	return r.printer.Sprintf(key)
}

// Lines maps every KPI in snap to a display line, in dashboard order.
func (r *Renderer) Lines(snap ledger.KPISnapshot) []Line {
	lines := []Line{
		{Key: "balance", Label: r.label("Balance"), Value: r.Money(snap.CurrentBalance), Tone: ToneOf(snap.CurrentBalance)},
		{Key: "month_baseline", Label: r.label("Balance at month start"), Value: r.Money(snap.MonthBaseline)},
		{Key: "month_profit", Label: r.label("Month P&L"), Value: r.SignedMoney(snap.MonthProfit), Tone: ToneOf(snap.MonthProfit)},
		{Key: "month_variation", Label: r.label("Month variation"), Value: r.Percent(snap.MonthVariationPct), Tone: ToneOf(decimal.NewFromFloat(snap.MonthVariationPct))},
		{Key: "hit_rate", Label: r.label("Hit rate"), Value: r.Percent(snap.HitRate)},
		{Key: "month_operations", Label: r.label("Operations this month"), Value: r.printer.Sprintf("%d (%d W / %d L)", snap.MonthOperations, snap.MonthWins, snap.MonthLosses)},
		{Key: "average_amount", Label: r.label("Average amount"), Value: r.Money(snap.AverageMonthAmount)},
		r.streakLine(snap),
		{Key: "max_win_streak", Label: r.label("Best win streak"), Value: r.printer.Sprintf("%d", snap.MaxWinStreak)},
		r.lastLine(snap),
	}
	return lines
}

func (r *Renderer) streakLine(snap ledger.KPISnapshot) Line {
	l := Line{Key: "current_streak", Label: r.label("Current streak"), Value: "-"}
	switch snap.CurrentStreakResult {
	case ledger.Win:
		l.Value = r.printer.Sprintf("%d WIN", snap.CurrentStreak)
		l.Tone = Positive
	case ledger.Loss:
		l.Value = r.printer.Sprintf("%d LOSS", snap.CurrentStreak)
		l.Tone = Negative
	}
	return l
}

func (r *Renderer) lastLine(snap ledger.KPISnapshot) Line {
	l := Line{Key: "last_operation", Label: r.label("Last operation"), Value: "-"}
	if op := snap.LastOperation; op != nil {
		p := ledger.Profit(*op)
		l.Value = fmt.Sprintf("%s %s (%s)", op.Result, r.SignedMoney(p), r.Date(op.CreatedAt))
		l.Tone = ToneOf(p)
	}
	return l
}

// Render writes the dashboard as an aligned two-column table. Positive and
// negative values are marked with ▲ and ▼.
func (r *Renderer) Render(w io.Writer, snap ledger.KPISnapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, l := range r.Lines(snap) {
		if _, err := fmt.Fprintf(tw, "%s\t%s%s\n", l.Label, l.Value, marker(l.Tone)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// RenderStrategies writes one row per strategy.
func (r *Renderer) RenderStrategies(w io.Writer, stats []ledger.StrategyStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.label("Strategy"), r.label("Operations"), r.label("Hit rate"), r.label("Net P&L"))
	for _, st := range stats {
		name := st.Strategy
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s%s\n", name, st.Operations, r.Percent(st.HitRate), r.SignedMoney(st.NetProfit), marker(ToneOf(st.NetProfit)))
	}
	return tw.Flush()
}

// RenderOperations writes one row per operation, oldest first.
func (r *Renderer) RenderOperations(w io.Writer, ops []ledger.Operation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, op := range ops {
		p := ledger.Profit(op)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%s\t%s\n",
			op.ID, r.Date(op.CreatedAt), op.Result, r.Money(op.Amount),
			r.SignedMoney(p), marker(ToneOf(p)), op.Strategy)
	}
	return tw.Flush()
}

func marker(t Tone) string {
	switch t {
	case Positive:
		return " ▲"
	case Negative:
		return " ▼"
	}
	return ""
}
