package breakdown

import (
	"sort"

	"github.com/shopspring/decimal"

	"feeview/internal/currency"
)

// CurrencyTotals aggregates the results of one currency. Fee, IVA, provider
// fee and margin totals only include rows where that figure is known; the
// *Rows counters say how many rows contributed. A total no row contributed to
// is displayed as Placeholder.
type CurrencyTotals struct {
	Currency        string          `json:"currency"`
	Transactions    int             `json:"transactions"`
	Settled         int             `json:"settled"`
	Gross           decimal.Decimal `json:"gross"`
	TotalFee        decimal.Decimal `json:"total_fee"`
	TotalFeeRows    int             `json:"total_fee_rows"`
	IVAAmount       decimal.Decimal `json:"iva_amount"`
	IVARows         int             `json:"iva_rows"`
	IVAEstimated    int             `json:"iva_estimated_rows"`
	ProviderFee     decimal.Decimal `json:"provider_fee"`
	ProviderFeeRows int             `json:"provider_fee_rows"`
	PlatformMargin  decimal.Decimal `json:"platform_margin"`
	MarginRows      int             `json:"margin_rows"`
	MarginExcluded  int             `json:"margin_excluded_rows"`
	Display         SummaryDisplay  `json:"display"`
}

// SummaryDisplay holds the formatted totals.
type SummaryDisplay struct {
	Gross          string `json:"gross"`
	TotalFee       string `json:"total_fee"`
	IVAAmount      string `json:"iva_amount"`
	ProviderFee    string `json:"provider_fee"`
	PlatformMargin string `json:"platform_margin"`
}

// Summary is the per-currency aggregate of a page.
type Summary struct {
	Currencies []CurrencyTotals `json:"currencies"`
	Failed     int              `json:"failed_rows"`
}

// Summarize totals results per currency.
func Summarize(results []Result, f *currency.Formatter) Summary {
	byCurrency := make(map[string]*CurrencyTotals)
	var failed int

	add := func(total *decimal.Decimal, rows *int, v *float64) bool {
		if v == nil {
			return false
		}
		*total = total.Add(decimal.NewFromFloat(*v))
		*rows++
		return true
	}

	for _, r := range results {
		if r.Breakdown == nil {
			failed++
			continue
		}
		b := r.Breakdown
		t, ok := byCurrency[b.Currency]
		if !ok {
			t = &CurrencyTotals{Currency: b.Currency}
			byCurrency[b.Currency] = t
		}

		t.Transactions++
		if b.Settled() {
			t.Settled++
		}
		t.Gross = t.Gross.Add(decimal.NewFromFloat(b.AmountGross))
		add(&t.TotalFee, &t.TotalFeeRows, b.TotalFee)
		if add(&t.IVAAmount, &t.IVARows, b.IVAAmount) && b.IVAEstimated() {
			t.IVAEstimated++
		}
		add(&t.ProviderFee, &t.ProviderFeeRows, b.ProviderFeeAmount)
		if !add(&t.PlatformMargin, &t.MarginRows, b.PlatformMargin) {
			t.MarginExcluded++
		}
	}

	summary := Summary{Failed: failed, Currencies: make([]CurrencyTotals, 0, len(byCurrency))}
	for _, t := range byCurrency {
		format := func(d decimal.Decimal, rows int) string {
			if rows == 0 {
				return Placeholder
			}
			return f.FormatOrRaw(d.InexactFloat64(), t.Currency)
		}
		t.Display = SummaryDisplay{
			Gross:          format(t.Gross, t.Transactions),
			TotalFee:       format(t.TotalFee, t.TotalFeeRows),
			IVAAmount:      format(t.IVAAmount, t.IVARows),
			ProviderFee:    format(t.ProviderFee, t.ProviderFeeRows),
			PlatformMargin: format(t.PlatformMargin, t.MarginRows),
		}
		summary.Currencies = append(summary.Currencies, *t)
	}
	sort.Slice(summary.Currencies, func(i, j int) bool {
		return summary.Currencies[i].Currency < summary.Currencies[j].Currency
	})
	return summary
}
