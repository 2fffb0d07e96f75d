package breakdown

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var exportHeader = []string{
	"id", "reference", "merchant_id", "partner_id", "status", "created_at", "currency",
	"amount_gross", "amount_net", "total_fee", "iva_amount", "iva_source",
	"provider_fee_amount", "platform_margin", "error",
}

// WriteCSV writes results as CSV with raw numbers. Unknown figures are empty
// cells, never 0.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for _, r := range results {
		tx := r.Transaction
		record := []string{
			tx.ID, tx.Reference, tx.MerchantID, tx.PartnerID, tx.Status,
			formatTime(tx.CreatedAt), tx.Financials.Currency,
		}
		if r.Breakdown != nil {
			b := r.Breakdown
			record = append(record,
				strconv.FormatFloat(b.AmountGross, 'f', -1, 64),
				cell(b.AmountNet),
				cell(b.TotalFee),
				cell(b.IVAAmount),
				string(b.IVASource),
				cell(b.ProviderFeeAmount),
				cell(b.PlatformMargin),
				"",
			)
		} else {
			record = append(record, "", "", "", "", "", "", "", errorCode(r))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func errorCode(r Result) string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Code
}
