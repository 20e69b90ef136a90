package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NormalizeLotNumber is the identity rule for comparing lot numbers between
// reports and the posted ledger: trimmed and lowercased. An empty result
// means the batch has no identity and can never be matched against the
// ledger.
func NormalizeLotNumber(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Aggregate merges, normalizes, and filters the batch entries of every
// matched report entry into one reconciled set for the line item.
//
// Lots whose normalized batch number equals a normalized posted lot number
// are dropped silently: they have already been received and must never be
// counted into inventory twice. Lots with an empty batch number are always
// kept, since there is no identity to compare. Legacy entries (no batches
// array) synthesize one pseudo-batch from the entry's own fields and are
// never excluded by the ledger filter because they carry no lot number.
//
// Malformed quantities and dates degrade per batch with a warning on the
// injected logger; they never abort aggregation of the remaining batches.
func Aggregate(line LineItem, matched []MatchedEntry, posted []PostedBatch, l *zap.Logger) Result {
	if l == nil {
		l = zap.NewNop()
	}

	postedSet := make(map[string]struct{}, len(posted))
	for _, p := range posted {
		if key := NormalizeLotNumber(p.LotNumber); key != "" {
			postedSet[key] = struct{}{}
		}
	}

	res := Result{Matched: len(matched) > 0}

	sum := decimal.Zero
	sawNotApplicable := false
	for _, m := range matched {
		retained := 0

		if !m.Entry.IsLegacy() {
			for _, raw := range m.Entry.Batches {
				if key := NormalizeLotNumber(raw.BatchNumber); key != "" {
					if _, already := postedSet[key]; already {
						continue
					}
				}
				entry := BatchEntry{
					BatchNumber:      raw.BatchNumber,
					UnloadedQuantity: string(raw.UnloadedQuantity),
					Expiry:           ParseDateValue(raw.ExpiryDate, raw.NoExpiryDate),
					SourceReportID:   m.Report.ID,
					SourceReportDate: m.Report.FilledAt,
				}
				res.Batches = append(res.Batches, entry)
				retained++
				sum = sum.Add(parseQuantity(entry.UnloadedQuantity, m.Report.ID, l))
				sawNotApplicable = sawNotApplicable || entry.Expiry.NotApplicable()
				if !res.RepresentativeExpiry.Known() && entry.Expiry.Known() {
					res.RepresentativeExpiry = entry.Expiry
				}
				if entry.Expiry.Kind == DateUnparseable && entry.Expiry.Raw != "" {
					l.Warn("Unparseable expiry date on batch",
						zap.String("report_id", m.Report.ID),
						zap.String("batch_number", raw.BatchNumber),
						zap.String("raw", entry.Expiry.Raw))
				}
			}
		} else {
			// Legacy single-value schema: the whole entry is one delivery.
			entry := BatchEntry{
				UnloadedQuantity: string(m.Entry.UnloadedQuantity),
				Expiry:           ParseDateValue(m.Entry.ExpiryDate, m.Entry.NoExpiryDate),
				SourceReportID:   m.Report.ID,
				SourceReportDate: m.Report.FilledAt,
			}
			res.Batches = append(res.Batches, entry)
			retained++
			sum = sum.Add(parseQuantity(entry.UnloadedQuantity, m.Report.ID, l))
			sawNotApplicable = sawNotApplicable || entry.Expiry.NotApplicable()
			if !res.RepresentativeExpiry.Known() && entry.Expiry.Known() {
				res.RepresentativeExpiry = entry.Expiry
			}
		}

		if retained > 0 {
			res.ReportsCount++
		}
	}

	// Everything filtered out, or quantities missing: fall back to the
	// ordered quantity so the receiving dialog is still pre-filled.
	if sum.IsZero() {
		res.AggregateQuantity = line.Quantity
	} else {
		res.AggregateQuantity = sum
	}

	res.HasNoExpiryDate = !res.RepresentativeExpiry.Known() && sawNotApplicable
	if res.HasNoExpiryDate {
		res.RepresentativeExpiry = DateValue{Kind: DateNotApplicable}
	}

	return res
}

// parseQuantity converts a raw document quantity to a decimal, treating
// blanks and junk as zero so one bad record cannot block the line.
func parseQuantity(raw, reportID string, l *zap.Logger) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		l.Warn("Unparseable unloaded quantity",
			zap.String("report_id", reportID),
			zap.String("raw", raw))
		return decimal.Zero
	}
	return d
}
