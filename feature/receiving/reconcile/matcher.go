package reconcile

// MatchEntries scans every report for the line item and returns the matching
// (report, entry) pairs in store order. For each report, the first entry
// whose POItemID exactly equals the line id is kept; a report contributes at
// most one entry. The empty result is the sole gate for whether the line may
// proceed to receiving.
//
// Identity is exact and case-sensitive. Name similarity never authorizes a
// match here; a former name-based fallback allowed lots to be received
// against the wrong line when two lines shared a product name, so only
// Classify looks at names, and only for diagnostics.
func MatchEntries(line LineItem, reports []Report) []MatchedEntry {
	var matched []MatchedEntry
	for _, report := range reports {
		for _, entry := range report.Items {
			if entry.POItemID != "" && entry.POItemID == line.ID {
				matched = append(matched, MatchedEntry{Report: report, Entry: entry})
				break
			}
		}
	}
	return matched
}
