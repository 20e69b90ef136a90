package reconcile

import (
	"fmt"
	"strings"
)

// MatchType classifies why (or how) a line item was found across the
// retrieved reports. Diagnostic only, never authoritative: receiving is
// gated exclusively by MatchEntries.
type MatchType int

const (
	// MatchNone means no report mentions the line by id or name.
	MatchNone MatchType = iota
	// MatchByID means at least one exact-id entry exists and no entry
	// merely shares the name.
	MatchByID
	// MatchByNameOnly means no exact-id entry exists anywhere, but at
	// least one entry shares the line's product name.
	MatchByNameOnly
	// MatchBoth means exact-id entries and same-name entries both exist.
	MatchBoth
)

// String returns the machine-readable name of the match type.
func (t MatchType) String() string {
	switch t {
	case MatchByID:
		return "by_id"
	case MatchByNameOnly:
		return "by_name_only"
	case MatchBoth:
		return "both"
	default:
		return "none"
	}
}

// Classification is the aggregated diagnostic verdict across all reports.
type Classification struct {
	// Type is the machine-readable match class.
	Type MatchType `json:"type"`

	// NameConflicts counts entries that share the line's product name.
	// Meaningful for MatchByNameOnly: it tells the operator how many
	// entries were probably meant for this line but selected differently.
	NameConflicts int `json:"name_conflicts"`
}

// Classify inspects every entry of every report and determines how the line
// item relates to what the warehouse reported. It runs independently of the
// MatchEntries gate, purely to produce an actionable explanation when
// matching fails.
//
// Name comparison is trimmed and case-insensitive; id comparison is the same
// exact rule MatchEntries uses.
func Classify(line LineItem, reports []Report) Classification {
	lineName := strings.ToLower(strings.TrimSpace(line.Name))

	var byID bool
	var nameHits int
	for _, report := range reports {
		for _, entry := range report.Items {
			if entry.POItemID != "" && entry.POItemID == line.ID {
				byID = true
			}
			entryName := strings.ToLower(strings.TrimSpace(entry.ProductName))
			if lineName != "" && entryName == lineName {
				nameHits++
			}
		}
	}

	c := Classification{NameConflicts: nameHits}
	switch {
	case byID && nameHits > 0:
		c.Type = MatchBoth
	case byID:
		c.Type = MatchByID
	case nameHits > 0:
		c.Type = MatchByNameOnly
	default:
		c.Type = MatchNone
	}
	return c
}

// Message renders the operator-facing explanation for the classification.
// The text distinguishes "never mentioned" from "mentioned under a different
// identifier" so the operator knows what to check on the report.
func (c Classification) Message(line LineItem) string {
	switch c.Type {
	case MatchByID, MatchBoth:
		return fmt.Sprintf("%q was found on the unloading reports", line.Name)
	case MatchByNameOnly:
		return fmt.Sprintf(
			"%q was not selected on any unloading report, but %d entr%s with the same product name exist. The warehouse probably picked a different order line for this product; correct the report before receiving.",
			line.Name, c.NameConflicts, pluralYIes(c.NameConflicts))
	default:
		return fmt.Sprintf("%q does not appear on any unloading report for this order. Nothing has been reported as delivered for it.", line.Name)
	}
}

func pluralYIes(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
