package reconcile

import (
	"encoding/json"
	"strings"
	"time"
)

// DateKind discriminates the three states an expiry value can be in.
type DateKind int

const (
	// DateUnparseable means the raw value could not be interpreted as a
	// date (including the value being absent entirely).
	DateUnparseable DateKind = iota
	// DateKnown means the value parsed to a concrete date.
	DateKnown
	// DateNotApplicable means the warehouse explicitly declared the
	// product has no expiry date. Distinct from "no valid date found".
	DateNotApplicable
)

// DateValue is the uniform representation of an expiry value. Report
// documents carry dates as native values, ISO-like strings, or structured
// {seconds} timestamps; one conversion function handles all of them so
// "no date" and "explicitly not applicable" stay distinguishable.
type DateValue struct {
	Kind DateKind  `json:"kind"`
	Time time.Time `json:"time,omitempty"`
	// Raw preserves the original text when the value was unparseable.
	Raw string `json:"raw,omitempty"`
}

// Known reports whether the value holds a concrete parsed date.
func (d DateValue) Known() bool {
	return d.Kind == DateKnown
}

// NotApplicable reports whether the value was explicitly declared absent.
func (d DateValue) NotApplicable() bool {
	return d.Kind == DateNotApplicable
}

// String renders the value for operator-facing output.
func (d DateValue) String() string {
	switch d.Kind {
	case DateKnown:
		return d.Time.Format("2006-01-02")
	case DateNotApplicable:
		return "n/a"
	default:
		return d.Raw
	}
}

// dateLayouts are the string formats seen in historical report documents.
// Tried in order; the first match wins.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
}

// secondsTimestamp matches the structured timestamp shape some historical
// documents use for dates.
type secondsTimestamp struct {
	Seconds int64 `json:"seconds"`
}

// ParseDateValue converts a raw document value into a DateValue. It accepts
// an ISO-like string, an epoch-seconds number, or a {seconds} object.
// Anything else yields DateUnparseable rather than an error, so one bad
// record never aborts aggregation. A set notApplicable flag wins over
// whatever the raw value holds.
func ParseDateValue(raw json.RawMessage, notApplicable bool) DateValue {
	if notApplicable {
		return DateValue{Kind: DateNotApplicable}
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return DateValue{Kind: DateUnparseable}
	}

	// String form: try the known layouts.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return DateValue{Kind: DateKnown, Time: t.UTC()}
			}
		}
		return DateValue{Kind: DateUnparseable, Raw: s}
	}

	// Number form: epoch seconds.
	var epoch int64
	if err := json.Unmarshal(raw, &epoch); err == nil && epoch > 0 {
		return DateValue{Kind: DateKnown, Time: time.Unix(epoch, 0).UTC()}
	}

	// Structured form: {seconds: N}.
	var ts secondsTimestamp
	if err := json.Unmarshal(raw, &ts); err == nil && ts.Seconds > 0 {
		return DateValue{Kind: DateKnown, Time: time.Unix(ts.Seconds, 0).UTC()}
	}

	return DateValue{Kind: DateUnparseable, Raw: trimmed}
}
