// Key extraction for secondary index writes (spec §4.9) and for the
// query planner's post-hoc sort, which needs to order rows by an
// arbitrary JSON field without knowing its declared Condition.Type.
package george

import (
	json "github.com/goccy/go-json"
)

// extractField pulls indexName's value out of a JSON-encoded
// document and stringifies it for hashing. ok is false when the
// field is absent or value isn't valid JSON — callers decide what
// null means for their index (spec §4.9 / SPEC_FULL.md's OQ2
// resolution).
func extractField(value []byte, indexName string) (string, bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(value, &doc); err != nil {
		return "", false
	}
	raw, ok := doc[indexName]
	if !ok {
		return "", false
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	// Not a JSON string: re-emit the raw scalar (number/bool) as text.
	trimmed := string(raw)
	return trimmed, true
}

// fieldString produces a value comparable across rows for Sort: numbers
// are rendered as a fixed-width zero-padded form so lexical and
// numeric order agree for the common case of non-negative values;
// genuinely mixed-type fields fall back to raw lexical order.
func fieldString(value []byte, param string) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(value, &doc); err != nil {
		return ""
	}
	raw, ok := doc[param]
	if !ok {
		return ""
	}

	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return padFloat(f)
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// padFloat renders f so that lexical string order matches numeric
// order across the range this store's query planner actually needs
// to sort (ages, counts, scores) — not a general total-order codec.
func padFloat(f float64) string {
	neg := f < 0
	if neg {
		f = -f
	}
	whole := int64(f)
	frac := int64((f - float64(whole)) * 1e6)
	s := padInt(whole, 18) + "." + padInt(frac, 6)
	if neg {
		return "-" + s
	}
	return "0" + s
}

func padInt(v int64, width int) string {
	digits := []byte{}
	if v == 0 {
		digits = []byte{'0'}
	}
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	for len(digits) < width {
		digits = append([]byte{'0'}, digits...)
	}
	return string(digits)
}
