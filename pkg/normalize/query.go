package normalize

import "encoding/json"

// QueryValue holds the values observed for one query key, in URL order. A
// key appearing once stays scalar when serialized; only repeated keys
// produce an array. Downstream Lambda/Express emulation expects exactly this
// asymmetry, so it is preserved here rather than flattening everything to
// one shape.
type QueryValue []string

// First returns the first value, or "" when empty.
func (q QueryValue) First() string {
	if len(q) == 0 {
		return ""
	}
	return q[0]
}

// IsMulti reports whether the key appeared more than once.
func (q QueryValue) IsMulti() bool {
	return len(q) > 1
}

// MarshalJSON emits a plain string for single occurrences and an array for
// repeated keys.
func (q QueryValue) MarshalJSON() ([]byte, error) {
	if len(q) == 1 {
		return json.Marshal(q[0])
	}
	return json.Marshal([]string(q))
}
