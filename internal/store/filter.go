package store

import (
	"strings"
)

// matches reports whether the document satisfies every filter. Numeric
// comparisons coerce both sides through float64 (the type JSON numbers
// decode to); mismatched types never match.
func matches(doc map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if !matchOne(doc, f) {
			return false
		}
	}
	return true
}

func matchOne(doc map[string]interface{}, f Filter) bool {
	val, ok := doc[f.Field]
	if !ok {
		// Ne on a missing field is vacuously true; everything else misses.
		return f.Op == OpNe
	}

	switch f.Op {
	case OpEq:
		return equal(val, f.Value)
	case OpNe:
		return !equal(val, f.Value)
	case OpContains:
		s, ok1 := val.(string)
		sub, ok2 := f.Value.(string)
		return ok1 && ok2 && strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	case OpLt, OpLte, OpGt, OpGte:
		a, ok1 := toFloat(val)
		b, ok2 := toFloat(f.Value)
		if !ok1 || !ok2 {
			return false
		}
		switch f.Op {
		case OpLt:
			return a < b
		case OpLte:
			return a <= b
		case OpGt:
			return a > b
		default:
			return a >= b
		}
	}
	return false
}

func equal(a, b interface{}) bool {
	// Numbers first: 3 (int) must equal 3.0 (decoded JSON).
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}
	return a == b
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
