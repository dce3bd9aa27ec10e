package wire

import "bytes"

// Equal reports deep equality of two values. Lists and maps compare
// element-wise; the set variants compare as unordered collections, matching
// store semantics. A nil Value equals only another nil Value.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case String:
		return a == b.(String)
	case Number:
		return a == b.(Number)
	case Bool:
		return a == b.(Bool)
	case Null:
		return true
	case Binary:
		return bytes.Equal(a, b.(Binary))
	case List:
		bl := b.(List)
		if len(a) != len(bl) {
			return false
		}
		for i := range a {
			if !Equal(a[i], bl[i]) {
				return false
			}
		}
		return true
	case Map:
		bm := b.(Map)
		if len(a) != len(bm) {
			return false
		}
		for k, av := range a {
			bv, ok := bm[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case StringSet:
		return stringSetEqual(a, b.(StringSet))
	case NumberSet:
		return stringSetEqual(a, b.(NumberSet))
	case BinarySet:
		bs := b.(BinarySet)
		if len(a) != len(bs) {
			return false
		}
		matched := make([]bool, len(bs))
	outer:
		for _, av := range a {
			for i, bv := range bs {
				if !matched[i] && bytes.Equal(av, bv) {
					matched[i] = true
					continue outer
				}
			}
			return false
		}
		return true
	}
	return false
}

func stringSetEqual[S ~[]string](a, b S) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
		if seen[s] < 0 {
			return false
		}
	}
	return true
}
