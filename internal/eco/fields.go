package eco

import (
	"sort"

	"github.com/iancoleman/orderedmap"
)

// Getter reads one named field from a keyed mapping.
type Getter func(key string) (any, bool)

// Fields adapts the supported mapping shapes to a Getter.
// The second result is false when v is not a keyed mapping.
func Fields(v any) (Getter, bool) {
	switch m := v.(type) {
	case map[string]any:
		return func(key string) (any, bool) {
			val, ok := m[key]
			return val, ok
		}, true
	case orderedmap.OrderedMap:
		return m.Get, true
	case *orderedmap.OrderedMap:
		if m == nil {
			return nil, false
		}
		return m.Get, true
	}

	return nil, false
}

// firstEntry returns the key and value of the first entry of a keyed
// mapping. Ordered maps keep document order; plain maps have no order of
// their own, so the lexically smallest key is used to stay deterministic.
func firstEntry(v any) (string, any, bool) {
	switch m := v.(type) {
	case orderedmap.OrderedMap:
		keys := m.Keys()
		if len(keys) == 0 {
			return "", nil, false
		}
		val, _ := m.Get(keys[0])
		return keys[0], val, true
	case *orderedmap.OrderedMap:
		if m == nil {
			return "", nil, false
		}
		return firstEntry(*m)
	case map[string]any:
		if len(m) == 0 {
			return "", nil, false
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys[0], m[keys[0]], true
	}

	return "", nil, false
}
