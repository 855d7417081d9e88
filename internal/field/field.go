// Package field implements dotted-path access over nested event data
// maps.
//
// Paths name a column ("value") or a nested value ("direction.in").
// Setters never mutate the input map: they rebuild the spine from the
// root to the changed leaf and share every untouched subtree with the
// original, so repeated updates stay cheap while published maps remain
// immutable.
package field

import "strings"

// Get resolves a dotted path against a nested map. It returns nil when
// any path segment is missing or a non-leaf segment is not a map.
func Get(data map[string]any, path string) any {
	if data == nil || path == "" {
		return nil
	}

	cur := data
	for {
		head, rest, nested := strings.Cut(path, ".")
		v, ok := cur[head]
		if !ok {
			return nil
		}
		if !nested {
			return v
		}

		next, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		cur = next
		path = rest
	}
}

// Has reports whether the dotted path resolves to a present value.
// A present nil counts as present; a missing segment does not.
func Has(data map[string]any, path string) bool {
	if data == nil || path == "" {
		return false
	}

	head, rest, nested := strings.Cut(path, ".")
	v, ok := data[head]
	if !ok {
		return false
	}
	if !nested {
		return true
	}

	next, ok := v.(map[string]any)
	if !ok {
		return false
	}

	return Has(next, rest)
}

// Set returns a new map with the dotted path set to v. Untouched
// subtrees are shared with the input; intermediate maps are created as
// needed, replacing non-map values that stand in the way.
func Set(data map[string]any, path string, v any) map[string]any {
	head, rest, nested := strings.Cut(path, ".")

	out := make(map[string]any, len(data)+1)
	for k, old := range data {
		out[k] = old
	}

	if !nested {
		out[head] = v
		return out
	}

	child, _ := out[head].(map[string]any)
	out[head] = Set(child, rest, v)

	return out
}

// Without returns a new map with the dotted path removed. Missing paths
// return the input unchanged (no copy).
func Without(data map[string]any, path string) map[string]any {
	if !Has(data, path) {
		return data
	}

	head, rest, nested := strings.Cut(path, ".")

	out := make(map[string]any, len(data))
	for k, old := range data {
		out[k] = old
	}

	if !nested {
		delete(out, head)
		return out
	}

	child, _ := out[head].(map[string]any)
	out[head] = Without(child, rest)

	return out
}
