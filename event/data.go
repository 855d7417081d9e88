package event

import (
	"github.com/tidemark/tidemark/internal/field"
	"github.com/tidemark/tidemark/reducer"
)

// Payload transform helpers shared by all event kinds. Each returns a
// fresh map; inputs are never mutated.

func selectData(data map[string]any, paths []string) map[string]any {
	out := make(map[string]any, len(paths))
	for _, p := range paths {
		if field.Has(data, p) {
			out = field.Set(out, p, field.Get(data, p))
		}
	}

	return out
}

func collapseData(data map[string]any, paths []string, name string, fn reducer.Func, keep bool) map[string]any {
	values := make([]float64, 0, len(paths))
	for _, p := range paths {
		if v, ok := ToFloat(field.Get(data, p)); ok {
			values = append(values, v)
		}
	}

	var out map[string]any
	if keep {
		out = data
	}

	if v, ok := fn(values); ok {
		return field.Set(out, name, v)
	}

	return field.Set(out, name, nil)
}

func pointRow(key any, data map[string]any, columns []string) []any {
	row := make([]any, 0, len(columns)+1)
	row = append(row, key)
	for _, c := range columns {
		row = append(row, field.Get(data, c))
	}

	return row
}
