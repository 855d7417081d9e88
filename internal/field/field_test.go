package field

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func payload() map[string]any {
	return map[string]any{
		"value": 42.0,
		"direction": map[string]any{
			"in":  1.0,
			"out": 2.0,
		},
		"status": nil,
	}
}

func TestGet(t *testing.T) {
	data := payload()

	t.Run("top level", func(t *testing.T) {
		require.Equal(t, 42.0, Get(data, "value"))
	})

	t.Run("nested", func(t *testing.T) {
		require.Equal(t, 2.0, Get(data, "direction.out"))
	})

	t.Run("missing", func(t *testing.T) {
		require.Nil(t, Get(data, "nope"))
		require.Nil(t, Get(data, "direction.up"))
		require.Nil(t, Get(data, "value.deeper"))
	})

	t.Run("present nil", func(t *testing.T) {
		require.Nil(t, Get(data, "status"))
		require.True(t, Has(data, "status"))
		require.False(t, Has(data, "missing"))
	})
}

func TestSetSharesUntouchedSubtrees(t *testing.T) {
	data := payload()
	out := Set(data, "direction.in", 9.0)

	require.Equal(t, 9.0, Get(out, "direction.in"))
	require.Equal(t, 1.0, Get(data, "direction.in"), "input must not be mutated")
	require.Equal(t, 2.0, Get(out, "direction.out"))
}

func TestSetCreatesIntermediates(t *testing.T) {
	out := Set(map[string]any{}, "a.b.c", 5.0)
	require.Equal(t, 5.0, Get(out, "a.b.c"))
}

func TestWithout(t *testing.T) {
	data := payload()
	out := Without(data, "direction.in")

	require.False(t, Has(out, "direction.in"))
	require.True(t, Has(out, "direction.out"))
	require.True(t, Has(data, "direction.in"))

	same := Without(data, "not.there")
	require.True(t, Has(same, "value"))
}
