package tidemark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tidemark/tidemark/pipeline"
	"github.com/tidemark/tidemark/reducer"
)

func TestEndToEnd(t *testing.T) {
	base := time.Date(2015, 6, 20, 0, 0, 0, 0, time.UTC)

	ts, err := NewSeries("cpu", true,
		Point(base, map[string]any{"value": 10.0}),
		Point(base.Add(30*time.Second), map[string]any{"value": nil}),
		Point(base.Add(time.Minute), map[string]any{"value": 30.0}),
	)
	require.NoError(t, err)

	t.Run("transform pipeline", func(t *testing.T) {
		keyed, err := Transform(ts).
			Fill(pipeline.FillOptions{FieldSpec: []string{"value"}, Method: pipeline.FillLinear}).
			ToKeyedCollections()
		require.NoError(t, err)

		c := keyed[pipeline.GroupAll]
		require.Equal(t, 3, c.Len())
		require.Equal(t, 20.0, c.At(1).Get("value"))
	})

	t.Run("rollup", func(t *testing.T) {
		rolled, err := ts.FixedWindowRollup("1m", pipeline.AggregationSpec{
			"value": {Field: "value", Fn: reducer.Sum},
		})
		require.NoError(t, err)
		require.Equal(t, 2, rolled.Len())
		require.Equal(t, 10.0, rolled.At(0).Get("value"))
		require.Equal(t, 30.0, rolled.At(1).Get("value"))
	})

	t.Run("binary round trip", func(t *testing.T) {
		buf, err := Encode(ts)
		require.NoError(t, err)

		back, err := Decode(buf)
		require.NoError(t, err)
		require.Equal(t, "cpu", back.Name())
		require.Equal(t, 3, back.Len())
	})

	t.Run("json round trip", func(t *testing.T) {
		raw, err := ts.MarshalJSON()
		require.NoError(t, err)

		back, err := FromJSON(raw)
		require.NoError(t, err)
		require.Equal(t, ts.Columns(), back.Columns())
	})
}
