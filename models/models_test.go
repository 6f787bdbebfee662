package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointUnmarshal(t *testing.T) {
	var pts []Point
	require.NoError(t, json.Unmarshal([]byte(`[{"x": 0.1, "y": 0.2}, [0.3, 0.4, 9], null]`), &pts))
	assert.Equal(t, []Point{{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}, {}}, pts)

	var p Point
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &p))
	assert.Error(t, json.Unmarshal([]byte(`"here"`), &p))
}

func TestSplit(t *testing.T) {
	xs, ys := Split([]Point{{X: 1, Y: 2}, {X: 3, Y: 4}})
	assert.Equal(t, []float64{1, 3}, xs)
	assert.Equal(t, []float64{2, 4}, ys)
	assert.Equal(t, 11.0, Point{X: 1, Y: 2}.Dot(Point{X: 3, Y: 4}))
	assert.Equal(t, Point{X: -2, Y: -2}, Point{X: 1, Y: 2}.Sub(Point{X: 3, Y: 4}))
}

func TestConditionKind(t *testing.T) {
	tests := map[string]string{
		"":               TunnelCurved,
		"curved":         TunnelCurved,
		"sequential":     TunnelSequential,
		"Corner":         TunnelCorner,
		"lasso":          TunnelCurved,
		"cascading_menu": TunnelCurved,
	}
	for in, want := range tests {
		assert.Equal(t, want, Condition{TunnelType: in}.Kind(), in)
	}
}

func TestConditionDecode(t *testing.T) {
	var c Condition
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "timeLimit": 4, "description": "fast"}`), &c))
	assert.True(t, c.Timed())
	assert.Equal(t, "fast", c.Label("x"))
	assert.Nil(t, c.TunnelWidth)

	c = Condition{}
	require.NoError(t, json.Unmarshal([]byte(`{"timeLimit": null}`), &c))
	assert.False(t, c.Timed())
	assert.Equal(t, "Unknown condition", c.Label("Unknown condition"))
}

func TestTrial(t *testing.T) {
	var tr Trial
	require.NoError(t, json.Unmarshal([]byte(`{
		"excursions": [
			{"timeIndex": 4, "position": {"x": 0.2, "y": 0.1}, "distanceOutside": 0.003},
			{"timeIndex": 9}
		]
	}`), &tr))
	assert.Equal(t, 7, tr.ID(7))
	assert.Equal(t, []Point{{X: 0.2, Y: 0.1}}, tr.ExcursionPositions())

	id := 2
	tr.TrialID = &id
	assert.Equal(t, 2, tr.ID(7))
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name string
		json string
		want time.Time
		ok   bool
	}{
		{"iso", `"2025-01-14T10:28:33.974Z"`, time.Date(2025, 1, 14, 10, 28, 33, 974_000_000, time.UTC), true},
		{"firestore", `{"seconds": 1736850513, "nanoseconds": 974000000}`, time.Date(2025, 1, 14, 10, 28, 33, 974_000_000, time.UTC), true},
		{"admin sdk", `{"_seconds": 1736850513, "_nanoseconds": 0}`, time.Date(2025, 1, 14, 10, 28, 33, 0, time.UTC), true},
		{"millis", `1736850513974`, time.Date(2025, 1, 14, 10, 28, 33, 974_000_000, time.UTC), true},
		{"garbage string", `"yesterday"`, time.Time{}, false},
		{"unknown object", `{"when": 1}`, time.Time{}, false},
		{"null", `null`, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.json), &ts))
			got, ok := ts.Time()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	var e Experiment
	require.NoError(t, json.Unmarshal([]byte(`{"participantId": "p", "uploadedAt": {"seconds": 5, "nanoseconds": 0}}`), &e))
	data, err := json.Marshal(e.UploadedAt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"seconds": 5, "nanoseconds": 0}`, string(data))

	data, err = json.Marshal(Session{})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "uploadedAt")
}
