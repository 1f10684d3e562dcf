package override_eval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripValueScalars(t *testing.T) {
	tests := []struct {
		in       any
		expected any
	}{
		{nil, nil},
		{true, true},
		{int64(42), int64(42)},
		{2.5, 2.5},
		{"hello", "hello"},
	}
	for _, tt := range tests {
		out, err := RoundTripValue(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, out)
	}
}

func TestRoundTripValueContainers(t *testing.T) {
	out, err := RoundTripValue([]any{int64(1), 2.5, "x", nil, true})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), 2.5, "x", nil, true}, out)

	out, err = RoundTripValue(map[string]any{"k": []any{int64(1), map[string]any{"n": int64(2)}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": []any{int64(1), map[string]any{"n": int64(2)}}}, out)
}

func TestRoundTripValueIdempotent(t *testing.T) {
	value := map[string]any{"a": []any{int64(1), 2.5}, "b": "x"}

	once, err := RoundTripValue(value)
	require.NoError(t, err)
	twice, err := RoundTripValue(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestRoundTripValueRejectsObjects(t *testing.T) {
	_, err := RoundTripValue(DateTime{t: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)})
	assert.EqualError(t, err, "Object of type datetime is not JSON serializable")

	_, err = RoundTripValue(Date{t: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)})
	assert.EqualError(t, err, "Object of type date is not JSON serializable")

	_, err = RoundTripValue(TimeDelta{d: time.Hour})
	assert.EqualError(t, err, "Object of type timedelta is not JSON serializable")
}

func TestRoundTripValueRejectsNestedObjects(t *testing.T) {
	_, err := RoundTripValue([]any{int64(1), TimeDelta{d: time.Hour}})
	assert.EqualError(t, err, "Object of type timedelta is not JSON serializable")

	_, err = RoundTripValue(map[string]any{"d": DateTime{t: time.Now()}})
	assert.EqualError(t, err, "Object of type datetime is not JSON serializable")
}

func TestRoundTripValueRejectsModulesAndCallables(t *testing.T) {
	_, err := RoundTripValue(newDatetimeModule())
	assert.EqualError(t, err, "Object of type module is not JSON serializable")

	builtins := builtinEnvironment()
	strFn, ok := builtins.Get("str")
	require.True(t, ok)
	_, err = RoundTripValue(strFn)
	assert.EqualError(t, err, "Object of type builtin_function_or_method is not JSON serializable")
}
