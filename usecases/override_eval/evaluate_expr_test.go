package override_eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalSource(t *testing.T, src string) any {
	t.Helper()
	value, err := NewEvaluator().evalExpression(src)
	require.NoError(t, err)
	return value
}

func evalError(t *testing.T, src string) error {
	t.Helper()
	_, err := NewEvaluator().evalExpression(src)
	require.Error(t, err)
	return err
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		src      string
		expected any
	}{
		{"1 + 2 * 3", int64(7)},
		{"(1 + 2) * 3", int64(9)},
		{"7 / 2", 3.5},
		{"8 / 2", 4.0},
		{"7 // 2", int64(3)},
		{"-7 // 2", int64(-4)},
		{"7 % 3", int64(1)},
		{"-7 % 3", int64(2)},
		{"7 % -3", int64(-2)},
		{"2 ** 10", int64(1024)},
		{"2 ** -1", 0.5},
		{"-2 ** 2", int64(-4)},
		{"(-2) ** 2", int64(4)},
		{"2 ** 3 ** 2", int64(512)},
		{"1.5 + 1", 2.5},
		{"5.0 // 2", 2.0},
		{"-7.0 % 3", 2.0},
		{"--3", int64(3)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, evalSource(t, tt.src), "source: %s", tt.src)
	}
}

func TestEvaluateStringsAndLists(t *testing.T) {
	assert.Equal(t, "ab", evalSource(t, "'a' + 'b'"))
	assert.Equal(t, "ababab", evalSource(t, "'ab' * 3"))
	assert.Equal(t, "", evalSource(t, "'ab' * 0"))
	assert.Equal(t, "it's", evalSource(t, `"it's"`))
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, evalSource(t, "[1] + [2, 3]"))
	assert.Equal(t, map[string]any{"a": int64(1)}, evalSource(t, "{'a': 1}"))
}

func TestEvaluateBuiltins(t *testing.T) {
	tests := []struct {
		src      string
		expected any
	}{
		{"str(42)", "42"},
		{"str(1.5)", "1.5"},
		{"str(True)", "True"},
		{"str(None)", "None"},
		{"int('42')", int64(42)},
		{"int(3.9)", int64(3)},
		{"float('2.5')", 2.5},
		{"float(2)", 2.0},
		{"bool(0)", false},
		{"bool('x')", true},
		{"len('hello')", int64(5)},
		{"len([1, 2, 3])", int64(3)},
		{"abs(-3)", int64(3)},
		{"abs(-3.5)", 3.5},
		{"round(2.5)", int64(2)},
		{"round(3.5)", int64(4)},
		{"round(2.675, 2)", 2.67},
		{"min(3, 1, 2)", int64(1)},
		{"max([3, 1, 2])", int64(3)},
		{"sum([1, 2, 3])", int64(6)},
		{"sorted([3, 1, 2])", []any{int64(1), int64(2), int64(3)}},
		{"list('ab')", []any{"a", "b"}},
		{"range(3)", []any{int64(0), int64(1), int64(2)}},
		{"range(1, 4)", []any{int64(1), int64(2), int64(3)}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, evalSource(t, tt.src), "source: %s", tt.src)
	}
}

func TestEvaluateMathModule(t *testing.T) {
	evaluator := NewEvaluator()
	for _, stmt := range ParseStatements("import math") {
		require.Empty(t, evaluator.EvalStatement(stmt))
	}

	value, err := evaluator.evalExpression("math.sqrt(16)")
	require.NoError(t, err)
	assert.Equal(t, 4.0, value)

	value, err = evaluator.evalExpression("math.floor(2.9)")
	require.NoError(t, err)
	assert.Equal(t, int64(2), value)

	value, err = evaluator.evalExpression("math.pi")
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265, value, 1e-8)

	_, err = evaluator.evalExpression("math.sqrt(-1)")
	assert.EqualError(t, err, "math domain error")
}

func TestEvaluateDatetime(t *testing.T) {
	evaluator := NewEvaluator()
	for _, stmt := range ParseStatements("from datetime import datetime as dt\nfrom datetime import timedelta") {
		require.Empty(t, evaluator.EvalStatement(stmt))
	}

	tests := []struct {
		src      string
		expected any
	}{
		{"dt(2018, 1, 1).isoformat()", "2018-01-01T00:00:00"},
		{"dt(2018, 1, 1, 12, 30, 45).isoformat()", "2018-01-01T12:30:45"},
		{"dt(2018, 1, 2).strftime('%Y-%m-%d')", "2018-01-02"},
		{"dt.fromisoformat('2020-06-15T08:00:00').isoformat()", "2020-06-15T08:00:00"},
		{"str(dt(2018, 1, 1))", "2018-01-01 00:00:00"},
		{"(dt(2018, 1, 2) - dt(2018, 1, 1)).total_seconds()", 86400.0},
		{"(dt(2018, 1, 1) + timedelta(days=1)).isoformat()", "2018-01-02T00:00:00"},
		{"(dt(2018, 1, 1) - timedelta(hours=12)).isoformat()", "2017-12-31T12:00:00"},
	}
	for _, tt := range tests {
		value, err := evaluator.evalExpression(tt.src)
		require.NoError(t, err, "source: %s", tt.src)
		assert.Equal(t, tt.expected, value, "source: %s", tt.src)
	}
}

func TestEvaluateKwargs(t *testing.T) {
	evaluator := NewEvaluator()
	for _, stmt := range ParseStatements("from datetime import timedelta") {
		require.Empty(t, evaluator.EvalStatement(stmt))
	}

	value, err := evaluator.evalExpression("timedelta(days=1, hours=6).total_seconds()")
	require.NoError(t, err)
	assert.Equal(t, 108000.0, value)

	_, err = evaluator.evalExpression("timedelta(eons=1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected keyword argument")
}

func TestEvaluateErrorMessages(t *testing.T) {
	tests := []struct {
		src     string
		message string
	}{
		{"1 / 0", "division by zero"},
		{"1 // 0", "division by zero"},
		{"1 % 0", "division by zero"},
		{"missing", "name 'missing' is not defined"},
		{"'a' + 1", "unsupported operand type(s) for +: 'str' and 'int'"},
		{"None + 1", "unsupported operand type(s) for +: 'NoneType' and 'int'"},
		{"-'a'", "bad operand type for unary -: 'str'"},
		{"1(2)", "'int' object is not callable"},
		{"'a'.upper", "'str' object has no attribute 'upper'"},
		{"int('zzz')", "invalid literal for int() with base 10: 'zzz'"},
	}
	for _, tt := range tests {
		err := evalError(t, tt.src)
		assert.EqualError(t, err, tt.message, "source: %s", tt.src)
	}
}

func TestEvaluateSyntaxErrors(t *testing.T) {
	for _, src := range []string{"1 +", "[1, 2", "{'a': }", "f(a=1, 2)", ")", "1 2"} {
		err := evalError(t, src)
		assert.Contains(t, err.Error(), "invalid syntax", "source: %s", src)
	}
}
