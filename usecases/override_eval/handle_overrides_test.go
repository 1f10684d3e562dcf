package override_eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleOverridesEmptyInput(t *testing.T) {
	result := HandleOverrides(context.Background(), "")

	assert.Empty(t, result.Values)
	assert.Empty(t, result.Issues)
	assert.False(t, result.HasIssues())
}

func TestHandleOverridesImportAndAssignment(t *testing.T) {
	result := HandleOverrides(context.Background(),
		"import datetime\nd = datetime.datetime(2018, 1, 1).isoformat()")

	assert.Empty(t, result.Issues)
	assert.Equal(t, map[string]any{"d": "2018-01-01T00:00:00"}, result.Values)
}

func TestHandleOverridesNonSerializableValue(t *testing.T) {
	result := HandleOverrides(context.Background(),
		"import datetime\nd = datetime.datetime(2018, 1, 1)")

	assert.Empty(t, result.Values)
	assert.Len(t, result.Issues, 1)
	assert.Equal(t,
		`Could not JSON serialise a parameter ("d") - this must be serialisable `+
			`so that we can execute the notebook with it! `+
			`(Error: Object of type datetime is not JSON serializable, Value: 2018-01-01 00:00:00)`,
		result.Issues[0])
}

func TestHandleOverridesUnknownModule(t *testing.T) {
	result := HandleOverrides(context.Background(),
		"import datetimes\nd = datetime.datetime(2018, 1, 1)")

	assert.Empty(t, result.Values)
	assert.Contains(t, result.Issues, "An error was encountered: No module named 'datetimes'")
	assert.Contains(t, result.Issues, "An error was encountered: name 'datetime' is not defined")
}

func TestHandleOverridesDeadExpression(t *testing.T) {
	result := HandleOverrides(context.Background(),
		"import datetime;datetime.datetime(2018, 1, 1)")

	assert.Empty(t, result.Values)
	assert.Len(t, result.Issues, 1)
	assert.Equal(t,
		"Found an expression that did nothing! It has a value of type: datetime.datetime",
		result.Issues[0])
}

func TestHandleOverridesSemicolonsAndLineContinuation(t *testing.T) {
	result := HandleOverrides(context.Background(),
		"from datetime import datetime as dt;d = dt(2018, 1, 1).isoformat()\nq=\\\ndt(2011, 5, 1).isoformat()")

	assert.Empty(t, result.Issues)
	assert.Equal(t, map[string]any{
		"d": "2018-01-01T00:00:00",
		"q": "2011-05-01T00:00:00",
	}, result.Values)
}

func TestHandleOverridesUndefinedName(t *testing.T) {
	result := HandleOverrides(context.Background(), "d = datetime.datetime(2018, 1, 1)")

	assert.Empty(t, result.Values)
	assert.Equal(t, []string{"An error was encountered: name 'datetime' is not defined"}, result.Issues)
}

func TestHandleOverridesBareExpressionUndefinedName(t *testing.T) {
	result := HandleOverrides(context.Background(), "datetime.datetime(2018, 1, 1)")

	assert.Empty(t, result.Values)
	assert.Equal(t, []string{"An error was encountered: name 'datetime' is not defined"}, result.Issues)
}

func TestHandleOverridesIndependentStatements(t *testing.T) {
	// the failing middle line must not prevent the later ones from binding
	result := HandleOverrides(context.Background(),
		"a = 1\nb = nope + 1\nc = a + 2")

	assert.Equal(t, map[string]any{"a": int64(1), "c": int64(3)}, result.Values)
	assert.Equal(t, []string{"An error was encountered: name 'nope' is not defined"}, result.Issues)
}

func TestHandleOverridesForwardReferenceFails(t *testing.T) {
	result := HandleOverrides(context.Background(), "a = b + 1\nb = 2")

	assert.Equal(t, map[string]any{"b": int64(2)}, result.Values)
	assert.Equal(t, []string{"An error was encountered: name 'b' is not defined"}, result.Issues)
}

func TestHandleOverridesContainersAndScalars(t *testing.T) {
	result := HandleOverrides(context.Background(),
		"name = 'fund_1'\nratio = 0.75\nactive = True\nnothing = None\n"+
			"tickers = ['AAPL', 'GOOG']\nlimits = {'max': 10, 'min': 1}")

	assert.Empty(t, result.Issues)
	assert.Equal(t, map[string]any{
		"name":    "fund_1",
		"ratio":   0.75,
		"active":  true,
		"nothing": nil,
		"tickers": []any{"AAPL", "GOOG"},
		"limits":  map[string]any{"max": int64(10), "min": int64(1)},
	}, result.Values)
}

func TestHandleOverridesNoneExpressionIsNotAWarning(t *testing.T) {
	result := HandleOverrides(context.Background(), "None")

	assert.Empty(t, result.Values)
	assert.Empty(t, result.Issues)
}

func TestHandleOverridesReassignmentKeepsLastValue(t *testing.T) {
	result := HandleOverrides(context.Background(), "a = 1\na = 2")

	assert.Empty(t, result.Issues)
	assert.Equal(t, map[string]any{"a": int64(2)}, result.Values)
}

func TestHandleOverridesSyntaxError(t *testing.T) {
	result := HandleOverrides(context.Background(), "a = [1, 2")

	assert.Empty(t, result.Values)
	assert.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "An error was encountered: ")
	assert.Contains(t, result.Issues[0], "invalid syntax")
}

func TestHandleOverridesValidatorIdempotence(t *testing.T) {
	first := HandleOverrides(context.Background(),
		"a = [1, 2.5, 'x', None, True]\nb = {'k': [1, {'n': 2}]}")
	assert.Empty(t, first.Issues)

	for name, value := range first.Values {
		again, err := RoundTripValue(value)
		assert.NoError(t, err)
		assert.Equal(t, value, again, "value for %q changed on re-validation", name)
	}
}
