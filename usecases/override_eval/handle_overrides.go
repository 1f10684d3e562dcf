package override_eval

import (
	"context"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/utils"
)

// HandleOverrides evaluates raw override text into a mapping of parameter
// name to JSON-safe value, plus the list of issues encountered. It is
// exception-free: whatever the input, it returns data. A non-empty issue
// list is the only signal that the caller must not start a job.
//
// Each call builds a fresh namespace, so concurrent evaluations never
// interfere. No time budget is applied here; callers wrap the call if they
// need one.
func HandleOverrides(ctx context.Context, raw string) models.OverrideResult {
	result := models.OverrideResult{
		Values: make(map[string]any),
		Issues: []string{},
	}

	statements := ParseStatements(raw)
	if len(statements) == 0 {
		return result
	}

	evaluator := NewEvaluator()
	for _, stmt := range statements {
		result.Issues = append(result.Issues, evaluator.EvalStatement(stmt)...)
	}

	for _, name := range evaluator.AssignedNames() {
		value, _ := evaluator.Lookup(name)
		roundTripped, err := RoundTripValue(value)
		if err != nil {
			result.Issues = append(result.Issues, serializationIssue(name, err, value))
			continue
		}
		result.Values[name] = roundTripped
	}

	utils.LoggerFromContext(ctx).DebugContext(ctx, "handled overrides",
		"statements", len(statements),
		"values", len(result.Values),
		"issues", len(result.Issues))

	return result
}
