package override_eval

import (
	"regexp"
	"strings"

	"github.com/notebooker/backend/models"
)

// Statement shapes are recognized with the same patterns the Python
// notebooker used; anything matching neither is a bare expression, evaluated
// only so the user can be warned about it.
var (
	importRegex = regexp.MustCompile(
		`^(?:from +([A-Za-z_][A-Za-z0-9_.]*) +)?import +([A-Za-z_][A-Za-z0-9_.]*)(?: +as +([A-Za-z_][A-Za-z0-9_]*))?$`)
	assignmentRegex = regexp.MustCompile(
		`^([A-Za-z_][A-Za-z0-9_]*) *= *(.+)$`)
)

// ParseStatements splits raw override text into ordered logical statements.
// Backslash-newline joins two physical lines; newlines and semicolons
// separate statements. Blank input yields no statements. The parser never
// fails: semantic problems are left for the evaluator to report.
func ParseStatements(raw string) []models.OverrideStatement {
	joined := strings.ReplaceAll(raw, "\\\n", "")

	var statements []models.OverrideStatement
	for _, line := range strings.Split(joined, "\n") {
		for _, part := range strings.Split(line, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			statements = append(statements, classifyStatement(part))
		}
	}
	return statements
}

func classifyStatement(text string) models.OverrideStatement {
	if m := importRegex.FindStringSubmatch(text); m != nil {
		return models.OverrideStatement{
			Raw:    text,
			Kind:   models.OverrideStatementImport,
			Module: m[1],
			Symbol: m[2],
			Alias:  m[3],
		}
	}
	if m := assignmentRegex.FindStringSubmatch(text); m != nil {
		return models.OverrideStatement{
			Raw:        text,
			Kind:       models.OverrideStatementAssignment,
			Target:     m[1],
			Expression: m[2],
		}
	}
	return models.OverrideStatement{
		Raw:        text,
		Kind:       models.OverrideStatementExpression,
		Expression: text,
	}
}
