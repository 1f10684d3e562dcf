package models

type OverrideStatementKind string

const (
	OverrideStatementImport     OverrideStatementKind = "import"
	OverrideStatementAssignment OverrideStatementKind = "assignment"
	OverrideStatementExpression OverrideStatementKind = "bare-expression"
)

// OverrideStatement is one logical line of user-submitted override text,
// after line-continuation joining and newline/semicolon splitting.
type OverrideStatement struct {
	Raw  string
	Kind OverrideStatementKind

	// import statements
	Module string // "from <Module> import ...", empty for a plain import
	Symbol string // imported dotted name
	Alias  string // "... as <Alias>", optional

	// assignment statements
	Target     string
	Expression string // also set for bare-expression statements
}

// OverrideResult is the final product of override evaluation: a mapping of
// parameter name to a value proven to round-trip through JSON, plus the
// diagnostics accumulated along the way. An empty issue list means the
// caller may submit the job.
type OverrideResult struct {
	Values map[string]any
	Issues []string
}

func (r OverrideResult) HasIssues() bool {
	return len(r.Issues) > 0
}
