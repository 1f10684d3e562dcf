package override_eval

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/models/pyast"
)

// Issue prefixes are part of the public contract: downstream callers show
// them verbatim and tests match on them.
const (
	issueErrorPrefix         = "An error was encountered: "
	issueDeadExpressionFmt   = "Found an expression that did nothing! It has a value of type: %s"
	issueSerializationFormat = `Could not JSON serialise a parameter ("%s") - this must be serialisable ` +
		`so that we can execute the notebook with it! (Error: %s, Value: %s)`
)

func errorIssue(err error) string {
	return issueErrorPrefix + err.Error()
}

func deadExpressionIssue(value any) string {
	return fmt.Sprintf(issueDeadExpressionFmt, TypeName(value))
}

func serializationIssue(name string, err error, value any) string {
	return fmt.Sprintf(issueSerializationFormat, name, err.Error(), Str(value))
}

// Evaluator processes override statements in order against one accumulating
// namespace. Statements are independent: a failing line reports an issue and
// the evaluation moves on, so users get feedback on every line at once.
type Evaluator struct {
	env      *Environment
	modules  map[string]*Module
	assigned []string
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		env:     NewEnclosedEnvironment(builtinEnvironment()),
		modules: defaultModules(),
	}
}

// EvalStatement runs one statement and returns the issues it produced.
// It never returns an error and never panics out: every failure mode of the
// user's code becomes an issue string.
func (e *Evaluator) EvalStatement(stmt models.OverrideStatement) []string {
	switch stmt.Kind {
	case models.OverrideStatementImport:
		if err := e.evalImport(stmt); err != nil {
			return []string{errorIssue(err)}
		}
		return nil

	case models.OverrideStatementAssignment:
		value, err := e.evalExpression(stmt.Expression)
		if err != nil {
			return []string{errorIssue(err)}
		}
		if !contains(e.assigned, stmt.Target) {
			e.assigned = append(e.assigned, stmt.Target)
		}
		e.env.Set(stmt.Target, value)
		return nil

	default:
		value, err := e.evalExpression(stmt.Expression)
		if err != nil {
			return []string{errorIssue(err)}
		}
		if value != nil {
			return []string{deadExpressionIssue(value)}
		}
		return nil
	}
}

// AssignedNames lists names bound by assignment statements, in first-binding
// order. Import bindings are excluded: modules are a means to an end and are
// never part of the override output.
func (e *Evaluator) AssignedNames() []string {
	return e.assigned
}

func (e *Evaluator) Lookup(name string) (any, bool) {
	return e.env.Get(name)
}

func (e *Evaluator) evalImport(stmt models.OverrideStatement) error {
	if stmt.Module != "" {
		// from <module> import <symbol> [as <alias>]
		module, err := resolveDotted(e.modules, stmt.Module)
		if err != nil {
			return err
		}
		value := module
		for _, part := range strings.Split(stmt.Symbol, ".") {
			obj, ok := value.(Object)
			if !ok {
				return pyast.NewImportError(stmt.Symbol, stmt.Module)
			}
			attr, attrErr := obj.Attr(part)
			if attrErr != nil {
				return pyast.NewImportError(stmt.Symbol, stmt.Module)
			}
			value = attr
		}
		name := stmt.Alias
		if name == "" {
			name = lastDottedPart(stmt.Symbol)
		}
		e.env.Set(name, value)
		return nil
	}

	// import <module> [as <alias>]
	resolved, err := resolveDotted(e.modules, stmt.Symbol)
	if err != nil {
		return err
	}
	if stmt.Alias != "" {
		e.env.Set(stmt.Alias, resolved)
		return nil
	}
	// a plain dotted import binds the top-level module name
	top := strings.SplitN(stmt.Symbol, ".", 2)[0]
	e.env.Set(top, e.modules[top])
	return nil
}

// evalExpression parses and evaluates one expression, converting panics into
// plain errors so that nothing escapes the statement boundary.
func (e *Evaluator) evalExpression(src string) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("internal evaluation failure: %v", r)
		}
	}()

	expr, err := ParseExpression(src)
	if err != nil {
		return nil, err
	}
	return evaluateExpr(e.env, expr)
}

func lastDottedPart(dotted string) string {
	parts := strings.Split(dotted, ".")
	return parts[len(parts)-1]
}

func contains(names []string, name string) bool {
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}
