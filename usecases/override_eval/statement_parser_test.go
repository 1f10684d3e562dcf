package override_eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notebooker/backend/models"
)

func TestParseStatementsEmpty(t *testing.T) {
	assert.Empty(t, ParseStatements(""))
	assert.Empty(t, ParseStatements("   \n\n  ;; \n"))
}

func TestParseStatementsImportShapes(t *testing.T) {
	statements := ParseStatements(
		"import datetime\nimport datetime as dtm\nfrom datetime import datetime as dt\nfrom datetime import date")

	assert.Len(t, statements, 4)

	assert.Equal(t, models.OverrideStatement{
		Raw: "import datetime", Kind: models.OverrideStatementImport, Symbol: "datetime",
	}, statements[0])
	assert.Equal(t, models.OverrideStatement{
		Raw: "import datetime as dtm", Kind: models.OverrideStatementImport, Symbol: "datetime", Alias: "dtm",
	}, statements[1])
	assert.Equal(t, models.OverrideStatement{
		Raw:  "from datetime import datetime as dt",
		Kind: models.OverrideStatementImport, Module: "datetime", Symbol: "datetime", Alias: "dt",
	}, statements[2])
	assert.Equal(t, models.OverrideStatement{
		Raw:  "from datetime import date",
		Kind: models.OverrideStatementImport, Module: "datetime", Symbol: "date",
	}, statements[3])
}

func TestParseStatementsAssignment(t *testing.T) {
	statements := ParseStatements("d = 1 + 2")

	assert.Len(t, statements, 1)
	assert.Equal(t, models.OverrideStatementAssignment, statements[0].Kind)
	assert.Equal(t, "d", statements[0].Target)
	assert.Equal(t, "1 + 2", statements[0].Expression)
}

func TestParseStatementsBareExpression(t *testing.T) {
	statements := ParseStatements("datetime.datetime(2018, 1, 1)")

	assert.Len(t, statements, 1)
	assert.Equal(t, models.OverrideStatementExpression, statements[0].Kind)
	assert.Equal(t, "datetime.datetime(2018, 1, 1)", statements[0].Expression)
}

func TestParseStatementsSemicolonSeparation(t *testing.T) {
	statements := ParseStatements("a = 1; b = 2;c = 3")

	assert.Len(t, statements, 3)
	for i, target := range []string{"a", "b", "c"} {
		assert.Equal(t, models.OverrideStatementAssignment, statements[i].Kind)
		assert.Equal(t, target, statements[i].Target)
	}
}

func TestParseStatementsLineContinuation(t *testing.T) {
	statements := ParseStatements("q=\\\n1 + 2")

	assert.Len(t, statements, 1)
	assert.Equal(t, models.OverrideStatementAssignment, statements[0].Kind)
	assert.Equal(t, "q", statements[0].Target)
	assert.Equal(t, "1 + 2", statements[0].Expression)
}

func TestParseStatementsOrderIsPreserved(t *testing.T) {
	statements := ParseStatements("import datetime\nd = 1;datetime.datetime(2018, 1, 1)\ne = 2")

	kinds := make([]models.OverrideStatementKind, len(statements))
	for i, stmt := range statements {
		kinds[i] = stmt.Kind
	}
	assert.Equal(t, []models.OverrideStatementKind{
		models.OverrideStatementImport,
		models.OverrideStatementAssignment,
		models.OverrideStatementExpression,
		models.OverrideStatementAssignment,
	}, kinds)
}
