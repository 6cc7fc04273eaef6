package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanSourceHasNoIssues(t *testing.T) {
	source := `import numpy as np

SEED = 42
np.random.seed(SEED)

def load():
    X = np.zeros((10, 2))
    return X

for i in range(3):
    print(i)`

	assert.Empty(t, CheckPythonSyntax(source))
}

func TestUnclosedBracketReportsOpeningLine(t *testing.T) {
	source := "x = 1\ny = foo(\n    1,\n    2,"

	issues := CheckPythonSyntax(source)
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "unclosed '('", issues[0].Message)
}

func TestUnmatchedClosingBracket(t *testing.T) {
	issues := CheckPythonSyntax("x = 1)")
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Line)
	assert.Contains(t, issues[0].Message, "unmatched closing ')'")
}

func TestMismatchedBrackets(t *testing.T) {
	issues := CheckPythonSyntax("x = foo(1]")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "mismatched ']'")
	assert.Contains(t, issues[0].Message, "opened on line 1")
}

func TestUnterminatedString(t *testing.T) {
	issues := CheckPythonSyntax("x = 1\ns = \"hello")
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "unterminated string literal", issues[0].Message)
}

func TestTripleQuotedStringSpansLines(t *testing.T) {
	source := "s = \"\"\"\nfirst (\nsecond ]\n\"\"\"\nx = 1"
	assert.Empty(t, CheckPythonSyntax(source))
}

func TestUnterminatedTripleQuote(t *testing.T) {
	issues := CheckPythonSyntax("s = \"\"\"\nstill open")
	require.Len(t, issues, 1)
	assert.Equal(t, "unterminated triple-quoted string", issues[0].Message)
}

func TestBracketsInsideStringsIgnored(t *testing.T) {
	assert.Empty(t, CheckPythonSyntax(`s = "foo(bar["`))
}

func TestBracketsInCommentsIgnored(t *testing.T) {
	assert.Empty(t, CheckPythonSyntax("x = 1  # note the ( here"))
}

func TestEscapedQuoteInString(t *testing.T) {
	assert.Empty(t, CheckPythonSyntax(`s = "he said \"hi\""`))
}

func TestBlockHeaderWithoutBody(t *testing.T) {
	issues := CheckPythonSyntax("if x > 1:\nprint(x)")
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "expected an indented block after this line", issues[0].Message)
}

func TestBlockHeaderBodyAfterBlankLine(t *testing.T) {
	// blank lines between header and body are fine
	assert.Empty(t, CheckPythonSyntax("def f():\n\n    return 1"))
}

func TestColonInsideBracketsIsNotAHeader(t *testing.T) {
	// a dict literal spread over lines must not trigger the block check
	source := "d = {\n    \"if \": 1,\n}\nx = d"
	assert.Empty(t, CheckPythonSyntax(source))
}

func TestMultipleIssuesAllReported(t *testing.T) {
	source := "if x:\ndone = 1\ny = foo(1\ns = \"open"

	issues := CheckPythonSyntax(source)
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, "unclosed '('")
	assert.Contains(t, messages, "unterminated string literal")
	assert.Contains(t, messages, "expected an indented block after this line")
}
