package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"replab/domain/notebook"
)

// Result is the aggregate outcome of validating one notebook. Callers must
// treat Valid=false as "do not persist or execute"; remediation (regenerate,
// surface to an operator) is the caller's decision.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ParamRule forbids specific parameters on a known construct
type ParamRule struct {
	ForbiddenParams []string
	Reason          string
}

// defaultParamRules covers constructs generators are known to misuse. The
// vectorizers are deterministic by construction and reject random_state at
// run time, so a generator passing one is a bug this catches pre-execution.
var defaultParamRules = map[string]ParamRule{
	"CountVectorizer": {
		ForbiddenParams: []string{"random_state"},
		Reason:          "CountVectorizer is deterministic and does not accept random_state",
	},
	"TfidfVectorizer": {
		ForbiddenParams: []string{"random_state"},
		Reason:          "TfidfVectorizer is deterministic and does not accept random_state",
	},
	"HashingVectorizer": {
		ForbiddenParams: []string{"random_state"},
		Reason:          "HashingVectorizer is deterministic and does not accept random_state",
	},
}

// NotebookValidator statically checks generated notebooks before they are
// persisted or executed. Execution happens unattended, so this is the single
// gate that turns a best-effort artifact into one that is safe to run.
//
// The parameter check is textual and intentionally approximate: it may over-
// or under-match on unusual formatting, trading perfect parsing for catching
// real generator bugs cheaply. Structural call-expression matching would be
// more precise and could replace it without changing the contract.
type NotebookValidator struct {
	paramRules map[string]ParamRule
}

// NewNotebookValidator creates a validator with the default rule table
func NewNotebookValidator() *NotebookValidator {
	return &NotebookValidator{paramRules: defaultParamRules}
}

// Validate runs all checks on serialized notebook bytes. Checks collect all
// errors rather than stopping at the first: a defect in one cell must not
// hide defects in another.
func (v *NotebookValidator) Validate(notebookBytes []byte) Result {
	nb, err := notebook.Parse(notebookBytes)
	if err != nil {
		return Result{Valid: false, Errors: []string{fmt.Sprintf("Failed to parse notebook: %v", err)}}
	}

	var errors []string
	errors = append(errors, v.checkSyntax(nb)...)
	errors = append(errors, v.checkParams(nb)...)

	return Result{Valid: len(errors) == 0, Errors: errors}
}

// checkSyntax verifies every code cell in isolation. A failure records the
// cell index, line number and message, then moves on to the next cell.
func (v *NotebookValidator) checkSyntax(nb *notebook.Notebook) []string {
	var errors []string
	for _, cell := range nb.CodeCells() {
		for _, issue := range CheckPythonSyntax(cell.Source) {
			errors = append(errors, fmt.Sprintf("Syntax error in cell %d at line %d: %s", cell.Index, issue.Line, issue.Message))
		}
	}
	return errors
}

// checkParams scans each code cell for known constructs invoked with
// forbidden parameters. One violation is recorded per construct/parameter
// pair per cell.
func (v *NotebookValidator) checkParams(nb *notebook.Notebook) []string {
	constructs := make([]string, 0, len(v.paramRules))
	for construct := range v.paramRules {
		constructs = append(constructs, construct)
	}
	sort.Strings(constructs)

	var errors []string
	for _, cell := range nb.CodeCells() {
		for _, construct := range constructs {
			rule := v.paramRules[construct]
			if !strings.Contains(cell.Source, construct) {
				continue
			}
			for _, param := range rule.ForbiddenParams {
				pattern := regexp.MustCompile(construct + `\s*\([^)]*` + param + `\s*=`)
				if pattern.MatchString(cell.Source) {
					errors = append(errors, fmt.Sprintf("Cell %d: %s uses invalid parameter '%s'. Reason: %s",
						cell.Index, construct, param, rule.Reason))
				}
			}
		}
	}
	return errors
}
