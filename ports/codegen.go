package ports

import (
	"replab/domain/plan"
)

// CodeGenerator produces the three artifacts one notebook stage needs: import
// statements, a source-code cell body, and pinned pip requirements. Every
// implementation is a pure function of the plan (plus, for upload variants,
// the paper context bound at construction): no internal state, safe to
// construct per request and to invoke concurrently.
type CodeGenerator interface {
	// Imports returns the ordered import statements the cell body needs
	Imports(doc *plan.Document) []string

	// Code returns the source body for one notebook cell. It fails only for
	// structural input errors (e.g. a claimed uploaded file absent on disk);
	// data-quality concerns are handled inside the generated code itself.
	Code(doc *plan.Document) (string, error)

	// Requirements returns pinned pip dependency strings for the cell
	Requirements(doc *plan.Document) []string
}
