// Package report implements the diagnostic collector used by the parser,
// schema assembler, and validator, grounded on the call-site shape of the
// teacher's operationreport.Report ("report.HasErrors()",
// "report.AddExternalError(...)") visible in
// v2/pkg/engine/plan/planner.go, re-specified per spec.md §7's
// diagnostic/request-error/field-error split.
package report

import (
	"fmt"
	"sort"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// Severity distinguishes hard errors (which make a document invalid) from
// informational diagnostics.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Kind identifies the diagnostic rule that produced a Diagnostic, matching
// the enumeration in spec.md §7.
type Kind string

const (
	KindSyntaxError                      Kind = "SyntaxError"
	KindRecursionLimit                    Kind = "RecursionLimit"
	KindLimitExceeded                     Kind = "LimitExceeded"
	KindUniqueDefinition                  Kind = "UniqueDefinition"
	KindUnsupportedLocation               Kind = "UnsupportedLocation"
	KindRequiredArgument                  Kind = "RequiredArgument"
	KindUndefinedDefinition               Kind = "UndefinedDefinition"
	KindMissingField                      Kind = "MissingField"
	KindTransitiveImplementedInterfaces   Kind = "TransitiveImplementedInterfaces"
	KindRecursiveDirectiveDefinition       Kind = "RecursiveDirectiveDefinition"
	KindRecursiveInterfaceDefinition       Kind = "RecursiveInterfaceDefinition"
	KindQueryRootOperationType             Kind = "QueryRootOperationType"
	KindOutputType                         Kind = "OutputType"
	KindInputType                          Kind = "InputType"
	KindOrphanExtension                    Kind = "OrphanExtension"
	KindFragmentCycle                      Kind = "FragmentCycle"
	KindFieldsCannotBeMerged               Kind = "FieldsCannotBeMerged"
	KindUnknownArgument                    Kind = "UnknownArgument"
	KindVariableNotDefined                 Kind = "VariableNotDefined"
	KindVariableNotUsed                    Kind = "VariableNotUsed"
	KindSingleRootField                    Kind = "SingleRootField"
	KindInvalidValue                       Kind = "InvalidValue"
)

// Label is a secondary annotation attached to a Diagnostic, pointing at a
// span related to (but not the primary cause of) the problem.
type Label struct {
	Span    sourcemap.SourceSpan
	Message string
}

// Diagnostic is a single structured validation or parse failure: a span,
// an error kind, optional secondary labels, and optional help text. Never
// raised as a panic/exception — always collected into a Report.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Span     sourcemap.SourceSpan
	Labels   []Label
	Help     string
}

func (d Diagnostic) String() string {
	if d.Help != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Message, d.Help)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Report accumulates Diagnostics during parsing, assembly, and validation.
// It never panics; callers decide what "valid" means by calling HasErrors.
type Report struct {
	diagnostics []Diagnostic
}

// AddExternalError records a diagnostic caused by the input document
// itself (syntax error, validation rule violation) — the counterpart of
// AddInternalError for implementer bugs.
func (r *Report) AddExternalError(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

// AddInternalError records a diagnostic caused by a bug in this toolkit
// rather than the input document (e.g. an invariant the schema assembler
// was supposed to uphold but didn't). Surfaced the same way as external
// diagnostics but kept distinguishable via Kind for telemetry.
func (r *Report) AddInternalError(err error) {
	r.diagnostics = append(r.diagnostics, Diagnostic{
		Severity: SeverityError,
		Kind:     "InternalError",
		Message:  err.Error(),
	})
}

// HasErrors reports whether any collected diagnostic has SeverityError.
func (r *Report) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Diagnostics returns all collected diagnostics, sorted deterministically
// by primary span (file, then offset, then length) as spec.md §4.6/§9
// requires for reproducible validation output.
func (r *Report) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Span, out[j].Span
		if a.FileId != b.FileId {
			return a.FileId < b.FileId
		}
		if a.ByteOffset != b.ByteOffset {
			return a.ByteOffset < b.ByteOffset
		}
		return a.ByteLen < b.ByteLen
	})
	return out
}

// Merge appends another Report's diagnostics into r.
func (r *Report) Merge(other *Report) {
	r.diagnostics = append(r.diagnostics, other.diagnostics...)
}
