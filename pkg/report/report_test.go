package report_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// TestDiagnosticsSortsByPrimarySpan exercises the ordering Diagnostics
// promises: file, then offset, then length. cmp.Diff gives a field-by-field
// diff of the whole slice on failure, which is more legible than a
// reflect.DeepEqual mismatch when a reordering bug reshuffles several
// diagnostics at once.
func TestDiagnosticsSortsByPrimarySpan(t *testing.T) {
	r := &report.Report{}
	r.AddExternalError(report.Diagnostic{
		Kind:    report.KindUnknownArgument,
		Message: "third",
		Span:    sourcemap.SourceSpan{FileId: 1, ByteOffset: 20, ByteLen: 1},
	})
	r.AddExternalError(report.Diagnostic{
		Kind:    report.KindUnknownArgument,
		Message: "first",
		Span:    sourcemap.SourceSpan{FileId: 1, ByteOffset: 5, ByteLen: 1},
	})
	r.AddExternalError(report.Diagnostic{
		Kind:    report.KindUnknownArgument,
		Message: "second",
		Span:    sourcemap.SourceSpan{FileId: 1, ByteOffset: 5, ByteLen: 3},
	})

	want := []report.Diagnostic{
		{Kind: report.KindUnknownArgument, Message: "first", Span: sourcemap.SourceSpan{FileId: 1, ByteOffset: 5, ByteLen: 1}},
		{Kind: report.KindUnknownArgument, Message: "second", Span: sourcemap.SourceSpan{FileId: 1, ByteOffset: 5, ByteLen: 3}},
		{Kind: report.KindUnknownArgument, Message: "third", Span: sourcemap.SourceSpan{FileId: 1, ByteOffset: 20, ByteLen: 1}},
	}
	if diff := cmp.Diff(want, r.Diagnostics()); diff != "" {
		t.Fatalf("Diagnostics() mismatch (-want +got):\n%s", diff)
	}
}

// TestMergeConcatenatesDiagnostics guards Merge's append-only contract: the
// receiving Report keeps its own diagnostics and gains the other's.
func TestMergeConcatenatesDiagnostics(t *testing.T) {
	a := &report.Report{}
	a.AddExternalError(report.Diagnostic{Kind: report.KindVariableNotUsed, Message: "a"})
	b := &report.Report{}
	b.AddExternalError(report.Diagnostic{Kind: report.KindVariableNotUsed, Message: "b"})
	a.Merge(b)

	want := []report.Diagnostic{
		{Kind: report.KindVariableNotUsed, Message: "a"},
		{Kind: report.KindVariableNotUsed, Message: "b"},
	}
	if diff := cmp.Diff(want, a.Diagnostics()); diff != "" {
		t.Fatalf("Diagnostics() mismatch (-want +got):\n%s", diff)
	}
}
