// Package sourcemap implements the process-wide file registry that backs
// every span carried by this toolkit's syntax trees and IR nodes.
package sourcemap

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// FileId identifies a source file within a SourceMap. The zero value is
// never returned by Map.AddFile; BuiltIn is the one reserved, pre-allocated
// id used for the implicit built-in preamble (scalars, directives,
// introspection types) that every Schema carries.
type FileId uint32

// BuiltIn is the reserved FileId for definitions synthesized by this
// toolkit rather than parsed from user input.
const BuiltIn FileId = 1

var nextFileId = atomic.NewUint32(uint32(BuiltIn) + 1)

// RunID is a random identifier generated once per process. No package in
// this module reads it; diagnostics and responses do not carry it.
var RunID = uuid.New()

// SourceSpan locates a byte range within one file registered in a SourceMap.
type SourceSpan struct {
	FileId   FileId
	ByteOffset int
	ByteLen    int
}

// End returns the exclusive end offset of the span.
func (s SourceSpan) End() int { return s.ByteOffset + s.ByteLen }

// Union returns the smallest span covering both s and other. Both must
// belong to the same file; if they don't, s is returned unchanged.
func (s SourceSpan) Union(other SourceSpan) SourceSpan {
	if s.FileId != other.FileId {
		return s
	}
	start := s.ByteOffset
	if other.ByteOffset < start {
		start = other.ByteOffset
	}
	end := s.End()
	if other.End() > end {
		end = other.End()
	}
	return SourceSpan{FileId: s.FileId, ByteOffset: start, ByteLen: end - start}
}

// Location is a 1-based line/column pair, as required by the response
// envelope's "locations" field.
type Location struct {
	Line   int
	Column int
}

type file struct {
	name   string
	source string
	// lineStarts[i] is the byte offset of the first byte of line i (0-based).
	lineStarts []int
}

// Map is the process-wide (or test-scoped) registry of source files.
// Create one with New, which pre-registers BuiltIn. The zero value has no
// file table: AddFile on it panics.
type Map struct {
	mu    sync.RWMutex
	files map[FileId]*file
}

// New returns a SourceMap with the BuiltIn file pre-registered under the
// name "<builtin>" and empty source text.
func New() *Map {
	m := &Map{files: make(map[FileId]*file)}
	m.addWithId(BuiltIn, "<builtin>", "")
	return m
}

// AddFile registers new source text under the given filename and returns
// its freshly allocated FileId. Safe for concurrent use; the counter is
// monotonic across the process.
func (m *Map) AddFile(name, source string) FileId {
	id := FileId(nextFileId.Add(1) - 1)
	m.addWithId(id, name, source)
	return id
}

func (m *Map) addWithId(id FileId, name, source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[id] = &file{name: name, source: source, lineStarts: computeLineStarts(source)}
}

func computeLineStarts(source string) []int {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Source returns the registered filename and text for id.
func (m *Map) Source(id FileId) (name, source string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[id]
	if !ok {
		return "", "", false
	}
	return f.name, f.source, true
}

// Text returns the substring of the registered source covered by span.
func (m *Map) Text(span SourceSpan) string {
	_, source, ok := m.Source(span.FileId)
	if !ok || span.ByteOffset < 0 || span.End() > len(source) {
		return ""
	}
	return source[span.ByteOffset:span.End()]
}

// LineColumn computes the 1-based line/column of a byte offset within the
// given file, on demand (no persistent per-node location tracking beyond
// the byte offset itself).
func (m *Map) LineColumn(id FileId, byteOffset int) Location {
	m.mu.RLock()
	f, ok := m.files[id]
	m.mu.RUnlock()
	if !ok {
		return Location{Line: 1, Column: 1}
	}
	// binary search for the last lineStart <= byteOffset
	lo, hi := 0, len(f.lineStarts)-1
	line := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if f.lineStarts[mid] <= byteOffset {
			line = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	col := byteOffset - f.lineStarts[line] + 1
	return Location{Line: line + 1, Column: col}
}

// LocationOf is a convenience wrapper returning the 1-based line/column of a
// span's start.
func (m *Map) LocationOf(span SourceSpan) Location {
	return m.LineColumn(span.FileId, span.ByteOffset)
}

// Snippet returns the single source line containing the span's start,
// trimmed of its trailing newline, useful for diagnostic rendering.
func (m *Map) Snippet(span SourceSpan) string {
	_, source, ok := m.Source(span.FileId)
	if !ok {
		return ""
	}
	loc := m.LocationOf(span)
	_ = loc
	lineStart := span.ByteOffset
	for lineStart > 0 && source[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := span.ByteOffset
	for lineEnd < len(source) && source[lineEnd] != '\n' {
		lineEnd++
	}
	return strings.TrimSuffix(source[lineStart:lineEnd], "\r")
}
