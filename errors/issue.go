package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrorCode identifies one kind of schema or lookup problem.
type ErrorCode string

const (
	// ErrSchemaNotLoaded indicates a query was made without a loaded schema.
	ErrSchemaNotLoaded ErrorCode = "schema-not-loaded"
	// ErrSourceMissing indicates a schema source document could not be opened.
	ErrSourceMissing ErrorCode = "schema-source-missing"
	// ErrSourceParse indicates a schema source document is not well formed.
	ErrSourceParse ErrorCode = "schema-source-parse"
	// ErrAttributeInvalid indicates a field attribute has the wrong kind of value.
	ErrAttributeInvalid ErrorCode = "schema-attribute-invalid"
	// ErrDuplicateField indicates two fields of one struct share a name.
	ErrDuplicateField ErrorCode = "schema-duplicate-field"
	// ErrSkipPointer indicates a Skip field was marked as pointer.
	ErrSkipPointer ErrorCode = "schema-skip-pointer"
	// ErrSkipSize indicates a Skip field has no offset.
	ErrSkipSize ErrorCode = "schema-skip-size"
	// ErrStringLength indicates a fixed-size string has neither length nor offset.
	ErrStringLength ErrorCode = "schema-string-length"
	// ErrArrayLength indicates an Array has a missing or zero length.
	ErrArrayLength ErrorCode = "schema-array-length"
	// ErrArrayType indicates an Array has no element type.
	ErrArrayType ErrorCode = "schema-array-type"
	// ErrMatrixType indicates a Matrix has no element type.
	ErrMatrixType ErrorCode = "schema-matrix-type"
	// ErrMatrixShape indicates a Matrix has a missing or zero row or column count.
	ErrMatrixShape ErrorCode = "schema-matrix-shape"
	// ErrAlignmentRange indicates a struct alignment override outside 0-8.
	ErrAlignmentRange ErrorCode = "schema-alignment-range"
	// ErrStructCycle indicates a struct contains itself by value.
	ErrStructCycle ErrorCode = "schema-struct-cycle"
	// ErrHierarchyCycle indicates the entity class hierarchy never reaches its root.
	ErrHierarchyCycle ErrorCode = "schema-hierarchy-cycle"

	// WarnDefaultElementType indicates a container element, key or value type was defaulted.
	WarnDefaultElementType ErrorCode = "schema-default-element-type"
	// WarnMissingTitles indicates a flags or state field has neither a ref nor an inline table.
	WarnMissingTitles ErrorCode = "schema-missing-titles"
	// WarnDuplicateStruct indicates a struct was defined again; the first definition is kept.
	WarnDuplicateStruct ErrorCode = "schema-duplicate-struct"

	// ErrUnknownType indicates a lookup of a type name the schema does not define.
	ErrUnknownType ErrorCode = "lookup-unknown-type"
	// ErrUnknownField indicates a path segment that matches no field.
	ErrUnknownField ErrorCode = "lookup-unknown-field"
	// ErrUnknownRef indicates a lookup of a ref table the schema does not define.
	ErrUnknownRef ErrorCode = "lookup-unknown-ref"
	// ErrPointerRead indicates a pointer on the resolution path could not be read.
	ErrPointerRead ErrorCode = "lookup-pointer-read"
	// ErrUnsupportedPath indicates a path that descends where resolution is not possible.
	ErrUnsupportedPath ErrorCode = "lookup-unsupported-path"
	// ErrUnknownAlignment indicates an alignment that could not be determined.
	ErrUnknownAlignment ErrorCode = "lookup-unknown-alignment"

	// ErrUnknownClass indicates a class hierarchy walk reached an unmapped class.
	ErrUnknownClass ErrorCode = "hierarchy-unknown-class"
	// ErrNoVirtualFunctions indicates a type without any registered virtual functions.
	ErrNoVirtualFunctions ErrorCode = "hierarchy-no-virtual-functions"
)

// Severity groups issue codes by how the engine reacts to them.
type Severity uint8

const (
	// SeverityFatal aborts a schema load.
	SeverityFatal Severity = iota
	// SeverityDegraded substitutes a default and lets the load continue.
	SeverityDegraded
	// SeveritySoft is a query-time miss answered with a sentinel.
	SeveritySoft
	// SeverityInconsistent is a lookup failure caused by a defective schema.
	SeverityInconsistent
)

// Severity returns the class of the code.
func (c ErrorCode) Severity() Severity {
	switch {
	case strings.HasPrefix(string(c), "schema-default-"), c == WarnMissingTitles, c == WarnDuplicateStruct:
		return SeverityDegraded
	case strings.HasPrefix(string(c), "lookup-"):
		return SeveritySoft
	case strings.HasPrefix(string(c), "hierarchy-"):
		return SeverityInconsistent
	default:
		return SeverityFatal
	}
}

// Issue describes one schema problem with its code, the source document it came
// from and the struct.field path it concerns.
type Issue struct {
	Code    ErrorCode
	Message string
	Source  string
	Path    string
}

// Error formats the issue for display, including code, message, and context.
func (i *Issue) Error() string {
	if i == nil {
		return "issue <nil>"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", i.Code, i.Message)
	if i.Path != "" {
		fmt.Fprintf(&b, " (%s)", i.Path)
	}
	if i.Source != "" {
		fmt.Fprintf(&b, " in %s", i.Source)
	}
	return b.String()
}

// NewIssue builds an Issue with a code, message, and optional path.
func NewIssue(code ErrorCode, msg, path string) *Issue {
	return &Issue{Code: code, Message: msg, Path: path}
}

// NewIssuef formats a message and builds an Issue.
func NewIssuef(code ErrorCode, path, format string, args ...any) *Issue {
	return NewIssue(code, fmt.Sprintf(format, args...), path)
}

// WithSource returns a copy of the issue attributed to a source document.
func (i *Issue) WithSource(source string) *Issue {
	if i == nil {
		return nil
	}
	c := *i
	c.Source = source
	return &c
}

// AsIssues extracts every Issue carried by err, looking through wrapping and
// multierror aggregates.
func AsIssues(err error) ([]Issue, bool) {
	if err == nil {
		return nil, false
	}
	var out []Issue
	collect(err, &out)
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func collect(err error, out *[]Issue) {
	var agg *multierror.Error
	if errors.As(err, &agg) && agg != nil {
		for _, inner := range agg.Errors {
			collect(inner, out)
		}
		return
	}
	var issue *Issue
	if errors.As(err, &issue) && issue != nil {
		*out = append(*out, *issue)
	}
}

// HasCode reports whether err carries an Issue with the given code.
func HasCode(err error, code ErrorCode) bool {
	issues, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}
