package internal

import "fmt"

// IssueKind classifies a non-fatal finding accumulated while building a report.
type IssueKind string

const (
	// IssueRow is a single malformed tracking row. The row is excluded from
	// counts but the scan continues.
	IssueRow IssueKind = "row"

	// IssueAbsentInput is a declared input that does not exist. The engine
	// substitutes a documented default and marks the metrics degraded.
	IssueAbsentInput IssueKind = "absent_input"

	// IssueFormat is an input whose required structure could not be read.
	// That input contributes nothing, but the other inputs are still
	// processed and the report carries the failure reason.
	IssueFormat IssueKind = "format"

	// IssueDiscrepancy is an advisory mismatch between the recorded success
	// count and the artifacts actually on disk.
	IssueDiscrepancy IssueKind = "discrepancy"
)

// Issue is one diagnostic finding. Issues never abort the computation; the
// engine always returns a best-effort snapshot plus the issues it hit.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Source string    `json:"source,omitempty"`
	Line   int       `json:"line,omitempty"`
	Detail string    `json:"detail"`
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s: %s line %d: %s", i.Kind, i.Source, i.Line, i.Detail)
	}
	if i.Source != "" {
		return fmt.Sprintf("%s: %s: %s", i.Kind, i.Source, i.Detail)
	}
	return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
}

// FormatError means an input's required structure (header, columns) could not
// be determined at all. It is fatal for that input, not for the invocation:
// the caller still processes the other inputs.
type FormatError struct {
	Source string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: malformed input: %s", e.Source, e.Reason)
}

// AbsentInputError reports a declared source that does not exist on disk.
// Callers recover by substituting the documented default.
type AbsentInputError struct {
	Source string
	Path   string
}

func (e *AbsentInputError) Error() string {
	return fmt.Sprintf("%s: input not found: %s", e.Source, e.Path)
}
