package engine

import "fmt"

// Kind identifies which registry a lookup failed against.
type Kind string

const (
	KindInputType Kind = "input type"
	KindTargetDB  Kind = "target database"
)

// UnsupportedFormatError reports a format or dialect tag that has no
// registered implementation. The caller has to pick a supported tag;
// retrying the same call cannot succeed.
type UnsupportedFormatError struct {
	Kind Kind
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Kind == KindTargetDB {
		return fmt.Sprintf("adapter for target database %q is not implemented", e.Name)
	}
	return fmt.Sprintf("parser for input type %q is not implemented", e.Name)
}

// TransformError wraps an unexpected failure inside a parser or adapter,
// recovered panics included, so callers only ever observe the catalog error
// kinds.
type TransformError struct {
	Stage string // "parse" or "convert"
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("internal error during %s: %v", e.Stage, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
