package imagery

import "fmt"

// FetchError reports a failure to obtain or parse the imagery index.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FormatError reports a document missing its required top-level members.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid GeoJSON format: " + e.Reason
}

// FieldError reports a candidate feature without a readable url or name.
// It is only returned in strict mode.
type FieldError struct {
	Index int
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("feature %d: %s is missing or not a string", e.Index, e.Field)
}

// WriteError reports a failure persisting the filtered document.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
