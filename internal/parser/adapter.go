package parser

import "context"

// ParseError is returned when a file fails to parse. It is always file-scoped:
// the driver skips the file and continues (spec.md §7).
type ParseError struct {
	File    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return "parse error in " + e.File + ": " + e.Message + ": " + e.Cause.Error()
	}
	return "parse error in " + e.File + ": " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Cause }

// LanguageAdapter is the per-language contract of spec.md §6. Implementations
// are not required to be thread-safe; callers obtain one instance per worker
// via an AdapterFactory.
type LanguageAdapter interface {
	// Parse produces the generic tree for the whole file.
	Parse(ctx context.Context, source []byte, filename string) (*Node, error)

	// ExtractFunctions produces function/method records with source spans.
	ExtractFunctions(ctx context.Context, source []byte, filename string) ([]*FunctionRecord, error)

	// ExtractTypes produces type declaration records (may be empty).
	ExtractTypes(ctx context.Context, source []byte, filename string) ([]*TypeRecord, error)

	// Language returns a short language tag, e.g. "python", "go".
	Language() string
}

// AdapterFactory builds a fresh, unshared LanguageAdapter instance.
type AdapterFactory func() LanguageAdapter
