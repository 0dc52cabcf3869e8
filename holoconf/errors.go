package holoconf

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes the stable error surface documents can return,
// mirroring holoconf-core's ErrorKind/ResolverErrorKind taxonomy.
type ErrorKind int

const (
	// ErrorKindParse indicates a malformed source document or
	// interpolation expression.
	ErrorKindParse ErrorKind = iota
	// ErrorKindResolver indicates a resolver call failed; the cause is
	// one of the resolver package's sentinel errors.
	ErrorKindResolver
	// ErrorKindValidation indicates a schema violation.
	ErrorKindValidation
	// ErrorKindPathNotFound indicates an addressed path does not exist.
	ErrorKindPathNotFound
	// ErrorKindCircularReference indicates a self-reference cycle.
	ErrorKindCircularReference
	// ErrorKindTypeCoercion indicates a typed accessor could not coerce
	// the resolved value to the requested type.
	ErrorKindTypeCoercion
	// ErrorKindIO indicates a filesystem or network failure outside the
	// resolver contract (e.g. reading the document itself).
	ErrorKindIO
	// ErrorKindInternal indicates a bug in holoconf.
	ErrorKindInternal
)

// String names the error kind for use in Error's message.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindParse:
		return "parse"
	case ErrorKindResolver:
		return "resolver"
	case ErrorKindValidation:
		return "validation"
	case ErrorKindPathNotFound:
		return "path not found"
	case ErrorKindCircularReference:
		return "circular reference"
	case ErrorKindTypeCoercion:
		return "type coercion"
	case ErrorKindIO:
		return "io"
	default:
		return "internal"
	}
}

// Sentinel errors, matched via errors.Is against the Cause chain of an
// [Error]. A failure raised by a resolver wraps the resolver package's
// own sentinel instead (see [ErrorKindResolver]).
var (
	ErrParse             = errors.New("holoconf: parse error")
	ErrPathNotFound      = errors.New("holoconf: path not found")
	ErrCircularReference = errors.New("holoconf: circular reference")
	ErrTypeCoercion      = errors.New("holoconf: type coercion failed")
	ErrValidationFailed  = errors.New("holoconf: validation failed")
	ErrNoSchema          = errors.New("holoconf: no schema provided and none attached")
	ErrIO                = errors.New("holoconf: io error")
)

// Error is the structured error type returned by document operations: a
// kind, the config path involved (if any), an actionable help sentence,
// and an underlying cause. Error wraps Cause, so errors.Is/errors.As see
// through to both the sentinel above and, for resolver failures, the
// resolver package's own sentinels (ErrEnvNotFound, ErrFileNotFound, ...).
type Error struct {
	Kind  ErrorKind
	Path  string
	Help  string
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg += " at " + e.Path
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	if e.Help != "" {
		msg += " (" + e.Help + ")"
	}

	return msg
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

func newError(kind ErrorKind, path string, help string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Help: help, Cause: cause}
}

func errPathNotFound(path string) *Error {
	return newError(ErrorKindPathNotFound, path,
		fmt.Sprintf("check that %q exists in the configuration", path),
		ErrPathNotFound)
}

func errCircularReference(path string, chain []string) *Error {
	cause := fmt.Errorf("%w: chain %v", ErrCircularReference, chain)

	return newError(ErrorKindCircularReference, path,
		"break the circular dependency by removing one of the references", cause)
}

func errTypeCoercion(path, expected, got string) *Error {
	cause := fmt.Errorf("%w: expected %s, got %s", ErrTypeCoercion, expected, got)

	return newError(ErrorKindTypeCoercion, path,
		fmt.Sprintf("ensure the value at %q can be converted to %s", path, expected), cause)
}

func errParse(cause error) *Error {
	return newError(ErrorKindParse, "", "", fmt.Errorf("%w: %w", ErrParse, cause))
}

func errIO(cause error) *Error {
	return newError(ErrorKindIO, "", "", fmt.Errorf("%w: %w", ErrIO, cause))
}

func errResolver(path string, cause error) *Error {
	return newError(ErrorKindResolver, path, "", cause)
}

func errValidation(cause error) *Error {
	return newError(ErrorKindValidation, "", "fix the value to match the schema requirements",
		fmt.Errorf("%w: %w", ErrValidationFailed, cause))
}

func errNoSchema() *Error {
	return newError(ErrorKindValidation, "", "attach a schema via SetSchema or pass one explicitly", ErrNoSchema)
}
