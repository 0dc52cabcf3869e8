package resolver

import "errors"

// Error categories a resolver call can fail with. The engine (package
// holoconf) treats [ErrNotFound], [ErrEnvNotFound], and [ErrFileNotFound]
// as the "not-found" class: the only kind eligible for a resolver call's
// `default` kwarg fallback. Every other error always propagates.
var (
	// ErrNotFound is a generic resource-not-found condition, for resolvers
	// with no more specific kind (e.g. a custom secret-store resolver).
	ErrNotFound = errors.New("resolver: not found")
	// ErrEnvNotFound indicates a missing environment variable.
	ErrEnvNotFound = errors.New("resolver: environment variable not found")
	// ErrFileNotFound indicates a missing file.
	ErrFileNotFound = errors.New("resolver: file not found")

	// ErrHTTPError wraps a transport or non-2xx response failure.
	ErrHTTPError = errors.New("resolver: http request failed")
	// ErrHTTPDisabled indicates the document was not opened with HTTP allowed.
	ErrHTTPDisabled = errors.New("resolver: http resolvers are disabled for this document")
	// ErrHTTPNotAllowed indicates the URL did not match the configured allowlist.
	ErrHTTPNotAllowed = errors.New("resolver: http url not allowed")
	// ErrTLSConfig indicates a TLS/mTLS configuration problem (bad CA bundle,
	// bad client certificate/key).
	ErrTLSConfig = errors.New("resolver: tls configuration error")
	// ErrProxyConfig indicates a malformed proxy configuration.
	ErrProxyConfig = errors.New("resolver: proxy configuration error")

	// ErrFileSandbox indicates a file path that escapes every allowed root.
	ErrFileSandbox = errors.New("resolver: file path escapes allowed roots")
	// ErrInvalidArgs indicates a resolver call with the wrong arity, an
	// unrecognized kwarg value, or malformed argument content.
	ErrInvalidArgs = errors.New("resolver: invalid arguments")
	// ErrUnknownResolver indicates no resolver is registered under the
	// requested name.
	ErrUnknownResolver = errors.New("resolver: unknown resolver")
	// ErrAlreadyRegistered indicates Register was called with force=false
	// for a name that already has a resolver bound.
	ErrAlreadyRegistered = errors.New("resolver: already registered")
)

// IsNotFoundClass reports whether err is one of the "not-found" error
// classes that make a resolver call's `default` kwarg eligible as a
// fallback.
func IsNotFoundClass(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrEnvNotFound) || errors.Is(err, ErrFileNotFound)
}
