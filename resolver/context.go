package resolver

import "go.jacobcolvin.com/holoconf/value"

// HTTPOptions carries the transport configuration shared by the http and
// https resolvers, sourced from a document's [holoconf.ConfigOptions].
type HTTPOptions struct {
	// Allow is the master switch for the http/https resolvers.
	Allow bool
	// Allowlist holds glob patterns matched against the full, parsed URL.
	// An empty allowlist permits any URL (subject to Allow).
	Allowlist []string
	// Proxy is an explicit proxy URL. Takes precedence over ProxyFromEnv.
	Proxy string
	// ProxyFromEnv selects the standard HTTP_PROXY/HTTPS_PROXY/NO_PROXY
	// environment variables when Proxy is empty.
	ProxyFromEnv bool
	// CABundle, if set, replaces the system trust store with the PEM
	// bundle at this path.
	CABundle string
	// ExtraCABundle, if set, appends the PEM bundle at this path to the
	// system trust store (or to CABundle's pool, if also set).
	ExtraCABundle string
	// ClientCert and ClientKey name PEM files for client mTLS.
	ClientCert string
	ClientKey  string
	// ClientKeyPassword is part of the client cache key. Only unencrypted
	// PEM keys are supported: a non-empty ClientKeyPassword together with
	// ClientCert makes client construction fail with ErrTLSConfig.
	ClientKeyPassword string
	// Insecure disables TLS certificate verification. Dangerous; intended
	// to be overridable per-call via an `insecure` kwarg rather than left
	// as a blanket document option (see spec Open Question b).
	Insecure bool
}

// Context is the input passed to every resolver call: where in the
// document the call occurred, a borrowed reference to the document root
// (for self-reference-aware resolvers), filesystem and network sandboxing,
// and the in-flight resolution stack used for cycle detection.
type Context struct {
	// ConfigPath is the dotted path currently being resolved.
	ConfigPath string
	// Root is the raw, unresolved document tree.
	Root *value.Value
	// BasePath is the root directory for relative file resolver lookups.
	BasePath string
	// FileRoots are the canonicalized allowed directories for the file
	// resolver sandbox. An empty slice denies all file access.
	FileRoots []string
	// ResolutionStack holds the fully-qualified paths currently being
	// resolved, innermost last, used to detect self-reference cycles.
	ResolutionStack []string
	// HTTP carries transport configuration for the http/https resolvers.
	HTTP HTTPOptions
}

// WouldCauseCycle reports whether path is already on the resolution stack.
func (c *Context) WouldCauseCycle(path string) bool {
	for _, p := range c.ResolutionStack {
		if p == path {
			return true
		}
	}

	return false
}

// Pushed returns a copy of c with path appended to the resolution stack,
// for use while recursively resolving a self-reference. c itself is left
// unmodified.
func (c *Context) Pushed(path string) *Context {
	cp := *c
	cp.ResolutionStack = append(append([]string(nil), c.ResolutionStack...), path)

	return &cp
}

// WithPath returns a copy of c with ConfigPath set to path.
func (c *Context) WithPath(path string) *Context {
	cp := *c
	cp.ConfigPath = path

	return &cp
}
