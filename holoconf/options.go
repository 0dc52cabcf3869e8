package holoconf

import "go.jacobcolvin.com/holoconf/resolver"

// ConfigOptions configures how a document resolves file and network
// interpolations. The zero value is maximally restrictive: no extra file
// roots, HTTP disabled, no allowlist.
type ConfigOptions struct {
	// BasePath roots relative file resolver lookups. Defaults to the
	// directory of the loaded file when loading from disk.
	BasePath string
	// FileRoots lists additional allowed directories for the file
	// resolver sandbox, beyond BasePath.
	FileRoots []string

	// AllowHTTP is the master switch for the http/https resolvers.
	AllowHTTP bool
	// HTTPAllowlist holds glob patterns matched against the full URL.
	// Empty means any URL is permitted once AllowHTTP is true.
	HTTPAllowlist []string

	// HTTPProxy is an explicit proxy URL, taking precedence over
	// HTTPProxyFromEnv.
	HTTPProxy string
	// HTTPProxyFromEnv selects HTTP_PROXY/HTTPS_PROXY/NO_PROXY.
	HTTPProxyFromEnv bool
	// HTTPCABundle replaces the system trust store with a PEM bundle.
	HTTPCABundle string
	// HTTPExtraCABundle appends a PEM bundle to the trust store.
	HTTPExtraCABundle string
	// HTTPClientCert and HTTPClientKey name PEM files for client mTLS.
	HTTPClientCert string
	HTTPClientKey  string
	// HTTPClientKeyPassword is passed to the HTTP resolver's transport.
	// Encrypted client keys are not supported: when it is set together
	// with HTTPClientCert, building the HTTP client fails with a TLS
	// configuration error.
	HTTPClientKeyPassword string
	// HTTPInsecure disables TLS certificate verification by default; an
	// `insecure` kwarg on an individual call overrides this per spec
	// Open Question (b).
	HTTPInsecure bool
}

// httpOptions projects the document-wide HTTP settings into the shape the
// resolver package consumes.
func (o ConfigOptions) httpOptions() resolver.HTTPOptions {
	return resolver.HTTPOptions{
		Allow:             o.AllowHTTP,
		Allowlist:         o.HTTPAllowlist,
		Proxy:             o.HTTPProxy,
		ProxyFromEnv:      o.HTTPProxyFromEnv,
		CABundle:          o.HTTPCABundle,
		ExtraCABundle:     o.HTTPExtraCABundle,
		ClientCert:        o.HTTPClientCert,
		ClientKey:         o.HTTPClientKey,
		ClientKeyPassword: o.HTTPClientKeyPassword,
		Insecure:          o.HTTPInsecure,
	}
}

// fileRoots returns every canonicalizable root the file resolver sandbox
// should allow: BasePath plus FileRoots.
func (o ConfigOptions) fileRoots() []string {
	if o.BasePath == "" {
		return o.FileRoots
	}

	return append([]string{o.BasePath}, o.FileRoots...)
}
