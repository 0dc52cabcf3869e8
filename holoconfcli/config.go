package holoconfcli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/holoconf"
	"go.jacobcolvin.com/holoconf/schema"
)

// Flags holds CLI flag names for document loading, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Optional string

	SchemaPath string

	BasePath  string
	FileRoots string

	AllowHTTP     string
	HTTPAllowlist string

	HTTPProxy         string
	HTTPProxyFromEnv  string
	HTTPCABundle      string
	HTTPExtraCABundle string
	HTTPClientCert    string
	HTTPClientKey     string
	HTTPInsecure      string

	Redact string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config holds CLI flag values for locating, loading, and rendering a
// [holoconf.Document].
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.Load] to build the document.
type Config struct {
	Flags Flags

	// Optional, if set, treats a missing config file (or a glob matching
	// nothing) as an empty document rather than an error.
	Optional bool

	// SchemaPath, if set, is loaded and attached to the document.
	SchemaPath string

	Options holoconf.ConfigOptions

	// Redact controls whether ToYAML/ToJSON mask sensitive values.
	Redact bool
}

// NewConfig returns a new [Config] with default flag names. Use
// [Config.RegisterFlags] to add CLI flags, or set values directly.
func NewConfig() *Config {
	f := Flags{
		Optional:          "optional",
		SchemaPath:        "schema",
		BasePath:          "base-path",
		FileRoots:         "file-root",
		AllowHTTP:         "allow-http",
		HTTPAllowlist:     "http-allow",
		HTTPProxy:         "http-proxy",
		HTTPProxyFromEnv:  "http-proxy-from-env",
		HTTPCABundle:      "http-ca-bundle",
		HTTPExtraCABundle: "http-extra-ca-bundle",
		HTTPClientCert:    "http-client-cert",
		HTTPClientKey:     "http-client-key",
		HTTPInsecure:      "http-insecure",
		Redact:            "redact",
	}

	return f.NewConfig()
}

// RegisterFlags adds document-loading flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.Optional, c.Flags.Optional, false, "treat a missing config file as empty rather than an error")
	flags.StringVar(&c.SchemaPath, c.Flags.SchemaPath, "", "path to a JSON Schema file to validate against")
	flags.StringVar(&c.Options.BasePath, c.Flags.BasePath, "", "base directory for relative file:// resolver lookups")
	flags.StringArrayVar(&c.Options.FileRoots, c.Flags.FileRoots, nil, "additional allowed directory for the file resolver (repeatable)")
	flags.BoolVar(&c.Options.AllowHTTP, c.Flags.AllowHTTP, false, "allow the http/https resolvers to make network requests")
	flags.StringArrayVar(&c.Options.HTTPAllowlist, c.Flags.HTTPAllowlist, nil, "glob pattern allowed for http/https resolver URLs (repeatable)")
	flags.StringVar(&c.Options.HTTPProxy, c.Flags.HTTPProxy, "", "explicit proxy URL for http/https resolver requests")
	flags.BoolVar(&c.Options.HTTPProxyFromEnv, c.Flags.HTTPProxyFromEnv, false, "use HTTP_PROXY/HTTPS_PROXY/NO_PROXY for resolver requests")
	flags.StringVar(&c.Options.HTTPCABundle, c.Flags.HTTPCABundle, "", "PEM CA bundle replacing the system trust store")
	flags.StringVar(&c.Options.HTTPExtraCABundle, c.Flags.HTTPExtraCABundle, "", "PEM CA bundle appended to the trust store")
	flags.StringVar(&c.Options.HTTPClientCert, c.Flags.HTTPClientCert, "", "PEM client certificate for mTLS")
	flags.StringVar(&c.Options.HTTPClientKey, c.Flags.HTTPClientKey, "", "PEM client key for mTLS")
	flags.BoolVar(&c.Options.HTTPInsecure, c.Flags.HTTPInsecure, false, "disable TLS certificate verification for resolver requests")
	flags.BoolVar(&c.Redact, c.Flags.Redact, true, "redact values resolved from a sensitive source on export")
}

// RegisterCompletions registers shell completions for document-loading
// flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.SchemaPath, cobra.FixedCompletions(nil, cobra.ShellCompDirectiveDefault))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.SchemaPath, err)
	}

	return nil
}

// Load reads path into a [holoconf.Document] using the bound options,
// loading it as optional if the Optional flag was set, and attaching a
// schema if SchemaPath is set.
func (c *Config) Load(path string) (*holoconf.Document, error) {
	var (
		doc *holoconf.Document
		err error
	)

	if c.Optional {
		doc, err = holoconf.OptionalWithOptions(path, c.Options)
	} else {
		doc, err = holoconf.LoadWithOptions(path, c.Options)
	}

	if err != nil {
		return nil, err
	}

	if c.SchemaPath != "" {
		s, err := schema.FromFile(c.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("loading schema %s: %w", c.SchemaPath, err)
		}

		doc.SetSchema(s)
	}

	return doc, nil
}
