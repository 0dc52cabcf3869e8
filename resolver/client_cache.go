package resolver

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
)

// clientKey identifies the transport configuration an *http.Client was
// built from, so documents sharing the same proxy/TLS settings reuse one
// connection pool instead of dialing fresh per call. Grounded on the
// (service, region, profile) client cache keying pattern used for AWS SDK
// clients elsewhere in the example corpus, generalized to plain HTTP
// transport settings.
type clientKey struct {
	proxy             string
	proxyFromEnv      bool
	caBundle          string
	extraCABundle     string
	clientCert        string
	clientKey         string
	clientKeyPassword string
	insecure          bool
}

var (
	clientCacheMu sync.RWMutex
	clientCache   = map[clientKey]*http.Client{}
)

func httpClientFor(opts HTTPOptions) (*http.Client, error) {
	key := clientKey{
		proxy:             opts.Proxy,
		proxyFromEnv:      opts.ProxyFromEnv,
		caBundle:          opts.CABundle,
		extraCABundle:     opts.ExtraCABundle,
		clientCert:        opts.ClientCert,
		clientKey:         opts.ClientKey,
		clientKeyPassword: opts.ClientKeyPassword,
		insecure:          opts.Insecure,
	}

	clientCacheMu.RLock()
	c, ok := clientCache[key]
	clientCacheMu.RUnlock()

	if ok {
		return c, nil
	}

	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()

	if c, ok := clientCache[key]; ok {
		return c, nil
	}

	c, err := buildHTTPClient(opts)
	if err != nil {
		return nil, err
	}

	clientCache[key] = c

	return c, nil
}

func buildHTTPClient(opts HTTPOptions) (*http.Client, error) {
	tlsConfig, err := buildTLSConfig(opts)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{TLSClientConfig: tlsConfig}

	switch {
	case opts.Proxy != "":
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProxyConfig, err)
		}

		transport.Proxy = http.ProxyURL(proxyURL)
	case opts.ProxyFromEnv:
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{Transport: transport}, nil
}

func buildTLSConfig(opts HTTPOptions) (*tls.Config, error) {
	cfg := &tls.Config{InsecureSkipVerify: opts.Insecure} //nolint:gosec // explicit per-document/per-call opt-in

	if opts.CABundle != "" || opts.ExtraCABundle != "" {
		pool, err := caPool(opts.CABundle, opts.ExtraCABundle)
		if err != nil {
			return nil, err
		}

		cfg.RootCAs = pool
	}

	if opts.ClientCert != "" {
		if opts.ClientKeyPassword != "" {
			return nil, fmt.Errorf("%w: encrypted client keys are not supported", ErrTLSConfig)
		}

		cert, err := tls.LoadX509KeyPair(opts.ClientCert, opts.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("%w: loading client certificate: %w", ErrTLSConfig, err)
		}

		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func caPool(primary, extra string) (*x509.CertPool, error) {
	var pool *x509.CertPool

	if primary != "" {
		pool = x509.NewCertPool()
	} else {
		var err error

		pool, err = x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
	}

	for _, path := range []string{primary, extra} {
		if path == "" {
			continue
		}

		pem, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading ca bundle %s: %w", ErrTLSConfig, path, err)
		}

		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates found in %s", ErrTLSConfig, path)
		}
	}

	return pool, nil
}
