package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"go.jacobcolvin.com/holoconf/value"
)

func newHTTPResolver(scheme string) Resolver {
	name := scheme

	return NewFuncResolver(name, func(args []string, kwargs map[string]string, ctx *Context) (ResolvedValue, error) {
		return resolveHTTP(scheme, args, kwargs, ctx)
	})
}

func resolveHTTP(scheme string, args []string, kwargs map[string]string, ctx *Context) (ResolvedValue, error) {
	if len(args) != 1 || args[0] == "" {
		return ResolvedValue{}, fmt.Errorf("%w: %s resolver takes exactly one url argument", ErrInvalidArgs, scheme)
	}

	if !ctx.HTTP.Allow {
		return ResolvedValue{}, ErrHTTPDisabled
	}

	rawURL, err := normalizeHTTPURL(args[0], scheme)
	if err != nil {
		return ResolvedValue{}, err
	}

	if err := checkHTTPAllowlist(rawURL, ctx.HTTP.Allowlist); err != nil {
		return ResolvedValue{}, err
	}

	opts := ctx.HTTP
	if v, ok := kwargs["insecure"]; ok {
		opts.Insecure = strings.EqualFold(v, "true")
	}

	client, err := httpClientFor(opts)
	if err != nil {
		return ResolvedValue{}, err
	}

	timeout := 30 * time.Second

	if v, ok := kwargs["timeout"]; ok {
		secs, perr := strconv.Atoi(v)
		if perr != nil || secs <= 0 {
			return ResolvedValue{}, fmt.Errorf("%w: invalid timeout %q", ErrInvalidArgs, v)
		}

		timeout = time.Duration(secs) * time.Second
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ResolvedValue{}, fmt.Errorf("%w: %w", ErrHTTPError, err)
	}

	if h, ok := kwargs["header"]; ok {
		applyHeader(req, h)
	}

	resp, err := client.Do(req)
	if err != nil {
		return ResolvedValue{}, fmt.Errorf("%w: %w", ErrHTTPError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResolvedValue{}, fmt.Errorf("%w: reading response body: %w", ErrHTTPError, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ResolvedValue{}, fmt.Errorf("%w: %s returned status %d", ErrHTTPError, rawURL, resp.StatusCode)
	}

	if kwargOr(kwargs, "parse", "text") == "none" {
		return ResolvedValue{Value: value.Bytes(body)}, nil
	}

	return ResolvedValue{Value: value.String(string(body))}, nil
}

// normalizeHTTPURL enforces a single canonical scheme prefix: a bare
// authority-and-path gets scheme:// prepended, and a url already carrying
// the opposite scheme's prefix is an error rather than silently rewritten.
func normalizeHTTPURL(raw, scheme string) (string, error) {
	if raw == "" || strings.HasPrefix(raw, "/") {
		return "", fmt.Errorf("%w: %s url must not be empty or path-only", ErrInvalidArgs, scheme)
	}

	switch {
	case strings.HasPrefix(raw, scheme+"://"):
		return raw, nil
	case strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://"):
		return "", fmt.Errorf("%w: url scheme does not match resolver %q: %s", ErrInvalidArgs, scheme, raw)
	default:
		return scheme + "://" + raw, nil
	}
}

// checkHTTPAllowlist requires rawURL to match at least one glob pattern in
// patterns (matched against the full url string via [path.Match]). An empty
// patterns list allows any url. Patterns containing "**" are rejected since
// path.Match has no concept of a recursive wildcard; "*" only ever matches
// within a single path segment. Patterns that chain ".*.*" are also
// rejected: that shape is how a pattern author would otherwise fake
// cross-segment recursion that path.Match can't express anyway.
func checkHTTPAllowlist(rawURL string, patterns []string) error {
	if len(patterns) == 0 {
		return nil
	}

	if _, err := url.Parse(rawURL); err != nil {
		return fmt.Errorf("%w: %w", ErrHTTPNotAllowed, err)
	}

	for _, pat := range patterns {
		if strings.Contains(pat, "**") || strings.Contains(pat, ".*.*") {
			slog.Warn("holoconf: rejected http allowlist pattern with recursive wildcard", "pattern", pat)

			return fmt.Errorf("%w: allowlist pattern %q uses an unsupported recursive wildcard", ErrInvalidArgs, pat)
		}

		ok, err := path.Match(pat, rawURL)
		if err != nil {
			return fmt.Errorf("%w: bad allowlist pattern %q: %w", ErrInvalidArgs, pat, err)
		}

		if ok {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrHTTPNotAllowed, rawURL)
}

func applyHeader(req *http.Request, spec string) {
	idx := strings.IndexByte(spec, ':')
	if idx < 0 {
		return
	}

	key := strings.TrimSpace(spec[:idx])
	val := strings.TrimSpace(spec[idx+1:])
	req.Header.Set(key, val)
}
