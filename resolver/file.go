package resolver

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.jacobcolvin.com/holoconf/value"
)

func newFileResolver() Resolver {
	return NewFuncResolver("file", resolveFile)
}

func resolveFile(args []string, kwargs map[string]string, ctx *Context) (ResolvedValue, error) {
	if len(args) != 1 {
		return ResolvedValue{}, fmt.Errorf("%w: file resolver takes exactly one path argument", ErrInvalidArgs)
	}

	raw := args[0]

	path, err := normalizeFilePath(raw, ctx.BasePath)
	if err != nil {
		return ResolvedValue{}, err
	}

	if err := checkFileSandbox(path, ctx.FileRoots); err != nil {
		return ResolvedValue{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ResolvedValue{}, fmt.Errorf("%w: %s", ErrFileNotFound, raw)
		}

		return ResolvedValue{}, fmt.Errorf("resolver: reading %s: %w", raw, err)
	}

	parseMode := kwargOr(kwargs, "parse", "text")
	encoding := kwargOr(kwargs, "encoding", "utf-8")

	if parseMode == "none" || encoding == "binary" {
		return ResolvedValue{Value: value.Bytes(data)}, nil
	}

	switch encoding {
	case "utf-8", "":
		return ResolvedValue{Value: value.String(string(data))}, nil
	case "ascii":
		for i := 0; i < len(data); i++ {
			if data[i] > 127 {
				return ResolvedValue{}, fmt.Errorf("%w: file %s is not valid ascii", ErrInvalidArgs, raw)
			}
		}

		return ResolvedValue{Value: value.String(string(data))}, nil
	case "base64":
		return ResolvedValue{Value: value.String(base64.StdEncoding.EncodeToString(data))}, nil
	default:
		return ResolvedValue{}, fmt.Errorf("%w: unknown encoding %q", ErrInvalidArgs, encoding)
	}
}

// normalizeFilePath turns a file resolver argument into a filesystem path,
// handling RFC 8089 file URI forms in addition to plain relative/absolute
// paths:
//
//	relative/path       -> joined with basePath
//	/abs/path           -> used as-is
//	file:/abs/path      -> used as-is
//	file:///abs/path    -> used as-is
//	file://localhost/abs -> used as-is
//	file://otherhost/abs -> rejected (remote hosts are not supported)
func normalizeFilePath(raw, basePath string) (string, error) {
	if strings.Contains(raw, "\x00") {
		return "", fmt.Errorf("%w: path contains a null byte", ErrInvalidArgs)
	}

	switch {
	case strings.HasPrefix(raw, "file://"):
		rest := strings.TrimPrefix(raw, "file://")

		if strings.HasPrefix(rest, "/") {
			return filepath.Clean(rest), nil
		}

		idx := strings.IndexByte(rest, '/')
		if idx < 0 {
			return "", fmt.Errorf("%w: malformed file URI %q", ErrInvalidArgs, raw)
		}

		host, p := rest[:idx], rest[idx:]
		if host != "localhost" && host != "" {
			return "", fmt.Errorf("%w: remote file host %q is not supported", ErrInvalidArgs, host)
		}

		return filepath.Clean(p), nil
	case strings.HasPrefix(raw, "file:"):
		rest := strings.TrimPrefix(raw, "file:")
		if !strings.HasPrefix(rest, "/") {
			return "", fmt.Errorf("%w: malformed file URI %q", ErrInvalidArgs, raw)
		}

		return filepath.Clean(rest), nil
	case strings.HasPrefix(raw, "/"):
		return filepath.Clean(raw), nil
	default:
		return filepath.Clean(filepath.Join(basePath, raw)), nil
	}
}

// checkFileSandbox enforces deny-by-default file access: an empty roots
// slice denies everything, and any non-empty roots slice requires path to
// canonicalize (symlinks resolved) to a descendant of at least one
// canonicalized root.
func checkFileSandbox(path string, roots []string) error {
	if len(roots) == 0 {
		return fmt.Errorf("%w: no allowed roots configured", ErrFileSandbox)
	}

	real := canonicalize(path)

	for _, root := range roots {
		if isDescendant(real, canonicalize(root)) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrFileSandbox, path)
}

func canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}

	return abs
}

func isDescendant(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
