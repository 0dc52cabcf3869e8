package holoconf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"go.jacobcolvin.com/holoconf/resolver"
	"go.jacobcolvin.com/holoconf/schema"
	"go.jacobcolvin.com/holoconf/value"
)

type resolvedEntry struct {
	value     *value.Value
	sensitive bool
}

// Document is the main configuration container: a raw value tree, a
// resolution cache, a source map, a snapshot of the resolver registry, and
// an optional attached schema. Safe for concurrent readers; mutating
// methods (Merge, SetSchema, RegisterResolver) take a short-lived lock.
type Document struct {
	mu        sync.RWMutex
	raw       *value.Value
	sourceMap map[string]string
	resolvers *resolver.Registry
	options   ConfigOptions
	schema    *schema.Schema

	cacheMu sync.RWMutex
	cache   map[string]resolvedEntry
}

// New builds a Document from an already-decoded value tree, using the
// resolvers registered on [resolver.Global] at the time of this call.
func New(v *value.Value) *Document {
	return NewWithOptions(v, ConfigOptions{})
}

// NewWithOptions builds a Document from v with custom load options.
func NewWithOptions(v *value.Value, options ConfigOptions) *Document {
	return newDocument(v, options, nil)
}

func newDocument(v *value.Value, options ConfigOptions, sourceMap map[string]string) *Document {
	if v == nil {
		v = value.NewMapping(nil)
	}

	return &Document{
		raw:       v,
		sourceMap: sourceMap,
		resolvers: resolver.Global().Snapshot(),
		options:   options,
		cache:     make(map[string]resolvedEntry),
	}
}

// FromYAML decodes a YAML document string into a Document.
func FromYAML(data []byte) (*Document, error) {
	return FromYAMLWithOptions(data, ConfigOptions{})
}

// FromYAMLWithOptions decodes a YAML document string into a Document with
// custom load options.
func FromYAMLWithOptions(data []byte, options ConfigOptions) (*Document, error) {
	v, err := decodeYAML(data)
	if err != nil {
		return nil, err
	}

	return newDocument(v, options, nil), nil
}

// FromJSON decodes a JSON document string into a Document.
func FromJSON(data []byte) (*Document, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}

	return newDocument(v, ConfigOptions{}, nil), nil
}

// Load reads path as a required configuration file. path may be a glob
// pattern (e.g. "config/*.yaml" or "config/**/*.yaml"); matches are sorted
// alphabetically and merged in order, later files overriding earlier ones.
func Load(path string) (*Document, error) {
	return LoadWithOptions(path, ConfigOptions{})
}

// LoadWithOptions reads path as a required configuration file with custom
// load options. See [Load] for glob behavior.
func LoadWithOptions(path string, options ConfigOptions) (*Document, error) {
	if isGlobPattern(path) {
		paths, err := expandGlob(path)
		if err != nil {
			return nil, err
		}

		if len(paths) == 0 {
			return nil, newError(ErrorKindIO, "", "check the glob pattern matches at least one file",
				fmt.Errorf("%w: no files matched glob pattern %q", resolver.ErrFileNotFound, path))
		}

		return loadAndMergeAll(paths, options)
	}

	return loadFile(path, options)
}

// Optional reads path as an optional configuration file: a missing file (or
// a glob matching nothing) yields an empty Document rather than an error.
func Optional(path string) (*Document, error) {
	return OptionalWithOptions(path, ConfigOptions{})
}

// OptionalWithOptions is [Optional] with custom load options.
func OptionalWithOptions(path string, options ConfigOptions) (*Document, error) {
	if isGlobPattern(path) {
		paths, err := expandGlob(path)
		if err != nil {
			return nil, err
		}

		if len(paths) == 0 {
			return newDocument(value.NewMapping(nil), options, nil), nil
		}

		return loadAndMergeAll(paths, options)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newDocument(value.NewMapping(nil), options, nil), nil
		}

		return nil, errIO(err)
	}

	return documentFromFile(path, data, options)
}

func loadFile(path string, options ConfigOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(ErrorKindIO, "", "check that the file exists",
				fmt.Errorf("%w: %s", resolver.ErrFileNotFound, path))
		}

		return nil, errIO(err)
	}

	return documentFromFile(path, data, options)
}

func documentFromFile(path string, data []byte, options ConfigOptions) (*Document, error) {
	v, err := decodeByExtension(path, data)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	sourceMap := make(map[string]string)
	collectLeafPaths(v, "", filename, sourceMap)

	if options.BasePath == "" {
		options.BasePath = filepath.Dir(path)
	}

	return newDocument(v, options, sourceMap), nil
}

func decodeByExtension(path string, data []byte) (*value.Value, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return decodeJSON(data)
	}

	return decodeYAML(data)
}

func loadAndMergeAll(paths []string, options ConfigOptions) (*Document, error) {
	doc, err := loadFile(paths[0], options)
	if err != nil {
		return nil, err
	}

	for _, p := range paths[1:] {
		other, err := loadFile(p, options)
		if err != nil {
			return nil, err
		}

		doc.Merge(other)
	}

	return doc, nil
}

func isGlobPattern(path string) bool {
	return strings.ContainsAny(path, "*?[")
}

func expandGlob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errParse(fmt.Errorf("invalid glob pattern %q: %w", pattern, err))
	}

	sort.Strings(matches)

	return matches, nil
}

// collectLeafPaths walks v recording filename as the source of every leaf
// (scalar) path reached, dotted-path style, matching the path form used by
// Get/GetRaw.
func collectLeafPaths(v *value.Value, prefix, filename string, out map[string]string) {
	switch v.Kind() {
	case value.KindMapping:
		m, _ := v.AsMapping()
		m.Range(func(key string, val *value.Value) bool {
			childPath := key
			if prefix != "" {
				childPath = prefix + "." + key
			}

			collectLeafPaths(val, childPath, filename, out)

			return true
		})
	case value.KindSequence:
		items, _ := v.AsSequence()
		for i, item := range items {
			collectLeafPaths(item, fmt.Sprintf("%s[%d]", prefix, i), filename, out)
		}
	default:
		if prefix != "" {
			out[prefix] = filename
		}
	}
}

// Clone returns a copy of d sharing the same raw value tree (immutable
// from the consumer's perspective, so safe to share) but with its own,
// empty resolution cache: resolving a path on the clone never observes
// cache entries computed by d or vice versa. The clone gets its own copy
// of the source map and a fresh snapshot of d's resolver registry, so
// registering a resolver on one does not affect the other; options and
// the attached schema are shared by reference.
func (d *Document) Clone() *Document {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sourceMap := make(map[string]string, len(d.sourceMap))
	for k, v := range d.sourceMap {
		sourceMap[k] = v
	}

	return &Document{
		raw:       d.raw,
		sourceMap: sourceMap,
		resolvers: d.resolvers.Snapshot(),
		options:   d.options,
		schema:    d.schema,
		cache:     make(map[string]resolvedEntry),
	}
}

// Merge deep-merges other into d: other's values override d's per the
// value package's merge semantics (null removes a key; sequences replace
// wholesale). Clears d's resolution cache.
func (d *Document) Merge(other *Document) {
	d.mu.Lock()
	other.mu.RLock()
	d.raw = value.Merge(d.raw, other.raw)

	for k, v := range other.sourceMap {
		if d.sourceMap == nil {
			d.sourceMap = make(map[string]string)
		}

		d.sourceMap[k] = v
	}

	other.mu.RUnlock()
	d.mu.Unlock()

	d.ClearCache()
}

// SetSchema attaches schema for default-value lookup: Get on a missing or
// disallowed-null path returns the schema default instead of failing.
// Clears d's resolution cache.
func (d *Document) SetSchema(s *schema.Schema) {
	d.mu.Lock()
	d.schema = s
	d.mu.Unlock()

	d.ClearCache()
}

// Schema returns the attached schema, if any.
func (d *Document) Schema() *schema.Schema {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.schema
}

// RegisterResolver adds res to d's own resolver registry (the snapshot
// taken from the global registry at construction). If a resolver of the
// same name, built-in or not, is already registered, res replaces it when
// force is true; otherwise the registry's already-registered error is
// returned.
func (d *Document) RegisterResolver(res resolver.Resolver, force bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.resolvers.Register(res, force)
}

// ClearCache discards every cached resolution. Subsequent Get calls
// re-resolve from the raw tree.
func (d *Document) ClearCache() {
	d.cacheMu.Lock()
	d.cache = make(map[string]resolvedEntry)
	d.cacheMu.Unlock()
}

// GetSource returns the filename that supplied path's value, if known.
func (d *Document) GetSource(path string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	src, ok := d.sourceMap[path]

	return src, ok
}

// DumpSources returns a copy of the full path -> source-filename map.
func (d *Document) DumpSources() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]string, len(d.sourceMap))
	for k, v := range d.sourceMap {
		out[k] = v
	}

	return out
}

// GetRaw returns the unresolved value at path.
func (d *Document) GetRaw(path string) (*value.Value, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, err := value.ParsePath(path)
	if err != nil {
		return nil, errParse(err)
	}

	v, ok := d.raw.GetPath(p)
	if !ok {
		return nil, errPathNotFound(path)
	}

	return v, nil
}

// Get resolves and returns the value at path: cache-first, falling back to
// the attached schema's default when the path is absent from the raw tree
// or resolves to null where the schema disallows it, then caching the
// result.
func (d *Document) Get(path string) (*value.Value, error) {
	entry, ok := d.cacheGet(path)
	if ok {
		return entry.value, nil
	}

	d.mu.RLock()
	p, perr := value.ParsePath(path)

	var (
		raw   *value.Value
		found bool
	)

	if perr == nil {
		raw, found = d.raw.GetPath(p)
	}

	sch := d.schema
	d.mu.RUnlock()

	if perr != nil {
		return nil, errParse(perr)
	}

	if !found {
		if sch != nil {
			if def, ok := sch.GetDefault(p); ok {
				d.cachePut(path, def, false)

				return def, nil
			}
		}

		return nil, errPathNotFound(path)
	}

	ctx := d.baseContext(path)

	resolved, sensitive, err := d.resolveAt(path, raw, ctx)
	if err != nil {
		return nil, err
	}

	if resolved.IsNull() && sch != nil && !sch.AllowsNull(p) {
		if def, ok := sch.GetDefault(p); ok {
			d.cachePut(path, def, false)

			return def, nil
		}
	}

	d.cachePut(path, resolved, sensitive)

	return resolved, nil
}

func (d *Document) cacheGet(path string) (resolvedEntry, bool) {
	d.cacheMu.RLock()
	defer d.cacheMu.RUnlock()

	e, ok := d.cache[path]

	return e, ok
}

func (d *Document) cachePut(path string, v *value.Value, sensitive bool) {
	d.cacheMu.Lock()
	d.cache[path] = resolvedEntry{value: v, sensitive: sensitive}
	d.cacheMu.Unlock()

	slog.Debug("holoconf: cache populated", "path", path, "sensitive", sensitive)
}

// GetString resolves path and coerces the result to a string via its
// display form. Returns a type-coercion error for mapping/sequence values.
func (d *Document) GetString(path string) (string, error) {
	v, err := d.Get(path)
	if err != nil {
		return "", err
	}

	if !v.IsScalar() {
		return "", errTypeCoercion(path, "string", v.TypeName())
	}

	return v.Display(), nil
}

// GetI64 resolves path and coerces the result to an int64. Integers pass
// through exactly; strings are parsed with strconv, rejecting any trailing
// garbage; every other type (including float, to avoid silent truncation)
// is a type-coercion error.
func (d *Document) GetI64(path string) (int64, error) {
	v, err := d.Get(path)
	if err != nil {
		return 0, err
	}

	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()

		return i, nil
	case value.KindString:
		s, _ := v.AsString()

		if i, perr := strconv.ParseInt(s, 10, 64); perr == nil {
			return i, nil
		}
	}

	return 0, errTypeCoercion(path, "i64", v.TypeName())
}

// GetF64 resolves path and coerces the result to a float64: floats pass
// through, integers widen exactly, strings are parsed strictly.
func (d *Document) GetF64(path string) (float64, error) {
	v, err := d.Get(path)
	if err != nil {
		return 0, err
	}

	switch v.Kind() {
	case value.KindFloat:
		f, _ := v.AsFloat()

		return f, nil
	case value.KindInt:
		i, _ := v.AsInt()

		return float64(i), nil
	case value.KindString:
		s, _ := v.AsString()

		if f, perr := strconv.ParseFloat(s, 64); perr == nil {
			return f, nil
		}
	}

	return 0, errTypeCoercion(path, "f64", v.TypeName())
}

// GetBool resolves path and coerces the result to a bool. Only the exact
// strings "true"/"false" (case-insensitive) are accepted from a string
// value; every other scalar string ("1", "yes", "on", ...) is a
// type-coercion error per spec.
func (d *Document) GetBool(path string) (bool, error) {
	v, err := d.Get(path)
	if err != nil {
		return false, err
	}

	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()

		return b, nil
	case value.KindString:
		s, _ := v.AsString()

		switch {
		case strings.EqualFold(s, "true"):
			return true, nil
		case strings.EqualFold(s, "false"):
			return false, nil
		}
	}

	return false, errTypeCoercion(path, "bool", v.TypeName())
}

// ResolveAll eagerly resolves every interpolation in the document,
// surfacing the first error encountered (unresolved references, cycles,
// resolver failures) rather than deferring it to a later Get call. The
// results are not kept: on success the resolution cache is emptied, so a
// later Get resolves its path again.
func (d *Document) ResolveAll() error {
	_, err := d.resolveWholeTree()

	return err
}

func (d *Document) resolveWholeTree() (*value.Value, error) {
	d.mu.RLock()
	raw := d.raw
	d.mu.RUnlock()

	ctx := d.baseContext("")

	resolved, _, err := d.resolveAt("", raw, ctx)
	if err != nil {
		return nil, err
	}

	d.cacheMu.Lock()
	d.cache = make(map[string]resolvedEntry)
	d.cacheMu.Unlock()

	return resolved, nil
}

// ToValue returns the fully resolved document tree. If redact is true,
// every value reached through a resolver call (or a concatenation or
// self-reference touching one) marked sensitive is replaced with the
// literal string "[REDACTED]".
func (d *Document) ToValue(redact bool) (*value.Value, error) {
	ctx := d.baseContext("")

	d.mu.RLock()
	raw := d.raw
	d.mu.RUnlock()

	return d.exportValue("", raw, ctx, redact)
}

func (d *Document) exportValue(pathStr string, v *value.Value, ctx *resolver.Context, redact bool) (*value.Value, error) {
	resolved, sensitive, err := d.resolveAt(pathStr, v, ctx)
	if err != nil {
		return nil, err
	}

	if redact && sensitive {
		return value.String("[REDACTED]"), nil
	}

	return resolved, nil
}

// ToYAML resolves the document and renders it as YAML, preserving the
// original key order.
func (d *Document) ToYAML(redact bool) ([]byte, error) {
	v, err := d.ToValue(redact)
	if err != nil {
		return nil, err
	}

	return encodeYAML(v)
}

// ToJSON resolves the document and renders it as pretty-printed JSON,
// preserving the original key order.
func (d *Document) ToJSON(redact bool) ([]byte, error) {
	v, err := d.ToValue(redact)
	if err != nil {
		return nil, err
	}

	return encodeJSON(v)
}

// resolveSchema returns an explicit schema if given, else d's attached
// schema, else a no-schema error.
func (d *Document) resolveSchema(explicit *schema.Schema) (*schema.Schema, error) {
	if explicit != nil {
		return explicit, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.schema == nil {
		return nil, errNoSchema()
	}

	return d.schema, nil
}

// ValidateRaw validates the document's unresolved raw tree against s (or
// the attached schema if s is nil), without resolving any interpolation.
func (d *Document) ValidateRaw(s *schema.Schema) error {
	sch, err := d.resolveSchema(s)
	if err != nil {
		return err
	}

	d.mu.RLock()
	raw := d.raw
	d.mu.RUnlock()

	if err := sch.Validate(raw); err != nil {
		return errValidation(err)
	}

	return nil
}

// Validate resolves the document and validates the result against s (or
// the attached schema if s is nil), stopping at the first violation.
func (d *Document) Validate(s *schema.Schema) error {
	sch, err := d.resolveSchema(s)
	if err != nil {
		return err
	}

	resolved, err := d.resolveWholeTree()
	if err != nil {
		return err
	}

	if err := sch.Validate(resolved); err != nil {
		return errValidation(err)
	}

	return nil
}

// ValidateCollect resolves the document and validates it against s (or the
// attached schema if s is nil), returning every violation rather than
// stopping at the first.
func (d *Document) ValidateCollect(s *schema.Schema) ([]schema.ValidationError, error) {
	sch, err := d.resolveSchema(s)
	if err != nil {
		return nil, err
	}

	resolved, err := d.resolveWholeTree()
	if err != nil {
		return nil, err
	}

	return sch.ValidateCollect(resolved), nil
}
