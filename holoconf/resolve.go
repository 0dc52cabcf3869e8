package holoconf

import (
	"fmt"
	"log/slog"
	"strings"

	"go.jacobcolvin.com/holoconf/interp"
	"go.jacobcolvin.com/holoconf/resolver"
	"go.jacobcolvin.com/holoconf/value"
)

// baseContext builds the resolver.Context a top-level resolution of path
// starts from: an empty resolution stack, scoped to d's snapshot registry
// and sandbox settings.
func (d *Document) baseContext(pathStr string) *resolver.Context {
	return &resolver.Context{
		ConfigPath: pathStr,
		Root:       d.raw,
		BasePath:   d.options.BasePath,
		FileRoots:  d.options.fileRoots(),
		HTTP:       d.options.httpOptions(),
	}
}

// resolveAt resolves v, the raw value found at pathStr, into its final
// form: string values are parsed and interpolated, mappings and sequences
// are walked recursively so every leaf beneath pathStr is resolved too.
// Detects self-reference cycles via ctx's resolution stack.
func (d *Document) resolveAt(pathStr string, v *value.Value, ctx *resolver.Context) (*value.Value, bool, error) {
	if ctx.WouldCauseCycle(pathStr) {
		return nil, false, errCircularReference(pathStr, append(append([]string(nil), ctx.ResolutionStack...), pathStr))
	}

	childCtx := ctx.Pushed(pathStr).WithPath(pathStr)

	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		if !interp.NeedsProcessing(s) {
			return v, false, nil
		}

		node, err := interp.Parse(s)
		if err != nil {
			return nil, false, errParse(err)
		}

		rv, err := d.resolveNode(node, childCtx)
		if err != nil {
			return nil, false, err
		}

		return rv.Value, rv.Sensitive, nil
	case value.KindMapping:
		m, _ := v.AsMapping()
		out := value.NewOrderedMapping()
		sensitive := false

		keys := m.Keys()
		for _, key := range keys {
			child, _ := m.Get(key)

			childPathStr := key
			if pathStr != "" {
				childPathStr = pathStr + "." + key
			}

			rv, sens, err := d.resolveAt(childPathStr, child, childCtx)
			if err != nil {
				return nil, false, err
			}

			out.Set(key, rv)

			if sens {
				sensitive = true
			}
		}

		return value.NewMapping(out), sensitive, nil
	case value.KindSequence:
		items, _ := v.AsSequence()
		out := make([]*value.Value, len(items))
		sensitive := false

		for i, item := range items {
			childPathStr := fmt.Sprintf("%s[%d]", pathStr, i)

			rv, sens, err := d.resolveAt(childPathStr, item, childCtx)
			if err != nil {
				return nil, false, err
			}

			out[i] = rv

			if sens {
				sensitive = true
			}
		}

		return value.NewSequence(out), sensitive, nil
	default:
		return v, false, nil
	}
}

// resolveNode evaluates one interpolation AST node under ctx.
func (d *Document) resolveNode(node interp.Node, ctx *resolver.Context) (resolver.ResolvedValue, error) {
	switch n := node.(type) {
	case interp.Literal:
		return resolver.ResolvedValue{Value: value.String(string(n))}, nil
	case *interp.Resolver:
		return d.resolveResolverCall(n, ctx)
	case *interp.SelfRef:
		return d.resolveSelfRef(n, ctx)
	case *interp.Concat:
		return d.resolveConcat(n, ctx)
	default:
		return resolver.ResolvedValue{}, fmt.Errorf("%w: unknown interpolation node %T", ErrParse, node)
	}
}

func (d *Document) resolveNodeToString(node interp.Node, ctx *resolver.Context) (string, error) {
	rv, err := d.resolveNode(node, ctx)
	if err != nil {
		return "", err
	}

	return rv.Value.Display(), nil
}

func (d *Document) resolveResolverCall(n *interp.Resolver, ctx *resolver.Context) (resolver.ResolvedValue, error) {
	args := make([]string, 0, len(n.Args))

	for _, a := range n.Args {
		s, err := d.resolveNodeToString(a, ctx)
		if err != nil {
			return resolver.ResolvedValue{}, err
		}

		args = append(args, s)
	}

	kwargs := make(map[string]string, len(n.Kwargs))

	var (
		defaultNode interp.Node
		hasDefault  bool
	)

	for _, kw := range n.Kwargs {
		if kw.Key == "default" {
			defaultNode = kw.Value
			hasDefault = true

			continue
		}

		s, err := d.resolveNodeToString(kw.Value, ctx)
		if err != nil {
			return resolver.ResolvedValue{}, err
		}

		kwargs[kw.Key] = s
	}

	d.mu.RLock()
	reg := d.resolvers
	d.mu.RUnlock()

	rv, err := reg.Resolve(n.Name, args, kwargs, ctx)
	if err != nil {
		if hasDefault && resolver.IsNotFoundClass(err) {
			defRV, derr := d.resolveNode(defaultNode, ctx)
			if derr != nil {
				return resolver.ResolvedValue{}, derr
			}

			if sens, ok := kwargs["sensitive"]; ok {
				defRV.Sensitive = strings.EqualFold(sens, "true")
			}

			return defRV, nil
		}

		return resolver.ResolvedValue{}, errResolver(ctx.ConfigPath, err)
	}

	return rv, nil
}

func (d *Document) resolveSelfRef(n *interp.SelfRef, ctx *resolver.Context) (resolver.ResolvedValue, error) {
	targetPath, err := selfRefTargetPath(ctx.ConfigPath, n)
	if err != nil {
		return resolver.ResolvedValue{}, errParse(err)
	}

	targetPathStr := targetPath.String()

	if ctx.WouldCauseCycle(targetPathStr) {
		return resolver.ResolvedValue{}, errCircularReference(targetPathStr, append(append([]string(nil), ctx.ResolutionStack...), targetPathStr))
	}

	v, ok := ctx.Root.GetPath(targetPath)
	if !ok {
		return resolver.ResolvedValue{}, fmt.Errorf("%w: self-reference %q", resolver.ErrNotFound, targetPathStr)
	}

	resolved, sensitive, err := d.resolveAt(targetPathStr, v, ctx)
	if err != nil {
		return resolver.ResolvedValue{}, err
	}

	return resolver.ResolvedValue{Value: resolved, Sensitive: sensitive}, nil
}

// selfRefTargetPath computes the absolute path a self-reference addresses:
// ref.Up leading dots pop that many trailing segments off the current
// path (zero dots means an absolute reference from the document root, so
// the current path contributes nothing), then ref.Path is appended.
func selfRefTargetPath(currentPathStr string, ref *interp.SelfRef) (value.Path, error) {
	if ref.Up == 0 {
		return append(value.Path{}, ref.Path...), nil
	}

	cur, err := value.ParsePath(currentPathStr)
	if err != nil {
		return nil, err
	}

	drop := ref.Up
	if drop > len(cur) {
		drop = len(cur)
	}

	base := cur[:len(cur)-drop]
	out := make(value.Path, 0, len(base)+len(ref.Path))
	out = append(out, base...)
	out = append(out, ref.Path...)

	return out, nil
}

func (d *Document) resolveConcat(n *interp.Concat, ctx *resolver.Context) (resolver.ResolvedValue, error) {
	var sb strings.Builder

	sensitive := false

	for _, part := range n.Parts {
		rv, err := d.resolveNode(part, ctx)
		if err != nil {
			return resolver.ResolvedValue{}, err
		}

		sb.WriteString(rv.Value.Display())

		if rv.Sensitive {
			sensitive = true
		}
	}

	return resolver.ResolvedValue{Value: value.String(sb.String()), Sensitive: sensitive}, nil
}
