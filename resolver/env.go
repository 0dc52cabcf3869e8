package resolver

import (
	"fmt"
	"os"

	"go.jacobcolvin.com/holoconf/value"
)

func newEnvResolver() Resolver {
	return NewFuncResolver("env", resolveEnv)
}

// resolveEnv implements ${env:VAR_NAME} and, per spec S2, the positional
// fallback form ${env:VAR_NAME,fallback}: a second positional arg is used
// as the resolved value when VAR_NAME is unset, rather than erroring. Any
// args beyond the fallback are ignored, matching the Rust original's
// leniency toward extra positional args (it only ever reads args[0]).
func resolveEnv(args []string, _ map[string]string, _ *Context) (ResolvedValue, error) {
	if len(args) == 0 || args[0] == "" {
		return ResolvedValue{}, fmt.Errorf("%w: env resolver requires a variable name", ErrInvalidArgs)
	}

	name := args[0]

	v, ok := os.LookupEnv(name)
	if ok {
		return ResolvedValue{Value: value.String(v)}, nil
	}

	if len(args) > 1 {
		return ResolvedValue{Value: value.String(args[1])}, nil
	}

	return ResolvedValue{}, fmt.Errorf("%w: %s", ErrEnvNotFound, name)
}
