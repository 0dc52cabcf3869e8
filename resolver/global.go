package resolver

import "sync"

var (
	globalOnce sync.Once
	globalReg  *Registry
)

// Global returns the process-wide registry, lazily built on first call with
// the built-in resolvers pre-registered. Treat it as a configuration seam,
// not a hidden singleton: extensions register themselves against it during
// process init, and each document snapshots it at construction time via
// [Registry.Snapshot].
func Global() *Registry {
	globalOnce.Do(func() {
		globalReg = NewRegistryWithBuiltins()
	})

	return globalReg
}

// RegisterGlobal registers res on the process-wide registry. Documents
// already built before this call keep behaving exactly as they did before
// it: they hold a snapshot taken at construction, not a live reference.
func RegisterGlobal(res Resolver, force bool) error {
	return Global().Register(res, force)
}
