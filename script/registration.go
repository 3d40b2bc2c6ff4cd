// Package script runs JavaScript on a goja runtime with host functions
// installed from a Registry, including the console helpers backed by a
// jsconsole.Console.
package script

// Registration is a deferred binding registration. Packages that define host
// functions expose values of this type so callers opt in explicitly instead of
// relying on import side-effects (init functions).
//
// For example, in a package "timeop":
//
//	var Now = script.NewBinding("host.now", func() int64 { return time.Now().Unix() })
//
// Usage:
//
//	r, _ := script.NewRegistry(timeop.Now /* , other bindings... */)
//
// This keeps dependencies explicit and avoids global mutation at import time.
type Registration func(r *Registry) error

// NewBinding wraps Register into a Registration closure.
func NewBinding(name string, fn any) Registration {
	return func(r *Registry) error {
		return r.Register(name, fn)
	}
}

// Group groups multiple registrations into one. This allows fluent usage
// without variadic expansion, e.g.:
//
//	script.NewRegistry(script.Group(a, b), c)
func Group(regs ...Registration) Registration {
	return func(r *Registry) error { return Apply(r, regs...) }
}

// Apply applies one or more registrations to an existing registry. Stops at the
// first error and returns it.
func Apply(r *Registry, regs ...Registration) error {
	for _, reg := range regs {
		if err := reg(r); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry constructs a new registry and applies the provided registrations.
func NewRegistry(regs ...Registration) (*Registry, error) {
	r := newRegistry()
	if err := Apply(r, regs...); err != nil {
		return nil, err
	}
	return r, nil
}
