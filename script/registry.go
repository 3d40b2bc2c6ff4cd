package script

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

type binding struct {
	name string
	fn   any
}

// Registry holds named Go functions to expose to a script runtime. A name is
// either global ("print") or lives on a namespace object ("console.log").
type Registry struct {
	mu       sync.RWMutex
	bindings []binding
	names    map[string]struct{}
}

func newRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

func validateName(name string) error {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return fmt.Errorf("binding %q invalid name (at most one namespace allowed)", name)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("binding %q invalid name (empty part)", name)
		}
	}
	return nil
}

func validateFunc(name string, fn any) error {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return fmt.Errorf("binding %q invalid function (got %T)", name, fn)
	}
	if fnVal.IsNil() {
		return fmt.Errorf("binding %q invalid function (nil %T)", name, fn)
	}
	return nil
}

// Register adds fn under name. fn must be a non-nil Go function; goja converts
// its arguments and results when the script calls it.
func (r *Registry) Register(name string, fn any) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateFunc(name, fn); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[name]; exists {
		return fmt.Errorf("binding %q already registered", name)
	}
	r.names[name] = struct{}{}
	r.bindings = append(r.bindings, binding{name: name, fn: fn})
	return nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.bindings))
	for i, b := range r.bindings {
		out[i] = b.name
	}
	return out
}

// Install sets every binding on vm in registration order. Namespace objects
// are created when missing and extended when already present.
func (r *Registry) Install(vm *goja.Runtime) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bindings {
		ns, name, ok := strings.Cut(b.name, ".")
		if !ok {
			if err := vm.Set(b.name, b.fn); err != nil {
				return fmt.Errorf("install %q: %w", b.name, err)
			}
			continue
		}
		obj, err := namespace(vm, ns)
		if err != nil {
			return fmt.Errorf("install %q: %w", b.name, err)
		}
		if err := obj.Set(name, b.fn); err != nil {
			return fmt.Errorf("install %q: %w", b.name, err)
		}
	}
	return nil
}

func namespace(vm *goja.Runtime, name string) (*goja.Object, error) {
	v := vm.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		obj := vm.NewObject()
		if err := vm.Set(name, obj); err != nil {
			return nil, err
		}
		return obj, nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, fmt.Errorf("namespace %q is not an object", name)
	}
	return obj, nil
}
