package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/dop251/goja"

	"github.com/calumari/jsconsole"
)

// ScriptError is an uncaught exception thrown by a script. When the thrown
// value carries fileName and lineNumber properties, or the exception's stack
// names a position, the error chain holds a *jsconsole.SourceError, so
// jsconsole.FormatErrorReport can place it.
type ScriptError struct {
	Script  string
	Message string

	exception *goja.Exception
	source    *jsconsole.SourceError
}

func (e *ScriptError) Error() string { return e.Message }

func (e *ScriptError) Unwrap() []error {
	errs := []error{e.exception}
	if e.source != nil {
		errs = append(errs, e.source)
	}
	return errs
}

// Value returns the thrown script value.
func (e *ScriptError) Value() goja.Value {
	return e.exception.Value()
}

func newScriptError(name string, ex *goja.Exception) *ScriptError {
	se := &ScriptError{Script: name, exception: ex}
	thrown := ex.Value()
	obj, ok := thrown.(*goja.Object)
	if !ok {
		se.Message = valueString(thrown)
		if file, line, ok := stackLocation(ex.String()); ok {
			se.locate(file, line)
		}
		return se
	}
	se.Message = property(obj, "message")
	file, line := location(obj)
	if file == undefinedText && line == undefinedText {
		if f, l, ok := stackLocation(ex.String()); ok {
			file, line = f, l
		}
	}
	if file != undefinedText && line != undefinedText {
		se.locate(file, line)
	}
	return se
}

func (e *ScriptError) locate(file, line string) {
	n, err := strconv.Atoi(line)
	if err != nil {
		return
	}
	e.source = &jsconsole.SourceError{File: file, Line: n, Message: e.Message}
}

// Runtime is a goja VM with a fixed set of bindings installed. Scripts run one
// at a time.
type Runtime struct {
	mu sync.Mutex
	vm *goja.Runtime
}

// NewRuntime builds a VM and installs the given registrations on it.
func NewRuntime(regs ...Registration) (*Runtime, error) {
	r, err := NewRegistry(regs...)
	if err != nil {
		return nil, err
	}
	vm := goja.New()
	if err := r.Install(vm); err != nil {
		return nil, err
	}
	return &Runtime{vm: vm}, nil
}

// RunString runs src as a script called name. Cancelling ctx interrupts the
// script; the returned error then wraps ctx.Err(). An uncaught exception is
// returned as a *ScriptError.
func (rt *Runtime) RunString(ctx context.Context, name, src string) (goja.Value, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			rt.vm.Interrupt(ctx.Err())
		case <-stop:
		}
	}()

	v, err := rt.vm.RunScript(name, src)
	close(stop)
	<-stopped
	rt.vm.ClearInterrupt()

	if err != nil {
		return nil, rt.wrap(ctx, name, err)
	}
	return v, nil
}

func (rt *Runtime) wrap(ctx context.Context, name string, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("run %s: %w", name, ctxErr)
		}
		return fmt.Errorf("run %s: %w", name, err)
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return newScriptError(name, ex)
	}
	return fmt.Errorf("run %s: %w", name, err)
}

// RunFile reads and runs the script at path.
func (rt *Runtime) RunFile(ctx context.Context, path string) (goja.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return rt.RunString(ctx, path, string(src))
}
