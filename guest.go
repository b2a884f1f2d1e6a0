package tic

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/ast"
	"github.com/risor-io/risor/compiler"
	"github.com/risor-io/risor/object"
	"github.com/risor-io/risor/parser"
	"github.com/risor-io/risor/vm"
)

var errNotCallable = errors.New("not callable")

// guest provides stateful execution of cartridge code. Every evaluation is
// compiled into the same main code object, so functions from earlier
// evaluations and the globals they read share one namespace. Each run gets a
// fresh VM seeded with the current global values, so functions loaded by
// earlier runs and the new code bind to the same globals array.
type guest struct {
	compiler *compiler.Compiler
	machine  *vm.VirtualMachine
	globals  map[string]any
}

// guestGlobals assembles the namespace of a new instance: Risor defaults,
// then console operations, then caller supplied values.
func guestGlobals(cfg *config, operations map[string]any) map[string]any {
	globals := map[string]any{}
	if !cfg.withoutDefaultGlobals {
		for name, value := range risor.NewConfig().Globals() {
			if !cfg.denylist[name] {
				globals[name] = value
			}
		}
	}
	maps.Copy(globals, operations)
	maps.Copy(globals, cfg.globals)
	return globals
}

func newGuest(globals map[string]any) (*guest, error) {
	names := slices.Sorted(maps.Keys(globals))
	c, err := compiler.New(compiler.WithGlobalNames(names))
	if err != nil {
		return nil, err
	}
	return &guest{compiler: c, globals: maps.Clone(globals)}, nil
}

// eval compiles and runs source in the instance's global namespace. Source
// that does not compile leaves the namespace untouched.
func (g *guest) eval(ctx context.Context, source string) (result object.Object, err error) {
	node, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := g.check(ctx, node); err != nil {
		return nil, err
	}
	start := g.compiler.Code().InstructionCount()
	code, err := g.compiler.Compile(node)
	if err != nil {
		return nil, err
	}
	g.capture()
	machine, err := newMachine(code, start, g.globals)
	if err != nil {
		return nil, err
	}
	g.machine = machine
	if err := machine.Run(ctx); err != nil {
		return nil, err
	}
	if tos, ok := machine.TOS(); ok {
		if errObj, isErr := tos.(*object.Error); isErr && errObj.IsRaised() {
			return nil, errObj.Value()
		}
		return tos, nil
	}
	return object.Nil, nil
}

// check compiles node against a scratch copy of the global symbols. The
// compiler keeps the symbols it declared before an error, so source is only
// compiled into the instance once it is known to succeed.
func (g *guest) check(ctx context.Context, node *ast.Program) error {
	main := g.compiler.Code()
	var names []string
	var consts strings.Builder
	for i := 0; i < main.GlobalsCount(); i++ {
		sym := main.Global(i)
		if sym.IsConstant() {
			fmt.Fprintf(&consts, "const %s = nil\n", sym.Name())
		} else {
			names = append(names, sym.Name())
		}
	}
	scratch, err := compiler.New(compiler.WithGlobalNames(names))
	if err != nil {
		return err
	}
	if consts.Len() > 0 {
		prelude, err := parser.Parse(ctx, consts.String())
		if err != nil {
			return err
		}
		if _, err := scratch.Compile(prelude); err != nil {
			return err
		}
	}
	_, err = scratch.Compile(node)
	return err
}

// capture copies the current global values out of the last VM, including
// writes made by callbacks since the previous evaluation.
func (g *guest) capture() {
	if g.machine == nil {
		return
	}
	for _, name := range g.machine.GlobalNames() {
		if obj, err := g.machine.Get(name); err == nil && obj != nil {
			g.globals[name] = obj
		}
	}
}

func newMachine(code *compiler.Code, start int, globals map[string]any) (machine *vm.VirtualMachine, err error) {
	// vm.New panics when a global cannot be converted to a Risor object.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid global: %v", r)
		}
	}()
	return vm.New(code, vm.WithGlobals(globals), vm.WithInstructionOffset(start)), nil
}

// lookup resolves a global by name. Unset and nil globals are not found.
func (g *guest) lookup(name string) (object.Object, bool) {
	if g == nil || g.machine == nil {
		return nil, false
	}
	obj, err := g.machine.Get(name)
	if err != nil || obj == nil || obj == object.Nil {
		return nil, false
	}
	return obj, true
}

// call invokes fn in protected mode. Raised errors and VM panics come back
// as errors.
func (g *guest) call(ctx context.Context, fn object.Object, args []object.Object) (result object.Object, err error) {
	switch fn := fn.(type) {
	case *object.Function:
		result, err = g.machine.Call(ctx, fn, args)
	case object.Callable:
		result, err = callBuiltin(ctx, fn, args)
	default:
		return nil, errNotCallable
	}
	if err != nil {
		return nil, err
	}
	if errObj, ok := result.(*object.Error); ok && errObj.IsRaised() {
		return nil, errObj.Value()
	}
	if result == nil {
		result = object.Nil
	}
	return result, nil
}

func callBuiltin(ctx context.Context, fn object.Callable, args []object.Object) (result object.Object, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn.Call(ctx, args...), nil
}

func callable(obj object.Object) bool {
	switch obj.(type) {
	case *object.Function, object.Callable:
		return true
	}
	return false
}
