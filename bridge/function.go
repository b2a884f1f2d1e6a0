// Package bridge exposes host.API operations to Risor cartridge code as
// builtin functions, converting guest values to host parameter types and
// host results back to guest values.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/risor-io/risor/object"

	"github.com/risor-io/tic/host"
)

// Category groups operations for registration and documentation.
type Category string

const (
	CategoryDraw   Category = "draw"
	CategoryInput  Category = "input"
	CategoryMemory Category = "memory"
	CategorySound  Category = "sound"
	CategorySystem Category = "system"
)

// Categories lists every category in registration order.
var Categories = []Category{
	CategoryDraw,
	CategoryInput,
	CategoryMemory,
	CategorySound,
	CategorySystem,
}

// CallFunc performs an operation against a host. The argument count has
// already been validated against the function's Arity.
type CallFunc func(ctx context.Context, h host.API, args []object.Object) object.Object

// Function describes one guest-visible operation.
type Function struct {
	Name      string
	Signature string
	Doc       string
	Category  Category
	Arity     Arity
	Call      CallFunc
}

// Resolver returns the host that the calling instance is bound to, or an
// error when that instance has been torn down.
type Resolver func() (host.API, error)

// Table is an immutable, name-sorted set of operations.
type Table struct {
	fns    []Function
	byName map[string]int
}

var (
	ErrEmptyName     = errors.New("function name must not be empty")
	ErrDuplicateName = errors.New("duplicate function name")
	ErrNoCall        = errors.New("function has no implementation")
)

// NewTable validates and indexes the given functions.
func NewTable(fns ...Function) (*Table, error) {
	sorted := make([]Function, len(fns))
	copy(sorted, fns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	t := &Table{fns: sorted, byName: make(map[string]int, len(sorted))}
	for i, fn := range sorted {
		if fn.Name == "" {
			return nil, ErrEmptyName
		}
		if fn.Call == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoCall, fn.Name)
		}
		if _, dup := t.byName[fn.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, fn.Name)
		}
		t.byName[fn.Name] = i
	}
	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table of every console operation.
func Default() *Table {
	defaultOnce.Do(func() {
		var fns []Function
		fns = append(fns, inCategory(CategoryDraw, drawFunctions())...)
		fns = append(fns, inCategory(CategoryInput, inputFunctions())...)
		fns = append(fns, inCategory(CategoryMemory, memoryFunctions())...)
		fns = append(fns, inCategory(CategorySound, soundFunctions())...)
		fns = append(fns, inCategory(CategorySystem, systemFunctions())...)
		t, err := NewTable(fns...)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Len returns the number of functions in the table.
func (t *Table) Len() int {
	return len(t.fns)
}

// Names returns the sorted function names.
func (t *Table) Names() []string {
	names := make([]string, len(t.fns))
	for i, fn := range t.fns {
		names[i] = fn.Name
	}
	return names
}

// Lookup returns the named function.
func (t *Table) Lookup(name string) (Function, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Function{}, false
	}
	return t.fns[i], true
}

// Functions returns a copy of the table's functions, sorted by name.
func (t *Table) Functions() []Function {
	out := make([]Function, len(t.fns))
	copy(out, t.fns)
	return out
}

// ByCategory returns the functions in one category, sorted by name.
func (t *Table) ByCategory(c Category) []Function {
	var out []Function
	for _, fn := range t.fns {
		if fn.Category == c {
			out = append(out, fn)
		}
	}
	return out
}

// Bind creates the Risor builtins for one runtime instance. Each builtin
// checks its arity, then asks resolve for the live host before calling it.
func (t *Table) Bind(resolve Resolver) map[string]any {
	globals := make(map[string]any, len(t.fns))
	for _, fn := range t.fns {
		globals[fn.Name] = object.NewBuiltin(fn.Name, builtin(fn, resolve))
	}
	return globals
}

func builtin(fn Function, resolve Resolver) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) object.Object {
		if err := fn.Arity.Check(fn.Name, args); err != nil {
			return err
		}
		h, err := resolve()
		if err != nil {
			return object.NewError(fmt.Errorf("%s(): %w", fn.Name, err))
		}
		result := fn.Call(ctx, h, args)
		if result == nil {
			return object.Nil
		}
		return result
	}
}
