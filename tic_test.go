package tic

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/risor-io/risor/object"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/tic/host"
	"github.com/risor-io/tic/host/hosttest"
)

func newRuntime(t *testing.T, opts ...Option) (*Runtime, *hosttest.Recorder) {
	t.Helper()
	rec := hosttest.New()
	rt := New(rec, opts...)
	t.Cleanup(func() { rt.Close() })
	return rt, rec
}

// failOnce returns a builtin that raises an error on its first call only.
func failOnce(message string) *object.Builtin {
	calls := 0
	return object.NewBuiltin("fail", func(ctx context.Context, args ...object.Object) object.Object {
		calls++
		if calls == 1 {
			return object.Errorf("%s", message)
		}
		return object.Nil
	})
}

func TestInitializeAndTick(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.Equal(t, StateUninitialized, rt.State())

	require.NoError(t, rt.Initialize(ctx, `
func TIC() {
	cls(3)
	return 3
}
`))
	require.Equal(t, StateReady, rt.State())
	require.NotEqual(t, "00000000-0000-0000-0000-000000000000", rt.InstanceID().String())

	out := rt.Tick(ctx)
	require.True(t, out.OK())
	require.True(t, out.Found)
	require.Equal(t, object.NewInt(3), out.Value)
	require.Equal(t, []string{"cls"}, rec.Names())
	require.Equal(t, []any{uint8(3)}, rec.Last().Args)
	require.Empty(t, rec.Errors)
}

func TestTeardownIsolation(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)

	require.NoError(t, rt.Initialize(ctx, `
secret := 42
func TIC() {}
`))
	first := rt.InstanceID()

	err := rt.Initialize(ctx, `func TIC() { cls(secret) }`)
	require.Error(t, err)
	require.NotEqual(t, first, rt.InstanceID())
	require.Len(t, rec.Errors, 1)
	require.Contains(t, rec.Errors[0], "secret")
	require.Equal(t, 1, LiveInstances())
}

func TestInitializeFailureKeepsPartialInstance(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t, WithGlobal("fail", failOnce("load failed")))

	err := rt.Initialize(ctx, `
func TIC() { cls(1) }
fail()
`)
	require.Error(t, err)
	require.Len(t, rec.Errors, 1)
	require.Contains(t, rec.Errors[0], "load failed")
	require.Equal(t, StateReady, rt.State())

	require.True(t, rt.Tick(ctx).OK())
	require.Equal(t, 1, rec.Count("cls"))
}

func TestMissingTick(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `x := 1`))

	for i := 1; i <= 3; i++ {
		out := rt.Tick(ctx)
		require.False(t, out.OK())
		require.ErrorIs(t, out.Err, ErrTickNotFound)
		require.Len(t, rec.Errors, i)
	}
	require.Equal(t, "TIC() isn't found :(", rec.Errors[0])
}

func TestTickNotCallable(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `TIC := 5`))

	out := rt.Tick(ctx)
	require.ErrorIs(t, out.Err, ErrTickNotFound)
	require.Equal(t, []string{"TIC() isn't found :("}, rec.Errors)
}

func TestTickBeforeInitialize(t *testing.T) {
	rt, rec := newRuntime(t)
	out := rt.Tick(context.Background())
	require.ErrorIs(t, out.Err, ErrTickNotFound)
	require.Len(t, rec.Errors, 1)
}

func TestMissingOptionalCallbacks(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `func TIC() {}`))

	for _, out := range []Outcome{
		rt.Boot(ctx),
		rt.Scanline(ctx, 10),
		rt.Border(ctx, 3),
		rt.MenuSelect(ctx, 1),
	} {
		require.True(t, out.OK())
		require.False(t, out.Found)
		require.Nil(t, out.Value)
	}
	require.Empty(t, rec.Errors)
	require.Empty(t, rec.Calls)
}

func TestCallbackFailureIsolation(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t, WithGlobal("fail", failOnce("boom")))
	require.NoError(t, rt.Initialize(ctx, `
func TIC() {
	cls(1)
	fail()
	cls(2)
}
`))

	out := rt.Tick(ctx)
	require.False(t, out.OK())
	require.Contains(t, out.Message(), "boom")
	require.Equal(t, []string{"cls"}, rec.Names())
	require.Len(t, rec.Errors, 1)
	require.Contains(t, rec.Errors[0], "boom")

	out = rt.Tick(ctx)
	require.True(t, out.OK())
	require.Equal(t, []string{"cls", "cls", "cls"}, rec.Names())
	require.Len(t, rec.Errors, 1)
}

func TestArityViolationInsideCallback(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `func TIC() { rect(1, 2) }`))

	out := rt.Tick(ctx)
	require.False(t, out.OK())
	require.Len(t, rec.Errors, 1)
	require.Contains(t, rec.Errors[0], "rect()")
	require.Empty(t, rec.Calls)
}

func TestEvaluateKeepsGlobals(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `
color := 5
func TIC() { cls(color) }
`))
	require.NoError(t, rt.Evaluate(ctx, `color = 7`))
	require.True(t, rt.Tick(ctx).OK())
	require.Equal(t, []any{uint8(7)}, rec.Last().Args)
	require.Equal(t, StateReady, rt.State())
}

func TestEvaluateSeesCallbackWrites(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `
n := 0
func TIC() { n++; cls(n) }
`))
	require.True(t, rt.Tick(ctx).OK())
	require.True(t, rt.Tick(ctx).OK())
	require.NoError(t, rt.Evaluate(ctx, `n = n * 10`))
	require.True(t, rt.Tick(ctx).OK())
	require.Equal(t, []any{uint8(21)}, rec.Last().Args)
}

func TestCompileErrorLeavesNoSymbols(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.Error(t, rt.Initialize(ctx, "func TIC() { cls(1) }\nx := nope"))
	require.False(t, rt.Tick(ctx).OK())

	require.NoError(t, rt.Evaluate(ctx, `func TIC() { cls(3) }`))
	require.True(t, rt.Tick(ctx).OK())
	require.Equal(t, []any{uint8(3)}, rec.Last().Args)

	require.Error(t, rt.Evaluate(ctx, "y := 1\nz := missing"))
	require.NoError(t, rt.Evaluate(ctx, `y := 2`))
	require.Len(t, rec.Errors, 3)
}

func TestEvaluateFailureIsReported(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `func TIC() { cls(4) }`))

	err := rt.Evaluate(ctx, `cls(1, 2, 3)`)
	require.Error(t, err)
	require.Len(t, rec.Errors, 1)
	require.Contains(t, rec.Errors[0], "cls()")

	require.NoError(t, rt.Evaluate(ctx, `cls(9)`))
	require.True(t, rt.Tick(ctx).OK())
	require.Equal(t, []any{uint8(4)}, rec.Last().Args)
}

func TestEvaluateWithoutInstance(t *testing.T) {
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Evaluate(context.Background(), `cls(1)`))
	require.Empty(t, rec.Calls)
	require.Empty(t, rec.Errors)
	require.Equal(t, StateUninitialized, rt.State())
}

func TestRedefinitionIsObserved(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `TIC := func() { cls(1) }`))
	require.True(t, rt.Tick(ctx).OK())

	require.NoError(t, rt.Evaluate(ctx, `TIC = func() { cls(2) }`))
	require.True(t, rt.Tick(ctx).OK())

	require.Equal(t, []any{uint8(2)}, rec.Last().Args)
	require.Equal(t, 2, rec.Count("cls"))
}

func TestScanlineCallsBothNames(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `
func TIC() {}
func SCN(row) { pix(0, row, 1) }
func scanline(row) { pix(1, row, 2) }
`))

	require.True(t, rt.Scanline(ctx, 5).OK())
	require.Equal(t, []hosttest.Call{
		{Name: "setpix", Args: []any{int32(0), int32(5), uint8(1)}},
		{Name: "setpix", Args: []any{int32(1), int32(5), uint8(2)}},
	}, rec.Calls)
}

func TestBorderAndMenuArguments(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `
func TIC() {}
func BOOT() { trace("boot") }
func BDR(row) { trace(row) }
func MENU(index) { trace(index) }
`))

	require.True(t, rt.Boot(ctx).OK())
	require.True(t, rt.Border(ctx, 3).OK())
	require.True(t, rt.MenuSelect(ctx, 1).OK())
	require.Equal(t, []string{"boot", "3", "1"}, rec.Traces)
}

func TestCloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Close())
	require.Equal(t, StateUninitialized, rt.State())

	require.NoError(t, rt.Initialize(ctx, `func TIC() { cls(1) }`))
	require.Equal(t, 1, LiveInstances())
	require.NoError(t, rt.Close())
	require.NoError(t, rt.Close())
	require.Equal(t, StateClosed, rt.State())
	require.Equal(t, 0, LiveInstances())

	require.NoError(t, rt.Evaluate(ctx, `cls(2)`))
	require.Empty(t, rec.Calls)
}

func TestSecondRuntimeReplacesFirst(t *testing.T) {
	ctx := context.Background()
	first, firstHost := newRuntime(t)
	second, secondHost := newRuntime(t)

	require.NoError(t, first.Initialize(ctx, `func TIC() { cls(1) }`))
	require.NoError(t, second.Initialize(ctx, `func TIC() { cls(2) }`))
	require.Equal(t, 1, LiveInstances())
	require.Equal(t, StateClosed, first.State())
	require.Equal(t, StateReady, second.State())

	require.False(t, first.Tick(ctx).OK())
	require.Equal(t, []string{"TIC() isn't found :("}, firstHost.Errors)
	require.Empty(t, firstHost.Calls)

	require.True(t, second.Tick(ctx).OK())
	require.Equal(t, 1, secondHost.Count("cls"))
}

func TestReentryIsRejected(t *testing.T) {
	ctx := context.Background()
	var rt *Runtime
	var evalErr, initErr, closeErr error
	reenter := object.NewBuiltin("reenter", func(ctx context.Context, args ...object.Object) object.Object {
		evalErr = rt.Evaluate(ctx, `1`)
		initErr = rt.Initialize(ctx, `func TIC() {}`)
		closeErr = rt.Close()
		return object.Nil
	})
	rt, rec := newRuntime(t, WithGlobal("reenter", reenter))
	require.NoError(t, rt.Initialize(ctx, `func TIC() { reenter() }`))

	require.True(t, rt.Tick(ctx).OK())
	require.ErrorIs(t, evalErr, ErrBusy)
	require.ErrorIs(t, initErr, ErrBusy)
	require.ErrorIs(t, closeErr, ErrBusy)
	require.Equal(t, StateReady, rt.State())
	require.Empty(t, rec.Errors)
}

func TestWithoutDefaultGlobals(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t, WithoutDefaultGlobals())
	require.Error(t, rt.Initialize(ctx, `x := len([1, 2])`))
	require.Len(t, rec.Errors, 1)

	require.NoError(t, rt.Initialize(ctx, `cls(1)`))
	require.Equal(t, 1, rec.Count("cls"))
}

func TestConsoleOperationsShadowDefaults(t *testing.T) {
	ctx := context.Background()
	rt, rec := newRuntime(t)
	require.NoError(t, rt.Initialize(ctx, `print("hello")`))
	require.Equal(t, "print", rec.Last().Name)
}

func TestWithReporter(t *testing.T) {
	ctx := context.Background()
	type report struct {
		message  string
		severity Severity
	}
	var reports []report
	rt, rec := newRuntime(t, WithReporter(ReporterFunc(func(message string, severity Severity) {
		reports = append(reports, report{message, severity})
	})))
	require.NoError(t, rt.Initialize(ctx, `x := 1`))
	rt.Tick(ctx)
	require.Equal(t, []report{{"TIC() isn't found :(", SeverityError}}, reports)
	require.Empty(t, rec.Errors)
}

type quietHost struct {
	host.API
}

func TestDefaultReporterLogsWithoutSink(t *testing.T) {
	var buf bytes.Buffer
	rt := New(quietHost{hosttest.New()}, WithLogger(zerolog.New(&buf)))
	defer rt.Close()

	rt.Tick(context.Background())
	require.Contains(t, buf.String(), `"level":"error"`)
	require.Contains(t, buf.String(), "TIC() isn't found :(")
}

type friendly struct{}

func (friendly) Error() string                { return "plain" }
func (friendly) FriendlyErrorMessage() string { return "friendly" }

func TestErrorMessage(t *testing.T) {
	require.Equal(t, "", ErrorMessage(nil))
	require.Equal(t, "plain", ErrorMessage(errors.New("plain")))
	require.Equal(t, "friendly", ErrorMessage(friendly{}))
}

func TestLang(t *testing.T) {
	require.Equal(t, ".risor", Lang.Extension)
	require.True(t, Lang.IsKeyword("func"))
	require.False(t, Lang.IsKeyword("TIC"))

	var names []string
	for item := range Lang.Outline("func TIC() {}\nfunc BOOT() {}\n") {
		names = append(names, item.Name)
	}
	require.Equal(t, []string{"TIC", "BOOT"}, names)
}

func TestSlotNames(t *testing.T) {
	require.Equal(t, "TIC", SlotTick.String())
	require.True(t, SlotTick.Mandatory())
	require.False(t, SlotMenu.Mandatory())
	require.Equal(t, []string{"SCN", "scanline"}, SlotScanline.Names())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "evaluating", StateEvaluating.String())
	require.True(t, StateInitializing.busy())
	require.False(t, StateReady.busy())
}
