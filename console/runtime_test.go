package console_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/risor-io/tic"
	"github.com/risor-io/tic/console"
	"github.com/risor-io/tic/store"
)

const cart = `
func BOOT() {
	trace("booted", 6)
}

func TIC() {
	n := pmem(0)
	cls(1)
	rect(n, 0, 4, 4, 9)
	pmem(0, n + 1)
}

func SCN(row) {
	if row == 0 {
		poke(0x3FC0, 255)
	}
}
`

func TestCartridgeRun(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	c, err := console.New(ctx, console.WithStore(s, "cart"))
	require.NoError(t, err)

	rt := tic.New(c)
	defer rt.Close()
	require.NoError(t, rt.Initialize(ctx, cart))
	require.True(t, rt.Boot(ctx).OK())
	require.Equal(t, []console.TraceLine{{Message: "booted", Color: 6}}, c.Traces())

	for frame := 0; frame < 3; frame++ {
		require.True(t, rt.Tick(ctx).OK())
		require.True(t, rt.Scanline(ctx, 0).OK())
		c.EndFrame()
	}
	require.Equal(t, uint8(9), c.Pix(2, 0))
	require.Equal(t, uint8(1), c.Pix(1, 0))
	require.Equal(t, uint32(3), c.PMem(0))
	require.Equal(t, uint8(255), c.Peek(0x3FC0, 8))
	require.Empty(t, c.Errors())

	require.NoError(t, c.Flush(ctx))
	saved, err := s.Load(ctx, "cart")
	require.NoError(t, err)
	require.Equal(t, uint32(3), saved[0])
}

func TestCartridgeErrorsReachConsole(t *testing.T) {
	ctx := context.Background()
	c, err := console.New(ctx)
	require.NoError(t, err)

	rt := tic.New(c)
	defer rt.Close()
	require.Error(t, rt.Initialize(ctx, `func TIC() {`))
	require.Len(t, c.Errors(), 1)

	require.NoError(t, rt.Initialize(ctx, `x := 1`))
	out := rt.Tick(ctx)
	require.False(t, out.OK())
	require.Equal(t, []string{c.Errors()[0], "TIC() isn't found :("}, c.Errors())
}
