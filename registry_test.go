package tic

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/tic/host/hosttest"
)

func TestRegistryHoldsOneInstance(t *testing.T) {
	r := &registry{}
	a := &instance{id: uuid.Must(uuid.NewV4()), host: hosttest.New()}
	b := &instance{id: uuid.Must(uuid.NewV4()), host: hosttest.New()}

	require.Nil(t, r.acquire(a))
	h, err := r.resolve(a)
	require.NoError(t, err)
	require.Same(t, a.host, h)

	require.Same(t, a, r.acquire(b))
	require.True(t, a.closed)
	require.Equal(t, 1, r.count)

	_, err = r.resolve(a)
	require.ErrorIs(t, err, ErrClosed)
	_, err = r.resolve(b)
	require.NoError(t, err)

	require.False(t, r.release(a))
	require.True(t, r.release(b))
	require.False(t, r.release(b))
	require.Equal(t, 0, r.count)
	require.Nil(t, r.live)
}

func TestLifecycleEnter(t *testing.T) {
	var l lifecycle
	prev, ok := l.enter(StateEvaluating)
	require.True(t, ok)
	require.Equal(t, StateUninitialized, prev)

	prev, ok = l.enter(StateInitializing)
	require.False(t, ok)
	require.Equal(t, StateEvaluating, prev)

	l.store(StateReady)
	_, ok = l.enter(StateClosed)
	require.True(t, ok)
	require.Equal(t, StateClosed, l.load())
}
