package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStorage_SetGetClear(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, ok, err := m.Get(ctx, a, "status")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, a, "status", `"hub"`))
	require.NoError(t, m.Set(ctx, b, "status", `"start"`))

	v, ok, err := m.Get(ctx, a, "status")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"hub"`, v)

	require.NoError(t, m.Clear(ctx, a))
	_, ok, _ = m.Get(ctx, a, "status")
	assert.False(t, ok)

	v, ok, _ = m.Get(ctx, b, "status")
	assert.True(t, ok, "clearing one session leaves others intact")
	assert.Equal(t, `"start"`, v)
	assert.Equal(t, 2, m.SetCount())
}

func TestMockStorage_EmptySlot(t *testing.T) {
	m := NewMockStorage()
	assert.Error(t, m.Set(context.Background(), uuid.New(), "", "x"))
}

func TestMockStorage_Failures(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()
	boom := errors.New("boom")

	m.SetPingError(boom)
	assert.ErrorIs(t, m.Ping(ctx), boom)
	m.SetPingSuccess()
	assert.NoError(t, m.Ping(ctx))

	m.SetFailError(boom)
	_, _, err := m.Get(ctx, uuid.New(), "status")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Set(ctx, uuid.New(), "status", "x"), boom)
	assert.ErrorIs(t, m.Clear(ctx, uuid.New()), boom)
}
