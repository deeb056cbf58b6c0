package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDisabledForNonPositiveRate(t *testing.T) {
	require.Nil(t, New(0, 10))
	require.Nil(t, New(-1, 10))
}

func TestNewEnabled(t *testing.T) {
	l := New(100, 10)
	require.NotNil(t, l)
}

func TestWaitNoopOnNilLimiter(t *testing.T) {
	require.NoError(t, Wait(context.Background(), nil))
}

func TestWaitAdmitsWithinBurst(t *testing.T) {
	l := New(100, 5)
	for i := 0; i < 5; i++ {
		require.NoError(t, Wait(context.Background(), l))
	}
}
