package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperation_Settles(t *testing.T) {
	release := make(chan struct{})
	op := Go(func() (string, error) {
		<-release
		return "q-1", nil
	})
	assert.Equal(t, OperationPending, op.State())

	close(release)
	v, err := op.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "q-1", v)
	assert.Equal(t, OperationSettled, op.State())
}

func TestOperation_Fails(t *testing.T) {
	boom := errors.New("boom")
	op := Go(func() (int, error) { return 0, boom })

	<-op.Done()
	assert.Equal(t, OperationFailed, op.State())
	_, err := op.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestOperation_WaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	op := Go(func() (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := op.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, OperationPending, op.State())
}
