package async_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"iteminsight/pkg/async"
)

func TestJob(t *testing.T) {
	t.Parallel()

	job := async.Job(t.Context(), func(_ context.Context) (int, error) {
		return 42, nil
	})

	value, err := job.Wait()
	require.NoError(t, err)
	require.Equal(t, 42, value)
}

func TestJob_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	job := async.Job(t.Context(), func(_ context.Context) (string, error) {
		return "", boom
	})

	_, err := job.Wait()
	require.ErrorIs(t, err, boom)
}

func TestJob_Stop(t *testing.T) {
	t.Parallel()

	job := async.Job(t.Context(), func(ctx context.Context) (struct{}, error) {
		<-ctx.Done()
		return struct{}{}, ctx.Err()
	})

	job.Stop()

	_, err := job.Wait()
	require.ErrorIs(t, err, context.Canceled)
}
