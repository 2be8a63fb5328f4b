package parallel_test

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/devantler-tech/apidelta/pkg/utils/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errTaskFailed = errors.New("task failed")

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewExecutor_DefaultsConcurrency(t *testing.T) {
	t.Parallel()

	executor := parallel.NewExecutor(0)

	assert.Equal(t, parallel.DefaultMaxConcurrency(), executor.MaxConcurrency())
	assert.GreaterOrEqual(t, executor.MaxConcurrency(), int64(2))
	assert.LessOrEqual(t, executor.MaxConcurrency(), int64(8))
	assert.Equal(t, int64(3), parallel.NewExecutor(3).MaxConcurrency())
}

func TestExecute_NoTasks(t *testing.T) {
	t.Parallel()

	require.NoError(t, parallel.NewExecutor(2).Execute(context.Background()))
}

func TestExecute_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	var (
		running atomic.Int64
		peak    atomic.Int64
	)

	task := func(context.Context) error {
		current := running.Add(1)
		defer running.Add(-1)

		for {
			seen := peak.Load()
			if current <= seen || peak.CompareAndSwap(seen, current) {
				break
			}
		}

		time.Sleep(5 * time.Millisecond)

		return nil
	}

	tasks := make([]parallel.Task, 10)
	for i := range tasks {
		tasks[i] = task
	}

	require.NoError(t, parallel.NewExecutor(2).Execute(context.Background(), tasks...))
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestExecute_ReturnsFirstError(t *testing.T) {
	t.Parallel()

	err := parallel.NewExecutor(2).Execute(
		context.Background(),
		func(context.Context) error { return nil },
		func(context.Context) error { return errTaskFailed },
	)

	require.ErrorIs(t, err, errTaskFailed)
	assert.Contains(t, err.Error(), "parallel execution")
}

func TestCollect_KeepsIndexOrder(t *testing.T) {
	t.Parallel()

	outputs, err := parallel.Collect(
		context.Background(),
		parallel.NewExecutor(3),
		5,
		func(_ context.Context, index int) int {
			time.Sleep(time.Duration(5-index) * time.Millisecond)

			return index * index
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 9, 16}, outputs)
}

func TestCollect_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int64

	outputs, err := parallel.Collect(ctx, parallel.NewExecutor(2), 4, func(context.Context, int) string {
		calls.Add(1)

		return "done"
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, outputs, 4)
	assert.Less(t, calls.Load(), int64(4))
}

func TestSyncWriter_KeepsLinesWhole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := parallel.NewSyncWriter(&buf)

	var wg sync.WaitGroup

	for index := range 20 {
		wg.Go(func() {
			line := strings.Repeat(strconv.Itoa(index%10), 64) + "\n"

			written, err := writer.Write([]byte(line))
			assert.NoError(t, err)
			assert.Equal(t, len(line), written)
		})
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 20)

	for _, line := range lines {
		assert.Equal(t, strings.Repeat(line[:1], 64), line)
	}
}

func TestSyncWriter_WrapsErrors(t *testing.T) {
	t.Parallel()

	writer := parallel.NewSyncWriter(failingWriter{})

	_, err := writer.Write([]byte("x"))
	require.ErrorIs(t, err, errClosedPipe)
	assert.Contains(t, err.Error(), "sync write")
}

var errClosedPipe = errors.New("closed pipe")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errClosedPipe }
