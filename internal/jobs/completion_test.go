package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sehat-sathi-server/internal/logging"
)

type stubCompleter struct {
	calls int
	n     int
	err   error
}

func (s *stubCompleter) CompleteElapsed(ctx context.Context) (int, error) {
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	return s.n, s.err
}

func TestCompletionJobRunLogs(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubCompleter{n: 2}
	job := NewCompletionJob(stub, logging.NewWithWriter(&buf, "info", "production"))

	job.Run()
	assert.Equal(t, 1, stub.calls)
	assert.Contains(t, buf.String(), `"completed":2`)

	buf.Reset()
	stub.err = errors.New("db down")
	job.Run()
	assert.Contains(t, buf.String(), "completion job failed")
	assert.Contains(t, buf.String(), "db down")
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	job := NewCompletionJob(&stubCompleter{}, logging.Nop())

	_, err := NewScheduler("every now and then", job, nil)
	assert.Error(t, err)

	s, err := NewScheduler("*/15 * * * *", job, nil)
	require.NoError(t, err)
	s.Start()
	s.Stop(context.Background())
}
