package shell_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/maestro/internal/adapters/shell"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/maestro/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newRunner(t *testing.T) *shell.Runner {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return shell.NewRunner(log)
}

func TestRunner_Run_CapturesOutput(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	res, err := runner.Run(context.Background(), ports.Command{
		Args: []string{"sh", "-c", "echo out; echo err >&2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestRunner_Run_Environment(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	res, err := runner.Run(context.Background(), ports.Command{
		Args: []string{"sh", "-c", "echo $MAESTRO_TEST_VAR"},
		Env:  map[string]string{"MAESTRO_TEST_VAR": "test-value-123"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(res.Stdout), "test-value-123")
}

func TestRunner_Run_ExitCode(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	res, err := runner.Run(context.Background(), ports.Command{
		Args: []string{"sh", "-c", "echo failing >&2; exit 3"},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCommandFailed.Error())
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "failing\n", string(res.Stderr))
}

func TestRunner_Run_EmptyCommand(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	_, err := runner.Run(context.Background(), ports.Command{})
	require.ErrorContains(t, err, domain.ErrEmptyCommand.Error())
}

func TestRunner_Run_InvalidCommand(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	_, err := runner.Run(context.Background(), ports.Command{
		Args: []string{"non_existent_command_maestro_12345"},
	})
	require.Error(t, err)
}

func TestRunner_Stream_MultiLineOutput(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	var stdout bytes.Buffer
	err := runner.Stream(context.Background(), ports.Command{
		Args: []string{"sh", "-c", "echo line1; printf part1; sleep 0.1; echo part2"},
		Dir:  t.TempDir(),
	}, &stdout, io.Discard)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "line1")
	assert.Contains(t, output, "part1part2")
}

func TestRunner_Stream_Failure(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	err := runner.Stream(context.Background(), ports.Command{
		Args: []string{"sh", "-c", "exit 1"},
	}, io.Discard, io.Discard)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCommandFailed.Error())
}

func TestRunner_Which(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	path, ok := runner.Which("sh")
	assert.True(t, ok)
	assert.NotEmpty(t, path)

	_, ok = runner.Which("non_existent_command_maestro_12345")
	assert.False(t, ok)
}
