package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError(t *testing.T) {
	t.Run("empty base error has no details", func(t *testing.T) {
		baseErr := NewBaseError()

		assert.False(t, baseErr.HasDetails())
		assert.False(t, baseErr.IsAllCodeEqual(string(ConfigError)))
		assert.False(t, baseErr.IsAnyCodeEqual(string(ConfigError)))
	})

	t.Run("collects details in order", func(t *testing.T) {
		baseErr := NewBaseError(NewErrorDetails("depth must be positive", string(ConfigError), "depth"))
		baseErr.AddErrorDetails(NewErrorDetails("brokers are empty", string(ConfigError), "brokers"))

		require.True(t, baseErr.HasDetails())
		assert.Len(t, baseErr.GetDetails(), 2)
		assert.Equal(t, []string{"depth", "brokers"}, baseErr.Fields())
		assert.True(t, baseErr.IsAllCodeEqual(string(ConfigError)))
		assert.Contains(t, baseErr.Error(), "code: config_error; error: brokers are empty; field: brokers")
	})

	t.Run("mixed codes", func(t *testing.T) {
		baseErr := NewBaseError(
			NewErrorDetails("cannot flush", string(SinkCloseError), "csv"),
			NewErrorDetails("cannot copy", string(QuestDBCopyError), "questdb"),
		)

		assert.False(t, baseErr.IsAllCodeEqual(string(SinkCloseError)))
		assert.True(t, baseErr.IsAnyCodeEqual(string(QuestDBCopyError)))
	})
}

func TestErrorDetails(t *testing.T) {
	cause := stderrors.New("permission denied")
	details := NewErrorDetailsWithCause("cannot create output", OutputCreateError, "mbp_output.csv", cause)

	assert.Equal(t, "cannot create output: permission denied", details.Error())
	assert.ErrorIs(t, details, cause)

	wrapped := fmt.Errorf("bootstrap: %w", details)
	assert.True(t, ErrorCodeEquals(wrapped, string(OutputCreateError)))
	assert.False(t, ErrorCodeEquals(wrapped, string(InputOpenError)))
	assert.False(t, ErrorCodeEquals(cause, string(OutputCreateError)))
}

func TestErrorTracer(t *testing.T) {
	t.Run("wrap keeps cause and stack", func(t *testing.T) {
		cause := stderrors.New("broker unreachable")
		tracer := NewTracer("mbp_publish_error").Wrap(cause)

		assert.Equal(t, "mbp_publish_error: broker unreachable", tracer.Error())
		assert.ErrorIs(t, tracer, cause)
		assert.NotEmpty(t, tracer.StackTrace())
	})

	t.Run("from error keeps message", func(t *testing.T) {
		tracer := TracerFromError(stderrors.New("short write"))

		assert.Equal(t, "short write", tracer.Error())
		assert.NotEmpty(t, tracer.StackTrace())
	})

	t.Run("no cause", func(t *testing.T) {
		tracer := NewTracer("nothing underneath")

		assert.Equal(t, "nothing underneath", tracer.Error())
		assert.Nil(t, tracer.StackTrace())
	})
}
