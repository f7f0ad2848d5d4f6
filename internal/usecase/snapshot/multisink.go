package snapshot

import (
	"context"
	"time"

	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
)

type namedSink struct {
	name string
	sink snapshotv1.Sink
}

// MultiSink fans every snapshot out to a primary sink and any number of
// secondary sinks. A primary failure stops the run; secondary failures are
// logged and counted.
type MultiSink struct {
	primary      namedSink
	secondaries  []namedSink
	logger       logger.Interface
	writeTimeout time.Duration
	failures     map[string]int64
}

var _ snapshotv1.Sink = (*MultiSink)(nil)

// Option configures a MultiSink.
type Option func(*MultiSink)

// WithSink adds a secondary sink.
func WithSink(name string, sink snapshotv1.Sink) Option {
	return func(m *MultiSink) {
		m.secondaries = append(m.secondaries, namedSink{name: name, sink: sink})
	}
}

// WithWriteTimeout bounds each secondary write. Zero means no extra deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(m *MultiSink) {
		m.writeTimeout = d
	}
}

// NewMultiSink creates a fan-out sink around primary.
func NewMultiSink(name string, primary snapshotv1.Sink, log logger.Interface, opts ...Option) *MultiSink {
	m := &MultiSink{
		primary:  namedSink{name: name, sink: primary},
		logger:   log,
		failures: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Write delivers the snapshot to the primary sink, then to each secondary.
func (m *MultiSink) Write(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	if err := m.primary.sink.Write(ctx, snapshot); err != nil {
		return errors.NewErrorDetailsWithCause("failed to write snapshot", errors.SinkWriteError, m.primary.name, err)
	}

	for _, s := range m.secondaries {
		if err := m.writeSecondary(ctx, s, snapshot); err != nil {
			m.failures[s.name]++
			m.logger.WarnContext(ctx, "secondary sink write failed",
				logger.NewField("sink", s.name),
				logger.NewField("seq", snapshot.Seq),
				logger.NewField("error", err.Error()),
			)
		}
	}

	return nil
}

func (m *MultiSink) writeSecondary(ctx context.Context, s namedSink, snapshot *snapshotv1.Snapshot) error {
	if m.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.writeTimeout)
		defer cancel()
	}
	return s.sink.Write(ctx, snapshot)
}

// Failures returns the number of failed writes per secondary sink.
func (m *MultiSink) Failures() map[string]int64 {
	out := make(map[string]int64, len(m.failures))
	for k, v := range m.failures {
		out[k] = v
	}
	return out
}

// Close closes every sink, secondaries first, and reports all failures together.
func (m *MultiSink) Close() error {
	baseErr := errors.NewBaseError()

	all := append(append([]namedSink{}, m.secondaries...), m.primary)
	for _, s := range all {
		if err := s.sink.Close(); err != nil {
			baseErr.AddErrorDetails(errors.NewErrorDetailsWithCause("failed to close sink", errors.SinkCloseError, s.name, err))
		}
	}

	if baseErr.HasDetails() {
		return baseErr
	}
	return nil
}
