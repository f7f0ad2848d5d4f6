package bootstrap

import (
	"context"

	"github.com/muhammadchandra19/mbp-reconstruction/internal/app/reconstructor"
	eventv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/event/v1"
	csvInfra "github.com/muhammadchandra19/mbp-reconstruction/internal/infrastructure/csv"
	"github.com/muhammadchandra19/mbp-reconstruction/internal/usecase/orderbook"
	"github.com/muhammadchandra19/mbp-reconstruction/internal/usecase/snapshot"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/config"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
)

// Bootstrap holds the wired components of one reconstruction run.
type Bootstrap struct {
	Config *config.Config
	Logger logger.Interface

	Reader eventv1.Reader
	Sink   *snapshot.MultiSink
	Engine *reconstructor.Engine
}

// BootstrapConfig is the config for the bootstrap.
type BootstrapConfig struct {
	Config    *config.Config
	Logger    logger.Interface
	InputPath string
}

// Init opens the input, creates every enabled sink and builds the engine.
// Anything opened before a failure is closed again.
func Init(ctx context.Context, config BootstrapConfig) (*Bootstrap, error) {
	b := &Bootstrap{
		Config: config.Config,
		Logger: config.Logger,
	}

	reader, err := csvInfra.Open(config.InputPath)
	if err != nil {
		return nil, err
	}
	b.Reader = reader

	if err := b.registerSinks(ctx); err != nil {
		_ = reader.Close()
		return nil, err
	}

	b.registerEngine()
	return b, nil
}

func (b *Bootstrap) registerEngine() {
	b.Engine = reconstructor.NewEngine(
		orderbook.NewOrderbook(),
		b.Reader,
		b.Sink,
		b.Logger,
		&reconstructor.Options{Validate: b.Config.Recon.Validate},
	)
}

// Close flushes and closes every sink, then the input.
func (b *Bootstrap) Close() error {
	baseErr := errors.NewBaseError()

	if b.Sink != nil {
		if err := b.Sink.Close(); err != nil {
			if be, ok := err.(*errors.BaseError); ok {
				baseErr.AddErrorDetails(be.GetDetails()...)
			} else {
				baseErr.AddErrorDetails(errors.NewErrorDetailsWithCause("failed to close sinks", errors.SinkCloseError, "sink", err))
			}
		}
	}
	if b.Reader != nil {
		if err := b.Reader.Close(); err != nil {
			baseErr.AddErrorDetails(errors.NewErrorDetailsWithCause("failed to close input", errors.InputReadError, "input", err))
		}
	}

	if baseErr.HasDetails() {
		return baseErr
	}
	return nil
}
