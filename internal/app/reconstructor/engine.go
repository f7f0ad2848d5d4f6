package reconstructor

import (
	"context"
	stderrors "errors"
	"io"
	"sync"

	eventv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/event/v1"
	orderbookv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/mbp-reconstruction/internal/usecase/sequencer"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/util"
	"github.com/oklog/ulid/v2"
)

// Engine replays an MBO feed through the order book and writes an MBP-10
// snapshot after every event that changes what the book reports.
type Engine struct {
	// Core components
	orderbook orderbookv1.Orderbook
	sequencer *sequencer.Sequencer
	reader    eventv1.Reader
	sink      snapshotv1.Sink
	logger    logger.Interface
	options   *Options

	mu    sync.RWMutex
	stats Stats
	row   int64
	seq   int64
}

// NewEngine creates an engine over the given book, source and sink.
// A nil options value means DefaultOptions.
func NewEngine(
	orderbook orderbookv1.Orderbook,
	reader eventv1.Reader,
	sink snapshotv1.Sink,
	log logger.Interface,
	options *Options,
) *Engine {
	if options == nil {
		options = DefaultOptions()
	}
	return &Engine{
		orderbook: orderbook,
		sequencer: sequencer.NewSequencer(orderbook),
		reader:    reader,
		sink:      sink,
		logger:    log,
		options:   options,
	}
}

// Run processes the feed until EOF. Rows are handled strictly in input order,
// one at a time. It stops early on a read or sink failure, or when ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.InfoContext(ctx, "reconstruction started")

	first := true
	for {
		if err := ctx.Err(); err != nil {
			e.logger.WarnContext(ctx, "reconstruction cancelled", e.Stats().fields()...)
			return err
		}

		record, err := e.reader.ReadRecord(ctx)
		if err == io.EOF {
			break
		}
		if err != nil && !stderrors.Is(err, eventv1.ErrMalformedRow) {
			return errors.TracerFromError(err)
		}

		e.row++
		rowCtx := util.WithRowIndex(ctx, e.row)

		var event *eventv1.Event
		if err == nil {
			event, err = eventv1.FromFields(record)
		}
		if err != nil {
			e.update(func(s *Stats) { s.RowsSkipped++ })
			e.logger.DebugContext(rowCtx, "skipping malformed row", logger.NewField("reason", err.Error()))
			continue
		}
		e.update(func(s *Stats) { s.RowsRead++ })

		if first {
			first = false
			if event.Action == eventv1.ActionClear {
				e.logger.DebugContext(rowCtx, "dropping initial clear")
				continue
			}
		}

		if err := e.process(rowCtx, event); err != nil {
			return err
		}
	}

	e.logger.InfoContext(ctx, "reconstruction finished", e.Stats().fields()...)
	return nil
}

// Stats returns a copy of the run counters.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) update(fn func(*Stats)) {
	e.mu.Lock()
	fn(&e.stats)
	e.mu.Unlock()
}

func (e *Engine) process(ctx context.Context, event *eventv1.Event) error {
	outcome := e.sequencer.Process(event)
	if outcome.Buffered {
		e.update(func(s *Stats) { s.EventsBuffered++ })
		return nil
	}

	e.record(ctx, event, outcome)

	if e.options.Validate {
		if err := e.orderbook.Validate(); err != nil {
			return errors.NewErrorDetailsWithCause("order book is inconsistent", errors.BookInvariantError, "orderbook", err)
		}
	}

	if !outcome.Emit() {
		return nil
	}

	e.seq++
	bids, asks := e.orderbook.TopLevels(snapshotv1.Depth)
	snapshot := snapshotv1.NewSnapshot(e.seq, event, bids, asks)

	if err := e.sink.Write(util.WithEventID(ctx, ulid.Make().String()), snapshot); err != nil {
		e.logger.ErrorContext(ctx, err, logger.NewField("seq", snapshot.Seq))
		return errors.TracerFromError(err)
	}
	e.update(func(s *Stats) { s.SnapshotsEmitted++ })
	return nil
}

func (e *Engine) record(ctx context.Context, event *eventv1.Event, outcome sequencer.Outcome) {
	e.update(func(s *Stats) {
		s.EventsApplied++
		switch outcome.Mutation {
		case sequencer.MutationConsume:
			s.TradesConsumed++
			s.UnfilledVolume += outcome.Unfilled
		case sequencer.MutationModify, sequencer.MutationCancel:
			if !outcome.Found {
				s.UnknownOrders++
			}
		}
		if outcome.Replaced {
			s.DuplicatesReplaced++
		}
		if outcome.Rejected != nil {
			s.AddsRejected++
		}
	})

	switch {
	case outcome.Unfilled > 0:
		e.logger.WarnContext(ctx, "trade exceeds resting liquidity, remainder discarded",
			logger.NewField("price", event.Price.String()),
			logger.NewField("filled", outcome.Filled),
			logger.NewField("unfilled", outcome.Unfilled),
		)
	case outcome.Replaced:
		e.logger.WarnContext(ctx, "duplicate add replaced resting order", logger.NewField("order_id", event.OrderID))
	case outcome.Rejected != nil:
		e.logger.WarnContext(ctx, "add rejected",
			logger.NewField("order_id", event.OrderID),
			logger.NewField("reason", outcome.Rejected.Error()),
		)
	case !outcome.Found && (outcome.Mutation == sequencer.MutationModify || outcome.Mutation == sequencer.MutationCancel):
		e.logger.DebugContext(ctx, "unknown order id",
			logger.NewField("action", event.Action.String()),
			logger.NewField("order_id", event.OrderID),
		)
	}
}
