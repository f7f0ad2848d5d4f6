package questdb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	orderbookv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/questdb"
	"github.com/shopspring/decimal"
)

// Table is the QuestDB table receiving snapshots.
const Table = "mbp10"

var columns = buildColumns()

func buildColumns() []string {
	cols := []string{
		"ts", "seq", "ts_event", "ts_recv", "instrument_id", "symbol", "action", "side",
		"price", "size", "order_id", "sequence",
	}
	for i := range snapshotv1.Depth {
		for _, side := range []string{"bid", "ask"} {
			cols = append(cols,
				fmt.Sprintf("%s_px_%02d", side, i),
				fmt.Sprintf("%s_sz_%02d", side, i),
				fmt.Sprintf("%s_ct_%02d", side, i),
			)
		}
	}
	return cols
}

// Columns returns the column order used for CopyFrom.
func Columns() []string {
	return append([]string(nil), columns...)
}

// Sink buffers snapshots and bulk copies them into QuestDB.
type Sink struct {
	client    questdb.QuestDBClient
	logger    logger.Interface
	batchSize int
	rows      [][]any
	copied    int64
	now       func() time.Time
}

var _ snapshotv1.Sink = (*Sink)(nil)

// NewSink creates a Sink flushing every batchSize rows.
func NewSink(client questdb.QuestDBClient, batchSize int, log logger.Interface) *Sink {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Sink{
		client:    client,
		logger:    log,
		batchSize: batchSize,
		rows:      make([][]any, 0, batchSize),
		now:       time.Now,
	}
}

// Write buffers the snapshot, flushing when the batch is full.
func (s *Sink) Write(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	s.rows = append(s.rows, s.toRow(snapshot))
	if len(s.rows) < s.batchSize {
		return nil
	}
	return s.Flush(ctx)
}

// Flush copies the buffered rows. The buffer is emptied even when the copy fails.
func (s *Sink) Flush(ctx context.Context) error {
	if len(s.rows) == 0 {
		return nil
	}
	rows := s.rows
	s.rows = make([][]any, 0, s.batchSize)

	count, err := s.client.CopyFrom(ctx, pgx.Identifier{Table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return errors.NewErrorDetailsWithCause(
			fmt.Sprintf("failed to copy %d rows", len(rows)), errors.QuestDBCopyError, Table, err)
	}

	s.copied += count
	s.logger.Debug("copied snapshots", logger.NewField("table", Table), logger.NewField("rows", count))
	return nil
}

// Copied returns the number of rows QuestDB acknowledged.
func (s *Sink) Copied() int64 {
	return s.copied
}

// Close flushes the remaining rows and closes the client.
func (s *Sink) Close() error {
	defer s.client.Close()
	return s.Flush(context.Background())
}

func (s *Sink) toRow(snapshot *snapshotv1.Snapshot) []any {
	m := snapshot.Metadata
	row := make([]any, 0, len(columns))
	row = append(row,
		s.timestamp(snapshot.TsEvent),
		snapshot.Seq,
		snapshot.TsEvent,
		m.TsRecv,
		m.InstrumentID,
		m.Symbol,
		m.Action,
		m.Side,
		nullableFloat(m.Price),
		nullableInt(m.Size),
		nullableInt(m.OrderID),
		nullableInt(m.Sequence),
	)

	for i := range snapshotv1.Depth {
		bid, ok := snapshot.Bid(i)
		row = appendLevel(row, bid, ok)
		ask, ok := snapshot.Ask(i)
		row = appendLevel(row, ask, ok)
	}
	return row
}

func (s *Sink) timestamp(tsEvent string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, tsEvent); err == nil {
		return t.UTC()
	}
	return s.now().UTC()
}

func appendLevel(row []any, lvl orderbookv1.Level, ok bool) []any {
	if !ok {
		return append(row, nil, nil, nil)
	}
	return append(row, lvl.Price.InexactFloat64(), lvl.Size, int32(lvl.Count))
}

func nullableFloat(s string) any {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return d.InexactFloat64()
}

func nullableInt(s string) any {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return n
}
