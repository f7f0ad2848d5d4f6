package reconstructor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	eventv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/event/v1"
	eventv1_mock "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/event/v1/mock"
	orderbookv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	snapshotv1_mock "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1/mock"
	"github.com/muhammadchandra19/mbp-reconstruction/internal/usecase/orderbook"
	pkgErrors "github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures and helpers
type testFixture struct {
	ctrl      *gomock.Controller
	reader    *eventv1_mock.MockReader
	sink      *snapshotv1_mock.MockSink
	orderbook *orderbook.Orderbook
	written   []*snapshotv1.Snapshot
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)
	return &testFixture{
		ctrl:      ctrl,
		reader:    eventv1_mock.NewMockReader(ctrl),
		sink:      snapshotv1_mock.NewMockSink(ctrl),
		orderbook: orderbook.NewOrderbook(),
	}
}

// feed makes the reader return rows in order, then io.EOF.
func (f *testFixture) feed(rows ...string) {
	calls := make([]*gomock.Call, 0, len(rows)+1)
	for _, row := range rows {
		calls = append(calls, f.reader.EXPECT().ReadRecord(gomock.Any()).Return(strings.Split(row, ","), nil))
	}
	calls = append(calls, f.reader.EXPECT().ReadRecord(gomock.Any()).Return(nil, io.EOF))
	gomock.InOrder(calls...)
}

// collect records every snapshot the engine writes.
func (f *testFixture) collect() {
	f.sink.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s *snapshotv1.Snapshot) error {
			f.written = append(f.written, s)
			return nil
		}).AnyTimes()
}

func (f *testFixture) engine(options *Options) *Engine {
	return NewEngine(f.orderbook, f.reader, f.sink, logger.NewNop(), options)
}

func mbo(action, side, price string, size, id string) string {
	return strings.Join([]string{
		"2025-07-17T08:05:03.360677248Z", "2025-07-17T08:05:03.360" + id + "Z", "160", "2", "1108",
		action, side, price, size, "0", id, "130", "165200", "851012", "ARL",
	}, ",")
}

func assertLevel(t *testing.T, lvl orderbookv1.Level, ok bool, price string, size int64, count int) {
	t.Helper()
	require.True(t, ok)
	assert.True(t, lvl.Price.Equal(decimal.RequireFromString(price)), "price %s != %s", lvl.Price, price)
	assert.Equal(t, size, lvl.Size)
	assert.Equal(t, count, lvl.Count)
}

func TestEngine_Run_EndToEnd(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	f.feed(
		mbo("R", "N", "", "0", "0"),
		mbo("A", "B", "100.0", "10", "1"),
		mbo("A", "B", "100.0", "5", "2"),
		mbo("T", "A", "100.0", "10", "0"),
		mbo("F", "B", "100.0", "10", "1"),
		mbo("C", "B", "100.0", "10", "1"),
		mbo("M", "B", "100.0", "2", "2"),
	)
	f.collect()

	e := f.engine(&Options{Validate: true})
	require.NoError(t, e.Run(context.Background()))

	require.Len(t, f.written, 4)
	want := []struct {
		size  int64
		count int
	}{{10, 1}, {15, 2}, {5, 1}, {2, 1}}
	for i, w := range want {
		s := f.written[i]
		assert.Equal(t, int64(i+1), s.Seq)
		lvl, ok := s.Bid(0)
		assertLevel(t, lvl, ok, "100", w.size, w.count)
		_, ok = s.Bid(1)
		assert.False(t, ok)
		_, ok = s.Ask(0)
		assert.False(t, ok)
	}
	assert.Equal(t, "C", f.written[2].Metadata.Action, "triplet snapshot carries the closing cancel")

	stats := e.Stats()
	assert.Equal(t, int64(7), stats.RowsRead)
	assert.Equal(t, int64(2), stats.EventsBuffered)
	assert.Equal(t, int64(4), stats.EventsApplied)
	assert.Equal(t, int64(1), stats.TradesConsumed)
	assert.Equal(t, int64(0), stats.UnfilledVolume)
	assert.Equal(t, int64(4), stats.SnapshotsEmitted)
}

func TestEngine_Run_Clear(t *testing.T) {
	testCases := []struct {
		name     string
		rows     []string
		assertFn func(t *testing.T, written []*snapshotv1.Snapshot)
	}{
		{
			name: "leading clear produces no row",
			rows: []string{
				mbo("R", "N", "", "0", "0"),
				mbo("A", "A", "101.5", "3", "7"),
			},
			assertFn: func(t *testing.T, written []*snapshotv1.Snapshot) {
				require.Len(t, written, 1)
				assert.Equal(t, "A", written[0].Metadata.Action)
			},
		},
		{
			name: "later clear empties the book and emits",
			rows: []string{
				mbo("A", "A", "101.5", "3", "7"),
				mbo("R", "N", "", "0", "0"),
				mbo("A", "B", "99", "1", "8"),
			},
			assertFn: func(t *testing.T, written []*snapshotv1.Snapshot) {
				require.Len(t, written, 3)
				assert.Equal(t, "R", written[1].Metadata.Action)
				assert.Empty(t, written[1].Bids)
				assert.Empty(t, written[1].Asks)
				_, ok := written[2].Ask(0)
				assert.False(t, ok)
				lvl, ok := written[2].Bid(0)
				assertLevel(t, lvl, ok, "99", 1, 1)
			},
		},
		{
			name: "only the first parsed event is checked",
			rows: []string{
				"too,short",
				mbo("A", "B", "99", "1", "8"),
				mbo("R", "N", "", "0", "0"),
			},
			assertFn: func(t *testing.T, written []*snapshotv1.Snapshot) {
				require.Len(t, written, 2)
				assert.Equal(t, "R", written[1].Metadata.Action)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			defer f.ctrl.Finish()

			f.feed(tc.rows...)
			f.collect()

			require.NoError(t, f.engine(nil).Run(context.Background()))
			tc.assertFn(t, f.written)
		})
	}
}

func TestEngine_Run_Events(t *testing.T) {
	testCases := []struct {
		name     string
		rows     []string
		assertFn func(t *testing.T, written []*snapshotv1.Snapshot, stats Stats)
	}{
		{
			name: "trade not followed by fill and cancel leaves the book alone",
			rows: []string{
				mbo("A", "A", "10", "5", "1"),
				mbo("T", "B", "10", "5", "0"),
				mbo("A", "A", "11", "1", "2"),
			},
			assertFn: func(t *testing.T, written []*snapshotv1.Snapshot, stats Stats) {
				require.Len(t, written, 2)
				lvl, ok := written[1].Ask(0)
				assertLevel(t, lvl, ok, "10", 5, 1)
				lvl, ok = written[1].Ask(1)
				assertLevel(t, lvl, ok, "11", 1, 1)
				assert.Equal(t, int64(0), stats.TradesConsumed)
				assert.Equal(t, int64(1), stats.EventsBuffered)
			},
		},
		{
			name: "excess trade volume is discarded",
			rows: []string{
				mbo("A", "A", "10", "5", "1"),
				mbo("T", "B", "10", "8", "0"),
				mbo("F", "A", "10", "5", "1"),
				mbo("C", "A", "10", "5", "1"),
			},
			assertFn: func(t *testing.T, written []*snapshotv1.Snapshot, stats Stats) {
				require.Len(t, written, 2)
				assert.Empty(t, written[1].Asks)
				assert.Equal(t, int64(3), stats.UnfilledVolume)
			},
		},
		{
			name: "trade without side completes the triplet without consuming",
			rows: []string{
				mbo("A", "A", "10", "5", "1"),
				mbo("T", "N", "10", "5", "0"),
				mbo("F", "A", "10", "5", "1"),
				mbo("C", "A", "10", "5", "1"),
			},
			assertFn: func(t *testing.T, written []*snapshotv1.Snapshot, stats Stats) {
				require.Len(t, written, 2)
				lvl, ok := written[1].Ask(0)
				assertLevel(t, lvl, ok, "10", 5, 1)
				assert.Equal(t, int64(0), stats.TradesConsumed)
			},
		},
		{
			name: "unknown ids and duplicates are counted",
			rows: []string{
				mbo("C", "B", "10", "1", "404"),
				mbo("M", "B", "10", "1", "405"),
				mbo("A", "B", "10", "1", "1"),
				mbo("A", "B", "11", "4", "1"),
				mbo("A", "N", "12", "1", "2"),
			},
			assertFn: func(t *testing.T, written []*snapshotv1.Snapshot, stats Stats) {
				require.Len(t, written, 5)
				lvl, ok := written[4].Bid(0)
				assertLevel(t, lvl, ok, "11", 4, 1)
				_, ok = written[4].Bid(1)
				assert.False(t, ok)
				assert.Equal(t, int64(2), stats.UnknownOrders)
				assert.Equal(t, int64(1), stats.DuplicatesReplaced)
				assert.Equal(t, int64(1), stats.AddsRejected)
			},
		},
		{
			name: "malformed rows are skipped",
			rows: []string{
				"a,b,c",
				mbo("A", "B", "10", "1", "1"),
				"",
			},
			assertFn: func(t *testing.T, written []*snapshotv1.Snapshot, stats Stats) {
				require.Len(t, written, 1)
				assert.Equal(t, int64(2), stats.RowsSkipped)
				assert.Equal(t, int64(1), stats.RowsRead)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			defer f.ctrl.Finish()

			f.feed(tc.rows...)
			f.collect()

			e := f.engine(&Options{Validate: true})
			require.NoError(t, e.Run(context.Background()))
			tc.assertFn(t, f.written, e.Stats())
		})
	}
}

func TestEngine_Run_Failures(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(f *testFixture)
		assertFn func(t *testing.T, err error, f *testFixture)
	}{
		{
			name: "malformed csv row is skipped",
			mockFn: func(f *testFixture) {
				gomock.InOrder(
					f.reader.EXPECT().ReadRecord(gomock.Any()).Return(nil, eventv1.ErrMalformedRow),
					f.reader.EXPECT().ReadRecord(gomock.Any()).Return(strings.Split(mbo("A", "B", "1", "1", "1"), ","), nil),
					f.reader.EXPECT().ReadRecord(gomock.Any()).Return(nil, io.EOF),
				)
				f.collect()
			},
			assertFn: func(t *testing.T, err error, f *testFixture) {
				require.NoError(t, err)
				assert.Len(t, f.written, 1)
			},
		},
		{
			name: "read failure is fatal",
			mockFn: func(f *testFixture) {
				f.reader.EXPECT().ReadRecord(gomock.Any()).Return(nil,
					pkgErrors.NewErrorDetailsWithCause("cannot read input", pkgErrors.InputReadError, "input", errors.New("i/o error")))
			},
			assertFn: func(t *testing.T, err error, f *testFixture) {
				require.Error(t, err)
				assert.True(t, pkgErrors.ErrorCodeEquals(err, string(pkgErrors.InputReadError)))
			},
		},
		{
			name: "sink failure is fatal",
			mockFn: func(f *testFixture) {
				f.reader.EXPECT().ReadRecord(gomock.Any()).Return(strings.Split(mbo("A", "B", "1", "1", "1"), ","), nil)
				f.sink.EXPECT().Write(gomock.Any(), gomock.Any()).
					Return(pkgErrors.NewErrorDetailsWithCause("failed to write snapshot", pkgErrors.SinkWriteError, "csv", errors.New("disk full")))
			},
			assertFn: func(t *testing.T, err error, f *testFixture) {
				require.Error(t, err)
				assert.True(t, pkgErrors.ErrorCodeEquals(err, string(pkgErrors.SinkWriteError)))
			},
		},
		{
			name: "event id is attached to the sink context",
			mockFn: func(f *testFixture) {
				gomock.InOrder(
					f.reader.EXPECT().ReadRecord(gomock.Any()).Return(strings.Split(mbo("A", "B", "1", "1", "1"), ","), nil),
					f.reader.EXPECT().ReadRecord(gomock.Any()).Return(nil, io.EOF),
				)
				f.sink.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, _ *snapshotv1.Snapshot) error {
						if util.GetEventID(ctx) == "" {
							return errors.New("missing event id")
						}
						if row, ok := util.GetRowIndex(ctx); !ok || row != 1 {
							return errors.New("missing row index")
						}
						return nil
					})
			},
			assertFn: func(t *testing.T, err error, f *testFixture) {
				assert.NoError(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			defer f.ctrl.Finish()

			tc.mockFn(f)
			err := f.engine(nil).Run(context.Background())
			tc.assertFn(t, err, f)
		})
	}
}

func TestEngine_Run_Cancelled(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.engine(nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
