package snapshot

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	snapshotv1_mock "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1/mock"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	loggerMock "github.com/muhammadchandra19/mbp-reconstruction/pkg/logger/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiSink_Write(t *testing.T) {
	snap := &snapshotv1.Snapshot{Seq: 7, TsEvent: "ts"}

	testCases := []struct {
		name     string
		mockFn   func(primary, kafka, redis *snapshotv1_mock.MockSink, log *loggerMock.MockInterface)
		assertFn func(t *testing.T, m *MultiSink, err error)
	}{
		{
			name: "all sinks receive the snapshot",
			mockFn: func(primary, kafka, redis *snapshotv1_mock.MockSink, log *loggerMock.MockInterface) {
				gomock.InOrder(
					primary.EXPECT().Write(gomock.Any(), snap).Return(nil),
					kafka.EXPECT().Write(gomock.Any(), snap).Return(nil),
					redis.EXPECT().Write(gomock.Any(), snap).Return(nil),
				)
			},
			assertFn: func(t *testing.T, m *MultiSink, err error) {
				assert.NoError(t, err)
				assert.Empty(t, m.Failures())
			},
		},
		{
			name: "primary failure is returned and secondaries are skipped",
			mockFn: func(primary, kafka, redis *snapshotv1_mock.MockSink, log *loggerMock.MockInterface) {
				primary.EXPECT().Write(gomock.Any(), snap).Return(stderrors.New("disk full"))
			},
			assertFn: func(t *testing.T, m *MultiSink, err error) {
				require.Error(t, err)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.SinkWriteError)))
				assert.ErrorContains(t, err, "disk full")
			},
		},
		{
			name: "secondary failure is logged and counted",
			mockFn: func(primary, kafka, redis *snapshotv1_mock.MockSink, log *loggerMock.MockInterface) {
				primary.EXPECT().Write(gomock.Any(), snap).Return(nil)
				kafka.EXPECT().Write(gomock.Any(), snap).Return(stderrors.New("broker down"))
				redis.EXPECT().Write(gomock.Any(), snap).Return(nil)
				log.EXPECT().WarnContext(gomock.Any(), "secondary sink write failed", gomock.Any(), gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, m *MultiSink, err error) {
				assert.NoError(t, err)
				assert.Equal(t, map[string]int64{"kafka": 1}, m.Failures())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			primary := snapshotv1_mock.NewMockSink(ctrl)
			kafka := snapshotv1_mock.NewMockSink(ctrl)
			redis := snapshotv1_mock.NewMockSink(ctrl)
			log := loggerMock.NewMockInterface(ctrl)
			tc.mockFn(primary, kafka, redis, log)

			m := NewMultiSink("csv", primary, log,
				WithSink("kafka", kafka),
				WithSink("redis", redis),
				WithWriteTimeout(time.Second),
			)
			tc.assertFn(t, m, m.Write(context.Background(), snap))
		})
	}
}

func TestMultiSink_SecondaryWriteHasDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	primary := snapshotv1_mock.NewMockSink(ctrl)
	secondary := snapshotv1_mock.NewMockSink(ctrl)
	log := loggerMock.NewMockInterface(ctrl)

	primary.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ *snapshotv1.Snapshot) error {
		_, ok := ctx.Deadline()
		assert.False(t, ok)
		return nil
	})
	secondary.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ *snapshotv1.Snapshot) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})

	m := NewMultiSink("csv", primary, log, WithSink("questdb", secondary), WithWriteTimeout(time.Second))
	assert.NoError(t, m.Write(context.Background(), &snapshotv1.Snapshot{}))
}

func TestMultiSink_Close(t *testing.T) {
	t.Run("closes secondaries before primary", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		primary := snapshotv1_mock.NewMockSink(ctrl)
		secondary := snapshotv1_mock.NewMockSink(ctrl)
		gomock.InOrder(
			secondary.EXPECT().Close().Return(nil),
			primary.EXPECT().Close().Return(nil),
		)

		m := NewMultiSink("csv", primary, loggerMock.NewMockInterface(ctrl), WithSink("redis", secondary))
		assert.NoError(t, m.Close())
	})

	t.Run("collects every close failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		primary := snapshotv1_mock.NewMockSink(ctrl)
		secondary := snapshotv1_mock.NewMockSink(ctrl)
		secondary.EXPECT().Close().Return(stderrors.New("flush failed"))
		primary.EXPECT().Close().Return(stderrors.New("sync failed"))

		m := NewMultiSink("csv", primary, loggerMock.NewMockInterface(ctrl), WithSink("questdb", secondary))
		err := m.Close()

		var baseErr *errors.BaseError
		require.ErrorAs(t, err, &baseErr)
		assert.True(t, baseErr.IsAllCodeEqual(string(errors.SinkCloseError)))
		assert.Equal(t, []string{"questdb", "csv"}, baseErr.Fields())
	})
}
