package csv

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	eventv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/event/v1"
	orderbookv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mboHeader = "ts_recv,ts_event,rtype,publisher_id,instrument_id,action,side,price,size,channel_id,order_id,flags,ts_in_delta,sequence,symbol\n"

func TestReader_ReadRecord(t *testing.T) {
	input := mboHeader +
		"r1,e1,160,2,1108,R,N,,0,0,0,8,0,0,ARL\n" +
		"r2,e2,160,2,1108,A,B,5.51,100,0,817593,130,165200,851012,ARL\n" +
		"short,row\n" +
		"r3,e3,160,2,1108,C,B,5.51,100,0,817593,130,165200,851013,\"AR\"L\n"

	r := NewReader(strings.NewReader(input))
	ctx := context.Background()

	rec, err := r.ReadRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "e1", rec[1])
	assert.Len(t, rec, 15)

	rec, err = r.ReadRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", rec[eventv1.IdxAction])

	rec, err = r.ReadRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"short", "row"}, rec, "variable field counts are allowed")

	rec, err = r.ReadRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "C", rec[eventv1.IdxAction])

	_, err = r.ReadRecord(ctx)
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, r.Close())
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.ReadRecord(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_CancelledContext(t *testing.T) {
	r := NewReader(strings.NewReader(mboHeader))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadRecord(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.InputOpenError)))
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	e, err := eventv1.FromFields(strings.Split("r2,e2,160,2,1108,A,B,5.51,100,0,817593,130,165200,851012,ARL", ","))
	require.NoError(t, err)

	snap := snapshotv1.NewSnapshot(1, e,
		[]orderbookv1.Level{{Price: decimal.RequireFromString("5.51"), Size: 100, Count: 1}},
		nil,
	)
	require.NoError(t, w.Write(context.Background(), snap))
	assert.Equal(t, int64(1), w.Rows())
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(snapshotv1.Header(), ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "e2,r2,160,2,1108,A,B,0,5.51,100,130,165200,851012,ARL,817593,5.51,100,1,,,,"))
	assert.Len(t, strings.Split(lines[1], ","), len(snapshotv1.Header()))
}

func TestCreate(t *testing.T) {
	t.Run("writes header to a new file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mbp_output.csv")
		w, err := Create(path)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "ts_event,ts_recv,"))
	})

	t.Run("unwritable location", func(t *testing.T) {
		_, err := Create(filepath.Join(t.TempDir(), "missing-dir", "out.csv"))
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.OutputCreateError)))
	})
}
