package orderbookv1

import (
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a test order resting at 100.0
func createTestOrder(id int64, size int64) *Order {
	return NewOrder(id, SideBid, decimal.RequireFromString("100.0"), size)
}

func TestNewLimit(t *testing.T) {
	limit := NewLimit(decimal.RequireFromString("100.0"))

	assert.NotNil(t, limit)
	assert.True(t, limit.Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(0), limit.TotalVolume)
	assert.Empty(t, limit.Orders)
	assert.True(t, limit.IsEmpty())
}

func TestLimit_AddOrder(t *testing.T) {
	t.Run("Add valid order", func(t *testing.T) {
		limit := NewLimit(decimal.NewFromInt(100))
		order := createTestOrder(1, 10)

		require.NoError(t, limit.AddOrder(order))
		assert.Equal(t, 1, limit.OrderCount())
		assert.Equal(t, int64(10), limit.TotalVolume)
		assert.Equal(t, limit, order.Limit)
		assert.False(t, limit.IsEmpty())
	})

	t.Run("Add nil order", func(t *testing.T) {
		limit := NewLimit(decimal.NewFromInt(100))
		assert.ErrorIs(t, limit.AddOrder(nil), ErrNilOrder)
	})

	t.Run("Add order with negative size", func(t *testing.T) {
		limit := NewLimit(decimal.NewFromInt(100))
		assert.ErrorIs(t, limit.AddOrder(createTestOrder(1, -1)), ErrInvalidSize)
	})

	t.Run("Add order with zero size is kept", func(t *testing.T) {
		limit := NewLimit(decimal.NewFromInt(100))
		require.NoError(t, limit.AddOrder(createTestOrder(1, 0)))
		assert.Equal(t, Level{Price: limit.Price, Size: 0, Count: 1}, limit.Level())
	})

	t.Run("Add order at another price", func(t *testing.T) {
		limit := NewLimit(decimal.NewFromInt(101))
		assert.ErrorIs(t, limit.AddOrder(createTestOrder(1, 5)), ErrPriceMismatch)
	})

	t.Run("Add multiple orders keeps arrival order", func(t *testing.T) {
		limit := NewLimit(decimal.NewFromInt(100))
		order1 := createTestOrder(1, 10)
		order2 := createTestOrder(2, 20)

		require.NoError(t, limit.AddOrder(order1))
		require.NoError(t, limit.AddOrder(order2))
		assert.Equal(t, []*Order{order1, order2}, limit.Orders)
		assert.Equal(t, int64(30), limit.TotalVolume)
	})
}

func TestLimit_RemoveOrder(t *testing.T) {
	limit := NewLimit(decimal.NewFromInt(100))
	order1 := createTestOrder(1, 10)
	order2 := createTestOrder(2, 20)
	require.NoError(t, limit.AddOrder(order1))
	require.NoError(t, limit.AddOrder(order2))

	require.NoError(t, limit.RemoveOrder(order1))
	assert.Equal(t, []*Order{order2}, limit.Orders)
	assert.Equal(t, int64(20), limit.TotalVolume)
	assert.Nil(t, order1.Limit)

	assert.ErrorIs(t, limit.RemoveOrder(order1), ErrOrderNotFound)
	assert.ErrorIs(t, limit.RemoveOrder(nil), ErrNilOrder)
}

func TestLimit_Resize(t *testing.T) {
	limit := NewLimit(decimal.NewFromInt(100))
	order1 := createTestOrder(1, 10)
	order2 := createTestOrder(2, 5)
	require.NoError(t, limit.AddOrder(order1))
	require.NoError(t, limit.AddOrder(order2))

	require.NoError(t, limit.Resize(order1, 25))
	assert.Equal(t, int64(25), order1.Size)
	assert.Equal(t, int64(30), limit.TotalVolume)
	assert.Equal(t, order1, limit.Orders[0], "size increase keeps queue position")

	require.NoError(t, limit.Resize(order1, 3))
	assert.Equal(t, int64(8), limit.TotalVolume)

	assert.ErrorIs(t, limit.Resize(order1, -1), ErrInvalidSize)
	assert.ErrorIs(t, limit.Resize(createTestOrder(9, 1), 1), ErrOrderNotFound)
	assert.NoError(t, limit.Validate())
}

func TestLimit_Consume(t *testing.T) {
	testCases := []struct {
		name        string
		sizes       []int64
		consume     int64
		wantFilled  int64
		wantRemoved []int64
		wantLeft    map[int64]int64
	}{
		{
			name:        "partial on first order",
			sizes:       []int64{10, 5},
			consume:     4,
			wantFilled:  4,
			wantRemoved: nil,
			wantLeft:    map[int64]int64{1: 6, 2: 5},
		},
		{
			name:        "exactly first order",
			sizes:       []int64{10, 5},
			consume:     10,
			wantFilled:  10,
			wantRemoved: []int64{1},
			wantLeft:    map[int64]int64{2: 5},
		},
		{
			name:        "spills into second order",
			sizes:       []int64{10, 5, 7},
			consume:     12,
			wantFilled:  12,
			wantRemoved: []int64{1},
			wantLeft:    map[int64]int64{2: 3, 3: 7},
		},
		{
			name:        "more than resting volume",
			sizes:       []int64{10, 5},
			consume:     20,
			wantFilled:  15,
			wantRemoved: []int64{1, 2},
			wantLeft:    map[int64]int64{},
		},
		{
			name:       "zero size is a no-op",
			sizes:      []int64{10},
			consume:    0,
			wantFilled: 0,
			wantLeft:   map[int64]int64{1: 10},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			limit := NewLimit(decimal.NewFromInt(100))
			for i, size := range tc.sizes {
				require.NoError(t, limit.AddOrder(createTestOrder(int64(i+1), size)))
			}

			filled, removed := limit.Consume(tc.consume)
			assert.Equal(t, tc.wantFilled, filled)

			var removedIDs []int64
			for _, o := range removed {
				removedIDs = append(removedIDs, o.ID)
				assert.Nil(t, o.Limit)
			}
			assert.Equal(t, tc.wantRemoved, removedIDs)

			left := map[int64]int64{}
			var total int64
			for _, o := range limit.Orders {
				left[o.ID] = o.Size
				total += o.Size
			}
			assert.Equal(t, tc.wantLeft, left)
			assert.Equal(t, total, limit.TotalVolume)
		})
	}
}

func TestLimit_Validate(t *testing.T) {
	limit := NewLimit(decimal.NewFromInt(100))
	assert.Error(t, limit.Validate(), "empty limit is invalid")

	order := createTestOrder(1, 10)
	require.NoError(t, limit.AddOrder(order))
	assert.NoError(t, limit.Validate())

	limit.TotalVolume = 11
	assert.ErrorContains(t, limit.Validate(), "volume mismatch")
	limit.TotalVolume = 10

	order.Limit = nil
	assert.ErrorContains(t, limit.Validate(), "does not reference limit")
}

func TestLimits_Sorting(t *testing.T) {
	mk := func(prices ...string) Limits {
		limits := make(Limits, 0, len(prices))
		for _, p := range prices {
			limits = append(limits, NewLimit(decimal.RequireFromString(p)))
		}
		return limits
	}
	prices := func(limits Limits) []string {
		out := make([]string, 0, len(limits))
		for _, l := range limits {
			out = append(out, l.Price.String())
		}
		return out
	}

	bids := mk("99.5", "101", "100.25")
	sort.Sort(ByBestBid{bids})
	assert.Equal(t, []string{"101", "100.25", "99.5"}, prices(bids))

	asks := mk("99.5", "101", "100.25")
	sort.Sort(ByBestAsk{asks})
	assert.Equal(t, []string{"99.5", "100.25", "101"}, prices(asks))
}

func TestSide(t *testing.T) {
	assert.Equal(t, SideBid, ParseSide("B"))
	assert.Equal(t, SideAsk, ParseSide("A"))
	assert.Equal(t, SideNone, ParseSide("N"))
	assert.Equal(t, SideNone, ParseSide(""))
	assert.Equal(t, SideNone, ParseSide("b"))

	assert.Equal(t, SideAsk, SideBid.Opposite())
	assert.Equal(t, SideBid, SideAsk.Opposite())
	assert.Equal(t, SideNone, SideNone.Opposite())
	assert.False(t, SideNone.IsReal())
	assert.Equal(t, "B", SideBid.String())
}
