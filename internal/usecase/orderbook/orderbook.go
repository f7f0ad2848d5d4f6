package orderbook

import (
	"fmt"
	"sort"
	"sync"

	orderbookv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// Orderbook is a price-time priority book rebuilt from MBO events.
//
// Limits are looked up by price key and also kept in two ladders sorted best
// first, so top-of-book queries never sort.
type Orderbook struct {
	mu        sync.RWMutex
	AskLimits map[string]*orderbookv1.Limit // price -> limit
	BidLimits map[string]*orderbookv1.Limit // price -> limit
	Orders    map[int64]*orderbookv1.Order  // orderID -> order

	asks orderbookv1.Limits // ascending
	bids orderbookv1.Limits // descending
}

var _ orderbookv1.Orderbook = (*Orderbook)(nil)

// NewOrderbook creates a new orderbook
func NewOrderbook() *Orderbook {
	return &Orderbook{
		AskLimits: make(map[string]*orderbookv1.Limit),
		BidLimits: make(map[string]*orderbookv1.Limit),
		Orders:    make(map[int64]*orderbookv1.Order),
	}
}

func priceKey(price decimal.Decimal) string {
	return price.String()
}

// Add rests order at the back of its level. A live order with the same id is
// removed first, as if it had been cancelled.
func (ob *Orderbook) Add(order *orderbookv1.Order) (bool, error) {
	if order == nil {
		return false, orderbookv1.ErrNilOrder
	}
	if !order.Side.IsReal() {
		return false, fmt.Errorf("%w: order %d", orderbookv1.ErrInvalidSide, order.ID)
	}
	if order.Size < 0 {
		return false, fmt.Errorf("%w: order %d has size %d", orderbookv1.ErrInvalidSize, order.ID, order.Size)
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	replaced := false
	if existing, ok := ob.Orders[order.ID]; ok {
		ob.removeOrder(existing)
		replaced = true
	}

	limits := ob.sideLimits(order.Side)
	key := priceKey(order.Price)
	limit, exists := limits[key]
	if !exists {
		limit = orderbookv1.NewLimit(order.Price)
		limits[key] = limit
		ob.insertLimit(order.Side, limit)
	}

	if err := limit.AddOrder(order); err != nil {
		if limit.IsEmpty() {
			ob.deleteLimit(order.Side, limit)
		}
		return replaced, err
	}

	ob.Orders[order.ID] = order

	return replaced, nil
}

// Modify sets a resting order's size in place. Priority is not reset.
func (ob *Orderbook) Modify(orderID int64, size int64) bool {
	if size < 0 {
		return false
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, exists := ob.Orders[orderID]
	if !exists || order.Limit == nil {
		return false
	}

	return order.Limit.Resize(order, size) == nil
}

// Cancel removes an order. Unknown ids are ignored.
func (ob *Orderbook) Cancel(orderID int64) bool {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, exists := ob.Orders[orderID]
	if !exists {
		return false
	}

	ob.removeOrder(order)
	return true
}

// Consume executes size against the side level at price, front of queue first.
// Volume beyond what rests at that level is reported as unfilled and dropped.
func (ob *Orderbook) Consume(price decimal.Decimal, size int64, side orderbookv1.Side) (filled, unfilled int64) {
	if size <= 0 {
		return 0, 0
	}
	if !side.IsReal() {
		return 0, size
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	limit, exists := ob.sideLimits(side)[priceKey(price)]
	if !exists {
		return 0, size
	}

	filled, removed := limit.Consume(size)
	for _, order := range removed {
		delete(ob.Orders, order.ID)
	}

	if limit.IsEmpty() {
		ob.deleteLimit(side, limit)
	}

	return filled, size - filled
}

// TopLevels returns up to n levels per side in priority order.
func (ob *Orderbook) TopLevels(n int) (bids, asks []orderbookv1.Level) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	return levels(ob.bids, n), levels(ob.asks, n)
}

func levels(ladder orderbookv1.Limits, n int) []orderbookv1.Level {
	n = max(0, min(n, len(ladder)))
	out := make([]orderbookv1.Level, 0, n)
	for _, limit := range ladder[:n] {
		out = append(out, limit.Level())
	}
	return out
}

// Clear drops every order and level.
func (ob *Orderbook) Clear() {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	for _, order := range ob.Orders {
		order.Limit = nil
	}
	ob.AskLimits = make(map[string]*orderbookv1.Limit)
	ob.BidLimits = make(map[string]*orderbookv1.Limit)
	ob.Orders = make(map[int64]*orderbookv1.Order)
	ob.asks = nil
	ob.bids = nil
}

// Order returns a copy of the resting order with the given id.
func (ob *Orderbook) Order(orderID int64) (orderbookv1.Order, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	order, exists := ob.Orders[orderID]
	if !exists {
		return orderbookv1.Order{}, false
	}
	return *order, true
}

// Len returns the number of resting orders.
func (ob *Orderbook) Len() int {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return len(ob.Orders)
}

// Asks returns ask limits sorted by price (ascending)
func (ob *Orderbook) Asks() []*orderbookv1.Limit {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	limits := make([]*orderbookv1.Limit, len(ob.asks))
	copy(limits, ob.asks)
	return limits
}

// Bids returns bid limits sorted by price (descending)
func (ob *Orderbook) Bids() []*orderbookv1.Limit {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	limits := make([]*orderbookv1.Limit, len(ob.bids))
	copy(limits, ob.bids)
	return limits
}

// Validate checks that the order index, the price maps and the ladders agree.
func (ob *Orderbook) Validate() error {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	if !sort.IsSorted(orderbookv1.ByBestBid{Limits: ob.bids}) {
		return fmt.Errorf("bid ladder is not in descending price order")
	}
	if !sort.IsSorted(orderbookv1.ByBestAsk{Limits: ob.asks}) {
		return fmt.Errorf("ask ladder is not in ascending price order")
	}

	resting := 0
	for _, side := range []orderbookv1.Side{orderbookv1.SideBid, orderbookv1.SideAsk} {
		ladder := ob.ladder(side)
		limits := ob.sideLimits(side)
		if len(ladder) != len(limits) {
			return fmt.Errorf("%s side has %d levels in ladder but %d indexed", side, len(ladder), len(limits))
		}

		for i, limit := range ladder {
			if i > 0 && limit.Price.Equal(ladder[i-1].Price) {
				return fmt.Errorf("%s side has duplicate level %s", side, limit.Price)
			}
			if limits[priceKey(limit.Price)] != limit {
				return fmt.Errorf("%s level %s is not indexed", side, limit.Price)
			}
			if err := limit.Validate(); err != nil {
				return err
			}
			for _, order := range limit.Orders {
				if order.Side != side {
					return fmt.Errorf("order %d on side %s rests in a %s level", order.ID, order.Side, side)
				}
				if ob.Orders[order.ID] != order {
					return fmt.Errorf("order %d in level %s is not indexed", order.ID, limit.Price)
				}
				resting++
			}
		}
	}

	if resting != len(ob.Orders) {
		return fmt.Errorf("index holds %d orders but levels hold %d", len(ob.Orders), resting)
	}

	return nil
}

// removeOrder detaches order from its level and the index. Caller holds the lock.
func (ob *Orderbook) removeOrder(order *orderbookv1.Order) {
	// RemoveOrder clears order.Limit
	limit := order.Limit
	if limit != nil {
		_ = limit.RemoveOrder(order)
		if limit.IsEmpty() {
			ob.deleteLimit(order.Side, limit)
		}
	}
	delete(ob.Orders, order.ID)
}

func (ob *Orderbook) sideLimits(side orderbookv1.Side) map[string]*orderbookv1.Limit {
	if side == orderbookv1.SideBid {
		return ob.BidLimits
	}
	return ob.AskLimits
}

func (ob *Orderbook) ladder(side orderbookv1.Side) orderbookv1.Limits {
	if side == orderbookv1.SideBid {
		return ob.bids
	}
	return ob.asks
}

// search returns the ladder position where price belongs.
func search(side orderbookv1.Side, ladder orderbookv1.Limits, price decimal.Decimal) int {
	if side == orderbookv1.SideBid {
		return sort.Search(len(ladder), func(i int) bool {
			return ladder[i].Price.LessThanOrEqual(price)
		})
	}
	return sort.Search(len(ladder), func(i int) bool {
		return ladder[i].Price.GreaterThanOrEqual(price)
	})
}

func (ob *Orderbook) insertLimit(side orderbookv1.Side, limit *orderbookv1.Limit) {
	ladder := ob.ladder(side)
	i := search(side, ladder, limit.Price)
	ladder = append(ladder, nil)
	copy(ladder[i+1:], ladder[i:])
	ladder[i] = limit
	ob.setLadder(side, ladder)
}

func (ob *Orderbook) deleteLimit(side orderbookv1.Side, limit *orderbookv1.Limit) {
	delete(ob.sideLimits(side), priceKey(limit.Price))

	ladder := ob.ladder(side)
	i := search(side, ladder, limit.Price)
	if i < len(ladder) && ladder[i] == limit {
		ladder = append(ladder[:i], ladder[i+1:]...)
		ob.setLadder(side, ladder)
	}
}

func (ob *Orderbook) setLadder(side orderbookv1.Side, ladder orderbookv1.Limits) {
	if side == orderbookv1.SideBid {
		ob.bids = ladder
		return
	}
	ob.asks = ladder
}
