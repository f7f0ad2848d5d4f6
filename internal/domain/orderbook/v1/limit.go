package orderbookv1

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNilOrder      = errors.New("order cannot be nil")
	ErrInvalidSide   = errors.New("order side must be bid or ask")
	ErrInvalidSize   = errors.New("size must not be negative")
	ErrOrderNotFound = errors.New("order not found in limit")
	ErrPriceMismatch = errors.New("order price does not match limit")
)

// Limit represents a price level in the order book. Orders are kept in
// arrival order, which is their priority inside the level.
//
// Limit is not safe for concurrent use; the owning book serialises access.
type Limit struct {
	Price       decimal.Decimal `json:"price"`
	Orders      []*Order        `json:"orders"`
	TotalVolume int64           `json:"totalVolume"`
}

// NewLimit creates a new Limit with the specified price.
func NewLimit(price decimal.Decimal) *Limit {
	return &Limit{
		Price:  price,
		Orders: make([]*Order, 0),
	}
}

// AddOrder appends an order to the back of the queue and updates the total volume.
func (l *Limit) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Size < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, order.Size)
	}
	if !order.Price.Equal(l.Price) {
		return fmt.Errorf("%w: order %s, limit %s", ErrPriceMismatch, order.Price, l.Price)
	}

	order.Limit = l
	l.Orders = append(l.Orders, order)
	l.TotalVolume += order.Size

	return nil
}

// RemoveOrder removes an order from the limit and updates the total volume.
func (l *Limit) RemoveOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}

	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			l.TotalVolume -= order.Size
			order.Limit = nil
			return nil
		}
	}

	return ErrOrderNotFound
}

// Resize sets a resting order's size in place. The order keeps its queue position.
func (l *Limit) Resize(order *Order, size int64) error {
	if order == nil {
		return ErrNilOrder
	}
	if size < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if order.Limit != l {
		return ErrOrderNotFound
	}

	l.TotalVolume += size - order.Size
	order.Size = size
	return nil
}

// Consume takes up to size from the front of the queue. Orders that are fully
// taken are removed and returned; a partially taken order stays at the front
// with its remaining size. filled is min(size, TotalVolume) for size >= 0.
func (l *Limit) Consume(size int64) (filled int64, removed []*Order) {
	remaining := size

	n := 0
	for n < len(l.Orders) && remaining > 0 {
		order := l.Orders[n]
		if order.Size <= remaining {
			remaining -= order.Size
			l.TotalVolume -= order.Size
			order.Limit = nil
			removed = append(removed, order)
			n++
			continue
		}

		order.Size -= remaining
		l.TotalVolume -= remaining
		remaining = 0
	}

	if n > 0 {
		l.Orders = append(l.Orders[:0], l.Orders[n:]...)
	}

	return size - remaining, removed
}

// IsEmpty checks if the limit has no orders
func (l *Limit) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of orders at this limit
func (l *Limit) OrderCount() int {
	return len(l.Orders)
}

// Level returns the aggregated view of the limit.
func (l *Limit) Level() Level {
	return Level{
		Price: l.Price,
		Size:  l.TotalVolume,
		Count: len(l.Orders),
	}
}

// Validate checks that the stored aggregate matches the resident orders and
// that every order points back at this limit.
func (l *Limit) Validate() error {
	if len(l.Orders) == 0 {
		return fmt.Errorf("empty limit at price %s", l.Price)
	}

	var calculatedVolume int64
	for _, order := range l.Orders {
		if order == nil {
			return fmt.Errorf("nil order found in limit %s", l.Price)
		}
		if order.Size < 0 {
			return fmt.Errorf("%w: order %d has size %d", ErrInvalidSize, order.ID, order.Size)
		}
		if order.Limit != l {
			return fmt.Errorf("order %d does not reference limit %s", order.ID, l.Price)
		}
		if !order.Price.Equal(l.Price) {
			return fmt.Errorf("%w: order %d at %s in limit %s", ErrPriceMismatch, order.ID, order.Price, l.Price)
		}
		calculatedVolume += order.Size
	}

	if calculatedVolume != l.TotalVolume {
		return fmt.Errorf("volume mismatch: calculated %d, stored %d", calculatedVolume, l.TotalVolume)
	}

	return nil
}
