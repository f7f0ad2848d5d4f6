package orderbookv1

import "github.com/shopspring/decimal"

// Order represents a single resting order in the order book.
type Order struct {
	ID    int64           `json:"id"`
	Side  Side            `json:"side"`
	Price decimal.Decimal `json:"price"`
	Size  int64           `json:"size"`
	Limit *Limit          `json:"-"`
}

// NewOrder creates a new order with the given parameters.
func NewOrder(id int64, side Side, price decimal.Decimal, size int64) *Order {
	return &Order{
		ID:    id,
		Side:  side,
		Price: price,
		Size:  size,
	}
}

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Side == SideBid
}

// IsAsk checks if the order is an ask (sell) order.
func (o *Order) IsAsk() bool {
	return o.Side == SideAsk
}
