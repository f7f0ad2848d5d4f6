package orderbookv1

import "github.com/shopspring/decimal"

// Orderbook defines the book operations the reconstruction engine drives.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Orderbook interface {
	// Add rests order at the back of its price level. replaced is true when a
	// live order with the same id was removed first.
	Add(order *Order) (replaced bool, err error)
	// Modify sets the size of a resting order in place. It reports false for unknown ids.
	Modify(orderID int64, size int64) bool
	// Cancel removes a resting order. It reports false for unknown ids.
	Cancel(orderID int64) bool
	// Consume drains size from the front of the side level at price.
	// unfilled is the part of size that found no resting volume.
	Consume(price decimal.Decimal, size int64, side Side) (filled, unfilled int64)
	// TopLevels returns up to n levels per side, best first.
	TopLevels(n int) (bids, asks []Level)
	Clear()
	Len() int
	Validate() error
}
