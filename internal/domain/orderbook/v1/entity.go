package orderbookv1

import "github.com/shopspring/decimal"

// Level is the aggregated view of one price level: price, total resting size and order count.
type Level struct {
	Price decimal.Decimal `json:"price"`
	Size  int64           `json:"size"`
	Count int             `json:"count"`
}
