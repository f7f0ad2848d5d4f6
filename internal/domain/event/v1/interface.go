package eventv1

import "context"

// Reader yields raw MBO rows in feed order. ReadRecord returns io.EOF after the last row.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=eventv1_mock
type Reader interface {
	ReadRecord(ctx context.Context) ([]string, error)
	Close() error
}
