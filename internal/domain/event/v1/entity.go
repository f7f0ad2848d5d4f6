package eventv1

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	orderbookv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// MinFields is the smallest row width that carries every field the book needs.
const MinFields = 11

// Column positions in an MBO row.
const (
	IdxTsRecv       = 0
	IdxTsEvent      = 1
	IdxRType        = 2
	IdxPublisher    = 3
	IdxInstrumentID = 4
	IdxAction       = 5
	IdxSide         = 6
	IdxPrice        = 7
	IdxSize         = 8
	IdxChannelID    = 9
	IdxOrderID      = 10
	IdxFlags        = 11
	IdxTsInDelta    = 12
	IdxSequence     = 13
	IdxSymbol       = 14
)

var (
	// ErrMalformedRow marks a row that cannot be used and should be skipped.
	ErrMalformedRow = errors.New("malformed row")
	// ErrTooFewFields is returned for rows shorter than MinFields.
	ErrTooFewFields = fmt.Errorf("%w: too few fields", ErrMalformedRow)
)

// Action is the kind of MBO event.
type Action uint8

const (
	// ActionUnknown covers any code the feed may add later.
	ActionUnknown Action = iota
	// ActionAdd rests a new order.
	ActionAdd
	// ActionModify changes a resting order's size.
	ActionModify
	// ActionCancel removes a resting order.
	ActionCancel
	// ActionTrade reports an aggressor execution.
	ActionTrade
	// ActionFill reports the passive side of an execution.
	ActionFill
	// ActionClear resets the book.
	ActionClear
)

// ParseAction maps the feed's action code.
func ParseAction(code string) Action {
	switch code {
	case "A":
		return ActionAdd
	case "M":
		return ActionModify
	case "C":
		return ActionCancel
	case "T":
		return ActionTrade
	case "F":
		return ActionFill
	case "R":
		return ActionClear
	default:
		return ActionUnknown
	}
}

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "A"
	case ActionModify:
		return "M"
	case ActionCancel:
		return "C"
	case ActionTrade:
		return "T"
	case ActionFill:
		return "F"
	case ActionClear:
		return "R"
	default:
		return "?"
	}
}

// Event is one normalised MBO row. Fields keeps the raw row for passthrough columns.
type Event struct {
	TsEvent string
	Action  Action
	Side    orderbookv1.Side
	Price   decimal.Decimal
	Size    int64
	OrderID int64
	Fields  []string
}

// FromFields parses a raw row. Empty or malformed numbers become zero.
func FromFields(fields []string) (*Event, error) {
	if len(fields) < MinFields {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrTooFewFields, len(fields), MinFields)
	}

	return &Event{
		TsEvent: fields[IdxTsEvent],
		Action:  ParseAction(fields[IdxAction]),
		Side:    orderbookv1.ParseSide(fields[IdxSide]),
		Price:   parseDecimal(fields[IdxPrice]),
		Size:    parseInt(fields[IdxSize]),
		OrderID: parseInt(fields[IdxOrderID]),
		Fields:  fields,
	}, nil
}

// Field returns the raw column at idx, or "" when the row is shorter.
func (e *Event) Field(idx int) string {
	if idx < 0 || idx >= len(e.Fields) {
		return ""
	}
	return e.Fields[idx]
}

// Order builds the resting order an Add event describes.
func (e *Event) Order() *orderbookv1.Order {
	return orderbookv1.NewOrder(e.OrderID, e.Side, e.Price, e.Size)
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
