package snapshotv1

import (
	"fmt"
	"strconv"

	eventv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/event/v1"
	orderbookv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/orderbook/v1"
)

// Depth is the number of price levels per side in an MBP-10 row.
const Depth = 10

// metadataColumns are the passthrough column names, in output order.
var metadataColumns = []string{
	"ts_recv", "r_type", "publisher", "instrument_id", "action", "side", "depth",
	"price", "size", "flags", "ts_in_delta", "sequence", "symbol", "order_id",
}

// Metadata holds the event columns copied verbatim from the MBO row.
type Metadata struct {
	TsRecv       string `json:"ts_recv"`
	RType        string `json:"r_type"`
	Publisher    string `json:"publisher"`
	InstrumentID string `json:"instrument_id"`
	Action       string `json:"action"`
	Side         string `json:"side"`
	Depth        string `json:"depth"`
	Price        string `json:"price"`
	Size         string `json:"size"`
	Flags        string `json:"flags"`
	TsInDelta    string `json:"ts_in_delta"`
	Sequence     string `json:"sequence"`
	Symbol       string `json:"symbol"`
	OrderID      string `json:"order_id"`
}

// MetadataFromEvent copies the passthrough columns. The depth column carries the
// feed's channel id.
func MetadataFromEvent(e *eventv1.Event) Metadata {
	return Metadata{
		TsRecv:       e.Field(eventv1.IdxTsRecv),
		RType:        e.Field(eventv1.IdxRType),
		Publisher:    e.Field(eventv1.IdxPublisher),
		InstrumentID: e.Field(eventv1.IdxInstrumentID),
		Action:       e.Field(eventv1.IdxAction),
		Side:         e.Field(eventv1.IdxSide),
		Depth:        e.Field(eventv1.IdxChannelID),
		Price:        e.Field(eventv1.IdxPrice),
		Size:         e.Field(eventv1.IdxSize),
		Flags:        e.Field(eventv1.IdxFlags),
		TsInDelta:    e.Field(eventv1.IdxTsInDelta),
		Sequence:     e.Field(eventv1.IdxSequence),
		Symbol:       e.Field(eventv1.IdxSymbol),
		OrderID:      e.Field(eventv1.IdxOrderID),
	}
}

func (m Metadata) values() []string {
	return []string{
		m.TsRecv, m.RType, m.Publisher, m.InstrumentID, m.Action, m.Side, m.Depth,
		m.Price, m.Size, m.Flags, m.TsInDelta, m.Sequence, m.Symbol, m.OrderID,
	}
}

// Snapshot is one MBP-10 row: the triggering event plus the best levels per side.
type Snapshot struct {
	Seq      int64               `json:"seq"`
	TsEvent  string              `json:"ts_event"`
	Metadata Metadata            `json:"metadata"`
	Bids     []orderbookv1.Level `json:"bids"`
	Asks     []orderbookv1.Level `json:"asks"`
}

// NewSnapshot builds the snapshot emitted after e was applied.
func NewSnapshot(seq int64, e *eventv1.Event, bids, asks []orderbookv1.Level) *Snapshot {
	return &Snapshot{
		Seq:      seq,
		TsEvent:  e.TsEvent,
		Metadata: MetadataFromEvent(e),
		Bids:     bids,
		Asks:     asks,
	}
}

// Header returns the MBP-10 CSV header.
func Header() []string {
	header := make([]string, 0, 1+len(metadataColumns)+Depth*6)
	header = append(header, "ts_event")
	header = append(header, metadataColumns...)
	for i := range Depth {
		header = append(header,
			fmt.Sprintf("bid_px_%02d", i),
			fmt.Sprintf("bid_sz_%02d", i),
			fmt.Sprintf("bid_ct_%02d", i),
			fmt.Sprintf("ask_px_%02d", i),
			fmt.Sprintf("ask_sz_%02d", i),
			fmt.Sprintf("ask_ct_%02d", i),
		)
	}
	return header
}

// Record renders the snapshot as a CSV record aligned with Header.
// Missing levels are written as three empty fields.
func (s *Snapshot) Record() []string {
	record := make([]string, 0, 1+len(metadataColumns)+Depth*6)
	record = append(record, s.TsEvent)
	record = append(record, s.Metadata.values()...)
	for i := range Depth {
		record = appendLevel(record, s.Bids, i)
		record = appendLevel(record, s.Asks, i)
	}
	return record
}

// Bid returns the i-th best bid level, if present.
func (s *Snapshot) Bid(i int) (orderbookv1.Level, bool) {
	return levelAt(s.Bids, i)
}

// Ask returns the i-th best ask level, if present.
func (s *Snapshot) Ask(i int) (orderbookv1.Level, bool) {
	return levelAt(s.Asks, i)
}

func levelAt(levels []orderbookv1.Level, i int) (orderbookv1.Level, bool) {
	if i < 0 || i >= len(levels) {
		return orderbookv1.Level{}, false
	}
	return levels[i], true
}

func appendLevel(record []string, levels []orderbookv1.Level, i int) []string {
	lvl, ok := levelAt(levels, i)
	if !ok {
		return append(record, "", "", "")
	}
	return append(record,
		lvl.Price.String(),
		strconv.FormatInt(lvl.Size, 10),
		strconv.Itoa(lvl.Count),
	)
}
