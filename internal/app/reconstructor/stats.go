package reconstructor

import "github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"

// Stats counts what happened during a run.
type Stats struct {
	RowsRead           int64 `json:"rows_read"`
	RowsSkipped        int64 `json:"rows_skipped"`
	EventsApplied      int64 `json:"events_applied"`
	EventsBuffered     int64 `json:"events_buffered"`
	TradesConsumed     int64 `json:"trades_consumed"`
	UnfilledVolume     int64 `json:"unfilled_volume"`
	UnknownOrders      int64 `json:"unknown_orders"`
	DuplicatesReplaced int64 `json:"duplicates_replaced"`
	AddsRejected       int64 `json:"adds_rejected"`
	SnapshotsEmitted   int64 `json:"snapshots_emitted"`
}

func (s Stats) fields() []logger.Field {
	return []logger.Field{
		logger.NewField("rows_read", s.RowsRead),
		logger.NewField("rows_skipped", s.RowsSkipped),
		logger.NewField("events_applied", s.EventsApplied),
		logger.NewField("events_buffered", s.EventsBuffered),
		logger.NewField("trades_consumed", s.TradesConsumed),
		logger.NewField("unfilled_volume", s.UnfilledVolume),
		logger.NewField("unknown_orders", s.UnknownOrders),
		logger.NewField("duplicates_replaced", s.DuplicatesReplaced),
		logger.NewField("adds_rejected", s.AddsRejected),
		logger.NewField("snapshots_emitted", s.SnapshotsEmitted),
	}
}
