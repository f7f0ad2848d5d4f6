package redis

import (
	"context"
	"encoding/json"

	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/redis"
)

const keyPrefix = "mbp10:"

// Store keeps the latest MBP-10 snapshot per instrument in Redis and
// announces every update on a pub/sub channel.
type Store struct {
	channel     string
	logger      logger.Interface
	redisclient redis.Client
}

var _ snapshotv1.Sink = (*Store)(nil)

// NewStore creates a Store. The client must already be connected.
func NewStore(redisclient redis.Client, channel string, log logger.Interface) *Store {
	return &Store{
		channel:     channel,
		logger:      log,
		redisclient: redisclient,
	}
}

// Key returns the key (before the client prefix) holding an instrument's latest snapshot.
func Key(instrumentID string) string {
	return keyPrefix + instrumentID
}

// Write stores the snapshot and publishes it.
func (s *Store) Write(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, Key(snapshot.Metadata.InstrumentID), buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.NewField("instrument_id", snapshot.Metadata.InstrumentID),
			logger.NewField("action", "store snapshot"),
		)
		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}

	receivers, err := s.redisclient.Publish(ctx, s.channel, buf)
	if err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.NewField("channel", s.channel),
			logger.NewField("action", "publish snapshot"),
		)
		return errors.NewTracer("snapshot_publish_error").Wrap(err)
	}

	s.logger.DebugContext(ctx, "snapshot published",
		logger.NewField("channel", s.channel),
		logger.NewField("seq", snapshot.Seq),
		logger.NewField("receivers", receivers),
	)
	return nil
}

// Latest loads the last stored snapshot for an instrument. It returns nil when none exists.
func (s *Store) Latest(ctx context.Context, instrumentID string) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, Key(instrumentID))
	if err != nil {
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}
	if data == "" {
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}
	return &snapshot, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.redisclient.Disconnect(context.Background())
}
