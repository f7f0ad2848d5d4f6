package bootstrap

import (
	"context"

	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	csvInfra "github.com/muhammadchandra19/mbp-reconstruction/internal/infrastructure/csv"
	kafkaInfra "github.com/muhammadchandra19/mbp-reconstruction/internal/infrastructure/kafka"
	questdbInfra "github.com/muhammadchandra19/mbp-reconstruction/internal/infrastructure/questdb"
	redisInfra "github.com/muhammadchandra19/mbp-reconstruction/internal/infrastructure/redis"
	"github.com/muhammadchandra19/mbp-reconstruction/internal/usecase/snapshot"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/questdb"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/redis"
)

// registerSinks creates the CSV output and every optional sink the config enables.
func (b *Bootstrap) registerSinks(ctx context.Context) error {
	primary, err := csvInfra.Create(b.Config.Recon.OutputPath)
	if err != nil {
		return err
	}

	opened := []snapshotv1.Sink{primary}
	closeOpened := func() {
		for _, s := range opened {
			_ = s.Close()
		}
	}

	opts := []snapshot.Option{snapshot.WithWriteTimeout(b.Config.Recon.WriteTimeout)}

	if b.Config.Kafka.Enabled {
		publisher := kafkaInfra.NewPublisher(kafkaInfra.Config{
			Brokers:      b.Config.Kafka.Brokers,
			Topic:        b.Config.Kafka.Topic,
			BatchSize:    b.Config.Kafka.BatchSize,
			BatchTimeout: b.Config.Kafka.BatchTimeout,
		}, b.Logger)
		opened = append(opened, publisher)
		opts = append(opts, snapshot.WithSink("kafka", publisher))
		b.Logger.InfoContext(ctx, "kafka sink enabled", logger.NewField("topic", b.Config.Kafka.Topic))
	}

	if b.Config.Redis.Enabled {
		rclient := redis.NewClient(b.Logger, &b.Config.Redis.Config)
		if err := rclient.Connect(ctx); err != nil {
			closeOpened()
			return err
		}
		store := redisInfra.NewStore(rclient, b.Config.Redis.Channel, b.Logger)
		opened = append(opened, store)
		opts = append(opts, snapshot.WithSink("redis", store))
		b.Logger.InfoContext(ctx, "redis sink enabled", logger.NewField("channel", b.Config.Redis.Channel))
	}

	if b.Config.QuestDB.Enabled {
		qclient, err := questdb.NewClient(ctx, b.Config.QuestDB.Config)
		if err != nil {
			closeOpened()
			return err
		}
		sink := questdbInfra.NewSink(qclient, b.Config.QuestDB.BatchSize, b.Logger)
		opened = append(opened, sink)
		opts = append(opts, snapshot.WithSink("questdb", sink))
		b.Logger.InfoContext(ctx, "questdb sink enabled", logger.NewField("table", questdbInfra.Table))
	}

	b.Sink = snapshot.NewMultiSink("csv", primary, b.Logger, opts...)
	return nil
}
