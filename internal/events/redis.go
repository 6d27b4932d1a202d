package events

import (
	"context"
	"encoding/json"
	"expvar"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var (
	eventsPublished     = expvar.NewInt("events_published_total")
	eventsPublishFailed = expvar.NewInt("events_publish_failed_total")
)

const publishTimeout = 2 * time.Second

// RedisPublisher sends each event as JSON on a pub/sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(addr, channel string) *RedisPublisher {
	return &RedisPublisher{
		rdb:     redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
	}
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return p.rdb.Ping(ctx).Err()
}

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		eventsPublishFailed.Add(1)
		log.Warn().Err(err).Str("type", evt.Type).Msg("event_encode_failed")
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		eventsPublishFailed.Add(1)
		log.Warn().Err(err).Str("type", evt.Type).Str("channel", p.channel).Msg("event_publish_failed")
		return
	}
	eventsPublished.Add(1)
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
