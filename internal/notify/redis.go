package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultChannel is the Redis pub/sub channel events are published on.
const DefaultChannel = "restopos:eventos"

const publishTimeout = 2 * time.Second

// RedisPublisher mirrors every event to a Redis pub/sub channel so kitchen
// displays and other LAN processes can follow the ledger.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	wg      sync.WaitGroup
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

// Notify publishes in the background; the caller never waits on Redis.
func (p *RedisPublisher) Notify(tipo string, payload any) {
	ev, ok := nuevoEvento(tipo, payload)
	if !ok {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
			log.Warn().Err(err).Str("tipo", tipo).Str("channel", p.channel).Msg("notify: redis publish failed")
		}
	}()
}

// Wait blocks until in-flight publishes finish. Used on shutdown.
func (p *RedisPublisher) Wait() { p.wg.Wait() }
