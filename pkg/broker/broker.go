// Package broker relays comment events between server instances over
// Redis pub/sub, so a websocket client is reached no matter which instance
// handled the originating request.
package broker

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/shakil-official/comment-system/pkg/envelope"
)

const eventsChannel = "comments:events"

type HandlerFunc func(envelope.Envelope)

type Broker struct {
	rdb    *redis.Client
	ctx    context.Context
	cancel context.CancelFunc
}

func New() *Broker {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("invalid redis url:", err)
	}

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithCancel(context.Background())

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis ping failed:", err)
	}

	return &Broker{rdb: rdb, ctx: ctx, cancel: cancel}
}

// Publish pushes one event onto the shared channel. Every instance's hub,
// including this one's, receives it through Subscribe.
func (b *Broker) Publish(env envelope.Envelope) error {
	data, err := env.Marshal()
	if err != nil {
		return err
	}
	return b.rdb.Publish(b.ctx, eventsChannel, data).Err()
}

// PublishEvent marshals data into an event envelope and publishes it.
func (b *Broker) PublishEvent(event, postID string, data interface{}) {
	env, err := envelope.NewEvent(event, postID, data)
	if err != nil {
		log.Printf("[BROKER] marshal %s: %v", event, err)
		return
	}
	if err := b.Publish(env); err != nil {
		log.Printf("[BROKER] publish %s: %v", event, err)
	}
}

// Subscribe starts consuming the shared channel and hands every decoded
// envelope to fn. Undecodable payloads are skipped.
func (b *Broker) Subscribe(fn HandlerFunc) {
	sub := b.rdb.Subscribe(b.ctx, eventsChannel)
	ch := sub.Channel()

	go func() {
		defer sub.Close()
		for {
			select {
			case <-b.ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env envelope.Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					continue
				}
				fn(env)
			}
		}
	}()
}

func (b *Broker) Close() {
	b.cancel()
	b.rdb.Close()
}
