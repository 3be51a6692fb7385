package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/logger"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one change-feed entry for the sessions table. On delete only the
// record id is meaningful.
type Event struct {
	Type   EventType          `json:"event"`
	Record *model.ChatSession `json:"record"`
}

// Feed publishes and subscribes to session change events over a Redis
// pub/sub channel. Delivery is at-most-once with no ordering guarantee
// beyond Redis' own; consumers reconcile by primary key.
type Feed struct {
	client  *redis.Client
	channel string
}

func NewFeed(client *redis.Client, channel string) *Feed {
	return &Feed{client: client, channel: channel}
}

// Publish sends one event. Failures are logged and swallowed: the feed is a
// freshness optimization, never part of a mutation's success.
func (f *Feed) Publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("marshal feed event", zap.Error(err))
		return
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		logger.Warn("publish feed event", zap.Error(err), zap.String("channel", f.channel))
	}
}

// Subscribe delivers events to handler until ctx is done. Malformed payloads
// are logged and skipped.
func (f *Feed) Subscribe(ctx context.Context, handler func(Event)) {
	sub := f.client.Subscribe(ctx, f.channel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Warn("bad feed payload", zap.Error(err))
					continue
				}
				handler(ev)
			}
		}
	}()
}
