package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	redisx "github.com/kordei/zoneboard/internal/redis"
	"github.com/redis/go-redis/v9"
)

type BoardPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewBoardPubSub(rdb *redis.Client) *BoardPubSub {
	return &BoardPubSub{
		rdb:     rdb,
		channel: redisx.ChannelBoardChanged(),
	}
}

type boardChangedMsg struct {
	Type   string `json:"type"`
	Branch string `json:"branch"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *BoardPubSub) PublishBoardChanged(ctx context.Context, branch string) error {
	msg := boardChangedMsg{
		Type:   "board_changed",
		Branch: branch,
		TsUnix: time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *BoardPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, branch string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev boardChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.Type == "board_changed" {
				handler(ctx, ev.Branch)
			}
		}
	}
}
