package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCenter keeps one sorted set per session, scored by expiry time in
// milliseconds.
type RedisCenter struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisCenter returns a Center backed by client.
func NewRedisCenter(client *redis.Client) *RedisCenter {
	return &RedisCenter{client: client, now: time.Now}
}

// Push appends a new message.
func (c *RedisCenter) Push(ctx context.Context, key string, severity Severity, text string) (Message, error) {
	msg := newMessage(c.now(), severity, text)
	data, err := json.Marshal(msg)
	if err != nil {
		return Message{}, fmt.Errorf("notify: encode: %w", err)
	}
	pipe := c.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey(key), redis.Z{Score: float64(msg.ExpiresAt.UnixMilli()), Member: data})
	pipe.PExpire(ctx, redisKey(key), Lifetime)
	if _, err := pipe.Exec(ctx); err != nil {
		return Message{}, fmt.Errorf("notify: push: %w", err)
	}
	return msg, nil
}

// Active trims expired messages and returns the rest, oldest first.
func (c *RedisCenter) Active(ctx context.Context, key string) ([]Message, error) {
	now := strconv.FormatInt(c.now().UnixMilli(), 10)
	if err := c.client.ZRemRangeByScore(ctx, redisKey(key), "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("notify: trim: %w", err)
	}
	raw, err := c.client.ZRangeByScore(ctx, redisKey(key), &redis.ZRangeBy{Min: "(" + now, Max: "+inf"}).Result()
	if err != nil {
		return nil, fmt.Errorf("notify: list: %w", err)
	}
	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func redisKey(key string) string {
	return "notify:" + key
}
