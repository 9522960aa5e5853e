package snapcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyCache keeps one JSON-encoded value per key in a Valkey-compatible database.
type ValkeyCache[T any] struct {
	client valkey.Client
	key    string
	ttl    time.Duration
}

// NewValkeyCache stores the latest value under "<prefix>:<name>:latest".
func NewValkeyCache[T any](client valkey.Client, prefix, name string, ttl time.Duration) *ValkeyCache[T] {
	if prefix == "" {
		prefix = "opsdash"
	}
	return &ValkeyCache[T]{
		client: client,
		key:    fmt.Sprintf("%s:%s:latest", prefix, name),
		ttl:    ttl,
	}
}

func (c *ValkeyCache[T]) Get(ctx context.Context) (T, bool, error) {
	var zero T
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return zero, false, nil
		}
		return zero, false, err
	}
	var value T
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return zero, false, err
	}
	return value, true, nil
}

func (c *ValkeyCache[T]) Set(ctx context.Context, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.key).Value(string(payload))
	var cmd valkey.Completed
	if c.ttl > 0 {
		ttl := c.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}
