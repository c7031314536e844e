// Package presence shares online state and realtime events between API
// instances through Redis.
package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"greia/pkg/logger"
)

const (
	onlineKey     = "greia:presence:connections"
	eventsChannel = "greia:events"
)

// Envelope is one event relayed to every instance.
type Envelope struct {
	Origin  string          `json:"origin"`
	UserIDs []string        `json:"userIds"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
}

type Store struct {
	client   *redis.Client
	instance string
}

func NewStoreFromURL(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Presence store connected to %s", opts.Addr)
	return NewStoreFromClient(client), nil
}

func NewStoreFromClient(client *redis.Client) *Store {
	return &Store{client: client, instance: uuid.New().String()}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Connected counts one more live connection for userID across the fleet.
// It reports whether this is the user's first connection anywhere.
func (s *Store) Connected(ctx context.Context, userID string) (bool, error) {
	n, err := s.client.HIncrBy(ctx, onlineKey, userID, 1).Result()
	if err != nil {
		return false, fmt.Errorf("presence connect: %w", err)
	}
	return n == 1, nil
}

// Disconnected drops one connection and reports whether the user has none left.
func (s *Store) Disconnected(ctx context.Context, userID string) (bool, error) {
	n, err := s.client.HIncrBy(ctx, onlineKey, userID, -1).Result()
	if err != nil {
		return false, fmt.Errorf("presence disconnect: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := s.client.HDel(ctx, onlineKey, userID).Err(); err != nil {
		return true, fmt.Errorf("presence cleanup: %w", err)
	}
	return true, nil
}

func (s *Store) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := s.client.HGet(ctx, onlineKey, userID).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("presence lookup: %w", err)
	}
	return n > 0, nil
}

// Publish relays an event to the other instances.
func (s *Store) Publish(ctx context.Context, userIDs []string, event string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal relay data: %w", err)
	}
	payload, err := json.Marshal(Envelope{Origin: s.instance, UserIDs: userIDs, Event: event, Data: raw})
	if err != nil {
		return fmt.Errorf("marshal relay envelope: %w", err)
	}
	return s.client.Publish(ctx, eventsChannel, payload).Err()
}

// Subscribe delivers events published by other instances to fn until ctx
// is cancelled.
func (s *Store) Subscribe(ctx context.Context, fn func(Envelope)) {
	sub := s.client.Subscribe(ctx, eventsChannel)

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
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					logger.Warn("Dropping malformed relay message: %v", err)
					continue
				}
				if env.Origin == s.instance {
					continue
				}
				fn(env)
			}
		}
	}()
}
