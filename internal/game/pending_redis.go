package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trivia-wager/backend/internal/models"
)

// takeScript deletes the pending round only if its question ID matches, so
// Take stays a single atomic operation on the Redis backend too.
var takeScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
	return false
end
local round = cjson.decode(v)
if round.questionId ~= ARGV[1] then
	return false
end
redis.call('DEL', KEYS[1])
return v
`)

// RedisPendingStore keeps pending rounds in an external keyed cache so round
// continuity survives process restarts. A ttl of zero keeps entries forever,
// matching the in-memory backend; a positive ttl expires abandoned rounds,
// which is a documented deviation from the no-expiry contract.
type RedisPendingStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPendingStore(client *redis.Client, ttl time.Duration) *RedisPendingStore {
	return &RedisPendingStore{client: client, ttl: ttl}
}

func (s *RedisPendingStore) Put(ctx context.Context, userID int64, round models.PendingRound) error {
	b, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("encode pending round: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("store pending round: %w", err)
	}
	return nil
}

func (s *RedisPendingStore) Get(ctx context.Context, userID int64) (models.PendingRound, bool, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return models.PendingRound{}, false, nil
	}
	if err != nil {
		return models.PendingRound{}, false, fmt.Errorf("load pending round: %w", err)
	}
	var round models.PendingRound
	if err := json.Unmarshal(raw, &round); err != nil {
		return models.PendingRound{}, false, fmt.Errorf("decode pending round: %w", err)
	}
	return round, true, nil
}

func (s *RedisPendingStore) Take(ctx context.Context, userID int64, questionID string) (models.PendingRound, bool, error) {
	res, err := takeScript.Run(ctx, s.client, []string{s.key(userID)}, questionID).Result()
	if err == redis.Nil {
		return models.PendingRound{}, false, nil
	}
	if err != nil {
		return models.PendingRound{}, false, fmt.Errorf("take pending round: %w", err)
	}
	raw, ok := res.(string)
	if !ok {
		return models.PendingRound{}, false, nil
	}
	var round models.PendingRound
	if err := json.Unmarshal([]byte(raw), &round); err != nil {
		return models.PendingRound{}, false, fmt.Errorf("decode pending round: %w", err)
	}
	return round, true, nil
}

func (s *RedisPendingStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete pending round: %w", err)
	}
	return nil
}

func (s *RedisPendingStore) key(userID int64) string {
	return fmt.Sprintf("round:pending:%d", userID)
}
