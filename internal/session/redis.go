package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session under prefix+sid+":user". Keys carry no expiry;
// they live until sign-out.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(sid string) string {
	return s.prefix + sid + ":user"
}

func (s *RedisStore) Save(ctx context.Context, sid string, u User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(sid), data, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context, sid string) (User, error) {
	data, err := s.rdb.Get(ctx, s.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, s.key(sid)).Err()
}
