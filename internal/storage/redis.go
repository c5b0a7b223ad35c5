package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLessonStore keeps lesson state in redis so it survives process
// restarts, one key per (user, title) pair.
type RedisLessonStore struct {
	client *redis.Client
}

func NewRedisLessonStore(addr, password string, db int) (*RedisLessonStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	return &RedisLessonStore{client: client}, nil
}

func (s *RedisLessonStore) Save(ctx context.Context, userID int64, title, html string) error {
	if err := s.client.Set(ctx, lessonKey(userID, title), html, 0).Err(); err != nil {
		return fmt.Errorf("error saving lesson state: %w", err)
	}
	return nil
}

func (s *RedisLessonStore) Get(ctx context.Context, userID int64, title string) (string, error) {
	html, err := s.client.Get(ctx, lessonKey(userID, title)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrLessonNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error reading lesson state: %w", err)
	}
	return html, nil
}

func (s *RedisLessonStore) Delete(ctx context.Context, userID int64, title string) error {
	if err := s.client.Del(ctx, lessonKey(userID, title)).Err(); err != nil {
		return fmt.Errorf("error deleting lesson state: %w", err)
	}
	return nil
}

func (s *RedisLessonStore) Close() error {
	return s.client.Close()
}
