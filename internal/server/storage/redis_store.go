package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	sessionKeyPrefix = "draft:session:"
	sessionIndexKey  = "draft:sessions"

	// 会话快照过期时间
	sessionExpiration = 2 * time.Hour
)

// SessionData 会话快照（只用于观察，不用于重启恢复）
type SessionData struct {
	ID        string     `json:"id"`
	State     string     `json:"state"`
	Round     int        `json:"round"`
	Pick      int        `json:"pick"`
	Seats     []SeatData `json:"seats"`
	Kicked    []string   `json:"kicked,omitempty"`
	CreatedAt int64      `json:"created_at"`
	UpdatedAt int64      `json:"updated_at"`
}

// SeatData 座位快照
type SeatData struct {
	Name      string   `json:"name"`
	Bot       bool     `json:"bot"`
	Connected bool     `json:"connected"`
	Ready     bool     `json:"ready"`
	Owner     bool     `json:"owner"`
	Picks     []string `json:"picks,omitempty"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping 检查连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// SaveSession 保存会话快照并刷新过期时间
func (rs *RedisStore) SaveSession(ctx context.Context, data *SessionData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化会话数据失败: %w", err)
	}

	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKeyPrefix+data.ID, jsonData, sessionExpiration)
		pipe.SAdd(ctx, sessionIndexKey, data.ID)
		return nil
	})
	return err
}

// LoadSession 加载会话快照，不存在时返回 nil
func (rs *RedisStore) LoadSession(ctx context.Context, id string) (*SessionData, error) {
	data, err := rs.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var sessionData SessionData
	if err := json.Unmarshal(data, &sessionData); err != nil {
		return nil, fmt.Errorf("反序列化会话数据失败: %w", err)
	}
	return &sessionData, nil
}

// DeleteSession 删除会话快照
func (rs *RedisStore) DeleteSession(ctx context.Context, id string) error {
	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKeyPrefix+id)
		pipe.SRem(ctx, sessionIndexKey, id)
		return nil
	})
	return err
}

// ListSessionIDs 返回索引中的会话 ID（已排序）
func (rs *RedisStore) ListSessionIDs(ctx context.Context) ([]string, error) {
	ids, err := rs.client.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	return ids, nil
}

// Close 关闭连接
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
