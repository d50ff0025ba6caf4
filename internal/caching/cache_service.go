package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"realview/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Property caching
	GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error)
	SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error
	DeleteProperty(ctx context.Context, propertyID uuid.UUID) error

	// Dashboard stats caching
	GetStats(ctx context.Context, key string) (map[string]int64, error)
	SetStats(ctx context.Context, key string, stats map[string]int64, ttl time.Duration) error

	// Login rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error

	// Single-use markers for password reset tokens
	MarkResetTokenUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port URLs as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error) {
	key := fmt.Sprintf("realview:property:%s", propertyID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var property models.Property
	if err := json.Unmarshal(data, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *redisCacheService) SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error {
	key := fmt.Sprintf("realview:property:%s", property.ID.String())
	data, err := json.Marshal(property)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProperty(ctx context.Context, propertyID uuid.UUID) error {
	key := fmt.Sprintf("realview:property:%s", propertyID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetStats(ctx context.Context, key string) (map[string]int64, error) {
	data, err := r.client.Get(ctx, "realview:stats:"+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var stats map[string]int64
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *redisCacheService) SetStats(ctx context.Context, key string, stats map[string]int64, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "realview:stats:"+key, data, ttl).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Get(ctx, "realview:ratelimit:"+key).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return count >= limit, nil
}

func (r *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	fullKey := "realview:ratelimit:" + key
	count, err := r.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return r.client.Expire(ctx, fullKey, window).Err()
	}
	return nil
}

// MarkResetTokenUsed records a reset token id as consumed. Returns false when
// the marker already existed, meaning the token was spent before.
func (r *redisCacheService) MarkResetTokenUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, "realview:reset-used:"+jti, "1", ttl).Result()
}
