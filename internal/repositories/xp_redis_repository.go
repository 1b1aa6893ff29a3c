package repositories

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/mroshb/beach_trivia_bot/internal/models"
	"github.com/mroshb/beach_trivia_bot/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisXPRepository stores XP in a hash and first-award order in a sorted set:
//
//	HSET {prefix}:xp {userID} {xp}
//	ZADD {prefix}:xp:order NX {unix micros} {userID}
type RedisXPRepository struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisXPRepository(client *redis.Client, prefix string) *RedisXPRepository {
	if prefix == "" {
		prefix = "beachtrivia"
	}
	return &RedisXPRepository{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *RedisXPRepository) GetXP(ctx context.Context, userID string) (int64, error) {
	xp, err := r.client.HGet(ctx, r.xpKey(), userID).Int64()
	if stderrors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get xp")
	}
	return xp, nil
}

func (r *RedisXPRepository) AddXP(ctx context.Context, userID string, amount int64) (int64, error) {
	if err := validateAward(userID, amount); err != nil {
		return 0, err
	}

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(ctx, r.orderKey(), redis.Z{
			Score:  float64(r.now().UnixMicro()),
			Member: userID,
		})
		incr = pipe.HIncrBy(ctx, r.xpKey(), userID, amount)
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to add xp")
	}
	return incr.Val(), nil
}

func (r *RedisXPRepository) ListXP(ctx context.Context) ([]models.UserXP, error) {
	userIDs, err := r.client.ZRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list xp order")
	}
	if len(userIDs) == 0 {
		return nil, nil
	}

	values, err := r.client.HMGet(ctx, r.xpKey(), userIDs...).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list xp")
	}

	records := make([]models.UserXP, 0, len(userIDs))
	for i, userID := range userIDs {
		var xp int64
		if s, ok := values[i].(string); ok {
			xp, _ = strconv.ParseInt(s, 10, 64)
		}
		records = append(records, models.UserXP{UserID: userID, XP: xp})
	}
	return records, nil
}

func (r *RedisXPRepository) xpKey() string {
	return r.prefix + ":xp"
}

func (r *RedisXPRepository) orderKey() string {
	return r.prefix + ":xp:order"
}
