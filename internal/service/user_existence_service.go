package service

import (
	"context"
	"strconv"
	"time"
)

const userExistsCacheTTL = 1 * time.Minute

type cachedExistence struct {
	Exists    bool
	ExpiresAt time.Time
}

func userExistsRedisKey(userID uint) string {
	return RedisKey("auth", "user_exists", strconv.FormatUint(uint64(userID), 10))
}

// UserExists 判断会话中的账号是否仍然存在。
// 查询顺序：Redis -> 进程内缓存 -> 数据库，结果回写两级缓存。
func (s *AppService) UserExists(userID uint) (bool, error) {
	if redisClient := GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if cached, err := redisClient.Get(ctx, userExistsRedisKey(userID)).Result(); err == nil {
			if exists, parseErr := strconv.ParseBool(cached); parseErr == nil {
				s.userCache.Store(userID, cachedExistence{Exists: exists, ExpiresAt: time.Now().Add(userExistsCacheTTL)})
				return exists, nil
			}
		}
	}

	if val, ok := s.userCache.Load(userID); ok {
		if cached, typeOk := val.(cachedExistence); typeOk {
			if time.Now().Before(cached.ExpiresAt) {
				return cached.Exists, nil
			}
			s.userCache.Delete(userID)
		}
	}

	exists, err := s.repos.User.Exists(userID)
	if err != nil {
		return false, err
	}

	s.userCache.Store(userID, cachedExistence{Exists: exists, ExpiresAt: time.Now().Add(userExistsCacheTTL)})
	if redisClient := GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = redisClient.Set(ctx, userExistsRedisKey(userID), strconv.FormatBool(exists), userExistsCacheTTL).Err()
	}
	return exists, nil
}

// InvalidateUserCache 清除指定账号的存在性缓存。
func (s *AppService) InvalidateUserCache(userID uint) {
	s.userCache.Delete(userID)

	if redisClient := GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = redisClient.Del(ctx, userExistsRedisKey(userID)).Err()
	}
}
