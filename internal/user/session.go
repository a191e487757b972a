package user

import (
	"fmt"
	"time"

	"github.com/SlpAus/game-gallery-backend/internal/platform/config"
	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/SlpAus/game-gallery-backend/pkg/token"
	"github.com/redis/go-redis/v9"
)

// 会话存储在Redis中，键为 session:<id>，值为用户ID，依赖TTL自动过期。
// 会话的签发发生在外部登录回调完成之后，这里只负责存取。

const sessionKeyPrefix = "session:"

// sessionTTL 返回配置的会话有效期。
func sessionTTL() time.Duration {
	days := 7
	if config.Cfg != nil && config.Cfg.Session.TTLDays > 0 {
		days = config.Cfg.Session.TTLDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// CreateSession 为指定用户创建一个新会话，返回会话ID。
func CreateSession(userID string) (string, error) {
	sessionID, err := token.NewOpaque()
	if err != nil {
		return "", err
	}
	key := sessionKeyPrefix + sessionID
	if err := database.RDB.Set(database.Ctx, key, userID, sessionTTL()).Err(); err != nil {
		return "", fmt.Errorf("无法写入会话到Redis: %w", err)
	}
	return sessionID, nil
}

// GetSessionUserID 查询会话对应的用户ID。
// 会话不存在或已过期时返回空字符串。
func GetSessionUserID(sessionID string) (string, error) {
	if sessionID == "" {
		return "", nil
	}
	userID, err := database.RDB.Get(database.Ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("查询会话失败: %w", err)
	}
	return userID, nil
}

// RefreshSession 滚动延长会话有效期。
func RefreshSession(sessionID string) error {
	return database.RDB.Expire(database.Ctx, sessionKeyPrefix+sessionID, sessionTTL()).Err()
}

// DeleteSession 删除一个会话（登出或账户停用时调用）。
func DeleteSession(sessionID string) error {
	return database.RDB.Del(database.Ctx, sessionKeyPrefix+sessionID).Err()
}
