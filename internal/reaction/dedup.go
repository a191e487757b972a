package reaction

import (
	"fmt"
	"time"

	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/cespare/xxhash/v2"
)

// 浏览去重是HTTP层的节流策略，不是数据模型的约束：
// 同一指纹在窗口期内的重复浏览不再计数，Redis不可用时退化为全部计数。

// viewDedupTTL 是同一指纹的浏览节流窗口
const viewDedupTTL = 30 * time.Minute

// HashIP 计算客户端IP的短哈希，浏览记录里只存哈希不存明文。
func HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(ip))
}

// ShouldCountView 判断这次浏览是否应该计数。
// 用 SET NX 在Redis中占据 (游戏, 指纹) 的窗口期，占据成功才计数。
func ShouldCountView(gameID, fingerprint string) bool {
	if fingerprint == "" {
		return true
	}
	if database.RDB == nil {
		return true
	}
	key := fmt.Sprintf("view:%s:%s", gameID, fingerprint)
	ok, err := database.RDB.SetNX(database.Ctx, key, 1, viewDedupTTL).Result()
	if err != nil {
		// Redis故障时宁可多计数，也不丢浏览事件
		fmt.Printf("浏览去重检查失败，本次浏览将被计数: %v\n", err)
		return true
	}
	return ok
}
