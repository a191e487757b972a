package health

import (
	"context"
	"net/http"
	"time"

	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

// ComponentStatus 描述单个依赖的探测结果
type ComponentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// checkDatabase 探测关系数据库连接。
func checkDatabase(ctx context.Context) ComponentStatus {
	sqlDB, err := database.DB.DB()
	if err != nil {
		return ComponentStatus{Status: "down", Error: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentStatus{Status: "down", Error: err.Error()}
	}
	return ComponentStatus{Status: "up"}
}

// checkRedis 探测Redis连接。
func checkRedis(ctx context.Context) ComponentStatus {
	if err := database.RDB.Ping(ctx).Err(); err != nil {
		return ComponentStatus{Status: "down", Error: err.Error()}
	}
	return ComponentStatus{Status: "up"}
}

// Handler 返回服务整体与各依赖的健康状况。
// 任一依赖不可用时返回503，供负载均衡器摘除实例。
func Handler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	db := checkDatabase(ctx)
	rdb := checkRedis(ctx)

	status := http.StatusOK
	overall := "ok"
	if db.Status != "up" || rdb.Status != "up" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"database": db,
		"redis":    rdb,
	})
}
