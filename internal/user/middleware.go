package user

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName 是承载会话ID的Cookie名称
	SessionCookieName = "session_id"
	// ContextUserKey 是认证通过后，当前用户在Gin上下文中的键
	ContextUserKey = "currentUser"
)

// CurrentUser 从Gin上下文中取出认证通过的用户。
// 只应在 RequireSession 之后的处理器中调用。
func CurrentUser(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*User)
	return u, ok
}

// RequireSession 校验会话Cookie并加载当前用户。
// 通过后保证上下文中存在一个有效且未被停用的用户。
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未登录，请先登录"})
			return
		}

		userID, err := GetSessionUserID(sessionID)
		if err != nil {
			fmt.Printf("查询会话时出错: %v\n", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "会话校验失败"})
			return
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "会话已过期，请重新登录"})
			return
		}

		u, err := GetUserByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
			return
		}
		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":          "账户已被停用",
				"deactivated_at": u.DeactivatedAt,
			})
			return
		}

		c.Set(ContextUserKey, u)
		c.Next()
	}
}

// RequireSessionAllowInactive 与 RequireSession 相同，但放行已停用的账户。
// 只用于申诉入口：被封禁的用户必须还能提交解封申诉。
func RequireSessionAllowInactive() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未登录，请先登录"})
			return
		}

		userID, err := GetSessionUserID(sessionID)
		if err != nil {
			fmt.Printf("查询会话时出错: %v\n", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "会话校验失败"})
			return
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "会话已过期，请重新登录"})
			return
		}

		u, err := GetUserByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
			return
		}

		c.Set(ContextUserKey, u)
		c.Next()
	}
}

// RequireAdmin 要求当前用户具有管理员角色。
// 必须在 RequireSession 之后使用。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
			return
		}
		if u.UserType != TypeAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限"})
			return
		}
		c.Next()
	}
}

// RequireCompleteProfile 要求当前用户已完成资料设置。
// 必须在 RequireSession 之后使用。
func RequireCompleteProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
			return
		}
		if u.ProfileCompletedAt == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":              "请先完成资料设置",
				"needs_profile_setup": true,
			})
			return
		}
		c.Next()
	}
}
