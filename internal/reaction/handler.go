package reaction

import (
	"net/http"

	"github.com/SlpAus/game-gallery-backend/internal/user"
	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// ReactBody 定义了点评请求体的JSON结构
type ReactBody struct {
	Type ReactionType `json:"type" binding:"required"`
}

// ViewBody 定义了浏览上报请求体的JSON结构，指纹由前端采集
type ViewBody struct {
	Fingerprint string `json:"fingerprint"`
}

// ReactHandler 处理用户对游戏的点赞/点踩切换
func ReactHandler(c *gin.Context) {
	u, _ := user.CurrentUser(c)
	gameID := c.Param("id")

	var body ReactBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	action, err := Toggle(u.ID, gameID, body.Type)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action})
}

// GetReactionHandler 返回当前用户对游戏的点评状态
func GetReactionHandler(c *gin.Context) {
	u, _ := user.CurrentUser(c)

	rtype, err := GetReaction(u.ID, c.Param("id"))
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if rtype == "" {
		c.JSON(http.StatusOK, gin.H{"reaction": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reaction": rtype})
}

// SuperlikeHandler 处理用户对游戏的超级赞
func SuperlikeHandler(c *gin.Context) {
	u, _ := user.CurrentUser(c)

	if err := Superlike(u.ID, c.Param("id")); err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "超级赞成功"})
}

// ViewHandler 上报一次游戏浏览。
// 登录与否都可以上报；窗口期内的同指纹重复浏览被静默忽略。
func ViewHandler(c *gin.Context) {
	gameID := c.Param("id")

	var body ViewBody
	_ = c.ShouldBindJSON(&body)

	meta := ViewMeta{
		IPHash:      HashIP(c.ClientIP()),
		Fingerprint: body.Fingerprint,
		UserAgent:   c.Request.UserAgent(),
	}
	if u, ok := user.CurrentUser(c); ok {
		meta.UserID = u.ID
	}

	// 指纹缺失时退回用IP哈希节流
	dedupKey := body.Fingerprint
	if dedupKey == "" {
		dedupKey = meta.IPHash
	}
	if !ShouldCountView(gameID, dedupKey) {
		c.JSON(http.StatusOK, gin.H{"counted": false})
		return
	}

	if err := RecordView(gameID, meta); err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counted": true})
}

// OptionalUserMiddleware 在有会话时加载用户，没有也放行。
// 浏览上报对匿名用户开放，但登录用户的浏览要能关联到账号。
func OptionalUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(user.SessionCookieName)
		if err == nil && sessionID != "" {
			if userID, err := user.GetSessionUserID(sessionID); err == nil && userID != "" {
				if u, err := user.GetUserByID(userID); err == nil && u.IsActive {
					c.Set(user.ContextUserKey, u)
				}
			}
		}
		c.Next()
	}
}
