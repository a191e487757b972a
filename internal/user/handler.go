package user

import (
	"net/http"

	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// ProfileUpdateBody 定义了更新资料时请求体的JSON结构
type ProfileUpdateBody struct {
	Name      string `json:"name" binding:"required"`
	AvatarURL string `json:"avatar_url"`
}

// DeactivateBody 定义了自助停用账户时请求体的JSON结构
type DeactivateBody struct {
	Reason string `json:"reason" binding:"required"`
}

// GetMe 返回当前登录用户的资料
func GetMe(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdateProfile 完成或更新当前用户的资料
func UpdateProfile(c *gin.Context) {
	u, _ := CurrentUser(c)

	var body ProfileUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	updated, err := CompleteProfile(u.ID, body.Name, body.AvatarURL)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// DeactivateSelf 由用户本人停用自己的账户，并吊销当前会话
func DeactivateSelf(c *gin.Context) {
	u, _ := CurrentUser(c)

	var body DeactivateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	if err := DeactivateUser(u.ID, u.ID, body.Reason); err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	if sessionID, err := c.Cookie(SessionCookieName); err == nil && sessionID != "" {
		_ = DeleteSession(sessionID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "账户已停用"})
}
