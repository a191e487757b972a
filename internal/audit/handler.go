package audit

import (
	"net/http"
	"strconv"

	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// ListActionsHandler 返回审计记录的分页列表（仅管理员可见）
func ListActionsHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	actions, total, err := ListActions(page, limit)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"actions": actions,
	})
}
