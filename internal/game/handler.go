package game

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/game-gallery-backend/internal/user"
	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// DeactivateBody 定义了管理员下架游戏时请求体的JSON结构
type DeactivateBody struct {
	Reason string `json:"reason" binding:"required"`
}

// parseIntQuery 解析一个可选的整型查询参数。
func parseIntQuery(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// parseDateQuery 解析一个可选的 YYYY-MM-DD 查询参数。
func parseDateQuery(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// ListGamesHandler 返回上线游戏的分页列表，支持搜索和计数筛选
func ListGamesHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := ListFilter{
		Search:        c.Query("search"),
		MinLikes:      parseIntQuery(c, "minLikes"),
		MaxLikes:      parseIntQuery(c, "maxLikes"),
		CreatedAfter:  parseDateQuery(c, "createdAfter"),
		CreatedBefore: parseDateQuery(c, "createdBefore"),
		Page:          page,
		Limit:         limit,
	}

	games, total, err := ListGames(filter)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":       filter.Page,
		"limit":      filter.Limit,
		"total":      total,
		"totalPages": int(math.Ceil(float64(total) / float64(filter.Limit))),
		"games":      games,
	})
}

// GetGameHandler 返回单个上线游戏的详情
func GetGameHandler(c *gin.Context) {
	g, err := GetActiveGame(c.Param("id"))
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": g})
}

// DeactivateHandler 由管理员下架一个上线中的游戏
func DeactivateHandler(c *gin.Context) {
	admin, _ := user.CurrentUser(c)

	var body DeactivateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	if err := Deactivate(c.Param("id"), admin.ID, body.Reason); err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "游戏已下架"})
}
