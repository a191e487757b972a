package request

import (
	"net/http"
	"strconv"

	"github.com/SlpAus/game-gallery-backend/internal/user"
	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// GameSubmissionBody 定义了提交游戏请求时请求体的JSON结构
type GameSubmissionBody struct {
	RequestType GameRequestType `json:"request_type"`
	GameID      string          `json:"game_id"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	GameURL     string          `json:"game_url" binding:"required"`
	MediaIDs    []string        `json:"media_ids"`
	TagIDs      []string        `json:"tag_ids"`
}

// UserAppealBody 定义了提交用户申诉时请求体的JSON结构
type UserAppealBody struct {
	RequestType   UserRequestType `json:"request_type" binding:"required"`
	RelatedGameID string          `json:"related_game_id"`
	AppealText    string          `json:"appeal_text" binding:"required"`
}

// ReviewBody 定义了管理员审核时请求体的JSON结构
type ReviewBody struct {
	AdminResponse string `json:"admin_response"`
}

// SubmitGameRequestHandler 由用户提交一个游戏请求
func SubmitGameRequestHandler(c *gin.Context) {
	u, _ := user.CurrentUser(c)

	var body GameSubmissionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	req, err := SubmitGameRequest(u.ID, GameSubmission{
		RequestType: body.RequestType,
		GameID:      body.GameID,
		Title:       body.Title,
		Description: body.Description,
		GameURL:     body.GameURL,
		MediaIDs:    body.MediaIDs,
		TagIDs:      body.TagIDs,
	})
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "游戏请求已提交，等待管理员审核",
		"request": req,
	})
}

// MyGameRequestsHandler 返回当前用户的全部游戏请求
func MyGameRequestsHandler(c *gin.Context) {
	u, _ := user.CurrentUser(c)

	requests, err := ListGameRequestsByUser(u.ID)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// SubmitUserRequestHandler 由用户提交一个申诉
func SubmitUserRequestHandler(c *gin.Context) {
	u, _ := user.CurrentUser(c)

	var body UserAppealBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	req, err := SubmitUserRequest(u.ID, UserAppeal{
		RequestType:   body.RequestType,
		RelatedGameID: body.RelatedGameID,
		AppealText:    body.AppealText,
	})
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "申诉已提交，等待管理员审核",
		"request": req,
	})
}

// MyUserRequestsHandler 返回当前用户的全部申诉
func MyUserRequestsHandler(c *gin.Context) {
	u, _ := user.CurrentUser(c)

	requests, err := ListUserRequestsByUser(u.ID)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// --- 管理员处理器 ---

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

// PendingGameRequestsHandler 返回待审核的游戏请求列表
func PendingGameRequestsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	requests, err := ListPendingGameRequests(page, limit)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// PendingUserRequestsHandler 返回待审核的用户申诉列表
func PendingUserRequestsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	requests, err := ListPendingUserRequests(page, limit)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// reviewBody 读取可选的审核说明，请求体为空也放行。
func reviewBody(c *gin.Context) string {
	var body ReviewBody
	_ = c.ShouldBindJSON(&body)
	return body.AdminResponse
}

// ApproveGameRequestHandler 由管理员批准一个游戏请求
func ApproveGameRequestHandler(c *gin.Context) {
	admin, _ := user.CurrentUser(c)

	if err := ApproveGameRequest(c.Param("id"), admin.ID, reviewBody(c)); err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "游戏请求已批准"})
}

// RejectGameRequestHandler 由管理员驳回一个游戏请求
func RejectGameRequestHandler(c *gin.Context) {
	admin, _ := user.CurrentUser(c)

	if err := RejectGameRequest(c.Param("id"), admin.ID, reviewBody(c)); err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "游戏请求已驳回"})
}

// ApproveUserRequestHandler 由管理员批准一个用户申诉
func ApproveUserRequestHandler(c *gin.Context) {
	admin, _ := user.CurrentUser(c)

	if err := ApproveUserRequest(c.Param("id"), admin.ID, reviewBody(c)); err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "申诉已批准"})
}

// RejectUserRequestHandler 由管理员驳回一个用户申诉
func RejectUserRequestHandler(c *gin.Context) {
	admin, _ := user.CurrentUser(c)

	if err := RejectUserRequest(c.Param("id"), admin.ID, reviewBody(c)); err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "申诉已驳回"})
}
