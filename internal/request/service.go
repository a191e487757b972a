package request

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SlpAus/game-gallery-backend/internal/audit"
	"github.com/SlpAus/game-gallery-backend/internal/game"
	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/SlpAus/game-gallery-backend/internal/user"
	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// newRequestID 生成一个新的请求主键。
func newRequestID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", apperror.Storage(err, "无法生成请求ID")
	}
	return id.String(), nil
}

// GameSubmission 是提交游戏请求时经过校验的输入
type GameSubmission struct {
	RequestType GameRequestType
	GameID      string
	Title       string
	Description string
	GameURL     string
	MediaIDs    []string
	TagIDs      []string
}

// marshalIDList 将ID列表序列化为JSON数组字符串，空列表存空串。
func marshalIDList(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	raw, _ := json.Marshal(ids)
	return string(raw)
}

// SubmitGameRequest 创建一个待审核的游戏请求。
// new_game 受每用户待审上限约束；modification 和 appeal 必须关联已有游戏。
func SubmitGameRequest(userID string, input GameSubmission) (*GameRequest, error) {
	if input.RequestType == "" {
		input.RequestType = TypeNewGame
	}
	if !input.RequestType.IsValid() {
		return nil, apperror.Validation("无效的请求类型: %s", input.RequestType)
	}

	input.Title = strings.TrimSpace(input.Title)
	input.GameURL = strings.TrimSpace(input.GameURL)
	input.Description = strings.TrimSpace(input.Description)

	if input.Title == "" {
		return nil, apperror.Validation("标题不能为空")
	}
	// 长度限制按字符数计，中文标题不能按字节数误判
	if utf8.RuneCountInString(input.Title) > 100 {
		return nil, apperror.Validation("标题不能超过100个字符")
	}
	if input.GameURL == "" {
		return nil, apperror.Validation("游戏地址不能为空")
	}

	switch input.RequestType {
	case TypeNewGame:
		if input.GameID != "" {
			return nil, apperror.Validation("新游戏请求不能关联已有游戏")
		}
		return submitNewGameRequest(userID, input)
	default:
		if input.GameID == "" {
			return nil, apperror.Validation("%s 请求必须关联一个已有游戏", input.RequestType)
		}
		return submitExistingGameRequest(userID, input)
	}
}

// submitNewGameRequest 处理 new_game 类型的提交。
func submitNewGameRequest(userID string, input GameSubmission) (*GameRequest, error) {
	var created *GameRequest
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 准入控制：限制单个用户的待审新游戏数量
		var pendingCount int64
		if err := tx.Model(&GameRequest{}).
			Where("submitted_by = ? AND request_type = ? AND status = ?",
				userID, TypeNewGame, StatusPending).
			Count(&pendingCount).Error; err != nil {
			return apperror.Storage(err, "统计待审请求失败")
		}
		if pendingCount >= MaxPendingNewGameRequests {
			return apperror.ResourceExhausted(
				"已有%d个待审核的游戏提交，请等待管理员处理", MaxPendingNewGameRequests)
		}

		// 同一地址不允许有已上线的游戏
		var liveCount int64
		if err := tx.Model(&game.Game{}).Where("game_url = ?", input.GameURL).
			Count(&liveCount).Error; err != nil {
			return apperror.Storage(err, "查询游戏失败")
		}
		if liveCount > 0 {
			return apperror.Conflict("该地址的游戏已经存在")
		}

		// 同一提交者不允许有同地址的待审请求
		var dupCount int64
		if err := tx.Model(&GameRequest{}).
			Where("submitted_by = ? AND game_url = ? AND status = ?",
				userID, input.GameURL, StatusPending).
			Count(&dupCount).Error; err != nil {
			return apperror.Storage(err, "查询待审请求失败")
		}
		if dupCount > 0 {
			return apperror.Conflict("该地址的游戏请求已经提交过")
		}

		return createGameRequest(tx, userID, input, &created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// submitExistingGameRequest 处理 game_modification 和 game_appeal 类型的提交。
func submitExistingGameRequest(userID string, input GameSubmission) (*GameRequest, error) {
	var created *GameRequest
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var g game.Game
		if err := tx.Where("id = ?", input.GameID).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("关联的游戏不存在")
			}
			return apperror.Storage(err, "查询游戏失败")
		}
		if g.CreatedBy != userID {
			return apperror.Forbidden("只有游戏的提交者可以发起此类请求")
		}
		if input.RequestType == TypeGameModification && !g.IsActive {
			return apperror.InvalidState("游戏已下架，无法提交修改")
		}
		if input.RequestType == TypeGameAppeal && g.IsActive {
			return apperror.InvalidState("游戏未被下架，无需申诉")
		}

		// 同一游戏上同类型的待审请求只允许一个
		var dupCount int64
		if err := tx.Model(&GameRequest{}).
			Where("submitted_by = ? AND request_type = ? AND game_id = ? AND status = ?",
				userID, input.RequestType, input.GameID, StatusPending).
			Count(&dupCount).Error; err != nil {
			return apperror.Storage(err, "查询待审请求失败")
		}
		if dupCount > 0 {
			return apperror.Conflict("该游戏已有同类型的待审请求")
		}

		return createGameRequest(tx, userID, input, &created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createGameRequest 在事务内插入请求行。
func createGameRequest(tx *gorm.DB, userID string, input GameSubmission, out **GameRequest) error {
	id, err := newRequestID()
	if err != nil {
		return err
	}
	req := GameRequest{
		ID:          id,
		RequestType: input.RequestType,
		GameID:      input.GameID,
		SubmittedBy: userID,
		Title:       input.Title,
		Description: input.Description,
		GameURL:     input.GameURL,
		MediaIDs:    marshalIDList(input.MediaIDs),
		TagIDs:      marshalIDList(input.TagIDs),
		Status:      StatusPending,
	}
	if err := tx.Create(&req).Error; err != nil {
		return apperror.Storage(err, "创建游戏请求失败")
	}
	*out = &req
	return nil
}

// ApproveGameRequest 批准一个待审核的游戏请求。
// 状态检查与变更在同一事务内，用条件UPDATE加影响行数核对封死
// 两个管理员并发批准的竞态：最多一个Game被创建，落败方观察到InvalidState。
func ApproveGameRequest(requestID, adminID, adminResponse string) error {
	return resolveGameRequest(requestID, adminID, adminResponse, StatusApproved)
}

// RejectGameRequest 驳回一个待审核的游戏请求，不产生任何游戏实体。
func RejectGameRequest(requestID, adminID, adminResponse string) error {
	return resolveGameRequest(requestID, adminID, adminResponse, StatusRejected)
}

func resolveGameRequest(requestID, adminID, adminResponse string, next Status) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var req GameRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("游戏请求不存在")
			}
			return apperror.Storage(err, "查询游戏请求失败")
		}
		if err := validateTransition(req.Status, next); err != nil {
			return err
		}

		// 条件更新是对行锁的双保险：影响行数为零说明状态已被并发改掉
		res := tx.Model(&GameRequest{}).
			Where("id = ? AND status = ?", requestID, StatusPending).
			Updates(map[string]interface{}{
				"status":         next,
				"admin_response": adminResponse,
				"reviewed_by":    adminID,
				"reviewed_at":    time.Now(),
			})
		if res.Error != nil {
			return apperror.Storage(res.Error, "更新请求状态失败")
		}
		if res.RowsAffected == 0 {
			return apperror.InvalidState("请求已被其他管理员处理")
		}

		if next == StatusApproved {
			if err := applyGameRequestApproval(tx, &req); err != nil {
				return err
			}
		}

		return audit.RecordGameRequestReview(tx, adminID, requestID)
	})
}

// applyGameRequestApproval 执行批准的副作用，按请求类型分派。
func applyGameRequestApproval(tx *gorm.DB, req *GameRequest) error {
	switch req.RequestType {
	case TypeNewGame:
		// 将暂存内容物化为上线游戏，提交者记为创建人
		gameID, err := uuid.NewV7()
		if err != nil {
			return apperror.Storage(err, "无法生成游戏ID")
		}
		newGame := game.Game{
			ID:          gameID.String(),
			Title:       req.Title,
			Description: req.Description,
			GameURL:     req.GameURL,
			CreatedBy:   req.SubmittedBy,
			IsActive:    true,
		}
		if err := tx.Create(&newGame).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict("该地址的游戏已经存在")
			}
			return apperror.Storage(err, "创建游戏失败")
		}
		return nil

	case TypeGameModification:
		// 将暂存字段套用到已上线的游戏
		res := tx.Model(&game.Game{}).Where("id = ?", req.GameID).
			Updates(map[string]interface{}{
				"title":       req.Title,
				"description": req.Description,
				"game_url":    req.GameURL,
			})
		if res.Error != nil {
			return apperror.Storage(res.Error, "套用游戏修改失败")
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("关联的游戏不存在")
		}
		return nil

	case TypeGameAppeal:
		// 申诉成功，恢复已下架的游戏
		return game.Reactivate(tx, req.GameID)
	}
	return apperror.Validation("无效的请求类型: %s", req.RequestType)
}

// UserAppeal 是提交用户申诉时经过校验的输入
type UserAppeal struct {
	RequestType   UserRequestType
	RelatedGameID string
	AppealText    string
}

// SubmitUserRequest 创建一个待审核的用户申诉。
// game_report_appeal 必须关联游戏，user_unban_appeal 必须不关联。
func SubmitUserRequest(userID string, input UserAppeal) (*UserRequest, error) {
	if !input.RequestType.IsValid() {
		return nil, apperror.Validation("无效的申诉类型: %s", input.RequestType)
	}
	input.AppealText = strings.TrimSpace(input.AppealText)
	input.RelatedGameID = strings.TrimSpace(input.RelatedGameID)

	if input.AppealText == "" {
		return nil, apperror.Validation("申诉内容不能为空")
	}
	switch input.RequestType {
	case TypeGameReportAppeal:
		if input.RelatedGameID == "" {
			return nil, apperror.Validation("游戏申诉必须关联一个游戏")
		}
	case TypeUserUnbanAppeal:
		if input.RelatedGameID != "" {
			return nil, apperror.Validation("解封申诉不能关联游戏")
		}
	}

	var created *UserRequest
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if input.RelatedGameID != "" {
			var count int64
			if err := tx.Model(&game.Game{}).Where("id = ?", input.RelatedGameID).
				Count(&count).Error; err != nil {
				return apperror.Storage(err, "查询游戏失败")
			}
			if count == 0 {
				return apperror.NotFound("关联的游戏不存在")
			}
		}

		// 同一 (提交者, 类型, 关联游戏) 的待审申诉只允许一个
		dupQuery := tx.Model(&UserRequest{}).
			Where("submitted_by = ? AND request_type = ? AND status = ?",
				userID, input.RequestType, StatusPending)
		if input.RelatedGameID != "" {
			dupQuery = dupQuery.Where("related_game_id = ?", input.RelatedGameID)
		}
		var dupCount int64
		if err := dupQuery.Count(&dupCount).Error; err != nil {
			return apperror.Storage(err, "查询待审申诉失败")
		}
		if dupCount > 0 {
			return apperror.Conflict("同类型的申诉已经提交过")
		}

		id, err := newRequestID()
		if err != nil {
			return err
		}
		req := UserRequest{
			ID:            id,
			RequestType:   input.RequestType,
			SubmittedBy:   userID,
			RelatedGameID: input.RelatedGameID,
			AppealText:    input.AppealText,
			Status:        StatusPending,
		}
		if err := tx.Create(&req).Error; err != nil {
			return apperror.Storage(err, "创建用户申诉失败")
		}
		created = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ApproveUserRequest 批准一个用户申诉。
// 解封申诉恢复提交者账户，游戏申诉恢复关联的游戏。
func ApproveUserRequest(requestID, adminID, adminResponse string) error {
	return resolveUserRequest(requestID, adminID, adminResponse, StatusApproved)
}

// RejectUserRequest 驳回一个用户申诉。
func RejectUserRequest(requestID, adminID, adminResponse string) error {
	return resolveUserRequest(requestID, adminID, adminResponse, StatusRejected)
}

func resolveUserRequest(requestID, adminID, adminResponse string, next Status) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var req UserRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("用户申诉不存在")
			}
			return apperror.Storage(err, "查询用户申诉失败")
		}
		if err := validateTransition(req.Status, next); err != nil {
			return err
		}

		res := tx.Model(&UserRequest{}).
			Where("id = ? AND status = ?", requestID, StatusPending).
			Updates(map[string]interface{}{
				"status":         next,
				"admin_response": adminResponse,
				"reviewed_by":    adminID,
				"reviewed_at":    time.Now(),
			})
		if res.Error != nil {
			return apperror.Storage(res.Error, "更新申诉状态失败")
		}
		if res.RowsAffected == 0 {
			return apperror.InvalidState("申诉已被其他管理员处理")
		}

		if next == StatusApproved {
			switch req.RequestType {
			case TypeUserUnbanAppeal:
				if err := user.ReactivateUser(tx, req.SubmittedBy); err != nil {
					return err
				}
			case TypeGameReportAppeal:
				if err := game.Reactivate(tx, req.RelatedGameID); err != nil {
					return err
				}
			}
		}

		return audit.RecordUserRequestReview(tx, adminID, requestID)
	})
}

// ListPendingGameRequests 返回按提交时间倒序的待审游戏请求（管理员视图）。
func ListPendingGameRequests(page, limit int) ([]GameRequest, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var requests []GameRequest
	if err := database.DB.Where("status = ?", StatusPending).
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&requests).Error; err != nil {
		return nil, apperror.Storage(err, "查询待审游戏请求失败")
	}
	return requests, nil
}

// ListPendingUserRequests 返回按提交时间倒序的待审用户申诉（管理员视图）。
func ListPendingUserRequests(page, limit int) ([]UserRequest, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var requests []UserRequest
	if err := database.DB.Where("status = ?", StatusPending).
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&requests).Error; err != nil {
		return nil, apperror.Storage(err, "查询待审用户申诉失败")
	}
	return requests, nil
}

// ListGameRequestsByUser 返回某个用户的全部游戏请求。
func ListGameRequestsByUser(userID string) ([]GameRequest, error) {
	var requests []GameRequest
	if err := database.DB.Where("submitted_by = ?", userID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, apperror.Storage(err, "查询游戏请求失败")
	}
	return requests, nil
}

// ListUserRequestsByUser 返回某个用户的全部申诉。
func ListUserRequestsByUser(userID string) ([]UserRequest, error) {
	var requests []UserRequest
	if err := database.DB.Where("submitted_by = ?", userID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, apperror.Storage(err, "查询用户申诉失败")
	}
	return requests, nil
}
