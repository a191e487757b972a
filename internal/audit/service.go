package audit

import (
	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordGameRequestReview 在审核事务内追加一条游戏请求的审计记录。
// tx 必须是正在进行的审核事务，保证审计记录与状态变更同生共死。
func RecordGameRequestReview(tx *gorm.DB, adminID, gameRequestID string) error {
	return record(tx, adminID, gameRequestID, "")
}

// RecordUserRequestReview 在审核事务内追加一条用户请求的审计记录。
func RecordUserRequestReview(tx *gorm.DB, adminID, userRequestID string) error {
	return record(tx, adminID, "", userRequestID)
}

func record(tx *gorm.DB, adminID, gameRequestID, userRequestID string) error {
	if gameRequestID == "" && userRequestID == "" {
		return apperror.Validation("审计记录必须关联一个请求")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return apperror.Storage(err, "无法生成审计记录ID")
	}
	action := AdminAction{
		ID:            id.String(),
		AdminID:       adminID,
		GameRequestID: gameRequestID,
		UserRequestID: userRequestID,
	}
	if err := tx.Create(&action).Error; err != nil {
		return apperror.Storage(err, "写入审计记录失败")
	}
	return nil
}

// ListActions 返回按时间倒序的审计记录列表，供管理后台查看。
func ListActions(page, limit int) ([]AdminAction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := database.DB.Model(&AdminAction{}).Count(&total).Error; err != nil {
		return nil, 0, apperror.Storage(err, "统计审计记录失败")
	}

	var actions []AdminAction
	if err := database.DB.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&actions).Error; err != nil {
		return nil, 0, apperror.Storage(err, "查询审计记录失败")
	}
	return actions, total, nil
}
