package user

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newUserID 生成一个新的用户主键。
func newUserID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GetUserByID 按主键查询用户。
func GetUserByID(id string) (*User, error) {
	var u User
	if err := database.DB.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("用户不存在")
		}
		return nil, apperror.Storage(err, "查询用户失败")
	}
	return &u, nil
}

// EnsureUser 在外部身份首次登录时创建用户，已存在则返回现有记录。
// 这是用户进入本系统的唯一入口。
func EnsureUser(googleID, email, name, avatarURL string) (*User, error) {
	var u User
	err := database.DB.Where("google_id = ?", googleID).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Storage(err, "查询用户失败")
	}

	id, err := newUserID()
	if err != nil {
		return nil, apperror.Storage(err, "无法生成用户ID")
	}
	u = User{
		ID:                  id,
		GoogleID:            googleID,
		Email:               email,
		Name:                name,
		AvatarURL:           avatarURL,
		UserType:            TypeNormal,
		SuperlikesRemaining: InitialSuperlikes,
		IsActive:            true,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		// 并发登录可能同时创建，撞唯一索引时回读已有记录
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := database.DB.Where("google_id = ?", googleID).First(&u).Error; err != nil {
				return nil, apperror.Storage(err, "查询用户失败")
			}
			return &u, nil
		}
		return nil, apperror.Storage(err, "创建用户失败")
	}
	return &u, nil
}

// CompleteProfile 更新用户的显示名称并标记资料已完成。
func CompleteProfile(userID, name, avatarURL string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("显示名称不能为空")
	}
	// 长度限制按字符数计，中文名称不能按字节数误判
	if utf8.RuneCountInString(name) > 100 {
		return nil, apperror.Validation("显示名称过长")
	}

	u, err := GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"name":       name,
		"avatar_url": avatarURL,
	}
	if u.ProfileCompletedAt == nil {
		updates["profile_completed_at"] = now
	}
	if err := database.DB.Model(&User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, apperror.Storage(err, "更新用户资料失败")
	}
	return GetUserByID(userID)
}

// DeactivateUser 将用户账户标记为停用（软删除）。
// actorID 是执行操作的用户，可以是本人，也可以是管理员。
// 行本身保留，30天后的硬删除由外部任务消费 deactivated_at 完成。
func DeactivateUser(userID, actorID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperror.Validation("停用原因不能为空")
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var u User
		if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("用户不存在")
			}
			return apperror.Storage(err, "查询用户失败")
		}
		if !u.IsActive {
			return apperror.InvalidState("账户已处于停用状态")
		}

		// 条件更新并核对影响行数，防止并发停用互相覆盖
		res := tx.Model(&User{}).
			Where("id = ? AND is_active = ?", userID, true).
			Updates(map[string]interface{}{
				"is_active":           false,
				"deactivated_at":      time.Now(),
				"deactivated_by":      actorID,
				"deactivation_reason": reason,
			})
		if res.Error != nil {
			return apperror.Storage(res.Error, "停用账户失败")
		}
		if res.RowsAffected == 0 {
			return apperror.InvalidState("账户已处于停用状态")
		}
		return nil
	})
}

// ReactivateUser 恢复一个被停用的账户。
// 只在管理员批准解封申诉时，由请求处理事务调用。
func ReactivateUser(tx *gorm.DB, userID string) error {
	res := tx.Model(&User{}).
		Where("id = ? AND is_active = ?", userID, false).
		Updates(map[string]interface{}{
			"is_active":           true,
			"deactivated_at":      nil,
			"deactivated_by":      "",
			"deactivation_reason": "",
		})
	if res.Error != nil {
		return apperror.Storage(res.Error, "恢复账户失败")
	}
	// 账户本来就是有效的，视为无事可做
	return nil
}
