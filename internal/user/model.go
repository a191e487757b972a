package user

import (
	"time"
)

// UserType 定义了用户角色的枚举类型
type UserType string

const (
	// TypeNormal 表示普通用户
	TypeNormal UserType = "normal"
	// TypeAdmin 表示管理员
	TypeAdmin UserType = "admin"
)

// InitialSuperlikes 是每个新用户的超级赞初始额度。
// 额度只会被消耗，本系统内不存在自动补充的路径。
const InitialSuperlikes = 3

// User 定义了用户在数据库中的持久化模型。
// 用户在首次通过外部身份提供方登录时创建，本系统内从不硬删除
// （30天宽限期后的硬删除由外部的定时任务负责）。
type User struct {
	// ID 是用户的主键，UUID字符串
	ID string `gorm:"primarykey;type:varchar(36)" json:"id"`

	// GoogleID 是外部身份提供方分配的唯一ID
	GoogleID string `gorm:"uniqueIndex;not null" json:"-"`

	// Email 是用户的邮箱，登录时由身份提供方给出
	Email string `gorm:"uniqueIndex;not null" json:"email"`

	// Name 是用户的显示名称
	Name string `gorm:"not null" json:"name"`

	// AvatarURL 是用户头像的地址
	AvatarURL string `json:"avatar_url"`

	// UserType 是用户的角色，normal 或 admin
	UserType UserType `gorm:"type:varchar(16);default:'normal';not null" json:"user_type"`

	// SuperlikesRemaining 是用户剩余的超级赞额度
	SuperlikesRemaining int `gorm:"default:3;not null" json:"superlikes_remaining"`

	// ProfileCompletedAt 记录用户完成资料设置的时间，nil表示尚未完成
	ProfileCompletedAt *time.Time `json:"profile_completed_at"`

	// --- 软删除字段 ---

	// IsActive 标记账户是否有效
	IsActive bool `gorm:"default:true;not null" json:"is_active"`

	// DeactivatedAt 记录账户被停用的时间
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`

	// DeactivatedBy 记录执行停用操作的用户ID（本人或管理员）
	DeactivatedBy string `json:"-"`

	// DeactivationReason 记录停用原因
	DeactivationReason string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
