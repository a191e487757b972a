package game

import (
	"time"
)

// Game 定义了已上线游戏的数据结构。
// Game 只会作为游戏申请被批准的副作用而创建，从不被直接插入。
type Game struct {
	// ID 是游戏的主键，UUID字符串
	ID string `gorm:"primarykey;type:varchar(36)" json:"id"`

	// Title 是游戏的标题
	Title string `gorm:"not null" json:"title"`

	// Description 是游戏的介绍文本
	Description string `json:"description"`

	// GameURL 是游戏的访问地址，全站唯一
	GameURL string `gorm:"uniqueIndex;not null" json:"game_url"`

	// CoverMediaID 是封面媒体的存储键，内容本身由对象存储负责
	CoverMediaID string `json:"cover_media_id,omitempty"`

	// CreatedBy 是游戏提交者的用户ID
	CreatedBy string `gorm:"index;not null" json:"created_by"`

	// --- 反范式化的计数字段 ---
	// 这些字段只能通过 reaction 模块的操作在同一事务内维护，
	// 不存在独立的写入路径。Score 恒等于 CountLikes - CountDislikes。

	CountLikes      int `gorm:"default:0;not null" json:"count_likes"`
	CountDislikes   int `gorm:"default:0;not null" json:"count_dislikes"`
	CountSuperlikes int `gorm:"default:0;not null" json:"count_superlikes"`
	Score           int `gorm:"default:0;not null;index" json:"score"`
	ViewCount       int `gorm:"default:0;not null" json:"view_count"`

	// --- 软删除字段 ---

	// IsActive 标记游戏是否上线中
	IsActive bool `gorm:"default:true;not null;index" json:"is_active"`

	// DeactivatedAt 记录游戏被下架的时间
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`

	// DeactivatedBy 记录执行下架操作的管理员ID
	DeactivatedBy string `gorm:"type:varchar(36)" json:"-"`

	// DeactivationReason 记录下架原因
	DeactivationReason string `json:"deactivation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
