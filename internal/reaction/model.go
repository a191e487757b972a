package reaction

import (
	"time"
)

// ReactionType 定义了点评类型的枚举
type ReactionType string

const (
	// TypeLike 表示点赞
	TypeLike ReactionType = "like"
	// TypeDislike 表示点踩
	TypeDislike ReactionType = "dislike"
)

// IsValid 判断点评类型是否合法
func (t ReactionType) IsValid() bool {
	return t == TypeLike || t == TypeDislike
}

// ToggleAction 描述一次点评切换实际发生的动作
type ToggleAction string

const (
	// ActionAdded 表示新增了一条点评
	ActionAdded ToggleAction = "added"
	// ActionRemoved 表示撤销了已有的同类型点评
	ActionRemoved ToggleAction = "removed"
	// ActionChanged 表示点评在like/dislike之间切换
	ActionChanged ToggleAction = "changed"
)

// GameReaction 是 (用户, 游戏) 的点评关联行，每对至多一条。
// 它是 Game 上 count_likes / count_dislikes 唯一的事实来源，
// 关联行和计数字段永远在同一个事务内一起变更。
type GameReaction struct {
	UserID       string       `gorm:"primarykey;type:varchar(36)" json:"user_id"`
	GameID       string       `gorm:"primarykey;type:varchar(36)" json:"game_id"`
	ReactionType ReactionType `gorm:"type:varchar(16);not null" json:"reaction_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameSuperlike 是 (用户, 游戏) 的超级赞关联行，只有存在性没有类型。
// 创建时在同一事务内扣减用户额度，本系统设计上不存在撤销路径。
type GameSuperlike struct {
	UserID string `gorm:"primarykey;type:varchar(36)" json:"user_id"`
	GameID string `gorm:"primarykey;type:varchar(36)" json:"game_id"`

	CreatedAt time.Time `json:"created_at"`
}

// GameView 是只增的浏览事件行，没有更新和删除路径。
// 每次插入在同一事务内使 Game.view_count 加一。
// 数据模型层面不做身份去重，去重策略由上层按指纹自行决定。
type GameView struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	GameID      string `gorm:"index;type:varchar(36);not null" json:"game_id"`
	UserID      string `gorm:"type:varchar(36)" json:"user_id,omitempty"`
	IPHash      string `json:"ip_hash,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`

	ViewedAt time.Time `gorm:"autoCreateTime" json:"viewed_at"`
}
