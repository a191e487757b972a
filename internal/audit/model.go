package audit

import (
	"time"
)

// AdminAction 是管理员审核动作的只增审计记录。
// 每条记录关联且仅关联一个被审核的请求（游戏请求或用户请求二选一），
// 只在审核事务提交时写入，之后从不修改或删除。
type AdminAction struct {
	// ID 是审计记录的主键，UUID字符串
	ID string `gorm:"primarykey;type:varchar(36)" json:"id"`

	// AdminID 是执行审核的管理员用户ID
	AdminID string `gorm:"index;not null" json:"admin_id"`

	// GameRequestID 是被审核的游戏请求ID，与 UserRequestID 二选一
	GameRequestID string `gorm:"index" json:"game_request_id,omitempty"`

	// UserRequestID 是被审核的用户请求ID，与 GameRequestID 二选一
	UserRequestID string `gorm:"index" json:"user_request_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
