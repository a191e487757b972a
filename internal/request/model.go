package request

import (
	"time"

	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
)

// Status 定义了请求审核状态的封闭枚举。
// 状态机只有一条路径：pending -> approved 或 pending -> rejected，
// 终态之后不存在任何转换，纠错只能重新提交。
type Status string

const (
	// StatusPending 表示等待管理员审核
	StatusPending Status = "pending"
	// StatusApproved 表示已批准（终态）
	StatusApproved Status = "approved"
	// StatusRejected 表示已驳回（终态）
	StatusRejected Status = "rejected"
)

// CanTransitionTo 是状态机唯一的转换判定入口。
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusApproved || next == StatusRejected
}

// validateTransition 将非法转换翻译为业务错误。
func validateTransition(current, next Status) error {
	if !current.CanTransitionTo(next) {
		return apperror.InvalidState("请求已处于 %s 状态，无法再变更", current)
	}
	return nil
}

// GameRequestType 定义了游戏请求的类型枚举
type GameRequestType string

const (
	// TypeNewGame 表示提交一个新游戏
	TypeNewGame GameRequestType = "new_game"
	// TypeGameModification 表示修改一个已上线的游戏
	TypeGameModification GameRequestType = "game_modification"
	// TypeGameAppeal 表示为一个已下架的游戏申诉
	TypeGameAppeal GameRequestType = "game_appeal"
)

// IsValid 判断游戏请求类型是否合法
func (t GameRequestType) IsValid() bool {
	switch t {
	case TypeNewGame, TypeGameModification, TypeGameAppeal:
		return true
	}
	return false
}

// MaxPendingNewGameRequests 是每个用户同时可拥有的待审新游戏请求上限。
// 它限制了单个用户能给审核队列制造的积压。
const MaxPendingNewGameRequests = 3

// GameRequest 是游戏的暂存提案：内容字段先暂存在这里，
// 批准后才物化为 Game。请求行从不删除，它们构成审核的历史轨迹。
type GameRequest struct {
	// ID 是请求的主键，UUID字符串
	ID string `gorm:"primarykey;type:varchar(36)" json:"id"`

	// RequestType 是请求的类型
	RequestType GameRequestType `gorm:"type:varchar(32);not null" json:"request_type"`

	// GameID 指向已存在的游戏，new_game 时为空，
	// game_modification 和 game_appeal 时必填
	GameID string `gorm:"index;type:varchar(36)" json:"game_id,omitempty"`

	// SubmittedBy 是提交者的用户ID
	SubmittedBy string `gorm:"index;not null" json:"submitted_by"`

	// --- 暂存的游戏内容字段 ---

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	GameURL     string `gorm:"index;not null" json:"game_url"`

	// MediaIDs 和 TagIDs 以JSON数组字符串暂存，方便管理员审核时查看
	MediaIDs string `json:"media_ids,omitempty"`
	TagIDs   string `json:"tag_ids,omitempty"`

	// --- 审核字段 ---

	// Status 是请求的审核状态
	Status Status `gorm:"type:varchar(16);default:'pending';not null;index" json:"status"`

	// AdminResponse 是审核时留给提交者的说明
	AdminResponse string `json:"admin_response,omitempty"`

	// ReviewedBy 是审核管理员的用户ID，未审核时为空
	ReviewedBy string `gorm:"type:varchar(36)" json:"reviewed_by,omitempty"`

	// ReviewedAt 是审核完成的时间
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRequestType 定义了用户申诉的类型枚举
type UserRequestType string

const (
	// TypeUserUnbanAppeal 表示账户解封申诉
	TypeUserUnbanAppeal UserRequestType = "user_unban_appeal"
	// TypeGameReportAppeal 表示对游戏处理结果的申诉
	TypeGameReportAppeal UserRequestType = "game_report_appeal"
)

// IsValid 判断用户申诉类型是否合法
func (t UserRequestType) IsValid() bool {
	return t == TypeUserUnbanAppeal || t == TypeGameReportAppeal
}

// UserRequest 是用户提交的申诉，与 GameRequest 共享同一个状态机。
type UserRequest struct {
	// ID 是申诉的主键，UUID字符串
	ID string `gorm:"primarykey;type:varchar(36)" json:"id"`

	// RequestType 是申诉的类型
	RequestType UserRequestType `gorm:"type:varchar(32);not null" json:"request_type"`

	// SubmittedBy 是提交者的用户ID
	SubmittedBy string `gorm:"index;not null" json:"submitted_by"`

	// RelatedGameID 是申诉关联的游戏，game_report_appeal 必填，
	// user_unban_appeal 必须为空
	RelatedGameID string `gorm:"index;type:varchar(36)" json:"related_game_id,omitempty"`

	// AppealText 是申诉的正文
	AppealText string `gorm:"not null" json:"appeal_text"`

	// --- 审核字段 ---

	Status        Status     `gorm:"type:varchar(16);default:'pending';not null;index" json:"status"`
	AdminResponse string     `json:"admin_response,omitempty"`
	ReviewedBy    string     `gorm:"type:varchar(36)" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
