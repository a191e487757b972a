package game

import (
	"errors"
	"strings"
	"time"

	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"gorm.io/gorm"
)

// ListFilter 定义了游戏列表查询支持的筛选条件
type ListFilter struct {
	Search        string
	MinLikes      *int
	MaxLikes      *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          int
	Limit         int
}

// GetGameByID 按主键查询游戏，无论其是否上线。
func GetGameByID(id string) (*Game, error) {
	var g Game
	if err := database.DB.Where("id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("游戏不存在")
		}
		return nil, apperror.Storage(err, "查询游戏失败")
	}
	return &g, nil
}

// GetActiveGame 查询一个上线中的游戏。
// 游戏存在但已下架时返回 InvalidState，提示调用方状态已过期。
func GetActiveGame(id string) (*Game, error) {
	g, err := GetGameByID(id)
	if err != nil {
		return nil, err
	}
	if !g.IsActive {
		return nil, apperror.InvalidState("游戏已下架")
	}
	return g, nil
}

// ListGames 返回按创建时间倒序的上线游戏列表及总数。
func ListGames(filter ListFilter) ([]Game, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 50 {
		filter.Limit = 10
	}

	query := database.DB.Model(&Game{}).Where("is_active = ?", true)
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("title LIKE ?", "%"+s+"%")
	}
	if filter.MinLikes != nil {
		query = query.Where("count_likes >= ?", *filter.MinLikes)
	}
	if filter.MaxLikes != nil {
		query = query.Where("count_likes <= ?", *filter.MaxLikes)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Storage(err, "统计游戏数量失败")
	}

	var games []Game
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&games).Error; err != nil {
		return nil, 0, apperror.Storage(err, "查询游戏列表失败")
	}
	return games, total, nil
}

// Deactivate 将一个上线中的游戏下架（软删除）。
// 行本身保留，供宽限期内的恢复申诉使用。
func Deactivate(gameID, adminID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperror.Validation("下架原因不能为空")
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var g Game
		if err := tx.Where("id = ?", gameID).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("游戏不存在")
			}
			return apperror.Storage(err, "查询游戏失败")
		}
		if !g.IsActive {
			return apperror.InvalidState("游戏已处于下架状态")
		}

		// 条件更新并核对影响行数，并发下架只允许一个成功
		res := tx.Model(&Game{}).
			Where("id = ? AND is_active = ?", gameID, true).
			Updates(map[string]interface{}{
				"is_active":           false,
				"deactivated_at":      time.Now(),
				"deactivated_by":      adminID,
				"deactivation_reason": reason,
			})
		if res.Error != nil {
			return apperror.Storage(res.Error, "下架游戏失败")
		}
		if res.RowsAffected == 0 {
			return apperror.InvalidState("游戏已处于下架状态")
		}
		return nil
	})
}

// Reactivate 恢复一个已下架的游戏。
// 只在管理员批准游戏申诉时，由请求处理事务调用。
func Reactivate(tx *gorm.DB, gameID string) error {
	res := tx.Model(&Game{}).
		Where("id = ? AND is_active = ?", gameID, false).
		Updates(map[string]interface{}{
			"is_active":           true,
			"deactivated_at":      nil,
			"deactivated_by":      "",
			"deactivation_reason": "",
		})
	if res.Error != nil {
		return apperror.Storage(res.Error, "恢复游戏失败")
	}
	return nil
}
