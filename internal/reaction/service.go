package reaction

import (
	"errors"

	"github.com/SlpAus/game-gallery-backend/internal/game"
	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/SlpAus/game-gallery-backend/internal/user"
	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyCounterDelta 在事务内以存储层原子表达式更新游戏的点评计数。
// score 与计数在同一条UPDATE里按相同的增量重算，不在应用内读改写，
// 避免并发切换下的丢失更新。
func applyCounterDelta(tx *gorm.DB, gameID string, dLikes, dDislikes int) error {
	res := tx.Model(&game.Game{}).Where("id = ?", gameID).Updates(map[string]interface{}{
		"count_likes":    gorm.Expr("count_likes + ?", dLikes),
		"count_dislikes": gorm.Expr("count_dislikes + ?", dDislikes),
		"score":          gorm.Expr("(count_likes + ?) - (count_dislikes + ?)", dLikes, dDislikes),
	})
	if res.Error != nil {
		return apperror.Storage(res.Error, "更新游戏计数失败")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("游戏不存在")
	}
	return nil
}

// Toggle 处理一次点评切换，在单个事务内完成三分支之一：
// 无点评则新增，同类型则撤销，不同类型则原地改写。
// 返回实际发生的动作。游戏已下架不阻止点评，这是有意的策略选择。
func Toggle(userID, gameID string, rtype ReactionType) (ToggleAction, error) {
	if !rtype.IsValid() {
		return "", apperror.Validation("无效的点评类型，合法值为 like 和 dislike")
	}

	var action ToggleAction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 锁定游戏行，使同一游戏上的并发切换串行化
		var g game.Game
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", gameID).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("游戏不存在")
			}
			return apperror.Storage(err, "查询游戏失败")
		}

		var existing GameReaction
		err := tx.Where("user_id = ? AND game_id = ?", userID, gameID).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 分支一：新增点评
			newReaction := GameReaction{UserID: userID, GameID: gameID, ReactionType: rtype}
			if err := tx.Create(&newReaction).Error; err != nil {
				return apperror.Storage(err, "写入点评失败")
			}
			if rtype == TypeLike {
				if err := applyCounterDelta(tx, gameID, 1, 0); err != nil {
					return err
				}
			} else {
				if err := applyCounterDelta(tx, gameID, 0, 1); err != nil {
					return err
				}
			}
			action = ActionAdded

		case err != nil:
			return apperror.Storage(err, "查询点评失败")

		case existing.ReactionType == rtype:
			// 分支二：撤销同类型点评
			if err := tx.Where("user_id = ? AND game_id = ?", userID, gameID).
				Delete(&GameReaction{}).Error; err != nil {
				return apperror.Storage(err, "删除点评失败")
			}
			if rtype == TypeLike {
				if err := applyCounterDelta(tx, gameID, -1, 0); err != nil {
					return err
				}
			} else {
				if err := applyCounterDelta(tx, gameID, 0, -1); err != nil {
					return err
				}
			}
			action = ActionRemoved

		default:
			// 分支三：在like和dislike之间切换
			if err := tx.Model(&GameReaction{}).
				Where("user_id = ? AND game_id = ?", userID, gameID).
				Update("reaction_type", rtype).Error; err != nil {
				return apperror.Storage(err, "改写点评失败")
			}
			if rtype == TypeLike {
				if err := applyCounterDelta(tx, gameID, 1, -1); err != nil {
					return err
				}
			} else {
				if err := applyCounterDelta(tx, gameID, -1, 1); err != nil {
					return err
				}
			}
			action = ActionChanged
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

// GetReaction 查询用户对游戏的当前点评类型，没有则返回空字符串。
func GetReaction(userID, gameID string) (ReactionType, error) {
	var r GameReaction
	err := database.DB.Where("user_id = ? AND game_id = ?", userID, gameID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", apperror.Storage(err, "查询点评失败")
	}
	return r.ReactionType, nil
}

// Superlike 消耗一点额度为游戏追加超级赞。
// 关联行插入、游戏计数加一、用户额度扣减在同一事务内完成。
// 额度扣减用条件UPDATE表达，额度并发归零时不可能双花。
func Superlike(userID, gameID string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var g game.Game
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", gameID).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("游戏不存在")
			}
			return apperror.Storage(err, "查询游戏失败")
		}
		if !g.IsActive {
			return apperror.InvalidState("游戏已下架")
		}

		var count int64
		if err := tx.Model(&GameSuperlike{}).
			Where("user_id = ? AND game_id = ?", userID, gameID).
			Count(&count).Error; err != nil {
			return apperror.Storage(err, "查询超级赞失败")
		}
		if count > 0 {
			return apperror.Conflict("已经超级赞过这个游戏")
		}

		// 条件扣减额度：只有额度大于零的行会被更新，
		// 影响行数为零即额度耗尽（或用户不存在）
		res := tx.Model(&user.User{}).
			Where("id = ? AND superlikes_remaining > 0", userID).
			Update("superlikes_remaining", gorm.Expr("superlikes_remaining - 1"))
		if res.Error != nil {
			return apperror.Storage(res.Error, "扣减超级赞额度失败")
		}
		if res.RowsAffected == 0 {
			var u user.User
			if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NotFound("用户不存在")
				}
				return apperror.Storage(err, "查询用户失败")
			}
			return apperror.ResourceExhausted("超级赞额度已用完")
		}

		newSuperlike := GameSuperlike{UserID: userID, GameID: gameID}
		if err := tx.Create(&newSuperlike).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict("已经超级赞过这个游戏")
			}
			return apperror.Storage(err, "写入超级赞失败")
		}

		if err := tx.Model(&game.Game{}).Where("id = ?", gameID).
			Update("count_superlikes", gorm.Expr("count_superlikes + 1")).Error; err != nil {
			return apperror.Storage(err, "更新超级赞计数失败")
		}
		return nil
	})
}

// ViewMeta 携带一次浏览事件的可选来源信息
type ViewMeta struct {
	UserID      string
	IPHash      string
	Fingerprint string
	UserAgent   string
}

// RecordView 追加一条浏览事件并无条件使view_count加一，两者同一事务。
// 核心层不做去重，按指纹的节流是上层的策略。
func RecordView(gameID string, meta ViewMeta) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&game.Game{}).Where("id = ?", gameID).Count(&count).Error; err != nil {
			return apperror.Storage(err, "查询游戏失败")
		}
		if count == 0 {
			return apperror.NotFound("游戏不存在")
		}

		view := GameView{
			GameID:      gameID,
			UserID:      meta.UserID,
			IPHash:      meta.IPHash,
			Fingerprint: meta.Fingerprint,
			UserAgent:   meta.UserAgent,
		}
		if err := tx.Create(&view).Error; err != nil {
			return apperror.Storage(err, "写入浏览记录失败")
		}

		if err := tx.Model(&game.Game{}).Where("id = ?", gameID).
			Update("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			return apperror.Storage(err, "更新浏览计数失败")
		}
		return nil
	})
}
