package reaction

import (
	"fmt"

	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&GameReaction{}, &GameSuperlike{}, &GameView{}); err != nil {
		return fmt.Errorf("无法迁移reaction相关表: %w", err)
	}
	fmt.Println("Reaction数据库表迁移成功。")
	return nil
}

// PrimeModule 是reaction模块的初始化总入口
func PrimeModule() error {
	return migrateDB()
}
