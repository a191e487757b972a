package request

import (
	"fmt"

	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&GameRequest{}, &UserRequest{}); err != nil {
		return fmt.Errorf("无法迁移request相关表: %w", err)
	}
	fmt.Println("Request数据库表迁移成功。")
	return nil
}

// PrimeModule 是request模块的初始化总入口
func PrimeModule() error {
	return migrateDB()
}
