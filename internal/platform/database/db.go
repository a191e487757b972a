package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/game-gallery-backend/internal/platform/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的GORM实例，供项目其他部分使用
var DB *gorm.DB

// InitDB 根据配置初始化主数据库连接。
// 默认使用SQLite单文件库，配置了DSN时切换到PostgreSQL。
func InitDB(cfg config.DatabaseConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	// TranslateError 让驱动的唯一约束错误统一翻译为 gorm.ErrDuplicatedKey
	gormCfg := &gorm.Config{Logger: newLogger, TranslateError: true}

	switch cfg.Driver {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(cfg.Postgres.DSN), gormCfg)
	default:
		DB, err = gorm.Open(sqlite.Open(cfg.Sqlite.Path), gormCfg)
	}

	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	fmt.Println("数据库连接成功！")
}

// CloseDB 关闭底层数据库连接，用于停机流程。
func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		fmt.Printf("获取底层数据库连接失败: %v\n", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		fmt.Printf("关闭数据库连接失败: %v\n", err)
	}
}
