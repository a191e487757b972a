package startup

import (
	"fmt"

	"github.com/SlpAus/game-gallery-backend/internal/audit"
	"github.com/SlpAus/game-gallery-backend/internal/game"
	"github.com/SlpAus/game-gallery-backend/internal/reaction"
	"github.com/SlpAus/game-gallery-backend/internal/request"
	"github.com/SlpAus/game-gallery-backend/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口。
// 按依赖顺序初始化各业务模块（主要是表结构迁移）。
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := user.PrimeModule(); err != nil {
		return err
	}
	if err := game.PrimeModule(); err != nil {
		return err
	}
	if err := reaction.PrimeModule(); err != nil {
		return err
	}
	if err := request.PrimeModule(); err != nil {
		return err
	}
	if err := audit.PrimeModule(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}
