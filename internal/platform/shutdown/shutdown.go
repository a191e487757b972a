package shutdown

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
)

// httpShutdownTimeout 是等待在途请求完成的上限
const httpShutdownTimeout = 15 * time.Second

// ListenForSignalsAndShutdown 启动信号监听并阻塞，直到停机流程完成。
// 收到信号后先关闭HTTP服务器让在途请求收尾，再关闭存储连接。
func ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 阻塞直到接收到停机信号
	<-sigChan
	fmt.Println("\n收到关闭信号，开始优雅停机...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Gin服务器关闭错误: %v\n", err)
	} else {
		fmt.Println("Gin服务器已关闭。")
	}

	// 所有请求结束后才能安全关闭存储连接
	database.CloseRedis()
	database.CloseDB()

	fmt.Println("停机流程完成。")
}
