package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/game-gallery-backend/api"
	"github.com/SlpAus/game-gallery-backend/internal/platform/config"
	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/SlpAus/game-gallery-backend/internal/platform/shutdown"
	"github.com/SlpAus/game-gallery-backend/internal/platform/startup"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 仅用于本地开发时注入环境变量，不存在也没关系
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败，无法启动: %v", err))
	}

	gin.SetMode(cfg.Server.Mode)

	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	shutdown.ListenForSignalsAndShutdown(server)
}
