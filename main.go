// @title Classroom 后端 API
// @version 1.0
// @description 班级学习管理系统的后端服务。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"

	"classroom_backend/internal/app"
	"classroom_backend/internal/config"
	"classroom_backend/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	seedOnly := flag.Bool("seed-only", false, "只写入示例数据，完成后退出")
	flag.Parse()

	// .env 是可选的，本地开发时用来覆盖环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load .env: %v", err)
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.SeedOnly = *seedOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	if cfg.SeedOnly {
		err := application.Seed(context.Background())
		application.Close()
		if err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		log.Println("示例数据初始化完成，退出程序")
		return
	}

	if err := application.Run(); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
		logger.Log.Sync()
		log.Fatal(err)
	}
}
