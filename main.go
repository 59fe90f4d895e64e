// @title Pastefile API
// @version 1.0
// @description 内容寻址文件托管服务
// @host localhost:8080
// @BasePath /
// @schemes http
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/weiwangfds/pastefile/config"
	"github.com/weiwangfds/pastefile/internal/database"
	"github.com/weiwangfds/pastefile/internal/logger"
	"github.com/weiwangfds/pastefile/internal/middleware"
	"github.com/weiwangfds/pastefile/internal/router"
	watcherservice "github.com/weiwangfds/pastefile/internal/service/watcher"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(&logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// 确保存储目录存在
	if err := os.MkdirAll(cfg.File.StoragePath, 0755); err != nil {
		log.Fatalf("Failed to create storage directory: %v", err)
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化中间件
	loggerMiddleware := middleware.NewLoggerMiddleware()

	// 初始化存储目录监控服务
	watcherService := watcherservice.NewWatcherService(db, cfg.File.StoragePath)

	// 初始化路由
	r := router.NewRouter(loggerMiddleware, db, cfg)

	// 启动存储目录监控服务
	watcherCtx, cancelWatcher := context.WithCancel(context.Background())
	if err := watcherService.Start(watcherCtx); err != nil {
		logger.Warnf("Failed to start storage watcher service: %v", err)
	}

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      r.GetEngine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 启动HTTP服务器
	go func() {
		logger.Infof("HTTP服务器启动在端口 %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("正在关闭服务器...")

	// 停止存储目录监控服务
	cancelWatcher()
	if err := watcherService.Stop(); err != nil {
		logger.Errorf("Error stopping storage watcher service: %v", err)
	}

	// 优雅关闭服务器
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	logger.Infof("服务器已退出")
}
