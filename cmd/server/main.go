package main

import (
	"log"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/database"
	"github.com/blues/lps/internal/event"
	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/logic"
	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/router"
	"github.com/blues/lps/internal/scheduler"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := setupLogger(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化链上协作方
	chainManager, err := chain.NewManager(cfg.Chain)
	if err != nil {
		log.Fatalf("Failed to initialize chain manager: %v", err)
	}
	collab := chainManager.Collaborators()

	// 注册已登记资产的喂价地址
	if err := registerAssetFeeds(db, chainManager); err != nil {
		log.Fatalf("Failed to register asset feeds: %v", err)
	}

	// 确保费用配置存在
	if err := logic.NewFeeLogic(db, cfg.Ledger).EnsureDefaultFeeConfig(); err != nil {
		log.Fatalf("Failed to ensure fee config: %v", err)
	}

	// 初始化事件分发器
	dispatcher, err := event.NewDispatcher(db, 10)
	if err != nil {
		log.Fatalf("Failed to initialize event dispatcher: %v", err)
	}
	defer dispatcher.Release()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, collab, cfg)

	// 启动定时任务
	manager := scheduler.Start(db, collab, dispatcher, cfg)
	defer manager.Stop()

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupLogger(cfg config.LogConfig) error {
	level := logger.ParseLogLevel(cfg.Level)

	var l *logger.Logger
	var err error
	if cfg.Output == "file" {
		l, err = logger.NewWithFileRotation(level, cfg.File)
	} else {
		l, err = logger.New(level)
	}
	if err != nil {
		return err
	}

	logger.SetDefaultLogger(l)
	return nil
}

// registerAssetFeeds 启动时把资产表里已配置的喂价地址注册到链上管理器
func registerAssetFeeds(db *gorm.DB, manager *chain.Manager) error {
	var assets []model.Asset
	if err := db.Where("enabled = ? AND feed_address <> ''", true).Find(&assets).Error; err != nil {
		return err
	}
	for _, asset := range assets {
		manager.RegisterFeed(common.HexToAddress(asset.AssetAddress), common.HexToAddress(asset.FeedAddress))
	}
	return nil
}
