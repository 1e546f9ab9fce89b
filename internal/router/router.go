package router

import (
	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, collab *chain.Collaborators, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "launchpad-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		campaignHandler := handler.NewCampaignHandler(db, collab, cfg.Ledger)
		investHandler := handler.NewInvestHandler(db, collab)
		vestingHandler := handler.NewVestingHandler(db, collab, cfg.Ledger)
		adminHandler := handler.NewAdminHandler(db, cfg.Ledger)

		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
			campaigns.POST("/:id/close", campaignHandler.CloseCampaign)

			campaigns.POST("/:id/invest", investHandler.Invest)
			campaigns.POST("/:id/invest-native", investHandler.InvestNative)
			campaigns.GET("/:id/contributions", investHandler.GetCampaignContributions)
			campaigns.GET("/:id/balances/:investor", investHandler.GetInvestorBalances)

			campaigns.POST("/:id/release", vestingHandler.Release)
			campaigns.GET("/:id/vesting/:investor", vestingHandler.GetVestingPlan)
			campaigns.POST("/:id/reclaim", vestingHandler.Reclaim)

			campaigns.POST("/:id/whitelist", adminHandler.AddToAllowlist)
		}

		admin := v1.Group("/config")
		{
			admin.GET("/fees", adminHandler.GetFeeConfig)
			admin.PUT("/fees", adminHandler.SetFeeConfig)
			admin.GET("/assets", adminHandler.GetAssets)
			admin.POST("/assets", adminHandler.RegisterAsset)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Caller-Address")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
