package scheduler

import (
	"math/big"
	"time"

	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CampaignStatusJob 活动状态更新任务。已结束且未关闭的活动中，
// 未达门槛的标记为 failed（仅用于展示，取回条件按实际门槛判定）。
type CampaignStatusJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewCampaignStatusJob 创建活动状态更新任务
func NewCampaignStatusJob(db *gorm.DB, cfg *config.Config) *CampaignStatusJob {
	return &CampaignStatusJob{db: db, config: cfg}
}

// GetName 获取任务名称
func (j *CampaignStatusJob) GetName() string {
	return "campaign_status_updater"
}

// GetSchedule 获取调度配置
func (j *CampaignStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignStatusJob) Execute() {
	logger.Info("Starting campaign status update task")

	var feeConfig model.FeeConfig
	if err := j.db.First(&feeConfig).Error; err != nil {
		logger.Error("Failed to load fee config: %v", err)
		return
	}

	var campaigns []model.Campaign
	err := j.db.Where("closed = ? AND status = ? AND end_time < ?",
		false, model.CampaignStatusActive, time.Now()).Find(&campaigns).Error
	if err != nil {
		logger.Error("Failed to fetch campaigns: %v", err)
		return
	}

	updatedCount := 0
	for i := range campaigns {
		campaign := &campaigns[i]

		// 门槛判定：totalRaised × 100 < hardCap × minThresholdPercent
		lhs := new(big.Int).Mul(&campaign.TotalRaised.Int, big.NewInt(100))
		rhs := new(big.Int).Mul(&campaign.HardCap.Int, big.NewInt(feeConfig.MinThresholdPercent))
		if lhs.Cmp(rhs) >= 0 {
			// 已达门槛，等待项目方关闭
			continue
		}

		if err := j.db.Model(campaign).Update("status", model.CampaignStatusFailed).Error; err != nil {
			logger.Error("Failed to update campaign %s status: %v", campaign.CampaignId, err)
			continue
		}
		updatedCount++
	}

	logger.Info("Campaign status update task completed. Updated %d campaigns", updatedCount)
}
