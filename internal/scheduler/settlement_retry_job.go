package scheduler

import (
	"time"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// SettlementRetryJob 结算、退款与释放转账重试任务
type SettlementRetryJob struct {
	campaignLogic *logic.CampaignLogic
	reclaimLogic  *logic.ReclaimLogic
	vestingLogic  *logic.VestingLogic
	config        *config.Config
}

// NewSettlementRetryJob 创建结算重试任务
func NewSettlementRetryJob(db *gorm.DB, collab *chain.Collaborators, cfg *config.Config) *SettlementRetryJob {
	return &SettlementRetryJob{
		campaignLogic: logic.NewCampaignLogic(db, collab, cfg.Ledger),
		reclaimLogic:  logic.NewReclaimLogic(db, collab, cfg.Ledger),
		vestingLogic:  logic.NewVestingLogic(db, collab),
		config:        cfg,
	}
}

// GetName 获取任务名称
func (j *SettlementRetryJob) GetName() string {
	return "settlement_retry"
}

// GetSchedule 获取调度配置
func (j *SettlementRetryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *SettlementRetryJob) Execute() {
	settled, err := j.campaignLogic.RetryPendingSettlements()
	if err != nil {
		logger.Error("Failed to retry pending settlements: %v", err)
	}

	refunded, err := j.reclaimLogic.RetryPendingRefunds()
	if err != nil {
		logger.Error("Failed to retry pending refunds: %v", err)
	}

	released, err := j.vestingLogic.RetryPendingReleases()
	if err != nil {
		logger.Error("Failed to retry pending releases: %v", err)
	}

	if settled > 0 || refunded > 0 || released > 0 {
		logger.Info("Settlement retry task completed. Settled %d, refunded %d, released %d transfers",
			settled, refunded, released)
	}
}
