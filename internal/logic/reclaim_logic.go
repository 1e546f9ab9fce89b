package logic

import (
	"math/big"
	"time"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// ReclaimLogic 募集失败后的取回业务逻辑
type ReclaimLogic struct {
	db     *gorm.DB
	collab *chain.Collaborators
	cfg    config.LedgerConfig
	clock  func() time.Time
}

// NewReclaimLogic 创建取回业务逻辑
func NewReclaimLogic(db *gorm.DB, collab *chain.Collaborators, cfg config.LedgerConfig) *ReclaimLogic {
	return &ReclaimLogic{db: db, collab: collab, cfg: cfg, clock: defaultClock}
}

// ReclaimTokens 募集失败取回。投资人取回本人全部各资产投资款，
// 项目方（宽限期后）取回未售出的代币配额。每个投资人对每种资产至多
// 取回一次，账内清零先于对外转账提交。
func (l *ReclaimLogic) ReclaimTokens(campaignId, caller string) error {
	campaign, err := loadCampaign(l.db, campaignId)
	if err != nil {
		return err
	}
	if campaign.Closed {
		return ErrCampaignAlreadyClosed
	}
	if l.clock().Before(campaign.EndTime) {
		return ErrCampaignStillRunning
	}
	if campaign.Settling {
		return ErrSettlementInProgress
	}

	feeConfig, err := loadFeeConfig(l.db)
	if err != nil {
		return err
	}
	// 达到门槛的活动仍可由项目方关闭，不进入取回流程
	if thresholdMet(campaign, feeConfig.MinThresholdPercent) {
		return ErrReclaimUnavailable
	}

	// 重入保护，与关闭结算共用 Settling 标志
	locked := l.db.Model(&model.Campaign{}).
		Where("campaign_id = ? AND closed = ? AND settling = ?", campaignId, false, false).
		Update("settling", true)
	if locked.Error != nil {
		return locked.Error
	}
	if locked.RowsAffected == 0 {
		return ErrSettlementInProgress
	}
	defer l.db.Model(&model.Campaign{}).Where("campaign_id = ?", campaignId).
		Update("settling", false)

	if sameAddress(caller, campaign.OwnerAddress) {
		return l.reclaimAllocation(campaign)
	}
	return l.reclaimContributions(campaign, caller)
}

// reclaimContributions 投资人取回本人各资产投资款，记录清零后保留用于审计
func (l *ReclaimLogic) reclaimContributions(campaign *model.Campaign, investor string) error {
	var records []model.ContributeRecord
	if err := l.db.Where("campaign_id = ? AND investor_address = ? AND refunded = ?",
		campaign.CampaignId, investor, false).Find(&records).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNothingToReclaim
	}

	// 账内清零并落退款记录，先于对外转账提交
	refunds := make([]model.RefundRecord, 0, len(records))
	err := l.db.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			record := &records[i]
			if record.Amount.Int.Sign() == 0 {
				continue
			}
			refund := model.RefundRecord{
				CampaignId:   campaign.CampaignId,
				Address:      investor,
				AssetAddress: record.AssetAddress,
				Amount:       types.NewBigInt(&record.Amount.Int),
				Kind:         model.RefundKindInvestor,
				Status:       model.RefundStatusPending,
			}
			if err := tx.Create(&refund).Error; err != nil {
				return err
			}
			refunds = append(refunds, refund)

			if err := tx.Model(record).Updates(map[string]interface{}{
				"amount":   types.NewBigIntFromInt64(0),
				"units":    types.NewBigIntFromInt64(0),
				"refunded": true,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(refunds) == 0 {
		return ErrNothingToReclaim
	}

	l.performRefundTransfers(refunds)
	logger.Info("Investor reclaim processed: campaign=%s investor=%s assets=%d",
		campaign.CampaignId, investor, len(refunds))
	return nil
}

// reclaimAllocation 项目方取回未售出代币：总配额减去投资人应得总量。
// 仅在宽限期之后可用，避免与仍在取回的投资人重复计算。
func (l *ReclaimLogic) reclaimAllocation(campaign *model.Campaign) error {
	grace := time.Duration(l.cfg.ReclaimGraceSeconds) * time.Second
	if l.clock().Before(campaign.EndTime.Add(grace)) {
		return ErrReclaimUnavailable
	}
	if campaign.AllocationReclaimed {
		return ErrNothingToReclaim
	}

	var positions []model.VestingPosition
	if err := l.db.Where("campaign_id = ?", campaign.CampaignId).Find(&positions).Error; err != nil {
		return err
	}
	entitledTotal := big.NewInt(0)
	for i := range positions {
		entitledTotal.Add(entitledTotal, &positions[i].Entitled.Int)
	}

	unsold := new(big.Int).Sub(&campaign.TotalAllocation.Int, entitledTotal)
	if unsold.Sign() <= 0 {
		return ErrNothingToReclaim
	}

	var refund model.RefundRecord
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Campaign{}).Where("campaign_id = ?", campaign.CampaignId).
			Update("allocation_reclaimed", true).Error; err != nil {
			return err
		}
		refund = model.RefundRecord{
			CampaignId:   campaign.CampaignId,
			Address:      campaign.OwnerAddress,
			AssetAddress: campaign.TokenAddress,
			Amount:       types.NewBigInt(unsold),
			Kind:         model.RefundKindAllocation,
			Status:       model.RefundStatusPending,
		}
		return tx.Create(&refund).Error
	})
	if err != nil {
		return err
	}

	l.performRefundTransfers([]model.RefundRecord{refund})
	logger.Info("Owner allocation reclaim processed: campaign=%s unsold=%s",
		campaign.CampaignId, unsold.String())
	return nil
}

// performRefundTransfers 执行退款转账，失败的记录由调度任务重试
func (l *ReclaimLogic) performRefundTransfers(refunds []model.RefundRecord) {
	for i := range refunds {
		refund := &refunds[i]
		var err error
		if refund.AssetAddress == chain.NativeAssetAddress {
			err = l.collab.Token.TransferNative(common.HexToAddress(refund.Address), &refund.Amount.Int)
		} else {
			err = l.collab.Token.Transfer(common.HexToAddress(refund.AssetAddress),
				common.HexToAddress(refund.Address), &refund.Amount.Int)
		}
		if err != nil {
			logger.Error("Refund transfer failed: campaign=%s address=%s asset=%s: %v",
				refund.CampaignId, refund.Address, refund.AssetAddress, err)
			l.db.Model(refund).Updates(map[string]interface{}{
				"status":      model.RefundStatusFailed,
				"fail_reason": err.Error(),
			})
			continue
		}
		l.db.Model(refund).Updates(map[string]interface{}{
			"status":      model.RefundStatusSuccess,
			"fail_reason": "",
		})
	}
}

// RetryPendingRefunds 重试未完成的退款转账，由调度任务周期调用
func (l *ReclaimLogic) RetryPendingRefunds() (int, error) {
	var refunds []model.RefundRecord
	if err := l.db.Where("status IN ?", []model.RefundStatus{
		model.RefundStatusPending,
		model.RefundStatusFailed,
	}).Find(&refunds).Error; err != nil {
		return 0, err
	}
	if len(refunds) == 0 {
		return 0, nil
	}
	l.performRefundTransfers(refunds)
	return len(refunds), nil
}
