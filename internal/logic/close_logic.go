package logic

import (
	"math/big"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/settlement"
	"github.com/blues/lps/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// CloseCampaign 关闭募集活动并执行结算。仅项目方可调用，活动须已结束
// 且募集总额达到最低门槛。账内状态（关闭标志、结算记录）先于任何对外
// 转账提交，结算期间由 Settling 标志做重入保护。
func (c *CampaignLogic) CloseCampaign(campaignId, caller string) error {
	campaign, err := loadCampaign(c.db, campaignId)
	if err != nil {
		return err
	}
	if !sameAddress(caller, campaign.OwnerAddress) {
		return ErrNotOwner
	}
	if campaign.Closed {
		return ErrCampaignAlreadyClosed
	}
	if c.clock().Before(campaign.EndTime) {
		return ErrCampaignStillRunning
	}
	if campaign.Settling {
		return ErrSettlementInProgress
	}

	feeConfig, err := loadFeeConfig(c.db)
	if err != nil {
		return err
	}

	// 门槛判定：totalRaised × 100 ≥ hardCap × minThresholdPercent
	if !thresholdMet(campaign, feeConfig.MinThresholdPercent) {
		return ErrThresholdNotMet
	}

	// 重入保护：抢占结算标志，并发的第二次调用在此失败
	locked := c.db.Model(&model.Campaign{}).
		Where("campaign_id = ? AND closed = ? AND settling = ?", campaignId, false, false).
		Update("settling", true)
	if locked.Error != nil {
		return locked.Error
	}
	if locked.RowsAffected == 0 {
		return ErrSettlementInProgress
	}

	records, err := c.settle(campaign, feeConfig)
	if err != nil {
		// 记账失败则释放标志，活动保持未关闭
		c.db.Model(&model.Campaign{}).Where("campaign_id = ?", campaignId).
			Update("settling", false)
		return err
	}

	// 账内状态已提交，此后的对外转账失败不回退关闭状态，
	// 未完成的结算记录由调度任务重试
	c.PerformSettlementTransfers(campaign, records)

	if err := c.db.Model(&model.Campaign{}).Where("campaign_id = ?", campaignId).
		Update("settling", false).Error; err != nil {
		return err
	}

	logger.Info("Campaign closed: id=%s total_raised=%s", campaignId, campaign.TotalRaised.Int.String())
	return nil
}

// thresholdMet 募集总额是否达到硬顶的最低百分比
func thresholdMet(campaign *model.Campaign, minThresholdPercent int64) bool {
	lhs := new(big.Int).Mul(&campaign.TotalRaised.Int, big.NewInt(100))
	rhs := new(big.Int).Mul(&campaign.HardCap.Int, big.NewInt(minThresholdPercent))
	return lhs.Cmp(rhs) >= 0
}

// settle 在单个事务内完成结算记账：按资产计算费用拆分、写入结算记录、
// 标记活动成功关闭并设定释放起点
func (c *CampaignLogic) settle(campaign *model.Campaign, feeConfig *model.FeeConfig) ([]model.SettlementRecord, error) {
	tiers := settlement.FeeTiers{
		Tier1Threshold: &feeConfig.Tier1Threshold.Int,
		Tier2Threshold: &feeConfig.Tier2Threshold.Int,
		Tier1Percent:   feeConfig.Tier1Percent,
		Tier2Percent:   feeConfig.Tier2Percent,
		Tier3Percent:   feeConfig.Tier3Percent,
	}
	tierPercent := tiers.SelectTierPercent(&campaign.TotalRaised.Int)

	// 策展份额来自登记处，未配置或为零时整体跳过
	curatorPercent := int64(0)
	if c.collab.Curator != nil {
		pct, err := c.collab.Curator.CuratorPercentage(campaign.CampaignId)
		if err != nil {
			return nil, err
		}
		curatorPercent = pct
	}

	var assets []model.CampaignAsset
	if err := c.db.Where("campaign_id = ?", campaign.CampaignId).Find(&assets).Error; err != nil {
		return nil, err
	}

	var records []model.SettlementRecord
	now := c.clock()
	err := c.db.Transaction(func(tx *gorm.DB) error {
		for _, asset := range assets {
			if asset.Raised.Int.Sign() == 0 {
				continue
			}
			split := settlement.ComputeSplit(settlement.SplitInput{
				AssetRaised:    &asset.Raised.Int,
				TierPercent:    tierPercent,
				PlatformShare:  feeConfig.PlatformShare,
				StakingShare:   feeConfig.StakingShare,
				ReferralShare:  feeConfig.ReferralShare,
				CuratorPercent: curatorPercent,
				HasPlatform:    !isZeroAddress(feeConfig.PlatformAddress),
				HasStaking:     !isZeroAddress(feeConfig.StakingAddress) && c.collab.Staking != nil,
				HasCurator:     c.collab.Curator != nil && curatorPercent > 0,
				HasReferral:    !isZeroAddress(campaign.ReferralAddress),
			})

			record := model.SettlementRecord{
				CampaignId:   campaign.CampaignId,
				AssetAddress: asset.AssetAddress,
				// 收款地址随金额快照，重试时不再读取实时费率配置
				PlatformAddress: feeConfig.PlatformAddress,
				StakingAddress:  feeConfig.StakingAddress,
				AssetRaised:     types.NewBigInt(&asset.Raised.Int),
				TierPercent:     tierPercent,
				BaseFee:         types.NewBigInt(split.BaseFee),
				PlatformFee:     types.NewBigInt(split.PlatformFee),
				StakingFee:      types.NewBigInt(split.StakingFee),
				CuratorFee:      types.NewBigInt(split.CuratorFee),
				ReferralFee:     types.NewBigInt(split.ReferralFee),
				OwnerAmount:     types.NewBigInt(split.OwnerAmount),
				Status:          model.SettlementStatusPending,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			records = append(records, record)
		}

		if err := tx.Model(&model.Campaign{}).Where("campaign_id = ?", campaign.CampaignId).
			Updates(map[string]interface{}{
				"closed":        true,
				"status":        model.CampaignStatusSuccess,
				"vesting_start": &now,
			}).Error; err != nil {
			return err
		}
		campaign.Closed = true
		campaign.Status = model.CampaignStatusSuccess
		campaign.VestingStart = &now

		return writeEvent(tx, campaign.CampaignId, model.EventCampaignClosed, campaign.OwnerAddress,
			map[string]interface{}{
				"total_raised": campaign.TotalRaised.Int.String(),
				"tier_percent": tierPercent,
			})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// PerformSettlementTransfers 执行结算记录的对外转账，固定顺序：
// 平台、质押池、策展池、推荐人、项目方。失败的记录标记后由调度任务重试。
func (c *CampaignLogic) PerformSettlementTransfers(campaign *model.Campaign, records []model.SettlementRecord) {
	for i := range records {
		record := &records[i]
		if err := c.transferSettlement(campaign, record); err != nil {
			logger.Error("Settlement transfer failed: campaign=%s asset=%s: %v",
				record.CampaignId, record.AssetAddress, err)
			c.db.Model(record).Updates(map[string]interface{}{
				"status":      model.SettlementStatusFailed,
				"fail_reason": err.Error(),
			})
			continue
		}
		now := c.clock()
		c.db.Model(record).Updates(map[string]interface{}{
			"status":          model.SettlementStatusSuccess,
			"settlement_time": &now,
			"fail_reason":     "",
		})
	}
}

func (c *CampaignLogic) transferSettlement(campaign *model.Campaign, record *model.SettlementRecord) error {
	asset := common.HexToAddress(record.AssetAddress)
	native := record.AssetAddress == chain.NativeAssetAddress

	pay := func(to string, amount *big.Int) error {
		if amount.Sign() == 0 {
			return nil
		}
		if native {
			return c.collab.Token.TransferNative(common.HexToAddress(to), amount)
		}
		return c.collab.Token.Transfer(asset, common.HexToAddress(to), amount)
	}

	if err := pay(record.PlatformAddress, &record.PlatformFee.Int); err != nil {
		return err
	}
	if record.StakingFee.Int.Sign() > 0 {
		if err := pay(record.StakingAddress, &record.StakingFee.Int); err != nil {
			return err
		}
		if err := c.collab.Staking.ReceiveFees(asset, &record.StakingFee.Int); err != nil {
			return err
		}
	}
	if record.CuratorFee.Int.Sign() > 0 {
		if err := c.collab.Curator.ReceiveFees(asset, &record.CuratorFee.Int, campaign.CampaignId); err != nil {
			return err
		}
	}
	if err := pay(campaign.ReferralAddress, &record.ReferralFee.Int); err != nil {
		return err
	}
	return pay(campaign.OwnerAddress, &record.OwnerAmount.Int)
}

// RetryPendingSettlements 重试未完成的结算转账，由调度任务周期调用
func (c *CampaignLogic) RetryPendingSettlements() (int, error) {
	var records []model.SettlementRecord
	if err := c.db.Where("status IN ?", []model.SettlementStatus{
		model.SettlementStatusPending,
		model.SettlementStatusFailed,
	}).Find(&records).Error; err != nil {
		return 0, err
	}

	retried := 0
	byId := make(map[string][]model.SettlementRecord)
	for _, r := range records {
		byId[r.CampaignId] = append(byId[r.CampaignId], r)
	}
	for campaignId, group := range byId {
		campaign, err := loadCampaign(c.db, campaignId)
		if err != nil {
			logger.Error("Failed to load campaign %s for settlement retry: %v", campaignId, err)
			continue
		}
		c.PerformSettlementTransfers(campaign, group)
		retried += len(group)
	}
	return retried, nil
}
