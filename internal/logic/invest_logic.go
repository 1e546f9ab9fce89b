package logic

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/pricing"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// InvestLogic 投资账本业务逻辑
type InvestLogic struct {
	db     *gorm.DB
	collab *chain.Collaborators
	clock  func() time.Time
}

// NewInvestLogic 创建投资账本业务逻辑
func NewInvestLogic(db *gorm.DB, collab *chain.Collaborators) *InvestLogic {
	return &InvestLogic{db: db, collab: collab, clock: defaultClock}
}

// Invest 投资指定资产到募集活动。金额按交易时的预言机价格折算为
// 记账单位并固定，不随后续价格变动重算。全部账本变更在单个事务内生效。
func (l *InvestLogic) Invest(campaignId, investor, asset string, amount *big.Int) (*model.ContributeRecord, error) {
	if isZeroAddress(investor) {
		return nil, ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New("投资金额必须大于0")
	}

	campaign, err := loadCampaign(l.db, campaignId)
	if err != nil {
		return nil, err
	}

	now := l.clock()
	if campaign.Closed || now.Before(campaign.StartTime) || now.After(campaign.EndTime) {
		return nil, ErrCampaignNotOpen
	}

	// 资产须在该活动的接受列表中
	var campaignAsset model.CampaignAsset
	if err := l.db.Where("campaign_id = ? AND asset_address = ?", campaignId, asset).
		First(&campaignAsset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotAccepted
		}
		return nil, err
	}

	// 私募活动检查白名单
	if campaign.Private {
		allowed, err := NewWhitelistLogic(l.db).IsAllowed(campaignId, investor)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrNotWhitelisted
		}
	}

	// 折算为记账单位
	units, err := l.convert(asset, campaignAsset.Decimals, amount)
	if err != nil {
		return nil, err
	}

	// 限额检查：剩余额度不足最低限额时允许恰好补满硬顶
	if err := checkTicket(campaign, units); err != nil {
		return nil, err
	}

	record, err := l.apply(campaign, &campaignAsset, investor, amount, units)
	if err != nil {
		return nil, err
	}

	logger.Info("Investment recorded: campaign=%s investor=%s asset=%s amount=%s units=%s",
		campaignId, investor, asset, amount.String(), units.String())
	return record, nil
}

// InvestNative 以原生币投资，资产标识为零地址
func (l *InvestLogic) InvestNative(campaignId, investor string, amount *big.Int) (*model.ContributeRecord, error) {
	return l.Invest(campaignId, investor, chain.NativeAssetAddress, amount)
}

// convert 通过预言机将原生单位金额折算为记账单位
func (l *InvestLogic) convert(asset string, decimals uint8, amount *big.Int) (*big.Int, error) {
	raw, priceDecimals, err := l.collab.Oracle.LatestAnswer(common.HexToAddress(asset))
	if err != nil {
		return nil, fmt.Errorf("获取资产价格失败: %w", err)
	}
	price, err := pricing.Normalize(raw, priceDecimals, decimals)
	if err != nil {
		return nil, err
	}
	return pricing.ToAccountingUnits(amount, price, decimals), nil
}

// checkTicket 单笔限额与硬顶检查
func checkTicket(campaign *model.Campaign, units *big.Int) error {
	room := new(big.Int).Sub(&campaign.HardCap.Int, &campaign.TotalRaised.Int)

	// 最高限额从不放宽
	if campaign.MaxTicket.Int.Sign() > 0 && units.Cmp(&campaign.MaxTicket.Int) > 0 {
		return ErrAboveMaxTicket
	}

	// 超出剩余额度一律拒绝，硬顶已满时任何金额皆然
	if units.Cmp(room) > 0 {
		return ErrCapExceeded
	}

	if campaign.MinTicket.Int.Sign() > 0 && units.Cmp(&campaign.MinTicket.Int) < 0 {
		// 例外：剩余额度已小于最低限额时，允许恰好投满剩余额度
		if room.Cmp(&campaign.MinTicket.Int) >= 0 || units.Cmp(room) != 0 {
			return ErrBelowMinTicket
		}
	}
	return nil
}

// apply 在单个事务内记账：投资记录、资产募集量、活动总额、释放头寸
func (l *InvestLogic) apply(campaign *model.Campaign, campaignAsset *model.CampaignAsset,
	investor string, amount, units *big.Int) (*model.ContributeRecord, error) {

	var record model.ContributeRecord
	err := l.db.Transaction(func(tx *gorm.DB) error {
		// 投资记录按（活动，投资人，资产）累计
		err := tx.Where("campaign_id = ? AND investor_address = ? AND asset_address = ?",
			campaign.CampaignId, investor, campaignAsset.AssetAddress).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = model.ContributeRecord{
				CampaignId:      campaign.CampaignId,
				InvestorAddress: investor,
				AssetAddress:    campaignAsset.AssetAddress,
			}
		} else if err != nil {
			return err
		}
		record.Amount.Int.Add(&record.Amount.Int, amount)
		record.Units.Int.Add(&record.Units.Int, units)
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		// 资产募集量
		campaignAsset.Raised.Int.Add(&campaignAsset.Raised.Int, amount)
		campaignAsset.RaisedUnits.Int.Add(&campaignAsset.RaisedUnits.Int, units)
		if err := tx.Save(campaignAsset).Error; err != nil {
			return err
		}

		// 活动募集总额
		campaign.TotalRaised.Int.Add(&campaign.TotalRaised.Int, units)
		if err := tx.Model(&model.Campaign{}).Where("campaign_id = ?", campaign.CampaignId).
			Update("total_raised", campaign.TotalRaised).Error; err != nil {
			return err
		}

		// 释放头寸：应得代币 = 记账单位 × rate / rateDenominator
		entitled := new(big.Int).Mul(units, big.NewInt(campaign.Rate))
		entitled.Quo(entitled, big.NewInt(campaign.RateDenominator))

		var position model.VestingPosition
		err = tx.Where("campaign_id = ? AND investor_address = ?",
			campaign.CampaignId, investor).First(&position).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			position = model.VestingPosition{
				CampaignId:      campaign.CampaignId,
				InvestorAddress: investor,
			}
		} else if err != nil {
			return err
		}
		position.Entitled.Int.Add(&position.Entitled.Int, entitled)
		if err := tx.Save(&position).Error; err != nil {
			return err
		}

		return writeEvent(tx, campaign.CampaignId, model.EventInvested, investor, map[string]interface{}{
			"asset":  campaignAsset.AssetAddress,
			"amount": amount.String(),
			"units":  units.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetInvestorBalances 查询投资人在活动中的各资产投资记录
func (l *InvestLogic) GetInvestorBalances(campaignId, investor string) ([]model.ContributeRecord, error) {
	var records []model.ContributeRecord
	if err := l.db.Where("campaign_id = ? AND investor_address = ?", campaignId, investor).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("获取投资记录失败: %w", err)
	}
	return records, nil
}

// GetCampaignContributions 分页查询活动投资记录
func (l *InvestLogic) GetCampaignContributions(campaignId string, page, pageSize int) ([]model.ContributeRecord, int64, error) {
	var records []model.ContributeRecord
	var total int64

	if err := l.db.Model(&model.ContributeRecord{}).Where("campaign_id = ?", campaignId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := l.db.Where("campaign_id = ?", campaignId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
