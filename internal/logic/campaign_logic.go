package logic

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/types"
	"github.com/blues/lps/internal/vesting"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"gorm.io/gorm"
)

// CampaignLogic 募集活动业务逻辑
type CampaignLogic struct {
	db     *gorm.DB
	collab *chain.Collaborators
	cfg    config.LedgerConfig
	clock  func() time.Time
}

// NewCampaignLogic 创建募集活动业务逻辑
func NewCampaignLogic(db *gorm.DB, collab *chain.Collaborators, cfg config.LedgerConfig) *CampaignLogic {
	return &CampaignLogic{db: db, collab: collab, cfg: cfg, clock: defaultClock}
}

// CreateCampaignParams 创建募集活动参数
type CreateCampaignParams struct {
	Owner           string
	ProjectName     string
	TokenAddress    string
	TotalAllocation *big.Int
	HardCap         *big.Int // 记账单位
	SoftCap         *big.Int
	MinTicket       *big.Int
	MaxTicket       *big.Int
	Rate            int64
	RateDenominator int64
	StartTime       time.Time
	EndTime         time.Time
	Private         bool
	ReferralAddress string
	AcceptedAssets  []string
	IncludeNative   bool
	Whitelist       []string
	Vesting         vesting.Terms
	FeePaid         *big.Int // 随调用附带的创建费（原生币）
}

// CreateCampaign 创建募集活动。创建资格为支付创建费或持有套餐账本
// 签发的创建权益。项目代币总配额在事务中一并从创建者转入托管账户，
// 任何一步失败则整体回滚。
func (c *CampaignLogic) CreateCampaign(params CreateCampaignParams) (*model.Campaign, error) {
	if err := c.validateParams(&params); err != nil {
		return nil, err
	}
	if err := c.checkCreationRight(params); err != nil {
		return nil, err
	}

	assets, err := c.resolveAssets(params)
	if err != nil {
		return nil, err
	}

	// 配额锁定前确认创建者已授权托管账户足额划转
	allowance, err := c.collab.Token.Allowance(
		common.HexToAddress(params.TokenAddress),
		common.HexToAddress(params.Owner),
		c.collab.Escrow,
	)
	if err != nil {
		return nil, fmt.Errorf("查询授权额度失败: %w", err)
	}
	if allowance.Cmp(params.TotalAllocation) < 0 {
		return nil, ErrInsufficientAllowance
	}

	var campaign *model.Campaign
	err = c.db.Transaction(func(tx *gorm.DB) error {
		// 活动ID由创建者地址与其活动序号派生，全局唯一
		var seq int64
		if err := tx.Model(&model.Campaign{}).
			Where("owner_address = ?", params.Owner).
			Count(&seq).Error; err != nil {
			return err
		}
		campaignId := deriveCampaignId(params.Owner, uint64(seq)+1)

		campaign = &model.Campaign{
			CampaignId:      campaignId,
			OwnerAddress:    params.Owner,
			ProjectName:     params.ProjectName,
			TokenAddress:    params.TokenAddress,
			TotalAllocation: types.NewBigInt(params.TotalAllocation),
			HardCap:         types.NewBigInt(params.HardCap),
			SoftCap:         types.NewBigInt(params.SoftCap),
			MinTicket:       types.NewBigInt(params.MinTicket),
			MaxTicket:       types.NewBigInt(params.MaxTicket),
			Rate:            params.Rate,
			RateDenominator: params.RateDenominator,
			StartTime:       params.StartTime,
			EndTime:         params.EndTime,
			Private:         params.Private,
			ReferralAddress: params.ReferralAddress,
			Status:          model.CampaignStatusActive,
		}
		if err := tx.Create(campaign).Error; err != nil {
			return err
		}

		for _, asset := range assets {
			asset.CampaignId = campaignId
			if err := tx.Create(&asset).Error; err != nil {
				return err
			}
		}

		terms := model.VestingTerms{
			CampaignId:      campaignId,
			CliffSeconds:    params.Vesting.CliffSeconds,
			DurationSeconds: params.Vesting.DurationSeconds,
			PeriodSeconds:   params.Vesting.PeriodSeconds,
			TgePercent:      params.Vesting.TgePercent,
		}
		if err := tx.Create(&terms).Error; err != nil {
			return err
		}

		for _, addr := range params.Whitelist {
			if err := tx.Create(&model.WhitelistEntry{
				CampaignId: campaignId,
				Address:    addr,
			}).Error; err != nil {
				return err
			}
		}

		if err := writeEvent(tx, campaignId, model.EventCampaignCreated, params.Owner, map[string]interface{}{
			"project_name": params.ProjectName,
			"hard_cap":     params.HardCap.String(),
		}); err != nil {
			return err
		}

		// 配额锁定与登记在同一事务内生效，转账失败则整体回滚
		return c.collab.Token.TransferFrom(
			common.HexToAddress(params.TokenAddress),
			common.HexToAddress(params.Owner),
			c.collab.Escrow,
			params.TotalAllocation,
		)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Campaign created: id=%s owner=%s project=%s", campaign.CampaignId, params.Owner, params.ProjectName)
	return campaign, nil
}

func (c *CampaignLogic) validateParams(params *CreateCampaignParams) error {
	if isZeroAddress(params.Owner) || isZeroAddress(params.TokenAddress) {
		return ErrZeroAddress
	}
	if params.TotalAllocation == nil || params.TotalAllocation.Sign() <= 0 {
		return errors.New("代币配额必须大于0")
	}
	if params.HardCap == nil || params.HardCap.Sign() <= 0 {
		return errors.New("硬顶必须大于0")
	}
	if !params.StartTime.Before(params.EndTime) {
		return errors.New("开始时间必须早于结束时间")
	}
	if params.Rate <= 0 {
		return errors.New("兑换比率必须大于0")
	}
	if params.RateDenominator <= 0 {
		params.RateDenominator = 1
	}
	if params.SoftCap == nil {
		params.SoftCap = big.NewInt(0)
	}
	if params.MinTicket == nil {
		params.MinTicket = big.NewInt(0)
	}
	if params.MaxTicket == nil {
		params.MaxTicket = big.NewInt(0)
	}
	if len(params.AcceptedAssets) == 0 && !params.IncludeNative {
		return errors.New("至少接受一种资产")
	}
	return params.Vesting.Validate()
}

// checkCreationRight 创建资格：支付创建费，或持有套餐账本签发的创建权益
func (c *CampaignLogic) checkCreationRight(params CreateCampaignParams) error {
	fee, ok := new(big.Int).SetString(c.cfg.CreationFee, 10)
	if !ok {
		return fmt.Errorf("创建费配置无效: %q", c.cfg.CreationFee)
	}
	if fee.Sign() == 0 {
		return nil
	}
	if params.FeePaid != nil && params.FeePaid.Cmp(fee) >= 0 {
		return nil
	}
	if c.collab.Package != nil {
		has, err := c.collab.Package.HasCreationCredit(common.HexToAddress(params.Owner), params.ProjectName)
		if err != nil {
			return fmt.Errorf("查询创建权益失败: %w", err)
		}
		if has {
			return nil
		}
	}
	return ErrNoCreationRight
}

// resolveAssets 校验接受资产均在全局允许列表中并复制其小数位
func (c *CampaignLogic) resolveAssets(params CreateCampaignParams) ([]model.CampaignAsset, error) {
	addrs := params.AcceptedAssets
	if params.IncludeNative {
		addrs = append(addrs, chain.NativeAssetAddress)
	}

	assets := make([]model.CampaignAsset, 0, len(addrs))
	seen := make(map[string]bool)
	for _, addr := range addrs {
		if seen[addr] {
			continue
		}
		seen[addr] = true

		var asset model.Asset
		if err := c.db.Where("asset_address = ? AND enabled = ?", addr, true).First(&asset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssetNotAccepted
			}
			return nil, err
		}
		assets = append(assets, model.CampaignAsset{
			AssetAddress: asset.AssetAddress,
			Decimals:     asset.Decimals,
		})
	}
	return assets, nil
}

// deriveCampaignId 活动ID = keccak256(创建者地址 ‖ 序号)
func deriveCampaignId(owner string, seq uint64) string {
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	hash := crypto.Keccak256(common.HexToAddress(owner).Bytes(), seqBytes[:])
	return common.BytesToHash(hash).Hex()
}

// GetCampaign 获取活动详情
func (c *CampaignLogic) GetCampaign(campaignId string) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := c.db.Preload("Assets").Where("campaign_id = ?", campaignId).
		First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("获取活动详情失败: %w", err)
	}
	return &campaign, nil
}

// GetCampaigns 分页查询活动列表
func (c *CampaignLogic) GetCampaigns(status, owner string, page, pageSize int) ([]model.Campaign, int64, error) {
	query := c.db.Model(&model.Campaign{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if owner != "" {
		query = query.Where("owner_address = ?", owner)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []model.Campaign
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// GetCampaignStats 获取活动统计信息
func (c *CampaignLogic) GetCampaignStats(campaignId string) (map[string]interface{}, error) {
	campaign, err := c.GetCampaign(campaignId)
	if err != nil {
		return nil, err
	}

	var contributionCount int64
	if err := c.db.Model(&model.ContributeRecord{}).
		Where("campaign_id = ?", campaignId).
		Count(&contributionCount).Error; err != nil {
		return nil, err
	}

	var investorCount int64
	if err := c.db.Model(&model.ContributeRecord{}).
		Where("campaign_id = ?", campaignId).
		Distinct("investor_address").
		Count(&investorCount).Error; err != nil {
		return nil, err
	}

	// 完成千分比，避免大数相除的精度损失
	completion := int64(0)
	if campaign.HardCap.Int.Sign() > 0 {
		v := new(big.Int).Mul(&campaign.TotalRaised.Int, big.NewInt(1000))
		completion = v.Quo(v, &campaign.HardCap.Int).Int64()
	}

	remaining := time.Duration(0)
	now := c.clock()
	if !campaign.Closed && now.Before(campaign.EndTime) {
		remaining = campaign.EndTime.Sub(now)
	}

	return map[string]interface{}{
		"campaign_id":        campaign.CampaignId,
		"total_raised":       campaign.TotalRaised.Int.String(),
		"hard_cap":           campaign.HardCap.Int.String(),
		"completion_permile": completion,
		"investor_count":     investorCount,
		"contribution_count": contributionCount,
		"remaining_time":     remaining.String(),
		"status":             campaign.Status,
	}, nil
}
