package logic

import (
	"errors"
	"math/big"

	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/pricing"
	"github.com/blues/lps/internal/settlement"
	"github.com/blues/lps/internal/types"
	"gorm.io/gorm"
)

// FeeLogic 全局费用配置与资产允许列表管理，管理员专用
type FeeLogic struct {
	db  *gorm.DB
	cfg config.LedgerConfig
}

// NewFeeLogic 创建费用配置业务逻辑
func NewFeeLogic(db *gorm.DB, cfg config.LedgerConfig) *FeeLogic {
	return &FeeLogic{db: db, cfg: cfg}
}

// loadFeeConfig 加载全局费用配置单例
func loadFeeConfig(db *gorm.DB) (*model.FeeConfig, error) {
	var feeConfig model.FeeConfig
	if err := db.First(&feeConfig).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("费用配置尚未初始化")
		}
		return nil, err
	}
	return &feeConfig, nil
}

// GetFeeConfig 查询当前费用配置
func (f *FeeLogic) GetFeeConfig() (*model.FeeConfig, error) {
	return loadFeeConfig(f.db)
}

// SetFeeConfig 整体替换费用配置，仅管理员可调用
func (f *FeeLogic) SetFeeConfig(caller string, updated model.FeeConfig) error {
	if !sameAddress(caller, f.cfg.AdminAddress) {
		return ErrNotAdmin
	}

	tiers := settlement.FeeTiers{
		Tier1Threshold: &updated.Tier1Threshold.Int,
		Tier2Threshold: &updated.Tier2Threshold.Int,
		Tier1Percent:   updated.Tier1Percent,
		Tier2Percent:   updated.Tier2Percent,
		Tier3Percent:   updated.Tier3Percent,
	}
	if err := tiers.Validate(); err != nil {
		return err
	}
	if updated.MinThresholdPercent < 0 || updated.MinThresholdPercent > 100 {
		return errors.New("最低募集门槛百分比必须在0到100之间")
	}
	if updated.PlatformShare+updated.StakingShare+updated.ReferralShare > 100 {
		return errors.New("费用拆分份额之和不能超过100")
	}

	// 整体替换以保证原子性
	return f.db.Transaction(func(tx *gorm.DB) error {
		existing, err := loadFeeConfig(tx)
		if err != nil {
			return err
		}
		updated.Id = existing.Id
		updated.CreatedAt = existing.CreatedAt
		return tx.Save(&updated).Error
	})
}

// EnsureDefaultFeeConfig 启动时写入默认费用配置（若不存在）
func (f *FeeLogic) EnsureDefaultFeeConfig() error {
	var count int64
	if err := f.db.Model(&model.FeeConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(pricing.AccountingDecimals), nil)
	tier1 := new(big.Int).Mul(big.NewInt(50_000), unit)
	tier2 := new(big.Int).Mul(big.NewInt(500_000), unit)

	feeConfig := model.FeeConfig{
		Tier1Threshold:      types.NewBigInt(tier1),
		Tier2Threshold:      types.NewBigInt(tier2),
		Tier1Percent:        5,
		Tier2Percent:        4,
		Tier3Percent:        3,
		MinThresholdPercent: 30,
		PlatformShare:       50,
		StakingShare:        25,
		ReferralShare:       5,
	}
	if err := f.db.Create(&feeConfig).Error; err != nil {
		return err
	}
	logger.Info("Default fee config initialized")
	return nil
}

// RegisterAsset 登记或更新全局接受资产，仅管理员可调用
func (f *FeeLogic) RegisterAsset(caller string, asset model.Asset) error {
	if !sameAddress(caller, f.cfg.AdminAddress) {
		return ErrNotAdmin
	}
	if asset.AssetAddress == "" {
		return ErrZeroAddress
	}
	if asset.FeedAddress == "" {
		return errors.New("必须配置价格预言机地址")
	}

	var existing model.Asset
	err := f.db.Where("asset_address = ?", asset.AssetAddress).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return f.db.Create(&asset).Error
	}
	if err != nil {
		return err
	}
	asset.Id = existing.Id
	asset.CreatedAt = existing.CreatedAt
	return f.db.Save(&asset).Error
}

// GetAssets 查询全局接受资产列表
func (f *FeeLogic) GetAssets() ([]model.Asset, error) {
	var assets []model.Asset
	if err := f.db.Where("enabled = ?", true).Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}
