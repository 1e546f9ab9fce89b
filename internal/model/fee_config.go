package model

import (
	"time"

	"github.com/blues/lps/internal/types"
)

// FeeConfig 全局费用配置，仅管理员可整体替换。
// 三档费率按募集总额选档，份额百分比为基础费用的百分比。
type FeeConfig struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tier1Threshold types.BigInt `json:"tier1_threshold" gorm:"not null"` // 记账单位
	Tier2Threshold types.BigInt `json:"tier2_threshold" gorm:"not null"`
	Tier1Percent   int64        `json:"tier1_percent" gorm:"not null"`
	Tier2Percent   int64        `json:"tier2_percent" gorm:"not null"`
	Tier3Percent   int64        `json:"tier3_percent" gorm:"not null"`

	// 关闭门槛：募集总额须达到硬顶的该百分比
	MinThresholdPercent int64 `json:"min_threshold_percent" gorm:"not null"`

	// 基础费用的拆分份额与接收方，接收方为空时对应份额归项目方
	PlatformShare   int64  `json:"platform_share"`
	StakingShare    int64  `json:"staking_share"`
	ReferralShare   int64  `json:"referral_share"`
	PlatformAddress string `json:"platform_address"`
	StakingAddress  string `json:"staking_address"`
}

// TableName 自定义表名
func (FeeConfig) TableName() string {
	return "fee_config"
}

// Asset 全局接受资产允许列表
type Asset struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AssetAddress string `json:"asset_address" gorm:"uniqueIndex;not null"`
	Symbol       string `json:"symbol"`
	Decimals     uint8  `json:"decimals" gorm:"not null"`
	FeedAddress  string `json:"feed_address" gorm:"not null"` // 价格预言机地址
	Enabled      bool   `json:"enabled" gorm:"default:true"`
}

// TableName 自定义表名
func (Asset) TableName() string {
	return "asset"
}
