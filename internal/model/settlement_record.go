package model

import (
	"time"

	"github.com/blues/lps/internal/types"
)

// SettlementRecord 结算记录，成功关闭时按资产逐条写入。
// 恒等式：各项费用与 OwnerAmount 之和等于该资产募集量。
type SettlementRecord struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId   string `json:"campaign_id" gorm:"index;not null"`
	AssetAddress string `json:"asset_address" gorm:"not null"`
	// 收款地址在关闭时随金额一并快照，后续费率配置变更不影响既有记录
	PlatformAddress string       `json:"platform_address"`
	StakingAddress  string       `json:"staking_address"`
	AssetRaised     types.BigInt `json:"asset_raised" gorm:"not null"` // 原生单位
	TierPercent     int64        `json:"tier_percent"`
	BaseFee         types.BigInt `json:"base_fee"`
	PlatformFee     types.BigInt `json:"platform_fee"`
	StakingFee      types.BigInt `json:"staking_fee"`
	CuratorFee      types.BigInt `json:"curator_fee"`
	ReferralFee     types.BigInt `json:"referral_fee"`
	OwnerAmount     types.BigInt `json:"owner_amount"`

	Status         SettlementStatus `json:"status" gorm:"default:'pending'"`
	SettlementTime *time.Time       `json:"settlement_time"`
	FailReason     string           `json:"fail_reason" gorm:"type:text"`
}

// TableName 自定义表名
func (SettlementRecord) TableName() string {
	return "settlement_record"
}

// SettlementStatus 结算转账状态
type SettlementStatus string

const (
	SettlementStatusPending SettlementStatus = "pending" // 账内已记账，待对外转账
	SettlementStatusSuccess SettlementStatus = "success" // 转账完成
	SettlementStatusFailed  SettlementStatus = "failed"  // 转账失败，可由调度任务重试
)
