package model

import (
	"time"

	"github.com/blues/lps/internal/types"
)

// ContributeRecord 投资记录，按（活动，投资人，资产）累计。
// 退款后金额清零但记录保留，用于审计。
type ContributeRecord struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId      string       `json:"campaign_id" gorm:"index:idx_contribute,unique;not null"`
	InvestorAddress string       `json:"investor_address" gorm:"index:idx_contribute,unique;not null"`
	AssetAddress    string       `json:"asset_address" gorm:"index:idx_contribute,unique;not null"`
	Amount          types.BigInt `json:"amount"` // 累计投资额（资产原生单位）
	Units           types.BigInt `json:"units"`  // 累计记账单位等值，按各笔交易时价格折算
	Refunded        bool         `json:"refunded" gorm:"default:false"`
}

// TableName 自定义表名
func (ContributeRecord) TableName() string {
	return "contribute_record"
}

// WhitelistEntry 私募活动白名单条目，只增不删
type WhitelistEntry struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	CampaignId string `json:"campaign_id" gorm:"index:idx_whitelist,unique;not null"`
	Address    string `json:"address" gorm:"index:idx_whitelist,unique;not null"`
}

// TableName 自定义表名
func (WhitelistEntry) TableName() string {
	return "whitelist_entry"
}
