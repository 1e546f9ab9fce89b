package model

import (
	"time"

	"github.com/blues/lps/internal/types"
)

// VestingTerms 募集活动的释放条款，每个活动一条
type VestingTerms struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	CampaignId      string `json:"campaign_id" gorm:"uniqueIndex;not null"`
	CliffSeconds    int64  `json:"cliff_seconds"`
	DurationSeconds int64  `json:"duration_seconds" gorm:"not null"`
	PeriodSeconds   int64  `json:"period_seconds" gorm:"not null"`
	TgePercent      int64  `json:"tge_percent"`
}

// TableName 自定义表名
func (VestingTerms) TableName() string {
	return "vesting_terms"
}

// VestingPosition 投资人释放头寸，按（活动，投资人）记录。
// 不变量：Released ≤ Entitled，两者均单调不减。
type VestingPosition struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId      string       `json:"campaign_id" gorm:"index:idx_vesting_position,unique;not null"`
	InvestorAddress string       `json:"investor_address" gorm:"index:idx_vesting_position,unique;not null"`
	Entitled        types.BigInt `json:"entitled"` // 应得项目代币总量
	Released        types.BigInt `json:"released"` // 已提取数量
}

// TableName 自定义表名
func (VestingPosition) TableName() string {
	return "vesting_position"
}
