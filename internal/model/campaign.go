package model

import (
	"time"

	"github.com/blues/lps/internal/types"
)

// Campaign 募集活动模型
type Campaign struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 标识信息，CampaignId 由创建者地址与序号派生，全局唯一
	CampaignId   string `json:"campaign_id" gorm:"uniqueIndex;not null"`
	OwnerAddress string `json:"owner_address" gorm:"index;not null"`
	ProjectName  string `json:"project_name" gorm:"not null"`
	TokenAddress string `json:"token_address" gorm:"not null"`

	// 募集条款，创建后不可变
	TotalAllocation types.BigInt `json:"total_allocation" gorm:"not null"` // 锁定的项目代币总量
	HardCap         types.BigInt `json:"hard_cap" gorm:"not null"`         // 硬顶（记账单位）
	SoftCap         types.BigInt `json:"soft_cap"`                         // 软顶（记账单位）
	MinTicket       types.BigInt `json:"min_ticket"`                       // 单笔最低投资额（记账单位）
	MaxTicket       types.BigInt `json:"max_ticket"`                       // 单笔最高投资额（记账单位），0为不限
	Rate            int64        `json:"rate" gorm:"not null"`             // 每记账单位兑换的代币数量分子
	RateDenominator int64        `json:"rate_denominator" gorm:"not null;default:1"`

	// 时间信息
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	// 属性
	Private         bool   `json:"private" gorm:"default:false"`
	ReferralAddress string `json:"referral_address"`

	// 状态，Closed 单调不可逆，Settling 为结算/退款重入保护标志
	Status              CampaignStatus `json:"status" gorm:"default:'active'"`
	Closed              bool           `json:"closed" gorm:"default:false"`
	Settling            bool           `json:"settling" gorm:"default:false"`
	AllocationReclaimed bool           `json:"allocation_reclaimed" gorm:"default:false"`
	TotalRaised         types.BigInt   `json:"total_raised"` // 募集总额（记账单位）

	VestingStart *time.Time `json:"vesting_start"` // 成功关闭时设定

	// 关联
	Assets        []CampaignAsset    `json:"assets,omitempty" gorm:"foreignKey:CampaignId;references:CampaignId"`
	Contributions []ContributeRecord `json:"contributions,omitempty" gorm:"foreignKey:CampaignId;references:CampaignId"`
}

// TableName 自定义表名
func (Campaign) TableName() string {
	return "campaign"
}

// CampaignStatus 募集活动状态
type CampaignStatus string

const (
	CampaignStatusActive  CampaignStatus = "active"  // 募集中（含未到开始时间）
	CampaignStatusSuccess CampaignStatus = "success" // 成功关闭
	CampaignStatusFailed  CampaignStatus = "failed"  // 已结束且未达最低募集阈值
)

// CampaignAsset 募集活动接受的资产及其募集量
type CampaignAsset struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId   string       `json:"campaign_id" gorm:"index:idx_campaign_asset,unique;not null"`
	AssetAddress string       `json:"asset_address" gorm:"index:idx_campaign_asset,unique;not null"`
	Decimals     uint8        `json:"decimals" gorm:"not null"`
	Raised       types.BigInt `json:"raised"`       // 该资产募集量（原生单位）
	RaisedUnits  types.BigInt `json:"raised_units"` // 该资产募集量（记账单位）
}

// TableName 自定义表名
func (CampaignAsset) TableName() string {
	return "campaign_asset"
}
