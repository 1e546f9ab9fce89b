package model

import (
	"time"

	"github.com/blues/lps/internal/types"
)

// RefundRecord 退款记录，募集失败后投资人按资产退款、
// 项目方取回未售出代币时写入
type RefundRecord struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId   string       `json:"campaign_id" gorm:"index;not null"`
	Address      string       `json:"address" gorm:"not null"`
	AssetAddress string       `json:"asset_address" gorm:"not null"`
	Amount       types.BigInt `json:"amount" gorm:"not null"` // 原生单位
	Kind         RefundKind   `json:"kind" gorm:"not null"`
	Status       RefundStatus `json:"status" gorm:"default:'pending'"`
	FailReason   string       `json:"fail_reason" gorm:"type:text"`
}

// TableName 自定义表名
func (RefundRecord) TableName() string {
	return "refund_record"
}

// RefundKind 退款类型
type RefundKind string

const (
	RefundKindInvestor   RefundKind = "investor"   // 投资人取回投资款
	RefundKindAllocation RefundKind = "allocation" // 项目方取回未售出代币
)

// RefundStatus 退款转账状态
type RefundStatus string

const (
	RefundStatusPending RefundStatus = "pending"
	RefundStatusSuccess RefundStatus = "success"
	RefundStatusFailed  RefundStatus = "failed"
)
