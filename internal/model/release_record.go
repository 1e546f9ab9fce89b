package model

import (
	"time"

	"github.com/blues/lps/internal/types"
)

// ReleaseRecord 代币释放转账记录，账内 released 累加后同事务写入，
// 对外转账失败时由调度任务重试
type ReleaseRecord struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId      string        `json:"campaign_id" gorm:"index;not null"`
	InvestorAddress string        `json:"investor_address" gorm:"not null"`
	TokenAddress    string        `json:"token_address" gorm:"not null"`
	Amount          types.BigInt  `json:"amount" gorm:"not null"`
	Status          ReleaseStatus `json:"status" gorm:"default:'pending'"`
	FailReason      string        `json:"fail_reason" gorm:"type:text"`
}

// TableName 自定义表名
func (ReleaseRecord) TableName() string {
	return "release_record"
}

// ReleaseStatus 释放转账状态
type ReleaseStatus string

const (
	ReleaseStatusPending ReleaseStatus = "pending"
	ReleaseStatusSuccess ReleaseStatus = "success"
	ReleaseStatusFailed  ReleaseStatus = "failed"
)
