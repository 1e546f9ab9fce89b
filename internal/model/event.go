package model

import (
	"time"
)

// Event 账本操作通知记录，由分发器异步投递
type Event struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	CampaignId string    `json:"campaign_id" gorm:"index;not null"`
	EventType  EventType `json:"event_type" gorm:"not null"`
	Account    string    `json:"account" gorm:"not null"` // 触发操作的账户
	Data       string    `json:"data" gorm:"type:text"`
	Processed  bool      `json:"processed" gorm:"default:false;index"`
}

// TableName 自定义表名
func (Event) TableName() string {
	return "event"
}

// EventType 通知类型
type EventType string

const (
	EventCampaignCreated EventType = "campaign_created"
	EventInvested        EventType = "invested"
	EventCampaignClosed  EventType = "campaign_closed"
	EventTokensReleased  EventType = "tokens_released"
)
