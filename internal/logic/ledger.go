package logic

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/blues/lps/internal/model"
	"gorm.io/gorm"
)

// loadCampaign 按活动ID加载募集活动
func loadCampaign(db *gorm.DB, campaignId string) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := db.Where("campaign_id = ?", campaignId).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// writeEvent 在事务内写入通知记录
func writeEvent(tx *gorm.DB, campaignId string, eventType model.EventType, account string, data map[string]interface{}) error {
	payload := ""
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(raw)
	}
	return tx.Create(&model.Event{
		CampaignId: campaignId,
		EventType:  eventType,
		Account:    account,
		Data:       payload,
	}).Error
}

// sameAddress 地址比较，忽略大小写
func sameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// isZeroAddress 是否为空地址
func isZeroAddress(addr string) bool {
	if addr == "" {
		return true
	}
	trimmed := strings.TrimPrefix(strings.ToLower(addr), "0x")
	return strings.Trim(trimmed, "0") == ""
}

func defaultClock() time.Time {
	return time.Now()
}
