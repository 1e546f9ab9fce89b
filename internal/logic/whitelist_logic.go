package logic

import (
	"errors"

	"github.com/blues/lps/internal/model"
	"gorm.io/gorm"
)

// WhitelistLogic 白名单业务逻辑
type WhitelistLogic struct {
	db *gorm.DB
}

// NewWhitelistLogic 创建白名单业务逻辑
func NewWhitelistLogic(db *gorm.DB) *WhitelistLogic {
	return &WhitelistLogic{db: db}
}

// AddToAllowlist 批量加入白名单，仅项目方可调用，只增不删
func (w *WhitelistLogic) AddToAllowlist(campaignId, caller string, addresses []string) error {
	campaign, err := loadCampaign(w.db, campaignId)
	if err != nil {
		return err
	}
	if !sameAddress(caller, campaign.OwnerAddress) {
		return ErrNotOwner
	}

	return w.db.Transaction(func(tx *gorm.DB) error {
		for _, addr := range addresses {
			if isZeroAddress(addr) {
				return ErrZeroAddress
			}
			var existing model.WhitelistEntry
			err := tx.Where("campaign_id = ? AND address = ?", campaignId, addr).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Create(&model.WhitelistEntry{
				CampaignId: campaignId,
				Address:    addr,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// IsAllowed 白名单成员检查，非私募活动恒为允许
func (w *WhitelistLogic) IsAllowed(campaignId, address string) (bool, error) {
	campaign, err := loadCampaign(w.db, campaignId)
	if err != nil {
		return false, err
	}
	if !campaign.Private {
		return true, nil
	}

	var count int64
	if err := w.db.Model(&model.WhitelistEntry{}).
		Where("campaign_id = ? AND address = ?", campaignId, address).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
