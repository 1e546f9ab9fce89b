package logic

import (
	"errors"
	"math/big"
	"time"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/types"
	"github.com/blues/lps/internal/vesting"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// VestingLogic 代币释放业务逻辑
type VestingLogic struct {
	db     *gorm.DB
	collab *chain.Collaborators
	clock  func() time.Time
}

// NewVestingLogic 创建代币释放业务逻辑
func NewVestingLogic(db *gorm.DB, collab *chain.Collaborators) *VestingLogic {
	return &VestingLogic{db: db, collab: collab, clock: defaultClock}
}

// ComputeReleasable 计算投资人在 now 时刻可提取的代币数量
func (l *VestingLogic) ComputeReleasable(campaignId, investor string, now time.Time) (*big.Int, error) {
	campaign, terms, position, err := l.load(campaignId, investor)
	if err != nil {
		return nil, err
	}
	return vesting.Releasable(terms, &position.Entitled.Int, &position.Released.Int,
		*campaign.VestingStart, now)
}

// Release 提取当前可释放的代币。仅成功关闭的活动可释放。
// 账内 released 累加与释放转账记录在同一事务提交，先于任何对外转账；
// 转账失败不回退账内状态，未完成的释放记录由调度任务重试补发。
func (l *VestingLogic) Release(campaignId, investor string) (*big.Int, error) {
	campaign, terms, position, err := l.load(campaignId, investor)
	if err != nil {
		return nil, err
	}

	now := l.clock()
	releasable, err := vesting.Releasable(terms, &position.Entitled.Int, &position.Released.Int,
		*campaign.VestingStart, now)
	if err != nil {
		return nil, err
	}
	if releasable.Sign() == 0 {
		return nil, ErrNothingVested
	}

	var record model.ReleaseRecord
	err = l.db.Transaction(func(tx *gorm.DB) error {
		position.Released.Int.Add(&position.Released.Int, releasable)
		if err := tx.Save(position).Error; err != nil {
			return err
		}
		record = model.ReleaseRecord{
			CampaignId:      campaignId,
			InvestorAddress: investor,
			TokenAddress:    campaign.TokenAddress,
			Amount:          types.NewBigInt(releasable),
			Status:          model.ReleaseStatusPending,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return writeEvent(tx, campaignId, model.EventTokensReleased, investor, map[string]interface{}{
			"amount": releasable.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	// 账内已提交，再执行对外转账
	l.performReleaseTransfers([]model.ReleaseRecord{record})

	logger.Info("Tokens released: campaign=%s investor=%s amount=%s",
		campaignId, investor, releasable.String())
	return releasable, nil
}

// performReleaseTransfers 执行释放转账，失败的记录由调度任务重试
func (l *VestingLogic) performReleaseTransfers(records []model.ReleaseRecord) {
	for i := range records {
		record := &records[i]
		err := l.collab.Token.Transfer(common.HexToAddress(record.TokenAddress),
			common.HexToAddress(record.InvestorAddress), &record.Amount.Int)
		if err != nil {
			logger.Error("Release transfer failed: campaign=%s investor=%s amount=%s: %v",
				record.CampaignId, record.InvestorAddress, record.Amount.Int.String(), err)
			l.db.Model(record).Updates(map[string]interface{}{
				"status":      model.ReleaseStatusFailed,
				"fail_reason": err.Error(),
			})
			continue
		}
		l.db.Model(record).Updates(map[string]interface{}{
			"status":      model.ReleaseStatusSuccess,
			"fail_reason": "",
		})
	}
}

// RetryPendingReleases 重试未完成的释放转账，由调度任务周期调用
func (l *VestingLogic) RetryPendingReleases() (int, error) {
	var records []model.ReleaseRecord
	if err := l.db.Where("status IN ?", []model.ReleaseStatus{
		model.ReleaseStatusPending,
		model.ReleaseStatusFailed,
	}).Find(&records).Error; err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	l.performReleaseTransfers(records)
	return len(records), nil
}

// GetVestingPlan 查询投资人的释放计划与当前可提取数量
func (l *VestingLogic) GetVestingPlan(campaignId, investor string) (map[string]interface{}, error) {
	campaign, terms, position, err := l.load(campaignId, investor)
	if err != nil {
		return nil, err
	}

	releasable := big.NewInt(0)
	if v, err := vesting.Releasable(terms, &position.Entitled.Int, &position.Released.Int,
		*campaign.VestingStart, l.clock()); err == nil {
		releasable = v
	}

	return map[string]interface{}{
		"campaign_id":      campaignId,
		"vesting_start":    campaign.VestingStart,
		"cliff_seconds":    terms.CliffSeconds,
		"duration_seconds": terms.DurationSeconds,
		"period_seconds":   terms.PeriodSeconds,
		"tge_percent":      terms.TgePercent,
		"entitled":         position.Entitled.Int.String(),
		"released":         position.Released.Int.String(),
		"releasable":       releasable.String(),
	}, nil
}

func (l *VestingLogic) load(campaignId, investor string) (*model.Campaign, vesting.Terms, *model.VestingPosition, error) {
	var empty vesting.Terms

	campaign, err := loadCampaign(l.db, campaignId)
	if err != nil {
		return nil, empty, nil, err
	}
	// 未成功关闭的活动不进入释放，失败活动走取回流程
	if !campaign.Closed || campaign.Status != model.CampaignStatusSuccess || campaign.VestingStart == nil {
		return nil, empty, nil, ErrCampaignNotClosed
	}

	var termsRow model.VestingTerms
	if err := l.db.Where("campaign_id = ?", campaignId).First(&termsRow).Error; err != nil {
		return nil, empty, nil, err
	}
	terms := vesting.Terms{
		CliffSeconds:    termsRow.CliffSeconds,
		DurationSeconds: termsRow.DurationSeconds,
		PeriodSeconds:   termsRow.PeriodSeconds,
		TgePercent:      termsRow.TgePercent,
	}

	var position model.VestingPosition
	if err := l.db.Where("campaign_id = ? AND investor_address = ?", campaignId, investor).
		First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, empty, nil, ErrNothingVested
		}
		return nil, empty, nil, err
	}

	return campaign, terms, &position, nil
}
