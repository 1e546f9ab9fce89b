package logic

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/types"
	"github.com/stretchr/testify/require"
)

// setRaised 直接落库募集进度，绕过投资流程
func (e *testEnv) setRaised(t *testing.T, campaignId string, units int64) {
	t.Helper()
	require.NoError(t, e.db.Model(&model.Campaign{}).
		Where("campaign_id = ?", campaignId).
		Update("total_raised", types.NewBigIntFromInt64(units)).Error)
	require.NoError(t, e.db.Model(&model.CampaignAsset{}).
		Where("campaign_id = ? AND asset_address = ?", campaignId, addrUSDC).
		Updates(map[string]interface{}{
			"raised":       types.NewBigIntFromInt64(units),
			"raised_units": types.NewBigIntFromInt64(units),
		}).Error)
}

func closedCampaignEnv(t *testing.T, raisedUnits int64) (*testEnv, *model.Campaign, time.Time) {
	env := newTestEnv(t)
	campaign := env.seedCampaign(t, func(c *model.Campaign) {
		c.HardCap = types.NewBigIntFromInt64(300_000)
		c.MaxTicket = types.NewBigIntFromInt64(0)
	})
	env.setRaised(t, campaign.CampaignId, raisedUnits)
	return env, campaign, campaign.EndTime.Add(time.Hour)
}

func TestCloseCampaignGuards(t *testing.T) {
	env, campaign, after := closedCampaignEnv(t, 100_000)

	err := env.campaignLogic(after).CloseCampaign(campaign.CampaignId, addrOther)
	require.ErrorIs(t, err, ErrNotOwner)

	err = env.campaignLogic(baseTime.Add(time.Hour)).CloseCampaign(campaign.CampaignId, addrOwner)
	require.ErrorIs(t, err, ErrCampaignStillRunning)

	err = env.campaignLogic(after).CloseCampaign("0xdeadbeef", addrOwner)
	require.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestCloseCampaignThresholdNotMet(t *testing.T) {
	// 门槛30%×硬顶300000=90000，募集80000不足
	env, campaign, after := closedCampaignEnv(t, 80_000)

	err := env.campaignLogic(after).CloseCampaign(campaign.CampaignId, addrOwner)
	require.ErrorIs(t, err, ErrThresholdNotMet)
}

func TestCloseCampaignSettlement(t *testing.T) {
	env, campaign, after := closedCampaignEnv(t, 100_000)

	require.NoError(t, env.campaignLogic(after).CloseCampaign(campaign.CampaignId, addrOwner))

	var updated model.Campaign
	require.NoError(t, env.db.Where("campaign_id = ?", campaign.CampaignId).First(&updated).Error)
	require.True(t, updated.Closed)
	require.False(t, updated.Settling)
	require.Equal(t, model.CampaignStatusSuccess, updated.Status)
	require.NotNil(t, updated.VestingStart)

	// 募集100000落入第二档4%：基础费4000
	var record model.SettlementRecord
	require.NoError(t, env.db.Where("campaign_id = ?", campaign.CampaignId).First(&record).Error)
	require.Equal(t, model.SettlementStatusSuccess, record.Status)
	require.Equal(t, int64(4), record.TierPercent)
	require.Equal(t, "4000", record.BaseFee.Int.String())
	require.Equal(t, "2000", record.PlatformFee.Int.String())
	require.Equal(t, "1000", record.StakingFee.Int.String())
	require.Equal(t, "400", record.CuratorFee.Int.String())
	require.Equal(t, "200", record.ReferralFee.Int.String())
	require.Equal(t, "96400", record.OwnerAmount.Int.String())

	// 对外转账逐一到账
	require.Equal(t, "2000", env.token.totalTo(addrPlatform).String())
	require.Equal(t, "1000", env.token.totalTo(addrStaking).String())
	require.Equal(t, "200", env.token.totalTo(addrReferral).String())
	require.Equal(t, "96400", env.token.totalTo(addrOwner).String())

	require.Len(t, env.staking.received, 1)
	require.Equal(t, "1000", env.staking.received[0].String())
	require.Len(t, env.curator.calls, 1)
	require.Equal(t, "400", env.curator.calls[0].Amount.String())
	require.Equal(t, campaign.CampaignId, env.curator.calls[0].CampaignId)

	// 关闭不可逆
	err := env.campaignLogic(after).CloseCampaign(campaign.CampaignId, addrOwner)
	require.ErrorIs(t, err, ErrCampaignAlreadyClosed)
}

func TestCloseCampaignTierSelection(t *testing.T) {
	// 募集600000达到第三档3%
	env, campaign, after := closedCampaignEnv(t, 100_000)
	env.setRaised(t, campaign.CampaignId, 600_000)

	require.NoError(t, env.campaignLogic(after).CloseCampaign(campaign.CampaignId, addrOwner))

	var record model.SettlementRecord
	require.NoError(t, env.db.Where("campaign_id = ?", campaign.CampaignId).First(&record).Error)
	require.Equal(t, int64(3), record.TierPercent)
	require.Equal(t, "18000", record.BaseFee.Int.String())
}

func TestCloseCampaignTransferRetry(t *testing.T) {
	env, campaign, after := closedCampaignEnv(t, 100_000)
	env.token.failErr = errors.New("rpc unavailable")

	// 转账失败不回退关闭状态，结算记录标记失败待重试
	require.NoError(t, env.campaignLogic(after).CloseCampaign(campaign.CampaignId, addrOwner))

	var updated model.Campaign
	require.NoError(t, env.db.Where("campaign_id = ?", campaign.CampaignId).First(&updated).Error)
	require.True(t, updated.Closed)

	var record model.SettlementRecord
	require.NoError(t, env.db.Where("campaign_id = ?", campaign.CampaignId).First(&record).Error)
	require.Equal(t, model.SettlementStatusFailed, record.Status)
	require.NotEmpty(t, record.FailReason)

	// 收款地址已在关闭时快照，重试前变更费率配置不影响补发去向
	require.Equal(t, strings.ToLower(addrPlatform), strings.ToLower(record.PlatformAddress))
	require.NoError(t, env.db.Model(&model.FeeConfig{}).
		Where("1 = 1").
		Update("platform_address", addrOther).Error)

	// 链路恢复后由重试任务补发
	env.token.failErr = nil
	retried, err := env.campaignLogic(after).RetryPendingSettlements()
	require.NoError(t, err)
	require.Equal(t, 1, retried)

	require.NoError(t, env.db.Where("campaign_id = ?", campaign.CampaignId).First(&record).Error)
	require.Equal(t, model.SettlementStatusSuccess, record.Status)
	require.Equal(t, "96400", env.token.totalTo(addrOwner).String())
	require.Equal(t, "2000", env.token.totalTo(addrPlatform).String())
	require.Equal(t, "0", env.token.totalTo(addrOther).String())
}

func TestCloseCampaignSettlingGuard(t *testing.T) {
	env, campaign, after := closedCampaignEnv(t, 100_000)
	require.NoError(t, env.db.Model(&model.Campaign{}).
		Where("campaign_id = ?", campaign.CampaignId).
		Update("settling", true).Error)

	err := env.campaignLogic(after).CloseCampaign(campaign.CampaignId, addrOwner)
	require.ErrorIs(t, err, ErrSettlementInProgress)
}
