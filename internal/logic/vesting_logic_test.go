package logic

import (
	"errors"
	"testing"
	"time"

	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/types"
	"github.com/stretchr/testify/require"
)

// vestedCampaignEnv 构造一个成功关闭的活动，投资人应得1000个代币
func vestedCampaignEnv(t *testing.T) (*testEnv, *model.Campaign, time.Time) {
	env := newTestEnv(t)
	start := baseTime.Add(30 * 24 * time.Hour)
	campaign := env.seedCampaign(t, func(c *model.Campaign) {
		c.Closed = true
		c.Status = model.CampaignStatusSuccess
		c.VestingStart = &start
	})
	require.NoError(t, env.db.Create(&model.VestingPosition{
		CampaignId:      campaign.CampaignId,
		InvestorAddress: addrInvestor,
		Entitled:        types.NewBigIntFromInt64(1000),
	}).Error)
	return env, campaign, start
}

func TestReleaseRequiresClosedCampaign(t *testing.T) {
	env := newTestEnv(t)
	campaign := env.seedCampaign(t, nil)

	_, err := env.vestingLogic(baseTime).Release(campaign.CampaignId, addrInvestor)
	require.ErrorIs(t, err, ErrCampaignNotClosed)
}

func TestReleaseRequiresPosition(t *testing.T) {
	env, campaign, start := vestedCampaignEnv(t)

	_, err := env.vestingLogic(start).Release(campaign.CampaignId, addrOther)
	require.ErrorIs(t, err, ErrNothingVested)
}

func TestReleaseSchedule(t *testing.T) {
	env, campaign, start := vestedCampaignEnv(t)

	// 释放起点即可提取TGE部分：1000×20% = 200
	released, err := env.vestingLogic(start).Release(campaign.CampaignId, addrInvestor)
	require.NoError(t, err)
	require.Equal(t, "200", released.String())

	require.Equal(t, "200", env.token.totalTo(addrInvestor).String())

	var position model.VestingPosition
	require.NoError(t, env.db.Where("campaign_id = ? AND investor_address = ?",
		campaign.CampaignId, addrInvestor).First(&position).Error)
	require.Equal(t, "200", position.Released.Int.String())

	// 已提取部分不可重复提取
	_, err = env.vestingLogic(start).Release(campaign.CampaignId, addrInvestor)
	require.ErrorIs(t, err, ErrNothingVested)

	// 锁定期后第一个周期：累计266，增量66
	released, err = env.vestingLogic(start.Add(120*24*time.Hour)).
		Release(campaign.CampaignId, addrInvestor)
	require.NoError(t, err)
	require.Equal(t, "66", released.String())

	// 释放结束后提取全部余量
	released, err = env.vestingLogic(start.Add(460*24*time.Hour)).
		Release(campaign.CampaignId, addrInvestor)
	require.NoError(t, err)
	require.Equal(t, "734", released.String())
	require.Equal(t, "1000", env.token.totalTo(addrInvestor).String())

	var events int64
	require.NoError(t, env.db.Model(&model.Event{}).
		Where("campaign_id = ? AND event_type = ?", campaign.CampaignId, model.EventTokensReleased).
		Count(&events).Error)
	require.Equal(t, int64(3), events)
}

func TestReleaseTransferRetry(t *testing.T) {
	env, campaign, start := vestedCampaignEnv(t)
	env.token.failErr = errors.New("rpc unavailable")

	// 转账失败不回退账内状态，释放记录标记失败待重试
	released, err := env.vestingLogic(start).Release(campaign.CampaignId, addrInvestor)
	require.NoError(t, err)
	require.Equal(t, "200", released.String())
	require.Equal(t, "0", env.token.totalTo(addrInvestor).String())

	var position model.VestingPosition
	require.NoError(t, env.db.Where("campaign_id = ? AND investor_address = ?",
		campaign.CampaignId, addrInvestor).First(&position).Error)
	require.Equal(t, "200", position.Released.Int.String())

	var record model.ReleaseRecord
	require.NoError(t, env.db.Where("campaign_id = ?", campaign.CampaignId).First(&record).Error)
	require.Equal(t, model.ReleaseStatusFailed, record.Status)
	require.NotEmpty(t, record.FailReason)
	require.Equal(t, "200", record.Amount.Int.String())

	// 账内已累加，同一时刻再次提取无余量
	_, err = env.vestingLogic(start).Release(campaign.CampaignId, addrInvestor)
	require.ErrorIs(t, err, ErrNothingVested)

	// 链路恢复后由重试任务补发
	env.token.failErr = nil
	retried, err := env.vestingLogic(start).RetryPendingReleases()
	require.NoError(t, err)
	require.Equal(t, 1, retried)

	require.NoError(t, env.db.Where("campaign_id = ?", campaign.CampaignId).First(&record).Error)
	require.Equal(t, model.ReleaseStatusSuccess, record.Status)
	require.Empty(t, record.FailReason)
	require.Equal(t, "200", env.token.totalTo(addrInvestor).String())

	// 重试任务空转不重复补发
	retried, err = env.vestingLogic(start).RetryPendingReleases()
	require.NoError(t, err)
	require.Equal(t, 0, retried)
}

func TestComputeReleasable(t *testing.T) {
	env, campaign, start := vestedCampaignEnv(t)
	logic := env.vestingLogic(start)

	got, err := logic.ComputeReleasable(campaign.CampaignId, addrInvestor, start)
	require.NoError(t, err)
	require.Equal(t, "200", got.String())

	got, err = logic.ComputeReleasable(campaign.CampaignId, addrInvestor, start.Add(120*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, "266", got.String())
}

func TestGetVestingPlan(t *testing.T) {
	env, campaign, start := vestedCampaignEnv(t)

	plan, err := env.vestingLogic(start).GetVestingPlan(campaign.CampaignId, addrInvestor)
	require.NoError(t, err)
	require.Equal(t, "1000", plan["entitled"])
	require.Equal(t, "0", plan["released"])
	require.Equal(t, "200", plan["releasable"])
	require.Equal(t, int64(20), plan["tge_percent"])
}
