package settlement

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func testTiers() FeeTiers {
	return FeeTiers{
		Tier1Threshold: big.NewInt(50_000),
		Tier2Threshold: big.NewInt(500_000),
		Tier1Percent:   5,
		Tier2Percent:   4,
		Tier3Percent:   3,
	}
}

func TestFeeTiersValidate(t *testing.T) {
	require.NoError(t, testTiers().Validate())

	bad := testTiers()
	bad.Tier2Threshold = big.NewInt(50_000)
	require.Error(t, bad.Validate())

	bad = testTiers()
	bad.Tier1Threshold = big.NewInt(0)
	require.Error(t, bad.Validate())

	bad = testTiers()
	bad.Tier3Percent = 101
	require.Error(t, bad.Validate())

	bad = testTiers()
	bad.Tier1Threshold = nil
	require.Error(t, bad.Validate())
}

func TestSelectTierPercent(t *testing.T) {
	tiers := testTiers()

	require.Equal(t, int64(5), tiers.SelectTierPercent(big.NewInt(0)))
	require.Equal(t, int64(5), tiers.SelectTierPercent(big.NewInt(49_999)))
	// 阈值本身落入更高一档
	require.Equal(t, int64(4), tiers.SelectTierPercent(big.NewInt(50_000)))
	require.Equal(t, int64(4), tiers.SelectTierPercent(big.NewInt(499_999)))
	require.Equal(t, int64(3), tiers.SelectTierPercent(big.NewInt(500_000)))
	require.Equal(t, int64(3), tiers.SelectTierPercent(big.NewInt(10_000_000)))
}

func TestComputeSplit(t *testing.T) {
	in := SplitInput{
		AssetRaised:    big.NewInt(100_000),
		TierPercent:    5,
		PlatformShare:  50,
		StakingShare:   25,
		ReferralShare:  5,
		CuratorPercent: 10,
		HasPlatform:    true,
		HasStaking:     true,
		HasCurator:     true,
		HasReferral:    true,
	}

	out := ComputeSplit(in)
	require.Equal(t, int64(5_000), out.BaseFee.Int64())
	require.Equal(t, int64(2_500), out.PlatformFee.Int64())
	require.Equal(t, int64(1_250), out.StakingFee.Int64())
	require.Equal(t, int64(500), out.CuratorFee.Int64())
	require.Equal(t, int64(250), out.ReferralFee.Int64())
	require.Equal(t, int64(95_500), out.OwnerAmount.Int64())
}

func TestComputeSplitMissingRecipients(t *testing.T) {
	// 接收方缺省时对应份额归入项目方余额
	in := SplitInput{
		AssetRaised:   big.NewInt(100_000),
		TierPercent:   5,
		PlatformShare: 50,
		StakingShare:  25,
		ReferralShare: 5,
		HasPlatform:   true,
	}

	out := ComputeSplit(in)
	require.Equal(t, int64(2_500), out.PlatformFee.Int64())
	require.True(t, out.StakingFee.Sign() == 0)
	require.True(t, out.CuratorFee.Sign() == 0)
	require.True(t, out.ReferralFee.Sign() == 0)
	require.Equal(t, int64(97_500), out.OwnerAmount.Int64())
}

func TestComputeSplitConservation(t *testing.T) {
	// 无论取整如何，各份额与项目方余额之和等于募集量
	cases := []struct {
		raised  int64
		tier    int64
		curator int64
	}{
		{999_999, 3, 7},
		{1, 5, 0},
		{12_345_677, 4, 13},
		{100, 5, 33},
	}

	for _, tc := range cases {
		out := ComputeSplit(SplitInput{
			AssetRaised:    big.NewInt(tc.raised),
			TierPercent:    tc.tier,
			PlatformShare:  50,
			StakingShare:   25,
			ReferralShare:  5,
			CuratorPercent: tc.curator,
			HasPlatform:    true,
			HasStaking:     true,
			HasCurator:     true,
			HasReferral:    true,
		})

		sum := new(big.Int).Add(out.PlatformFee, out.StakingFee)
		sum.Add(sum, out.CuratorFee)
		sum.Add(sum, out.ReferralFee)
		sum.Add(sum, out.OwnerAmount)
		require.Equal(t, tc.raised, sum.Int64(), "raised=%d", tc.raised)
		require.True(t, out.OwnerAmount.Sign() >= 0)
	}
}
