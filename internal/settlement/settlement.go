package settlement

import (
	"errors"
	"math/big"
)

// FeeTiers 按募集总额分档的费率表，阈值严格递增。
// 募集总额低于 Tier1Threshold 适用 Tier1Percent，低于 Tier2Threshold
// 适用 Tier2Percent，其余适用 Tier3Percent。
type FeeTiers struct {
	Tier1Threshold *big.Int
	Tier2Threshold *big.Int
	Tier1Percent   int64
	Tier2Percent   int64
	Tier3Percent   int64
}

// Validate 校验费率表
func (t FeeTiers) Validate() error {
	if t.Tier1Threshold == nil || t.Tier2Threshold == nil {
		return errors.New("费率档位阈值不能为空")
	}
	if t.Tier1Threshold.Sign() <= 0 || t.Tier1Threshold.Cmp(t.Tier2Threshold) >= 0 {
		return errors.New("费率档位阈值必须严格递增")
	}
	for _, p := range []int64{t.Tier1Percent, t.Tier2Percent, t.Tier3Percent} {
		if p < 0 || p > 100 {
			return errors.New("费率百分比必须在0到100之间")
		}
	}
	return nil
}

// SelectTierPercent 按最终募集总额（记账单位）选择适用费率
func (t FeeTiers) SelectTierPercent(totalRaised *big.Int) int64 {
	if totalRaised.Cmp(t.Tier1Threshold) < 0 {
		return t.Tier1Percent
	}
	if totalRaised.Cmp(t.Tier2Threshold) < 0 {
		return t.Tier2Percent
	}
	return t.Tier3Percent
}

// SplitInput 单一资产的费用拆分输入。份额百分比均为 baseFee 的百分比；
// CuratorPercent 来自策展人登记处。接收方缺省（零账户）时对应份额不计提，
// 归入项目方余额。
type SplitInput struct {
	AssetRaised    *big.Int // 该资产募集量（原生单位）
	TierPercent    int64
	PlatformShare  int64
	StakingShare   int64
	ReferralShare  int64
	CuratorPercent int64
	HasPlatform    bool
	HasStaking     bool
	HasCurator     bool
	HasReferral    bool
}

// Split 单一资产的费用拆分结果。
// 恒等式：PlatformFee + StakingFee + CuratorFee + ReferralFee + OwnerAmount == AssetRaised
type Split struct {
	BaseFee     *big.Int
	PlatformFee *big.Int
	StakingFee  *big.Int
	CuratorFee  *big.Int
	ReferralFee *big.Int
	OwnerAmount *big.Int
}

var hundred = big.NewInt(100)

// ComputeSplit 对单一资产的募集量计算费用拆分。
// baseFee = assetRaised × tierPercent / 100（向下取整），各份额再按
// baseFee 的百分比取整，未计提部分留在项目方余额中，不销毁任何价值。
func ComputeSplit(in SplitInput) Split {
	base := percentOf(in.AssetRaised, in.TierPercent)

	out := Split{
		BaseFee:     base,
		PlatformFee: big.NewInt(0),
		StakingFee:  big.NewInt(0),
		CuratorFee:  big.NewInt(0),
		ReferralFee: big.NewInt(0),
	}

	if in.HasPlatform {
		out.PlatformFee = percentOf(base, in.PlatformShare)
	}
	if in.HasStaking {
		out.StakingFee = percentOf(base, in.StakingShare)
	}
	if in.HasCurator && in.CuratorPercent > 0 {
		out.CuratorFee = percentOf(base, in.CuratorPercent)
	}
	if in.HasReferral {
		out.ReferralFee = percentOf(base, in.ReferralShare)
	}

	distributed := new(big.Int).Add(out.PlatformFee, out.StakingFee)
	distributed.Add(distributed, out.CuratorFee)
	distributed.Add(distributed, out.ReferralFee)

	out.OwnerAmount = new(big.Int).Sub(in.AssetRaised, distributed)
	return out
}

func percentOf(amount *big.Int, percent int64) *big.Int {
	v := new(big.Int).Mul(amount, big.NewInt(percent))
	return v.Quo(v, hundred)
}
