package vesting

import (
	"errors"
	"math/big"
	"time"
)

// Terms 单个募集活动的释放条款
type Terms struct {
	CliffSeconds    int64 // 锁定期时长
	DurationSeconds int64 // 线性释放总时长，须被 PeriodSeconds 整除
	PeriodSeconds   int64 // 释放周期粒度
	TgePercent      int64 // 解锁即释放的百分比，0到100
}

// Validate 校验释放条款
func (t Terms) Validate() error {
	if t.PeriodSeconds <= 0 || t.DurationSeconds <= 0 {
		return errors.New("释放周期与总时长必须大于0")
	}
	if t.DurationSeconds%t.PeriodSeconds != 0 {
		return errors.New("释放周期必须整除释放总时长")
	}
	if t.TgePercent < 0 || t.TgePercent > 100 {
		return errors.New("TGE释放百分比必须在0到100之间")
	}
	if t.CliffSeconds < 0 {
		return errors.New("锁定期不能为负")
	}
	return nil
}

// TotalPeriods 释放周期总数
func (t Terms) TotalPeriods() int64 {
	return t.DurationSeconds / t.PeriodSeconds
}

// ErrNotStarted 释放尚未开始
var ErrNotStarted = errors.New("释放尚未开始")

var hundred = big.NewInt(100)

// Releasable 计算 now 时刻可提取的数量。
// 锁定期内仅可提取 TGE 部分；锁定期后按已过周期数线性释放，
// 全程整数向下取整，扣除已提取部分后下限为0。
// 对固定的 released，结果随 now 单调不减。
func Releasable(terms Terms, entitled, released *big.Int, start, now time.Time) (*big.Int, error) {
	if now.Before(start) {
		return nil, ErrNotStarted
	}

	tgeAmount := new(big.Int).Mul(entitled, big.NewInt(terms.TgePercent))
	tgeAmount.Quo(tgeAmount, hundred)

	cliffEnd := start.Add(time.Duration(terms.CliffSeconds) * time.Second)
	vested := tgeAmount
	if !now.Before(cliffEnd) {
		totalPeriods := terms.TotalPeriods()
		elapsed := int64(now.Sub(cliffEnd) / time.Second)
		periods := elapsed / terms.PeriodSeconds
		if periods > totalPeriods {
			periods = totalPeriods
		}

		vestingPortion := new(big.Int).Mul(entitled, big.NewInt(100-terms.TgePercent))
		vestingPortion.Quo(vestingPortion, hundred)

		linear := new(big.Int).Mul(vestingPortion, big.NewInt(periods))
		linear.Quo(linear, big.NewInt(totalPeriods))

		vested = new(big.Int).Add(tgeAmount, linear)
	}

	vested.Sub(vested, released)
	if vested.Sign() < 0 {
		vested.SetInt64(0)
	}
	return vested, nil
}
