package pricing

import (
	"errors"
	"math/big"
)

// AccountingDecimals 记账单位小数位数
const AccountingDecimals = 18

// ErrInvalidFeed 喂价数据无效
var ErrInvalidFeed = errors.New("喂价数据无效")

var ten = big.NewInt(10)

// Normalize 将预言机原始报价归一化为18位小数的单位价格。
// 归一化后 price × 10^-18 即为该资产一个整单位的记账价值。
// 资产小数位多于报价小数位时按差值放大，少于时整除缩小（向下取整）。
func Normalize(raw *big.Int, priceDecimals, assetDecimals uint8) (*big.Int, error) {
	if raw == nil || raw.Sign() <= 0 {
		return nil, ErrInvalidFeed
	}

	price := new(big.Int).Set(raw)
	if assetDecimals > priceDecimals {
		scale := pow10(int64(assetDecimals - priceDecimals))
		price.Mul(price, scale)
	} else if assetDecimals < priceDecimals {
		scale := pow10(int64(priceDecimals - assetDecimals))
		price.Quo(price, scale)
	}
	return price, nil
}

// ToAccountingUnits 将资产原生单位的数量按归一化价格换算为记账单位。
// 结果向下取整。
func ToAccountingUnits(amount, unitPrice *big.Int, assetDecimals uint8) *big.Int {
	units := new(big.Int).Mul(amount, unitPrice)
	return units.Quo(units, pow10(int64(assetDecimals)))
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(n), nil)
}
