package types

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// BigInt 精确整数金额类型，数据库中以十进制字符串存储
type BigInt struct {
	big.Int
}

// NewBigInt 从 big.Int 创建金额
func NewBigInt(x *big.Int) BigInt {
	var b BigInt
	if x != nil {
		b.Int.Set(x)
	}
	return b
}

// NewBigIntFromInt64 从 int64 创建金额
func NewBigIntFromInt64(x int64) BigInt {
	var b BigInt
	b.Int.SetInt64(x)
	return b
}

// ParseBigInt 解析十进制字符串金额
func ParseBigInt(s string) (BigInt, error) {
	var b BigInt
	if s == "" {
		return b, nil
	}
	if _, ok := b.Int.SetString(s, 10); !ok {
		return b, fmt.Errorf("invalid decimal amount: %q", s)
	}
	return b, nil
}

// Value 实现 driver.Valuer 接口
func (b BigInt) Value() (driver.Value, error) {
	return b.Int.String(), nil
}

// Scan 实现 sql.Scanner 接口
func (b *BigInt) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		b.Int.SetInt64(0)
		return nil
	case string:
		return b.setString(v)
	case []byte:
		return b.setString(string(v))
	case int64:
		b.Int.SetInt64(v)
		return nil
	default:
		return fmt.Errorf("unsupported amount column type %T", src)
	}
}

func (b *BigInt) setString(s string) error {
	if s == "" {
		b.Int.SetInt64(0)
		return nil
	}
	if _, ok := b.Int.SetString(s, 10); !ok {
		return fmt.Errorf("invalid decimal amount in column: %q", s)
	}
	return nil
}

// GormDataType 金额列类型，78位十进制可容纳 uint256 全值域
func (BigInt) GormDataType() string {
	return "varchar(78)"
}

// MarshalJSON 序列化为十进制字符串
func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.Int.String() + `"`), nil
}

// UnmarshalJSON 从十进制字符串反序列化
func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" || s == "" {
		b.Int.SetInt64(0)
		return nil
	}
	return b.setString(s)
}

// Cmp 比较金额
func (b *BigInt) Cmp(other *BigInt) int {
	return b.Int.Cmp(&other.Int)
}

// IsZero 金额是否为零
func (b *BigInt) IsZero() bool {
	return b.Int.Sign() == 0
}
