package types

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBigInt(t *testing.T) {
	b, err := ParseBigInt("123456789012345678901234567890")
	require.NoError(t, err)
	require.Equal(t, "123456789012345678901234567890", b.Int.String())

	b, err = ParseBigInt("")
	require.NoError(t, err)
	require.True(t, b.IsZero())

	_, err = ParseBigInt("12.5")
	require.Error(t, err)

	_, err = ParseBigInt("abc")
	require.Error(t, err)
}

func TestBigIntValueScanRoundTrip(t *testing.T) {
	orig := NewBigInt(new(big.Int).Lsh(big.NewInt(1), 200))

	v, err := orig.Value()
	require.NoError(t, err)

	var scanned BigInt
	require.NoError(t, scanned.Scan(v))
	require.Equal(t, 0, orig.Cmp(&scanned))

	var fromBytes BigInt
	require.NoError(t, fromBytes.Scan([]byte("42")))
	require.Equal(t, int64(42), fromBytes.Int.Int64())

	var fromNil BigInt
	fromNil.Int.SetInt64(7)
	require.NoError(t, fromNil.Scan(nil))
	require.True(t, fromNil.IsZero())

	var bad BigInt
	require.Error(t, bad.Scan(3.14))
}

func TestBigIntJSON(t *testing.T) {
	b := NewBigIntFromInt64(1000)
	data, err := json.Marshal(b)
	require.NoError(t, err)
	require.Equal(t, `"1000"`, string(data))

	var decoded BigInt
	require.NoError(t, json.Unmarshal([]byte(`"99999999999999999999"`), &decoded))
	require.Equal(t, "99999999999999999999", decoded.Int.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &decoded))
	require.True(t, decoded.IsZero())
}
