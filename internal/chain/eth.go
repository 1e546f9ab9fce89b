package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ERC20 ABI（仅账本用到的方法）
const erc20ABI = `[
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

// Chainlink 聚合器 ABI
const aggregatorABI = `[
	{"inputs":[],"name":"latestRoundData","outputs":[{"name":"roundId","type":"uint80"},{"name":"answer","type":"int256"},{"name":"startedAt","type":"uint256"},{"name":"updatedAt","type":"uint256"},{"name":"answeredInRound","type":"uint80"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

// 策展人登记合约 ABI
const curatorABI = `[
	{"inputs":[{"name":"campaignId","type":"bytes32"}],"name":"getCuratorPercentage","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"campaignId","type":"bytes32"}],"name":"receiveFees","outputs":[],"type":"function"}
]`

// 质押账本合约 ABI
const stakingABI = `[
	{"inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"}],"name":"receiveFees","outputs":[],"type":"function"}
]`

// 套餐账本合约 ABI
const packageABI = `[
	{"inputs":[{"name":"owner","type":"address"},{"name":"projectName","type":"string"}],"name":"hasCreationCredit","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"}
]`

// ethBackend 以太坊调用底座，封装只读调用与签名交易
type ethBackend struct {
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	from       common.Address
	chainId    *big.Int
}

func newEthBackend(client *ethclient.Client, privateKeyHex string, chainId int64) (*ethBackend, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &ethBackend{
		client:     client,
		privateKey: key,
		from:       crypto.PubkeyToAddress(key.PublicKey),
		chainId:    big.NewInt(chainId),
	}, nil
}

// call 只读合约调用
func (b *ethBackend) call(contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	out, err := b.client.CallContract(context.Background(), ethereum.CallMsg{
		From: b.from,
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s failed: %w", method, err)
	}
	return parsed.Unpack(method, out)
}

// transact 发送签名交易并等待广播成功
func (b *ethBackend) transact(contract common.Address, value *big.Int, parsed abi.ABI, method string, args ...interface{}) error {
	var data []byte
	if method != "" {
		packed, err := parsed.Pack(method, args...)
		if err != nil {
			return fmt.Errorf("failed to pack %s: %w", method, err)
		}
		data = packed
	}

	ctx := context.Background()
	nonce, err := b.client.PendingNonceAt(ctx, b.from)
	if err != nil {
		return fmt.Errorf("failed to fetch nonce: %w", err)
	}
	gasPrice, err := b.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch gas price: %w", err)
	}
	gasLimit, err := b.client.EstimateGas(ctx, ethereum.CallMsg{
		From: b.from, To: &contract, Value: value, Data: data,
	})
	if err != nil {
		return fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTransaction(nonce, contract, value, gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(b.chainId), b.privateKey)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := b.client.SendTransaction(ctx, signed); err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}
	return nil
}

// ethToken ERC20 转账实现
type ethToken struct {
	backend *ethBackend
	parsed  abi.ABI
}

func (t *ethToken) Transfer(token, to common.Address, amount *big.Int) error {
	return t.backend.transact(token, nil, t.parsed, "transfer", to, amount)
}

func (t *ethToken) TransferFrom(token, from, to common.Address, amount *big.Int) error {
	return t.backend.transact(token, nil, t.parsed, "transferFrom", from, to, amount)
}

func (t *ethToken) Allowance(token, owner, spender common.Address) (*big.Int, error) {
	out, err := t.backend.call(token, t.parsed, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (t *ethToken) TransferNative(to common.Address, amount *big.Int) error {
	return t.backend.transact(to, amount, abi.ABI{}, "")
}

// ethOracle Chainlink 风格价格预言机实现，按资产解析喂价合约地址
type ethOracle struct {
	backend *ethBackend
	parsed  abi.ABI
	resolve func(asset common.Address) (common.Address, bool)
}

func (o *ethOracle) LatestAnswer(asset common.Address) (*big.Int, uint8, error) {
	feed, ok := o.resolve(asset)
	if !ok {
		return nil, 0, fmt.Errorf("no price feed registered for asset %s", asset.Hex())
	}
	round, err := o.backend.call(feed, o.parsed, "latestRoundData")
	if err != nil {
		return nil, 0, err
	}
	answer := round[1].(*big.Int)

	dec, err := o.backend.call(feed, o.parsed, "decimals")
	if err != nil {
		return nil, 0, err
	}
	return answer, dec[0].(uint8), nil
}

// ethCurator 策展人登记处实现
type ethCurator struct {
	backend *ethBackend
	parsed  abi.ABI
	address common.Address
}

func (c *ethCurator) CuratorPercentage(campaignId string) (int64, error) {
	out, err := c.backend.call(c.address, c.parsed, "getCuratorPercentage", campaignIdBytes(campaignId))
	if err != nil {
		return 0, err
	}
	return out[0].(*big.Int).Int64(), nil
}

func (c *ethCurator) ReceiveFees(asset common.Address, amount *big.Int, campaignId string) error {
	return c.backend.transact(c.address, nil, c.parsed, "receiveFees", asset, amount, campaignIdBytes(campaignId))
}

// ethStaking 质押账本实现
type ethStaking struct {
	backend *ethBackend
	parsed  abi.ABI
	address common.Address
}

func (s *ethStaking) ReceiveFees(asset common.Address, amount *big.Int) error {
	return s.backend.transact(s.address, nil, s.parsed, "receiveFees", asset, amount)
}

// ethPackage 套餐账本实现
type ethPackage struct {
	backend *ethBackend
	parsed  abi.ABI
	address common.Address
}

func (p *ethPackage) HasCreationCredit(owner common.Address, projectName string) (bool, error) {
	out, err := p.backend.call(p.address, p.parsed, "hasCreationCredit", owner, projectName)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

func campaignIdBytes(campaignId string) [32]byte {
	var b [32]byte
	copy(b[:], common.FromHex(campaignId))
	return b
}
