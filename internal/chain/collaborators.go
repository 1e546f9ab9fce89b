package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NativeAssetAddress 原生币在账本中的资产标识（零地址）
var NativeAssetAddress = common.Address{}.Hex()

// PriceOracle 价格预言机能力接口，返回指定资产的原始报价及其小数位数
type PriceOracle interface {
	LatestAnswer(asset common.Address) (*big.Int, uint8, error)
}

// TokenTransfer 同质化资产转账能力接口
type TokenTransfer interface {
	Transfer(token, to common.Address, amount *big.Int) error
	TransferFrom(token, from, to common.Address, amount *big.Int) error
	Allowance(token, owner, spender common.Address) (*big.Int, error)
	TransferNative(to common.Address, amount *big.Int) error
}

// CuratorRegistry 策展人登记处能力接口
type CuratorRegistry interface {
	CuratorPercentage(campaignId string) (int64, error)
	ReceiveFees(asset common.Address, amount *big.Int, campaignId string) error
}

// StakingLedger 质押账本能力接口
type StakingLedger interface {
	ReceiveFees(asset common.Address, amount *big.Int) error
}

// PackageLedger 套餐账本能力接口，查询创建方是否持有免费创建资格
type PackageLedger interface {
	HasCreationCredit(owner common.Address, projectName string) (bool, error)
}

// Collaborators 账本依赖的全部外部协作方。
// Curator、Staking、Packages 可为 nil，对应能力视为未配置。
type Collaborators struct {
	Oracle  PriceOracle
	Token   TokenTransfer
	Curator CuratorRegistry
	Staking StakingLedger
	Package PackageLedger

	// Escrow 托管账户地址，锁定的项目代币与募集资金由该账户持有
	Escrow common.Address
}
