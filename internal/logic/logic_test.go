package logic

import (
	"errors"
	"math/big"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/database"
	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	addrOwner    = "0x1111111111111111111111111111111111111111"
	addrInvestor = "0x2222222222222222222222222222222222222222"
	addrOther    = "0x3333333333333333333333333333333333333333"
	addrToken    = "0x4444444444444444444444444444444444444444"
	addrUSDC     = "0x5555555555555555555555555555555555555555"
	addrPlatform = "0x6666666666666666666666666666666666666666"
	addrStaking  = "0x7777777777777777777777777777777777777777"
	addrReferral = "0x8888888888888888888888888888888888888888"
	addrAdmin    = "0x9999999999999999999999999999999999999999"
	addrFeed     = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrEscrow   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// tokenCall 记录一次对外转账调用
type tokenCall struct {
	Token  string
	From   string
	To     string
	Amount *big.Int
	Native bool
}

type fakeToken struct {
	calls     []tokenCall
	failErr   error
	allowance *big.Int
}

func (f *fakeToken) Transfer(token, to common.Address, amount *big.Int) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.calls = append(f.calls, tokenCall{
		Token:  strings.ToLower(token.Hex()),
		To:     strings.ToLower(to.Hex()),
		Amount: new(big.Int).Set(amount),
	})
	return nil
}

func (f *fakeToken) TransferFrom(token, from, to common.Address, amount *big.Int) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.calls = append(f.calls, tokenCall{
		Token:  strings.ToLower(token.Hex()),
		From:   strings.ToLower(from.Hex()),
		To:     strings.ToLower(to.Hex()),
		Amount: new(big.Int).Set(amount),
	})
	return nil
}

func (f *fakeToken) Allowance(token, owner, spender common.Address) (*big.Int, error) {
	if f.allowance != nil {
		return new(big.Int).Set(f.allowance), nil
	}
	return new(big.Int).Lsh(big.NewInt(1), 250), nil
}

func (f *fakeToken) TransferNative(to common.Address, amount *big.Int) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.calls = append(f.calls, tokenCall{
		To:     strings.ToLower(to.Hex()),
		Amount: new(big.Int).Set(amount),
		Native: true,
	})
	return nil
}

// totalTo 汇总转给某地址的金额
func (f *fakeToken) totalTo(addr string) *big.Int {
	sum := big.NewInt(0)
	for _, c := range f.calls {
		if c.To == strings.ToLower(addr) && c.From == "" {
			sum.Add(sum, c.Amount)
		}
	}
	return sum
}

type quote struct {
	raw      *big.Int
	decimals uint8
}

type fakeOracle struct {
	quotes map[string]quote
}

func (f *fakeOracle) LatestAnswer(asset common.Address) (*big.Int, uint8, error) {
	q, ok := f.quotes[strings.ToLower(asset.Hex())]
	if !ok {
		return nil, 0, errors.New("no feed for asset")
	}
	return new(big.Int).Set(q.raw), q.decimals, nil
}

type curatorCall struct {
	Asset      string
	Amount     *big.Int
	CampaignId string
}

type fakeCurator struct {
	percent int64
	calls   []curatorCall
}

func (f *fakeCurator) CuratorPercentage(campaignId string) (int64, error) {
	return f.percent, nil
}

func (f *fakeCurator) ReceiveFees(asset common.Address, amount *big.Int, campaignId string) error {
	f.calls = append(f.calls, curatorCall{
		Asset:      strings.ToLower(asset.Hex()),
		Amount:     new(big.Int).Set(amount),
		CampaignId: campaignId,
	})
	return nil
}

type fakeStaking struct {
	received []*big.Int
}

func (f *fakeStaking) ReceiveFees(asset common.Address, amount *big.Int) error {
	f.received = append(f.received, new(big.Int).Set(amount))
	return nil
}

type fakePackage struct {
	credit bool
}

func (f *fakePackage) HasCreationCredit(owner common.Address, projectName string) (bool, error) {
	return f.credit, nil
}

type testEnv struct {
	db      *gorm.DB
	token   *fakeToken
	oracle  *fakeOracle
	curator *fakeCurator
	staking *fakeStaking
	pkg     *fakePackage
	collab  *chain.Collaborators
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		db:    newTestDB(t),
		token: &fakeToken{},
		oracle: &fakeOracle{quotes: map[string]quote{
			// 报价8位小数、资产6位小数：归一化后原生单位与记账单位1:1
			strings.ToLower(addrUSDC):                 {raw: big.NewInt(100_000_000), decimals: 8},
			strings.ToLower(chain.NativeAssetAddress): {raw: big.NewInt(100_000_000), decimals: 8},
		}},
		curator: &fakeCurator{percent: 10},
		staking: &fakeStaking{},
		pkg:     &fakePackage{},
	}
	env.collab = &chain.Collaborators{
		Oracle:  env.oracle,
		Token:   env.token,
		Curator: env.curator,
		Staking: env.staking,
		Package: env.pkg,
		Escrow:  common.HexToAddress(addrEscrow),
	}
	env.seedFeeConfig(t)
	env.seedAsset(t, addrUSDC, 6)
	env.seedAsset(t, chain.NativeAssetAddress, 18)
	return env
}

func (e *testEnv) ledgerConfig() config.LedgerConfig {
	return config.LedgerConfig{
		AdminAddress:        addrAdmin,
		CreationFee:         "0",
		ReclaimGraceSeconds: 14 * 24 * 3600,
	}
}

func (e *testEnv) seedFeeConfig(t *testing.T) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.FeeConfig{
		Tier1Threshold:      types.NewBigIntFromInt64(50_000),
		Tier2Threshold:      types.NewBigIntFromInt64(500_000),
		Tier1Percent:        5,
		Tier2Percent:        4,
		Tier3Percent:        3,
		MinThresholdPercent: 30,
		PlatformShare:       50,
		StakingShare:        25,
		ReferralShare:       5,
		PlatformAddress:     addrPlatform,
		StakingAddress:      addrStaking,
	}).Error)
}

func (e *testEnv) seedAsset(t *testing.T, addr string, decimals uint8) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.Asset{
		AssetAddress: addr,
		Decimals:     decimals,
		FeedAddress:  addrFeed,
		Enabled:      true,
	}).Error)
}

// seedCampaign 直接落库一个募集活动及其接受资产和释放条款
func (e *testEnv) seedCampaign(t *testing.T, mutate func(*model.Campaign)) *model.Campaign {
	t.Helper()
	campaign := &model.Campaign{
		CampaignId:      deriveCampaignId(addrOwner, 1),
		OwnerAddress:    addrOwner,
		ProjectName:     "Test Launch",
		TokenAddress:    addrToken,
		TotalAllocation: types.NewBigIntFromInt64(1_000_000),
		HardCap:         types.NewBigIntFromInt64(1000),
		MinTicket:       types.NewBigIntFromInt64(10),
		MaxTicket:       types.NewBigIntFromInt64(300),
		Rate:            2,
		RateDenominator: 1,
		StartTime:       baseTime,
		EndTime:         baseTime.Add(30 * 24 * time.Hour),
		ReferralAddress: addrReferral,
		Status:          model.CampaignStatusActive,
	}
	if mutate != nil {
		mutate(campaign)
	}
	require.NoError(t, e.db.Create(campaign).Error)
	require.NoError(t, e.db.Create(&model.CampaignAsset{
		CampaignId:   campaign.CampaignId,
		AssetAddress: addrUSDC,
		Decimals:     6,
	}).Error)
	require.NoError(t, e.db.Create(&model.VestingTerms{
		CampaignId:      campaign.CampaignId,
		CliffSeconds:    90 * 24 * 3600,
		DurationSeconds: 360 * 24 * 3600,
		PeriodSeconds:   30 * 24 * 3600,
		TgePercent:      20,
	}).Error)
	return campaign
}

func (e *testEnv) investLogic(now time.Time) *InvestLogic {
	l := NewInvestLogic(e.db, e.collab)
	l.clock = fixedClock(now)
	return l
}

func (e *testEnv) campaignLogic(now time.Time) *CampaignLogic {
	l := NewCampaignLogic(e.db, e.collab, e.ledgerConfig())
	l.clock = fixedClock(now)
	return l
}

func (e *testEnv) reclaimLogic(now time.Time) *ReclaimLogic {
	l := NewReclaimLogic(e.db, e.collab, e.ledgerConfig())
	l.clock = fixedClock(now)
	return l
}

func (e *testEnv) vestingLogic(now time.Time) *VestingLogic {
	l := NewVestingLogic(e.db, e.collab)
	l.clock = fixedClock(now)
	return l
}
