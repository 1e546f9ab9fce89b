package chain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Manager 链上协作方管理器，持有客户端与各能力实现，
// 并维护资产到喂价合约的映射
type Manager struct {
	client        *ethclient.Client
	backend       *ethBackend
	collaborators *Collaborators

	mu    sync.RWMutex
	feeds map[common.Address]common.Address
}

// NewManager 连接RPC节点并构建全部协作方实现。
// 未配置地址的协作方（策展、质押、套餐）保持为 nil。
func NewManager(cfg config.ChainConfig) (*Manager, error) {
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain rpc: %w", err)
	}

	backend, err := newEthBackend(client, cfg.PrivateKey, cfg.ChainId)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		client:  client,
		backend: backend,
		feeds:   make(map[common.Address]common.Address),
	}

	erc20, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 abi: %w", err)
	}
	aggregator, err := abi.JSON(strings.NewReader(aggregatorABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse aggregator abi: %w", err)
	}

	collab := &Collaborators{
		Oracle: &ethOracle{backend: backend, parsed: aggregator, resolve: m.feedFor},
		Token:  &ethToken{backend: backend, parsed: erc20},
		Escrow: backend.from,
	}

	if cfg.CuratorAddress != "" {
		parsed, err := abi.JSON(strings.NewReader(curatorABI))
		if err != nil {
			return nil, fmt.Errorf("failed to parse curator abi: %w", err)
		}
		collab.Curator = &ethCurator{backend: backend, parsed: parsed, address: common.HexToAddress(cfg.CuratorAddress)}
	}
	if cfg.StakingAddress != "" {
		parsed, err := abi.JSON(strings.NewReader(stakingABI))
		if err != nil {
			return nil, fmt.Errorf("failed to parse staking abi: %w", err)
		}
		collab.Staking = &ethStaking{backend: backend, parsed: parsed, address: common.HexToAddress(cfg.StakingAddress)}
	}
	if cfg.PackageAddress != "" {
		parsed, err := abi.JSON(strings.NewReader(packageABI))
		if err != nil {
			return nil, fmt.Errorf("failed to parse package abi: %w", err)
		}
		collab.Package = &ethPackage{backend: backend, parsed: parsed, address: common.HexToAddress(cfg.PackageAddress)}
	}

	m.collaborators = collab
	logger.Info("Chain manager initialized, escrow account: %s", backend.from.Hex())
	return m, nil
}

// Collaborators 返回协作方集合
func (m *Manager) Collaborators() *Collaborators {
	return m.collaborators
}

// RegisterFeed 注册资产的喂价合约地址
func (m *Manager) RegisterFeed(asset, feed common.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feeds[asset] = feed
}

func (m *Manager) feedFor(asset common.Address) (common.Address, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	feed, ok := m.feeds[asset]
	return feed, ok
}
