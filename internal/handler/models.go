package handler

import "time"

// CreateCampaignRequest 创建募集活动请求
type CreateCampaignRequest struct {
	ProjectName     string    `json:"project_name" binding:"required"`
	TokenAddress    string    `json:"token_address" binding:"required"`
	TotalAllocation string    `json:"total_allocation" binding:"required"` // 十进制字符串
	HardCap         string    `json:"hard_cap" binding:"required"`         // 记账单位
	SoftCap         string    `json:"soft_cap"`
	MinTicket       string    `json:"min_ticket"`
	MaxTicket       string    `json:"max_ticket"`
	Rate            int64     `json:"rate" binding:"required"`
	RateDenominator int64     `json:"rate_denominator"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time" binding:"required"`
	Private         bool      `json:"private"`
	ReferralAddress string    `json:"referral_address"`
	AcceptedAssets  []string  `json:"accepted_assets"`
	IncludeNative   bool      `json:"include_native"`
	Whitelist       []string  `json:"whitelist"`
	FeePaid         string    `json:"fee_paid"` // 随调用附带的创建费

	CliffSeconds    int64 `json:"cliff_seconds"`
	DurationSeconds int64 `json:"duration_seconds" binding:"required"`
	PeriodSeconds   int64 `json:"period_seconds" binding:"required"`
	TgePercent      int64 `json:"tge_percent"`
}

// InvestRequest 投资请求
type InvestRequest struct {
	AssetAddress string `json:"asset_address" binding:"required"`
	Amount       string `json:"amount" binding:"required"` // 资产原生单位，十进制字符串
}

// InvestNativeRequest 原生币投资请求
type InvestNativeRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// AllowlistRequest 白名单请求
type AllowlistRequest struct {
	Addresses []string `json:"addresses" binding:"required"`
}

// FeeConfigRequest 费用配置替换请求
type FeeConfigRequest struct {
	Tier1Threshold      string `json:"tier1_threshold" binding:"required"`
	Tier2Threshold      string `json:"tier2_threshold" binding:"required"`
	Tier1Percent        int64  `json:"tier1_percent"`
	Tier2Percent        int64  `json:"tier2_percent"`
	Tier3Percent        int64  `json:"tier3_percent"`
	MinThresholdPercent int64  `json:"min_threshold_percent"`
	PlatformShare       int64  `json:"platform_share"`
	StakingShare        int64  `json:"staking_share"`
	ReferralShare       int64  `json:"referral_share"`
	PlatformAddress     string `json:"platform_address"`
	StakingAddress      string `json:"staking_address"`
}

// AssetRequest 资产登记请求
type AssetRequest struct {
	AssetAddress string `json:"asset_address" binding:"required"`
	Symbol       string `json:"symbol"`
	Decimals     uint8  `json:"decimals" binding:"required"`
	FeedAddress  string `json:"feed_address" binding:"required"`
	Enabled      *bool  `json:"enabled"`
}
