package logic

import "errors"

// 账本操作错误，调用方使用 errors.Is 区分类别。
// 所有错误均同步返回，操作要么完整生效要么完全无效。
var (
	// 权限类
	ErrNotOwner = errors.New("仅项目方可执行该操作")
	ErrNotAdmin = errors.New("仅管理员可执行该操作")

	// 状态类
	ErrCampaignNotFound      = errors.New("募集活动不存在")
	ErrCampaignNotOpen       = errors.New("募集活动未在进行中")
	ErrCampaignAlreadyClosed = errors.New("募集活动已关闭")
	ErrCampaignStillRunning  = errors.New("募集活动尚未结束")
	ErrCampaignNotClosed     = errors.New("募集活动尚未成功关闭")
	ErrThresholdNotMet       = errors.New("募集总额未达到最低门槛")
	ErrSettlementInProgress  = errors.New("结算正在进行中")
	ErrReclaimUnavailable    = errors.New("当前不满足取回条件")

	// 限额类
	ErrBelowMinTicket = errors.New("投资额低于单笔最低限额")
	ErrAboveMaxTicket = errors.New("投资额高于单笔最高限额")
	ErrCapExceeded    = errors.New("投资额超过硬顶剩余额度")

	// 配置类
	ErrAssetNotAccepted      = errors.New("该资产不在接受列表中")
	ErrZeroAddress           = errors.New("地址不能为空")
	ErrNoCreationRight       = errors.New("无创建资格：需支付创建费或持有创建权益")
	ErrInsufficientAllowance = errors.New("托管账户的代币授权额度不足")

	// 一致性类
	ErrNotWhitelisted   = errors.New("投资人不在白名单中")
	ErrNothingToReclaim = errors.New("没有可取回的资产")
	ErrNothingVested    = errors.New("当前没有可提取的代币")
)
