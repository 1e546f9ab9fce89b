package handler

import (
	"net/http"

	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/logic"
	"github.com/blues/lps/internal/model"
	"github.com/blues/lps/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	feeLogic       *logic.FeeLogic
	whitelistLogic *logic.WhitelistLogic
}

func NewAdminHandler(db *gorm.DB, cfg config.LedgerConfig) *AdminHandler {
	return &AdminHandler{
		feeLogic:       logic.NewFeeLogic(db, cfg),
		whitelistLogic: logic.NewWhitelistLogic(db),
	}
}

// GetFeeConfig 查询费用配置
func (h *AdminHandler) GetFeeConfig(c *gin.Context) {
	feeConfig, err := h.feeLogic.GetFeeConfig()
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", feeConfig)
}

// SetFeeConfig 整体替换费用配置
func (h *AdminHandler) SetFeeConfig(c *gin.Context) {
	caller := callerAddress(c)
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少操作账户")
		return
	}

	var req FeeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	tier1, err := types.ParseBigInt(req.Tier1Threshold)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的一档阈值")
		return
	}
	tier2, err := types.ParseBigInt(req.Tier2Threshold)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的二档阈值")
		return
	}

	updated := model.FeeConfig{
		Tier1Threshold:      tier1,
		Tier2Threshold:      tier2,
		Tier1Percent:        req.Tier1Percent,
		Tier2Percent:        req.Tier2Percent,
		Tier3Percent:        req.Tier3Percent,
		MinThresholdPercent: req.MinThresholdPercent,
		PlatformShare:       req.PlatformShare,
		StakingShare:        req.StakingShare,
		ReferralShare:       req.ReferralShare,
		PlatformAddress:     req.PlatformAddress,
		StakingAddress:      req.StakingAddress,
	}
	if err := h.feeLogic.SetFeeConfig(caller, updated); err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "费用配置已更新", nil)
}

// GetAssets 查询全局接受资产列表
func (h *AdminHandler) GetAssets(c *gin.Context) {
	assets, err := h.feeLogic.GetAssets()
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", assets)
}

// RegisterAsset 登记全局接受资产
func (h *AdminHandler) RegisterAsset(c *gin.Context) {
	caller := callerAddress(c)
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少操作账户")
		return
	}

	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	asset := model.Asset{
		AssetAddress: req.AssetAddress,
		Symbol:       req.Symbol,
		Decimals:     req.Decimals,
		FeedAddress:  req.FeedAddress,
		Enabled:      enabled,
	}
	if err := h.feeLogic.RegisterAsset(caller, asset); err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "资产登记成功", nil)
}

// AddToAllowlist 批量加入活动白名单
func (h *AdminHandler) AddToAllowlist(c *gin.Context) {
	caller := callerAddress(c)
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少操作账户")
		return
	}

	var req AllowlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.whitelistLogic.AddToAllowlist(c.Param("id"), caller, req.Addresses); err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "白名单已更新", nil)
}
