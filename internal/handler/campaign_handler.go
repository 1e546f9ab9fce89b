package handler

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/logic"
	"github.com/blues/lps/internal/vesting"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
}

func NewCampaignHandler(db *gorm.DB, collab *chain.Collaborators, cfg config.LedgerConfig) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic: logic.NewCampaignLogic(db, collab, cfg),
	}
}

// CreateCampaign 创建募集活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	caller := callerAddress(c)
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少操作账户")
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	params := logic.CreateCampaignParams{
		Owner:           caller,
		ProjectName:     req.ProjectName,
		TokenAddress:    req.TokenAddress,
		Rate:            req.Rate,
		RateDenominator: req.RateDenominator,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Private:         req.Private,
		ReferralAddress: req.ReferralAddress,
		AcceptedAssets:  req.AcceptedAssets,
		IncludeNative:   req.IncludeNative,
		Whitelist:       req.Whitelist,
		Vesting: vesting.Terms{
			CliffSeconds:    req.CliffSeconds,
			DurationSeconds: req.DurationSeconds,
			PeriodSeconds:   req.PeriodSeconds,
			TgePercent:      req.TgePercent,
		},
	}

	var ok bool
	if params.TotalAllocation, ok = parseAmount(req.TotalAllocation); !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的代币配额")
		return
	}
	if params.HardCap, ok = parseAmount(req.HardCap); !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的硬顶金额")
		return
	}
	if params.SoftCap, ok = parseOptionalAmount(req.SoftCap); !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的软顶金额")
		return
	}
	if params.MinTicket, ok = parseOptionalAmount(req.MinTicket); !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的最低限额")
		return
	}
	if params.MaxTicket, ok = parseOptionalAmount(req.MaxTicket); !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的最高限额")
		return
	}
	if params.FeePaid, ok = parseOptionalAmount(req.FeePaid); !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的创建费金额")
		return
	}

	campaign, err := h.campaignLogic.CreateCampaign(params)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "募集活动创建成功", campaign)
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	status := c.Query("status")
	owner := c.Query("owner")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	campaigns, total, err := h.campaignLogic.GetCampaigns(status, owner, page, pageSize)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"campaigns": campaigns,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetCampaign 获取活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignLogic.GetCampaign(c.Param("id"))
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", campaign)
}

// GetCampaignStats 获取活动统计信息
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	stats, err := h.campaignLogic.GetCampaignStats(c.Param("id"))
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", stats)
}

// CloseCampaign 关闭活动并结算
func (h *CampaignHandler) CloseCampaign(c *gin.Context) {
	caller := callerAddress(c)
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少操作账户")
		return
	}

	if err := h.campaignLogic.CloseCampaign(c.Param("id"), caller); err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "募集活动已成功关闭", nil)
}

func parseAmount(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}

func parseOptionalAmount(s string) (*big.Int, bool) {
	if s == "" {
		return big.NewInt(0), true
	}
	return parseAmount(s)
}
