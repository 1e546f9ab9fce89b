package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InvestHandler struct {
	investLogic *logic.InvestLogic
}

func NewInvestHandler(db *gorm.DB, collab *chain.Collaborators) *InvestHandler {
	return &InvestHandler{
		investLogic: logic.NewInvestLogic(db, collab),
	}
}

// Invest 投资指定资产
func (h *InvestHandler) Invest(c *gin.Context) {
	caller := callerAddress(c)
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少操作账户")
		return
	}

	var req InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, ok := parseAmount(req.Amount)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的投资金额")
		return
	}

	record, err := h.investLogic.Invest(c.Param("id"), caller, req.AssetAddress, amount)
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "投资成功", record)
}

// InvestNative 以原生币投资
func (h *InvestHandler) InvestNative(c *gin.Context) {
	caller := callerAddress(c)
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少操作账户")
		return
	}

	var req InvestNativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, ok := parseAmount(req.Amount)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的投资金额")
		return
	}

	record, err := h.investLogic.InvestNative(c.Param("id"), caller, amount)
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "投资成功", record)
}

// GetInvestorBalances 查询投资人在活动中的投资记录
func (h *InvestHandler) GetInvestorBalances(c *gin.Context) {
	records, err := h.investLogic.GetInvestorBalances(c.Param("id"), c.Param("investor"))
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", records)
}

// GetCampaignContributions 分页查询活动投资记录
func (h *InvestHandler) GetCampaignContributions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	records, total, err := h.investLogic.GetCampaignContributions(c.Param("id"), page, pageSize)
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{
		"contributions": records,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}
