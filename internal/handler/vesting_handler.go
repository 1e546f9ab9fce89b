package handler

import (
	"net/http"

	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VestingHandler struct {
	vestingLogic *logic.VestingLogic
	reclaimLogic *logic.ReclaimLogic
}

func NewVestingHandler(db *gorm.DB, collab *chain.Collaborators, cfg config.LedgerConfig) *VestingHandler {
	return &VestingHandler{
		vestingLogic: logic.NewVestingLogic(db, collab),
		reclaimLogic: logic.NewReclaimLogic(db, collab, cfg),
	}
}

// Release 提取已释放的代币
func (h *VestingHandler) Release(c *gin.Context) {
	caller := callerAddress(c)
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少操作账户")
		return
	}

	released, err := h.vestingLogic.Release(c.Param("id"), caller)
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "代币提取成功", gin.H{"released": released.String()})
}

// GetVestingPlan 查询释放计划
func (h *VestingHandler) GetVestingPlan(c *gin.Context) {
	caller := c.Param("investor")
	plan, err := h.vestingLogic.GetVestingPlan(c.Param("id"), caller)
	if err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", plan)
}

// Reclaim 募集失败后取回
func (h *VestingHandler) Reclaim(c *gin.Context) {
	caller := callerAddress(c)
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少操作账户")
		return
	}

	if err := h.reclaimLogic.ReclaimTokens(c.Param("id"), caller); err != nil {
		FailWith(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "取回成功", nil)
}
