package handler

import (
	"errors"
	"net/http"

	"github.com/blues/lps/internal/logic"
	"github.com/blues/lps/internal/pricing"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// FailWith 按账本错误类别映射HTTP状态码
func FailWith(c *gin.Context, err error) {
	ErrorResponse(c, statusOf(err), err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, logic.ErrCampaignNotFound):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrNotOwner),
		errors.Is(err, logic.ErrNotAdmin),
		errors.Is(err, logic.ErrNotWhitelisted),
		errors.Is(err, logic.ErrNoCreationRight):
		return http.StatusForbidden
	case errors.Is(err, logic.ErrCampaignNotOpen),
		errors.Is(err, logic.ErrCampaignAlreadyClosed),
		errors.Is(err, logic.ErrCampaignStillRunning),
		errors.Is(err, logic.ErrCampaignNotClosed),
		errors.Is(err, logic.ErrThresholdNotMet),
		errors.Is(err, logic.ErrSettlementInProgress),
		errors.Is(err, logic.ErrReclaimUnavailable),
		errors.Is(err, logic.ErrNothingToReclaim),
		errors.Is(err, logic.ErrNothingVested):
		return http.StatusConflict
	case errors.Is(err, logic.ErrBelowMinTicket),
		errors.Is(err, logic.ErrAboveMaxTicket),
		errors.Is(err, logic.ErrCapExceeded),
		errors.Is(err, logic.ErrAssetNotAccepted),
		errors.Is(err, logic.ErrZeroAddress),
		errors.Is(err, logic.ErrInsufficientAllowance),
		errors.Is(err, pricing.ErrInvalidFeed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// callerAddress 从请求头提取操作账户
func callerAddress(c *gin.Context) string {
	return c.GetHeader("X-Caller-Address")
}
