package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/lps/internal/logic"
	"github.com/blues/lps/internal/pricing"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{logic.ErrCampaignNotFound, http.StatusNotFound},
		{logic.ErrNotOwner, http.StatusForbidden},
		{logic.ErrNotAdmin, http.StatusForbidden},
		{logic.ErrNotWhitelisted, http.StatusForbidden},
		{logic.ErrNoCreationRight, http.StatusForbidden},
		{logic.ErrCampaignNotOpen, http.StatusConflict},
		{logic.ErrCampaignAlreadyClosed, http.StatusConflict},
		{logic.ErrThresholdNotMet, http.StatusConflict},
		{logic.ErrSettlementInProgress, http.StatusConflict},
		{logic.ErrNothingToReclaim, http.StatusConflict},
		{logic.ErrNothingVested, http.StatusConflict},
		{logic.ErrBelowMinTicket, http.StatusBadRequest},
		{logic.ErrAboveMaxTicket, http.StatusBadRequest},
		{logic.ErrCapExceeded, http.StatusBadRequest},
		{logic.ErrAssetNotAccepted, http.StatusBadRequest},
		{logic.ErrZeroAddress, http.StatusBadRequest},
		{logic.ErrInsufficientAllowance, http.StatusBadRequest},
		{pricing.ErrInvalidFeed, http.StatusBadRequest},
		{errors.New("database down"), http.StatusInternalServerError},
		// 包装后的错误保持映射
		{fmt.Errorf("关闭失败: %w", logic.ErrThresholdNotMet), http.StatusConflict},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, statusOf(tc.err), "err=%v", tc.err)
	}
}

func TestCallerAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	require.Empty(t, callerAddress(c))

	c.Request.Header.Set("X-Caller-Address", "0x1111111111111111111111111111111111111111")
	require.Equal(t, "0x1111111111111111111111111111111111111111", callerAddress(c))
}

func TestParseAmount(t *testing.T) {
	v, ok := parseAmount("12345")
	require.True(t, ok)
	require.Equal(t, "12345", v.String())

	_, ok = parseAmount("")
	require.False(t, ok)
	_, ok = parseAmount("-1")
	require.False(t, ok)
	_, ok = parseAmount("1.5")
	require.False(t, ok)

	v, ok = parseOptionalAmount("")
	require.True(t, ok)
	require.Equal(t, "0", v.String())
}
