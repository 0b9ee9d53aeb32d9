// Package handlers provides HTTP API handlers for the origin verifier
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/originverifier/internal/api/format"
	"github.com/weisyn/originverifier/pkg/types"
)

// ==================== 📋 标准API响应结构 ====================

// StandardAPIResponse 标准API响应格式
// ✅ 统一所有handler的响应格式
type StandardAPIResponse struct {
	Success bool        `json:"success"`           // 操作是否成功
	Data    interface{} `json:"data,omitempty"`    // 响应数据（成功时）
	Message string      `json:"message,omitempty"` // 成功消息或简要说明
	Error   *APIError   `json:"error,omitempty"`   // 错误信息（失败时）
}

// APIError 标准错误结构
type APIError struct {
	Code    string `json:"code"`              // 错误代码（用于程序化处理）
	Message string `json:"message"`           // 用户友好的错误消息
	Details string `json:"details,omitempty"` // 详细错误信息（调试用）
}

// ==================== 🎯 错误代码常量 ====================

// 请求相关错误
const (
	ErrorCodeInvalidRequest   = "INVALID_REQUEST"
	ErrorCodeInvalidParameter = "INVALID_PARAMETER"
	ErrorCodeInvalidJSON      = "INVALID_JSON"
	ErrorCodeUnauthenticated  = "UNAUTHENTICATED"
)

// 业务相关错误，与 types.ErrorCategory 一一对应
const (
	ErrorCodeNotFound          = "NOT_FOUND"
	ErrorCodeValidationFailed  = "VALIDATION_FAILED"
	ErrorCodePermissionDenied  = "PERMISSION_DENIED"
	ErrorCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrorCodeInvalidState      = "INVALID_STATE"
	ErrorCodeDeliveryFailed    = "DELIVERY_FAILED"
	ErrorCodeInternalError     = "INTERNAL_ERROR"
)

// HeaderAccount 调用方身份头
const HeaderAccount = "X-Account"

func respondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, StandardAPIResponse{Success: true, Data: data, Message: message})
}

func respondError(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, StandardAPIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Details: details},
	})
}

// respondDomainError 按错误分类映射HTTP状态码
func respondDomainError(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, types.ErrProductNotFound) || errors.Is(err, types.ErrClaimNotFound) {
		respondError(c, http.StatusNotFound, ErrorCodeNotFound, err.Error(), "")
		return
	}
	switch types.CategoryOf(err) {
	case types.ErrorCategoryValidation:
		respondError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error(), "")
	case types.ErrorCategoryAuthorization:
		respondError(c, http.StatusForbidden, ErrorCodePermissionDenied, err.Error(), "")
	case types.ErrorCategoryFunds:
		respondError(c, http.StatusPaymentRequired, ErrorCodeInsufficientFunds, err.Error(), "")
	case types.ErrorCategoryState:
		respondError(c, http.StatusConflict, ErrorCodeInvalidState, err.Error(), "")
	case types.ErrorCategoryDelivery:
		respondError(c, http.StatusBadGateway, ErrorCodeDeliveryFailed, err.Error(), "")
	default:
		respondError(c, http.StatusInternalServerError, ErrorCodeInternalError, "服务器内部错误", err.Error())
	}
}

// callerFrom 从 X-Account 头解析调用方
func callerFrom(c *gin.Context) (types.AccountID, bool) {
	raw := c.GetHeader(HeaderAccount)
	if raw == "" {
		respondError(c, http.StatusUnauthorized, ErrorCodeUnauthenticated, "缺少 "+HeaderAccount+" 头", "")
		return "", false
	}
	id, err := format.ParseAccount(raw)
	if err != nil {
		respondError(c, http.StatusUnauthorized, ErrorCodeUnauthenticated, "无效的调用方账户", err.Error())
		return "", false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "请求体解析失败", err.Error())
		return false
	}
	return true
}
