// Package format 提供 API 层的标识符格式化工具
//
// 账户标识在接口上有两种写法：
// - 原文：直接作为 AccountID 使用
// - Base58：带 "b58:" 前缀，解码后的字节作为 AccountID
package format

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/weisyn/originverifier/pkg/types"
)

// Base58Prefix Base58 账户写法前缀
const Base58Prefix = "b58:"

// AccountToBase58 将账户标识编码为带前缀的 Base58 字符串
func AccountToBase58(id types.AccountID) string {
	if id == "" {
		return ""
	}
	return Base58Prefix + base58.Encode([]byte(id))
}

// ParseAccount 解析账户标识，支持原文与 Base58 两种写法
func ParseAccount(s string) (types.AccountID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("账户标识为空")
	}
	if !strings.HasPrefix(s, Base58Prefix) {
		return types.AccountID(s), nil
	}
	raw, err := base58.Decode(strings.TrimPrefix(s, Base58Prefix))
	if err != nil {
		return "", fmt.Errorf("无效的Base58账户: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("账户标识为空")
	}
	return types.AccountID(raw), nil
}
