package testutil

import (
	"fmt"

	"github.com/weisyn/originverifier/pkg/types"
)

// 测试账户
const (
	Alice   types.AccountID = "ALICE"
	Bob     types.AccountID = "BOB"
	Charlie types.AccountID = "CHARLIE"
	Admin   types.AccountID = "ADMIN"
)

// DefaultBalance 测试账户初始余额
const DefaultBalance types.Balance = 10000

// GenesisBalances 测试账户初始余额表
func GenesisBalances() map[types.AccountID]types.Balance {
	return map[types.AccountID]types.Balance{
		Alice:   DefaultBalance,
		Bob:     DefaultBalance,
		Charlie: DefaultBalance,
		Admin:   DefaultBalance,
	}
}

// 参考验证器识别的测试证明
var (
	ValidProof         = []byte{0x01, 0xC0, 0xFF, 0xEE}
	IndeterminateProof = []byte{0x02, 0xC0, 0xFF, 0xEE}
	InvalidProof       = []byte{0x03, 0xBA, 0xD0}
)

// NewProductRegistration 创建测试产品注册参数
func NewProductRegistration(id types.ProductID) types.ProductRegistration {
	return types.ProductRegistration{
		ID:            id,
		Name:          fmt.Sprintf("product-%s", id),
		OriginCountry: "CN",
		HSCode:        "0901.11",
	}
}

// NewSubmitRequest 创建测试声明提交参数
func NewSubmitRequest(productID types.ProductID, claimID types.ClaimID, claimType types.ClaimType, proof []byte, submitter types.AccountID) types.SubmitRequest {
	return types.SubmitRequest{
		ProductID: productID,
		ClaimID:   claimID,
		Type:      claimType,
		Proof:     append([]byte(nil), proof...),
		Submitter: submitter,
	}
}
