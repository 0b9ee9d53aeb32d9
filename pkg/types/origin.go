// Package types provides origin verification domain type definitions.
package types

import (
	"fmt"
	"strings"
)

// AccountID 账户标识（不透明字符串，CLI/API 以 base58 展示）
type AccountID string

// Balance 余额/费用数额
type Balance uint64

// BlockNumber 逻辑时钟刻度（由宿主在每个 tick 开始时提供）
type BlockNumber uint64

// ProductID 产品标识（不透明字节键）
type ProductID string

// ClaimID 声明标识（在所属产品内唯一）
type ClaimID string

// CounterpartyID 跨链对端标识
type CounterpartyID uint32

// CredentialID 凭证标识
type CredentialID string

// ============================================================================
//                              声明类型
// ============================================================================

// ClaimKind 声明类型枚举
type ClaimKind uint8

const (
	ClaimKindOriginCountry ClaimKind = iota
	ClaimKindManufacturing
	ClaimKindShipping
	ClaimKindCustoms
	ClaimKindCertification
	ClaimKindCustom
)

// ClaimType 封闭的声明类型变体，仅 Custom 携带标签
type ClaimType struct {
	Kind ClaimKind
	Tag  string
}

var (
	ClaimTypeOriginCountry = ClaimType{Kind: ClaimKindOriginCountry}
	ClaimTypeManufacturing = ClaimType{Kind: ClaimKindManufacturing}
	ClaimTypeShipping      = ClaimType{Kind: ClaimKindShipping}
	ClaimTypeCustoms       = ClaimType{Kind: ClaimKindCustoms}
	ClaimTypeCertification = ClaimType{Kind: ClaimKindCertification}
)

// CustomClaimType 构造自定义声明类型
func CustomClaimType(tag string) ClaimType {
	return ClaimType{Kind: ClaimKindCustom, Tag: tag}
}

const customPrefix = "custom:"

// String 返回声明类型的规范名称
func (t ClaimType) String() string {
	switch t.Kind {
	case ClaimKindOriginCountry:
		return "origin_country"
	case ClaimKindManufacturing:
		return "manufacturing"
	case ClaimKindShipping:
		return "shipping"
	case ClaimKindCustoms:
		return "customs"
	case ClaimKindCertification:
		return "certification"
	case ClaimKindCustom:
		return customPrefix + t.Tag
	default:
		return fmt.Sprintf("unknown(%d)", t.Kind)
	}
}

// IsOriginCountry 是否为原产国声明
func (t ClaimType) IsOriginCountry() bool {
	return t.Kind == ClaimKindOriginCountry
}

// ParseClaimType 解析声明类型名称
func ParseClaimType(s string) (ClaimType, error) {
	switch s {
	case "origin_country":
		return ClaimTypeOriginCountry, nil
	case "manufacturing":
		return ClaimTypeManufacturing, nil
	case "shipping":
		return ClaimTypeShipping, nil
	case "customs":
		return ClaimTypeCustoms, nil
	case "certification":
		return ClaimTypeCertification, nil
	}
	if strings.HasPrefix(s, customPrefix) {
		tag := strings.TrimPrefix(s, customPrefix)
		if tag == "" {
			return ClaimType{}, fmt.Errorf("%w: 自定义声明类型缺少标签", ErrInvalidClaimData)
		}
		return CustomClaimType(tag), nil
	}
	return ClaimType{}, fmt.Errorf("%w: 未知声明类型 %q", ErrInvalidClaimData, s)
}

// MarshalText 以规范名称编码（JSON 及 map 键）
func (t ClaimType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText 从规范名称解码
func (t *ClaimType) UnmarshalText(b []byte) error {
	parsed, err := ParseClaimType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ============================================================================
//                              声明状态机
// ============================================================================

// ClaimState 声明状态
type ClaimState uint8

const (
	ClaimStatePending ClaimState = iota
	ClaimStateApproved
	ClaimStateRejected
	ClaimStateFailed
	ClaimStateTimedOut
	ClaimStateRevoked
)

var claimStateNames = map[ClaimState]string{
	ClaimStatePending:  "pending",
	ClaimStateApproved: "approved",
	ClaimStateRejected: "rejected",
	ClaimStateFailed:   "failed",
	ClaimStateTimedOut: "timed_out",
	ClaimStateRevoked:  "revoked",
}

// String 返回状态名称
func (s ClaimState) String() string {
	if name, ok := claimStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", s)
}

// MarshalText 以状态名称编码
func (s ClaimState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 从状态名称解码
func (s *ClaimState) UnmarshalText(b []byte) error {
	for state, name := range claimStateNames {
		if name == string(b) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("未知声明状态: %q", string(b))
}

// ClaimStatus 声明状态及原因（Rejected/Failed/Revoked 携带原因）
type ClaimStatus struct {
	State  ClaimState `json:"state"`
	Reason string     `json:"reason,omitempty"`
}

// StatusPending 待处理
func StatusPending() ClaimStatus { return ClaimStatus{State: ClaimStatePending} }

// StatusApproved 已批准
func StatusApproved() ClaimStatus { return ClaimStatus{State: ClaimStateApproved} }

// StatusRejected 已拒绝
func StatusRejected(reason string) ClaimStatus {
	return ClaimStatus{State: ClaimStateRejected, Reason: reason}
}

// StatusFailed 验证失败（无法验证）
func StatusFailed(reason string) ClaimStatus {
	return ClaimStatus{State: ClaimStateFailed, Reason: reason}
}

// StatusTimedOut 已超时
func StatusTimedOut() ClaimStatus { return ClaimStatus{State: ClaimStateTimedOut} }

// StatusRevoked 已撤销
func StatusRevoked(reason string) ClaimStatus {
	return ClaimStatus{State: ClaimStateRevoked, Reason: reason}
}

// IsPending 是否处于待处理状态
func (s ClaimStatus) IsPending() bool { return s.State == ClaimStatePending }

// IsTerminal 是否为终态（Approved 仍可被撤销，但已不再待处理）
func (s ClaimStatus) IsTerminal() bool { return s.State != ClaimStatePending }

// CanTransitionTo 状态单调性：Pending 只能进入四个结果之一，仅 Approved 可转为 Revoked
func (s ClaimStatus) CanTransitionTo(next ClaimState) bool {
	switch s.State {
	case ClaimStatePending:
		switch next {
		case ClaimStateApproved, ClaimStateRejected, ClaimStateFailed, ClaimStateTimedOut:
			return true
		}
		return false
	case ClaimStateApproved:
		return next == ClaimStateRevoked
	default:
		return false
	}
}

// String 返回状态描述
func (s ClaimStatus) String() string {
	if s.Reason == "" {
		return s.State.String()
	}
	return fmt.Sprintf("%s(%s)", s.State, s.Reason)
}

// ============================================================================
//                              产品与声明
// ============================================================================

// Product 产品记录，永不删除，仅可停用
type Product struct {
	ID              ProductID   `json:"id"`
	Owner           AccountID   `json:"owner"`
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	OriginCountry   string      `json:"origin_country,omitempty"`
	HSCode          string      `json:"hs_code,omitempty"`
	ManufactureDate uint64      `json:"manufacture_date,omitempty"`
	Metadata        []byte      `json:"metadata,omitempty"`
	DID             string      `json:"did,omitempty"`
	OriginVerified  bool        `json:"origin_verified"`
	Active          bool        `json:"active"`
	RegisteredAt    BlockNumber `json:"registered_at"`
}

// ProductRegistration 产品注册参数
type ProductRegistration struct {
	ID              ProductID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	OriginCountry   string    `json:"origin_country,omitempty"`
	HSCode          string    `json:"hs_code,omitempty"`
	ManufactureDate uint64    `json:"manufacture_date,omitempty"`
	Metadata        []byte    `json:"metadata,omitempty"`
	DID             string    `json:"did,omitempty"`
}

// Claim 产品声明
//
// 创建后只有 Status、Verifier、VerifiedAt 会被修改。
type Claim struct {
	ID           ClaimID         `json:"id"`
	ProductID    ProductID       `json:"product_id"`
	Type         ClaimType       `json:"type"`
	Proof        []byte          `json:"proof"`
	PublicInputs []byte          `json:"public_inputs,omitempty"`
	Metadata     []byte          `json:"metadata,omitempty"`
	Timestamp    uint64          `json:"timestamp,omitempty"`
	Submitter    AccountID       `json:"submitter"`
	SubmittedAt  BlockNumber     `json:"submitted_at"`
	Fee          Balance         `json:"fee"`
	Status       ClaimStatus     `json:"status"`
	Verifier     AccountID       `json:"verifier,omitempty"`
	VerifiedAt   *BlockNumber    `json:"verified_at,omitempty"`
	IsCrossChain bool            `json:"is_cross_chain"`
	Counterparty *CounterpartyID `json:"counterparty,omitempty"`
}

// Clone 深拷贝，查询接口只返回副本
func (c *Claim) Clone() *Claim {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Proof = cloneBytes(c.Proof)
	cp.PublicInputs = cloneBytes(c.PublicInputs)
	cp.Metadata = cloneBytes(c.Metadata)
	if c.VerifiedAt != nil {
		v := *c.VerifiedAt
		cp.VerifiedAt = &v
	}
	if c.Counterparty != nil {
		v := *c.Counterparty
		cp.Counterparty = &v
	}
	return &cp
}

// Clone 深拷贝产品记录
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Metadata = cloneBytes(p.Metadata)
	return &cp
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// SubmitRequest 声明提交参数
type SubmitRequest struct {
	ProductID    ProductID `json:"product_id"`
	ClaimID      ClaimID   `json:"claim_id"`
	Type         ClaimType `json:"type"`
	Proof        []byte    `json:"proof"`
	PublicInputs []byte    `json:"public_inputs,omitempty"`
	Metadata     []byte    `json:"metadata,omitempty"`
	Timestamp    uint64    `json:"timestamp,omitempty"`
	Submitter    AccountID `json:"submitter"`
}

// PendingEntry 本地待验证条目（仅在本地声明 Pending 期间存在）
type PendingEntry struct {
	ProductID ProductID   `json:"product_id"`
	ClaimID   ClaimID     `json:"claim_id"`
	Deadline  BlockNumber `json:"deadline"`
}

// CrossChainEntry 跨链待应答条目
type CrossChainEntry struct {
	ClaimID      ClaimID        `json:"claim_id"`
	Counterparty CounterpartyID `json:"counterparty"`
	ProductID    ProductID      `json:"product_id"`
	Deadline     BlockNumber    `json:"deadline"`
}

// ============================================================================
//                              验证结果
// ============================================================================

// Verdict 验证器结论
type Verdict uint8

const (
	VerdictValid Verdict = iota
	VerdictInvalid
	VerdictIndeterminate
)

// String 返回结论名称
func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictInvalid:
		return "invalid"
	case VerdictIndeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("unknown(%d)", v)
	}
}

// VerificationOutcome 验证器输出
type VerificationOutcome struct {
	Verdict Verdict `json:"verdict"`
	Reason  string  `json:"reason,omitempty"`
}

// Valid 验证通过
func Valid() VerificationOutcome { return VerificationOutcome{Verdict: VerdictValid} }

// Invalid 验证不通过
func Invalid(reason string) VerificationOutcome {
	return VerificationOutcome{Verdict: VerdictInvalid, Reason: reason}
}

// Indeterminate 暂无结论，留待后续 tick
func Indeterminate() VerificationOutcome {
	return VerificationOutcome{Verdict: VerdictIndeterminate}
}

// TickReport 单次调度 tick 的处理统计
type TickReport struct {
	Now           BlockNumber `json:"now"`
	Examined      int         `json:"examined"`
	Approved      int         `json:"approved"`
	Rejected      int         `json:"rejected"`
	TimedOut      int         `json:"timed_out"`
	Indeterminate int         `json:"indeterminate"`
	Errors        int         `json:"errors"`
}
