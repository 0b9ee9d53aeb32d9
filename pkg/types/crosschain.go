package types

import "fmt"

// MessageKind 跨链消息种类
type MessageKind string

const (
	MessageVerificationRequest  MessageKind = "verification_request"
	MessageVerificationResponse MessageKind = "verification_response"
	MessageCredentialRevocation MessageKind = "credential_revocation"
)

// RemoteResultKind 对端验证结果种类
type RemoteResultKind string

const (
	RemoteSuccess    RemoteResultKind = "success"
	RemoteFailure    RemoteResultKind = "failure"
	RemotePending    RemoteResultKind = "pending"
	RemoteImpossible RemoteResultKind = "impossible"
)

// RemoteResult 对端返回的验证结果
type RemoteResult struct {
	Kind   RemoteResultKind `json:"kind"`
	Reason string           `json:"reason,omitempty"`
}

// VerificationRequest 发往对端的验证请求，携带完整声明载荷
type VerificationRequest struct {
	ClaimID      ClaimID   `json:"claim_id"`
	ProductID    ProductID `json:"product_id"`
	Type         ClaimType `json:"type"`
	Proof        []byte    `json:"proof"`
	PublicInputs []byte    `json:"public_inputs,omitempty"`
	Metadata     []byte    `json:"metadata,omitempty"`
	Timestamp    uint64    `json:"timestamp,omitempty"`
	Submitter    AccountID `json:"submitter"`
}

// VerificationResponse 对端返回的验证应答
type VerificationResponse struct {
	ClaimID ClaimID      `json:"claim_id"`
	Result  RemoteResult `json:"result"`
}

// CredentialRevocation 凭证撤销通知
type CredentialRevocation struct {
	CredentialID CredentialID `json:"credential_id"`
	Reason       string       `json:"reason,omitempty"`
}

// CrossChainMessage 跨链消息信封，按 Kind 只有一个载荷非空
type CrossChainMessage struct {
	Kind          MessageKind           `json:"kind"`
	CorrelationID string                `json:"correlation_id,omitempty"`
	Request       *VerificationRequest  `json:"request,omitempty"`
	Response      *VerificationResponse `json:"response,omitempty"`
	Revocation    *CredentialRevocation `json:"revocation,omitempty"`
}

// NewVerificationRequestMessage 构造验证请求消息
func NewVerificationRequestMessage(claim *Claim) *CrossChainMessage {
	return &CrossChainMessage{
		Kind: MessageVerificationRequest,
		Request: &VerificationRequest{
			ClaimID:      claim.ID,
			ProductID:    claim.ProductID,
			Type:         claim.Type,
			Proof:        cloneBytes(claim.Proof),
			PublicInputs: cloneBytes(claim.PublicInputs),
			Metadata:     cloneBytes(claim.Metadata),
			Timestamp:    claim.Timestamp,
			Submitter:    claim.Submitter,
		},
	}
}

// NewVerificationResponseMessage 构造验证应答消息
func NewVerificationResponseMessage(claimID ClaimID, result RemoteResult) *CrossChainMessage {
	return &CrossChainMessage{
		Kind:     MessageVerificationResponse,
		Response: &VerificationResponse{ClaimID: claimID, Result: result},
	}
}

// NewCredentialRevocationMessage 构造凭证撤销消息
func NewCredentialRevocationMessage(id CredentialID, reason string) *CrossChainMessage {
	return &CrossChainMessage{
		Kind:       MessageCredentialRevocation,
		Revocation: &CredentialRevocation{CredentialID: id, Reason: reason},
	}
}

// Validate 检查信封载荷与种类一致
func (m *CrossChainMessage) Validate() error {
	if m == nil {
		return fmt.Errorf("跨链消息为空")
	}
	switch m.Kind {
	case MessageVerificationRequest:
		if m.Request == nil {
			return fmt.Errorf("验证请求缺少载荷")
		}
	case MessageVerificationResponse:
		if m.Response == nil {
			return fmt.Errorf("验证应答缺少载荷")
		}
	case MessageCredentialRevocation:
		if m.Revocation == nil {
			return fmt.Errorf("凭证撤销缺少载荷")
		}
	default:
		return fmt.Errorf("未知跨链消息种类: %q", m.Kind)
	}
	return nil
}

// RemoteResultFromOutcome 将本地验证结论映射为对端应答结果
func RemoteResultFromOutcome(o VerificationOutcome) RemoteResult {
	switch o.Verdict {
	case VerdictValid:
		return RemoteResult{Kind: RemoteSuccess}
	case VerdictInvalid:
		return RemoteResult{Kind: RemoteFailure, Reason: o.Reason}
	default:
		return RemoteResult{Kind: RemotePending}
	}
}
