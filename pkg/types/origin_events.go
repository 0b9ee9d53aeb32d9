package types

// ============================================================================
//                              领域事件载荷
// ============================================================================

// ResolutionChannel 声明进入终态的途径
type ResolutionChannel string

const (
	ResolutionManual     ResolutionChannel = "manual"
	ResolutionAutomatic  ResolutionChannel = "automatic"
	ResolutionCrossChain ResolutionChannel = "cross_chain"
	ResolutionTimeout    ResolutionChannel = "timeout"
)

// ProductRegisteredEvent 产品注册事件
type ProductRegisteredEvent struct {
	ProductID ProductID `json:"product_id"`
	Owner     AccountID `json:"owner"`
}

// ProductActivationChangedEvent 产品启用状态变化事件
type ProductActivationChangedEvent struct {
	ProductID ProductID `json:"product_id"`
	Active    bool      `json:"active"`
}

// ProductOriginVerifiedEvent 原产地验证标志变化事件
type ProductOriginVerifiedEvent struct {
	ProductID ProductID `json:"product_id"`
	Verified  bool      `json:"verified"`
	ClaimID   ClaimID   `json:"claim_id"`
}

// ClaimSubmittedEvent 声明提交事件
type ClaimSubmittedEvent struct {
	ProductID    ProductID       `json:"product_id"`
	ClaimID      ClaimID         `json:"claim_id"`
	Type         ClaimType       `json:"type"`
	Submitter    AccountID       `json:"submitter"`
	Fee          Balance         `json:"fee"`
	Deadline     BlockNumber     `json:"deadline"`
	Counterparty *CounterpartyID `json:"counterparty,omitempty"`
}

// ClaimResolvedEvent 声明终态事件
type ClaimResolvedEvent struct {
	ProductID ProductID         `json:"product_id"`
	ClaimID   ClaimID           `json:"claim_id"`
	Outcome   ClaimStatus       `json:"outcome"`
	Channel   ResolutionChannel `json:"channel"`
	Verifier  AccountID         `json:"verifier,omitempty"`
	At        BlockNumber       `json:"at"`
}

// ClaimRevokedEvent 声明撤销事件
type ClaimRevokedEvent struct {
	ProductID ProductID `json:"product_id"`
	ClaimID   ClaimID   `json:"claim_id"`
	Reason    string    `json:"reason"`
	By        AccountID `json:"by"`
}

// VerificationTimedOutEvent 超时事件
type VerificationTimedOutEvent struct {
	ProductID  ProductID   `json:"product_id"`
	ClaimID    ClaimID     `json:"claim_id"`
	Deadline   BlockNumber `json:"deadline"`
	CrossChain bool        `json:"cross_chain"`
}

// FeePaidEvent 费用转账事件
type FeePaidEvent struct {
	ClaimID ClaimID   `json:"claim_id"`
	From    AccountID `json:"from"`
	To      AccountID `json:"to"`
	Amount  Balance   `json:"amount"`
}

// CrossChainVerificationSentEvent 跨链请求发送事件
type CrossChainVerificationSentEvent struct {
	ClaimID      ClaimID        `json:"claim_id"`
	Counterparty CounterpartyID `json:"counterparty"`
}

// CrossChainVerificationReceivedEvent 跨链应答接收事件
type CrossChainVerificationReceivedEvent struct {
	ClaimID      ClaimID        `json:"claim_id"`
	Counterparty CounterpartyID `json:"counterparty"`
	Result       RemoteResult   `json:"result"`
	Applied      bool           `json:"applied"`
}

// CredentialRevokedEvent 凭证撤销事件
type CredentialRevokedEvent struct {
	CredentialID CredentialID   `json:"credential_id"`
	Reason       string         `json:"reason"`
	From         CounterpartyID `json:"from"`
}

// VerifierAuthorizationChangedEvent 验证者授权变化事件
type VerifierAuthorizationChangedEvent struct {
	Account    AccountID `json:"account"`
	Authorized bool      `json:"authorized"`
}

// VerificationFeeUpdatedEvent 费用表更新事件
type VerificationFeeUpdatedEvent struct {
	Type ClaimType `json:"type"`
	Fee  Balance   `json:"fee"`
}
