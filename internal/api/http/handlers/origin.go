package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/weisyn/originverifier/internal/api/format"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// OriginHandlers 原产地验证API处理器
type OriginHandlers struct {
	service originif.Service
	logger  *zap.Logger
}

// NewOriginHandlers 创建原产地验证API处理器
func NewOriginHandlers(service originif.Service, logger *zap.Logger) *OriginHandlers {
	return &OriginHandlers{service: service, logger: logger}
}

// RegisterRoutes 注册原产地验证路由
func (h *OriginHandlers) RegisterRoutes(r *gin.RouterGroup) {
	products := r.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.POST("", h.RegisterProduct)
		products.GET("/:id", h.GetProduct)
		products.POST("/:id/active", h.SetProductActive)
		products.GET("/:id/claims", h.ListClaims)
		products.POST("/:id/claims", h.SubmitClaim)
		products.GET("/:id/claims/:claim", h.GetClaim)
		products.POST("/:id/claims/:claim/resolve", h.ResolveClaim)
		products.POST("/:id/claims/:claim/revoke", h.RevokeClaim)
	}

	r.GET("/pending", h.ListPending)
	r.GET("/fees/:type", h.GetFee)
	r.GET("/accounts/:account", h.GetAccount)

	admin := r.Group("/admin")
	{
		admin.POST("/verifiers", h.SetVerifier)
		admin.GET("/verifiers", h.ListVerifiers)
		admin.PUT("/fees", h.UpdateFee)
	}
}

// ==================== 请求结构 ====================

// SubmitClaimRequest 声明提交请求，proof 等字节字段使用 base64
type SubmitClaimRequest struct {
	ClaimID      types.ClaimID         `json:"claim_id" binding:"required"`
	Type         string                `json:"type" binding:"required"`
	Proof        []byte                `json:"proof"`
	PublicInputs []byte                `json:"public_inputs,omitempty"`
	Metadata     []byte                `json:"metadata,omitempty"`
	Timestamp    uint64                `json:"timestamp,omitempty"`
	Counterparty *types.CounterpartyID `json:"counterparty,omitempty"` // 非空时走跨链
}

// ResolveClaimRequest 人工裁决请求
type ResolveClaimRequest struct {
	Outcome string `json:"outcome" binding:"required"` // approved | rejected | failed
	Reason  string `json:"reason,omitempty"`
}

// RevokeClaimRequest 撤销请求
type RevokeClaimRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SetActiveRequest 产品启停请求
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// SetVerifierRequest 验证者授权请求
type SetVerifierRequest struct {
	Account    string `json:"account" binding:"required"`
	Authorized bool   `json:"authorized"`
}

// UpdateFeeRequest 费用更新请求
type UpdateFeeRequest struct {
	Type string        `json:"type" binding:"required"`
	Fee  types.Balance `json:"fee"`
}

// PendingView 待处理条目视图
type PendingView struct {
	Now        types.BlockNumber       `json:"now"`
	Local      []types.PendingEntry    `json:"local"`
	CrossChain []types.CrossChainEntry `json:"cross_chain"`
}

// AccountView 账户余额视图
type AccountView struct {
	Account  types.AccountID `json:"account"`
	Base58   string          `json:"account_b58"`
	Free     types.Balance   `json:"free"`
	Reserved types.Balance   `json:"reserved"`
	Verifier bool            `json:"verifier"`
}

// ==================== 产品 ====================

// ListProducts GET /v1/products
func (h *OriginHandlers) ListProducts(c *gin.Context) {
	respondOK(c, http.StatusOK, h.service.ListProducts(), "")
}

// GetProduct GET /v1/products/:id
func (h *OriginHandlers) GetProduct(c *gin.Context) {
	p, ok := h.service.GetProduct(types.ProductID(c.Param("id")))
	if !ok {
		respondDomainError(c, types.ErrProductNotFound)
		return
	}
	respondOK(c, http.StatusOK, p, "")
}

// RegisterProduct POST /v1/products，调用方成为产品所有者
func (h *OriginHandlers) RegisterProduct(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req types.ProductRegistration
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.service.RegisterProduct(c.Request.Context(), caller, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, p, "产品已注册")
}

// SetProductActive POST /v1/products/:id/active
func (h *OriginHandlers) SetProductActive(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	id := types.ProductID(c.Param("id"))
	if err := h.service.SetProductActive(c.Request.Context(), caller, id, req.Active); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"product_id": id, "active": req.Active}, "")
}

// ==================== 声明 ====================

// ListClaims GET /v1/products/:id/claims
func (h *OriginHandlers) ListClaims(c *gin.Context) {
	id := types.ProductID(c.Param("id"))
	if _, ok := h.service.GetProduct(id); !ok {
		respondDomainError(c, types.ErrProductNotFound)
		return
	}
	respondOK(c, http.StatusOK, h.service.ListClaims(id), "")
}

// GetClaim GET /v1/products/:id/claims/:claim
func (h *OriginHandlers) GetClaim(c *gin.Context) {
	claim, ok := h.service.GetClaim(types.ProductID(c.Param("id")), types.ClaimID(c.Param("claim")))
	if !ok {
		respondDomainError(c, types.ErrClaimNotFound)
		return
	}
	respondOK(c, http.StatusOK, claim, "")
}

// SubmitClaim POST /v1/products/:id/claims，调用方为提交者
func (h *OriginHandlers) SubmitClaim(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var body SubmitClaimRequest
	if !bindJSON(c, &body) {
		return
	}
	claimType, err := types.ParseClaimType(body.Type)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	req := types.SubmitRequest{
		ProductID:    types.ProductID(c.Param("id")),
		ClaimID:      body.ClaimID,
		Type:         claimType,
		Proof:        body.Proof,
		PublicInputs: body.PublicInputs,
		Metadata:     body.Metadata,
		Timestamp:    body.Timestamp,
		Submitter:    caller,
	}

	var id types.ClaimID
	if body.Counterparty != nil {
		id, err = h.service.SubmitCrossChain(c.Request.Context(), *body.Counterparty, req)
	} else {
		id, err = h.service.Submit(c.Request.Context(), req)
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}
	claim, _ := h.service.GetClaim(req.ProductID, id)
	respondOK(c, http.StatusCreated, claim, "声明已提交")
}

// ResolveClaim POST /v1/products/:id/claims/:claim/resolve
func (h *OriginHandlers) ResolveClaim(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var body ResolveClaimRequest
	if !bindJSON(c, &body) {
		return
	}
	outcome, ok := parseOutcome(body.Outcome, body.Reason)
	if !ok {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidParameter, "outcome 须为 approved/rejected/failed", body.Outcome)
		return
	}
	productID, claimID := types.ProductID(c.Param("id")), types.ClaimID(c.Param("claim"))
	if err := h.service.Resolve(c.Request.Context(), productID, claimID, outcome, caller); err != nil {
		respondDomainError(c, err)
		return
	}
	claim, _ := h.service.GetClaim(productID, claimID)
	respondOK(c, http.StatusOK, claim, "声明已裁决")
}

// RevokeClaim POST /v1/products/:id/claims/:claim/revoke
func (h *OriginHandlers) RevokeClaim(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var body RevokeClaimRequest
	if !bindJSON(c, &body) {
		return
	}
	productID, claimID := types.ProductID(c.Param("id")), types.ClaimID(c.Param("claim"))
	if err := h.service.Revoke(c.Request.Context(), productID, claimID, body.Reason, caller); err != nil {
		respondDomainError(c, err)
		return
	}
	claim, _ := h.service.GetClaim(productID, claimID)
	respondOK(c, http.StatusOK, claim, "声明已撤销")
}

// ListPending GET /v1/pending
func (h *OriginHandlers) ListPending(c *gin.Context) {
	respondOK(c, http.StatusOK, PendingView{
		Now:        h.service.Now(),
		Local:      h.service.PendingEntries(),
		CrossChain: h.service.CrossChainEntries(),
	}, "")
}

// GetFee GET /v1/fees/:type?cross_chain=true
func (h *OriginHandlers) GetFee(c *gin.Context) {
	claimType, err := types.ParseClaimType(c.Param("type"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	cross, _ := strconv.ParseBool(c.DefaultQuery("cross_chain", "false"))
	fee, err := h.service.FeeFor(claimType, cross)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"type": claimType, "cross_chain": cross, "fee": fee}, "")
}

// GetAccount GET /v1/accounts/:account，账户可用原文或 b58: 写法
func (h *OriginHandlers) GetAccount(c *gin.Context) {
	account, err := format.ParseAccount(c.Param("account"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidParameter, "无效的账户标识", err.Error())
		return
	}
	free, reserved := h.service.Balances(account)
	respondOK(c, http.StatusOK, AccountView{
		Account:  account,
		Base58:   format.AccountToBase58(account),
		Free:     free,
		Reserved: reserved,
		Verifier: containsAccount(h.service.Verifiers(), account),
	}, "")
}

// ==================== 管理 ====================

// SetVerifier POST /v1/admin/verifiers
func (h *OriginHandlers) SetVerifier(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var body SetVerifierRequest
	if !bindJSON(c, &body) {
		return
	}
	account, err := format.ParseAccount(body.Account)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidParameter, "无效的账户标识", err.Error())
		return
	}
	if err := h.service.SetVerifierAuthorization(c.Request.Context(), caller, account, body.Authorized); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"verifiers": h.service.Verifiers()}, "")
}

// ListVerifiers GET /v1/admin/verifiers
func (h *OriginHandlers) ListVerifiers(c *gin.Context) {
	respondOK(c, http.StatusOK, h.service.Verifiers(), "")
}

// UpdateFee PUT /v1/admin/fees
func (h *OriginHandlers) UpdateFee(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var body UpdateFeeRequest
	if !bindJSON(c, &body) {
		return
	}
	claimType, err := types.ParseClaimType(body.Type)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if err := h.service.UpdateVerificationFee(c.Request.Context(), caller, claimType, body.Fee); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"type": claimType, "fee": body.Fee}, "费用已更新")
}

func parseOutcome(outcome, reason string) (types.ClaimStatus, bool) {
	switch strings.ToLower(outcome) {
	case "approved":
		return types.StatusApproved(), true
	case "rejected":
		return types.StatusRejected(reason), true
	case "failed":
		return types.StatusFailed(reason), true
	default:
		return types.ClaimStatus{}, false
	}
}

func containsAccount(list []types.AccountID, id types.AccountID) bool {
	for _, a := range list {
		if a == id {
			return true
		}
	}
	return false
}
