package origin

import (
	"sort"

	"github.com/weisyn/originverifier/pkg/types"
)

// GetProduct 返回产品副本
func (s *Service) GetProduct(id types.ProductID) (*types.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.Get(id)
}

// ListProducts 按注册顺序返回产品副本
func (s *Service) ListProducts() []*types.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.List()
}

// GetClaim 返回声明副本
func (s *Service) GetClaim(productID types.ProductID, claimID types.ClaimID) (*types.Claim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claim(productID, claimID)
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// ListClaims 按提交顺序返回产品的声明副本
func (s *Service) ListClaims(productID types.ProductID) []*types.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	book, ok := s.books[productID]
	if !ok {
		return nil
	}
	out := make([]*types.Claim, 0, len(book.order))
	for _, id := range book.order {
		out = append(out, book.byID[id].Clone())
	}
	return out
}

// PendingEntries 按处理顺序返回本地待验证条目
func (s *Service) PendingEntries() []types.PendingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.local.Values()
}

// CrossChainEntries 按截止时间返回跨链待应答条目
func (s *Service) CrossChainEntries() []types.CrossChainEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cross.Values()
}

// FeeFor 返回声明类型当前的费用
func (s *Service) FeeFor(claimType types.ClaimType, crossChain bool) (types.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeFor(claimType, crossChain)
}

// FeeSchedule 返回费用表快照（按类型名排序）
func (s *Service) FeeSchedule() []FeeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FeeEntry, 0, len(s.fees))
	for t, fee := range s.fees {
		out = append(out, FeeEntry{Type: t, Fee: fee})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type.String() < out[j].Type.String() })
	return out
}

// FeeEntry 费用表条目
type FeeEntry struct {
	Type types.ClaimType `json:"type"`
	Fee  types.Balance   `json:"fee"`
}

// Verifiers 返回授权验证者
func (s *Service) Verifiers() []types.AccountID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guard.Verifiers()
}

// IsCredentialRevoked 凭证是否已被对端撤销
func (s *Service) IsCredentialRevoked(id types.CredentialID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[id]
	return ok
}

// Balances 返回账户余额
func (s *Service) Balances(account types.AccountID) (free, reserved types.Balance) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Balances(account)
}

// Now 返回核心最近处理的刻度
func (s *Service) Now() types.BlockNumber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now
}

// Admin 返回管理员账户
func (s *Service) Admin() types.AccountID {
	return s.guard.Admin()
}
