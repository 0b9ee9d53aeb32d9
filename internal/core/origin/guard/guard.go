// Package guard 提供原产地验证的授权守卫实现
//
// 🔐 **授权规则**
// - 人工裁决：授权验证者或管理员
// - 撤销、费用表、验证者管理：仅管理员
//
// 管理员由构造方注入，守卫本身不持有任何全局状态。
package guard

import (
	"sort"
	"sync"

	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// Guard 授权守卫实现，同时维护授权验证者集合
type Guard struct {
	admin types.AccountID

	mu        sync.RWMutex
	verifiers map[types.AccountID]struct{}
}

var _ originif.VerifierRegistry = (*Guard)(nil)

// New 创建授权守卫
func New(admin types.AccountID, verifiers []types.AccountID) *Guard {
	g := &Guard{
		admin:     admin,
		verifiers: make(map[types.AccountID]struct{}, len(verifiers)),
	}
	for _, v := range verifiers {
		if v != "" {
			g.verifiers[v] = struct{}{}
		}
	}
	return g
}

// Admin 返回管理员账户
func (g *Guard) Admin() types.AccountID {
	return g.admin
}

func (g *Guard) isAdmin(caller types.AccountID) bool {
	return caller != "" && caller == g.admin
}

// CanResolve 授权验证者或管理员可人工裁决
func (g *Guard) CanResolve(caller types.AccountID, _ *types.Product) bool {
	return g.isAdmin(caller) || g.IsAuthorizedVerifier(caller)
}

// CanRevoke 仅管理员
func (g *Guard) CanRevoke(caller types.AccountID) bool {
	return g.isAdmin(caller)
}

// CanManageFeeSchedule 仅管理员
func (g *Guard) CanManageFeeSchedule(caller types.AccountID) bool {
	return g.isAdmin(caller)
}

// CanManageVerifiers 仅管理员
func (g *Guard) CanManageVerifiers(caller types.AccountID) bool {
	return g.isAdmin(caller)
}

// IsAuthorizedVerifier 账户是否在授权验证者集合中
func (g *Guard) IsAuthorizedVerifier(account types.AccountID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.verifiers[account]
	return ok
}

// SetAuthorized 加入或移出授权验证者集合
func (g *Guard) SetAuthorized(account types.AccountID, authorized bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if authorized {
		g.verifiers[account] = struct{}{}
		return
	}
	delete(g.verifiers, account)
}

// Verifiers 返回排序后的授权验证者列表
func (g *Guard) Verifiers() []types.AccountID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]types.AccountID, 0, len(g.verifiers))
	for v := range g.verifiers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
