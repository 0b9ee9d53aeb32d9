// Package escrow 提供内存托管账本实现
//
// 💰 **账本语义**
// - 每个账户有可用余额（free）与预留余额（reserved）
// - Reserve：free → reserved
// - Release：reserved → free（超出部分按实际预留截断）
// - Transfer：from.free → to.free
//
// 所有运算做溢出检查，失败时不修改任何余额。
package escrow

import (
	"fmt"
	"math"
	"sort"
	"sync"

	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// Ledger 内存托管账本
type Ledger struct {
	mu       sync.RWMutex
	accounts map[types.AccountID]*originif.AccountBalance
}

var _ originif.Ledger = (*Ledger)(nil)

// New 创建账本，genesis 为初始可用余额
func New(genesis map[types.AccountID]types.Balance) *Ledger {
	l := &Ledger{accounts: make(map[types.AccountID]*originif.AccountBalance, len(genesis))}
	for acc, amount := range genesis {
		l.accounts[acc] = &originif.AccountBalance{Free: amount}
	}
	return l
}

// FromConfig 从配置的账户名→余额映射创建账本
func FromConfig(genesis map[string]uint64) *Ledger {
	balances := make(map[types.AccountID]types.Balance, len(genesis))
	for acc, amount := range genesis {
		balances[types.AccountID(acc)] = types.Balance(amount)
	}
	return New(balances)
}

func (l *Ledger) account(id types.AccountID) *originif.AccountBalance {
	acc, ok := l.accounts[id]
	if !ok {
		acc = &originif.AccountBalance{}
		l.accounts[id] = acc
	}
	return acc
}

// Reserve 从可用余额预留
func (l *Ledger) Reserve(account types.AccountID, amount types.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.account(account)
	if acc.Free < amount {
		return fmt.Errorf("%w: account=%s free=%d need=%d", types.ErrInsufficientBalance, account, acc.Free, amount)
	}
	if acc.Reserved > math.MaxUint64-amount {
		return fmt.Errorf("%w: 预留余额溢出 account=%s", types.ErrFeeOverflow, account)
	}
	acc.Free -= amount
	acc.Reserved += amount
	return nil
}

// Release 退回预留余额
func (l *Ledger) Release(account types.AccountID, amount types.Balance) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.account(account)
	if amount > acc.Reserved {
		amount = acc.Reserved
	}
	acc.Reserved -= amount
	if acc.Free > math.MaxUint64-amount {
		acc.Free = math.MaxUint64
		return
	}
	acc.Free += amount
}

// Transfer 可用余额转账
func (l *Ledger) Transfer(from, to types.AccountID, amount types.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	src := l.account(from)
	if src.Free < amount {
		return fmt.Errorf("%w: account=%s free=%d need=%d", types.ErrInsufficientBalance, from, src.Free, amount)
	}
	if from == to {
		return nil
	}
	dst := l.account(to)
	if dst.Free > math.MaxUint64-amount {
		return fmt.Errorf("%w: 收款余额溢出 account=%s", types.ErrFeeOverflow, to)
	}
	src.Free -= amount
	dst.Free += amount
	return nil
}

// Balances 返回账户余额
func (l *Ledger) Balances(account types.AccountID) (free, reserved types.Balance) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if acc, ok := l.accounts[account]; ok {
		return acc.Free, acc.Reserved
	}
	return 0, 0
}

// Accounts 返回全部账户余额快照
func (l *Ledger) Accounts() map[types.AccountID]originif.AccountBalance {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[types.AccountID]originif.AccountBalance, len(l.accounts))
	for id, acc := range l.accounts {
		out[id] = *acc
	}
	return out
}

// Load 以快照覆盖账本
func (l *Ledger) Load(balances map[types.AccountID]originif.AccountBalance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts = make(map[types.AccountID]*originif.AccountBalance, len(balances))
	for id, b := range balances {
		b := b
		l.accounts[id] = &b
	}
}

// AccountIDs 返回排序后的账户列表
func (l *Ledger) AccountIDs() []types.AccountID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.AccountID, 0, len(l.accounts))
	for id := range l.accounts {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
