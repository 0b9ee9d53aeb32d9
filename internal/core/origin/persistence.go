package origin

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/storage"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// ============================================================================
//                              状态镜像
// ============================================================================
//
// 内存状态是权威来源；每次操作提交后把变更写入 Badger，启动时由 Restore 重建。
// 键格式：{prefix}{blake2_128(id)}{id}，值为 JSON。

const (
	prefixProduct    = "ov/p/"
	prefixClaim      = "ov/c/"
	prefixLocal      = "ov/l/"
	prefixCross      = "ov/x/"
	prefixAccount    = "ov/a/"
	prefixFee        = "ov/f/"
	prefixVerifier   = "ov/v/"
	prefixCredential = "ov/r/"
	prefixMeta       = "ov/m/"
)

const keySeparator = "\x00"

var metaStateKey = storageKey(prefixMeta, "state")

// storageKey 拼接存储键
func storageKey(prefix string, parts ...string) []byte {
	id := strings.Join(parts, keySeparator)
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(id))
	key := make([]byte, 0, len(prefix)+16+len(id))
	key = append(key, prefix...)
	key = h.Sum(key)
	return append(key, id...)
}

type storedProduct struct {
	Order   uint64         `json:"order"`
	Product *types.Product `json:"product"`
}

type storedClaim struct {
	Index int          `json:"index"`
	Claim *types.Claim `json:"claim"`
}

type storedPending struct {
	Seq   uint64             `json:"seq"`
	Entry types.PendingEntry `json:"entry"`
}

type storedCrossChain struct {
	Seq   uint64                `json:"seq"`
	Entry types.CrossChainEntry `json:"entry"`
}

type storedAccount struct {
	Account types.AccountID         `json:"account"`
	Balance originif.AccountBalance `json:"balance"`
}

type storedFee struct {
	Type types.ClaimType `json:"type"`
	Fee  types.Balance   `json:"fee"`
}

type storedCredential struct {
	ID     types.CredentialID `json:"id"`
	Reason string             `json:"reason"`
}

type storedMeta struct {
	Now          types.BlockNumber `json:"now"`
	Seq          uint64            `json:"seq"`
	ProductOrder uint64            `json:"product_order"`
}

// changeSet 单次操作触及的对象
type changeSet struct {
	products    map[types.ProductID]struct{}
	claims      map[claimKey]struct{}
	local       map[claimKey]struct{}
	cross       map[types.ClaimID]struct{}
	accounts    map[types.AccountID]struct{}
	fees        map[types.ClaimType]struct{}
	verifiers   map[types.AccountID]struct{}
	credentials map[types.CredentialID]struct{}
	metaDirty   bool
}

func newChangeSet() *changeSet {
	return &changeSet{
		products:    make(map[types.ProductID]struct{}),
		claims:      make(map[claimKey]struct{}),
		local:       make(map[claimKey]struct{}),
		cross:       make(map[types.ClaimID]struct{}),
		accounts:    make(map[types.AccountID]struct{}),
		fees:        make(map[types.ClaimType]struct{}),
		verifiers:   make(map[types.AccountID]struct{}),
		credentials: make(map[types.CredentialID]struct{}),
	}
}

func (c *changeSet) product(id types.ProductID) {
	c.products[id] = struct{}{}
	c.metaDirty = true
}

func (c *changeSet) localEntry(key claimKey) {
	c.local[key] = struct{}{}
	c.metaDirty = true
}

func (c *changeSet) crossEntry(id types.ClaimID) {
	c.cross[id] = struct{}{}
	c.metaDirty = true
}

func (c *changeSet) claim(key claimKey)               { c.claims[key] = struct{}{} }
func (c *changeSet) account(id types.AccountID)       { c.accounts[id] = struct{}{} }
func (c *changeSet) fee(t types.ClaimType)            { c.fees[t] = struct{}{} }
func (c *changeSet) verifier(id types.AccountID)      { c.verifiers[id] = struct{}{} }
func (c *changeSet) credential(id types.CredentialID) { c.credentials[id] = struct{}{} }
func (c *changeSet) meta()                            { c.metaDirty = true }

func (c *changeSet) empty() bool {
	return len(c.products) == 0 && len(c.claims) == 0 && len(c.local) == 0 && len(c.cross) == 0 &&
		len(c.accounts) == 0 && len(c.fees) == 0 && len(c.verifiers) == 0 && len(c.credentials) == 0 && !c.metaDirty
}

// flush 把变更写入存储，失败只记录日志与指标
func (s *Service) flush(ctx context.Context, cs *changeSet) {
	if s.store == nil || cs.empty() {
		return
	}
	err := s.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		return s.writeChanges(tx, cs)
	})
	if err != nil {
		persistenceFailuresTotal.Inc()
		s.logger.Errorf("写入状态镜像失败: %v", err)
	}
}

func putJSON(tx storage.BadgerTransaction, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	return tx.Set(key, data)
}

func (s *Service) writeChanges(tx storage.BadgerTransaction, cs *changeSet) error {
	for id := range cs.products {
		p, ok := s.products.Get(id)
		if !ok {
			continue
		}
		if err := putJSON(tx, storageKey(prefixProduct, string(id)), storedProduct{Order: s.productSeq[id], Product: p}); err != nil {
			return err
		}
	}
	for key := range cs.claims {
		book, ok := s.books[key.product]
		if !ok {
			continue
		}
		c, ok := book.byID[key.claim]
		if !ok {
			continue
		}
		index := 0
		for i, id := range book.order {
			if id == key.claim {
				index = i
				break
			}
		}
		if err := putJSON(tx, storageKey(prefixClaim, string(key.product), string(key.claim)), storedClaim{Index: index, Claim: c}); err != nil {
			return err
		}
	}
	for key := range cs.local {
		k := storageKey(prefixLocal, string(key.product), string(key.claim))
		entry, ok := s.local.Get(key)
		if !ok {
			if err := tx.Delete(k); err != nil {
				return err
			}
			continue
		}
		seq, _ := s.local.Seq(key)
		if err := putJSON(tx, k, storedPending{Seq: seq, Entry: entry}); err != nil {
			return err
		}
	}
	for id := range cs.cross {
		k := storageKey(prefixCross, string(id))
		entry, ok := s.cross.Get(id)
		if !ok {
			if err := tx.Delete(k); err != nil {
				return err
			}
			continue
		}
		seq, _ := s.cross.Seq(id)
		if err := putJSON(tx, k, storedCrossChain{Seq: seq, Entry: entry}); err != nil {
			return err
		}
	}
	if len(cs.accounts) > 0 {
		snapshot := s.ledger.Accounts()
		for id := range cs.accounts {
			if err := putJSON(tx, storageKey(prefixAccount, string(id)), storedAccount{Account: id, Balance: snapshot[id]}); err != nil {
				return err
			}
		}
	}
	for t := range cs.fees {
		if err := putJSON(tx, storageKey(prefixFee, t.String()), storedFee{Type: t, Fee: s.fees[t]}); err != nil {
			return err
		}
	}
	for id := range cs.verifiers {
		k := storageKey(prefixVerifier, string(id))
		if !s.guard.IsAuthorizedVerifier(id) {
			if err := tx.Delete(k); err != nil {
				return err
			}
			continue
		}
		if err := tx.Set(k, []byte(id)); err != nil {
			return err
		}
	}
	for id := range cs.credentials {
		if err := putJSON(tx, storageKey(prefixCredential, string(id)), storedCredential{ID: id, Reason: s.revoked[id]}); err != nil {
			return err
		}
	}
	if cs.metaDirty {
		return putJSON(tx, metaStateKey, storedMeta{Now: s.now, Seq: s.seq, ProductOrder: s.productOrder})
	}
	return nil
}

// snapshotChanges 把当前全部状态标记为变更（首次启动写入完整镜像）
func (s *Service) snapshotChanges() *changeSet {
	cs := newChangeSet()
	for _, p := range s.products.List() {
		cs.product(p.ID)
	}
	for pid, book := range s.books {
		for _, cid := range book.order {
			cs.claim(claimKey{product: pid, claim: cid})
		}
	}
	for _, it := range s.local.Items() {
		cs.localEntry(it.key)
	}
	for _, it := range s.cross.Items() {
		cs.crossEntry(it.key)
	}
	for id := range s.ledger.Accounts() {
		cs.account(id)
	}
	for t := range s.fees {
		cs.fee(t)
	}
	for _, v := range s.guard.Verifiers() {
		cs.verifier(v)
	}
	for id := range s.revoked {
		cs.credential(id)
	}
	cs.meta()
	return cs
}

// Restore 从存储重建状态
//
// 存储中没有镜像时写入当前（配置初始化的）完整状态；否则镜像覆盖内存状态。
func (s *Service) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	metaData, err := s.store.Get(ctx, metaStateKey)
	if err != nil {
		return fmt.Errorf("读取状态元数据失败: %w", err)
	}
	if metaData == nil {
		cs := s.snapshotChanges()
		if err := s.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
			return s.writeChanges(tx, cs)
		}); err != nil {
			return fmt.Errorf("写入初始状态镜像失败: %w", err)
		}
		s.logger.Info("未发现状态镜像，已写入初始状态")
		return nil
	}

	var meta storedMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return fmt.Errorf("解析状态元数据失败: %w", err)
	}

	if err := s.restoreProducts(ctx); err != nil {
		return err
	}
	if err := s.restoreClaims(ctx); err != nil {
		return err
	}
	if err := s.restoreQueues(ctx); err != nil {
		return err
	}
	if err := s.restoreAccounts(ctx); err != nil {
		return err
	}
	if err := s.restoreAdmin(ctx); err != nil {
		return err
	}

	s.now = meta.Now
	s.seq = meta.Seq
	s.productOrder = meta.ProductOrder
	pendingLocalGauge.Set(float64(s.local.Len()))
	pendingCrossChainGauge.Set(float64(s.cross.Len()))
	s.logger.Infof("状态镜像已恢复: now=%d products=%d pending=%d cross_chain=%d",
		s.now, len(s.productSeq), s.local.Len(), s.cross.Len())
	return nil
}

func scanJSON[T any](ctx context.Context, store storage.BadgerStore, prefix string) ([]T, error) {
	raw, err := store.PrefixScan(ctx, []byte(prefix))
	if err != nil {
		return nil, fmt.Errorf("扫描 %s 失败: %w", prefix, err)
	}
	out := make([]T, 0, len(raw))
	for k, v := range raw {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return nil, fmt.Errorf("解析 %q 失败: %w", k, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Service) restoreProducts(ctx context.Context) error {
	stored, err := scanJSON[storedProduct](ctx, s.store, prefixProduct)
	if err != nil {
		return err
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].Order < stored[j].Order })
	products := make([]*types.Product, 0, len(stored))
	s.productSeq = make(map[types.ProductID]uint64, len(stored))
	for _, sp := range stored {
		if sp.Product == nil {
			continue
		}
		products = append(products, sp.Product)
		s.productSeq[sp.Product.ID] = sp.Order
	}
	s.products.Load(products)
	return nil
}

func (s *Service) restoreClaims(ctx context.Context) error {
	all, err := scanJSON[storedClaim](ctx, s.store, prefixClaim)
	if err != nil {
		return err
	}
	stored := all[:0]
	for _, sc := range all {
		if sc.Claim != nil {
			stored = append(stored, sc)
		}
	}
	sort.Slice(stored, func(i, j int) bool {
		if stored[i].Claim.ProductID != stored[j].Claim.ProductID {
			return stored[i].Claim.ProductID < stored[j].Claim.ProductID
		}
		return stored[i].Index < stored[j].Index
	})
	s.books = make(map[types.ProductID]*claimBook)
	s.crossIssued = make(map[types.ClaimID]types.ProductID)
	for _, sc := range stored {
		book, ok := s.books[sc.Claim.ProductID]
		if !ok {
			book = newClaimBook()
			s.books[sc.Claim.ProductID] = book
		}
		book.append(sc.Claim)
		if sc.Claim.IsCrossChain {
			s.crossIssued[sc.Claim.ID] = sc.Claim.ProductID
		}
	}
	return nil
}

func (s *Service) restoreQueues(ctx context.Context) error {
	local, err := scanJSON[storedPending](ctx, s.store, prefixLocal)
	if err != nil {
		return err
	}
	sort.Slice(local, func(i, j int) bool { return local[i].Seq < local[j].Seq })
	s.local.Reset()
	for _, sp := range local {
		s.local.PushBack(claimKey{product: sp.Entry.ProductID, claim: sp.Entry.ClaimID}, sp.Entry, sp.Seq)
	}

	cross, err := scanJSON[storedCrossChain](ctx, s.store, prefixCross)
	if err != nil {
		return err
	}
	sort.Slice(cross, func(i, j int) bool { return cross[i].Seq < cross[j].Seq })
	s.cross.Reset()
	for _, sc := range cross {
		s.cross.InsertOrdered(sc.Entry.ClaimID, sc.Entry, sc.Seq, crossChainLess)
	}
	return nil
}

func (s *Service) restoreAccounts(ctx context.Context) error {
	stored, err := scanJSON[storedAccount](ctx, s.store, prefixAccount)
	if err != nil {
		return err
	}
	balances := make(map[types.AccountID]originif.AccountBalance, len(stored))
	for _, sa := range stored {
		balances[sa.Account] = sa.Balance
	}
	s.ledger.Load(balances)
	return nil
}

func (s *Service) restoreAdmin(ctx context.Context) error {
	fees, err := scanJSON[storedFee](ctx, s.store, prefixFee)
	if err != nil {
		return err
	}
	for _, f := range fees {
		s.fees[f.Type] = f.Fee
	}

	raw, err := s.store.PrefixScan(ctx, []byte(prefixVerifier))
	if err != nil {
		return fmt.Errorf("扫描验证者失败: %w", err)
	}
	stored := make(map[types.AccountID]struct{}, len(raw))
	for _, v := range raw {
		stored[types.AccountID(v)] = struct{}{}
	}
	for _, v := range s.guard.Verifiers() {
		if _, ok := stored[v]; !ok {
			s.guard.SetAuthorized(v, false)
		}
	}
	for v := range stored {
		s.guard.SetAuthorized(v, true)
	}

	creds, err := scanJSON[storedCredential](ctx, s.store, prefixCredential)
	if err != nil {
		return err
	}
	s.revoked = make(map[types.CredentialID]string, len(creds))
	for _, c := range creds {
		s.revoked[c.ID] = c.Reason
	}
	return nil
}

// Mirror 状态镜像的只读视图（离线查看用）
type Mirror struct {
	Now      types.BlockNumber
	Products []*types.Product
	Claims   map[types.ProductID][]*types.Claim
	Accounts map[types.AccountID]originif.AccountBalance
}

// ReadMirror 从存储读取镜像，不需要运行中的服务；无镜像时返回 nil
func ReadMirror(ctx context.Context, store storage.BadgerStore) (*Mirror, error) {
	metaData, err := store.Get(ctx, metaStateKey)
	if err != nil {
		return nil, fmt.Errorf("读取状态元数据失败: %w", err)
	}
	if metaData == nil {
		return nil, nil
	}
	var meta storedMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, fmt.Errorf("解析状态元数据失败: %w", err)
	}

	products, err := scanJSON[storedProduct](ctx, store, prefixProduct)
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Order < products[j].Order })

	claims, err := scanJSON[storedClaim](ctx, store, prefixClaim)
	if err != nil {
		return nil, err
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].Index < claims[j].Index })

	accounts, err := scanJSON[storedAccount](ctx, store, prefixAccount)
	if err != nil {
		return nil, err
	}

	m := &Mirror{
		Now:      meta.Now,
		Claims:   make(map[types.ProductID][]*types.Claim),
		Accounts: make(map[types.AccountID]originif.AccountBalance, len(accounts)),
	}
	for _, sp := range products {
		if sp.Product != nil {
			m.Products = append(m.Products, sp.Product)
		}
	}
	for _, sc := range claims {
		if sc.Claim != nil {
			m.Claims[sc.Claim.ProductID] = append(m.Claims[sc.Claim.ProductID], sc.Claim)
		}
	}
	for _, sa := range accounts {
		m.Accounts[sa.Account] = sa.Balance
	}
	return m, nil
}
