// Package product 提供进程内产品目录实现
//
// 📦 **产品生命周期**
// - 注册后默认启用，原产地标志为 false
// - 产品永不删除，只能由所有者或管理员停用
// - 原产地标志只由验证核心在声明终态与撤销时修改
package product

import (
	"fmt"
	"sync"

	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// Directory 产品目录
type Directory struct {
	admin types.AccountID

	mu       sync.RWMutex
	products map[types.ProductID]*types.Product
	order    []types.ProductID
}

var _ originif.ProductDirectory = (*Directory)(nil)

// New 创建产品目录，admin 可停用任意产品
func New(admin types.AccountID) *Directory {
	return &Directory{
		admin:    admin,
		products: make(map[types.ProductID]*types.Product),
	}
}

// Register 注册产品
func (d *Directory) Register(owner types.AccountID, reg types.ProductRegistration, now types.BlockNumber) (*types.Product, error) {
	if reg.ID == "" {
		return nil, fmt.Errorf("%w: 产品ID为空", types.ErrInvalidClaimData)
	}
	if owner == "" {
		return nil, fmt.Errorf("%w: 产品所有者为空", types.ErrInvalidClaimData)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.products[reg.ID]; exists {
		return nil, fmt.Errorf("%w: %s", types.ErrProductAlreadyExists, reg.ID)
	}
	p := &types.Product{
		ID:              reg.ID,
		Owner:           owner,
		Name:            reg.Name,
		Description:     reg.Description,
		OriginCountry:   reg.OriginCountry,
		HSCode:          reg.HSCode,
		ManufactureDate: reg.ManufactureDate,
		Metadata:        append([]byte(nil), reg.Metadata...),
		DID:             reg.DID,
		Active:          true,
		RegisteredAt:    now,
	}
	d.products[reg.ID] = p
	d.order = append(d.order, reg.ID)
	return p.Clone(), nil
}

// Get 返回产品副本
func (d *Directory) Get(id types.ProductID) (*types.Product, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.products[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// SetActive 设置启用状态
func (d *Directory) SetActive(caller types.AccountID, id types.ProductID, active bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.products[id]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrProductNotFound, id)
	}
	if caller != p.Owner && (d.admin == "" || caller != d.admin) {
		return fmt.Errorf("%w: caller=%s product=%s", types.ErrNotProductOwner, caller, id)
	}
	p.Active = active
	return nil
}

// SetOriginVerified 设置原产地验证标志
func (d *Directory) SetOriginVerified(id types.ProductID, verified bool) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.products[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", types.ErrProductNotFound, id)
	}
	if p.OriginVerified == verified {
		return false, nil
	}
	p.OriginVerified = verified
	return true, nil
}

// List 按注册顺序返回产品副本
func (d *Directory) List() []*types.Product {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*types.Product, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.products[id].Clone())
	}
	return out
}

// Load 以快照覆盖目录，快照顺序即注册顺序
func (d *Directory) Load(products []*types.Product) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.products = make(map[types.ProductID]*types.Product, len(products))
	d.order = d.order[:0]
	for _, p := range products {
		if p == nil {
			continue
		}
		if _, dup := d.products[p.ID]; dup {
			continue
		}
		d.products[p.ID] = p.Clone()
		d.order = append(d.order, p.ID)
	}
}
