package origin

import "github.com/weisyn/originverifier/pkg/types"

// ProductDirectory 产品目录
//
// 产品永不删除，只能停用。OriginVerified 只由验证核心的终态逻辑修改。
type ProductDirectory interface {
	// Register 注册产品，重复 ID 返回 ErrProductAlreadyExists
	Register(owner types.AccountID, reg types.ProductRegistration, now types.BlockNumber) (*types.Product, error)

	// Get 返回产品副本
	Get(id types.ProductID) (*types.Product, bool)

	// SetActive 设置启用状态，仅所有者或管理员可调用
	SetActive(caller types.AccountID, id types.ProductID, active bool) error

	// SetOriginVerified 设置原产地验证标志，返回是否发生变化
	SetOriginVerified(id types.ProductID, verified bool) (bool, error)

	// List 按注册顺序返回全部产品副本
	List() []*types.Product

	// Load 以快照覆盖目录（启动恢复）
	Load(products []*types.Product)
}
