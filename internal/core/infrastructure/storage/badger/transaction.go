package badger

import (
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v3"

	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/storage"
)

var _ storage.BadgerTransaction = (*txnAdapter)(nil)

// txnAdapter 把 badger 读写事务适配为 BadgerTransaction，并统计写入次数
type txnAdapter struct {
	txn    *badgerdb.Txn
	writes int
}

// Get 键不存在返回 nil, nil
func (t *txnAdapter) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (t *txnAdapter) Set(key, value []byte) error {
	if err := t.txn.Set(key, value); err != nil {
		if errors.Is(err, badgerdb.ErrTxnTooBig) {
			return fmt.Errorf("事务过大（已写入 %d 项）: %w", t.writes, err)
		}
		return err
	}
	t.writes++
	return nil
}

func (t *txnAdapter) Delete(key []byte) error {
	if err := t.txn.Delete(key); err != nil {
		return err
	}
	t.writes++
	return nil
}
