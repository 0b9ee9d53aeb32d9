package verifier

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	"golang.org/x/crypto/blake2b"

	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/originverifier/pkg/types"
)

// CachedVerifier 缓存确定性结论（Valid/Invalid）的验证器
//
// Indeterminate 不缓存，下个 tick 会重新交给内层验证器。
type CachedVerifier struct {
	inner  originif.ClaimVerifier
	cache  *bigcache.BigCache
	logger log.Logger
}

var _ originif.ClaimVerifier = (*CachedVerifier)(nil)

// NewCachedVerifier 创建带缓存的验证器，maxMB 为缓存上限
func NewCachedVerifier(inner originif.ClaimVerifier, maxMB int, logger log.Logger) (*CachedVerifier, error) {
	if logger == nil {
		logger = log.Nop()
	}
	cfg := bigcache.DefaultConfig(24 * time.Hour)
	cfg.Shards = 64
	cfg.MaxEntriesInWindow = 10 * 1024
	cfg.MaxEntrySize = 256
	cfg.HardMaxCacheSize = maxMB
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return &CachedVerifier{inner: inner, cache: cache, logger: logger}, nil
}

// cacheKey 声明类型、证明、公开输入的 blake2b 摘要
//
// 每个字段前写入 8 字节长度，字段边界不可移动。
func cacheKey(claimType types.ClaimType, proof, publicInputs []byte) string {
	h, _ := blake2b.New256(nil)
	var lenBuf [8]byte
	for _, field := range [][]byte{[]byte(claimType.String()), proof, publicInputs} {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(field)))
		h.Write(lenBuf[:])
		h.Write(field)
	}
	return string(h.Sum(nil))
}

// Evaluate 实现 ClaimVerifier
func (c *CachedVerifier) Evaluate(claimType types.ClaimType, proof, publicInputs []byte) types.VerificationOutcome {
	key := cacheKey(claimType, proof, publicInputs)
	if data, err := c.cache.Get(key); err == nil && len(data) > 0 {
		return types.VerificationOutcome{Verdict: types.Verdict(data[0]), Reason: string(data[1:])}
	} else if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		c.logger.Warnf("读取验证结果缓存失败: %v", err)
	}

	outcome := c.inner.Evaluate(claimType, proof, publicInputs)
	if outcome.Verdict == types.VerdictIndeterminate {
		return outcome
	}
	entry := append([]byte{byte(outcome.Verdict)}, outcome.Reason...)
	if err := c.cache.Set(key, entry); err != nil {
		c.logger.Warnf("写入验证结果缓存失败: %v", err)
	}
	return outcome
}

// Len 缓存条目数
func (c *CachedVerifier) Len() int {
	return c.cache.Len()
}

// Close 释放缓存
func (c *CachedVerifier) Close() error {
	return c.cache.Close()
}
