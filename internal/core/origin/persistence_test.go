package origin

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/originverifier/internal/core/origin/testutil"
	"github.com/weisyn/originverifier/pkg/types"
)

func TestStorageKey_Layout(t *testing.T) {
	k1 := storageKey(prefixClaim, "P1", "C1")
	k2 := storageKey(prefixClaim, "P1", "C2")
	k3 := storageKey(prefixClaim, "P1C", "1")

	assert.True(t, bytes.HasPrefix(k1, []byte(prefixClaim)))
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3, "分隔符防止拼接碰撞")
	assert.Equal(t, k1, storageKey(prefixClaim, "P1", "C1"))
}

// TestRestore_RoundTrip 镜像写入后由新实例完整恢复
func TestRestore_RoundTrip(t *testing.T) {
	first := newTestEnv(t)
	require.NoError(t, first.svc.Restore(first.ctx))

	first.registerProduct(t, "P1")
	first.registerProduct(t, "P2")
	first.submit(t, "P1", "A", types.ClaimTypeOriginCountry, testutil.ValidProof)
	first.submit(t, "P1", "B", types.ClaimTypeShipping, testutil.IndeterminateProof)
	first.submit(t, "P2", "C", types.ClaimTypeCustoms, testutil.IndeterminateProof)
	_, err := first.svc.SubmitCrossChain(first.ctx, 200, testutil.NewSubmitRequest("P2", "X", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
	require.NoError(t, err)
	first.tick(3)
	require.NoError(t, first.svc.UpdateVerificationFee(first.ctx, testutil.Admin, types.ClaimTypeShipping, 7))
	require.NoError(t, first.svc.SetVerifierAuthorization(first.ctx, testutil.Admin, testutil.Charlie, true))
	require.NoError(t, first.svc.SetVerifierAuthorization(first.ctx, testutil.Admin, testutil.Bob, false))
	first.svc.HandleMessage(first.ctx, 200, types.NewCredentialRevocationMessage("cred-9", "leaked"))

	second := newTestEnv(t, withStore(first.store), withBalances(map[types.AccountID]types.Balance{}))
	require.NoError(t, second.svc.Restore(second.ctx))

	assert.Equal(t, types.BlockNumber(3), second.svc.Now())
	assert.Equal(t, first.svc.ListProducts(), second.svc.ListProducts())
	assert.Equal(t, first.svc.ListClaims("P1"), second.svc.ListClaims("P1"))
	assert.Equal(t, first.svc.ListClaims("P2"), second.svc.ListClaims("P2"))
	assert.Equal(t, first.svc.PendingEntries(), second.svc.PendingEntries())
	assert.Equal(t, first.svc.CrossChainEntries(), second.svc.CrossChainEntries())
	assert.Equal(t, first.svc.FeeSchedule(), second.svc.FeeSchedule())
	assert.Equal(t, []types.AccountID{testutil.Charlie}, second.svc.Verifiers())
	assert.True(t, second.svc.IsCredentialRevoked("cred-9"))
	for _, acc := range []types.AccountID{testutil.Alice, testutil.Bob, testutil.Admin} {
		f1, r1 := first.svc.Balances(acc)
		f2, r2 := second.svc.Balances(acc)
		assert.Equal(t, f1, f2, "free %s", acc)
		assert.Equal(t, r1, r2, "reserved %s", acc)
	}

	t.Run("恢复后继续处理", func(t *testing.T) {
		require.NoError(t, second.svc.Resolve(second.ctx, "P1", "B", types.StatusApproved(), testutil.Charlie))
		require.ErrorIs(t, second.svc.Resolve(second.ctx, "P2", "C", types.StatusApproved(), testutil.Bob), types.ErrNotAuthorizedVerifier)

		second.svc.HandleMessage(second.ctx, 200, response("X", types.RemoteSuccess, ""))
		assert.Equal(t, types.StatusApproved(), second.status(t, "P2", "X"))
		assert.Len(t, second.svc.PendingEntries(), 1)

		_, err := second.svc.Submit(second.ctx, testutil.NewSubmitRequest("P1", "A", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
		require.ErrorIs(t, err, types.ErrClaimIdAlreadyExists)
	})
}

// TestRestore_EmptyStoreWritesSnapshot 空存储时写入初始状态
func TestRestore_EmptyStoreWritesSnapshot(t *testing.T) {
	env := newTestEnv(t)
	require.Empty(t, env.store.Keys())

	require.NoError(t, env.svc.Restore(env.ctx))
	assert.NotEmpty(t, env.store.Keys())

	data, err := env.store.Get(env.ctx, metaStateKey)
	require.NoError(t, err)
	assert.NotNil(t, data)
}

// TestFlush_FailureDoesNotFailOperation 镜像写入失败不影响内存操作结果
func TestFlush_FailureDoesNotFailOperation(t *testing.T) {
	env := newTestEnv(t)
	env.store.FailWrites(errors.New("disk full"))

	env.registerProduct(t, "P1")
	env.submit(t, "P1", "C1", types.ClaimTypeCustoms, testutil.ValidProof)
	env.tick(1)

	assert.Equal(t, types.StatusApproved(), env.status(t, "P1", "C1"))
	assert.Empty(t, env.store.Keys())
}

func TestReadMirror(t *testing.T) {
	t.Run("无镜像", func(t *testing.T) {
		m, err := ReadMirror(context.Background(), testutil.NewMockBadgerStore())
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("读取已写入的镜像", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.svc.Restore(env.ctx))
		env.registerProduct(t, "P1")
		env.submit(t, "P1", "A", types.ClaimTypeOriginCountry, testutil.ValidProof)
		env.submit(t, "P1", "B", types.ClaimTypeShipping, testutil.IndeterminateProof)
		env.tick(2)

		m, err := ReadMirror(env.ctx, env.store)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, types.BlockNumber(2), m.Now)
		require.Len(t, m.Products, 1)
		assert.True(t, m.Products[0].OriginVerified)
		require.Len(t, m.Claims["P1"], 2)
		assert.Equal(t, types.ClaimID("A"), m.Claims["P1"][0].ID)
		assert.Equal(t, types.ClaimID("B"), m.Claims["P1"][1].ID)
		_, ok := m.Accounts[testutil.Alice]
		assert.True(t, ok)
	})
}
