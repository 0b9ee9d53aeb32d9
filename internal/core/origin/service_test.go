package origin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	originconfig "github.com/weisyn/originverifier/internal/config/origin"
	"github.com/weisyn/originverifier/internal/core/origin/testutil"
	"github.com/weisyn/originverifier/pkg/constants/events"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// ============================================================================
// 典型场景
// ============================================================================

// TestScenario_ValidProofApproved 有效证明经调度批准，费用退回
func TestScenario_ValidProofApproved(t *testing.T) {
	env := newTestEnv(t, withBalances(map[types.AccountID]types.Balance{testutil.Alice: 150}))
	env.registerProduct(t, "P1")
	env.submit(t, "P1", "C1", types.ClaimTypeOriginCountry, testutil.ValidProof)

	free, reserved := env.svc.Balances(testutil.Alice)
	assert.Equal(t, types.Balance(50), free)
	assert.Equal(t, types.Balance(100), reserved)
	assert.Len(t, env.svc.PendingEntries(), 1)

	report := env.tick(1)
	assert.Equal(t, 1, report.Examined)
	assert.Equal(t, 1, report.Approved)

	assert.Equal(t, types.StatusApproved(), env.status(t, "P1", "C1"))
	assert.True(t, env.originVerified(t, "P1"))
	free, reserved = env.svc.Balances(testutil.Alice)
	assert.Equal(t, types.Balance(150), free)
	assert.Equal(t, types.Balance(0), reserved)
	assert.Empty(t, env.svc.PendingEntries())

	c, _ := env.svc.GetClaim("P1", "C1")
	require.NotNil(t, c.VerifiedAt)
	assert.Equal(t, types.BlockNumber(1), *c.VerifiedAt)
	assert.Empty(t, c.Verifier)

	assert.Equal(t, 1, env.bus.Count(events.EventTypeClaimSubmitted))
	assert.Equal(t, 1, env.bus.Count(events.EventTypeProductOriginVerified))
	resolved := env.bus.EventsOf(events.EventTypeClaimResolved)
	require.Len(t, resolved, 1)
	assert.Equal(t, types.ResolutionAutomatic, resolved[0].(*types.ClaimResolvedEvent).Channel)
}

// TestScenario_InvalidProofRejected 无效证明被拒绝，费用全额退回
func TestScenario_InvalidProofRejected(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	env.submit(t, "P1", "C2", types.ClaimTypeOriginCountry, testutil.InvalidProof)

	report := env.tick(1)
	assert.Equal(t, 1, report.Rejected)

	st := env.status(t, "P1", "C2")
	assert.Equal(t, types.ClaimStateRejected, st.State)
	assert.Equal(t, "Invalid proof format", st.Reason)
	assert.False(t, env.originVerified(t, "P1"))
	assert.Equal(t, 0, env.bus.Count(events.EventTypeProductOriginVerified))

	free, reserved := env.svc.Balances(testutil.Alice)
	assert.Equal(t, testutil.DefaultBalance, free)
	assert.Equal(t, types.Balance(0), reserved)
}

// TestScenario_DeadlineTimesOut 超过截止时间后超时，不再调用验证器
func TestScenario_DeadlineTimesOut(t *testing.T) {
	calls := 0
	counting := originif.ClaimVerifierFunc(func(types.ClaimType, []byte, []byte) types.VerificationOutcome {
		calls++
		return types.Indeterminate()
	})
	env := newTestEnv(t, withVerifier(counting))
	env.registerProduct(t, "P1")
	env.submit(t, "P1", "C3", types.ClaimTypeShipping, testutil.IndeterminateProof)

	entries := env.svc.PendingEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, types.BlockNumber(10), entries[0].Deadline)

	for now := types.BlockNumber(1); now < 10; now++ {
		report := env.tick(now)
		assert.Equal(t, 1, report.Indeterminate)
		assert.True(t, env.status(t, "P1", "C3").IsPending())
	}
	assert.Equal(t, 9, calls)

	report := env.tick(10)
	assert.Equal(t, 1, report.TimedOut)
	assert.Equal(t, 9, calls)
	assert.Equal(t, types.StatusTimedOut(), env.status(t, "P1", "C3"))
	assert.Empty(t, env.svc.PendingEntries())

	free, reserved := env.svc.Balances(testutil.Alice)
	assert.Equal(t, testutil.DefaultBalance, free)
	assert.Equal(t, types.Balance(0), reserved)

	timedOut := env.bus.EventsOf(events.EventTypeVerificationTimedOut)
	require.Len(t, timedOut, 1)
	assert.Equal(t, types.BlockNumber(10), timedOut[0].(*types.VerificationTimedOutEvent).Deadline)
}

// TestScenario_DuplicateClaimID 重复声明ID被拒绝且不改变状态
func TestScenario_DuplicateClaimID(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	env.submit(t, "P1", "C1", types.ClaimTypeOriginCountry, testutil.ValidProof)
	freeBefore, reservedBefore := env.svc.Balances(testutil.Alice)
	eventsBefore := len(env.bus.Events())

	_, err := env.svc.Submit(env.ctx, testutil.NewSubmitRequest("P1", "C1", types.ClaimTypeShipping, testutil.ValidProof, testutil.Alice))
	require.ErrorIs(t, err, types.ErrClaimIdAlreadyExists)

	free, reserved := env.svc.Balances(testutil.Alice)
	assert.Equal(t, freeBefore, free)
	assert.Equal(t, reservedBefore, reserved)
	assert.Len(t, env.svc.ListClaims("P1"), 1)
	assert.Len(t, env.svc.PendingEntries(), 1)
	assert.Len(t, env.bus.Events(), eventsBefore)
}

// TestScenario_CrossChainResponse 跨链应答批准声明，重复应答无效果
func TestScenario_CrossChainResponse(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")

	id, err := env.svc.SubmitCrossChain(env.ctx, 200, testutil.NewSubmitRequest("P1", "C4", types.ClaimTypeOriginCountry, testutil.ValidProof, testutil.Alice))
	require.NoError(t, err)
	assert.Equal(t, types.ClaimID("C4"), id)

	free, reserved := env.svc.Balances(testutil.Alice)
	assert.Equal(t, testutil.DefaultBalance-200, free)
	assert.Equal(t, types.Balance(200), reserved)

	sent := env.delivery.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, types.CounterpartyID(200), sent[0].To)
	assert.Equal(t, types.MessageVerificationRequest, sent[0].Message.Kind)
	assert.Equal(t, types.ClaimID("C4"), sent[0].Message.Request.ClaimID)

	cross := env.svc.CrossChainEntries()
	require.Len(t, cross, 1)
	assert.Equal(t, types.BlockNumber(20), cross[0].Deadline)
	assert.Empty(t, env.svc.PendingEntries())

	env.svc.HandleMessage(env.ctx, 200, response("C4", types.RemoteSuccess, ""))
	assert.Equal(t, types.StatusApproved(), env.status(t, "P1", "C4"))
	assert.Empty(t, env.svc.CrossChainEntries())
	assert.True(t, env.originVerified(t, "P1"))
	free, reserved = env.svc.Balances(testutil.Alice)
	assert.Equal(t, testutil.DefaultBalance, free)
	assert.Equal(t, types.Balance(0), reserved)

	env.svc.HandleMessage(env.ctx, 200, response("C4", types.RemoteSuccess, ""))
	free, reserved = env.svc.Balances(testutil.Alice)
	assert.Equal(t, testutil.DefaultBalance, free)
	assert.Equal(t, types.Balance(0), reserved)
	assert.Equal(t, 1, env.bus.Count(events.EventTypeClaimResolved))

	received := env.bus.EventsOf(events.EventTypeCrossChainVerificationReceived)
	require.Len(t, received, 2)
	assert.True(t, received[0].(*types.CrossChainVerificationReceivedEvent).Applied)
	assert.False(t, received[1].(*types.CrossChainVerificationReceivedEvent).Applied)
}

// TestScenario_AdminRevokes 管理员撤销原产国声明，授权验证者无权撤销
func TestScenario_AdminRevokes(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	env.submit(t, "P1", "C1", types.ClaimTypeOriginCountry, testutil.ValidProof)
	env.tick(1)
	require.True(t, env.originVerified(t, "P1"))

	err := env.svc.Revoke(env.ctx, "P1", "C1", "fraud", testutil.Bob)
	require.ErrorIs(t, err, types.ErrRequiresAdminPrivileges)
	assert.Equal(t, types.StatusApproved(), env.status(t, "P1", "C1"))
	assert.True(t, env.originVerified(t, "P1"))

	freeBefore, _ := env.svc.Balances(testutil.Alice)
	require.NoError(t, env.svc.Revoke(env.ctx, "P1", "C1", "fraud", testutil.Admin))
	assert.Equal(t, types.StatusRevoked("fraud"), env.status(t, "P1", "C1"))
	assert.False(t, env.originVerified(t, "P1"))
	free, _ := env.svc.Balances(testutil.Alice)
	assert.Equal(t, freeBefore, free)

	revoked := env.bus.EventsOf(events.EventTypeClaimRevoked)
	require.Len(t, revoked, 1)
	assert.Equal(t, "fraud", revoked[0].(*types.ClaimRevokedEvent).Reason)
}

// ============================================================================
// 提交校验
// ============================================================================

func TestSubmit_Validation(t *testing.T) {
	env := newTestEnv(t, withOptions(func(o *originconfig.OriginOptions) {
		o.MaxClaimsPerProduct = 2
		o.MaxProofSize = 8
		o.MaxMetadataLength = 4
	}))
	env.registerProduct(t, "P1")
	env.registerProduct(t, "P2")
	require.NoError(t, env.svc.SetProductActive(env.ctx, testutil.Alice, "P2", false))

	req := func(mut func(r *types.SubmitRequest)) types.SubmitRequest {
		r := testutil.NewSubmitRequest("P1", "X", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice)
		mut(&r)
		return r
	}

	cases := []struct {
		name string
		req  types.SubmitRequest
		want error
	}{
		{"产品不存在", req(func(r *types.SubmitRequest) { r.ProductID = "P9" }), types.ErrProductNotFound},
		{"产品已停用", req(func(r *types.SubmitRequest) { r.ProductID = "P2" }), types.ErrProductNotActive},
		{"声明ID为空", req(func(r *types.SubmitRequest) { r.ClaimID = "" }), types.ErrInvalidClaimData},
		{"证明为空", req(func(r *types.SubmitRequest) { r.Proof = nil }), types.ErrInvalidClaimData},
		{"证明过长", req(func(r *types.SubmitRequest) { r.Proof = make([]byte, 9) }), types.ErrProofTooLarge},
		{"元数据过长", req(func(r *types.SubmitRequest) { r.Metadata = []byte("12345") }), types.ErrMetadataTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Submit(env.ctx, tc.req)
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, types.ErrorCategoryValidation, types.CategoryOf(err))
		})
	}

	t.Run("声明列表已满", func(t *testing.T) {
		env.submit(t, "P1", "X", types.ClaimTypeCustoms, testutil.ValidProof)
		env.submit(t, "P1", "Y", types.ClaimTypeCustoms, testutil.ValidProof)
		_, err := env.svc.Submit(env.ctx, req(func(r *types.SubmitRequest) { r.ClaimID = "Z" }))
		require.ErrorIs(t, err, types.ErrTooManyClaims)
	})

	t.Run("余额不足", func(t *testing.T) {
		env.registerProduct(t, "P3")
		r := testutil.NewSubmitRequest("P3", "C", types.ClaimTypeCustoms, testutil.ValidProof, "NOBODY")
		_, err := env.svc.Submit(env.ctx, r)
		require.ErrorIs(t, err, types.ErrVerificationFeesNotPaid)
		assert.Equal(t, types.ErrorCategoryFunds, types.CategoryOf(err))
		assert.Empty(t, env.svc.ListClaims("P3"))
	})
}

func TestSubmit_CustomTypeFee(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")

	fee, err := env.svc.FeeFor(types.CustomClaimType("halal"), false)
	require.NoError(t, err)
	assert.Equal(t, types.Balance(100), fee)

	fee, err = env.svc.FeeFor(types.ClaimTypeCertification, true)
	require.NoError(t, err)
	assert.Equal(t, types.Balance(600), fee)

	require.NoError(t, env.svc.UpdateVerificationFee(env.ctx, testutil.Admin, types.CustomClaimType("halal"), 7))
	env.submit(t, "P1", "H1", types.CustomClaimType("halal"), testutil.ValidProof)
	c, _ := env.svc.GetClaim("P1", "H1")
	assert.Equal(t, types.Balance(7), c.Fee)
}

// ============================================================================
// 人工裁决与分账
// ============================================================================

func TestResolve_FeeSplit(t *testing.T) {
	t.Run("授权验证者批准时一半归验证者一半归管理员", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerProduct(t, "P1")
		env.submit(t, "P1", "M1", types.ClaimTypeManufacturing, testutil.IndeterminateProof)

		require.NoError(t, env.svc.Resolve(env.ctx, "P1", "M1", types.StatusApproved(), testutil.Bob))

		alice, aliceReserved := env.svc.Balances(testutil.Alice)
		bob, _ := env.svc.Balances(testutil.Bob)
		admin, _ := env.svc.Balances(testutil.Admin)
		assert.Equal(t, testutil.DefaultBalance-150, alice)
		assert.Equal(t, types.Balance(0), aliceReserved)
		assert.Equal(t, testutil.DefaultBalance+75, bob)
		assert.Equal(t, testutil.DefaultBalance+75, admin)

		c, _ := env.svc.GetClaim("P1", "M1")
		assert.Equal(t, testutil.Bob, c.Verifier)
		assert.Empty(t, env.svc.PendingEntries())
		assert.Equal(t, 2, env.bus.Count(events.EventTypeFeePaid))
	})

	t.Run("奇数费用余数归管理员", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerProduct(t, "P1")
		require.NoError(t, env.svc.UpdateVerificationFee(env.ctx, testutil.Admin, types.ClaimTypeShipping, 101))
		env.submit(t, "P1", "S1", types.ClaimTypeShipping, testutil.IndeterminateProof)

		require.NoError(t, env.svc.Resolve(env.ctx, "P1", "S1", types.StatusApproved(), testutil.Bob))
		bob, _ := env.svc.Balances(testutil.Bob)
		admin, _ := env.svc.Balances(testutil.Admin)
		assert.Equal(t, testutil.DefaultBalance+50, bob)
		assert.Equal(t, testutil.DefaultBalance+51, admin)
	})

	t.Run("管理员批准时全额归管理员", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerProduct(t, "P1")
		env.submit(t, "P1", "M1", types.ClaimTypeManufacturing, testutil.IndeterminateProof)

		require.NoError(t, env.svc.Resolve(env.ctx, "P1", "M1", types.StatusApproved(), testutil.Admin))
		admin, _ := env.svc.Balances(testutil.Admin)
		assert.Equal(t, testutil.DefaultBalance+150, admin)
		assert.Equal(t, 1, env.bus.Count(events.EventTypeFeePaid))
	})

	t.Run("人工拒绝时全额退回", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerProduct(t, "P1")
		env.submit(t, "P1", "M1", types.ClaimTypeManufacturing, testutil.IndeterminateProof)

		require.NoError(t, env.svc.Resolve(env.ctx, "P1", "M1", types.StatusRejected("forged"), testutil.Bob))
		alice, _ := env.svc.Balances(testutil.Alice)
		assert.Equal(t, testutil.DefaultBalance, alice)
		assert.Equal(t, 0, env.bus.Count(events.EventTypeFeePaid))
	})
}

func TestResolve_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	env.submit(t, "P1", "C1", types.ClaimTypeCustoms, testutil.IndeterminateProof)

	require.ErrorIs(t, env.svc.Resolve(env.ctx, "P9", "C1", types.StatusApproved(), testutil.Bob), types.ErrProductNotFound)
	require.ErrorIs(t, env.svc.Resolve(env.ctx, "P1", "C1", types.StatusApproved(), testutil.Charlie), types.ErrNotAuthorizedVerifier)
	require.ErrorIs(t, env.svc.Resolve(env.ctx, "P1", "C9", types.StatusApproved(), testutil.Bob), types.ErrClaimNotFound)
	require.ErrorIs(t, env.svc.Resolve(env.ctx, "P1", "C1", types.StatusTimedOut(), testutil.Bob), types.ErrInvalidOutcome)
	require.ErrorIs(t, env.svc.Resolve(env.ctx, "P1", "C1", types.StatusRevoked("x"), testutil.Bob), types.ErrInvalidOutcome)
	assert.True(t, env.status(t, "P1", "C1").IsPending())

	require.NoError(t, env.svc.Resolve(env.ctx, "P1", "C1", types.StatusFailed("lab closed"), testutil.Bob))
	err := env.svc.Resolve(env.ctx, "P1", "C1", types.StatusApproved(), testutil.Bob)
	require.ErrorIs(t, err, types.ErrInvalidClaimState)
	assert.Equal(t, types.ErrorCategoryState, types.CategoryOf(err))
}

func TestResolve_CrossChainClaimManually(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	_, err := env.svc.SubmitCrossChain(env.ctx, 200, testutil.NewSubmitRequest("P1", "X1", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
	require.NoError(t, err)

	require.NoError(t, env.svc.Resolve(env.ctx, "P1", "X1", types.StatusRejected("manual"), testutil.Bob))
	assert.Empty(t, env.svc.CrossChainEntries())

	env.svc.HandleMessage(env.ctx, 200, response("X1", types.RemoteSuccess, ""))
	assert.Equal(t, types.ClaimStateRejected, env.status(t, "P1", "X1").State)
}

// ============================================================================
// 撤销
// ============================================================================

func TestRevoke_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	env.submit(t, "P1", "C1", types.ClaimTypeCustoms, testutil.InvalidProof)
	env.tick(1)

	require.ErrorIs(t, env.svc.Revoke(env.ctx, "P9", "C1", "x", testutil.Admin), types.ErrProductNotFound)
	require.ErrorIs(t, env.svc.Revoke(env.ctx, "P1", "C9", "x", testutil.Admin), types.ErrClaimNotFound)
	require.ErrorIs(t, env.svc.Revoke(env.ctx, "P1", "C1", "x", testutil.Admin), types.ErrInvalidClaimState)
}

// ============================================================================
// 跨链
// ============================================================================

func TestCrossChain_SendFailureTouchesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	env.delivery.FailWith(errors.New("link down"))

	_, err := env.svc.SubmitCrossChain(env.ctx, 200, testutil.NewSubmitRequest("P1", "X1", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
	require.ErrorIs(t, err, types.ErrCrossChainError)
	assert.Equal(t, types.ErrorCategoryDelivery, types.CategoryOf(err))

	free, reserved := env.svc.Balances(testutil.Alice)
	assert.Equal(t, testutil.DefaultBalance, free)
	assert.Equal(t, types.Balance(0), reserved)
	assert.Empty(t, env.svc.ListClaims("P1"))
	assert.Empty(t, env.svc.CrossChainEntries())
}

func TestCrossChain_ReserveFailureAfterSend(t *testing.T) {
	env := newTestEnv(t, withBalances(map[types.AccountID]types.Balance{testutil.Alice: 100}))
	env.registerProduct(t, "P1")

	_, err := env.svc.SubmitCrossChain(env.ctx, 200, testutil.NewSubmitRequest("P1", "X1", types.ClaimTypeOriginCountry, testutil.ValidProof, testutil.Alice))
	require.ErrorIs(t, err, types.ErrVerificationFeesNotPaid)
	assert.Len(t, env.delivery.Sent(), 1)
	assert.Empty(t, env.svc.ListClaims("P1"))

	env.svc.HandleMessage(env.ctx, 200, response("X1", types.RemoteSuccess, ""))
	assert.Empty(t, env.svc.ListClaims("P1"))
}

func TestCrossChain_DuplicateAwaitingClaimID(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	env.registerProduct(t, "P2")
	_, err := env.svc.SubmitCrossChain(env.ctx, 200, testutil.NewSubmitRequest("P1", "X1", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
	require.NoError(t, err)

	_, err = env.svc.SubmitCrossChain(env.ctx, 300, testutil.NewSubmitRequest("P2", "X1", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
	require.ErrorIs(t, err, types.ErrClaimIdAlreadyExists)

	_, err = env.svc.Submit(env.ctx, testutil.NewSubmitRequest("P2", "X1", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
	require.NoError(t, err, "本地声明只要求产品内唯一")
}

func TestCrossChain_LateResponseAfterTimeout(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.svc.Restore(env.ctx))
	env.registerProduct(t, "P1")
	env.registerProduct(t, "P2")
	_, err := env.svc.SubmitCrossChain(env.ctx, 200, testutil.NewSubmitRequest("P1", "X1", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
	require.NoError(t, err)

	env.tick(20)
	assert.Equal(t, types.StatusTimedOut(), env.status(t, "P1", "X1"))
	assert.Empty(t, env.svc.CrossChainEntries())

	t.Run("超时后跨链声明ID不可复用", func(t *testing.T) {
		_, err := env.svc.SubmitCrossChain(env.ctx, 200, testutil.NewSubmitRequest("P2", "X1", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
		require.ErrorIs(t, err, types.ErrClaimIdAlreadyExists)
		assert.Empty(t, env.svc.ListClaims("P2"))
	})

	t.Run("迟到应答无效果", func(t *testing.T) {
		free, reserved := env.svc.Balances(testutil.Alice)
		env.svc.HandleMessage(env.ctx, 200, response("X1", types.RemoteSuccess, ""))
		assert.Equal(t, types.StatusTimedOut(), env.status(t, "P1", "X1"))
		f, r := env.svc.Balances(testutil.Alice)
		assert.Equal(t, free, f)
		assert.Equal(t, reserved, r)
	})

	t.Run("恢复后仍拒绝复用", func(t *testing.T) {
		restored := newTestEnv(t, withStore(env.store))
		require.NoError(t, restored.svc.Restore(restored.ctx))
		_, err := restored.svc.SubmitCrossChain(env.ctx, 300, testutil.NewSubmitRequest("P2", "X1", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
		require.ErrorIs(t, err, types.ErrClaimIdAlreadyExists)
	})
}

func TestCrossChain_ResultMapping(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	for _, id := range []types.ClaimID{"F1", "I1", "W1"} {
		_, err := env.svc.SubmitCrossChain(env.ctx, 200, testutil.NewSubmitRequest("P1", id, types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
		require.NoError(t, err)
	}

	env.svc.HandleMessage(env.ctx, 200, response("F1", types.RemoteFailure, "mismatch"))
	assert.Equal(t, types.StatusRejected("mismatch"), env.status(t, "P1", "F1"))

	env.svc.HandleMessage(env.ctx, 200, response("I1", types.RemoteImpossible, ""))
	assert.Equal(t, types.ClaimStateFailed, env.status(t, "P1", "I1").State)

	t.Run("发送方不匹配的应答被忽略", func(t *testing.T) {
		env.svc.HandleMessage(env.ctx, 999, response("W1", types.RemoteSuccess, ""))
		assert.True(t, env.status(t, "P1", "W1").IsPending())
	})

	t.Run("Pending应答刷新截止时间", func(t *testing.T) {
		env.tick(15)
		env.svc.HandleMessage(env.ctx, 200, response("W1", types.RemotePending, ""))
		entries := env.svc.CrossChainEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, types.BlockNumber(35), entries[0].Deadline)
		assert.True(t, env.status(t, "P1", "W1").IsPending())

		env.tick(20)
		assert.True(t, env.status(t, "P1", "W1").IsPending())
		env.tick(35)
		assert.Equal(t, types.StatusTimedOut(), env.status(t, "P1", "W1"))
	})

	free, reserved := env.svc.Balances(testutil.Alice)
	assert.Equal(t, testutil.DefaultBalance, free)
	assert.Equal(t, types.Balance(0), reserved)
}

func TestCrossChain_CredentialRevocation(t *testing.T) {
	env := newTestEnv(t)
	assert.False(t, env.svc.IsCredentialRevoked("cred-1"))

	env.svc.HandleMessage(env.ctx, 200, types.NewCredentialRevocationMessage("cred-1", "compromised"))
	assert.True(t, env.svc.IsCredentialRevoked("cred-1"))

	evts := env.bus.EventsOf(events.EventTypeCredentialRevoked)
	require.Len(t, evts, 1)
	assert.Equal(t, types.CounterpartyID(200), evts[0].(*types.CredentialRevokedEvent).From)
}

func TestCrossChain_InboundRequestIsAnswered(t *testing.T) {
	env := newTestEnv(t)
	claim := &types.Claim{ID: "R1", ProductID: "REMOTE", Type: types.ClaimTypeCustoms, Proof: testutil.ValidProof, Submitter: "X"}
	msg := types.NewVerificationRequestMessage(claim)
	msg.CorrelationID = "corr-1"

	env.svc.HandleMessage(env.ctx, 300, msg)

	sent := env.delivery.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, types.CounterpartyID(300), sent[0].To)
	require.NotNil(t, sent[0].Message.Response)
	assert.Equal(t, types.RemoteSuccess, sent[0].Message.Response.Result.Kind)
	assert.Equal(t, "corr-1", sent[0].Message.CorrelationID)
}

func TestCrossChain_InvalidMessageDropped(t *testing.T) {
	env := newTestEnv(t)
	env.svc.HandleMessage(env.ctx, 200, &types.CrossChainMessage{Kind: "bogus"})
	assert.Empty(t, env.bus.Events())
}

// ============================================================================
// 管理操作
// ============================================================================

func TestAdministration(t *testing.T) {
	env := newTestEnv(t)

	require.ErrorIs(t, env.svc.SetVerifierAuthorization(env.ctx, testutil.Bob, testutil.Charlie, true), types.ErrRequiresAdminPrivileges)
	require.NoError(t, env.svc.SetVerifierAuthorization(env.ctx, testutil.Admin, testutil.Charlie, true))
	assert.Equal(t, []types.AccountID{testutil.Bob, testutil.Charlie}, env.svc.Verifiers())

	require.NoError(t, env.svc.SetVerifierAuthorization(env.ctx, testutil.Admin, testutil.Bob, false))
	assert.Equal(t, []types.AccountID{testutil.Charlie}, env.svc.Verifiers())

	require.ErrorIs(t, env.svc.UpdateVerificationFee(env.ctx, testutil.Charlie, types.ClaimTypeCustoms, 1), types.ErrRequiresAdminPrivileges)

	t.Run("费用更新只影响之后的提交", func(t *testing.T) {
		env.registerProduct(t, "P1")
		env.submit(t, "P1", "C1", types.ClaimTypeCustoms, testutil.IndeterminateProof)
		require.NoError(t, env.svc.UpdateVerificationFee(env.ctx, testutil.Admin, types.ClaimTypeCustoms, 1))
		env.submit(t, "P1", "C2", types.ClaimTypeCustoms, testutil.IndeterminateProof)

		c1, _ := env.svc.GetClaim("P1", "C1")
		c2, _ := env.svc.GetClaim("P1", "C2")
		assert.Equal(t, types.Balance(250), c1.Fee)
		assert.Equal(t, types.Balance(1), c2.Fee)
	})

	assert.Equal(t, 2, env.bus.Count(events.EventTypeVerifierAuthorizationChanged))
}

func TestSetProductActive(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")

	require.ErrorIs(t, env.svc.SetProductActive(env.ctx, testutil.Bob, "P1", false), types.ErrNotProductOwner)
	require.NoError(t, env.svc.SetProductActive(env.ctx, testutil.Admin, "P1", false))
	_, err := env.svc.Submit(env.ctx, testutil.NewSubmitRequest("P1", "C1", types.ClaimTypeCustoms, testutil.ValidProof, testutil.Alice))
	require.ErrorIs(t, err, types.ErrProductNotActive)

	_, err = env.svc.RegisterProduct(env.ctx, testutil.Bob, testutil.NewProductRegistration("P1"))
	require.ErrorIs(t, err, types.ErrProductAlreadyExists)
}

func TestOnTick_RegressionIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	env.tick(5)
	env.submit(t, "P1", "C1", types.ClaimTypeCustoms, testutil.ValidProof)

	report := env.tick(3)
	assert.Equal(t, types.BlockNumber(5), report.Now)
	assert.Equal(t, 0, report.Examined)
	assert.Equal(t, types.BlockNumber(5), env.svc.Now())
	assert.True(t, env.status(t, "P1", "C1").IsPending())
}
