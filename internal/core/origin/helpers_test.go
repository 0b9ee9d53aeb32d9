package origin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	originconfig "github.com/weisyn/originverifier/internal/config/origin"
	"github.com/weisyn/originverifier/internal/core/origin/escrow"
	"github.com/weisyn/originverifier/internal/core/origin/testutil"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// testEnv 测试环境
type testEnv struct {
	svc      *Service
	ledger   *escrow.Ledger
	bus      *testutil.MockEventBus
	delivery *testutil.MockDelivery
	store    *testutil.MockBadgerStore
	ctx      context.Context
}

type envOption func(opts *originconfig.OriginOptions, deps *Deps)

func withBalances(b map[types.AccountID]types.Balance) envOption {
	return func(_ *originconfig.OriginOptions, deps *Deps) {
		deps.Ledger = escrow.New(b)
	}
}

func withOptions(fn func(opts *originconfig.OriginOptions)) envOption {
	return func(opts *originconfig.OriginOptions, _ *Deps) {
		fn(opts)
	}
}

func withVerifier(v originif.ClaimVerifier) envOption {
	return func(_ *originconfig.OriginOptions, deps *Deps) {
		deps.Verifier = v
	}
}

func withStore(store *testutil.MockBadgerStore) envOption {
	return func(_ *originconfig.OriginOptions, deps *Deps) {
		deps.Store = store
	}
}

func newTestEnv(t *testing.T, options ...envOption) *testEnv {
	t.Helper()

	opts := originconfig.New(nil).GetOptions()
	opts.AdminAccount = string(testutil.Admin)
	opts.AuthorizedVerifiers = []string{string(testutil.Bob)}
	opts.ResultCacheMB = 0

	env := &testEnv{
		bus:      testutil.NewMockEventBus(),
		delivery: testutil.NewMockDelivery(),
		store:    testutil.NewMockBadgerStore(),
		ctx:      context.Background(),
	}
	deps := Deps{
		Ledger:   escrow.New(testutil.GenesisBalances()),
		Delivery: env.delivery,
		EventBus: env.bus,
		Store:    env.store,
		Logger:   &testutil.MockLogger{},
	}
	for _, o := range options {
		o(opts, &deps)
	}

	svc, err := New(opts, deps)
	require.NoError(t, err)
	env.svc = svc
	env.ledger = deps.Ledger.(*escrow.Ledger)
	env.store = deps.Store.(*testutil.MockBadgerStore)
	return env
}

func (e *testEnv) registerProduct(t *testing.T, id types.ProductID) {
	t.Helper()
	_, err := e.svc.RegisterProduct(e.ctx, testutil.Alice, testutil.NewProductRegistration(id))
	require.NoError(t, err)
}

func (e *testEnv) submit(t *testing.T, product types.ProductID, claim types.ClaimID, ct types.ClaimType, proof []byte) {
	t.Helper()
	_, err := e.svc.Submit(e.ctx, testutil.NewSubmitRequest(product, claim, ct, proof, testutil.Alice))
	require.NoError(t, err)
}

func (e *testEnv) status(t *testing.T, product types.ProductID, claim types.ClaimID) types.ClaimStatus {
	t.Helper()
	c, ok := e.svc.GetClaim(product, claim)
	require.True(t, ok)
	return c.Status
}

func (e *testEnv) originVerified(t *testing.T, product types.ProductID) bool {
	t.Helper()
	p, ok := e.svc.GetProduct(product)
	require.True(t, ok)
	return p.OriginVerified
}

func (e *testEnv) tick(now types.BlockNumber) types.TickReport {
	return e.svc.OnTick(e.ctx, now)
}

func response(claim types.ClaimID, kind types.RemoteResultKind, reason string) *types.CrossChainMessage {
	return types.NewVerificationResponseMessage(claim, types.RemoteResult{Kind: kind, Reason: reason})
}
