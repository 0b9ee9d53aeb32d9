package origin

import (
	"context"
	"fmt"

	"github.com/weisyn/originverifier/pkg/constants/events"
	"github.com/weisyn/originverifier/pkg/types"
)

// Resolve 人工裁决 Pending 声明
func (s *Service) Resolve(ctx context.Context, productID types.ProductID, claimID types.ClaimID, outcome types.ClaimStatus, resolver types.AccountID) (err error) {
	defer s.observe(opResolve, &err)
	sc := s.begin()
	defer s.end(ctx, sc)

	p, ok := s.products.Get(productID)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrProductNotFound, productID)
	}
	if !s.guard.CanResolve(resolver, p) {
		return fmt.Errorf("%w: %s", types.ErrNotAuthorizedVerifier, resolver)
	}
	c, ok := s.claim(productID, claimID)
	if !ok {
		return fmt.Errorf("%w: product=%s claim=%s", types.ErrClaimNotFound, productID, claimID)
	}
	if !c.Status.IsPending() {
		return fmt.Errorf("%w: claim=%s status=%s", types.ErrInvalidClaimState, claimID, c.Status)
	}
	switch outcome.State {
	case types.ClaimStateApproved, types.ClaimStateRejected, types.ClaimStateFailed:
	default:
		return fmt.Errorf("%w: %s", types.ErrInvalidOutcome, outcome)
	}

	if err := s.finalize(sc, c, outcome, types.ResolutionManual, resolver); err != nil {
		return err
	}
	s.logger.Infof("声明已人工裁决: product=%s claim=%s outcome=%s resolver=%s", productID, claimID, outcome, resolver)
	return nil
}

// finalize 声明首次进入终态
//
// 先移除待验证条目再结算，结算失败时放回条目并返回错误，不产生任何效果。
func (s *Service) finalize(sc *opScope, c *types.Claim, status types.ClaimStatus, channel types.ResolutionChannel, resolver types.AccountID) error {
	if !c.Status.CanTransitionTo(status.State) {
		return fmt.Errorf("%w: claim=%s %s -> %s", types.ErrInvalidClaimState, c.ID, c.Status, status)
	}

	key := claimKey{product: c.ProductID, claim: c.ID}
	var (
		restore  func()
		deadline types.BlockNumber
	)
	if c.IsCrossChain {
		entry, _ := s.cross.Get(c.ID)
		deadline = entry.Deadline
		restore, _ = s.cross.Remove(c.ID)
		sc.changes.crossEntry(c.ID)
	} else {
		entry, _ := s.local.Get(key)
		deadline = entry.Deadline
		restore, _ = s.local.Remove(key)
		sc.changes.localEntry(key)
	}

	payouts, err := s.settle(c, status, channel, resolver)
	if err != nil {
		restore()
		return err
	}

	now := s.now
	c.Status = status
	c.VerifiedAt = &now
	if channel == types.ResolutionManual {
		c.Verifier = resolver
	}
	sc.changes.claim(key)
	sc.changes.account(c.Submitter)
	for _, p := range payouts {
		sc.changes.account(p.To)
		sc.emit(events.EventTypeFeePaid, p)
	}

	if c.Type.IsOriginCountry() {
		s.setOriginFlag(sc, c.ProductID, c.ID, status.State == types.ClaimStateApproved)
	}

	sc.emit(events.EventTypeClaimResolved, &types.ClaimResolvedEvent{
		ProductID: c.ProductID, ClaimID: c.ID, Outcome: status, Channel: channel, Verifier: c.Verifier, At: now,
	})
	if status.State == types.ClaimStateTimedOut {
		sc.emit(events.EventTypeVerificationTimedOut, &types.VerificationTimedOutEvent{
			ProductID: c.ProductID, ClaimID: c.ID, Deadline: deadline, CrossChain: c.IsCrossChain,
		})
	}
	claimsResolvedTotal.WithLabelValues(status.State.String(), string(channel)).Inc()
	return nil
}

// setOriginFlag 设置产品原产地标志，仅在变化时发布事件
func (s *Service) setOriginFlag(sc *opScope, productID types.ProductID, claimID types.ClaimID, verified bool) {
	changed, err := s.products.SetOriginVerified(productID, verified)
	if err != nil {
		s.logger.Errorf("设置原产地标志失败: product=%s err=%v", productID, err)
		return
	}
	if !changed {
		return
	}
	sc.changes.product(productID)
	sc.emit(events.EventTypeProductOriginVerified, &types.ProductOriginVerifiedEvent{
		ProductID: productID, Verified: verified, ClaimID: claimID,
	})
}
