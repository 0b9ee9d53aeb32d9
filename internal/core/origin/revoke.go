package origin

import (
	"context"
	"fmt"

	"github.com/weisyn/originverifier/pkg/constants/events"
	"github.com/weisyn/originverifier/pkg/types"
)

// Revoke 管理员撤销已批准声明，不涉及费用
func (s *Service) Revoke(ctx context.Context, productID types.ProductID, claimID types.ClaimID, reason string, caller types.AccountID) (err error) {
	defer s.observe(opRevoke, &err)
	sc := s.begin()
	defer s.end(ctx, sc)

	if !s.guard.CanRevoke(caller) {
		return fmt.Errorf("%w: %s", types.ErrRequiresAdminPrivileges, caller)
	}
	if _, ok := s.products.Get(productID); !ok {
		return fmt.Errorf("%w: %s", types.ErrProductNotFound, productID)
	}
	c, ok := s.claim(productID, claimID)
	if !ok {
		return fmt.Errorf("%w: product=%s claim=%s", types.ErrClaimNotFound, productID, claimID)
	}
	if !c.Status.CanTransitionTo(types.ClaimStateRevoked) {
		return fmt.Errorf("%w: claim=%s status=%s", types.ErrInvalidClaimState, claimID, c.Status)
	}

	c.Status = types.StatusRevoked(reason)
	sc.changes.claim(claimKey{product: productID, claim: claimID})
	if c.Type.IsOriginCountry() {
		s.setOriginFlag(sc, productID, claimID, false)
	}
	sc.emit(events.EventTypeClaimRevoked, &types.ClaimRevokedEvent{ProductID: productID, ClaimID: claimID, Reason: reason, By: caller})
	claimsRevokedTotal.Inc()
	s.logger.Infof("声明已撤销: product=%s claim=%s reason=%s", productID, claimID, reason)
	return nil
}
