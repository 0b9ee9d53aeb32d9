package origin

import (
	"context"
	"fmt"

	"github.com/weisyn/originverifier/pkg/constants/events"
	"github.com/weisyn/originverifier/pkg/types"
)

// SetVerifierAuthorization 管理员维护授权验证者
func (s *Service) SetVerifierAuthorization(ctx context.Context, caller, account types.AccountID, authorized bool) (err error) {
	defer s.observe(opSetVerifier, &err)
	sc := s.begin()
	defer s.end(ctx, sc)

	if !s.guard.CanManageVerifiers(caller) {
		return fmt.Errorf("%w: %s", types.ErrRequiresAdminPrivileges, caller)
	}
	if account == "" {
		return fmt.Errorf("%w: 验证者账户为空", types.ErrInvalidClaimData)
	}
	s.guard.SetAuthorized(account, authorized)
	sc.changes.verifier(account)
	sc.emit(events.EventTypeVerifierAuthorizationChanged, &types.VerifierAuthorizationChangedEvent{Account: account, Authorized: authorized})
	s.logger.Infof("验证者授权已更新: account=%s authorized=%t", account, authorized)
	return nil
}

// UpdateVerificationFee 管理员更新费用表，只影响之后的提交
func (s *Service) UpdateVerificationFee(ctx context.Context, caller types.AccountID, claimType types.ClaimType, fee types.Balance) (err error) {
	defer s.observe(opUpdateFee, &err)
	sc := s.begin()
	defer s.end(ctx, sc)

	if !s.guard.CanManageFeeSchedule(caller) {
		return fmt.Errorf("%w: %s", types.ErrRequiresAdminPrivileges, caller)
	}
	if claimType.Kind > types.ClaimKindCustom || (claimType.Kind == types.ClaimKindCustom && claimType.Tag == "") {
		return fmt.Errorf("%w: 声明类型 %s", types.ErrInvalidClaimData, claimType)
	}
	s.fees[claimType] = fee
	sc.changes.fee(claimType)
	sc.emit(events.EventTypeVerificationFeeUpdated, &types.VerificationFeeUpdatedEvent{Type: claimType, Fee: fee})
	s.logger.Infof("验证费用已更新: type=%s fee=%d", claimType, fee)
	return nil
}
