package origin

import (
	"fmt"

	"github.com/weisyn/originverifier/pkg/types"
)

// feeFor 计算声明费用，跨链声明为基础费用的两倍
func (s *Service) feeFor(claimType types.ClaimType, crossChain bool) (types.Balance, error) {
	base, ok := s.fees[claimType]
	if !ok {
		switch claimType.Kind {
		case types.ClaimKindCustom:
			base = types.Balance(s.opts.DefaultCustomFee)
		case types.ClaimKindOriginCountry,
			types.ClaimKindManufacturing,
			types.ClaimKindShipping,
			types.ClaimKindCustoms,
			types.ClaimKindCertification:
			return 0, fmt.Errorf("%w: 声明类型 %s 未配置费用", types.ErrInvalidClaimData, claimType)
		default:
			return 0, fmt.Errorf("%w: 未知声明类型 %s", types.ErrInvalidClaimData, claimType)
		}
	}
	if !crossChain {
		return base, nil
	}
	fee := base * crossChainFeeMultiplier
	if fee/crossChainFeeMultiplier != base {
		return 0, fmt.Errorf("%w: type=%s base=%d", types.ErrFeeOverflow, claimType, base)
	}
	return fee, nil
}

// settle 结算声明费用
//
// 非管理员人工批准：释放后一半转给验证者，其余转给管理员；
// 管理员人工批准：释放后全额转给管理员；其它终态：只释放。
// 转账失败时回滚已完成的步骤并返回错误。
func (s *Service) settle(c *types.Claim, status types.ClaimStatus, channel types.ResolutionChannel, resolver types.AccountID) ([]*types.FeePaidEvent, error) {
	s.ledger.Release(c.Submitter, c.Fee)
	if status.State != types.ClaimStateApproved || channel != types.ResolutionManual {
		return nil, nil
	}

	admin := s.guard.Admin()
	var payouts []*types.FeePaidEvent
	if resolver == admin {
		payouts = append(payouts, &types.FeePaidEvent{ClaimID: c.ID, From: c.Submitter, To: admin, Amount: c.Fee})
	} else {
		half := c.Fee / 2
		payouts = append(payouts,
			&types.FeePaidEvent{ClaimID: c.ID, From: c.Submitter, To: resolver, Amount: half},
			&types.FeePaidEvent{ClaimID: c.ID, From: c.Submitter, To: admin, Amount: c.Fee - half},
		)
	}

	done := make([]*types.FeePaidEvent, 0, len(payouts))
	for _, p := range payouts {
		if p.Amount == 0 {
			continue
		}
		if err := s.ledger.Transfer(p.From, p.To, p.Amount); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				if rbErr := s.ledger.Transfer(done[i].To, done[i].From, done[i].Amount); rbErr != nil {
					s.logger.Errorf("回滚费用转账失败: claim=%s err=%v", c.ID, rbErr)
				}
			}
			if rbErr := s.ledger.Reserve(c.Submitter, c.Fee); rbErr != nil {
				s.logger.Errorf("回滚费用释放失败: claim=%s err=%v", c.ID, rbErr)
			}
			return nil, fmt.Errorf("费用分账失败: claim=%s: %w", c.ID, err)
		}
		done = append(done, p)
	}
	return done, nil
}
