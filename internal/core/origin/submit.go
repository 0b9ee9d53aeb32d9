package origin

import (
	"context"
	"fmt"

	"github.com/weisyn/originverifier/pkg/constants/events"
	"github.com/weisyn/originverifier/pkg/types"
)

// RegisterProduct 注册产品
func (s *Service) RegisterProduct(ctx context.Context, owner types.AccountID, reg types.ProductRegistration) (p *types.Product, err error) {
	defer s.observe(opRegisterProduct, &err)
	sc := s.begin()
	defer s.end(ctx, sc)

	p, err = s.products.Register(owner, reg, s.now)
	if err != nil {
		return nil, err
	}
	s.productOrder++
	s.productSeq[p.ID] = s.productOrder
	sc.changes.product(p.ID)
	sc.emit(events.EventTypeProductRegistered, &types.ProductRegisteredEvent{ProductID: p.ID, Owner: owner})
	s.logger.Infof("产品已注册: product=%s owner=%s", p.ID, owner)
	return p, nil
}

// SetProductActive 启用或停用产品
func (s *Service) SetProductActive(ctx context.Context, caller types.AccountID, id types.ProductID, active bool) (err error) {
	defer s.observe(opSetProductActive, &err)
	sc := s.begin()
	defer s.end(ctx, sc)

	if err := s.products.SetActive(caller, id, active); err != nil {
		return err
	}
	sc.changes.product(id)
	sc.emit(events.EventTypeProductActivationChanged, &types.ProductActivationChangedEvent{ProductID: id, Active: active})
	return nil
}

// Submit 提交本地声明
func (s *Service) Submit(ctx context.Context, req types.SubmitRequest) (id types.ClaimID, err error) {
	defer s.observe(opSubmit, &err)
	sc := s.begin()
	defer s.end(ctx, sc)

	fee, err := s.validateSubmission(req, false)
	if err != nil {
		return "", err
	}
	if err := s.ledger.Reserve(req.Submitter, fee); err != nil {
		return "", types.WrapFeesNotPaid(req.Submitter, fee, err)
	}

	c := s.appendClaim(sc, req, fee, nil)
	entry := types.PendingEntry{ProductID: c.ProductID, ClaimID: c.ID, Deadline: s.localDeadline()}
	key := claimKey{product: c.ProductID, claim: c.ID}
	s.local.PushBack(key, entry, s.nextSeq())
	sc.changes.localEntry(key)

	sc.emit(events.EventTypeClaimSubmitted, &types.ClaimSubmittedEvent{
		ProductID: c.ProductID, ClaimID: c.ID, Type: c.Type, Submitter: c.Submitter, Fee: fee, Deadline: entry.Deadline,
	})
	claimsSubmittedTotal.WithLabelValues(c.Type.String(), channelLocal).Inc()
	s.logger.Infof("声明已提交: product=%s claim=%s type=%s fee=%d deadline=%d", c.ProductID, c.ID, c.Type, fee, entry.Deadline)
	return c.ID, nil
}

// validateSubmission 提交前的全部同步校验，返回应预留的费用
func (s *Service) validateSubmission(req types.SubmitRequest, crossChain bool) (types.Balance, error) {
	p, ok := s.products.Get(req.ProductID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", types.ErrProductNotFound, req.ProductID)
	}
	if !p.Active {
		return 0, fmt.Errorf("%w: %s", types.ErrProductNotActive, req.ProductID)
	}
	if req.ClaimID == "" {
		return 0, fmt.Errorf("%w: 声明ID为空", types.ErrInvalidClaimData)
	}
	if len(req.Proof) == 0 {
		return 0, fmt.Errorf("%w: 证明为空", types.ErrInvalidClaimData)
	}
	if req.Submitter == "" {
		return 0, fmt.Errorf("%w: 提交者为空", types.ErrInvalidClaimData)
	}
	if len(req.Proof) < s.opts.MinProofSize {
		return 0, fmt.Errorf("%w: %d < %d", types.ErrProofTooSmall, len(req.Proof), s.opts.MinProofSize)
	}
	if len(req.Proof) > s.opts.MaxProofSize {
		return 0, fmt.Errorf("%w: %d > %d", types.ErrProofTooLarge, len(req.Proof), s.opts.MaxProofSize)
	}
	if len(req.Metadata) > s.opts.MaxMetadataLength {
		return 0, fmt.Errorf("%w: %d > %d", types.ErrMetadataTooLong, len(req.Metadata), s.opts.MaxMetadataLength)
	}

	book := s.books[req.ProductID]
	if book != nil {
		if _, dup := book.byID[req.ClaimID]; dup {
			return 0, fmt.Errorf("%w: product=%s claim=%s", types.ErrClaimIdAlreadyExists, req.ProductID, req.ClaimID)
		}
	}
	// 跨链应答只携带声明ID，跨链声明ID在所有产品间唯一
	if crossChain {
		if owner, used := s.crossIssued[req.ClaimID]; used {
			return 0, fmt.Errorf("%w: 跨链声明 %s 已用于产品 %s", types.ErrClaimIdAlreadyExists, req.ClaimID, owner)
		}
	}
	if book != nil && len(book.order) >= s.opts.MaxClaimsPerProduct {
		return 0, fmt.Errorf("%w: product=%s limit=%d", types.ErrTooManyClaims, req.ProductID, s.opts.MaxClaimsPerProduct)
	}
	return s.feeFor(req.Type, crossChain)
}

// appendClaim 追加 Pending 声明
func (s *Service) appendClaim(sc *opScope, req types.SubmitRequest, fee types.Balance, counterparty *types.CounterpartyID) *types.Claim {
	c := &types.Claim{
		ID:           req.ClaimID,
		ProductID:    req.ProductID,
		Type:         req.Type,
		Proof:        append([]byte(nil), req.Proof...),
		PublicInputs: append([]byte(nil), req.PublicInputs...),
		Metadata:     append([]byte(nil), req.Metadata...),
		Timestamp:    req.Timestamp,
		Submitter:    req.Submitter,
		SubmittedAt:  s.now,
		Fee:          fee,
		Status:       types.StatusPending(),
		IsCrossChain: counterparty != nil,
		Counterparty: counterparty,
	}
	book, ok := s.books[req.ProductID]
	if !ok {
		book = newClaimBook()
		s.books[req.ProductID] = book
	}
	book.append(c)
	if counterparty != nil {
		s.crossIssued[c.ID] = c.ProductID
	}
	sc.changes.claim(claimKey{product: c.ProductID, claim: c.ID})
	sc.changes.account(c.Submitter)
	return c
}
