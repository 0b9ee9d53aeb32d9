package origin

import (
	"context"

	"github.com/weisyn/originverifier/pkg/constants/events"
	"github.com/weisyn/originverifier/pkg/types"
)

// SubmitCrossChain 提交跨链声明
//
// 先发送验证请求，发送成功后才预留双倍费用；发送失败时不触及托管。
func (s *Service) SubmitCrossChain(ctx context.Context, counterparty types.CounterpartyID, req types.SubmitRequest) (id types.ClaimID, err error) {
	defer s.observe(opSubmitCrossChain, &err)
	sc := s.begin()
	defer s.end(ctx, sc)

	fee, err := s.validateSubmission(req, true)
	if err != nil {
		return "", err
	}
	if s.delivery == nil {
		return "", types.WrapCrossChainError(counterparty, errNoDelivery)
	}

	draft := &types.Claim{
		ID: req.ClaimID, ProductID: req.ProductID, Type: req.Type, Proof: req.Proof,
		PublicInputs: req.PublicInputs, Metadata: req.Metadata, Timestamp: req.Timestamp, Submitter: req.Submitter,
	}
	if err := s.delivery.Send(ctx, counterparty, types.NewVerificationRequestMessage(draft)); err != nil {
		crossChainMessagesTotal.WithLabelValues(string(types.MessageVerificationRequest), "send_failed").Inc()
		return "", types.WrapCrossChainError(counterparty, err)
	}
	crossChainMessagesTotal.WithLabelValues(string(types.MessageVerificationRequest), "sent").Inc()

	if err := s.ledger.Reserve(req.Submitter, fee); err != nil {
		return "", types.WrapFeesNotPaid(req.Submitter, fee, err)
	}

	cp := counterparty
	c := s.appendClaim(sc, req, fee, &cp)
	entry := types.CrossChainEntry{ClaimID: c.ID, Counterparty: counterparty, ProductID: c.ProductID, Deadline: s.crossChainDeadline()}
	s.cross.InsertOrdered(c.ID, entry, s.nextSeq(), crossChainLess)
	sc.changes.crossEntry(c.ID)

	sc.emit(events.EventTypeCrossChainVerificationSent, &types.CrossChainVerificationSentEvent{ClaimID: c.ID, Counterparty: counterparty})
	sc.emit(events.EventTypeClaimSubmitted, &types.ClaimSubmittedEvent{
		ProductID: c.ProductID, ClaimID: c.ID, Type: c.Type, Submitter: c.Submitter, Fee: fee, Deadline: entry.Deadline, Counterparty: &cp,
	})
	claimsSubmittedTotal.WithLabelValues(c.Type.String(), channelCrossChain).Inc()
	s.logger.Infof("跨链声明已提交: product=%s claim=%s counterparty=%d fee=%d deadline=%d", c.ProductID, c.ID, counterparty, fee, entry.Deadline)
	return c.ID, nil
}

// HandleMessage 处理来自对端的入站消息
func (s *Service) HandleMessage(ctx context.Context, from types.CounterpartyID, msg *types.CrossChainMessage) {
	if err := msg.Validate(); err != nil {
		s.logger.Warnf("丢弃无效跨链消息: from=%d err=%v", from, err)
		crossChainMessagesTotal.WithLabelValues("invalid", "dropped").Inc()
		return
	}
	switch msg.Kind {
	case types.MessageVerificationResponse:
		s.handleResponse(ctx, from, msg.Response)
	case types.MessageCredentialRevocation:
		s.handleCredentialRevocation(ctx, from, msg.Revocation)
	case types.MessageVerificationRequest:
		s.handleRequest(ctx, from, msg)
	}
}

// handleResponse 匹配跨链条目并应用对端结果，条目不存在时为空操作
func (s *Service) handleResponse(ctx context.Context, from types.CounterpartyID, resp *types.VerificationResponse) {
	sc := s.begin()
	defer s.end(ctx, sc)

	applied := false
	defer func() {
		label := "ignored"
		if applied {
			label = "applied"
		}
		crossChainMessagesTotal.WithLabelValues(string(types.MessageVerificationResponse), label).Inc()
		sc.emit(events.EventTypeCrossChainVerificationReceived, &types.CrossChainVerificationReceivedEvent{
			ClaimID: resp.ClaimID, Counterparty: from, Result: resp.Result, Applied: applied,
		})
	}()

	entry, ok := s.cross.Get(resp.ClaimID)
	if !ok {
		s.logger.Debugf("跨链应答无对应条目，忽略: claim=%s from=%d", resp.ClaimID, from)
		return
	}
	if entry.Counterparty != from {
		s.logger.Warnf("跨链应答发送方不匹配，忽略: claim=%s expected=%d from=%d", resp.ClaimID, entry.Counterparty, from)
		return
	}
	c, found := s.claim(entry.ProductID, resp.ClaimID)
	if !found {
		s.logger.Errorf("跨链条目缺少声明: claim=%s", resp.ClaimID)
		return
	}

	var status types.ClaimStatus
	switch resp.Result.Kind {
	case types.RemoteSuccess:
		status = types.StatusApproved()
	case types.RemoteFailure:
		status = types.StatusRejected(resp.Result.Reason)
	case types.RemoteImpossible:
		reason := resp.Result.Reason
		if reason == "" {
			reason = "verification impossible"
		}
		status = types.StatusFailed(reason)
	case types.RemotePending:
		s.cross.Remove(resp.ClaimID)
		entry.Deadline = s.crossChainDeadline()
		s.cross.InsertOrdered(resp.ClaimID, entry, s.nextSeq(), crossChainLess)
		sc.changes.crossEntry(resp.ClaimID)
		applied = true
		s.logger.Debugf("对端仍在验证，刷新截止时间: claim=%s deadline=%d", resp.ClaimID, entry.Deadline)
		return
	default:
		s.logger.Warnf("未知对端结果，忽略: claim=%s kind=%s", resp.ClaimID, resp.Result.Kind)
		return
	}

	if err := s.finalize(sc, c, status, types.ResolutionCrossChain, ""); err != nil {
		s.logger.Errorf("应用跨链结果失败: claim=%s err=%v", resp.ClaimID, err)
		return
	}
	applied = true
	s.logger.Infof("跨链声明已裁决: product=%s claim=%s outcome=%s", c.ProductID, c.ID, status)
}

// handleCredentialRevocation 记录凭证撤销，不影响声明
func (s *Service) handleCredentialRevocation(ctx context.Context, from types.CounterpartyID, rev *types.CredentialRevocation) {
	sc := s.begin()
	defer s.end(ctx, sc)

	s.revoked[rev.CredentialID] = rev.Reason
	sc.changes.credential(rev.CredentialID)
	sc.emit(events.EventTypeCredentialRevoked, &types.CredentialRevokedEvent{CredentialID: rev.CredentialID, Reason: rev.Reason, From: from})
	crossChainMessagesTotal.WithLabelValues(string(types.MessageCredentialRevocation), "applied").Inc()
	s.logger.Infof("凭证已撤销: credential=%s from=%d", rev.CredentialID, from)
}

// handleRequest 以本地验证器评估对端请求并回复
func (s *Service) handleRequest(ctx context.Context, from types.CounterpartyID, msg *types.CrossChainMessage) {
	req := msg.Request
	outcome := s.verifier.Evaluate(req.Type, req.Proof, req.PublicInputs)
	reply := types.NewVerificationResponseMessage(req.ClaimID, types.RemoteResultFromOutcome(outcome))
	reply.CorrelationID = msg.CorrelationID

	crossChainMessagesTotal.WithLabelValues(string(types.MessageVerificationRequest), "received").Inc()
	if s.delivery == nil {
		s.logger.Warnf("未配置投递通道，无法回复验证请求: claim=%s from=%d", req.ClaimID, from)
		return
	}
	if err := s.delivery.Send(ctx, from, reply); err != nil {
		s.logger.Warnf("回复验证请求失败: claim=%s to=%d err=%v", req.ClaimID, from, err)
		return
	}
	s.logger.Debugf("已回复验证请求: claim=%s to=%d verdict=%s", req.ClaimID, from, outcome.Verdict)
}
