package origin

import (
	"context"

	"github.com/weisyn/originverifier/pkg/types"
)

// OnTick 在逻辑刻度 now 处理待验证条目
//
// 1. 本地队列：从队首起最多检查 min(L, 队列长度) 个条目；
//    已到期 → TimedOut（不调用验证器），Valid → Approved，Invalid → Rejected，
//    Indeterminate → 移到队尾，留待后续 tick。
// 2. 跨链队列：使用剩余预算，只检查截止时间；队列按截止时间有序，遇到第一个未到期条目即停止。
func (s *Service) OnTick(ctx context.Context, now types.BlockNumber) types.TickReport {
	sc := s.begin()
	defer s.end(ctx, sc)

	if now < s.now {
		s.logger.Warnf("忽略回退的 tick: now=%d current=%d", now, s.now)
		return types.TickReport{Now: s.now}
	}
	s.now = now
	sc.changes.meta()

	report := types.TickReport{Now: now}
	budget := s.opts.MaxVerificationsPerTick

	limit := s.local.Len()
	if limit > budget {
		limit = budget
	}
	for i := 0; i < limit; i++ {
		key, entry, ok := s.local.Front()
		if !ok {
			break
		}
		report.Examined++
		s.processLocal(sc, key, entry, &report)
	}

	for report.Examined < budget {
		claimID, entry, ok := s.cross.Front()
		if !ok || now < entry.Deadline {
			break
		}
		report.Examined++
		c, found := s.claim(entry.ProductID, claimID)
		if !found {
			s.logger.Errorf("跨链条目缺少声明: claim=%s", claimID)
			s.cross.Remove(claimID)
			sc.changes.crossEntry(claimID)
			report.Errors++
			continue
		}
		if err := s.finalize(sc, c, types.StatusTimedOut(), types.ResolutionTimeout, ""); err != nil {
			s.logger.Errorf("跨链声明超时处理失败: claim=%s err=%v", claimID, err)
			report.Errors++
			break
		}
		report.TimedOut++
	}

	tickExaminedHistogram.Observe(float64(report.Examined))
	if report.Examined > 0 {
		s.logger.Debugf("tick 处理完成: now=%d examined=%d approved=%d rejected=%d timed_out=%d indeterminate=%d errors=%d",
			now, report.Examined, report.Approved, report.Rejected, report.TimedOut, report.Indeterminate, report.Errors)
	}
	return report
}

// processLocal 处理单个本地条目
func (s *Service) processLocal(sc *opScope, key claimKey, entry types.PendingEntry, report *types.TickReport) {
	c, found := s.claim(key.product, key.claim)
	if !found {
		s.logger.Errorf("本地条目缺少声明: product=%s claim=%s", key.product, key.claim)
		s.local.Remove(key)
		sc.changes.localEntry(key)
		report.Errors++
		return
	}

	if s.now >= entry.Deadline {
		if err := s.finalize(sc, c, types.StatusTimedOut(), types.ResolutionTimeout, ""); err != nil {
			s.requeue(sc, key, err, report)
			return
		}
		report.TimedOut++
		return
	}

	outcome := s.verifier.Evaluate(c.Type, c.Proof, c.PublicInputs)
	verificationsTotal.WithLabelValues(outcome.Verdict.String()).Inc()
	switch outcome.Verdict {
	case types.VerdictValid:
		if err := s.finalize(sc, c, types.StatusApproved(), types.ResolutionAutomatic, ""); err != nil {
			s.requeue(sc, key, err, report)
			return
		}
		report.Approved++
	case types.VerdictInvalid:
		if err := s.finalize(sc, c, types.StatusRejected(outcome.Reason), types.ResolutionAutomatic, ""); err != nil {
			s.requeue(sc, key, err, report)
			return
		}
		report.Rejected++
	default:
		s.local.MoveToBack(key, s.nextSeq())
		sc.changes.localEntry(key)
		report.Indeterminate++
	}
}

// requeue 处理失败的条目移到队尾，避免阻塞队首
func (s *Service) requeue(sc *opScope, key claimKey, err error, report *types.TickReport) {
	s.logger.Errorf("声明终态处理失败: product=%s claim=%s err=%v", key.product, key.claim, err)
	s.local.MoveToBack(key, s.nextSeq())
	sc.changes.localEntry(key)
	report.Errors++
}
