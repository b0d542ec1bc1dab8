// Package worker 提供标注任务池：并发给打板候选补涨停原因，保持输入顺序。
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"limitUpRadar/internal/annotate"
	"limitUpRadar/internal/model"
	"limitUpRadar/internal/trace"
)

const (
	defaultConcurrency = 3
	perCallTimeout     = 40 * time.Second
	// 连续失败达到阈值后熔断：剩余任务直接落固定文案，不再发请求
	breakerThreshold = 3
)

// Annotator 单条标注能力，由 annotate.Annotator 实现。
type Annotator interface {
	Enabled() bool
	Annotate(ctx context.Context, s model.StockRecord) string
}

// Config 控制并发数与单次调用超时。
type Config struct {
	Concurrency int
	CallTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{Concurrency: defaultConcurrency, CallTimeout: perCallTimeout}
}

// Pool 标注任务池。带熔断：上游连续挂掉后不再空耗配额与时间。
type Pool struct {
	cfg       Config
	annotator Annotator

	consecFails int32
}

func NewPool(cfg Config, annotator Annotator) *Pool {
	if annotator == nil {
		panic("worker: annotator must not be nil")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = perCallTimeout
	}
	return &Pool{cfg: cfg, annotator: annotator}
}

// Run 给 candidates 逐只补 Reason，原地写回，顺序不变。
// 未启用标注时整批留空；熔断后剩余任务直接落 FailedReason。
func (p *Pool) Run(ctx context.Context, candidates []model.BreakoutCandidate) {
	if len(candidates) == 0 {
		return
	}
	if !p.annotator.Enabled() {
		trace.Log(ctx, "worker: 标注未启用，跳过 %d 只", len(candidates))
		return
	}
	trace.Log(ctx, "worker: 标注开始 count=%d concurrency=%d", len(candidates), p.cfg.Concurrency)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				candidates[idx].Reason = p.annotateOne(ctx, candidates[idx].StockRecord)
			}
		}()
	}
	for i := range candidates {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	trace.Log(ctx, "worker: 标注完成 count=%d", len(candidates))
}

func (p *Pool) annotateOne(ctx context.Context, s model.StockRecord) string {
	if atomic.LoadInt32(&p.consecFails) >= breakerThreshold {
		return annotate.FailedReason
	}
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()
	reason := p.annotator.Annotate(callCtx, s)
	if reason == annotate.FailedReason {
		n := atomic.AddInt32(&p.consecFails, 1)
		if n == breakerThreshold {
			trace.Log(ctx, "worker: 连续失败 %d 次，标注熔断", n)
		}
	} else {
		atomic.StoreInt32(&p.consecFails, 0)
	}
	return reason
}
