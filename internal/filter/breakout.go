// Package filter 定义选股条件（Criterion）与组合方式（And/Or），
// BreakoutCandidates 为"一进二"策略入口：今日首板 + 流通市值达标，
// 按主力净买入降序输出。
package filter

import (
	"context"
	"sort"
	"strings"

	"limitUpRadar/internal/model"
	"limitUpRadar/internal/trace"
)

// Gateway 过滤阶段需要的行情查询能力，由 api.Client 实现。
type Gateway interface {
	Valuation(ctx context.Context, code string) model.Valuation
	MainNetInflow(ctx context.Context, code string) float64
	PriceHistory(ctx context.Context, code string, count int) []model.PriceBar
}

// 近 5 日涨幅需要 6 根日 K（含当日）
const fiveDayBars = 6

// Criterion 单条条件：入参为涨停池单条记录，返回是否通过。
type Criterion func(*model.StockRecord) bool

func And(cs ...Criterion) Criterion {
	return func(s *model.StockRecord) bool {
		if s == nil {
			return false
		}
		for _, c := range cs {
			if c == nil {
				continue
			}
			if !c(s) {
				return false
			}
		}
		return true
	}
}

func Or(cs ...Criterion) Criterion {
	return func(s *model.StockRecord) bool {
		if s == nil {
			return false
		}
		for _, c := range cs {
			if c == nil {
				continue
			}
			if c(s) {
				return true
			}
		}
		return false
	}
}

// FirstBoard 首板：不在昨日涨停池里。
func FirstBoard(yesterday map[string]struct{}) Criterion {
	return func(s *model.StockRecord) bool {
		_, seen := yesterday[strings.TrimSpace(s.Code)]
		return !seen
	}
}

// CapAbove 流通市值(亿)大于阈值。
func CapAbove(threshold float64) Criterion {
	return func(s *model.StockRecord) bool {
		return s.CirculatingCap > threshold
	}
}

// InUniverse 在给定的可交易股票集合里（集合为空时不设限）。
// 集合来自全市场列表，已剔除科创板、ST 与按配置剔除的创业板。
func InUniverse(allowed map[string]struct{}) Criterion {
	return func(s *model.StockRecord) bool {
		if len(allowed) == 0 {
			return true
		}
		_, ok := allowed[strings.TrimSpace(s.Code)]
		return ok
	}
}

// BreakoutCandidates 从今日涨停池里挑"一进二"候选：
//  1. 剔除昨日已涨停的（非首板）；
//  2. 剔除不在可交易集合 universe 里的（集合为空时不设限）；
//  3. 流通市值缺失时用单股接口补一次，仍拿不到按 0 处理；
//  4. 流通市值须大于 capThreshold（亿）；
//  5. 附加当日主力净买入、近 5 日涨幅，并按主力净买入降序稳定排序。
//
// today 为空时返回空切片。候选的 Reason 留空，由标注阶段填写。
func BreakoutCandidates(ctx context.Context, gw Gateway, today, yesterday []model.StockRecord, universe map[string]struct{}, capThreshold float64) []model.BreakoutCandidate {
	prev := make(map[string]struct{}, len(yesterday))
	for _, s := range yesterday {
		prev[strings.TrimSpace(s.Code)] = struct{}{}
	}
	keep := And(FirstBoard(prev), InUniverse(universe))

	out := make([]model.BreakoutCandidate, 0, len(today))
	for i := range today {
		s := today[i]
		if !keep(&s) {
			continue
		}
		if s.CirculatingCap <= 0 && gw != nil {
			v := gw.Valuation(ctx, s.Code)
			s.CirculatingCap = v.CirculatingCap
			if s.TurnoverRatio <= 0 {
				s.TurnoverRatio = v.TurnoverRatio
			}
		}
		if !CapAbove(capThreshold)(&s) {
			trace.Log(ctx, "filter: 跳过 %s %s 流通市值 %.2f 亿未达 %.0f 亿", s.Code, s.Name, s.CirculatingCap, capThreshold)
			continue
		}
		c := model.BreakoutCandidate{StockRecord: s}
		if gw != nil {
			c.MainNetInflow = gw.MainNetInflow(ctx, s.Code)
			c.FiveDayChange = fiveDayChange(gw.PriceHistory(ctx, s.Code, fiveDayBars))
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MainNetInflow > out[j].MainNetInflow
	})
	trace.Log(ctx, "filter: 今日池 %d 只，一进二候选 %d 只", len(today), len(out))
	return out
}

// fiveDayChange 用最近 6 根日 K 算近 5 日涨幅(%)，K 线不足或基准为 0 时返回 0。
func fiveDayChange(bars []model.PriceBar) float64 {
	if len(bars) < fiveDayBars {
		return 0
	}
	base := bars[len(bars)-fiveDayBars].Close
	last := bars[len(bars)-1].Close
	if base <= 0 || last <= 0 {
		return 0
	}
	return (last/base - 1) * 100
}
