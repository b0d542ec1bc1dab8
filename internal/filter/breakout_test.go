package filter

import (
	"context"
	"testing"

	"limitUpRadar/internal/model"
)

// fakeGateway 固定返回预置的估值、主力净买入与日 K。
type fakeGateway struct {
	valuations map[string]model.Valuation
	inflows    map[string]float64
	bars       map[string][]model.PriceBar
}

func (f *fakeGateway) Valuation(_ context.Context, code string) model.Valuation {
	return f.valuations[code]
}

func (f *fakeGateway) MainNetInflow(_ context.Context, code string) float64 {
	return f.inflows[code]
}

func (f *fakeGateway) PriceHistory(_ context.Context, code string, _ int) []model.PriceBar {
	return f.bars[code]
}

func rec(code string, cap float64) model.StockRecord {
	return model.StockRecord{Code: code, Name: "股票" + code, CirculatingCap: cap}
}

func TestBreakoutCandidatesFirstBoardAndThreshold(t *testing.T) {
	today := []model.StockRecord{rec("A", 30), rec("C", 25), rec("D", 15)}
	yesterday := []model.StockRecord{rec("A", 30), rec("B", 40)}
	gw := &fakeGateway{inflows: map[string]float64{}}

	got := BreakoutCandidates(context.Background(), gw, today, yesterday, nil, 20)
	if len(got) != 1 || got[0].Code != "C" {
		t.Fatalf("候选 = %v, want 仅 C", codes(got))
	}
}

func TestBreakoutCandidatesThresholdFromGateway(t *testing.T) {
	// 池数据不带市值时走单股估值接口
	today := []model.StockRecord{rec("A", 0), rec("C", 0), rec("D", 0)}
	yesterday := []model.StockRecord{rec("A", 0), rec("B", 0)}
	gw := &fakeGateway{
		valuations: map[string]model.Valuation{
			"C": {CirculatingCap: 25},
			"D": {CirculatingCap: 15},
		},
		inflows: map[string]float64{},
	}
	got := BreakoutCandidates(context.Background(), gw, today, yesterday, nil, 20)
	if len(got) != 1 || got[0].Code != "C" {
		t.Fatalf("候选 = %v, want 仅 C", codes(got))
	}
}

func TestBreakoutCandidatesUniverse(t *testing.T) {
	today := []model.StockRecord{rec("600001", 30), rec("300999", 30)}
	gw := &fakeGateway{inflows: map[string]float64{}}
	// 创业板股不在可交易集合里
	universe := map[string]struct{}{"600001": {}}
	got := BreakoutCandidates(context.Background(), gw, today, nil, universe, 20)
	if len(got) != 1 || got[0].Code != "600001" {
		t.Fatalf("候选 = %v, want 仅 600001", codes(got))
	}
	// 空集合不设限
	got = BreakoutCandidates(context.Background(), gw, today, nil, nil, 20)
	if len(got) != 2 {
		t.Fatalf("空集合应不设限, got %v", codes(got))
	}
}

func TestBreakoutCandidatesSortedByInflowDesc(t *testing.T) {
	today := []model.StockRecord{rec("X", 30), rec("Y", 30), rec("Z", 30)}
	gw := &fakeGateway{inflows: map[string]float64{"X": 5, "Y": 20, "Z": 10}}

	got := BreakoutCandidates(context.Background(), gw, today, nil, nil, 20)
	want := []float64{20, 10, 5}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := range want {
		if got[i].MainNetInflow != want[i] {
			t.Errorf("candidates[%d].MainNetInflow = %v, want %v", i, got[i].MainNetInflow, want[i])
		}
	}
}

func TestBreakoutCandidatesFillsMissingCap(t *testing.T) {
	today := []model.StockRecord{rec("M", 0)}
	gw := &fakeGateway{
		valuations: map[string]model.Valuation{"M": {CirculatingCap: 50, TurnoverRatio: 8}},
		inflows:    map[string]float64{"M": 1},
	}
	got := BreakoutCandidates(context.Background(), gw, today, nil, nil, 20)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].CirculatingCap != 50 || got[0].TurnoverRatio != 8 {
		t.Errorf("估值未补齐: cap=%v turnover=%v", got[0].CirculatingCap, got[0].TurnoverRatio)
	}
}

func TestBreakoutCandidatesEmptyToday(t *testing.T) {
	got := BreakoutCandidates(context.Background(), &fakeGateway{}, nil, nil, nil, 20)
	if len(got) != 0 {
		t.Errorf("空池应返回空候选, got %d", len(got))
	}
}

func TestCriterionCombinators(t *testing.T) {
	pass := Criterion(func(*model.StockRecord) bool { return true })
	fail := Criterion(func(*model.StockRecord) bool { return false })
	s := rec("A", 30)

	if !And(pass, pass)(&s) || And(pass, fail)(&s) {
		t.Error("And 组合结果不正确")
	}
	if !Or(fail, pass)(&s) || Or(fail, fail)(&s) {
		t.Error("Or 组合结果不正确")
	}
	if And(pass)(nil) {
		t.Error("nil 记录应不通过")
	}
}

func TestFiveDayChange(t *testing.T) {
	bars := func(closes ...float64) []model.PriceBar {
		out := make([]model.PriceBar, len(closes))
		for i, c := range closes {
			out[i].Close = c
		}
		return out
	}
	tests := []struct {
		name string
		in   []model.PriceBar
		want float64
	}{
		{"上涨 10%", bars(10, 10.2, 10.5, 10.8, 10.9, 11), 10},
		{"K 线不足", bars(10, 11), 0},
		{"基准为 0", bars(0, 1, 2, 3, 4, 5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fiveDayChange(tt.in)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("fiveDayChange = %v, want %v", got, tt.want)
			}
		})
	}
}

func codes(cs []model.BreakoutCandidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Code)
	}
	return out
}
