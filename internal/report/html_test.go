package report

import (
	"strings"
	"testing"

	"limitUpRadar/internal/model"
)

func TestRenderHTMLEmpty(t *testing.T) {
	html := RenderHTML(Data{Date: "2026-08-31"})
	if !strings.Contains(html, "暂无数据") {
		t.Error("空数据应渲染暂无数据行")
	}
	// 三个表都为空，各出一行
	if n := strings.Count(html, "暂无数据"); n != 3 {
		t.Errorf("暂无数据行数 = %d, want 3", n)
	}
	if !strings.Contains(html, "2026-08-31") {
		t.Error("应包含日期")
	}
}

func TestRenderHTMLCandidateRow(t *testing.T) {
	c := model.BreakoutCandidate{
		StockRecord: model.StockRecord{
			Code: "600519", Name: "贵州茅台", ClosePrice: 1800.5, ChangePct: 10.01,
			MainNetInflow: 52000, CirculatingCap: 2200, TurnoverRatio: 1.5,
			Industry: "白酒", SealTime: "09:45", HasOpened: model.OpenedNo,
		},
		Reason: "白酒景气回升",
	}
	html := RenderHTML(Data{Date: "2026-08-31", Candidates: []model.BreakoutCandidate{c}})
	for _, want := range []string{"600519", "贵州茅台", "1800.50", "10.01", "52000.00", "白酒景气回升", "否"} {
		if !strings.Contains(html, want) {
			t.Errorf("缺少 %q", want)
		}
	}
}

func TestRenderHTMLMissingFieldsAsDash(t *testing.T) {
	s := model.StockRecord{Code: "000001", Name: "平安银行"}
	html := RenderHTML(Data{Date: "2026-08-31", TodayPool: []model.StockRecord{s}})
	// 收盘价/涨幅等缺失字段渲染 "-"
	if !strings.Contains(html, "<td>-</td>") {
		t.Error("缺失字段应渲染 -")
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	s := model.StockRecord{Code: "000001", Name: `<b>"X"&Y</b>`}
	html := RenderHTML(Data{Date: "2026-08-31", TodayPool: []model.StockRecord{s}})
	if strings.Contains(html, "<b>") {
		t.Error("名称未转义")
	}
	if !strings.Contains(html, "&lt;b&gt;&quot;X&quot;&amp;Y&lt;/b&gt;") {
		t.Error("转义结果不正确")
	}
}
