package mail

import (
	"context"
	"strings"
	"testing"

	"limitUpRadar/internal/model"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  SMTPConfig
		want bool
	}{
		{"全配置", SMTPConfig{Server: "smtp.example.com", From: "a@x", To: "b@x"}, true},
		{"缺 server", SMTPConfig{From: "a@x", To: "b@x"}, false},
		{"缺收件人", SMTPConfig{Server: "smtp.example.com", From: "a@x"}, false},
		{"空白配置", SMTPConfig{Server: "  "}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSendReportSkipsWhenDisabled(t *testing.T) {
	cs := []model.BreakoutCandidate{{StockRecord: model.StockRecord{Code: "600519"}}}
	if err := SendReport(context.Background(), &SMTPConfig{}, "2026-08-31", cs); err != nil {
		t.Errorf("未配置应返回 nil, got %v", err)
	}
	if err := SendReport(context.Background(), nil, "2026-08-31", cs); err != nil {
		t.Errorf("nil 配置应返回 nil, got %v", err)
	}
}

func TestBuildHTMLTable(t *testing.T) {
	cs := []model.BreakoutCandidate{
		{StockRecord: model.StockRecord{Code: "600519", Name: "贵州茅台", ChangePct: 10.01, MainNetInflow: 52000, CirculatingCap: 2200}, Reason: "白酒景气回升"},
		{StockRecord: model.StockRecord{Code: "000001", Name: "平安银行"}},
	}
	html := buildHTMLTable("2026-08-31", cs)
	for _, want := range []string{"2026-08-31", "600519", "贵州茅台", "白酒景气回升"} {
		if !strings.Contains(html, want) {
			t.Errorf("缺少 %q", want)
		}
	}
	// 无标注的候选展示 "-"
	if !strings.Contains(html, "<td>-</td>") {
		t.Error("空 Reason 应展示 -")
	}
}
