package api

import (
	"testing"

	"limitUpRadar/internal/model"
)

func TestParseZTPool(t *testing.T) {
	body := []byte(`{"data":{"pool":[
		{"c":"600519","n":"贵州茅台","p":1800500,"zdp":10.01,"amount":5200000000,
		 "ltsz":220000000000,"hs":1.5,"hybk":"白酒","fbt":94500,"zbc":0,"lbc":2},
		{"c":"000001","n":"平安银行","p":12340,"zdp":10.02,"amount":800000000,
		 "ltsz":3000000000,"hs":6.2,"hybk":"银行","fbt":133001,"zbc":2,"lbc":1}
	]}}`)
	got := parseZTPool(body)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	first := got[0]
	if first.Code != "600519" || first.Name != "贵州茅台" {
		t.Errorf("first = %+v", first)
	}
	if first.ClosePrice != 1800.5 {
		t.Errorf("ClosePrice = %v, want 1800.5", first.ClosePrice)
	}
	if first.TurnoverAmount != 52 {
		t.Errorf("TurnoverAmount = %v 亿, want 52", first.TurnoverAmount)
	}
	if first.CirculatingCap != 2200 {
		t.Errorf("CirculatingCap = %v 亿, want 2200", first.CirculatingCap)
	}
	if first.SealTime != "09:45" {
		t.Errorf("SealTime = %q, want 09:45", first.SealTime)
	}
	if first.HasOpened != model.OpenedNo || first.Streak != 2 {
		t.Errorf("封板信息 = %+v", first)
	}
	second := got[1]
	if second.SealTime != "13:30" || second.HasOpened != model.OpenedYes || second.BrokenCount != 2 {
		t.Errorf("second = %+v", second)
	}
}

func TestParseZTPoolMalformed(t *testing.T) {
	for _, body := range []string{"", "{}", `{"data":null}`, `{"data":{"pool":"x"}}`, "not json"} {
		if got := parseZTPool([]byte(body)); got != nil {
			t.Errorf("parseZTPool(%q) = %v, want nil", body, got)
		}
	}
}

func TestFormatSealTime(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{94500, "09:45"},
		{133001, "13:30"},
		{0, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := formatSealTime(tt.in); got != tt.want {
			t.Errorf("formatSealTime(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeepListed(t *testing.T) {
	tests := []struct {
		code, name     string
		includeChiNext bool
		want           bool
	}{
		{"600519", "贵州茅台", false, true},
		{"000001", "平安银行", false, true},
		{"688001", "科创股", true, false},
		{"300750", "宁德时代", false, false},
		{"300750", "宁德时代", true, true},
		{"600001", "ST某某", true, false},
		{"600002", "*ST某某", true, false},
		{"", "无代码", true, false},
	}
	for _, tt := range tests {
		if got := keepListed(tt.code, tt.name, tt.includeChiNext); got != tt.want {
			t.Errorf("keepListed(%q, %q, %v) = %v, want %v", tt.code, tt.name, tt.includeChiNext, got, tt.want)
		}
	}
}

func TestSecID(t *testing.T) {
	tests := []struct {
		code, want string
	}{
		{"600519", "1.600519"},
		{"510300", "1.510300"},
		{"900901", "1.900901"},
		{"000001", "0.000001"},
		{"300750", "0.300750"},
	}
	for _, tt := range tests {
		if got := secID(tt.code); got != tt.want {
			t.Errorf("secID(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestFormatUnixTime(t *testing.T) {
	if got := formatUnixTime("abc"); got != "abc" {
		t.Errorf("非数字应原样返回, got %q", got)
	}
	if got := formatUnixTime("0"); got != "0" {
		t.Errorf("0 应原样返回, got %q", got)
	}
	if got := formatUnixTime("1756600000"); len(got) != 8 || got[2] != ':' {
		t.Errorf("应为 HH:MM:SS, got %q", got)
	}
}
