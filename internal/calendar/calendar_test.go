package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.Local)
}

func TestLatestTradingDate(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		// 2026-08-29 周六 / 08-30 周日 / 08-31 周一
		{"周六回退到周五", date(2026, 8, 29, 10), date(2026, 8, 28, 0)},
		{"周日回退到周五", date(2026, 8, 30, 10), date(2026, 8, 28, 0)},
		{"周一盘中回退到周五", date(2026, 8, 31, 14), date(2026, 8, 28, 0)},
		{"周一收盘后算当天", date(2026, 8, 31, 15), date(2026, 8, 31, 0)},
		{"周二收盘后算当天", date(2026, 9, 1, 16), date(2026, 9, 1, 0)},
		{"周二盘中回退到周一", date(2026, 9, 1, 9), date(2026, 8, 31, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LatestTradingDate(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("LatestTradingDate(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestRecentTradingDates(t *testing.T) {
	end := date(2026, 8, 31, 0) // 周一
	got := RecentTradingDates(end, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// 升序，均为工作日，且不晚于 end
	for i, d := range got {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			t.Errorf("dates[%d]=%v 是周末", i, d)
		}
		if d.After(end) {
			t.Errorf("dates[%d]=%v 晚于 end", i, d)
		}
		if i > 0 && !got[i-1].Before(d) {
			t.Errorf("dates 非升序: %v >= %v", got[i-1], d)
		}
	}
	// 周一往回走 3 个交易日：周四、周五、周一
	want := []time.Time{date(2026, 8, 27, 0), date(2026, 8, 28, 0), date(2026, 8, 31, 0)}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("dates[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRecentTradingDatesZeroCount(t *testing.T) {
	if got := RecentTradingDates(date(2026, 8, 31, 0), 0); got != nil {
		t.Errorf("count=0 应返回 nil, got %v", got)
	}
}
