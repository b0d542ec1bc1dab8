// Package calendar 计算最近交易日与 N 日回溯交易日列表。
// 只排除周末，不查节假日：法定假日若落在工作日会被当成交易日（已知局限）。
package calendar

import "time"

// A 股收盘时间：当日 15:00 后才算当日数据可用
const closeHour = 15

// LatestTradingDate 返回 now 对应的最近一个可用交易日（纯函数，不发请求）：
// 周六/周日回退到周五；工作日 15:00 前回退到上一个工作日，15:00 起算当天。
func LatestTradingDate(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch now.Weekday() {
	case time.Saturday:
		return day.AddDate(0, 0, -1)
	case time.Sunday:
		return day.AddDate(0, 0, -2)
	}
	if now.Hour() >= closeHour {
		return day
	}
	return prevWeekday(day)
}

// RecentTradingDates 从 end 起逐日回走，只保留周一至周五，凑满 count 个后升序返回。
func RecentTradingDates(end time.Time, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	dates := make([]time.Time, 0, count)
	for len(dates) < count {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, -1)
	}
	// 回走是倒序收集的，反转为升序
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates
}

func prevWeekday(day time.Time) time.Time {
	d := day.AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
