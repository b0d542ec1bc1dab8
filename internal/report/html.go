// Package report 把涨停池与一进二候选渲染为自包含 HTML 报表，
// 以及可选的 Excel 导出。渲染是纯函数，不发请求。
package report

import (
	"fmt"
	"strings"

	"limitUpRadar/internal/model"
)

// 页面内唯一的外部引用：echarts CDN 脚本
const echartsCDN = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

const emptyRowText = "暂无数据"

// Data 一次渲染需要的全部输入。
type Data struct {
	Date          string // YYYY-MM-DD
	Candidates    []model.BreakoutCandidate
	TodayPool     []model.StockRecord
	YesterdayPool []model.StockRecord
}

// RenderHTML 渲染完整报表页面：一进二候选表 + 今日/昨日涨停池表。
// 任一表为空时渲染明确的"暂无数据"行，缺失字段展示 "-"。
func RenderHTML(d Data) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="zh-CN"><head><meta charset="UTF-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	b.WriteString(fmt.Sprintf(`<title>涨停股池报表 %s</title>`, escapeHTML(d.Date)))
	b.WriteString(fmt.Sprintf(`<script src="%s"></script>`, echartsCDN))
	b.WriteString(`<style>
body{font-family:"Microsoft YaHei",Arial,sans-serif;margin:20px;background:#f5f6f8;color:#333}
h1{font-size:22px}h2{font-size:17px;margin-top:28px}
table{border-collapse:collapse;width:100%;background:#fff;font-size:13px;box-shadow:0 1px 3px rgba(0,0,0,.08)}
th,td{border:1px solid #e0e0e0;padding:6px 10px;text-align:center}
thead tr{background:#2c3e50;color:#fff}
tbody tr:nth-child(even){background:#fafafa}
.up{color:#d43c33}.empty{color:#999;padding:18px}
</style></head><body>`)
	b.WriteString(fmt.Sprintf(`<h1>涨停股池报表 <small>%s</small></h1>`, escapeHTML(d.Date)))

	b.WriteString(fmt.Sprintf(`<h2>一进二候选（首板·流通市值达标·按主力净买入降序，共 %d 只）</h2>`, len(d.Candidates)))
	writeCandidateTable(&b, d.Candidates)

	b.WriteString(fmt.Sprintf(`<h2>今日涨停池（%d 只）</h2>`, len(d.TodayPool)))
	writePoolTable(&b, d.TodayPool)

	b.WriteString(fmt.Sprintf(`<h2>昨日涨停池（%d 只）</h2>`, len(d.YesterdayPool)))
	writePoolTable(&b, d.YesterdayPool)

	b.WriteString(`</body></html>`)
	return b.String()
}

func writeCandidateTable(b *strings.Builder, cs []model.BreakoutCandidate) {
	b.WriteString(`<table><thead><tr><th>排名</th><th>代码</th><th>名称</th><th>收盘价</th><th>涨幅%</th><th>近5日涨幅%</th><th>主力净买入(万)</th><th>流通市值(亿)</th><th>换手%</th><th>行业</th><th>封板时间</th><th>是否开板</th><th>涨停原因</th></tr></thead><tbody>`)
	if len(cs) == 0 {
		b.WriteString(fmt.Sprintf(`<tr><td colspan="13" class="empty">%s</td></tr>`, emptyRowText))
	}
	for i, c := range cs {
		b.WriteString(fmt.Sprintf(
			`<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td class="up">%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			i+1,
			escapeHTML(c.Code), escapeHTML(c.Name),
			num2(c.ClosePrice), num2(c.ChangePct), num2(c.FiveDayChange), num2(c.MainNetInflow),
			num2(c.CirculatingCap), num2(c.TurnoverRatio),
			dash(c.Industry), dash(c.SealTime),
			c.HasOpened.String(), dash(c.Reason)))
	}
	b.WriteString(`</tbody></table>`)
}

func writePoolTable(b *strings.Builder, pool []model.StockRecord) {
	b.WriteString(`<table><thead><tr><th>代码</th><th>名称</th><th>收盘价</th><th>涨幅%</th><th>成交额(亿)</th><th>流通市值(亿)</th><th>换手%</th><th>行业</th><th>封板时间</th><th>炸板次数</th><th>连板数</th></tr></thead><tbody>`)
	if len(pool) == 0 {
		b.WriteString(fmt.Sprintf(`<tr><td colspan="11" class="empty">%s</td></tr>`, emptyRowText))
	}
	for _, s := range pool {
		b.WriteString(fmt.Sprintf(
			`<tr><td>%s</td><td>%s</td><td>%s</td><td class="up">%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td></tr>`,
			escapeHTML(s.Code), escapeHTML(s.Name),
			num2(s.ClosePrice), num2(s.ChangePct), num2(s.TurnoverAmount),
			num2(s.CirculatingCap), num2(s.TurnoverRatio),
			dash(s.Industry), dash(s.SealTime),
			s.BrokenCount, s.Streak))
	}
	b.WriteString(`</tbody></table>`)
}

// num2 两位小数；0 视为缺失展示 "-"。
func num2(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return escapeHTML(s)
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
