package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"limitUpRadar/internal/model"
	"limitUpRadar/internal/trace"
)

// 行情接口地址
const (
	ztPoolURL     = "https://push2ex.eastmoney.com/getTopicZTPool"
	ztPrevPoolURL = "https://push2ex.eastmoney.com/getYesterdayZTPool"
	listURL       = "https://82.push2.eastmoney.com/api/qt/clist/get"
	quoteURL      = "https://push2.eastmoney.com/api/qt/stock/get"
	ulistURL      = "https://push2.eastmoney.com/api/qt/ulist.np/get"
	klineURL      = "https://push2his.eastmoney.com/api/qt/stock/kline/get"
)

// 涨停池接口的 ut 固定参数与分页大小
const (
	ztPoolUT   = "7eea3edcaed734bea9cbfc24409ed989"
	ztPageSize = 1000
)

// 全市场列表：沪深主板+创业板+科创板，f12 代码 f14 名称
const (
	listFS       = "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"
	listFields   = "f12,f14"
	listPageSize = 500
)

const dateFormatCompact = "20060102"

// 金额换算：元 -> 亿 / 万
const (
	yuanPerYi  = 1e8
	yuanPerWan = 1e4
)

// LimitUpPool 拉取 date 当日涨停股池快照。上游失败或无数据时返回空切片并打日志，
// 不向外抛错（缺失按"未知"处理）。
func (c *Client) LimitUpPool(ctx context.Context, date time.Time) []model.StockRecord {
	url := fmt.Sprintf("%s?ut=%s&dpt=wz.ztzt&Pageindex=0&pagesize=%d&sort=fbt:asc&date=%s",
		ztPoolURL, ztPoolUT, ztPageSize, date.Format(dateFormatCompact))
	body, err := c.get(ctx, url)
	if err != nil {
		trace.Log(ctx, "api: LimitUpPool date=%s err=%v", date.Format(dateFormatCompact), err)
		return nil
	}
	pool := parseZTPool(body)
	trace.Log(ctx, "api: LimitUpPool date=%s count=%d", date.Format(dateFormatCompact), len(pool))
	return pool
}

// PreviousLimitUpPool 拉取 date 视角下"昨日涨停"股池（上一交易日封板、今日表现）。
func (c *Client) PreviousLimitUpPool(ctx context.Context, date time.Time) []model.StockRecord {
	url := fmt.Sprintf("%s?ut=%s&dpt=wz.ztzt&Pageindex=0&pagesize=%d&sort=zs:desc&date=%s",
		ztPrevPoolURL, ztPoolUT, ztPageSize, date.Format(dateFormatCompact))
	body, err := c.get(ctx, url)
	if err != nil {
		trace.Log(ctx, "api: PreviousLimitUpPool date=%s err=%v", date.Format(dateFormatCompact), err)
		return nil
	}
	pool := parseZTPool(body)
	trace.Log(ctx, "api: PreviousLimitUpPool date=%s count=%d", date.Format(dateFormatCompact), len(pool))
	return pool
}

// parseZTPool 解析涨停池 data.pool：c 代码 n 名称 p 最新价(×1000) zdp 涨跌幅
// amount 成交额(元) ltsz 流通市值(元) hs 换手率 hybk 行业 fbt 首次封板时间(HHMMSS)
// zbc 炸板次数 lbc 连板数。今日池与昨日池字段同构，缺失字段落为零值。
func parseZTPool(body []byte) []model.StockRecord {
	pool := gjson.GetBytes(body, "data.pool")
	if !pool.Exists() || !pool.IsArray() {
		return nil
	}
	arr := pool.Array()
	out := make([]model.StockRecord, 0, len(arr))
	for _, v := range arr {
		code := strings.TrimSpace(v.Get("c").String())
		if code == "" {
			continue
		}
		zbc := int(v.Get("zbc").Int())
		opened := model.OpenedNo
		if zbc > 0 {
			opened = model.OpenedYes
		}
		out = append(out, model.StockRecord{
			Code:           code,
			Name:           strings.TrimSpace(v.Get("n").String()),
			ClosePrice:     v.Get("p").Float() / 1000,
			ChangePct:      v.Get("zdp").Float(),
			TurnoverAmount: v.Get("amount").Float() / yuanPerYi,
			TurnoverRatio:  v.Get("hs").Float(),
			CirculatingCap: v.Get("ltsz").Float() / yuanPerYi,
			Industry:       strings.TrimSpace(v.Get("hybk").String()),
			SealTime:       formatSealTime(v.Get("fbt").Int()),
			BrokenCount:    zbc,
			Streak:         int(v.Get("lbc").Int()),
			HasOpened:      opened,
		})
	}
	return out
}

// formatSealTime 把 HHMMSS 整数转为 HH:MM，0 表示缺失。
func formatSealTime(t int64) string {
	if t <= 0 {
		return ""
	}
	s := fmt.Sprintf("%06d", t)
	return s[:2] + ":" + s[2:4]
}

// AllListedStocks 分页拉全市场代码与名称，剔除科创板(68 开头)、
// ST/*ST；includeChiNext=false 时再剔除创业板(3 开头)。失败返回已收集部分。
func (c *Client) AllListedStocks(ctx context.Context, includeChiNext bool) []model.StockBrief {
	var all []model.StockBrief
	page := 1
	for {
		url := fmt.Sprintf("%s?pn=%d&pz=%d&fs=%s&fields=%s", listURL, page, listPageSize, listFS, listFields)
		body, err := c.get(ctx, url)
		if err != nil {
			trace.Log(ctx, "api: AllListedStocks page=%d err=%v", page, err)
			return all
		}
		total := int(gjson.GetBytes(body, "data.total").Int())
		diff := gjson.GetBytes(body, "data.diff")
		count := 0
		diff.ForEach(func(_, v gjson.Result) bool {
			count++
			code := strings.TrimSpace(v.Get("f12").String())
			name := strings.TrimSpace(v.Get("f14").String())
			if !keepListed(code, name, includeChiNext) {
				return true
			}
			all = append(all, model.StockBrief{Code: code, Name: name})
			return true
		})
		if count == 0 || count < listPageSize || total <= page*listPageSize {
			break
		}
		page++
	}
	trace.Log(ctx, "api: AllListedStocks count=%d includeChiNext=%v", len(all), includeChiNext)
	return all
}

func keepListed(code, name string, includeChiNext bool) bool {
	if code == "" {
		return false
	}
	if strings.HasPrefix(code, "68") {
		return false
	}
	if !includeChiNext && strings.HasPrefix(code, "3") {
		return false
	}
	if strings.Contains(strings.ToUpper(name), "ST") {
		return false
	}
	return true
}

// Valuation 单股换手率与流通市值快照，拿不到的字段为 0。
func (c *Client) Valuation(ctx context.Context, code string) model.Valuation {
	url := fmt.Sprintf("%s?secid=%s&invt=2&fltt=2&fields=f117,f168", quoteURL, secID(code))
	body, err := c.get(ctx, url)
	if err != nil {
		trace.Log(ctx, "api: Valuation code=%s err=%v", code, err)
		return model.Valuation{}
	}
	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		trace.Log(ctx, "api: Valuation code=%s 无 data", code)
		return model.Valuation{}
	}
	return model.Valuation{
		TurnoverRatio:  data.Get("f168").Float(),
		CirculatingCap: data.Get("f117").Float() / yuanPerYi,
	}
}

// MainNetInflow 单股当日主力净买入(万元)，拿不到返回 0。
func (c *Client) MainNetInflow(ctx context.Context, code string) float64 {
	url := fmt.Sprintf("%s?fltt=2&secids=%s&fields=f12,f62", ulistURL, secID(code))
	body, err := c.get(ctx, url)
	if err != nil {
		trace.Log(ctx, "api: MainNetInflow code=%s err=%v", code, err)
		return 0
	}
	diff := gjson.GetBytes(body, "data.diff")
	if !diff.Exists() || len(diff.Array()) == 0 {
		return 0
	}
	return diff.Array()[0].Get("f62").Float() / yuanPerWan
}

// PriceHistory 拉前复权日 K 最近 count 根，PreviousClose 由相邻收盘推得。
func (c *Client) PriceHistory(ctx context.Context, code string, count int) []model.PriceBar {
	if code == "" || count <= 0 {
		return nil
	}
	if count > 1000 {
		count = 1000
	}
	url := fmt.Sprintf("%s?secid=%s&fields1=f1,f2,f3&fields2=f51,f52,f53&klt=101&fqt=1&lmt=%d",
		klineURL, secID(code), count)
	body, err := c.get(ctx, url)
	if err != nil {
		trace.Log(ctx, "api: PriceHistory code=%s err=%v", code, err)
		return nil
	}
	klines := gjson.GetBytes(body, "data.klines")
	if !klines.Exists() || !klines.IsArray() {
		trace.Log(ctx, "api: PriceHistory code=%s 无 data.klines", code)
		return nil
	}
	arr := klines.Array()
	out := make([]model.PriceBar, 0, len(arr))
	prevClose := 0.0
	for _, v := range arr {
		parts := strings.Split(strings.TrimSpace(v.String()), ",")
		if len(parts) < 3 {
			continue
		}
		closeVal, _ := strconv.ParseFloat(parts[2], 64)
		bar := model.PriceBar{Date: parts[0], Close: closeVal, PreviousClose: prevClose}
		out = append(out, bar)
		prevClose = closeVal
	}
	return out
}
