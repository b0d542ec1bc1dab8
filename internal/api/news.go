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

// 新闻与热榜接口地址
const (
	fastNewsURL = "https://np-listapi.eastmoney.com/comm/web/getFastNewsList"
	thsNewsURL  = "https://news.10jqka.com.cn/tapp/news/push/stock/"
	baiduHotURL = "https://finance.pae.baidu.com/vapi/v1/hotrank"
	hotRankURL  = "https://emappdata.eastmoney.com/stockrank/getAllCurrentList"
)

const (
	newsPageSize  = 50
	hotRankTopN   = 20
	hotSearchTopN = 20
)

// 热榜接口要求的固定请求体参数
const (
	hotRankAppID    = "appId01"
	hotRankGlobalID = "786e4c21-70dc-435a-93bb-38"
)

// newsIcons 轮换的新闻条目图标，沿用前端约定。
var newsIcons = []string{"📰", "📊", "💹", "📈", "💼", "🏢", "💡", "⚡", "🔔", "📢"}

// FetchNews 合并两路快讯（东财 7x24、同花顺直播）为统一条目。
// 任一路失败只影响该路，两路都空时返回空切片。
func (c *Client) FetchNews(ctx context.Context) []model.NewsItem {
	var items []model.NewsItem
	items = appendNews(items, "东财快讯", c.fetchFastNews(ctx))
	items = appendNews(items, "同花顺", c.fetchTHSNews(ctx))
	trace.Log(ctx, "api: FetchNews count=%d", len(items))
	return items
}

type rawNews struct {
	title string
	time  string
}

func appendNews(items []model.NewsItem, source string, raw []rawNews) []model.NewsItem {
	for _, r := range raw {
		items = append(items, model.NewsItem{
			Icon:   newsIcons[len(items)%len(newsIcons)],
			Source: source,
			Time:   r.time,
			Title:  r.title,
		})
	}
	return items
}

func (c *Client) fetchFastNews(ctx context.Context) []rawNews {
	url := fmt.Sprintf("%s?client=web&biz=web_724&fastColumn=102&sortEnd=&pageSize=%d", fastNewsURL, newsPageSize)
	body, err := c.get(ctx, url)
	if err != nil {
		trace.Log(ctx, "api: fetchFastNews err=%v", err)
		return nil
	}
	list := gjson.GetBytes(body, "data.fastNewsList")
	if !list.Exists() || !list.IsArray() {
		trace.Log(ctx, "api: fetchFastNews 无 data.fastNewsList")
		return nil
	}
	var out []rawNews
	list.ForEach(func(_, v gjson.Result) bool {
		title := strings.TrimSpace(v.Get("title").String())
		if title == "" {
			title = strings.TrimSpace(v.Get("summary").String())
		}
		if title == "" {
			return true
		}
		out = append(out, rawNews{title: title, time: strings.TrimSpace(v.Get("showTime").String())})
		return true
	})
	return out
}

func (c *Client) fetchTHSNews(ctx context.Context) []rawNews {
	url := fmt.Sprintf("%s?page=1&tag=&track=website&pagesize=%d", thsNewsURL, newsPageSize)
	body, err := c.get(ctx, url)
	if err != nil {
		trace.Log(ctx, "api: fetchTHSNews err=%v", err)
		return nil
	}
	list := gjson.GetBytes(body, "data.list")
	if !list.Exists() || !list.IsArray() {
		trace.Log(ctx, "api: fetchTHSNews 无 data.list")
		return nil
	}
	var out []rawNews
	list.ForEach(func(_, v gjson.Result) bool {
		title := strings.TrimSpace(v.Get("title").String())
		if title == "" {
			return true
		}
		out = append(out, rawNews{title: title, time: formatUnixTime(v.Get("ctime").String())})
		return true
	})
	return out
}

// formatUnixTime 同花顺 ctime 为秒级时间戳字符串，转 HH:MM:SS；解析失败原样返回。
func formatUnixTime(s string) string {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || sec <= 0 {
		return s
	}
	return time.Unix(sec, 0).Format("15:04:05")
}

// FetchHotSearch 拉百度股市通 A 股热搜榜前 N 条。
func (c *Client) FetchHotSearch(ctx context.Context, day time.Time) []model.HotSearchItem {
	url := fmt.Sprintf("%s?tn=wisexmlnew&dsp=iphone&product=stock&day=%s&hour=&pn=0&rn=%d&market=ab&type=day",
		baiduHotURL, day.Format(dateFormatCompact), hotSearchTopN)
	body, err := c.get(ctx, url)
	if err != nil {
		trace.Log(ctx, "api: FetchHotSearch err=%v", err)
		return nil
	}
	rows := gjson.GetBytes(body, "Result.body")
	if !rows.Exists() || !rows.IsArray() {
		trace.Log(ctx, "api: FetchHotSearch 无 Result.body")
		return nil
	}
	var out []model.HotSearchItem
	rows.ForEach(func(_, v gjson.Result) bool {
		if len(out) >= hotSearchTopN {
			return false
		}
		name := strings.TrimSpace(v.Get("name").String())
		if name == "" {
			return true
		}
		out = append(out, model.HotSearchItem{
			Rank:   len(out) + 1,
			Code:   strings.TrimSpace(v.Get("code").String()),
			Name:   name,
			Change: strings.TrimSpace(v.Get("ratio").String()),
			Heat:   strings.TrimSpace(v.Get("heat").String()),
		})
		return true
	})
	return out
}

// FetchHotRank 东财人气榜：先取榜单（只有代码与名次），再批量补行情。
func (c *Client) FetchHotRank(ctx context.Context) []model.HotRankItem {
	payload := map[string]interface{}{
		"appId":      hotRankAppID,
		"globalId":   hotRankGlobalID,
		"marketType": "",
		"pageNo":     1,
		"pageSize":   hotRankTopN,
	}
	body, err := c.postJSON(ctx, hotRankURL, payload)
	if err != nil {
		trace.Log(ctx, "api: FetchHotRank err=%v", err)
		return nil
	}
	data := gjson.GetBytes(body, "data")
	if !data.Exists() || !data.IsArray() {
		trace.Log(ctx, "api: FetchHotRank 无 data")
		return nil
	}
	type ranked struct {
		code string
		rank int
	}
	var list []ranked
	var secids []string
	data.ForEach(func(_, v gjson.Result) bool {
		sc := strings.TrimSpace(v.Get("sc").String()) // 形如 SH600519 / SZ000001
		if len(sc) < 3 {
			return true
		}
		code := sc[2:]
		list = append(list, ranked{code: code, rank: int(v.Get("rk").Int())})
		secids = append(secids, secID(code))
		return true
	})
	if len(list) == 0 {
		return nil
	}
	quotes := c.batchQuotes(ctx, secids)
	out := make([]model.HotRankItem, 0, len(list))
	for i, r := range list {
		rank := r.rank
		if rank == 0 {
			rank = i + 1
		}
		item := model.HotRankItem{Rank: rank, Code: r.code}
		if q, ok := quotes[r.code]; ok {
			item.Name = q.name
			item.Price = q.price
			item.Change = q.change
			item.Volume = q.volume
		}
		out = append(out, item)
	}
	return out
}

type briefQuote struct {
	name   string
	price  float64
	change float64
	volume float64
}

// batchQuotes 用 ulist 接口一次补齐名称/现价/涨跌幅/成交量。
func (c *Client) batchQuotes(ctx context.Context, secids []string) map[string]briefQuote {
	url := fmt.Sprintf("%s?fltt=2&secids=%s&fields=f2,f3,f5,f12,f14", ulistURL, strings.Join(secids, ","))
	body, err := c.get(ctx, url)
	if err != nil {
		trace.Log(ctx, "api: batchQuotes err=%v", err)
		return nil
	}
	out := map[string]briefQuote{}
	gjson.GetBytes(body, "data.diff").ForEach(func(_, v gjson.Result) bool {
		code := strings.TrimSpace(v.Get("f12").String())
		if code == "" {
			return true
		}
		out[code] = briefQuote{
			name:   strings.TrimSpace(v.Get("f14").String()),
			price:  v.Get("f2").Float(),
			change: v.Get("f3").Float(),
			volume: v.Get("f5").Float(),
		}
		return true
	})
	return out
}
