// Package model 定义涨停股池、打板候选、新闻与热榜等数据结构。
// 金额单位约定：成交额/流通市值为亿元，主力净买入为万元（全仓库统一）。
package model

// HasOpened 表示是否开板：接口可能拿不到，未知与是/否要区分。
type HasOpened int

const (
	OpenedUnknown HasOpened = iota // 数据缺失，展示为 "-"
	OpenedNo
	OpenedYes
)

func (h HasOpened) String() string {
	switch h {
	case OpenedNo:
		return "否"
	case OpenedYes:
		return "是"
	default:
		return "-"
	}
}

// StockRecord 涨停股池单条：行情快照 + 封板信息，每次运行由接口现取，不落库。
type StockRecord struct {
	Code           string
	Name           string
	ClosePrice     float64
	ChangePct      float64
	Volume         int64
	TurnoverAmount float64 // 成交额(亿)
	TurnoverRatio  float64 // 换手率(%)
	CirculatingCap float64 // 流通市值(亿)
	Industry       string
	SealTime       string // HH:MM，缺失为空串
	BrokenCount    int    // 炸板次数
	Streak         int    // 连板数
	HasOpened      HasOpened
	MainNetInflow  float64 // 主力净买入(万元)
}

// BreakoutCandidate 一进二候选：今日首板且流通市值达标，附加 AI 标注的上涨原因。
type BreakoutCandidate struct {
	StockRecord
	FiveDayChange float64 // 近5日涨幅(%)，K 线不足时为 0
	Reason        string  // 标注失败或未启用时为空串，展示为 "-"
}

// StockBrief 全市场列表单条，仅代码与名称。
type StockBrief struct {
	Code string
	Name string
}

// Valuation 单股估值快照，缺失字段为 0。
type Valuation struct {
	TurnoverRatio  float64
	CirculatingCap float64 // 亿
}

// PriceBar 日线单根：PreviousClose 取自前一根收盘，首根为 0。
type PriceBar struct {
	Date          string
	Close         float64
	PreviousClose float64
}

// NewsItem 新闻缓存条目，对应 /api/news 的单条输出。
type NewsItem struct {
	Icon   string `json:"icon"`
	Source string `json:"source"`
	Time   string `json:"time"`
	Title  string `json:"title"`
}

// HotSearchItem 热搜榜单条。
type HotSearchItem struct {
	Rank   int    `json:"rank"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Change string `json:"change"`
	Heat   string `json:"heat"`
}

// HotRankItem 人气榜单条。
type HotRankItem struct {
	Rank   int     `json:"rank"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Volume float64 `json:"volume"`
}
