// Package main 是涨停股池雷达的入口：默认跑一次报表流水线
// （最近交易日涨停池 → 一进二筛选 → AI 标注 → HTML/Excel 报表 → 可选邮件），
// `serve` 子命令则启动 HTTP 服务并后台刷新新闻与热榜缓存。
package main

import (
	"context"
	"log"
	"os"
	"time"

	"limitUpRadar/internal/annotate"
	"limitUpRadar/internal/api"
	"limitUpRadar/internal/cache"
	"limitUpRadar/internal/calendar"
	"limitUpRadar/internal/config"
	"limitUpRadar/internal/filter"
	"limitUpRadar/internal/mail"
	"limitUpRadar/internal/report"
	"limitUpRadar/internal/server"
	"limitUpRadar/internal/trace"
	"limitUpRadar/internal/worker"
)

const (
	runTimeout     = 10 * time.Minute
	dateFormatDash = "2006-01-02"
	// 涨停池需要"今日+昨日"两个交易日
	requiredDates = 2
)

var apiClient = api.NewClient()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	cfg := config.Load()
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		runServer(cfg)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	runPipeline(ctx, cfg)
}

// runPipeline 单次报表流水线。上游整体不可用时产出"暂无数据"报表而不是崩溃。
func runPipeline(ctx context.Context, cfg *config.Config) {
	ctx = trace.NewContext(ctx)
	trace.Log(ctx, "main: 报表流水线启动")

	latest := calendar.LatestTradingDate(time.Now())
	dates := calendar.RecentTradingDates(latest, requiredDates)
	if len(dates) < requiredDates {
		trace.Log(ctx, "main: 交易日不足 %d 个，本次放弃", requiredDates)
		return
	}
	today := dates[len(dates)-1]
	prev := dates[len(dates)-2]
	dateStr := today.Format(dateFormatDash)
	trace.Log(ctx, "main: 今日=%s 上一交易日=%s", dateStr, prev.Format(dateFormatDash))

	todayPool := apiClient.LimitUpPool(ctx, today)
	prevPool := apiClient.PreviousLimitUpPool(ctx, today)

	// 全市场列表做可交易集合：剔除科创板/ST，创业板按配置。拉取失败时集合为空、不设限
	universe := map[string]struct{}{}
	for _, s := range apiClient.AllListedStocks(ctx, cfg.Report.IncludeChiNext) {
		universe[s.Code] = struct{}{}
	}

	candidates := filter.BreakoutCandidates(ctx, apiClient, todayPool, prevPool, universe, cfg.Report.CapThreshold)

	if cfg.Report.Annotate {
		annotator := annotate.New(cfg.LLM.APIKey, cfg.LLM.Model)
		pool := worker.NewPool(worker.DefaultConfig(), annotator)
		pool.Run(ctx, candidates)
	}

	html := report.RenderHTML(report.Data{
		Date:          dateStr,
		Candidates:    candidates,
		TodayPool:     todayPool,
		YesterdayPool: prevPool,
	})
	if err := os.WriteFile(cfg.Report.HTMLPath, []byte(html), 0o644); err != nil {
		trace.Log(ctx, "main: 写报表失败 path=%s err=%v", cfg.Report.HTMLPath, err)
		log.Printf("write report: %v", err)
		return
	}
	trace.Log(ctx, "main: 报表已写入 %s 候选=%d", cfg.Report.HTMLPath, len(candidates))

	if cfg.Report.ExcelPath != "" {
		if err := report.WriteExcel(cfg.Report.ExcelPath, dateStr, candidates); err != nil {
			trace.Log(ctx, "main: Excel 导出失败 err=%v", err)
		} else {
			trace.Log(ctx, "main: Excel 已写入 %s", cfg.Report.ExcelPath)
		}
	}

	mail.MustSendReport(ctx, buildMailConfig(cfg), dateStr, candidates)
	trace.Log(ctx, "main: 报表流水线结束")
}

// runServer 常驻进程：HTTP 服务 + 后台缓存刷新循环。
func runServer(cfg *config.Config) {
	ctx := trace.NewContext(context.Background())
	trace.Log(ctx, "main: 服务模式启动 port=%s report=%s", cfg.Port, cfg.Report.HTMLPath)

	store := cache.NewStore()
	refresher := cache.NewRefresher(store, apiClient)
	go refresher.Run(ctx)

	srv := server.New(store, cfg.Report.HTMLPath)
	if err := srv.Run(cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func buildMailConfig(cfg *config.Config) *mail.SMTPConfig {
	return &mail.SMTPConfig{
		Server:   cfg.SMTP.Server,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.SMTP.To,
	}
}
