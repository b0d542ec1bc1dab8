// Package cache 持有新闻与热榜的内存快照，并提供后台刷新循环。
// 快照整体替换：刷新失败保留旧数据（宁可陈旧也不空窗）。
package cache

import (
	"context"
	"sync"
	"time"

	"limitUpRadar/internal/model"
	"limitUpRadar/internal/trace"
)

// 刷新节奏：循环 10s 走一拍，按各自的最小间隔判断是否到期
const (
	tickInterval   = 10 * time.Second
	newsInterval   = 300 * time.Second
	hotInterval    = 600 * time.Second
	refreshTimeout = 60 * time.Second
)

// NewsSnapshot 新闻快照。UpdatedAt 零值表示从未成功刷新。
type NewsSnapshot struct {
	Items     []model.NewsItem
	UpdatedAt time.Time
}

// HotSnapshot 热搜榜与人气榜快照。
type HotSnapshot struct {
	HotSearch []model.HotSearchItem
	HotRank   []model.HotRankItem
	UpdatedAt time.Time
}

// Store 内存快照仓库，读多写少，读写锁保护，快照整体替换。
type Store struct {
	mu   sync.RWMutex
	news NewsSnapshot
	hot  HotSnapshot
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) News() NewsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.news
}

func (s *Store) Hot() HotSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hot
}

func (s *Store) ReplaceNews(snap NewsSnapshot) {
	s.mu.Lock()
	s.news = snap
	s.mu.Unlock()
}

func (s *Store) ReplaceHot(snap HotSnapshot) {
	s.mu.Lock()
	s.hot = snap
	s.mu.Unlock()
}

// Source 刷新循环需要的抓取能力，由 api.Client 实现。
type Source interface {
	FetchNews(ctx context.Context) []model.NewsItem
	FetchHotSearch(ctx context.Context, day time.Time) []model.HotSearchItem
	FetchHotRank(ctx context.Context) []model.HotRankItem
}

// Refresher 单循环刷新器：10s 走一拍，各数据源按自身间隔到期才刷。
// now 可注入，测试用假时钟驱动。
type Refresher struct {
	store  *Store
	source Source
	now    func() time.Time

	lastNews time.Time
	lastHot  time.Time
}

func NewRefresher(store *Store, source Source) *Refresher {
	if store == nil || source == nil {
		panic("cache: store and source must not be nil")
	}
	return &Refresher{store: store, source: source, now: time.Now}
}

// Run 阻塞运行刷新循环直到 ctx 取消。先立即刷一轮再进入节奏。
func (r *Refresher) Run(ctx context.Context) {
	trace.Log(ctx, "cache: 刷新循环启动 news=%s hot=%s", newsInterval, hotInterval)
	r.tickOnce(ctx)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			trace.Log(ctx, "cache: 刷新循环退出")
			return
		case <-ticker.C:
			r.tickOnce(ctx)
		}
	}
}

// tickOnce 一拍：检查各数据源是否到期，到期才发请求。
func (r *Refresher) tickOnce(ctx context.Context) {
	now := r.now()
	if r.lastNews.IsZero() || now.Sub(r.lastNews) >= newsInterval {
		r.refreshNews(ctx, now)
	}
	if r.lastHot.IsZero() || now.Sub(r.lastHot) >= hotInterval {
		r.refreshHot(ctx, now)
	}
}

func (r *Refresher) refreshNews(ctx context.Context, now time.Time) {
	r.lastNews = now
	fetchCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	items := r.source.FetchNews(fetchCtx)
	if len(items) == 0 {
		// 失败或空结果：保留旧快照
		trace.Log(ctx, "cache: 新闻刷新无数据，沿用旧快照")
		return
	}
	r.store.ReplaceNews(NewsSnapshot{Items: items, UpdatedAt: now})
	trace.Log(ctx, "cache: 新闻已刷新 count=%d", len(items))
}

func (r *Refresher) refreshHot(ctx context.Context, now time.Time) {
	r.lastHot = now
	fetchCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	search := r.source.FetchHotSearch(fetchCtx, now)
	rank := r.source.FetchHotRank(fetchCtx)
	if len(search) == 0 && len(rank) == 0 {
		trace.Log(ctx, "cache: 热榜刷新无数据，沿用旧快照")
		return
	}
	prev := r.store.Hot()
	snap := HotSnapshot{HotSearch: search, HotRank: rank, UpdatedAt: now}
	// 半失败时该路沿用旧数据
	if len(snap.HotSearch) == 0 {
		snap.HotSearch = prev.HotSearch
	}
	if len(snap.HotRank) == 0 {
		snap.HotRank = prev.HotRank
	}
	r.store.ReplaceHot(snap)
	trace.Log(ctx, "cache: 热榜已刷新 search=%d rank=%d", len(snap.HotSearch), len(snap.HotRank))
}
