package cache

import (
	"context"
	"testing"
	"time"

	"limitUpRadar/internal/model"
)

// fakeSource 记录各抓取被调用的次数。
type fakeSource struct {
	newsCalls int
	hotCalls  int
	news      []model.NewsItem
	search    []model.HotSearchItem
	rank      []model.HotRankItem
}

func (f *fakeSource) FetchNews(context.Context) []model.NewsItem {
	f.newsCalls++
	return f.news
}

func (f *fakeSource) FetchHotSearch(context.Context, time.Time) []model.HotSearchItem {
	f.hotCalls++
	return f.search
}

func (f *fakeSource) FetchHotRank(context.Context) []model.HotRankItem {
	return f.rank
}

func TestRefresherIntervals(t *testing.T) {
	src := &fakeSource{
		news:   []model.NewsItem{{Title: "a"}},
		search: []model.HotSearchItem{{Rank: 1}},
		rank:   []model.HotRankItem{{Rank: 1}},
	}
	store := NewStore()
	r := NewRefresher(store, src)
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	// 首拍：两路都刷
	r.tickOnce(ctx)
	if src.newsCalls != 1 || src.hotCalls != 1 {
		t.Fatalf("首拍 news=%d hot=%d, want 1/1", src.newsCalls, src.hotCalls)
	}

	// +10s：都未到期
	now = now.Add(10 * time.Second)
	r.tickOnce(ctx)
	if src.newsCalls != 1 || src.hotCalls != 1 {
		t.Fatalf("+10s news=%d hot=%d, want 1/1", src.newsCalls, src.hotCalls)
	}

	// +300s：只有新闻到期
	now = now.Add(290 * time.Second)
	r.tickOnce(ctx)
	if src.newsCalls != 2 {
		t.Errorf("+300s newsCalls = %d, want 2", src.newsCalls)
	}
	if src.hotCalls != 1 {
		t.Errorf("+300s hotCalls = %d, want 1", src.hotCalls)
	}

	// +600s：热榜到期
	now = now.Add(300 * time.Second)
	r.tickOnce(ctx)
	if src.hotCalls != 2 {
		t.Errorf("+600s hotCalls = %d, want 2", src.hotCalls)
	}
}

func TestRefreshKeepsStaleOnFailure(t *testing.T) {
	src := &fakeSource{news: []model.NewsItem{{Title: "first"}}}
	store := NewStore()
	r := NewRefresher(store, src)
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	r.tickOnce(ctx)
	first := store.News()
	if len(first.Items) != 1 || first.UpdatedAt.IsZero() {
		t.Fatalf("首刷失败: %+v", first)
	}

	// 下一轮上游挂了：快照保持不变
	src.news = nil
	now = now.Add(newsInterval)
	r.tickOnce(ctx)
	second := store.News()
	if len(second.Items) != 1 || !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("失败后应沿用旧快照: %+v", second)
	}
}

func TestHotSnapshotPartialFailure(t *testing.T) {
	src := &fakeSource{
		search: []model.HotSearchItem{{Rank: 1, Name: "老热搜"}},
		rank:   []model.HotRankItem{{Rank: 1, Name: "老人气"}},
	}
	store := NewStore()
	r := NewRefresher(store, src)
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	r.now = func() time.Time { return now }
	ctx := context.Background()
	r.tickOnce(ctx)

	// 热搜挂了、人气榜正常：热搜沿用旧值
	src.search = nil
	src.rank = []model.HotRankItem{{Rank: 1, Name: "新人气"}}
	now = now.Add(hotInterval)
	r.tickOnce(ctx)

	hot := store.Hot()
	if len(hot.HotSearch) != 1 || hot.HotSearch[0].Name != "老热搜" {
		t.Errorf("热搜应沿用旧值: %+v", hot.HotSearch)
	}
	if len(hot.HotRank) != 1 || hot.HotRank[0].Name != "新人气" {
		t.Errorf("人气榜应更新: %+v", hot.HotRank)
	}
}

func TestStoreBeforeFirstRefresh(t *testing.T) {
	store := NewStore()
	if !store.News().UpdatedAt.IsZero() || !store.Hot().UpdatedAt.IsZero() {
		t.Error("初始快照 UpdatedAt 应为零值")
	}
}
