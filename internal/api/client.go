// Package api 封装行情数据源（东方财富系接口）与新闻/热榜抓取，
// 含请求节流、重试与 trace 日志。所有公开查询在自身边界内兜底：
// 上游失败只打日志并返回空值，调用方把缺失当"未知"处理。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"limitUpRadar/internal/trace"
)

// 环境变量名（节流与并发，可选覆盖）
const (
	envAPIDelayMS       = "LIMITUP_API_DELAY_MS"
	envAPIJitterMS      = "LIMITUP_API_JITTER_MS"
	envAPIMaxConcurrent = "LIMITUP_API_MAX_CONCURRENT"
)

// 请求超时与重试
const (
	defaultHTTPTimeout = 10 * time.Second
	maxRetries         = 3
	retryDelay         = 500 * time.Millisecond
	retryDelay429      = 5 * time.Second
)

// 防封：请求间隔、抖动、并发上限
const (
	maxRespLogLen        = 1000
	defaultRequestGap    = 200 * time.Millisecond
	defaultRequestJitter = 150
	defaultMaxConcurrent = 4
	maxConcurrentCap     = 20
)

// 请求头（模拟浏览器）
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer        = "https://quote.eastmoney.com/"
	acceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
)

// Client 数据源客户端：节流状态挂在实例上，new 一个传引用即可，不用包级全局。
type Client struct {
	httpClient *http.Client
	sem        chan struct{}

	gap    time.Duration
	jitter int

	lastMu  sync.Mutex
	lastReq time.Time
}

func NewClient() *Client {
	gap := defaultRequestGap
	if s := os.Getenv(envAPIDelayMS); s != "" {
		if ms, err := strconv.Atoi(s); err == nil && ms > 0 {
			gap = time.Duration(ms) * time.Millisecond
		}
	}
	jitter := defaultRequestJitter
	if s := os.Getenv(envAPIJitterMS); s != "" {
		if ms, err := strconv.Atoi(s); err == nil && ms >= 0 {
			jitter = ms
		}
	}
	n := defaultMaxConcurrent
	if s := os.Getenv(envAPIMaxConcurrent); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			n = v
			if n > maxConcurrentCap {
				n = maxConcurrentCap
			}
		}
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		sem:        make(chan struct{}, n),
		gap:        gap,
		jitter:     jitter,
	}
}

// pace 控制两次请求之间的最小间隔并加抖动，避免被上游限流。
func (c *Client) pace(ctx context.Context) {
	if c.gap <= 0 && c.jitter <= 0 {
		return
	}
	c.lastMu.Lock()
	elapsed := time.Since(c.lastReq)
	c.lastMu.Unlock()
	d := c.gap - elapsed
	if c.jitter > 0 {
		d += time.Duration(rand.Intn(c.jitter+1)) * time.Millisecond
	}
	if d > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(d):
		}
	}
	c.lastMu.Lock()
	c.lastReq = time.Now()
	c.lastMu.Unlock()
}

// get 带重试的 GET，返回完整响应体；429 用更长退避。
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// postJSON 带重试的 POST，payload 序列化为 JSON 请求体。
func (c *Client) postJSON(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, body)
}

func (c *Client) do(ctx context.Context, method, url string, reqBody []byte) ([]byte, error) {
	var lastErr error
	lastStatus := 0
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryDelay
			if lastStatus == http.StatusTooManyRequests {
				backoff = retryDelay429
				trace.Log(ctx, "api: 429 限流，等待 %s 后重试", backoff)
			} else {
				trace.Log(ctx, "api: retry %d/%d %s", attempt, maxRetries, url)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		c.pace(ctx)
		select {
		case c.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		body, status, err := c.doOnce(ctx, method, url, reqBody)
		<-c.sem
		if err == nil && status == http.StatusOK {
			return body, nil
		}
		lastStatus = status
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("http %d", status)
		}
	}
	trace.Log(ctx, "api: 请求放弃 url=%s err=%v", url, lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, url string, reqBody []byte) ([]byte, int, error) {
	var rd io.Reader
	if reqBody != nil {
		rd = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", acceptLanguage)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if resp.StatusCode != http.StatusOK {
		trace.Log(ctx, "api: resp status=%d body=%s", resp.StatusCode, truncateForLog(body))
	}
	return body, resp.StatusCode, nil
}

func truncateForLog(b []byte) string {
	s := string(b)
	if len(b) > maxRespLogLen {
		s = s[:maxRespLogLen] + "..."
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " ")
}

// secID 转东方财富 secid：沪市 1.600519，深市 0.000001。
func secID(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "0.000000"
	}
	switch code[0] {
	case '6', '5', '9':
		return "1." + code
	default:
		return "0." + code
	}
}
