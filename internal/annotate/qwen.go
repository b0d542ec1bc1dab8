// Package annotate 调通义千问文本生成接口，给打板候选补一句涨停原因。
// 标注是锦上添花：任何失败都落到固定文案，不影响主流程。
package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"limitUpRadar/internal/model"
	"limitUpRadar/internal/trace"
)

// DashScope 文本生成接口
const (
	dashScopeURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

	requestTimeout = 30 * time.Second
	maxTokens      = 100
	// 输出上限 20 个字，超出截断
	maxReasonRunes = 20
)

// FailedReason 标注失败时的固定文案。
const FailedReason = "分析失败"

const systemPrompt = "你是 A 股市场分析师。用户给出一只今日涨停的股票，" +
	"请用不超过20个字概括其最可能的涨停原因，只输出原因本身，不要任何前后缀。"

// Annotator 千问标注客户端。Enabled 为 false 时 Annotate 直接返回空串。
type Annotator struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func New(apiKey, model string) *Annotator {
	return &Annotator{
		apiKey:     apiKey,
		model:      model,
		endpoint:   dashScopeURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Enabled 是否具备调用条件（配置了 API Key）。
func (a *Annotator) Enabled() bool {
	return a != nil && a.apiKey != ""
}

// Annotate 生成单只股票的涨停原因，不超过 20 个字。
// 未启用返回空串；接口失败、超时或回了空内容时返回 FailedReason，绝不返回 error。
func (a *Annotator) Annotate(ctx context.Context, s model.StockRecord) string {
	if !a.Enabled() {
		return ""
	}
	question := fmt.Sprintf("股票：%s（%s），行业：%s，今日涨停，连板数 %d，首次封板时间 %s。涨停原因是什么？",
		s.Name, s.Code, emptyDash(s.Industry), s.Streak, emptyDash(s.SealTime))
	text, err := a.generate(ctx, question)
	if err != nil {
		trace.Log(ctx, "annotate: %s %s 标注失败 err=%v", s.Code, s.Name, err)
		return FailedReason
	}
	reason := sanitizeReason(text)
	if reason == "" {
		trace.Log(ctx, "annotate: %s %s 返回空内容", s.Code, s.Name)
		return FailedReason
	}
	return reason
}

// generate 走一次文本生成请求。temperature 固定为 0，保证同样输入结果稳定。
func (a *Annotator) generate(ctx context.Context, question string) (string, error) {
	payload := map[string]interface{}{
		"model": a.model,
		"input": map[string]interface{}{
			"messages": []map[string]string{
				{"role": "system", "content": systemPrompt},
				{"role": "user", "content": question},
			},
		},
		"parameters": map[string]interface{}{
			"temperature": 0,
			"max_tokens":  maxTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, gjson.GetBytes(respBody, "message").String())
	}
	text := gjson.GetBytes(respBody, "output.text").String()
	if text == "" {
		// 兼容 result_format=message 形态的返回
		text = gjson.GetBytes(respBody, "output.choices.0.message.content").String()
	}
	return text, nil
}

// sanitizeReason 去掉引号与首尾空白，按 rune 截断到上限。
func sanitizeReason(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"“”'‘’。")
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) > maxReasonRunes {
		r = r[:maxReasonRunes]
	}
	return strings.TrimSpace(string(r))
}

func emptyDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
