// Package mail 按 SMTP 配置把一进二候选结果以 HTML 邮件推送出去。
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"limitUpRadar/internal/model"
	"limitUpRadar/internal/trace"
)

const (
	smtpTimeout     = 15 * time.Second
	defaultSMTPPort = 587
)

type SMTPConfig struct {
	Server   string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func (s *SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Server) != "" &&
		strings.TrimSpace(s.From) != "" &&
		strings.TrimSpace(s.To) != ""
}

// SendReport 把候选列表发给配置的收件人。未配置或列表为空时直接返回 nil。
func SendReport(ctx context.Context, cfg *SMTPConfig, date string, candidates []model.BreakoutCandidate) error {
	if cfg == nil || !cfg.Enabled() {
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}
	trace.Log(ctx, "mail: SendReport to=%s count=%d", cfg.To, len(candidates))
	body := buildHTMLTable(date, candidates)
	subject := fmt.Sprintf("一进二候选 %s（%d 只）", date, len(candidates))
	toList := strings.Split(cfg.To, ",")
	for i := range toList {
		toList[i] = strings.TrimSpace(toList[i])
	}
	if err := send(cfg, subject, body, toList); err != nil {
		trace.Log(ctx, "mail: send err=%v", err)
		return err
	}
	trace.Log(ctx, "mail: sent ok")
	return nil
}

func buildHTMLTable(date string, candidates []model.BreakoutCandidate) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><title>一进二候选</title></head><body>`)
	b.WriteString(fmt.Sprintf(`<h2>一进二候选 %s</h2><p>今日首板·流通市值达标·按主力净买入降序。</p>`, escapeHTML(date)))
	b.WriteString(`<table border="1" cellspacing="0" cellpadding="8" style="border-collapse: collapse; font-size: 14px;">`)
	b.WriteString(`<thead><tr style="background: #eee;"><th>代码</th><th>名称</th><th>涨幅%</th><th>主力净买入(万)</th><th>流通市值(亿)</th><th>涨停原因</th></tr></thead><tbody>`)
	for _, c := range candidates {
		reason := c.Reason
		if reason == "" {
			reason = "-"
		}
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%.2f</td><td>%.2f</td><td>%.2f</td><td>%s</td></tr>",
			escapeHTML(c.Code), escapeHTML(c.Name), c.ChangePct, c.MainNetInflow, c.CirculatingCap, escapeHTML(reason)))
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

func send(cfg *SMTPConfig, subject, htmlBody string, to []string) error {
	port := cfg.Port
	if port == 0 {
		port = defaultSMTPPort
	}
	addr := net.JoinHostPort(cfg.Server, strconv.Itoa(port))

	var conn net.Conn
	var err error
	if port == 465 {
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: smtpTimeout}, "tcp", addr, &tls.Config{ServerName: cfg.Server})
	} else {
		conn, err = net.DialTimeout("tcp", addr, smtpTimeout)
	}
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.Server)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: cfg.Server}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if cfg.Password != "" {
		auth := smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Server)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(cfg.From); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	for _, t := range to {
		if t == "" {
			continue
		}
		if err := client.Rcpt(t); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", t, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		cfg.From, strings.Join(to, ","), subject)
	if _, err := w.Write([]byte(headers + htmlBody)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return client.Quit()
}

// MustSendReport 推送失败只打日志不终止主流程。
func MustSendReport(ctx context.Context, cfg *SMTPConfig, date string, candidates []model.BreakoutCandidate) {
	if len(candidates) == 0 {
		trace.Log(ctx, "mail: 无候选，不发邮件")
		return
	}
	if cfg == nil || !cfg.Enabled() {
		trace.Log(ctx, "mail: 未配置 SMTP，跳过")
		return
	}
	if err := SendReport(ctx, cfg, date, candidates); err != nil {
		trace.Log(ctx, "mail: 发送失败 err=%v", err)
		return
	}
	trace.Log(ctx, "mail: 已发送 to=%s count=%d", cfg.To, len(candidates))
}
