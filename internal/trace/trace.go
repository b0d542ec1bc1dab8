// Package trace 在 context 中传递 trace ID，日志每行带 TRACE=id 便于 grep 定位单次运行。
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
)

type ctxKey struct{}

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// NewContext 生成新 trace ID 并注入，报表与刷新循环的入口统一走这里。
func NewContext(parent context.Context) context.Context {
	return WithTraceID(parent, NewTraceID())
}

func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

func NewTraceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "0"
	}
	return hex.EncodeToString(b)
}

var logMu sync.Mutex

// Log 打日志，行首固定 TRACE=id；无 ID 时用 "-" 占位。
func Log(ctx context.Context, format string, args ...interface{}) {
	id := TraceID(ctx)
	if id == "" {
		id = "-"
	}
	logMu.Lock()
	log.Printf("TRACE=%s | %s", id, fmt.Sprintf(format, args...))
	logMu.Unlock()
}
