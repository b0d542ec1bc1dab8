// Package server 提供报表页面与新闻/热榜缓存的 HTTP 服务。
package server

import (
	"net/http"
	"os"
	"time"

	"github.com/chenjiandongx/ginprom"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"limitUpRadar/internal/cache"
)

// Server 只读服务：页面来自磁盘上的报表文件，数据接口来自内存快照。
type Server struct {
	store      *cache.Store
	reportPath string
}

func New(store *cache.Store, reportPath string) *Server {
	if store == nil {
		panic("server: store must not be nil")
	}
	return &Server{store: store, reportPath: reportPath}
}

// Router 组装 gin 路由。
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.Use(Cors())
	router.GET("/", s.handleIndex)
	router.GET("/api/news", s.handleNews)
	router.GET("/api/hot-rank", s.handleHotRank)
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", ginprom.PromHandler(promhttp.Handler()))
	return router
}

// Run 绑定端口阻塞运行。
func (s *Server) Run(port string) error {
	return s.Router().Run("0.0.0.0:" + port)
}

// handleIndex 直接回磁盘上最新生成的报表文件，没生成过就 404。
func (s *Server) handleIndex(c *gin.Context) {
	if _, err := os.Stat(s.reportPath); err != nil {
		c.String(http.StatusNotFound, "报表尚未生成，请先运行一次报表流水线")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.File(s.reportPath)
}

func (s *Server) handleNews(c *gin.Context) {
	snap := s.store.News()
	c.JSON(http.StatusOK, gin.H{
		"news":        emptyIfNil(snap.Items),
		"last_update": formatUpdate(snap.UpdatedAt),
	})
}

func (s *Server) handleHotRank(c *gin.Context) {
	snap := s.store.Hot()
	c.JSON(http.StatusOK, gin.H{
		"hot_search":  emptyIfNil(snap.HotSearch),
		"hot_rank":    emptyIfNil(snap.HotRank),
		"last_update": formatUpdate(snap.UpdatedAt),
	})
}

// emptyIfNil 让空快照序列化成 [] 而不是 null。
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// formatUpdate 从未刷新成功时回 null，否则 ISO8601。
func formatUpdate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

// Cors 跨域问题
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method

		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type,AccessToken,X-CSRF-Token, Authorization, Token")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")

		// 放行所有 OPTIONS 方法
		if method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
		}
		c.Next()
	}
}
