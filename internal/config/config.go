// Package config 从 YAML 文件加载配置，再被环境变量覆盖。
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// 配置路径与环境变量名
const (
	defaultConfigPath = "config.yaml"
	envConfigPath     = "LIMITUP_CONFIG"
	envPort           = "LIMITUP_PORT"
	envReportPath     = "LIMITUP_REPORT_PATH"
	envCapThreshold   = "LIMITUP_CAP_THRESHOLD"
	envIncludeChiNext = "LIMITUP_INCLUDE_CHINEXT"
	envAnnotate       = "LIMITUP_ANNOTATE"
	envDashScopeKey   = "DASHSCOPE_API_KEY"
	envLLMModel       = "LLM_MODEL"
)

// 默认值：流通市值阈值 20 亿，输出文件与服务端口
const (
	defaultPort         = "5000"
	defaultReportPath   = "limit_up_pool_report.html"
	defaultCapThreshold = 20.0
	defaultLLMModel     = "qwen-plus"
)

// Report 报表流水线配置。
type Report struct {
	HTMLPath       string  `yaml:"html_path"`
	ExcelPath      string  `yaml:"excel_path"` // 为空则不导出 Excel
	CapThreshold   float64 `yaml:"cap_threshold"`
	IncludeChiNext bool    `yaml:"include_chinext"`
	Annotate       bool    `yaml:"annotate"`
}

// LLM 文本生成接口配置，APIKey 为空则标注退化为 "-"。
type LLM struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// SMTP 邮件推送配置，Server/From/To 任一为空则不发。
type SMTP struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// Config 顶层配置。
type Config struct {
	Port   string `yaml:"port"`
	Report Report `yaml:"report"`
	LLM    LLM    `yaml:"llm"`
	SMTP   SMTP   `yaml:"smtp"`
}

// Load 先读 LIMITUP_CONFIG 指定文件（默认 config.yaml），再被环境变量覆盖；
// 文件缺失不报错，按默认值运行。
func Load() *Config {
	cfg := &Config{
		Port: defaultPort,
		Report: Report{
			HTMLPath:     defaultReportPath,
			CapThreshold: defaultCapThreshold,
			Annotate:     true,
		},
		LLM: LLM{Model: defaultLLMModel},
	}
	path := os.Getenv(envConfigPath)
	if path == "" {
		path = defaultConfigPath
	}
	if b, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(b, cfg)
	}

	if v := os.Getenv(envPort); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv(envReportPath); v != "" {
		cfg.Report.HTMLPath = v
	}
	if v := os.Getenv(envCapThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Report.CapThreshold = f
		}
	}
	if v := os.Getenv(envIncludeChiNext); v != "" {
		cfg.Report.IncludeChiNext = v == "true" || v == "1"
	}
	if v := os.Getenv(envAnnotate); v != "" {
		cfg.Report.Annotate = v == "true" || v == "1"
	}
	if v := os.Getenv(envDashScopeKey); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv(envLLMModel); v != "" {
		cfg.LLM.Model = v
	}

	if cfg.Report.HTMLPath == "" {
		cfg.Report.HTMLPath = defaultReportPath
	}
	if cfg.Report.CapThreshold <= 0 {
		cfg.Report.CapThreshold = defaultCapThreshold
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultLLMModel
	}
	if cfg.SMTP.From == "" && cfg.SMTP.User != "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	return cfg
}
