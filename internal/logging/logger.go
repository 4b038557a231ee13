// Package logging 基于 zerolog 的全局日志
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config 日志配置
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // json 或 console
	Output io.Writer // 默认 os.Stderr
}

var (
	logger zerolog.Logger
	mu     sync.RWMutex
)

func init() {
	Init(Config{Level: "info", Format: "json"})
}

// Init 初始化全局日志，可重复调用
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.ToLower(cfg.Format) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Logger 返回全局日志实例
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// Component 带组件名的子日志
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// WithContext 把日志实例放入 context
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// Ctx 从 context 取日志实例，没有则返回全局实例
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return Logger()
}

// Debug 调试日志
func Debug() *zerolog.Event { return Logger().Debug() }

// Info 普通日志
func Info() *zerolog.Event { return Logger().Info() }

// Warn 警告日志
func Warn() *zerolog.Event { return Logger().Warn() }

// Error 错误日志
func Error() *zerolog.Event { return Logger().Error() }

// Fatal 致命错误，记录后退出
func Fatal() *zerolog.Event { return Logger().Fatal() }
