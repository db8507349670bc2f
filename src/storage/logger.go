package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"FlightDelayInsight/src/config"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 日志记录器：zap 结构化日志 + 文件输出 + 订阅推送
type Logger struct {
	*zap.Logger
	sink *fileSink
}

// fileSink 是 zap 的写入端，负责日志文件、轮转以及订阅者通知
type fileSink struct {
	file        *os.File      // 日志文件句柄，未配置文件时为 nil
	filename    string        // 当前日志文件路径
	maxSize     int64         // 超过该大小触发轮转，0 表示不轮转
	mu          sync.Mutex    // 互斥锁，保证并发安全
	subscribers []chan string // 订阅者通道列表
	closed      bool
}

// NewLogger 根据配置创建日志记录器
// 日志同时写到标准错误和 cfg.File（为空时只写标准错误）
func NewLogger(cfg config.LogConfig) (*Logger, error) {
	sink := &fileSink{
		filename: cfg.File,
		maxSize:  cfg.MaxLogBytes(),
	}
	if cfg.File != "" {
		file, err := openLogFile(cfg.File)
		if err != nil {
			return nil, err
		}
		sink.file = file
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrapf(err, "logger: invalid level %q", cfg.Level)
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(encoder.Clone(), sink, level),
	)

	return &Logger{
		Logger: zap.New(core, zap.AddCaller()),
		sink:   sink,
	}, nil
}

func openLogFile(filename string) (*os.File, error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, eris.Wrap(err, "logger: create log dir")
		}
	}
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, eris.Wrapf(err, "logger: open %s", filename)
	}
	return file, nil
}

// Write 实现 zapcore.WriteSyncer
func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return len(p), nil
	}

	n := len(p)
	if s.file != nil {
		var err error
		if n, err = s.file.Write(p); err != nil {
			return n, err
		}
	}

	// 通知所有订阅者，通道满则跳过
	entry := string(p)
	for _, ch := range s.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
	return n, nil
}

// Sync 实现 zapcore.WriteSyncer
func (s *fileSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil || s.closed {
		return nil
	}
	return s.file.Sync()
}

// Subscribe 订阅日志消息
// 返回值:
//
//	<-chan string: 只读通道，用于接收日志消息（容量100）
func (l *Logger) Subscribe() <-chan string {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	ch := make(chan string, 100)
	l.sink.subscribers = append(l.sink.subscribers, ch)
	return ch
}

// Unsubscribe 取消订阅并关闭通道
func (l *Logger) Unsubscribe(ch <-chan string) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	for i, sub := range l.sink.subscribers {
		if sub == ch {
			close(sub)
			l.sink.subscribers = append(l.sink.subscribers[:i], l.sink.subscribers[i+1:]...)
			return
		}
	}
}

// Reopen 关闭当前文件并重新打开 filename
func (l *Logger) Reopen(filename string) error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file != nil {
		_ = l.sink.file.Close()
		l.sink.file = nil
	}

	file, err := openLogFile(filename)
	if err != nil {
		return err
	}
	l.sink.file = file
	l.sink.filename = filename
	return nil
}

// CheckRotate 文件超过阈值时轮转，返回是否发生了轮转
func (l *Logger) CheckRotate() (bool, error) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file == nil || l.sink.maxSize <= 0 {
		return false, nil
	}

	info, err := l.sink.file.Stat()
	if err != nil {
		return false, eris.Wrap(err, "logger: stat log file")
	}
	if info.Size() <= l.sink.maxSize {
		return false, nil
	}
	return true, l.sink.rotate()
}

// rotate 调用方需持有锁
// app.log -> app.20240102150405.log
func (s *fileSink) rotate() error {
	_ = s.file.Close()
	s.file = nil

	ext := filepath.Ext(s.filename)
	rotated := fmt.Sprintf("%s.%s%s", strings.TrimSuffix(s.filename, ext), time.Now().Format("20060102150405"), ext)
	if err := os.Rename(s.filename, rotated); err != nil {
		return eris.Wrap(err, "logger: rename log file")
	}

	file, err := openLogFile(s.filename)
	if err != nil {
		return err
	}
	s.file = file
	return nil
}

// Close 刷新并关闭日志文件，关闭所有订阅通道
func (l *Logger) Close() error {
	_ = l.Logger.Sync()

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	for _, ch := range l.sink.subscribers {
		close(ch)
	}
	l.sink.subscribers = nil
	l.sink.closed = true

	if l.sink.file != nil {
		err := l.sink.file.Close()
		l.sink.file = nil
		return err
	}
	return nil
}
