// monitor.go
package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// 只关心这些扩展名的数据文件
var watchedExts = map[string]bool{".csv": true, ".txt": true, ".xlsx": true}

// FileMonitor 监控数据目录，数据文件变化时通知调用方
// 已加载的数据集不会被替换，调用方只会得到提示（数据在进程内只构建一次）
type FileMonitor struct {
	watchDir string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	lastMod  map[string]time.Time
	mu       sync.Mutex
}

// NewFileMonitor 创建目录监控器
func NewFileMonitor(dir string, logger *zap.Logger) (*FileMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "monitor: new watcher")
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, eris.Wrapf(err, "monitor: watch %s", dir)
	}

	return &FileMonitor{
		watchDir: dir,
		watcher:  watcher,
		logger:   logger.With(zap.String("dir", dir)),
		lastMod:  map[string]time.Time{},
	}, nil
}

// Watch 阻塞直到 ctx 结束或监控器关闭
// 同一文件的重复写事件按修改时间去重
func (m *FileMonitor) Watch(ctx context.Context, handler func(name string, op fsnotify.Op)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if !watchedExts[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			if m.accept(event) {
				m.logger.Info("数据文件变化", zap.String("file", event.Name), zap.String("op", event.Op.String()))
				handler(event.Name, event.Op)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return eris.Wrap(err, "monitor: watch")
		}
	}
}

func (m *FileMonitor) accept(event fsnotify.Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(m.lastMod, event.Name)
		return true
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return false
		}
		if !info.ModTime().After(m.lastMod[event.Name]) {
			return false
		}
		m.lastMod[event.Name] = info.ModTime()
		return true
	}
	return false
}

// Close 停止监控
func (m *FileMonitor) Close() error {
	return m.watcher.Close()
}
