package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"FlightDelayInsight/src/api/handler"
	"FlightDelayInsight/src/api/router"
	"FlightDelayInsight/src/datasource/file"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 统计服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == 0 {
				port = a.cfg.Server.Port
			}
			return a.serve(cmd.Context(), port, watch || a.cfg.Data.Watch)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "监听端口（默认取配置）")
	cmd.Flags().BoolVar(&watch, "watch", false, "监控数据目录的文件变化")
	return cmd
}

func (a *app) serve(ctx context.Context, port int, watch bool) error {
	logger := a.logger.Logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 后台预热，首个请求不必等待加载
	go func() {
		t1 := time.Now()
		ds, err := a.store.Get(ctx)
		if err != nil {
			logger.Error("数据集加载失败", zap.Error(err))
			return
		}
		logger.Info("数据集加载完成", zap.Int("records", ds.Len()), zap.Duration("elapsed", time.Since(t1)))
	}()

	// 定时检查日志大小
	c := cron.New()
	if err := c.AddFunc(a.cfg.Log.RotateCheck, func() {
		rotated, err := a.logger.CheckRotate()
		if err != nil {
			logger.Error("日志轮转失败", zap.Error(err))
		} else if rotated {
			logger.Info("日志已轮转")
		}
	}); err != nil {
		return eris.Wrapf(err, "invalid log.rotate_check %q", a.cfg.Log.RotateCheck)
	}
	c.Start()
	defer c.Stop()

	go a.reopenOnHangup(ctx)

	if watch {
		if err := a.watchData(ctx); err != nil {
			logger.Warn("数据目录监控未启动", zap.Error(err))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	h := handler.NewHandler(a.store, a.logger, a.cfg.Report.TopN, logger)
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     router.Setup(a.cfg, h, logger),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return eris.Wrap(err, "server listen")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("收到关闭信号，开始优雅关闭...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}
	return nil
}

// reopenOnHangup 收到 SIGHUP 时重新打开日志文件，配合外部的日志切割工具
func (a *app) reopenOnHangup(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if a.cfg.Log.File == "" {
				continue
			}
			if err := a.logger.Reopen(a.cfg.Log.File); err != nil {
				a.logger.Error("重新打开日志文件失败", zap.Error(err))
				continue
			}
			a.logger.Info("日志文件已重新打开", zap.String("file", a.cfg.Log.File))
		}
	}
}

// watchData 监控航班文件所在目录
// 数据集在进程内只构建一次，这里只记录变化并提示重启
func (a *app) watchData(ctx context.Context) error {
	files := a.cfg.Data.FlightFiles()
	if len(files) == 0 {
		return eris.New("no flight files configured")
	}

	m, err := file.NewFileMonitor(filepath.Dir(files[0].Path), a.logger.Logger)
	if err != nil {
		return err
	}

	go func() {
		defer m.Close()
		err := m.Watch(ctx, func(name string, op fsnotify.Op) {
			a.logger.Warn("数据文件已变化，重启服务后生效", zap.String("file", name), zap.String("op", op.String()))
		})
		if err != nil {
			a.logger.Error("数据目录监控异常", zap.Error(err))
		}
	}()
	return nil
}
