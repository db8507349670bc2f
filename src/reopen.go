package main

import (
	"os"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// newReopenCmd 向运行中的 serve 进程发送 SIGHUP，让它重新打开日志文件
// 用于外部工具切割日志之后
func newReopenCmd() *cobra.Command {
	var pid int
	cmd := &cobra.Command{
		Use:   "reopen-log",
		Short: "通知 serve 进程重新打开日志文件",
		// 不需要加载配置和日志
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if pid <= 0 || pid == os.Getpid() {
				return eris.Errorf("invalid pid %d", pid)
			}
			if err := syscall.Kill(pid, syscall.SIGHUP); err != nil {
				return eris.Wrapf(err, "send SIGHUP to %d", pid)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pid, "pid", 0, "serve 进程的 pid")
	_ = cmd.MarkFlagRequired("pid")
	return cmd
}
