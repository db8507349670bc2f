package main

import (
	"os"

	"FlightDelayInsight/src/config"
	"FlightDelayInsight/src/processor"
	"FlightDelayInsight/src/storage"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// app 子命令共享的运行环境，由根命令的 PersistentPreRunE 初始化
type app struct {
	configPath string

	cfg    *config.Config
	logger *storage.Logger
	store  *processor.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "flight-delay-insight",
		Short:         "航班延误统计",
		Long:          "加载年度航班记录和机场、航空公司参考表，计算延误总览、延误机场排名、时段分布和三年趋势。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "配置文件路径（默认在 ./config 和 . 下查找 config.json）")

	root.AddCommand(
		newServeCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
		newReopenCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := storage.NewLogger(cfg.Log)
	if err != nil {
		return eris.Wrap(err, "init logger")
	}

	a.cfg = cfg
	a.logger = logger
	a.store = processor.NewStore(processor.NewPipeline(cfg, logger.Logger))
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("错误:", err)
		os.Exit(1)
	}
}
