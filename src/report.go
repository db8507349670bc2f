package main

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"FlightDelayInsight/src/api/handler"
	"FlightDelayInsight/src/processor"
	"FlightDelayInsight/src/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// filterFlags summary 和 export 共用的过滤参数
type filterFlags struct {
	years    string
	airlines string
	top      int
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.years, "years", "", "年份，逗号分隔，例如 2023,2024")
	cmd.Flags().StringVar(&ff.airlines, "airlines", "", "航空公司名称，逗号分隔")
	cmd.Flags().IntVar(&ff.top, "top", 0, "排名条数（默认取配置）")
}

func (ff *filterFlags) filter() (processor.Filter, error) {
	years, err := handler.ParseYears(ff.years)
	if err != nil {
		return processor.Filter{}, err
	}
	return processor.Filter{Years: years, Airlines: handler.ParseAirlines(ff.airlines)}, nil
}

func (ff *filterFlags) topN(def int) int {
	if ff.top > 0 {
		return ff.top
	}
	if def > 0 {
		return def
	}
	return processor.DefaultTopN
}

func newSummaryCmd(a *app) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "在终端输出延误总览、延误机场排名和趋势",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			ds, err := a.store.Get(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), ds, f, ff.topN(a.cfg.Report.TopN))
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		ff  filterFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出统计报表为 xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			ds, err := a.store.Get(cmd.Context())
			if err != nil {
				return err
			}

			if out == "" {
				out = filepath.Join(a.cfg.Report.OutputDir,
					fmt.Sprintf("flight-delay-report_%s.xlsx", time.Now().Format("20060102150405")))
			}
			if err := utils.SaveToExcel(ds.ReportSheets(f, ff.topN(a.cfg.Report.TopN)), out); err != nil {
				return err
			}
			a.logger.Info("报表已导出", zap.String("file", out))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出文件（默认在 report.output_dir 下按时间命名）")
	return cmd
}

func printSummary(w io.Writer, ds *processor.Dataset, f processor.Filter, topN int) {
	o := ds.Overview(f)
	fo := o.Format()
	fmt.Fprintf(w, "航班总数: %s\n", fo.TotalFlights)
	fmt.Fprintf(w, "延误航班: %s\n", fo.TotalDelays)
	fmt.Fprintf(w, "延误率:   %s\n", fo.DelayPercentage)
	fmt.Fprintf(w, "可用年份: %v\n\n", o.AvailableYears)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "排名\t机场\t延误次数")
	for i, a := range ds.TopDelayedAirports(f, topN) {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, a.AirportName, processor.FormatCount(a.DelayCount))
	}
	tw.Flush()

	tr := ds.Trend(f)
	fmt.Fprintln(w)
	if tr.Insufficient {
		fmt.Fprintf(w, "趋势: 数据不足，缺少年份 %v\n", tr.MissingYears)
		return
	}
	printTrend(w, fmt.Sprintf("延误持续上升 %v", tr.Years), tr.Increase)
	printTrend(w, fmt.Sprintf("延误持续下降 %v", tr.Years), tr.Decrease)
}

func printTrend(w io.Writer, title string, entries []processor.TrendEntry) {
	fmt.Fprintln(w, title)
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (无)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%d\n", e.AirportName, e.Year1Count, e.Year2Count, e.Year3Count)
	}
	tw.Flush()
}
