package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"FlightDelayInsight/src/api/response"
	"FlightDelayInsight/src/processor"
	"FlightDelayInsight/src/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DatasetProvider 提供进程内共享的数据集，processor.Store 实现了它
type DatasetProvider interface {
	Get(ctx context.Context) (*processor.Dataset, error)
}

// LogSource 实时日志来源，storage.Logger 实现了它
type LogSource interface {
	Subscribe() <-chan string
	Unsubscribe(ch <-chan string)
}

// Handler 统计接口的 HTTP 处理器
// 只负责解析参数和包装响应，计算全部交给 processor
type Handler struct {
	store  DatasetProvider
	logs   LogSource
	topN   int
	logger *zap.Logger
}

// NewHandler 创建 Handler，logs 为 nil 时 /logs 不可用
func NewHandler(store DatasetProvider, logs LogSource, topN int, logger *zap.Logger) *Handler {
	if topN <= 0 {
		topN = processor.DefaultTopN
	}
	return &Handler{store: store, logs: logs, topN: topN, logger: logger}
}

// OverviewResponse 总览接口的数据，延误率保留两位小数
type OverviewResponse struct {
	TotalFlights    int                         `json:"total_flights"`
	TotalDelays     int                         `json:"total_delays"`
	DelayPercentage float64                     `json:"delay_percentage"`
	AvailableYears  []int                       `json:"available_years"`
	Formatted       processor.FormattedOverview `json:"formatted"`
}

// FiltersResponse 可选的过滤项
type FiltersResponse struct {
	Years      []int    `json:"years"`
	Airlines   []string `json:"airlines"`
	TrendYears []int    `json:"trend_years"`
}

// dataset 取数据集并解析过滤条件，失败时已写好响应
// 数据加载出错时仍然使用（空的）数据集，接口返回零值而不是 500
func (h *Handler) dataset(c *gin.Context) (*processor.Dataset, processor.Filter, bool) {
	f, err := ParseFilter(c)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidParam, ErrInvalidYears.Error(), err.Error())
		return nil, processor.Filter{}, false
	}

	ds, err := h.store.Get(c.Request.Context())
	if err != nil {
		h.logger.Warn("数据集加载失败，使用空数据集", zap.Error(err))
	}
	if ds == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeDataNotLoaded, "数据未加载")
		return nil, processor.Filter{}, false
	}
	return ds, f, true
}

func (h *Handler) topNParam(c *gin.Context) (int, bool) {
	n, err := parseTopN(c, h.topN)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidParam, ErrInvalidTopN.Error(), err.Error())
		return 0, false
	}
	return n, true
}

// Overview 总览
// GET /api/overview?years=2022,2023&airlines=GOL
func (h *Handler) Overview(c *gin.Context) {
	ds, f, ok := h.dataset(c)
	if !ok {
		return
	}
	o := ds.Overview(f)
	response.OK(c, OverviewResponse{
		TotalFlights:    o.TotalFlights,
		TotalDelays:     o.TotalDelays,
		DelayPercentage: processor.Round2(o.DelayPercentage),
		AvailableYears:  o.AvailableYears,
		Formatted:       o.Format(),
	})
}

// TopAirports 延误最多的机场
// GET /api/top-airports?n=10
func (h *Handler) TopAirports(c *gin.Context) {
	ds, f, ok := h.dataset(c)
	if !ok {
		return
	}
	n, ok := h.topNParam(c)
	if !ok {
		return
	}
	response.OK(c, ds.TopDelayedAirports(f, n))
}

// DelaysByDayPeriod 按星期和时段的延误分布
// GET /api/delays-by-day-period
func (h *Handler) DelaysByDayPeriod(c *gin.Context) {
	ds, f, ok := h.dataset(c)
	if !ok {
		return
	}
	response.OK(c, ds.DelayBreakdown(f))
}

// Trends 三年趋势
// GET /api/trends
func (h *Handler) Trends(c *gin.Context) {
	ds, f, ok := h.dataset(c)
	if !ok {
		return
	}
	response.OK(c, ds.Trend(f))
}

// DelayReasons 延误原因代码排名，附带无原因和长延误的数量
// GET /api/delay-reasons?n=10&hours=2
func (h *Handler) DelayReasons(c *gin.Context) {
	ds, f, ok := h.dataset(c)
	if !ok {
		return
	}
	n, ok := h.topNParam(c)
	if !ok {
		return
	}
	hours, err := parseHours(c)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidParam, ErrInvalidHours.Error(), err.Error())
		return
	}
	response.OK(c, ds.DelayReasons(f, n, hours))
}

// TopAirlines 航班量最多的航空公司
// GET /api/airlines/top?n=10
func (h *Handler) TopAirlines(c *gin.Context) {
	ds, f, ok := h.dataset(c)
	if !ok {
		return
	}
	n, ok := h.topNParam(c)
	if !ok {
		return
	}
	response.OK(c, ds.TopAirlinesByFlights(f, n))
}

// Monthly 月度航班量
// GET /api/monthly
func (h *Handler) Monthly(c *gin.Context) {
	ds, f, ok := h.dataset(c)
	if !ok {
		return
	}
	response.OK(c, ds.MonthlyVolume(f))
}

// Filters 可选年份和航空公司
// GET /api/filters
func (h *Handler) Filters(c *gin.Context) {
	ds, _, ok := h.dataset(c)
	if !ok {
		return
	}
	response.OK(c, FiltersResponse{
		Years:      ds.Years(),
		Airlines:   ds.Airlines(),
		TrendYears: ds.TrendYears(),
	})
}

// Export 导出全部统计为 xlsx
// GET /api/export?years=2023
func (h *Handler) Export(c *gin.Context) {
	ds, f, ok := h.dataset(c)
	if !ok {
		return
	}
	n, ok := h.topNParam(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := utils.WriteExcel(&buf, ds.ReportSheets(f, n)); err != nil {
		h.logger.Error("生成 Excel 失败", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeExportFailed, "生成 Excel 文件失败")
		return
	}

	filename := fmt.Sprintf("flight-delay-report_%s.xlsx", time.Now().Format("20060102150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Logs 以 chunked 文本持续输出日志，客户端断开或日志关闭时结束
// GET /logs
func (h *Handler) Logs(c *gin.Context) {
	if h.logs == nil {
		response.Error(c, http.StatusNotFound, response.CodeInvalidParam, "日志订阅不可用")
		return
	}

	logChan := h.logs.Subscribe()
	defer h.logs.Unsubscribe(logChan)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case msg, ok := <-logChan:
			if !ok {
				return
			}
			if _, err := c.Writer.WriteString(msg); err != nil {
				return
			}
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// Health 健康检查，附带数据集是否已加载
// GET /health
func (h *Handler) Health(c *gin.Context) {
	loaded := false
	if s, ok := h.store.(interface{ Loaded() bool }); ok {
		loaded = s.Loaded()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dataset_loaded": loaded})
}
