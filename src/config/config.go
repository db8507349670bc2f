package config

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Data    DataConfig   `mapstructure:"data"`
	Columns ColumnConfig `mapstructure:"columns"`
	Server  ServerConfig `mapstructure:"server"`
	Log     LogConfig    `mapstructure:"log"`
	Report  ReportConfig `mapstructure:"report"`
}

// DataConfig 数据文件及解析规则
type DataConfig struct {
	FlightFileMap     map[string]string `mapstructure:"flight_files"` // 年份 -> 文件路径
	AirportFile       string            `mapstructure:"airport_file"`
	AirlineFile       string            `mapstructure:"airline_file"`
	Delimiter         string            `mapstructure:"delimiter"`
	FlightEncoding    string            `mapstructure:"flight_encoding"`
	ReferenceEncoding string            `mapstructure:"reference_encoding"`
	SheetName         string            `mapstructure:"sheet_name"` // xlsx 输入的工作表，空则取第一个
	Country           string            `mapstructure:"country"`
	CompletedStatus   string            `mapstructure:"completed_status"`
	TimestampLayout   string            `mapstructure:"timestamp_layout"`
	TrendYears        []int             `mapstructure:"trend_years"` // 为空时取数据中最近的三年
	Watch             bool              `mapstructure:"watch"`
}

// ColumnConfig 各表的列角色 -> 候选列名（按优先级排列）
type ColumnConfig struct {
	Flight  map[string][]string `mapstructure:"flight"`
	Airport map[string][]string `mapstructure:"airport"`
	Airline map[string][]string `mapstructure:"airline"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	File        string `mapstructure:"file"`
	MaxSize     string `mapstructure:"max_size"` // 形如 "10 * 1024 * 1024"
	RotateCheck string `mapstructure:"rotate_check"`
}

// ReportConfig 报表导出配置
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	TopN      int    `mapstructure:"top_n"`
}

// YearFile 年份与对应的航班文件
type YearFile struct {
	Year int
	Path string
}

// 列角色名称
const (
	RoleStatus             = "status"
	RoleOriginAirport      = "origin_airport_code"
	RoleDestinationAirport = "destination_airport_code"
	RoleAirline            = "airline_code"
	RoleFlightNumber       = "flight_number"
	RoleScheduledDeparture = "scheduled_departure"
	RoleActualDeparture    = "actual_departure"
	RoleScheduledArrival   = "scheduled_arrival"
	RoleActualArrival      = "actual_arrival"
	RoleJustification      = "justification_code"

	RoleIdentity = "identity"
	RoleName     = "name"
	RoleCountry  = "country"
)

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值；path 为空时在 ./config 与 . 下查找 config.json
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FDI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// map 类型的默认值会被 viper 按键合并，这里只在完全未配置时补齐
	if len(cfg.Data.FlightFileMap) == 0 {
		cfg.Data.FlightFileMap = DefaultFlightFiles()
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.airport_file", "dataset/codes/airport-codes.csv")
	v.SetDefault("data.airline_file", "dataset/codes/airlines-codes.csv")
	v.SetDefault("data.delimiter", ";")
	v.SetDefault("data.flight_encoding", "utf-8")
	v.SetDefault("data.reference_encoding", "latin1")
	v.SetDefault("data.country", "BR")
	v.SetDefault("data.completed_status", "REALIZADO")
	v.SetDefault("data.timestamp_layout", "02/01/2006 15:04")
	v.SetDefault("data.trend_years", []int{})
	v.SetDefault("data.watch", false)

	v.SetDefault("columns.flight", DefaultFlightColumns())
	v.SetDefault("columns.airport", DefaultAirportColumns())
	v.SetDefault("columns.airline", DefaultAirlineColumns())

	v.SetDefault("server.port", 5003)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "app.log")
	v.SetDefault("log.max_size", "10 * 1024 * 1024")
	v.SetDefault("log.rotate_check", "@every 1m")

	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.top_n", 10)
}

// DefaultFlightFiles 默认的年度航班文件
func DefaultFlightFiles() map[string]string {
	return map[string]string{
		"2022": "dataset/VRA2022.csv",
		"2023": "dataset/VRA2023.csv",
		"2024": "dataset/VRA2024.csv",
	}
}

// DefaultFlightColumns 航班文件列的候选名
func DefaultFlightColumns() map[string][]string {
	return map[string][]string{
		RoleStatus:             {"Situação Voo", "situacao_voo", "status"},
		RoleOriginAirport:      {"ICAO Aeródromo Origem", "aerodromo_origem", "origin_airport_code"},
		RoleDestinationAirport: {"ICAO Aeródromo Destino", "aerodromo_destino", "destination_airport_code"},
		RoleAirline:            {"ICAO Empresa Aérea", "icao_empresa_aerea", "airline_code"},
		RoleFlightNumber:       {"Número Voo", "numero_voo", "flight_number"},
		RoleScheduledDeparture: {"Partida Prevista", "partida_prevista", "scheduled_departure"},
		RoleActualDeparture:    {"Partida Real", "partida_real", "actual_departure"},
		RoleScheduledArrival:   {"Chegada Prevista", "chegada_prevista", "scheduled_arrival"},
		RoleActualArrival:      {"Chegada Real", "chegada_real", "actual_arrival"},
		RoleJustification:      {"Código Justificativa", "codigo_justificativa", "justification_code"},
	}
}

// DefaultAirportColumns 机场参考表列的候选名
func DefaultAirportColumns() map[string][]string {
	return map[string][]string{
		RoleIdentity: {"ident", "icao_code", "ICAO"},
		RoleName:     {"name", "aeroporto_nome", "Nome"},
		RoleCountry:  {"iso_country", "country"},
	}
}

// DefaultAirlineColumns 航空公司参考表列的候选名
func DefaultAirlineColumns() map[string][]string {
	return map[string][]string{
		RoleIdentity: {"ICAO", "Sigla", "icao_code"},
		RoleName:     {"Name", "Nome", "name"},
	}
}

// FlightFiles 按年份升序返回航班文件；无法解析为年份的键被忽略
func (dc *DataConfig) FlightFiles() []YearFile {
	files := make([]YearFile, 0, len(dc.FlightFileMap))
	for k, p := range dc.FlightFileMap {
		year, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || p == "" {
			continue
		}
		files = append(files, YearFile{Year: year, Path: p})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Year < files[j].Year })
	return files
}

// DelimiterRune 返回分隔符，默认分号
func (dc *DataConfig) DelimiterRune() rune {
	for _, r := range dc.Delimiter {
		return r
	}
	return ';'
}

// FlightMapping 返回完整的航班列映射（配置与默认值合并）
func (cc *ColumnConfig) FlightMapping() map[string][]string {
	return merge(cc.Flight, DefaultFlightColumns())
}

// AirportMapping 返回机场参考表的列映射
func (cc *ColumnConfig) AirportMapping() map[string][]string {
	return merge(cc.Airport, DefaultAirportColumns())
}

// AirlineMapping 返回航空公司参考表的列映射
func (cc *ColumnConfig) AirlineMapping() map[string][]string {
	return merge(cc.Airline, DefaultAirlineColumns())
}

// viper 会把 map 键转成小写，角色名本身就是小写
func merge(m, defaults map[string][]string) map[string][]string {
	out := make(map[string][]string, len(defaults))
	for role, names := range defaults {
		out[role] = names
	}
	for role, names := range m {
		if len(names) > 0 {
			out[strings.ToLower(role)] = names
		}
	}
	return out
}

// MaxLogBytes 计算日志文件的轮转阈值
func (lc LogConfig) MaxLogBytes() int64 {
	return eval(lc.MaxSize)
}

// eval 解析 "10 * 1024 * 1024" 这类乘法表达式，非法片段按 0 处理
func eval(expr string) int64 {
	if strings.TrimSpace(expr) == "" {
		return 0
	}
	var result int64 = 1
	for _, part := range strings.Split(expr, "*") {
		num, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0
		}
		result *= num
	}
	return result
}
