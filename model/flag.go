package model

// Flags represents the command line flags.
type Flags struct {
	Data         string
	Format       string
	DateFormat   string
	Strategy     string
	Params       []string
	Cash         float64
	Commission   float64
	Margin       float64
	Mult         float64
	Stake        float64
	Sizer        string
	Percent      float64
	SlipPerc     float64
	SlipFixed    float64
	CheatOnClose bool
	Timeframe    string
	Compression  int
	SessionStart string
	SessionEnd   string

	Optimize  bool
	OptParams []string
	SortBy    string
	Top       int
	MaxCPU    int

	Version        bool
	ListStrategies bool
	Output         string
	ExportTrades   string
	ExportEquity   string
	Verbose        bool

	Store      bool
	DBPath     string
	Trends     bool
	TrendDays  int
	Compare    bool
	ConfigPath string
}
