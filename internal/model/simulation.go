package model

// Range is an inclusive [Min, Max] interval for a sampled input.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// SimulationConfig holds the inputs of one Monte Carlo run.
type SimulationConfig struct {
	Years             int     `json:"years" yaml:"years"`
	Sales             Range   `json:"sales" yaml:"sales"`
	Price             Range   `json:"price" yaml:"price"`
	Cost              Range   `json:"cost" yaml:"cost"`
	InitialInvestment float64 `json:"initial_investment" yaml:"initial_investment"`
	DiscountRate      float64 `json:"discount_rate" yaml:"discount_rate"`
	Trials            int     `json:"trials" yaml:"trials"`
}

// DiscountPreset names a discount rate option offered to users.
type DiscountPreset string

const (
	PresetEstablished DiscountPreset = "10%"
	PresetMediumRisk  DiscountPreset = "15%"
	PresetHighRisk    DiscountPreset = "20%"
	PresetCustom      DiscountPreset = "Custom"
)

// Trial is one sampled scenario and its derived metrics.
// ROI, IRR and BreakevenSales are nil when undefined for the trial.
type Trial struct {
	Sales          float64  `json:"sales"`
	Price          float64  `json:"price"`
	Cost           float64  `json:"cost"`
	Revenue        float64  `json:"revenue"`
	Expense        float64  `json:"expense"`
	AnnualCashflow float64  `json:"annual_cashflow"`
	NPV            float64  `json:"npv"`
	ROI            *float64 `json:"roi,omitempty"`
	IRR            *float64 `json:"irr,omitempty"`
	BreakevenSales *float64 `json:"breakeven_sales,omitempty"`
}

// SimulationSummary holds the aggregate statistics of a run.
// IRRCount may be smaller than Trials: non-converging trials are omitted
// and counted in IRROmitted, which skews MeanIRR towards converging trials.
type SimulationSummary struct {
	Trials          int      `json:"trials"`
	MeanNPV         float64  `json:"mean_npv"`
	StdDevNPV       float64  `json:"stddev_npv"`
	MinNPV          float64  `json:"min_npv"`
	MaxNPV          float64  `json:"max_npv"`
	P10NPV          float64  `json:"p10_npv"`
	P50NPV          float64  `json:"p50_npv"`
	P90NPV          float64  `json:"p90_npv"`
	ProbNPVPositive float64  `json:"prob_npv_positive"`
	MeanROI         *float64 `json:"mean_roi,omitempty"`
	ROICount        int      `json:"roi_count"`
	ROIOmitted      int      `json:"roi_omitted"`
	MeanIRR         *float64 `json:"mean_irr,omitempty"`
	IRRCount        int      `json:"irr_count"`
	IRROmitted      int      `json:"irr_omitted"`
	MeanBreakeven   *float64 `json:"mean_breakeven_sales,omitempty"`
	BreakevenCount  int      `json:"breakeven_count"`
	BreakevenOmit   int      `json:"breakeven_omitted"`
}

// HistogramBin is one bar of a value distribution, covering [Lower, Upper).
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// SimulationResult is everything a run produces for the rendering layer.
type SimulationResult struct {
	Config      SimulationConfig   `json:"config"`
	Seed        int64              `json:"seed"`
	Sales       []float64          `json:"sales,omitempty"`
	Prices      []float64          `json:"prices,omitempty"`
	Costs       []float64          `json:"costs,omitempty"`
	NPV         []float64          `json:"npv,omitempty"`
	ROI         []float64          `json:"roi,omitempty"`
	IRR         []float64          `json:"irr,omitempty"`
	Breakeven   []float64          `json:"breakeven_sales,omitempty"`
	Summary     SimulationSummary  `json:"summary"`
	Sensitivity map[string]float64 `json:"sensitivity"`
	Histogram   []HistogramBin     `json:"histogram"`
}

// WithoutArrays returns a shallow copy with the per-trial arrays dropped.
func (r *SimulationResult) WithoutArrays() *SimulationResult {
	out := *r
	out.Sales, out.Prices, out.Costs = nil, nil, nil
	out.NPV, out.ROI, out.IRR, out.Breakeven = nil, nil, nil, nil
	return &out
}
