package scoring

// Weights are the coefficients of the composite score. They are tuning
// constants, not derived from a statistical model.
type Weights struct {
	Return       float64 `mapstructure:"return" envconfig:"RETURN"`
	RiskAdjusted float64 `mapstructure:"risk_adjusted" envconfig:"RISK_ADJUSTED"`
	Trend        float64 `mapstructure:"trend" envconfig:"TREND"`
	Efficiency   float64 `mapstructure:"efficiency" envconfig:"EFFICIENCY"`
	Drawdown     float64 `mapstructure:"drawdown" envconfig:"DRAWDOWN"`
}

// DefaultWeights returns the reference weights.
func DefaultWeights() Weights {
	return Weights{
		Return:       0.4,
		RiskAdjusted: 20,
		Trend:        20,
		Efficiency:   25,
		Drawdown:     0.1,
	}
}
