package market

// AssetKey uniquely identifies an asset.
type AssetKey string

const (
	KeyWTM AssetKey = "WTM"
	KeyBGE AssetKey = "BGE"
	KeyCSI AssetKey = "CSI"
	KeySHG AssetKey = "SHG"
	KeyMWS AssetKey = "MWS"
)

// MinPrice is the floor applied to every simulated price.
const MinPrice = 0.01

// Stats holds the rolling statistics recomputed from an asset's history.
type Stats struct {
	ReturnPct      float64 // return since window start (%)
	Volatility     float64 // stddev of price over the window
	Drawdown       float64 // max decline below the running peak (%), >= 0
	Efficiency     float64 // ReturnPct / Volatility
	RiskEfficiency float64 // Efficiency penalized by Drawdown
}

// Asset represents one simulated tradable instrument.
type Asset struct {
	Key  AssetKey
	Name string

	Price     float64
	BaseDrift float64
	BaseVol   float64
	Drift     float64
	Vol       float64

	// History is a sliding window of past prices, oldest first.
	History []float64
	// Evicted counts history entries dropped since the last reset.
	Evicted int

	Stats
}

// Clone returns a deep copy of the asset.
func (a Asset) Clone() Asset {
	out := a
	out.History = make([]float64, len(a.History))
	copy(out.History, a.History)
	return out
}

// Seed holds the fixed starting values of an asset.
type Seed struct {
	Key   AssetKey
	Name  string
	Price float64
	Drift float64
	Vol   float64
}

// DefaultSeeds returns the five assets the game starts with.
func DefaultSeeds() []Seed {
	return []Seed{
		{Key: KeyWTM, Name: "Sunggyu Chemical", Price: 100, Drift: 0.001, Vol: 0.08},
		{Key: KeyBGE, Name: "Taeho Oil", Price: 80, Drift: 0.0008, Vol: 0.07},
		{Key: KeyCSI, Name: "Hyorim Security", Price: 60, Drift: 0.0012, Vol: 0.09},
		{Key: KeySHG, Name: "Hyunbin Finance", Price: 120, Drift: 0.0006, Vol: 0.05},
		{Key: KeyMWS, Name: "Hanstagram", Price: 40, Drift: 0.0015, Vol: 0.12},
	}
}

// NewAsset creates an asset in its starting state with warmup copies of the
// seed price already in its history.
func NewAsset(s Seed, warmup int) Asset {
	if warmup < 1 {
		warmup = 1
	}
	history := make([]float64, warmup)
	for i := range history {
		history[i] = s.Price
	}
	return Asset{
		Key:       s.Key,
		Name:      s.Name,
		Price:     s.Price,
		BaseDrift: s.Drift,
		BaseVol:   s.Vol,
		Drift:     s.Drift,
		Vol:       s.Vol,
		History:   history,
	}
}
