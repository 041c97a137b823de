package charts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/ethpandaops/slotscope/utils"
)

// ChartBlock is the projection of an execution block the charts are built from.
type ChartBlock struct {
	Number    uint64
	Hash      common.Hash
	Timestamp uint64
	GasUsed   uint64
	GasLimit  uint64
	BaseFee   *big.Int // nil before london

	TotalIssued *big.Int
	TotalBurnt  *big.Int
	BlockReward *big.Int
	UncleReward *big.Int
	FeeReward   *big.Int
}

type ChartMode uint8

const (
	ChartModeCumulativeIssuance ChartMode = iota
	ChartModeGasUsage
	ChartModeBurntFees
)

var chartModeNames = map[ChartMode]string{
	ChartModeCumulativeIssuance: "issuance",
	ChartModeGasUsage:           "gas",
	ChartModeBurntFees:          "burnt",
}

func (m ChartMode) String() string {
	if name, ok := chartModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ChartMode(%d)", m)
}

func ParseChartMode(name string) (ChartMode, error) {
	for mode, modeName := range chartModeNames {
		if modeName == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown chart mode: %v", name)
}

// ChartConfig is a chart.js configuration.
// Segment styles and tick formats can't be expressed as json and are applied by the page script.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string        `json:"labels"`
	Datasets []*ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label           string        `json:"label"`
	Data            []float64     `json:"data"`
	YAxisID         string        `json:"yAxisID,omitempty"`
	Fill            bool          `json:"fill,omitempty"`
	BackgroundColor string        `json:"backgroundColor,omitempty"`
	BorderColor     string        `json:"borderColor,omitempty"`
	BorderWidth     int           `json:"borderWidth,omitempty"`
	BorderDash      []int         `json:"borderDash,omitempty"`
	Tension         float64       `json:"tension,omitempty"`
	PointStyle      string        `json:"pointStyle,omitempty"`
	Radius          int           `json:"radius,omitempty"`
	SegmentStyle    *SegmentStyle `json:"segmentStyle,omitempty"`
}

// SegmentStyle colors the line segment ending at point i with the flagged colors if Flags[i] is set.
type SegmentStyle struct {
	Flags                  []bool `json:"flags"`
	FlaggedBackgroundColor string `json:"flaggedBackgroundColor"`
	FlaggedBorderColor     string `json:"flaggedBorderColor"`
	BackgroundColor        string `json:"backgroundColor"`
	BorderColor            string `json:"borderColor"`
}

type ChartOptions struct {
	Animation   bool                   `json:"animation"`
	Interaction ChartInteraction       `json:"interaction"`
	Plugins     ChartPlugins           `json:"plugins"`
	Scales      map[string]*ChartScale `json:"scales"`
}

type ChartInteraction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type ChartPlugins struct {
	Legend struct {
		Display bool `json:"display"`
	} `json:"legend"`
}

type ChartScale struct {
	Position    string           `json:"position,omitempty"`
	BeginAtZero bool             `json:"beginAtZero,omitempty"`
	Title       *ChartScaleTitle `json:"title,omitempty"`
	Grid        *ChartScaleGrid  `json:"grid,omitempty"`

	// tick formatting, applied by the page script
	TickUnit    string  `json:"tickUnit,omitempty"`
	TickDivisor float64 `json:"tickDivisor,omitempty"`
	TickCommify bool    `json:"tickCommify,omitempty"`
}

type ChartScaleTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type ChartScaleGrid struct {
	DrawOnChartArea bool `json:"drawOnChartArea"`
}

// BuildChart builds the chart of the given mode from blocks ordered newest first.
func BuildChart(mode ChartMode, blocks []*ChartBlock) (*ChartConfig, error) {
	switch mode {
	case ChartModeCumulativeIssuance:
		return CumulativeIssuanceChart(blocks), nil
	case ChartModeGasUsage:
		return GasUsageChart(blocks), nil
	case ChartModeBurntFees:
		return BurntFeesChart(blocks), nil
	}
	return nil, fmt.Errorf("unknown chart mode: %v", mode)
}

func newChartOptions(scales map[string]*ChartScale) ChartOptions {
	options := ChartOptions{
		Animation: false,
		Interaction: ChartInteraction{
			Mode:      "index",
			Intersect: false,
		},
		Scales: scales,
	}
	options.Plugins.Legend.Display = false
	return options
}

func rightAxis(title string) *ChartScale {
	return &ChartScale{
		Position: "right",
		Title:    &ChartScaleTitle{Display: true, Text: title},
		Grid:     &ChartScaleGrid{DrawOnChartArea: false},
	}
}

func baseFeeAxis() *ChartScale {
	axis := rightAxis("Base fee")
	axis.BeginAtZero = true
	axis.TickDivisor = 1e9
	axis.TickUnit = "Gwei"
	return axis
}

// blockLabels returns the comma grouped block numbers, oldest first
func blockLabels(blocks []*ChartBlock) []string {
	return reversedSeries(blocks, func(b *ChartBlock) string {
		return utils.FormatNumber(b.Number)
	})
}

// reversedSeries maps blocks (newest first) to a series ordered oldest first
func reversedSeries[T any](blocks []*ChartBlock, fn func(b *ChartBlock) T) []T {
	series := make([]T, len(blocks))
	for i, block := range blocks {
		series[len(blocks)-1-i] = fn(block)
	}
	return series
}

func baseFeeSeries(blocks []*ChartBlock) []float64 {
	return reversedSeries(blocks, func(b *ChartBlock) float64 {
		return bigToFloat(b.BaseFee)
	})
}

func baseFeeDataset(blocks []*ChartBlock) *ChartDataset {
	return &ChartDataset{
		Label:       "Base fee (wei)",
		Data:        baseFeeSeries(blocks),
		YAxisID:     "yBaseFee",
		BorderColor: "#38BDF8",
		Tension:     0.2,
	}
}

func bigToFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}

// weiToRoundedEth converts a wei amount to ETH, rounded to 2 decimals
func weiToRoundedEth(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	return decimal.NewFromBigInt(wei, -18).Round(2).InexactFloat64()
}
