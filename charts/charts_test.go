package charts

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eth(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), big.NewInt(1e18))
}

// testBlocks returns blocks newest first
func testBlocks() []*ChartBlock {
	return []*ChartBlock{
		{Number: 12965002, GasUsed: 20_000_000, GasLimit: 30_000_000, BaseFee: big.NewInt(2_000_000_000), TotalIssued: eth(1003), TotalBurnt: eth(3)},
		{Number: 12965001, GasUsed: 15_000_000, GasLimit: 30_000_000, BaseFee: big.NewInt(1_000_000_000), TotalIssued: eth(1002), TotalBurnt: eth(1)},
		{Number: 12965000, GasUsed: 10_000_000, GasLimit: 29_999_999, BaseFee: nil, TotalIssued: eth(1001), TotalBurnt: eth(0)},
	}
}

func TestChartsReverseOrder(t *testing.T) {
	for _, mode := range []ChartMode{ChartModeCumulativeIssuance, ChartModeGasUsage, ChartModeBurntFees} {
		t.Run(mode.String(), func(t *testing.T) {
			chart, err := BuildChart(mode, testBlocks())
			require.NoError(t, err)

			assert.Equal(t, []string{"12,965,000", "12,965,001", "12,965,002"}, chart.Data.Labels)
			for _, dataset := range chart.Data.Datasets {
				assert.Len(t, dataset.Data, 3, dataset.Label)
			}
			assert.False(t, chart.Options.Animation)
			assert.Equal(t, "index", chart.Options.Interaction.Mode)
			assert.False(t, chart.Options.Interaction.Intersect)
			assert.False(t, chart.Options.Plugins.Legend.Display)
		})
	}
}

func TestCumulativeIssuanceChart(t *testing.T) {
	chart := CumulativeIssuanceChart(testBlocks())
	require.Len(t, chart.Data.Datasets, 2)

	circulating := chart.Data.Datasets[0]
	assert.Equal(t, "ETH in circulation", circulating.Label)
	assert.Equal(t, []float64{1001, 1001, 1000}, circulating.Data)
	// flat, then falling
	assert.Equal(t, []bool{false, false, false}, circulating.SegmentStyle.Flags)

	burnt := chart.Data.Datasets[1]
	assert.Equal(t, "yBurntTotal", burnt.YAxisID)
	assert.Equal(t, []float64{0, 1, 3}, burnt.Data)

	rising := CumulativeIssuanceChart([]*ChartBlock{
		{Number: 3, TotalIssued: eth(12), TotalBurnt: eth(1)},
		{Number: 2, TotalIssued: eth(10), TotalBurnt: eth(1)},
		{Number: 1, TotalIssued: eth(10), TotalBurnt: eth(1)},
	})
	assert.Equal(t, []bool{false, false, true}, rising.Data.Datasets[0].SegmentStyle.Flags)
}

func TestCumulativeIssuanceRounding(t *testing.T) {
	issued, _ := new(big.Int).SetString("1234567890000000000000", 10) // 1234.56789 ETH
	chart := CumulativeIssuanceChart([]*ChartBlock{{Number: 1, TotalIssued: issued}})
	assert.Equal(t, []float64{1234.57}, chart.Data.Datasets[0].Data)
	assert.Equal(t, []float64{0}, chart.Data.Datasets[1].Data)
}

func TestGasUsageChart(t *testing.T) {
	chart := GasUsageChart(testBlocks())
	require.Len(t, chart.Data.Datasets, 4)

	gasUsed := chart.Data.Datasets[0]
	assert.Equal(t, []float64{10_000_000, 15_000_000, 20_000_000}, gasUsed.Data)
	assert.Equal(t, []bool{false, false, true}, gasUsed.SegmentStyle.Flags)

	target := chart.Data.Datasets[1]
	assert.Equal(t, "Gas target", target.Label)
	assert.Equal(t, []float64{15_000_000, 15_000_000, 15_000_000}, target.Data)

	limit := chart.Data.Datasets[2]
	assert.Equal(t, []float64{29_999_999, 30_000_000, 30_000_000}, limit.Data)

	baseFee := chart.Data.Datasets[3]
	assert.Equal(t, "yBaseFee", baseFee.YAxisID)
	assert.Equal(t, []float64{0, 1_000_000_000, 2_000_000_000}, baseFee.Data)
}

func TestGasTargetFlags(t *testing.T) {
	tests := []struct {
		gasUsed  uint64
		gasLimit uint64
		over     bool
	}{
		{gasUsed: 15_000_000, gasLimit: 30_000_000, over: false},
		{gasUsed: 15_000_001, gasLimit: 30_000_000, over: true},
		{gasUsed: 14_999_999, gasLimit: 29_999_999, over: false},
		{gasUsed: 15_000_000, gasLimit: 29_999_999, over: true},
		{gasUsed: 0, gasLimit: 0, over: false},
		{gasUsed: 1, gasLimit: 1, over: true},
		{gasUsed: ^uint64(0), gasLimit: ^uint64(0), over: true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.over, IsOverGasTarget(tt.gasUsed, tt.gasLimit), "gasUsed %v gasLimit %v", tt.gasUsed, tt.gasLimit)
	}

	assert.Equal(t, uint64(15_000_000), GasTarget(29_999_999))
	assert.Equal(t, uint64(15_000_000), GasTarget(30_000_000))
}

func TestBurntFeesChart(t *testing.T) {
	chart := BurntFeesChart(testBlocks())
	require.Len(t, chart.Data.Datasets, 2)

	// 15M gas * 1 gwei = 15,000,000 gwei, 20M gas * 2 gwei = 40,000,000 gwei
	assert.Equal(t, []float64{0, 15_000_000, 40_000_000}, chart.Data.Datasets[0].Data)
	assert.Equal(t, "Burnt fees (Gwei)", chart.Data.Datasets[0].Label)

	assert.Equal(t, "3", BurntFee(7, big.NewInt(500_000_000)).String())
	assert.Equal(t, "0", BurntFee(7, nil).String())
}

func TestChartJSON(t *testing.T) {
	chart := GasUsageChart(testBlocks())
	data, err := json.Marshal(chart)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	options := decoded["options"].(map[string]interface{})
	assert.Equal(t, false, options["animation"])

	scales := options["scales"].(map[string]interface{})
	assert.Contains(t, scales, "yBaseFee")
	assert.Equal(t, "right", scales["yBaseFee"].(map[string]interface{})["position"])
}

func TestParseChartMode(t *testing.T) {
	mode, err := ParseChartMode("burnt")
	require.NoError(t, err)
	assert.Equal(t, ChartModeBurntFees, mode)

	_, err = ParseChartMode("bogus")
	assert.Error(t, err)

	_, err = BuildChart(ChartMode(9), nil)
	assert.Error(t, err)
}
