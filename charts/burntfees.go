package charts

import "math/big"

var gweiDivisor = big.NewInt(1e9)

// BurntFee returns gasUsed * baseFee / 1e9, truncated
func BurntFee(gasUsed uint64, baseFee *big.Int) *big.Int {
	if baseFee == nil {
		return new(big.Int)
	}
	burnt := new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), baseFee)
	return burnt.Quo(burnt, gweiDivisor)
}

// BurntFeesChart plots the burnt fees per block and the base fee.
func BurntFeesChart(blocks []*ChartBlock) *ChartConfig {
	return &ChartConfig{
		Type: "line",
		Data: ChartData{
			Labels: blockLabels(blocks),
			Datasets: []*ChartDataset{
				{
					Label: "Burnt fees (Gwei)",
					Data: reversedSeries(blocks, func(b *ChartBlock) float64 {
						return bigToFloat(BurntFee(b.GasUsed, b.BaseFee))
					}),
					Fill:            true,
					BackgroundColor: "#FDBA7470",
					BorderColor:     "#FB923C",
					Tension:         0.2,
					PointStyle:      "crossRot",
					Radius:          7,
				},
				baseFeeDataset(blocks),
			},
		},
		Options: newChartOptions(map[string]*ChartScale{
			"x": {},
			"y": {
				BeginAtZero: true,
				Title:       &ChartScaleTitle{Display: true, Text: "Burnt fees"},
				TickDivisor: 1e9,
				TickUnit:    "ETH",
			},
			"yBaseFee": baseFeeAxis(),
		}),
	}
}
