package charts

// GasTarget returns half of the gas limit, rounded half up
func GasTarget(gasLimit uint64) uint64 {
	return gasLimit/2 + gasLimit%2
}

// IsOverGasTarget reports whether gasUsed exceeds half of gasLimit.
// The floored integer division is exact here as gasUsed is an integer.
func IsOverGasTarget(gasUsed uint64, gasLimit uint64) bool {
	return gasUsed > gasLimit/2
}

// GasUsageChart plots gas used, gas target, gas limit and the base fee.
// Segments ending at a block that used more than half of its gas limit are flagged.
func GasUsageChart(blocks []*ChartBlock) *ChartConfig {
	return &ChartConfig{
		Type: "line",
		Data: ChartData{
			Labels: blockLabels(blocks),
			Datasets: []*ChartDataset{
				{
					Label: "Gas used",
					Data: reversedSeries(blocks, func(b *ChartBlock) float64 {
						return float64(b.GasUsed)
					}),
					Fill:    true,
					Tension: 0.2,
					SegmentStyle: &SegmentStyle{
						Flags: reversedSeries(blocks, func(b *ChartBlock) bool {
							return IsOverGasTarget(b.GasUsed, b.GasLimit)
						}),
						FlaggedBackgroundColor: "#22C55E70",
						FlaggedBorderColor:     "#22C55E",
						BackgroundColor:        "#EF444470",
						BorderColor:            "#EF4444",
					},
				},
				{
					Label: "Gas target",
					Data: reversedSeries(blocks, func(b *ChartBlock) float64 {
						return float64(GasTarget(b.GasLimit))
					}),
					BorderColor: "#FCA5A5",
					BorderDash:  []int{5, 5},
					BorderWidth: 2,
					Tension:     0.2,
					PointStyle:  "dash",
				},
				{
					Label: "Gas limit",
					Data: reversedSeries(blocks, func(b *ChartBlock) float64 {
						return float64(b.GasLimit)
					}),
					BorderColor: "#B91C1CF0",
					Tension:     0.2,
					PointStyle:  "crossRot",
					Radius:      5,
				},
				baseFeeDataset(blocks),
			},
		},
		Options: newChartOptions(map[string]*ChartScale{
			"x": {},
			"y": {
				BeginAtZero: true,
				Title:       &ChartScaleTitle{Display: true, Text: "Gas"},
			},
			"yBaseFee": baseFeeAxis(),
		}),
	}
}
