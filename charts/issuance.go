package charts

import "math/big"

// CumulativeIssuanceChart plots the ETH in circulation (issued - burnt) and the total burnt ETH.
// Segments where the circulating supply rises are flagged.
func CumulativeIssuanceChart(blocks []*ChartBlock) *ChartConfig {
	circulating := reversedSeries(blocks, func(b *ChartBlock) float64 {
		supply := new(big.Int)
		if b.TotalIssued != nil {
			supply.Set(b.TotalIssued)
		}
		if b.TotalBurnt != nil {
			supply.Sub(supply, b.TotalBurnt)
		}
		return weiToRoundedEth(supply)
	})

	rising := make([]bool, len(circulating))
	for i := 1; i < len(circulating); i++ {
		rising[i] = circulating[i] > circulating[i-1]
	}

	return &ChartConfig{
		Type: "line",
		Data: ChartData{
			Labels: blockLabels(blocks),
			Datasets: []*ChartDataset{
				{
					Label:   "ETH in circulation",
					Data:    circulating,
					Fill:    true,
					Tension: 0.2,
					SegmentStyle: &SegmentStyle{
						Flags:                  rising,
						FlaggedBackgroundColor: "#D9F99D70",
						FlaggedBorderColor:     "#84CC16",
						BackgroundColor:        "#9CA3AF70",
						BorderColor:            "#4B5563",
					},
				},
				{
					Label: "Total burnt ETH",
					Data: reversedSeries(blocks, func(b *ChartBlock) float64 {
						return weiToRoundedEth(b.TotalBurnt)
					}),
					YAxisID:     "yBurntTotal",
					BorderColor: "#FB923C",
					Tension:     0.2,
					PointStyle:  "crossRot",
					Radius:      7,
				},
			},
		},
		Options: newChartOptions(map[string]*ChartScale{
			"x": {},
			"y": {
				Title:       &ChartScaleTitle{Display: true, Text: "ETH in circulation"},
				TickUnit:    "ETH",
				TickCommify: true,
			},
			"yBurntTotal": func() *ChartScale {
				axis := rightAxis("Total burnt ETH")
				axis.TickUnit = "ETH"
				axis.TickCommify = true
				return axis
			}(),
		}),
	}
}
