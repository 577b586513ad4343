// Package insights serves the dashboard's fixed datasets. There is no data
// pipeline behind these: they are read-only fixtures for visualization.
package insights

// Point is one labeled value in a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Dataset is one dashboard panel's payload. When Points is empty, Notice
// explains why.
type Dataset struct {
	Title  string  `json:"title"`
	Points []Point `json:"points"`
	Notice string  `json:"notice,omitempty"`
}

var marketGrowth = Dataset{
	Title: "Market Growth",
	Points: []Point{
		{Label: "2021", Value: 12.4},
		{Label: "2022", Value: 18.1},
		{Label: "2023", Value: 26.9},
		{Label: "2024", Value: 41.3},
		{Label: "2025", Value: 63.8},
	},
}

var demographics = Dataset{
	Title: "User Demographics",
	Points: []Point{
		{Label: "18-24", Value: 22},
		{Label: "25-34", Value: 38},
		{Label: "35-44", Value: 24},
		{Label: "45-54", Value: 11},
		{Label: "55+", Value: 5},
	},
}

var predictiveTrend = Dataset{
	Title:  "Predictive Trend",
	Notice: "No data available for visualization",
}

// MarketGrowth returns the market growth series.
func MarketGrowth() Dataset { return marketGrowth }

// Demographics returns the demographic split.
func Demographics() Dataset { return demographics }

// PredictiveTrend returns the predictive trend panel, which currently has
// no data behind it.
func PredictiveTrend() Dataset { return predictiveTrend }
