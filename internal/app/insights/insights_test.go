package insights_test

import (
	"testing"

	"github.com/aetheroos/aethero-core/internal/app/insights"
)

func TestFixturesAreStable(t *testing.T) {
	if got := insights.MarketGrowth(); len(got.Points) == 0 {
		t.Fatalf("market growth should have points")
	}
	if got := insights.Demographics(); len(got.Points) == 0 {
		t.Fatalf("demographics should have points")
	}

	trend := insights.PredictiveTrend()
	if len(trend.Points) != 0 {
		t.Fatalf("predictive trend should be empty")
	}
	if trend.Notice == "" {
		t.Fatalf("predictive trend should carry a no-data notice")
	}
}
