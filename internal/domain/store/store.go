package store

import (
	"math"

	"github.com/kailas-cloud/pricecheck/internal/domain/basket"
)

// Result is one candidate store with its priced basket.
// TotalPrice and Rank are owned by the validator and override model-supplied values.
type Result struct {
	StoreName  string        `json:"store_name"`
	Address    string        `json:"address"`
	DistanceKM *float64      `json:"distance_km"`
	Currency   string        `json:"currency"`
	Basket     []basket.Line `json:"basket"`
	TotalPrice float64       `json:"total_price"`
	Rank       int           `json:"rank"`
}

// Round2 rounds v to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotal sums unit_price * quantity over lines with a numeric unit price, rounded to 2 decimals.
func ComputeTotal(lines []basket.Line) float64 {
	var sum float64
	for i := range lines {
		if lines[i].UnitPrice == nil {
			continue
		}
		sum += *lines[i].UnitPrice * lines[i].Quantity
	}
	return Round2(sum)
}
