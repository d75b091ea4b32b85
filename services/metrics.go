package services

import "github.com/aditi-rao/supplylens-api/models"

// Summarize computes the scalar aggregates shown above the cleaned table.
// Pure and total: every metric is defined for every record set, including
// the empty one.
func Summarize(records []models.OrderRecord) models.Metrics {
	var metrics models.Metrics

	cities := make(map[string]bool)
	orders := make(map[string]bool)
	var totalProfit float64

	for _, r := range records {
		metrics.TotalSales += r.Sales
		totalProfit += r.Profit
		cities[r.City] = true
		orders[r.OrderID] = true
	}

	metrics.DistinctCities = len(cities)

	if metrics.TotalSales > 0 {
		metrics.ProfitPercentage = 100 * totalProfit / metrics.TotalSales
	}
	if len(orders) > 0 {
		metrics.SalesRate = metrics.TotalSales / float64(len(orders))
	}

	return metrics
}
