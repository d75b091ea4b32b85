package services

import (
	"sort"

	"github.com/aditi-rao/supplylens-api/models"
)

// BuildChartData computes the dashboard's chart-ready sub-tables from the
// cleaned record set of the current cycle: monthly order and sales trends,
// category and segment totals, sales-vs-profit points and the two
// 30-bucket distributions.
func BuildChartData(records []models.OrderRecord) models.ChartData {
	leadTimes := make([]float64, 0, len(records))
	turnovers := make([]float64, 0, len(records))
	points := make([]models.ScatterPoint, 0, len(records))

	monthOrders := make(map[string]map[string]bool)
	monthSales := make(map[string]float64)
	categorySales := make(map[string]float64)
	segmentSales := make(map[string]float64)

	for _, r := range records {
		leadTimes = append(leadTimes, float64(r.LeadTimeDays))
		turnovers = append(turnovers, r.InventoryTurnover)
		points = append(points, models.ScatterPoint{
			Sales:       r.Sales,
			Profit:      r.Profit,
			Category:    r.Category,
			ProductName: r.ProductName,
		})

		categorySales[r.Category] += r.Sales
		segmentSales[r.Segment] += r.Sales

		if r.OrderDate == nil {
			continue
		}
		month := r.OrderDate.Format("2006-01")
		monthSales[month] += r.Sales
		if monthOrders[month] == nil {
			monthOrders[month] = make(map[string]bool)
		}
		monthOrders[month][r.OrderID] = true
	}

	return models.ChartData{
		MonthlyOrderTrend: monthlyOrderTrend(monthOrders),
		MonthlySales:      monthlySales(monthSales),
		CategorySales:     dimensionTotals(categorySales),
		SegmentSales:      dimensionTotals(segmentSales),
		SalesProfitPoints: points,
		LeadTimeHist:      Histogram(leadTimes, DefaultHistogramBins),
		InventoryTurnHist: Histogram(turnovers, DefaultHistogramBins),
	}
}

func monthlyOrderTrend(monthOrders map[string]map[string]bool) []models.MonthlyCount {
	trend := make([]models.MonthlyCount, 0, len(monthOrders))
	for month, orders := range monthOrders {
		trend = append(trend, models.MonthlyCount{Month: month, OrderCount: len(orders)})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })
	return trend
}

func monthlySales(monthSales map[string]float64) []models.MonthlyTotal {
	trend := make([]models.MonthlyTotal, 0, len(monthSales))
	for month, total := range monthSales {
		trend = append(trend, models.MonthlyTotal{Month: month, TotalSales: total})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })
	return trend
}

// dimensionTotals orders by descending sales, ties broken by name so the
// output is deterministic.
func dimensionTotals(totals map[string]float64) []models.DimensionTotal {
	out := make([]models.DimensionTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, models.DimensionTotal{Name: name, TotalSales: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSales != out[j].TotalSales {
			return out[i].TotalSales > out[j].TotalSales
		}
		return out[i].Name < out[j].Name
	})
	return out
}
