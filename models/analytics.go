package models

import "time"

// OrderRecord is one row of the cleaned order table produced fresh per
// query cycle. Dimension strings are lower-cased, measures are median-filled
// and the two derived columns are computed by the cleaning pipeline.
type OrderRecord struct {
	OrderID           string     `json:"order_id"`
	OrderDate         *time.Time `json:"order_date"`
	ShipDate          *time.Time `json:"ship_date"`
	Category          string     `json:"category"`
	SubCategory       string     `json:"sub_category"`
	Segment           string     `json:"segment"`
	City              string     `json:"city"`
	ProductName       string     `json:"product_name"`
	Sales             float64    `json:"sales"`
	Profit            float64    `json:"profit"`
	Discount          float64    `json:"discount"`
	ShippingCost      float64    `json:"shipping_cost"`
	LeadTimeDays      int        `json:"lead_time_days"`
	InventoryTurnover float64    `json:"inventory_turnover"`
}

// Metrics holds the scalar aggregates shown above the cleaned table.
type Metrics struct {
	TotalSales       float64 `json:"total_sales"`
	DistinctCities   int     `json:"distinct_cities"`
	ProfitPercentage float64 `json:"profit_percentage"` // 0 when TotalSales == 0
	SalesRate        float64 `json:"sales_rate"`        // 0 when no distinct orders
}

// MonthlyCount is one point of the monthly order trend (distinct orders
// placed in a YYYY-MM month).
type MonthlyCount struct {
	Month      string `json:"month"`
	OrderCount int    `json:"order_count"`
}

// MonthlyTotal is one point of the monthly sales trend.
type MonthlyTotal struct {
	Month      string  `json:"month"`
	TotalSales float64 `json:"total_sales"`
}

// DimensionTotal is the sales total for one dimension value (category or
// segment), for pie/bar display.
type DimensionTotal struct {
	Name       string  `json:"name"`
	TotalSales float64 `json:"total_sales"`
}

// ScatterPoint is one sales-vs-profit point with its hover dimensions.
type ScatterPoint struct {
	Sales       float64 `json:"sales"`
	Profit      float64 `json:"profit"`
	Category    string  `json:"category"`
	ProductName string  `json:"product_name"`
}

// HistogramBucket is one equal-width bucket of a numeric distribution.
type HistogramBucket struct {
	RangeStart float64 `json:"range_start"`
	RangeEnd   float64 `json:"range_end"`
	Count      int     `json:"count"`
}

// ValueCount is one row of a categorical frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ChartData bundles the chart-ready sub-tables for one dashboard cycle.
type ChartData struct {
	MonthlyOrderTrend  []MonthlyCount    `json:"monthly_order_trend"`
	MonthlySales       []MonthlyTotal    `json:"monthly_sales"`
	CategorySales      []DimensionTotal  `json:"category_sales"`
	SegmentSales       []DimensionTotal  `json:"segment_sales"`
	SalesProfitPoints  []ScatterPoint    `json:"sales_profit_points"`
	LeadTimeHist       []HistogramBucket `json:"lead_time_distribution"`
	InventoryTurnHist  []HistogramBucket `json:"inventory_turnover_distribution"`
}

// ColumnClassification partitions an uploaded table's columns for charting.
// Date columns are excluded from both chartable sets.
type ColumnClassification struct {
	Numeric     []string `json:"numeric_columns"`
	Date        []string `json:"date_columns"`
	Categorical []string `json:"categorical_columns"`
}

// ColumnSummary holds descriptive statistics for one numeric column of an
// uploaded dataset.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}
