package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aditi-rao/supplylens-api/models"
)

// requiredOrderColumns must all be present in a fetched result before
// cleaning; a missing one is a schema mismatch, reported, never silently
// dropped.
var requiredOrderColumns = []string{
	"order_id", "order_date", "ship_date", "category", "sub_category",
	"segment", "city", "product_name", "sales", "profit", "discount",
	"shipping_cost",
}

// dateLayouts are tried in order when coercing a cell to a calendar date.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// SchemaError reports expected columns absent from a fetched result
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("result is missing expected columns: %s", strings.Join(e.Missing, ", "))
}

// CleanOrders turns a raw fetched table into the cleaned, de-duplicated,
// derived-metric record set shown to the user. The steps are deterministic,
// order-preserving and must run in this order, since later steps depend on
// earlier ones:
//
//  1. coerce Order_Date / Ship_Date to calendar dates (unparseable -> missing)
//  2. fill missing Discount/Profit/Sales/Shipping_Cost with the column median
//     computed over the current result set, before de-duplication
//  3. drop exact-duplicate rows
//  4. derive lead_time_days = max(0, Ship_Date - Order_Date), missing -> 0
//  5. derive inventory_turnover = Sales / (Shipping_Cost + 1)
//  6. lower-case Category, Sub_Category, Segment
//
// An empty input table produces an empty output with no error.
func CleanOrders(raw models.Table) ([]models.OrderRecord, error) {
	var missing []string
	for _, col := range requiredOrderColumns {
		if raw.ColumnIndex(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	if raw.Empty() {
		return []models.OrderRecord{}, nil
	}

	idx := make(map[string]int, len(requiredOrderColumns))
	for _, col := range requiredOrderColumns {
		idx[col] = raw.ColumnIndex(col)
	}

	cell := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	// Step 1: date coercion, plus measure parsing so the medians of step 2
	// are computed over coerced values.
	type workingRow struct {
		orderID, category, subCategory, segment, city, productName string
		orderDate, shipDate                                        *time.Time
		sales, profit, discount, shippingCost                      *float64
	}

	rows := make([]workingRow, 0, len(raw.Rows))
	for _, r := range raw.Rows {
		rows = append(rows, workingRow{
			orderID:      cell(r, "order_id"),
			orderDate:    parseDate(cell(r, "order_date")),
			shipDate:     parseDate(cell(r, "ship_date")),
			category:     cell(r, "category"),
			subCategory:  cell(r, "sub_category"),
			segment:      cell(r, "segment"),
			city:         cell(r, "city"),
			productName:  cell(r, "product_name"),
			sales:        parseMeasure(cell(r, "sales")),
			profit:       parseMeasure(cell(r, "profit")),
			discount:     parseMeasure(cell(r, "discount")),
			shippingCost: parseMeasure(cell(r, "shipping_cost")),
		})
	}

	// Step 2: medians over the current (pre-dedupe) result set.
	medianOf := func(pick func(workingRow) *float64) float64 {
		var values []float64
		for _, r := range rows {
			if v := pick(r); v != nil {
				values = append(values, *v)
			}
		}
		return median(values)
	}
	salesMedian := medianOf(func(r workingRow) *float64 { return r.sales })
	profitMedian := medianOf(func(r workingRow) *float64 { return r.profit })
	discountMedian := medianOf(func(r workingRow) *float64 { return r.discount })
	shippingMedian := medianOf(func(r workingRow) *float64 { return r.shippingCost })

	fill := func(v *float64, median float64) float64 {
		if v == nil {
			return median
		}
		return *v
	}

	// Step 3: exact-duplicate removal, first occurrence wins.
	seen := make(map[string]bool, len(rows))
	records := make([]models.OrderRecord, 0, len(rows))
	for _, r := range rows {
		record := models.OrderRecord{
			OrderID:      r.orderID,
			OrderDate:    r.orderDate,
			ShipDate:     r.shipDate,
			City:         r.city,
			ProductName:  r.productName,
			Sales:        fill(r.sales, salesMedian),
			Profit:       fill(r.profit, profitMedian),
			Discount:     fill(r.discount, discountMedian),
			ShippingCost: fill(r.shippingCost, shippingMedian),
		}

		key := dedupeKey(record, r.category, r.subCategory, r.segment)
		if seen[key] {
			continue
		}
		seen[key] = true

		// Step 4: lead time, clamped at zero, missing inputs yield zero.
		if record.OrderDate != nil && record.ShipDate != nil {
			days := int(record.ShipDate.Sub(*record.OrderDate).Hours() / 24)
			if days > 0 {
				record.LeadTimeDays = days
			}
		}

		// Step 5: derived efficiency ratio; the +1 keeps it defined at
		// shipping_cost == 0.
		record.InventoryTurnover = record.Sales / (record.ShippingCost + 1)

		// Step 6: normalize dimension text.
		record.Category = strings.ToLower(r.category)
		record.SubCategory = strings.ToLower(r.subCategory)
		record.Segment = strings.ToLower(r.segment)

		records = append(records, record)
	}

	return records, nil
}

// parseDate coerces a cell to a calendar date; unparseable values become
// missing, not errors.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// parseMeasure coerces a cell to a decimal; unparseable values become
// missing so the median fill can handle them.
func parseMeasure(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func dedupeKey(record models.OrderRecord, category, subCategory, segment string) string {
	var b strings.Builder
	b.WriteString(record.OrderID)
	b.WriteByte('\x1f')
	b.WriteString(formatDateKey(record.OrderDate))
	b.WriteByte('\x1f')
	b.WriteString(formatDateKey(record.ShipDate))
	b.WriteByte('\x1f')
	b.WriteString(category)
	b.WriteByte('\x1f')
	b.WriteString(subCategory)
	b.WriteByte('\x1f')
	b.WriteString(segment)
	b.WriteByte('\x1f')
	b.WriteString(record.City)
	b.WriteByte('\x1f')
	b.WriteString(record.ProductName)
	b.WriteByte('\x1f')
	b.WriteString(strconv.FormatFloat(record.Sales, 'f', -1, 64))
	b.WriteByte('\x1f')
	b.WriteString(strconv.FormatFloat(record.Profit, 'f', -1, 64))
	b.WriteByte('\x1f')
	b.WriteString(strconv.FormatFloat(record.Discount, 'f', -1, 64))
	b.WriteByte('\x1f')
	b.WriteString(strconv.FormatFloat(record.ShippingCost, 'f', -1, 64))
	return b.String()
}

func formatDateKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// median returns the middle value of the sorted input (mean of the two
// middle values for even counts), or 0 for an empty input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
