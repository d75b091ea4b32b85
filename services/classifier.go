package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/aditi-rao/supplylens-api/models"
)

// DefaultHistogramBins is the fixed bucket count used for numeric
// distributions unless the caller chooses otherwise.
const DefaultHistogramBins = 30

// ColumnError reports a chart request against a column that does not fit
// the requested chart type.
type ColumnError struct {
	Code    string
	Message string
}

func (e *ColumnError) Error() string {
	return e.Message
}

// ClassifyColumns partitions a table's columns for charting. A column is
// numeric when every non-missing value parses as a number; otherwise a text
// column that parses fully as calendar dates is a date column (excluded
// from both chart sets); whatever remains is categorical.
func ClassifyColumns(table models.Table) models.ColumnClassification {
	classification := models.ColumnClassification{
		Numeric:     []string{},
		Date:        []string{},
		Categorical: []string{},
	}

	for _, col := range table.Columns {
		values := nonMissing(table.Column(col))
		switch {
		case len(values) > 0 && allNumeric(values):
			classification.Numeric = append(classification.Numeric, col)
		case len(values) > 0 && allDates(values):
			classification.Date = append(classification.Date, col)
		default:
			classification.Categorical = append(classification.Categorical, col)
		}
	}

	return classification
}

// NumericColumn parses the named column as decimals, skipping missing
// cells. It fails when the column is absent or holds non-numeric values.
func NumericColumn(table models.Table, column string) ([]float64, error) {
	if table.ColumnIndex(column) < 0 {
		return nil, &ColumnError{Code: "UNKNOWN_COLUMN", Message: fmt.Sprintf("column %q not found", column)}
	}

	values := nonMissing(table.Column(column))
	numbers := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &ColumnError{Code: "INVALID_COLUMN", Message: fmt.Sprintf("column %q is not numeric", column)}
		}
		numbers = append(numbers, f)
	}
	return numbers, nil
}

// FrequencyTable counts the values of a categorical column for bar-chart
// display, most frequent first.
func FrequencyTable(table models.Table, column string) ([]models.ValueCount, error) {
	if table.ColumnIndex(column) < 0 {
		return nil, &ColumnError{Code: "UNKNOWN_COLUMN", Message: fmt.Sprintf("column %q not found", column)}
	}

	counts := make(map[string]int)
	for _, v := range nonMissing(table.Column(column)) {
		counts[v]++
	}

	frequencies := make([]models.ValueCount, 0, len(counts))
	for value, count := range counts {
		frequencies = append(frequencies, models.ValueCount{Value: value, Count: count})
	}
	sort.Slice(frequencies, func(i, j int) bool {
		if frequencies[i].Count != frequencies[j].Count {
			return frequencies[i].Count > frequencies[j].Count
		}
		return frequencies[i].Value < frequencies[j].Value
	})
	return frequencies, nil
}

// Histogram bins values into equal-width buckets spanning min..max. The
// last bucket is inclusive of the maximum. A degenerate range (all values
// equal) collapses to a single bucket; an empty input yields no buckets.
func Histogram(values []float64, bins int) []models.HistogramBucket {
	if len(values) == 0 {
		return []models.HistogramBucket{}
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		return []models.HistogramBucket{{RangeStart: min, RangeEnd: max, Count: len(values)}}
	}

	width := (max - min) / float64(bins)
	buckets := make([]models.HistogramBucket, bins)
	for i := range buckets {
		buckets[i].RangeStart = min + float64(i)*width
		buckets[i].RangeEnd = min + float64(i+1)*width
	}
	buckets[bins-1].RangeEnd = max

	for _, v := range values {
		idx := int(math.Floor((v - min) / width))
		if idx >= bins {
			idx = bins - 1
		}
		buckets[idx].Count++
	}

	return buckets
}

// SummarizeNumericColumns computes descriptive statistics for every numeric
// column of an uploaded dataset.
func SummarizeNumericColumns(table models.Table, numericColumns []string) []models.ColumnSummary {
	summaries := make([]models.ColumnSummary, 0, len(numericColumns))
	for _, col := range numericColumns {
		numbers, err := NumericColumn(table, col)
		if err != nil || len(numbers) == 0 {
			continue
		}

		summary := models.ColumnSummary{Column: col, Count: len(numbers), Min: numbers[0], Max: numbers[0]}
		var sum float64
		for _, n := range numbers {
			sum += n
			if n < summary.Min {
				summary.Min = n
			}
			if n > summary.Max {
				summary.Max = n
			}
		}
		summary.Mean = sum / float64(len(numbers))

		var variance float64
		for _, n := range numbers {
			variance += (n - summary.Mean) * (n - summary.Mean)
		}
		if len(numbers) > 1 {
			summary.StdDev = math.Sqrt(variance / float64(len(numbers)-1))
		}

		summaries = append(summaries, summary)
	}
	return summaries
}

func nonMissing(values []string) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return kept
}

func allNumeric(values []string) bool {
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
	}
	return true
}

func allDates(values []string) bool {
	for _, v := range values {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return false
		}
	}
	return true
}
