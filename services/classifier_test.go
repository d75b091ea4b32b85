package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aditi-rao/supplylens-api/models"
)

func uploadTable() models.Table {
	return models.Table{
		Columns: []string{"amount", "received_on", "region", "notes"},
		Rows: [][]string{
			{"10.5", "2023-01-01", "north", ""},
			{"20", "2023-01-02", "south", "rush order"},
			{"", "2023-01-03", "north", "rush order"},
		},
	}
}

func TestClassifyColumns(t *testing.T) {
	classification := ClassifyColumns(uploadTable())

	assert.Equal(t, []string{"amount"}, classification.Numeric)
	assert.Equal(t, []string{"received_on"}, classification.Date)
	assert.Equal(t, []string{"region", "notes"}, classification.Categorical)
}

func TestClassifyColumns_AllMissingColumnIsCategorical(t *testing.T) {
	table := models.Table{
		Columns: []string{"empty"},
		Rows:    [][]string{{""}, {""}},
	}

	classification := ClassifyColumns(table)
	assert.Empty(t, classification.Numeric)
	assert.Equal(t, []string{"empty"}, classification.Categorical)
}

func TestClassifyColumns_MixedColumnIsCategorical(t *testing.T) {
	table := models.Table{
		Columns: []string{"mixed"},
		Rows:    [][]string{{"1"}, {"abc"}},
	}

	classification := ClassifyColumns(table)
	assert.Equal(t, []string{"mixed"}, classification.Categorical)
}

func TestNumericColumn(t *testing.T) {
	table := uploadTable()

	values, err := NumericColumn(table, "amount")
	assert.NoError(t, err)
	assert.Equal(t, []float64{10.5, 20}, values)

	_, err = NumericColumn(table, "region")
	var columnErr *ColumnError
	assert.ErrorAs(t, err, &columnErr)
	assert.Equal(t, "INVALID_COLUMN", columnErr.Code)

	_, err = NumericColumn(table, "no_such_column")
	assert.ErrorAs(t, err, &columnErr)
	assert.Equal(t, "UNKNOWN_COLUMN", columnErr.Code)
}

func TestNumericColumn_CaseInsensitiveLookup(t *testing.T) {
	values, err := NumericColumn(uploadTable(), "Amount")
	assert.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestFrequencyTable(t *testing.T) {
	frequencies, err := FrequencyTable(uploadTable(), "region")
	assert.NoError(t, err)
	assert.Equal(t, []models.ValueCount{
		{Value: "north", Count: 2},
		{Value: "south", Count: 1},
	}, frequencies)
}

func TestFrequencyTable_SkipsMissingAndBreaksTiesByValue(t *testing.T) {
	table := models.Table{
		Columns: []string{"region"},
		Rows:    [][]string{{"south"}, {"north"}, {""}},
	}

	frequencies, err := FrequencyTable(table, "region")
	assert.NoError(t, err)
	assert.Equal(t, []models.ValueCount{
		{Value: "north", Count: 1},
		{Value: "south", Count: 1},
	}, frequencies)
}

func TestFrequencyTable_UnknownColumn(t *testing.T) {
	_, err := FrequencyTable(uploadTable(), "missing")
	var columnErr *ColumnError
	assert.ErrorAs(t, err, &columnErr)
	assert.Equal(t, "UNKNOWN_COLUMN", columnErr.Code)
}

func TestHistogram(t *testing.T) {
	buckets := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)

	assert.Len(t, buckets, 5)
	assert.Equal(t, 0.0, buckets[0].RangeStart)
	assert.Equal(t, 10.0, buckets[4].RangeEnd)

	var total int
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, 11, total)

	// The maximum lands in the last bucket, not past it
	assert.Equal(t, 3, buckets[4].Count)
}

func TestHistogram_DegenerateAndEmptyInputs(t *testing.T) {
	assert.Empty(t, Histogram(nil, 5))

	buckets := Histogram([]float64{7, 7, 7}, 5)
	assert.Equal(t, []models.HistogramBucket{{RangeStart: 7, RangeEnd: 7, Count: 3}}, buckets)
}

func TestHistogram_NonPositiveBinsFallsBackToDefault(t *testing.T) {
	buckets := Histogram([]float64{0, 100}, 0)
	assert.Len(t, buckets, DefaultHistogramBins)
}

func TestSummarizeNumericColumns(t *testing.T) {
	table := models.Table{
		Columns: []string{"amount"},
		Rows:    [][]string{{"2"}, {"4"}, {"6"}},
	}

	summaries := SummarizeNumericColumns(table, []string{"amount"})
	assert.Len(t, summaries, 1)

	summary := summaries[0]
	assert.Equal(t, "amount", summary.Column)
	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 4.0, summary.Mean, 1e-9)
	assert.InDelta(t, 2.0, summary.StdDev, 1e-9)
	assert.Equal(t, 2.0, summary.Min)
	assert.Equal(t, 6.0, summary.Max)
}

func TestSummarizeNumericColumns_SkipsUnusableColumns(t *testing.T) {
	table := models.Table{
		Columns: []string{"empty"},
		Rows:    [][]string{{""}},
	}

	summaries := SummarizeNumericColumns(table, []string{"empty", "missing"})
	assert.Empty(t, summaries)
}
