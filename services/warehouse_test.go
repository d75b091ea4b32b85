package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aditi-rao/supplylens-api/models"
)

func dateP(value string) *time.Time {
	parsed, _ := time.Parse("2006-01-02", value)
	return &parsed
}

func TestBuildOrderQuery(t *testing.T) {
	tests := []struct {
		name      string
		criteria  models.FilterCriteria
		wantSQL   string
		wantArgs  []interface{}
		wantError string
	}{
		{
			name:     "defaults select everything sorted by sales ascending",
			criteria: models.FilterCriteria{},
			wantSQL:  "SELECT order_id, order_date, ship_date, category, sub_category, segment, city, product_name, sales, profit, discount, shipping_cost FROM order_facts WHERE 1=1 ORDER BY sales ASC",
		},
		{
			name: "all filters combined",
			criteria: models.FilterCriteria{
				ProductName:   "  Chair ",
				Category:      "Furniture",
				Segment:       "Consumer",
				StartDate:     dateP("2023-01-01"),
				EndDate:       dateP("2023-12-31"),
				SortColumn:    "Profit",
				SortDirection: models.SortDescending,
			},
			wantSQL: "SELECT order_id, order_date, ship_date, category, sub_category, segment, city, product_name, sales, profit, discount, shipping_cost FROM order_facts WHERE 1=1" +
				" AND LOWER(product_name) LIKE ? AND LOWER(category) = ? AND LOWER(segment) = ? AND order_date BETWEEN ? AND ? ORDER BY profit DESC",
			wantArgs: []interface{}{"%chair%", "furniture", "consumer", "2023-01-01", "2023-12-31"},
		},
		{
			name:     "All category adds no category predicate",
			criteria: models.FilterCriteria{Category: models.CategoryAll, Segment: models.SegmentAll},
			wantSQL:  "SELECT order_id, order_date, ship_date, category, sub_category, segment, city, product_name, sales, profit, discount, shipping_cost FROM order_facts WHERE 1=1 ORDER BY sales ASC",
		},
		{
			name:     "order date sort uses whitelisted column",
			criteria: models.FilterCriteria{SortColumn: "Order_Date"},
			wantSQL:  "SELECT order_id, order_date, ship_date, category, sub_category, segment, city, product_name, sales, profit, discount, shipping_cost FROM order_facts WHERE 1=1 ORDER BY order_date ASC",
		},
		{
			name:      "unknown category rejected",
			criteria:  models.FilterCriteria{Category: "Electronics"},
			wantError: "unknown category",
		},
		{
			name:      "unknown segment rejected",
			criteria:  models.FilterCriteria{Segment: "Wholesale"},
			wantError: "unknown segment",
		},
		{
			name:      "unknown sort column rejected",
			criteria:  models.FilterCriteria{SortColumn: "sales; DROP TABLE order_facts"},
			wantError: "unknown sort column",
		},
		{
			name:      "unknown sort direction rejected",
			criteria:  models.FilterCriteria{SortDirection: "sideways"},
			wantError: "unknown sort direction",
		},
		{
			name:      "start date without end date rejected",
			criteria:  models.FilterCriteria{StartDate: dateP("2023-01-01")},
			wantError: "both a start and an end",
		},
		{
			name:      "inverted date range rejected",
			criteria:  models.FilterCriteria{StartDate: dateP("2023-12-31"), EndDate: dateP("2023-01-01")},
			wantError: "must not be after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := BuildOrderQuery(tt.criteria)

			if tt.wantError != "" {
				assert.Nil(t, request)
				var criteriaErr *CriteriaError
				assert.ErrorAs(t, err, &criteriaErr)
				assert.Contains(t, criteriaErr.Message, tt.wantError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantSQL, request.SQL)
			if tt.wantArgs == nil {
				assert.Empty(t, request.Args)
			} else {
				assert.Equal(t, tt.wantArgs, request.Args)
			}
		})
	}
}

func TestBuildOrderQuery_EnumMatchingIsCaseInsensitive(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.FilterCriteria
		wantArgs []interface{}
	}{
		{
			name:     "lowercase category",
			criteria: models.FilterCriteria{Category: "furniture"},
			wantArgs: []interface{}{"furniture"},
		},
		{
			name:     "uppercase segment",
			criteria: models.FilterCriteria{Segment: "HOME OFFICE"},
			wantArgs: []interface{}{"home office"},
		},
		{
			name:     "lowercase All adds no predicate",
			criteria: models.FilterCriteria{Category: "all", Segment: "ALL"},
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := BuildOrderQuery(tt.criteria)
			assert.NoError(t, err)
			if tt.wantArgs == nil {
				assert.Empty(t, request.Args)
			} else {
				assert.Equal(t, tt.wantArgs, request.Args)
			}
		})
	}
}

func TestBuildOrderQuery_ValuesAreAlwaysBound(t *testing.T) {
	// Hostile filter text lands in the args, never the statement text
	request, err := BuildOrderQuery(models.FilterCriteria{ProductName: "'; DROP TABLE order_facts; --"})
	assert.NoError(t, err)
	assert.NotContains(t, request.SQL, "DROP TABLE")
	assert.Equal(t, []interface{}{"%'; drop table order_facts; --%"}, request.Args)
}

func TestCellString(t *testing.T) {
	when, _ := time.Parse("2006-01-02", "2023-05-01")

	tests := []struct {
		name string
		cell interface{}
		want string
	}{
		{name: "nil is missing", cell: nil, want: ""},
		{name: "bytes", cell: []byte("austin"), want: "austin"},
		{name: "string", cell: "austin", want: "austin"},
		{name: "float64", cell: 12.5, want: "12.5"},
		{name: "int64", cell: int64(42), want: "42"},
		{name: "bool", cell: true, want: "true"},
		{name: "time", cell: when, want: "2023-05-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellString(tt.cell))
		})
	}
}

func TestMockWarehouse_ValidatesCriteria(t *testing.T) {
	mock := NewMockWarehouse()

	_, err := mock.FetchOrders(models.FilterCriteria{Category: "Electronics"})
	var criteriaErr *CriteriaError
	assert.ErrorAs(t, err, &criteriaErr)
	assert.Nil(t, mock.LastFilter())
}

func TestMockWarehouse_RecordsLastFilter(t *testing.T) {
	mock := NewMockWarehouse()
	mock.SetOrders(models.Table{Columns: []string{"order_id"}})

	_, err := mock.FetchOrders(models.FilterCriteria{Category: "Furniture"})
	assert.NoError(t, err)
	assert.NotNil(t, mock.LastFilter())
	assert.Equal(t, "Furniture", mock.LastFilter().Category)
}
