package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/aditi-rao/supplylens-api/models"
	"github.com/aditi-rao/supplylens-api/services"
)

var orderColumns = []string{
	"order_id", "order_date", "ship_date", "category", "sub_category",
	"segment", "city", "product_name", "sales", "profit", "discount",
	"shipping_cost",
}

func ordersFixture() models.Table {
	return models.Table{
		Columns: orderColumns,
		Rows: [][]string{
			{"O-1", "2023-01-01", "2023-01-05", "Furniture", "Chairs", "Consumer", "Austin", "Chair", "100", "10", "0", "5"},
			{"O-2", "2023-02-01", "2023-02-04", "Technology", "Phones", "Corporate", "Dallas", "Phone", "200", "20", "0.1", "10"},
			{"O-3", "2023-03-01", "2023-03-02", "Furniture", "Desks", "Home Office", "Waco", "Desk", "300", "30", "0", "15"},
		},
	}
}

func analyticsRouter(mock *services.MockWarehouse) *gin.Engine {
	mock.SetAsMockForTesting()
	router := setupTestRouter()
	router.POST("/analytics/orders", mockAuthMiddleware("jane@example.com", models.RoleAnalyst), AnalyzeOrders)
	return router
}

func TestAnalyzeOrders_SuccessfulCycle(t *testing.T) {
	mock := services.NewMockWarehouse()
	mock.SetOrders(ordersFixture())
	router := analyticsRouter(mock)

	w := postJSON(router, "/analytics/orders", map[string]interface{}{})
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	assert.True(t, response["success"].(bool))
	assert.False(t, response["fetch_failed"].(bool))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["row_count"])

	metrics := data["metrics"].(map[string]interface{})
	assert.Equal(t, float64(600), metrics["total_sales"])
	assert.Equal(t, float64(3), metrics["distinct_cities"])
	assert.Equal(t, float64(10), metrics["profit_percentage"])
	assert.Equal(t, float64(200), metrics["sales_rate"])

	charts := data["charts"].(map[string]interface{})
	assert.Len(t, charts["monthly_sales"], 3)
}

func TestAnalyzeOrders_FiltersForwardedToWarehouse(t *testing.T) {
	mock := services.NewMockWarehouse()
	mock.SetOrders(ordersFixture())
	router := analyticsRouter(mock)

	w := postJSON(router, "/analytics/orders", map[string]interface{}{
		"product_name":   "chair",
		"category":       "Furniture",
		"segment":        "Consumer",
		"start_date":     "2023-01-01",
		"end_date":       "2023-12-31",
		"sort_column":    "Profit",
		"sort_direction": models.SortDescending,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	filter := mock.LastFilter()
	assert.NotNil(t, filter)
	assert.Equal(t, "chair", filter.ProductName)
	assert.Equal(t, "Furniture", filter.Category)
	assert.Equal(t, "Consumer", filter.Segment)
	assert.Equal(t, "2023-01-01", filter.StartDate.Format("2006-01-02"))
	assert.Equal(t, "Profit", filter.SortColumn)
}

func TestAnalyzeOrders_InvalidCriteria(t *testing.T) {
	mock := services.NewMockWarehouse()
	mock.SetOrders(ordersFixture())
	router := analyticsRouter(mock)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{name: "unknown category", body: map[string]interface{}{"category": "Electronics"}},
		{name: "unknown segment", body: map[string]interface{}{"segment": "Wholesale"}},
		{name: "unknown sort column", body: map[string]interface{}{"sort_column": "Discount"}},
		{name: "malformed date", body: map[string]interface{}{"start_date": "01/01/2023", "end_date": "2023-12-31"}},
		{name: "half-open date range", body: map[string]interface{}{"start_date": "2023-01-01"}},
		{name: "inverted date range", body: map[string]interface{}{"start_date": "2023-12-31", "end_date": "2023-01-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/analytics/orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			response := decodeResponse(t, w)
			assert.False(t, response["success"].(bool))
			errorData := response["error"].(map[string]interface{})
			assert.Equal(t, "INVALID_CRITERIA", errorData["code"])
		})
	}
}

func TestAnalyzeOrders_FetchFailureDegradesGracefully(t *testing.T) {
	mock := services.NewMockWarehouse()
	mock.SetFetchError(errors.New("warehouse unreachable"))
	router := analyticsRouter(mock)

	w := postJSON(router, "/analytics/orders", map[string]interface{}{})

	// A failed fetch is still a successful, empty response cycle
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	assert.True(t, response["success"].(bool))
	assert.True(t, response["fetch_failed"].(bool))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["row_count"])
	assert.Empty(t, data["records"])

	metrics := data["metrics"].(map[string]interface{})
	assert.Equal(t, float64(0), metrics["total_sales"])
	assert.Equal(t, float64(0), metrics["distinct_cities"])
}

func TestAnalyzeOrders_EmptyResultIsNotAnError(t *testing.T) {
	mock := services.NewMockWarehouse()
	mock.SetOrders(models.Table{Columns: orderColumns})
	router := analyticsRouter(mock)

	w := postJSON(router, "/analytics/orders", map[string]interface{}{})
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	assert.True(t, response["success"].(bool))
	assert.False(t, response["fetch_failed"].(bool))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["row_count"])
}

func TestAnalyzeOrders_SchemaMismatch(t *testing.T) {
	mock := services.NewMockWarehouse()
	mock.SetOrders(models.Table{
		Columns: []string{"order_id", "sales"},
		Rows:    [][]string{{"O-1", "100"}},
	})
	router := analyticsRouter(mock)

	w := postJSON(router, "/analytics/orders", map[string]interface{}{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	response := decodeResponse(t, w)
	assert.False(t, response["success"].(bool))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "SCHEMA_MISMATCH", errorData["code"])
}
