package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aditi-rao/supplylens-api/models"
	"github.com/aditi-rao/supplylens-api/services"
	"github.com/aditi-rao/supplylens-api/utils"
)

// AnalyzeOrdersRequest represents the filter form submitted for one
// dashboard query cycle. Dates are YYYY-MM-DD strings.
type AnalyzeOrdersRequest struct {
	ProductName   string `json:"product_name"`
	Category      string `json:"category"`
	Segment       string `json:"segment"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	SortColumn    string `json:"sort_column"`
	SortDirection string `json:"sort_direction"`
}

// AnalyzeOrders handles POST /api/v1/analytics/orders - one synchronous
// fetch, clean, summarize and chart cycle over the filtered order facts.
func AnalyzeOrders(c *gin.Context) {
	var req AnalyzeOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	criteria, err := req.toCriteria()
	if err != nil {
		respondInvalidCriteria(c, err.Error())
		return
	}

	warehouse := services.GetWarehouse()
	raw, err := warehouse.FetchOrders(*criteria)
	if err != nil {
		var criteriaErr *services.CriteriaError
		if errors.As(err, &criteriaErr) {
			respondInvalidCriteria(c, criteriaErr.Message)
			return
		}

		// Fetch failures degrade to "nothing to show" plus a reported flag;
		// the warehouse layer has already logged the cause.
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"fetch_failed": true,
			"data": gin.H{
				"records":   []models.OrderRecord{},
				"row_count": 0,
				"metrics":   models.Metrics{},
			},
		})
		return
	}

	records, err := services.CleanOrders(raw)
	if err != nil {
		var schemaErr *services.SchemaError
		if errors.As(err, &schemaErr) {
			utils.Diag(utils.SeverityError, "schema mismatch on order fetch: %v", schemaErr)
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SCHEMA_MISMATCH",
					"message": schemaErr.Error(),
				},
			})
			return
		}

		// Cleaning failed on unexpected data: report it, but still show the
		// raw rows where possible.
		utils.Diag(utils.SeverityError, "order cleaning failed: %v", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROCESSING_FAILURE",
				"message": "Failed to clean the fetched result",
			},
			"data": gin.H{
				"raw": raw,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"fetch_failed": false,
		"data": gin.H{
			"records":   records,
			"row_count": len(records),
			"metrics":   services.Summarize(records),
			"charts":    services.BuildChartData(records),
		},
	})
}

func (r AnalyzeOrdersRequest) toCriteria() (*models.FilterCriteria, error) {
	criteria := models.FilterCriteria{
		ProductName:   r.ProductName,
		Category:      r.Category,
		Segment:       r.Segment,
		SortColumn:    r.SortColumn,
		SortDirection: r.SortDirection,
	}

	start, err := parseCriteriaDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseCriteriaDate(r.EndDate)
	if err != nil {
		return nil, err
	}
	criteria.StartDate = start
	criteria.EndDate = end

	return &criteria, nil
}

func parseCriteriaDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, &services.CriteriaError{Message: "dates must be in YYYY-MM-DD form"}
	}
	return &t, nil
}

func respondInvalidCriteria(c *gin.Context, message string) {
	utils.Diag(utils.SeverityWarning, "invalid filter criteria: %s", message)
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_CRITERIA",
			"message": message,
		},
	})
}
