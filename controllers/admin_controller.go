package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aditi-rao/supplylens-api/config"
	"github.com/aditi-rao/supplylens-api/services"
	"github.com/aditi-rao/supplylens-api/utils"
)

// InsertRowRequest represents a structured admin insert
type InsertRowRequest struct {
	Table  string                 `json:"table" binding:"required"`
	Values map[string]interface{} `json:"values" binding:"required"`
}

// UpdateRowsRequest represents a structured admin update
type UpdateRowsRequest struct {
	Table string                 `json:"table" binding:"required"`
	Set   map[string]interface{} `json:"set" binding:"required"`
	Where []services.Condition   `json:"where"`
}

// DeleteRowsRequest represents a structured admin delete
type DeleteRowsRequest struct {
	Table string               `json:"table" binding:"required"`
	Where []services.Condition `json:"where" binding:"required"`
}

// InsertRow handles POST /api/v1/admin/rows - inserts one row into a
// managed warehouse table (admins only)
func InsertRow(c *gin.Context) {
	var req InsertRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondAdminValidation(c, err)
		return
	}

	stmt, err := services.BuildInsert(req.Table, req.Values)
	if err != nil {
		respondStatementError(c, err)
		return
	}

	executeStatement(c, stmt, "insert")
}

// UpdateRows handles PUT /api/v1/admin/rows - updates rows of a managed
// warehouse table (admins only)
func UpdateRows(c *gin.Context) {
	var req UpdateRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondAdminValidation(c, err)
		return
	}

	stmt, err := services.BuildUpdate(req.Table, req.Set, req.Where)
	if err != nil {
		respondStatementError(c, err)
		return
	}

	executeStatement(c, stmt, "update")
}

// DeleteRows handles DELETE /api/v1/admin/rows - deletes rows of a managed
// warehouse table (admins only). A blanket delete with no WHERE is refused.
func DeleteRows(c *gin.Context) {
	var req DeleteRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondAdminValidation(c, err)
		return
	}

	stmt, err := services.BuildDelete(req.Table, req.Where)
	if err != nil {
		respondStatementError(c, err)
		return
	}

	executeStatement(c, stmt, "delete")
}

// ListRows handles GET /api/v1/admin/rows?table= - returns every row of a
// managed warehouse table for the admin view
func ListRows(c *gin.Context) {
	tableName, err := services.AdminTableName(c.Query("table"))
	if err != nil {
		respondStatementError(c, err)
		return
	}

	table, err := services.GetWarehouse().FetchTable(tableName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch table rows",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}

func executeStatement(c *gin.Context, stmt *services.Statement, operation string) {
	db := config.GetDB()
	result := db.Exec(stmt.SQL, stmt.Args...)
	if result.Error != nil {
		utils.Diag(utils.SeverityError, "admin %s failed: %v", operation, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to execute statement",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"operation":     operation,
			"rows_affected": result.RowsAffected,
		},
	})
}

func respondAdminValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

func respondStatementError(c *gin.Context, err error) {
	var stmtErr *services.StatementError
	if errors.As(err, &stmtErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    stmtErr.Code,
				"message": stmtErr.Message,
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Failed to build statement",
		},
	})
}
