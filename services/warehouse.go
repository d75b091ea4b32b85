package services

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aditi-rao/supplylens-api/models"
	"github.com/aditi-rao/supplylens-api/utils"
)

// CriteriaError represents an invalid filter shape; the request is never
// sent to the warehouse.
type CriteriaError struct {
	Message string
}

func (e *CriteriaError) Error() string {
	return e.Message
}

// QueryRequest is a parameterized data-retrieval request. Values are always
// bound at execution time, never concatenated into the query text.
type QueryRequest struct {
	SQL  string
	Args []interface{}
}

// BuildOrderQuery turns filter criteria into a parameterized query against
// the order-fact table. Pure construction: no side effects.
func BuildOrderQuery(criteria models.FilterCriteria) (*QueryRequest, error) {
	category, ok := models.CanonicalCategory(criteria.Category)
	if !ok {
		return nil, &CriteriaError{Message: fmt.Sprintf("unknown category %q", criteria.Category)}
	}

	segment, ok := models.CanonicalSegment(criteria.Segment)
	if !ok {
		return nil, &CriteriaError{Message: fmt.Sprintf("unknown segment %q", criteria.Segment)}
	}

	if (criteria.StartDate == nil) != (criteria.EndDate == nil) {
		return nil, &CriteriaError{Message: "date range requires both a start and an end date"}
	}
	if criteria.StartDate != nil && criteria.StartDate.After(*criteria.EndDate) {
		return nil, &CriteriaError{Message: "date range start must not be after its end"}
	}

	sortColumn := criteria.SortColumn
	if sortColumn == "" {
		sortColumn = "Sales"
	}
	orderBy, ok := models.SortColumns[sortColumn]
	if !ok {
		return nil, &CriteriaError{Message: fmt.Sprintf("unknown sort column %q", criteria.SortColumn)}
	}

	direction := criteria.SortDirection
	if direction == "" {
		direction = models.SortAscending
	}
	var sqlDirection string
	switch direction {
	case models.SortAscending:
		sqlDirection = "ASC"
	case models.SortDescending:
		sqlDirection = "DESC"
	default:
		return nil, &CriteriaError{Message: fmt.Sprintf("unknown sort direction %q", criteria.SortDirection)}
	}

	query := "SELECT order_id, order_date, ship_date, category, sub_category, segment, city, product_name, sales, profit, discount, shipping_cost FROM order_facts WHERE 1=1"
	var args []interface{}

	if criteria.ProductName != "" {
		query += " AND LOWER(product_name) LIKE ?"
		args = append(args, "%"+toLowerTrim(criteria.ProductName)+"%")
	}
	if category != models.CategoryAll {
		query += " AND LOWER(category) = ?"
		args = append(args, toLowerTrim(category))
	}
	if segment != models.SegmentAll {
		query += " AND LOWER(segment) = ?"
		args = append(args, toLowerTrim(segment))
	}
	if criteria.StartDate != nil {
		query += " AND order_date BETWEEN ? AND ?"
		args = append(args, criteria.StartDate.Format("2006-01-02"), criteria.EndDate.Format("2006-01-02"))
	}

	// Sort column and direction come from fixed whitelists, never user text.
	query += fmt.Sprintf(" ORDER BY %s %s", orderBy, sqlDirection)

	return &QueryRequest{SQL: query, Args: args}, nil
}

// WarehouseInterface defines the warehouse query operations
type WarehouseInterface interface {
	FetchOrders(criteria models.FilterCriteria) (models.Table, error)
	FetchTable(tableName string) (models.Table, error)
}

// Warehouse executes parameterized queries against the analytical store
type Warehouse struct {
	db *gorm.DB
}

var warehouseInstance WarehouseInterface

// InitWarehouse initializes the warehouse service over the given database
func InitWarehouse(db *gorm.DB) WarehouseInterface {
	warehouseInstance = &Warehouse{db: db}
	return warehouseInstance
}

// GetWarehouse returns the initialized warehouse service instance
func GetWarehouse() WarehouseInterface {
	return warehouseInstance
}

// SetWarehouse sets the warehouse service instance (primarily for testing)
func SetWarehouse(w WarehouseInterface) {
	warehouseInstance = w
}

// FetchOrders builds and executes the filtered order query. Execution
// failures are written to the diagnostic log and returned alongside an
// empty table; callers surface them as "nothing to show" plus a failure
// flag, never a crash.
func (w *Warehouse) FetchOrders(criteria models.FilterCriteria) (models.Table, error) {
	request, err := BuildOrderQuery(criteria)
	if err != nil {
		return models.Table{}, err
	}

	table, err := w.runQuery(request.SQL, request.Args...)
	if err != nil {
		utils.Diag(utils.SeverityError, "order fetch failed: %v", err)
		return models.Table{}, fmt.Errorf("order fetch failed: %w", err)
	}
	return table, nil
}

// FetchTable returns every row of a warehouse table. The name must come
// from the admin whitelist; this method never receives user text directly.
func (w *Warehouse) FetchTable(tableName string) (models.Table, error) {
	table, err := w.runQuery("SELECT * FROM " + tableName)
	if err != nil {
		utils.Diag(utils.SeverityError, "table fetch failed for %s: %v", tableName, err)
		return models.Table{}, fmt.Errorf("table fetch failed: %w", err)
	}
	return table, nil
}

func (w *Warehouse) runQuery(query string, args ...interface{}) (models.Table, error) {
	rows, err := w.db.Raw(query, args...).Rows()
	if err != nil {
		return models.Table{}, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Printf("warning: failed to close result rows: %v", closeErr)
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return models.Table{}, err
	}

	table := models.Table{Columns: columns}
	for rows.Next() {
		cells := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range cells {
			pointers[i] = &cells[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return models.Table{}, err
		}

		row := make([]string, len(columns))
		for i, cell := range cells {
			row[i] = cellString(cell)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return models.Table{}, err
	}

	return table, nil
}

// cellString renders a scanned cell as a string, with "" for NULL. Floats
// keep their shortest exact representation and dates their calendar form.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02")
	case sql.NullString:
		if !v.Valid {
			return ""
		}
		return v.String
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toLowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
