package services

import (
	"fmt"
	"sort"
	"strings"
)

// The admin surface operates on two logical warehouse tables. Identifiers
// are resolved through these whitelists; user input never reaches the
// statement text, only its bound values.
var adminTables = map[string]adminTable{
	"orders": {
		name: "order_facts",
		columns: map[string]bool{
			"order_id": true, "order_date": true, "ship_date": true,
			"category": true, "sub_category": true, "segment": true,
			"city": true, "product_name": true, "sales": true,
			"profit": true, "discount": true, "shipping_cost": true,
		},
	},
	"users": {
		name: "users",
		columns: map[string]bool{
			"username": true, "email": true, "password_hash": true, "role": true,
		},
	},
}

type adminTable struct {
	name    string
	columns map[string]bool
}

// allowedOperators are the comparison operators accepted in WHERE conditions.
var allowedOperators = map[string]bool{
	"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true, "LIKE": true,
}

// StatementError reports a rejected admin statement
type StatementError struct {
	Code    string
	Message string
}

func (e *StatementError) Error() string {
	return e.Message
}

// Condition is one structured WHERE predicate
type Condition struct {
	Column   string      `json:"column" binding:"required"`
	Operator string      `json:"operator" binding:"required"`
	Value    interface{} `json:"value"`
}

// Statement is a fully parameterized DML statement ready for execution
type Statement struct {
	SQL  string
	Args []interface{}
}

// AdminTableName resolves a logical admin table to its warehouse name
func AdminTableName(table string) (string, error) {
	t, ok := adminTables[strings.ToLower(table)]
	if !ok {
		return "", &StatementError{Code: "UNKNOWN_TABLE", Message: fmt.Sprintf("table %q is not managed by the admin surface", table)}
	}
	return t.name, nil
}

// BuildInsert builds a parameterized INSERT for one row. Columns are
// validated against the table's allowed set and emitted in sorted order so
// the statement is deterministic.
func BuildInsert(table string, values map[string]interface{}) (*Statement, error) {
	t, err := resolveTable(table)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, &StatementError{Code: "EMPTY_VALUES", Message: "insert requires at least one column value"}
	}

	columns := make([]string, 0, len(values))
	for col := range values {
		if err := checkColumn(t, col); err != nil {
			return nil, err
		}
		columns = append(columns, strings.ToLower(col))
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		placeholders[i] = "?"
		args[i] = valueFor(values, col)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return &Statement{SQL: sql, Args: args}, nil
}

// BuildUpdate builds a parameterized UPDATE from a structured SET map and
// structured WHERE conditions.
func BuildUpdate(table string, set map[string]interface{}, where []Condition) (*Statement, error) {
	t, err := resolveTable(table)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, &StatementError{Code: "EMPTY_SET", Message: "update requires at least one SET column"}
	}

	columns := make([]string, 0, len(set))
	for col := range set {
		if err := checkColumn(t, col); err != nil {
			return nil, err
		}
		columns = append(columns, strings.ToLower(col))
	}
	sort.Strings(columns)

	assignments := make([]string, len(columns))
	args := make([]interface{}, 0, len(columns)+len(where))
	for i, col := range columns {
		assignments[i] = col + " = ?"
		args = append(args, valueFor(set, col))
	}

	whereSQL, whereArgs, err := buildWhere(t, where)
	if err != nil {
		return nil, err
	}
	args = append(args, whereArgs...)

	sql := fmt.Sprintf("UPDATE %s SET %s%s", t.name, strings.Join(assignments, ", "), whereSQL)
	return &Statement{SQL: sql, Args: args}, nil
}

// BuildDelete builds a parameterized DELETE. An empty WHERE is refused:
// there are no blanket deletes on the admin surface.
func BuildDelete(table string, where []Condition) (*Statement, error) {
	t, err := resolveTable(table)
	if err != nil {
		return nil, err
	}
	if len(where) == 0 {
		return nil, &StatementError{Code: "EMPTY_WHERE", Message: "delete requires at least one WHERE condition"}
	}

	whereSQL, args, err := buildWhere(t, where)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("DELETE FROM %s%s", t.name, whereSQL)
	return &Statement{SQL: sql, Args: args}, nil
}

func resolveTable(table string) (adminTable, error) {
	t, ok := adminTables[strings.ToLower(table)]
	if !ok {
		return adminTable{}, &StatementError{Code: "UNKNOWN_TABLE", Message: fmt.Sprintf("table %q is not managed by the admin surface", table)}
	}
	return t, nil
}

func checkColumn(t adminTable, column string) error {
	if !t.columns[strings.ToLower(column)] {
		return &StatementError{Code: "UNKNOWN_COLUMN", Message: fmt.Sprintf("column %q is not managed on table %s", column, t.name)}
	}
	return nil
}

func buildWhere(t adminTable, where []Condition) (string, []interface{}, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	predicates := make([]string, 0, len(where))
	args := make([]interface{}, 0, len(where))
	for _, cond := range where {
		if err := checkColumn(t, cond.Column); err != nil {
			return "", nil, err
		}
		op := strings.ToUpper(strings.TrimSpace(cond.Operator))
		if !allowedOperators[op] {
			return "", nil, &StatementError{Code: "UNKNOWN_OPERATOR", Message: fmt.Sprintf("operator %q is not allowed", cond.Operator)}
		}
		predicates = append(predicates, fmt.Sprintf("%s %s ?", strings.ToLower(cond.Column), op))
		args = append(args, cond.Value)
	}

	return " WHERE " + strings.Join(predicates, " AND "), args, nil
}

// valueFor looks up a map entry by its lower-cased key
func valueFor(values map[string]interface{}, column string) interface{} {
	for key, value := range values {
		if strings.ToLower(key) == column {
			return value
		}
	}
	return nil
}
