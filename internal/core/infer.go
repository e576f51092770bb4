package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnType is the warehouse storage type inferred for a column.
type ColumnType string

const (
	TypeBigint ColumnType = "BIGINT"
	TypeDouble ColumnType = "DOUBLE"
	TypeString ColumnType = "STRING"
)

// InferColumnType inspects the non-empty values of one column: all
// integers yields BIGINT, otherwise all decimals yields DOUBLE,
// otherwise STRING. Empty cells never affect the result, so a column
// with no values at all is STRING.
func InferColumnType(values []string) ColumnType {
	sawValue := false
	allInt := true
	allFloat := true

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		sawValue = true
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
			}
		}
		if !allInt && !allFloat {
			return TypeString
		}
	}

	switch {
	case !sawValue:
		return TypeString
	case allInt:
		return TypeBigint
	case allFloat:
		return TypeDouble
	default:
		return TypeString
	}
}

// InferSchema returns the inferred type for every column of the
// snapshot, in column order. Deterministic given the snapshot.
func InferSchema(t TableSnapshot) []ColumnType {
	types := make([]ColumnType, len(t.Columns))
	values := make([]string, len(t.Rows))
	for i, col := range t.Columns {
		for j, row := range t.Rows {
			values[j] = row[col]
		}
		types[i] = InferColumnType(values)
	}
	return types
}

// BuildCreateTableSQL renders the CREATE TABLE statement registering the
// snapshot as a Delta table over the pushed CSV file: backtick-quoted
// column identifiers, one column per line, USING DELTA with the volume
// location.
func BuildCreateTableSQL(t TableSnapshot, tableName, location string) string {
	types := InferSchema(t)
	cols := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = fmt.Sprintf("`%s` %s", escapeBacktick(col), types[i])
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)\nUSING DELTA\nLOCATION '%s'",
		tableName, strings.Join(cols, ",\n  "), escapeSingleQuote(location))
}

func escapeBacktick(s string) string {
	return strings.ReplaceAll(s, "`", "``")
}

func escapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
