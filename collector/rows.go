package collector

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Row is one result row keyed by column name. Values are as returned by the driver.
type Row map[string]interface{}

// String returns the text form of the key's value, or "" when absent or NULL.
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Float returns the key's numeric value. ok is false when the key is absent,
// NULL or not a number.
func (r Row) Float(key string) (value float64, ok bool) {
	return asFloat(r[key])
}

func asFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(v interface{}) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

// showCommand returns the console command for topic, e.g. "SHOW STATS;".
func showCommand(topic string) string {
	return "SHOW " + topic + ";"
}

// query runs command and returns column names and all raw records.
func query(db *sql.DB, command string) ([]string, [][]interface{}, error) {
	rows, err := db.Query(command)
	if err != nil {
		return nil, nil, &FetchError{Command: command, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, &FetchError{Command: command, Err: errors.Wrap(err, "columns")}
	}

	var records [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scan := make([]interface{}, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err = rows.Scan(scan...); err != nil {
			return nil, nil, &FetchError{Command: command, Err: errors.Wrap(err, "scan")}
		}
		records = append(records, values)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, &FetchError{Command: command, Err: err}
	}
	return columns, records, nil
}

// fetchRows runs SHOW topic and returns one Row per returned row.
func fetchRows(db *sql.DB, topic string) ([]Row, error) {
	columns, records, err := query(db, showCommand(topic))
	if err != nil {
		return nil, err
	}

	res := make([]Row, 0, len(records))
	for _, values := range records {
		row := make(Row, len(columns))
		for i, c := range columns {
			row[c] = values[i]
		}
		res = append(res, row)
	}
	return res, nil
}

// fetchSingleRow runs SHOW topic and folds the result into a single Row.
func fetchSingleRow(db *sql.DB, topic string) (Row, error) {
	command := showCommand(topic)
	columns, records, err := query(db, command)
	if err != nil {
		return nil, err
	}

	row, err := foldRecord(columns, records)
	if err != nil {
		return nil, &FetchError{Command: command, Err: err}
	}
	return row, nil
}

// foldRecord turns a result describing one logical record into a single Row.
//
// Two shapes are accepted. When the first column holds text, every physical
// row is a (key, value) pair, as SHOW LISTS returns it. Otherwise the result
// must be a single row whose columns become the keys.
func foldRecord(columns []string, records [][]interface{}) (Row, error) {
	if len(records) == 0 {
		return Row{}, nil
	}

	if len(columns) == 2 && textKeys(records) {
		row := make(Row, len(records))
		for _, rec := range records {
			key, _ := asString(rec[0])
			row[key] = rec[1]
		}
		return row, nil
	}

	if len(records) != 1 {
		return nil, errors.Errorf("expected a single row or key/value rows, got %d rows of %d columns", len(records), len(columns))
	}
	row := make(Row, len(columns))
	for i, c := range columns {
		row[c] = records[0][i]
	}
	return row, nil
}

func textKeys(records [][]interface{}) bool {
	for _, rec := range records {
		if _, ok := asString(rec[0]); !ok {
			return false
		}
	}
	return true
}
