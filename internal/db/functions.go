package db

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// SQLite's lower() and LIKE only fold ASCII. casefold lowercases any text so
// searches match regardless of case in every script.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("casefold", 1, casefold)
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("casefold: unsupported argument type %T", v)
	}
}
