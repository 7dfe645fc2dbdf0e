package modules

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

// SqlModule exposes a file-backed SQLite database. Connections are opened per
// call: the language is single-threaded and synchronous, so there is no pool
// to manage and no handle to leak into script values.
func SqlModule() *evaluator.Module {
	return module("Sql", map[string]evaluator.BuiltinFunc{
		"query": func(args []evaluator.Object) (evaluator.Object, error) {
			path, stmt, err := pathAndStatement("query", args)
			if err != nil {
				return nil, err
			}
			db, err := sql.Open("sqlite", path)
			if err != nil {
				return nil, err
			}
			defer db.Close()

			rows, err := db.Query(stmt)
			if err != nil {
				return nil, err
			}
			defer rows.Close()

			columns, err := rows.Columns()
			if err != nil {
				return nil, err
			}

			var out []evaluator.Object
			for rows.Next() {
				values := make([]interface{}, len(columns))
				targets := make([]interface{}, len(columns))
				for i := range values {
					targets[i] = &values[i]
				}
				if err := rows.Scan(targets...); err != nil {
					return nil, err
				}
				fields := make(map[string]evaluator.Object, len(columns))
				for i, col := range columns {
					fields[col] = columnObject(values[i])
				}
				out = append(out, &evaluator.Record{Fields: fields})
			}
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return &evaluator.List{Elements: out}, nil
		},
		"exec": func(args []evaluator.Object) (evaluator.Object, error) {
			path, stmt, err := pathAndStatement("exec", args)
			if err != nil {
				return nil, err
			}
			db, err := sql.Open("sqlite", path)
			if err != nil {
				return nil, err
			}
			defer db.Close()

			result, err := db.Exec(stmt)
			if err != nil {
				return nil, err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return nil, err
			}
			return &evaluator.Number{Value: float64(affected)}, nil
		},
	})
}

func pathAndStatement(name string, args []evaluator.Object) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("%s takes 2 arguments, got %d", name, len(args))
	}
	path, ok := args[0].(*evaluator.String)
	if !ok {
		return "", "", fmt.Errorf("%s database path is %s, not STRING", name, args[0].Type())
	}
	stmt, ok := args[1].(*evaluator.String)
	if !ok {
		return "", "", fmt.Errorf("%s statement is %s, not STRING", name, args[1].Type())
	}
	return path.Value, stmt.Value, nil
}

// columnObject maps a scanned column to the object model. NULL becomes the
// empty string: the language has no null value.
func columnObject(v interface{}) evaluator.Object {
	switch t := v.(type) {
	case nil:
		return &evaluator.String{Value: ""}
	case int64:
		return &evaluator.Number{Value: float64(t)}
	case float64:
		return &evaluator.Number{Value: t}
	case bool:
		return &evaluator.Boolean{Value: t}
	case []byte:
		return &evaluator.String{Value: string(t)}
	case string:
		return &evaluator.String{Value: t}
	default:
		return &evaluator.String{Value: fmt.Sprintf("%v", t)}
	}
}
