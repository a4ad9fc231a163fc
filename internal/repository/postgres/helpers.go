// internal/repository/postgres/helpers.go
package postgres

import "github.com/jmoiron/sqlx"

// preparedInQuery expands a sqlx IN clause and rebinds it for Postgres.
func preparedInQuery(query string, ids []string) (string, []any, error) {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(sqlx.DOLLAR, q), args, nil
}
