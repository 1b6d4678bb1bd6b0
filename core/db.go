package core

import (
	"context"
	"database/sql"
)

type (
	// DBExecutor is the query surface shared by *sql.DB and *sql.Tx, so
	// repositories can run the same statements inside or outside a
	// transaction.
	DBExecutor interface {
		Exec(query string, args ...interface{}) (sql.Result, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		Query(query string, args ...interface{}) (*sql.Rows, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRow(query string, args ...interface{}) *sql.Row
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	// DB adds transaction creation on top of DBExecutor. *sql.DB satisfies
	// it; the compliance checks live in storage/database.
	DB interface {
		DBExecutor

		Begin() (*sql.Tx, error)
		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
	}
)

// DBOrdering is one ORDER BY term, bound from the API's "ordering" query
// parameter and rendered by the repositories that allow the field.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
