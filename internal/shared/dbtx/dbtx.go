package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a gorm handle bound to ctx that runs its statements on tx
// when one is given, so gorm repositories can join a transaction opened by
// the service on the shared *sql.DB.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	conn := db.WithContext(ctx)
	if tx != nil {
		conn.Statement.ConnPool = tx
	}
	return conn
}
