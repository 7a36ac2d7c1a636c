package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the DDL statements in dependency order.  Each statement is
// idempotent so Migrate can run on every start.  The go-sql-driver rejects
// multi-statement strings unless multiStatements is set, hence one Exec per
// table.
var schema = []struct {
	table string
	ddl   string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(191)    NOT NULL UNIQUE,
		password_hash VARCHAR(255)    NOT NULL,
		email         VARCHAR(255)    NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"books", `CREATE TABLE IF NOT EXISTS books (
		reference   BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		title       VARCHAR(255)    NOT NULL,
		author      VARCHAR(255)    NOT NULL,
		editor      VARCHAR(255)    NOT NULL,
		year        INT             NOT NULL,
		price       DECIMAL(10,2)   NOT NULL,
		description TEXT,
		cover       VARCHAR(512),
		stock       INT             NOT NULL DEFAULT 0,
		created_at  DATETIME,
		updated_at  DATETIME,
		CONSTRAINT chk_books_stock CHECK (stock >= 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"orders", `CREATE TABLE IF NOT EXISTS orders (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		status     VARCHAR(10)     NOT NULL,
		created_at DATETIME        DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT chk_orders_status CHECK (status IN ('pending', 'completed', 'cancelled')),
		CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"order_items", `CREATE TABLE IF NOT EXISTS order_items (
		id       BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT UNSIGNED NOT NULL,
		book_id  BIGINT UNSIGNED NOT NULL,
		quantity INT             NOT NULL,
		price    DECIMAL(10,2)   NOT NULL,
		reserved TINYINT(1)      NOT NULL DEFAULT 0,
		CONSTRAINT chk_order_items_quantity CHECK (quantity > 0),
		CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
		CONSTRAINT fk_order_items_book FOREIGN KEY (book_id) REFERENCES books(reference)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// Migrate creates every table that does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", s.table, err)
		}
	}
	return nil
}
