package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		profile_picture TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS courses (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		instructor TEXT,
		duration TEXT,
		price INTEGER NOT NULL DEFAULT 0, -- smallest currency unit
		thumbnail TEXT,
		-- Ordered content references stored as JSON text
		content_json TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS carts (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		total INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS cart_items (
		cart_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK(quantity >= 1),
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY(cart_id, course_id),
		FOREIGN KEY(cart_id) REFERENCES carts(id) ON DELETE CASCADE,
		FOREIGN KEY(course_id) REFERENCES courses(id)
	);

	CREATE TABLE IF NOT EXISTS enrollments (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, course_id),
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(course_id) REFERENCES courses(id)
	);

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		gateway_order_id TEXT NOT NULL UNIQUE,
		payment_id TEXT,
		amount INTEGER NOT NULL,
		currency TEXT NOT NULL,
		receipt TEXT,
		status TEXT NOT NULL DEFAULT 'created', -- created, paid, failed
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		user_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
