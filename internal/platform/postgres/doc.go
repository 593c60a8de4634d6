// Package postgres implements the store interfaces against a PostgreSQL
// database. Every store accepts a store.DBTX, so the same implementation
// runs against a plain connection pool or inside a transaction via WithTx.
package postgres
