// Package postgres provides PostgreSQL implementations of the store
// interfaces. All value-bearing clauses use bound parameters; the only text
// ever interpolated into a query is a column name drawn from a closed
// allow-list map.
package postgres
