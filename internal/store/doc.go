// Package store defines the persistence interfaces and shared database
// abstractions (DBTX, transactions, sentinel errors) used by the platform
// implementations.
package store
