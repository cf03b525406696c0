// Package mocks provides hand-written test doubles for the service and
// store interfaces. Each mock delegates to per-method function fields so
// tests can script exactly the behavior they need.
package mocks
