// Package database manages the relational database connection.
//
// It wraps GORM to provide the connection the entity writers and import
// pipelines run on. MySQL is the production driver; sqlite backs tests.
//
// # Connection Management
//
// Connect builds the DSN from configuration, applies pool limits and verifies
// the connection with a bounded ping before returning.
//
// # Schema Inspection
//
// CheckSchema verifies at startup that the tables the pipelines depend on
// exist; migrations themselves are managed outside this service.
package database
