// Package catalog implements the property and destination catalog feature.
//
// It owns the two reference entity types the rest of the back office resolves
// against: destinations (cities with a country) and the properties located in
// them. Both are populated primarily through the bulk import pipeline.
//
// # Import Adapter
//
// This package plugs into the `core/importer` engine via ImportAdapter. The
// adapter preloads all known destinations and properties into the batch
// context, identifies incoming rows by property name, and resolves the
// destination column with auto-creation enabled: an unknown destination city
// is created on the fly rather than failing the row.
//
// # Components
//
//   - Writer: The sole mutator for catalog tables; every write lands an audit entry.
//   - Service: Wraps the import engine and archives reports to object storage.
//   - Handler: Exposes the HTTP import endpoint.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /catalog/properties/import : Run a property import batch.
package catalog
