// Package contact implements the contact directory feature.
//
// Contacts are the people attached to properties: owners, guests, agencies,
// cleaners. A contact can be linked to any number of properties through the
// contact_properties join table.
//
// # Import Adapter
//
// This package plugs into the `core/importer` engine via ImportAdapter.
// Incoming rows are identified by email when present, falling back to the
// full name, so re-running the same file updates rather than duplicates.
// A propertyName column, when filled, links the contact to that property;
// the link is idempotent.
//
// # HTTP Endpoints
//
//   - POST /contacts/import : Run a contact import batch.
package contact
