// Package booking implements the booking management feature.
//
// Bookings are date-ranged reservations of a property. The package enforces
// the calendar invariant: two non-cancelled bookings for the same property
// must not overlap. Ranges are half-open, so a booking ending on a given day
// may touch one starting that same day.
//
// # Import Adapter
//
// This package plugs into the `core/importer` engine via ImportAdapter. The
// adapter preloads properties and all non-cancelled bookings (with their date
// ranges) into the batch context. During import, an overlap against an
// existing booking produces a warning on the row rather than rejecting it,
// since bulk loads routinely include historic data.
//
// # Direct Mutations
//
// Single-booking create and update go through the Service and are stricter:
// an overlap there is a hard conflict (ConflictError, HTTP 409) carrying the
// colliding ranges.
//
// # HTTP Endpoints
//
//   - POST   /bookings/import : Run a booking import batch.
//   - POST   /bookings/       : Create a single booking.
//   - PUT    /bookings/:id    : Update a booking.
//   - DELETE /bookings/:id    : Delete a booking.
package booking
