// Package importer provides the bulk data reconciliation engine used by the
// property, booking and contact import pipelines.
//
// The engine takes an ordered list of raw tabular rows (as delivered by an
// external CSV/tabular parser), validates and type-coerces each row against an
// entity schema, resolves loosely specified references (property names,
// destination names) to canonical IDs, checks candidate date ranges for
// conflicts, and commits the batch inside a single transaction while isolating
// per-row failures so one malformed row never aborts the whole import.
//
// # Architecture
//
// The engine is split into small, independently testable parts:
//
//  1. RawRow / Record: the immutable input row and its typed, validated form.
//  2. Schema: per-entity field specs (type, required, enum mapping) plus
//     marker-column heuristics for optional sub-entities.
//  3. Resolver: maps free-text references to canonical IDs via indexes
//     preloaded once per batch; can auto-create missing destinations.
//  4. RangeIndex: in-memory date-range index with half-open overlap checks.
//  5. Engine: orchestrates the above per row, in fixed-size chunks, inside
//     one transaction, and aggregates an ImportReport.
//
// Entity-specific behavior (schemas, identity rules, persistence) is supplied
// through the Adapter interface, implemented by each feature package.
//
// # Batch lifetime
//
// All reference indexes and the range index live in a BatchContext built once
// per Run call. Nothing is cached across batches; concurrent imports rely on
// the database's transaction isolation, not on engine-level locking.
//
// # Failure model
//
// Row-level problems (validation errors, unresolved references, duplicate
// identities) are values: they become diagnostics in the report and the loop
// continues. Only errors recognized by IsFatal (context cancellation, a dead
// transaction or connection) abort the batch, rolling back every row.
package importer
