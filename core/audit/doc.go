// Package audit provides the write-only audit trail emitted by the entity
// writers. Every create, update or delete of a canonical entity appends one
// Entry in the same transaction as the mutation itself, attributed to the
// authenticated actor supplied by the caller.
package audit
