package importer

import (
	"fmt"
	"time"
)

// DateRange is a half-open interval [Start, End). A range is only usable when
// Start is strictly before End.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether the range satisfies the Start < End invariant.
func (r DateRange) Valid() bool {
	return r.Start.Before(r.End)
}

// Overlaps reports whether two half-open ranges share at least one instant.
// Touching boundaries (r.End == o.Start) are not overlaps.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// String renders the range for diagnostics, e.g. "2024-06-01 to 2024-06-10".
func (r DateRange) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format(dateLayout), r.End.Format(dateLayout))
}

// RangeEntry is one existing occupied range within a resource's scope.
type RangeEntry struct {
	// Range is the occupied interval.
	Range DateRange
	// EntityID identifies the booking (or other source) holding the range.
	EntityID string
	// Kind classifies the source, typically the booking's status or type.
	Kind string
}

// ConflictRecord describes one existing range that overlaps a candidate.
// It exists only for the duration of a check and is never persisted.
type ConflictRecord struct {
	Range    DateRange `json:"range"`
	EntityID string    `json:"entity_id"`
	Kind     string    `json:"kind"`
}

// RangeIndex holds the occupied date ranges for every resource in a batch's
// scope, loaded once up front. Ranges under different resource IDs never
// interact.
type RangeIndex struct {
	byResource map[string][]RangeEntry
}

// NewRangeIndex returns an empty index.
func NewRangeIndex() *RangeIndex {
	return &RangeIndex{byResource: make(map[string][]RangeEntry)}
}

// Add records an occupied range for a resource.
func (ix *RangeIndex) Add(resourceID string, entry RangeEntry) {
	ix.byResource[resourceID] = append(ix.byResource[resourceID], entry)
}

// Len returns the number of ranges held for a resource.
func (ix *RangeIndex) Len(resourceID string) int {
	return len(ix.byResource[resourceID])
}

// Conflicts returns every existing range in the resource's scope that
// overlaps the candidate, in insertion order. The index is policy-agnostic:
// whether a conflict is a warning or a hard error is the caller's decision.
func (ix *RangeIndex) Conflicts(resourceID string, candidate DateRange) []ConflictRecord {
	var conflicts []ConflictRecord
	for _, entry := range ix.byResource[resourceID] {
		if candidate.Overlaps(entry.Range) {
			conflicts = append(conflicts, ConflictRecord{
				Range:    entry.Range,
				EntityID: entry.EntityID,
				Kind:     entry.Kind,
			})
		}
	}
	return conflicts
}
