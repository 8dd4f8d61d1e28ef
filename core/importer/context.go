package importer

import (
	"strings"
	"sync"
)

// ReferenceKind names a resolvable reference namespace.
type ReferenceKind string

const (
	// RefProperty resolves against canonical properties.
	RefProperty ReferenceKind = "property"
	// RefDestination resolves against canonical destinations.
	RefDestination ReferenceKind = "destination"
)

// ReferenceIndex is a preloaded snapshot of one reference namespace: an
// ID→name map for existence checks and a lower-cased name→ID map for
// case-insensitive exact matching. Building it once per batch avoids N+1
// lookups in the row loop.
type ReferenceIndex struct {
	ids     map[string]string
	names   map[string]string
	ordered []string
}

// NewReferenceIndex returns an empty index.
func NewReferenceIndex() *ReferenceIndex {
	return &ReferenceIndex{
		ids:   make(map[string]string),
		names: make(map[string]string),
	}
}

// Add registers an entity. Name collisions keep the first entry, matching the
// first-match tolerance for duplicate names.
func (ix *ReferenceIndex) Add(id, name string) {
	ix.ids[id] = name
	key := strings.ToLower(name)
	if _, exists := ix.names[key]; !exists {
		ix.names[key] = id
		ix.ordered = append(ix.ordered, name)
	}
}

// HasID reports whether an entity with the given canonical ID exists.
func (ix *ReferenceIndex) HasID(id string) bool {
	_, ok := ix.ids[id]
	return ok
}

// NameForID returns the display name for a canonical ID.
func (ix *ReferenceIndex) NameForID(id string) (string, bool) {
	name, ok := ix.ids[id]
	return name, ok
}

// IDForName resolves a name case-insensitively to a canonical ID.
func (ix *ReferenceIndex) IDForName(name string) (string, bool) {
	id, ok := ix.names[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Len returns the number of distinct IDs in the index.
func (ix *ReferenceIndex) Len() int {
	return len(ix.ids)
}

// Suggest returns up to limit known names containing the input as a
// case-insensitive substring, in insertion order. There is no ranking beyond
// containment.
func (ix *ReferenceIndex) Suggest(input string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" || limit <= 0 {
		return nil
	}

	var out []string
	for _, name := range ix.ordered {
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// BatchContext is the arena for one batch invocation: the preloaded reference
// indexes, the date-range index, and the mutex that serializes the mutate
// phase of concurrently processed rows. It is never shared across batches.
type BatchContext struct {
	mu     sync.Mutex
	refs   map[ReferenceKind]*ReferenceIndex
	ranges *RangeIndex
}

// NewBatchContext returns an empty context ready for preloading.
func NewBatchContext() *BatchContext {
	return &BatchContext{
		refs:   make(map[ReferenceKind]*ReferenceIndex),
		ranges: NewRangeIndex(),
	}
}

// Refs returns the reference index for a kind, creating it on first use.
func (bc *BatchContext) Refs(kind ReferenceKind) *ReferenceIndex {
	ix, ok := bc.refs[kind]
	if !ok {
		ix = NewReferenceIndex()
		bc.refs[kind] = ix
	}
	return ix
}

// Ranges returns the batch's date-range index.
func (bc *BatchContext) Ranges() *RangeIndex {
	return bc.ranges
}

// Exclusive runs fn while holding the context lock. Rows within a chunk
// validate concurrently, but resolution, overlap checks and writes must
// serialize: they mutate the shared indexes and share one transaction
// connection.
func (bc *BatchContext) Exclusive(fn func() error) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return fn()
}
