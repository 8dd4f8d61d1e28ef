package importer

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ResolutionMethod records how a reference was resolved.
type ResolutionMethod string

const (
	// MethodExactID means the input was an existing canonical ID.
	MethodExactID ResolutionMethod = "exact-id"
	// MethodExactName means the input matched a name case-insensitively.
	MethodExactName ResolutionMethod = "exact-name-match"
	// MethodAutoCreated means a minimal entity was created for the input.
	MethodAutoCreated ResolutionMethod = "auto-created"
	// MethodSuggestionOnly marks a failed resolution that carries similar-name
	// suggestions; it never appears on a successful ResolvedReference.
	MethodSuggestionOnly ResolutionMethod = "fuzzy-suggestion-only"
)

// ResolvedReference pairs a canonical entity ID with the method that produced
// it. It lives for one row and is never persisted.
type ResolvedReference struct {
	ID     string
	Method ResolutionMethod
}

// NotFoundError is the structured diagnostic for an unresolvable reference.
// Suggestions holds up to three known names containing the input.
type NotFoundError struct {
	Kind        ReferenceKind
	Input       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown %s %q", e.Kind, e.Input)
	}
	return fmt.Sprintf("unknown %s %q (similar: %s)", e.Kind, e.Input, strings.Join(e.Suggestions, ", "))
}

// ReferenceCreator persists a minimal canonical entity during auto-creation.
// Implementations are the feature entity writers; the write happens inside
// the batch transaction and must also emit the audit entry.
type ReferenceCreator interface {
	CreateReference(ctx context.Context, tx *gorm.DB, kind ReferenceKind, name, actor string) (id string, err error)
}

// ResolveOptions is the per-call resolution policy.
type ResolveOptions struct {
	// AutoCreate allows creating a missing entity instead of failing. It is
	// true for destinations during property import and false for properties
	// during booking import.
	AutoCreate bool

	// Creator performs the auto-creation write. Required when AutoCreate is set.
	Creator ReferenceCreator

	// Actor is the audit attribution for auto-created entities.
	Actor string
}

// maxSuggestions caps the similar-name list on a failed resolution.
const maxSuggestions = 3

// Resolver maps free-text references to canonical IDs using the batch
// context's preloaded indexes. Callers run Resolve inside the batch context's
// exclusive section, so index reads and auto-create insertions are atomic and
// a name resolved twice in one batch yields the same ID.
type Resolver struct {
	bc *BatchContext
}

// NewResolver returns a resolver bound to one batch context.
func NewResolver(bc *BatchContext) *Resolver {
	return &Resolver{bc: bc}
}

// Resolve maps the input to a canonical ID. The input may be an explicit
// canonical ID (existence check only) or a bare name (case-insensitive exact
// match). When neither matches and auto-creation is allowed, a minimal entity
// is written through opts.Creator and inserted into the index so later rows
// reuse it; otherwise a *NotFoundError with suggestions is returned.
func (r *Resolver) Resolve(ctx context.Context, tx *gorm.DB, kind ReferenceKind, input string, opts ResolveOptions) (ResolvedReference, error) {
	input = strings.TrimSpace(input)
	ix := r.bc.Refs(kind)

	if ix.HasID(input) {
		return ResolvedReference{ID: input, Method: MethodExactID}, nil
	}

	if id, ok := ix.IDForName(input); ok {
		return ResolvedReference{ID: id, Method: MethodExactName}, nil
	}

	if opts.AutoCreate && opts.Creator != nil {
		id, err := opts.Creator.CreateReference(ctx, tx, kind, input, opts.Actor)
		if err != nil {
			return ResolvedReference{}, fmt.Errorf("auto-create %s %q: %w", kind, input, err)
		}
		ix.Add(id, input)
		return ResolvedReference{ID: id, Method: MethodAutoCreated}, nil
	}

	return ResolvedReference{}, &NotFoundError{
		Kind:        kind,
		Input:       input,
		Suggestions: ix.Suggest(input, maxSuggestions),
	}
}
