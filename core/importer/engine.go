package importer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mode selects how the engine partitions rows between create and update.
type Mode string

const (
	// ModeCreate imports new entities only; rows whose identity already
	// exists fail.
	ModeCreate Mode = "create"
	// ModeUpdate updates existing entities only; rows whose identity does not
	// exist fail.
	ModeUpdate Mode = "update"
	// ModeBoth branches per row into create or update based on existence.
	ModeBoth Mode = "both"
)

// Valid reports whether the mode is one the engine supports.
func (m Mode) Valid() bool {
	switch m {
	case ModeCreate, ModeUpdate, ModeBoth:
		return true
	default:
		return false
	}
}

// ChunkSize is the fixed number of rows processed per chunk. Rows within a
// chunk run concurrently; chunks run sequentially, bounding database pressure
// while still overlapping I/O latency.
const ChunkSize = 10

// Adapter supplies the entity-specific half of the pipeline. Implementations
// live in the feature packages and are the only path to entity persistence.
type Adapter interface {
	// Name identifies the target entity, e.g. "property".
	Name() string

	// Schema returns the validation contract for this entity's rows.
	Schema() *Schema

	// Preload snapshots all reference and date-range data relevant to the
	// batch into the context in one pass, before the row loop.
	Preload(ctx context.Context, tx *gorm.DB, bc *BatchContext) error

	// Identify returns the existing entity ID matching the record's identity,
	// if any. Called inside the batch context's exclusive section.
	Identify(bc *BatchContext, rec *Record) (string, bool)

	// Identity renders the record's identity for diagnostics,
	// e.g. `property "Villa Azure"`.
	Identity(rec *Record) string

	// Create persists a new entity for the record, returning any warnings.
	// A returned error fails the row unless IsFatal reports otherwise.
	Create(ctx context.Context, tx *gorm.DB, bc *BatchContext, rec *Record, mode Mode, actor string) ([]Diagnostic, error)

	// Update applies the record to the existing entity id.
	Update(ctx context.Context, tx *gorm.DB, bc *BatchContext, rec *Record, id string, actor string) ([]Diagnostic, error)
}

// Engine runs import batches. It owns chunking, the transaction scope,
// per-row failure isolation and report aggregation; everything entity-specific
// is delegated to the Adapter.
type Engine struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewEngine returns an engine bound to a database handle and logger.
func NewEngine(db *gorm.DB, log *zap.Logger) *Engine {
	return &Engine{db: db, log: log}
}

// Run executes the full pipeline for an ordered list of rows inside one
// transaction and returns the report. Row-level failures are recorded and the
// loop continues; a fatal error rolls the whole batch back, in which case the
// returned report has zero successes and a single diagnostic, alongside the
// error itself. An unsupported mode is a contract violation and fails before
// the transaction opens.
func (e *Engine) Run(ctx context.Context, adapter Adapter, rows []RawRow, mode Mode, actor string) (*Report, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unsupported import mode %q", mode)
	}

	report := newReport(len(rows))

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bc := NewBatchContext()
		if err := adapter.Preload(ctx, tx, bc); err != nil {
			return fmt.Errorf("preload %s batch: %w", adapter.Name(), err)
		}

		for start := 0; start < len(rows); start += ChunkSize {
			end := start + ChunkSize
			if end > len(rows) {
				end = len(rows)
			}
			chunk := rows[start:end]

			results := make([]rowResult, len(chunk))
			fatals := make([]error, len(chunk))

			var wg sync.WaitGroup
			for i, row := range chunk {
				wg.Add(1)
				go func(i int, row RawRow) {
					defer wg.Done()
					results[i], fatals[i] = e.processRow(ctx, tx, adapter, bc, row, mode, actor)
				}(i, row)
			}
			wg.Wait()

			for _, err := range fatals {
				if err != nil {
					return err
				}
			}

			// Merge after the chunk so counters are deterministic regardless
			// of completion order; diagnostics keep their row numbers.
			for _, res := range results {
				report.merge(res)
			}
		}
		return nil
	})
	if err != nil {
		e.log.Error("import batch aborted",
			zap.String("entity", adapter.Name()),
			zap.String("mode", string(mode)),
			zap.Int("rows", len(rows)),
			zap.Error(err),
		)
		return failedReport(len(rows), err), err
	}

	report.finalize()
	e.log.Info("import batch finished",
		zap.String("entity", adapter.Name()),
		zap.String("mode", string(mode)),
		zap.Int("imported", report.Imported),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// processRow runs one row through validate → identify → create/update. The
// returned error is non-nil only for batch-fatal failures; every other
// problem is folded into the rowResult. A panic in entity code is contained
// to the row.
func (e *Engine) processRow(ctx context.Context, tx *gorm.DB, adapter Adapter, bc *BatchContext, row RawRow, mode Mode, actor string) (res rowResult, fatal error) {
	defer func() {
		if p := recover(); p != nil {
			e.log.Error("row processing panic",
				zap.String("entity", adapter.Name()),
				zap.Int("row", row.Number()),
				zap.Any("panic", p),
			)
			res = rowResult{
				row:    row.Number(),
				status: StatusFailed,
				errors: []Diagnostic{{Row: row.Number(), Message: fmt.Sprintf("internal error: %v", p)}},
			}
			fatal = nil
		}
	}()

	if row.Empty() {
		return rowResult{row: row.Number(), status: StatusSkipped}, nil
	}

	// Validation is pure and runs concurrently with the other rows in the
	// chunk.
	rec, diags := adapter.Schema().Validate(row)
	if len(diags) > 0 {
		return rowResult{row: row.Number(), status: StatusFailed, errors: diags}, nil
	}

	var (
		status   Status
		warnings []Diagnostic
	)

	// Resolution and persistence mutate the shared context and transaction,
	// so they serialize across the chunk.
	err := bc.Exclusive(func() error {
		id, exists := adapter.Identify(bc, rec)

		switch {
		case mode == ModeCreate && exists:
			return fmt.Errorf("%s already exists", adapter.Identity(rec))
		case mode == ModeUpdate && !exists:
			return fmt.Errorf("%s does not exist", adapter.Identity(rec))
		case exists:
			warns, err := adapter.Update(ctx, tx, bc, rec, id, actor)
			if err != nil {
				return err
			}
			status = StatusUpdated
			warnings = warns
		default:
			warns, err := adapter.Create(ctx, tx, bc, rec, mode, actor)
			if err != nil {
				return err
			}
			status = StatusImported
			warnings = warns
		}
		return nil
	})
	if err != nil {
		if IsFatal(err) {
			return rowResult{}, err
		}
		return rowResult{
			row:    row.Number(),
			status: StatusFailed,
			errors: []Diagnostic{{Row: row.Number(), Message: err.Error()}},
		}, nil
	}

	return rowResult{row: row.Number(), status: status, warnings: warnings}, nil
}
