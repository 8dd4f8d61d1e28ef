package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubAdapter is an in-memory adapter over a name→id map, with injectable
// per-row behavior.
type stubAdapter struct {
	existing map[string]string // lower name → id
	created  []string
	updated  []string

	createErr  func(name string) error
	createWarn func(name string) []Diagnostic
	panicOn    string
}

func (a *stubAdapter) Name() string { return "widget" }

func (a *stubAdapter) Schema() *Schema {
	return &Schema{
		Entity: "widget",
		Fields: []FieldSpec{
			{Name: "name", Label: "Widget name", Type: FieldString, Required: true},
		},
	}
}

func (a *stubAdapter) Preload(ctx context.Context, tx *gorm.DB, bc *BatchContext) error {
	for name, id := range a.existing {
		bc.Refs("widget").Add(id, name)
	}
	return nil
}

func (a *stubAdapter) Identify(bc *BatchContext, rec *Record) (string, bool) {
	return bc.Refs("widget").IDForName(rec.String("name"))
}

func (a *stubAdapter) Identity(rec *Record) string {
	return fmt.Sprintf("widget %q", rec.String("name"))
}

func (a *stubAdapter) Create(ctx context.Context, tx *gorm.DB, bc *BatchContext, rec *Record, mode Mode, actor string) ([]Diagnostic, error) {
	name := rec.String("name")
	if name == a.panicOn {
		panic("adapter blew up")
	}
	if a.createErr != nil {
		if err := a.createErr(name); err != nil {
			return nil, err
		}
	}
	a.created = append(a.created, name)
	bc.Refs("widget").Add(fmt.Sprintf("w-%d", len(a.created)), name)
	if a.createWarn != nil {
		return a.createWarn(name), nil
	}
	return nil, nil
}

func (a *stubAdapter) Update(ctx context.Context, tx *gorm.DB, bc *BatchContext, rec *Record, id string, actor string) ([]Diagnostic, error) {
	a.updated = append(a.updated, rec.String("name"))
	return nil, nil
}

func setupEngineDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	return db
}

func widgetRows(names ...string) []RawRow {
	maps := make([]map[string]string, len(names))
	for i, n := range names {
		maps[i] = map[string]string{"name": n}
	}
	return RowsFromPayload([]string{"name"}, maps)
}

func TestEngineRun_InvalidMode(t *testing.T) {
	engine := NewEngine(setupEngineDB(t, "engine_mode"), zap.NewNop())

	report, err := engine.Run(context.Background(), &stubAdapter{}, widgetRows("a"), Mode("upsert"), "tester")

	assert.Nil(t, report)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported import mode")
}

func TestEngineRun_CreateMode(t *testing.T) {
	adapter := &stubAdapter{existing: map[string]string{"gadget": "w-0"}}
	engine := NewEngine(setupEngineDB(t, "engine_create"), zap.NewNop())

	report, err := engine.Run(context.Background(), adapter,
		widgetRows("sprocket", "gadget", "flange"), ModeCreate, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Failed)
	assert.True(t, report.Success)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, `widget "gadget" already exists`, report.Errors[0].Message)
	assert.Equal(t, 2, report.Errors[0].Row)
	assert.ElementsMatch(t, []string{"sprocket", "flange"}, adapter.created)
}

func TestEngineRun_UpdateMode(t *testing.T) {
	adapter := &stubAdapter{existing: map[string]string{"gadget": "w-0"}}
	engine := NewEngine(setupEngineDB(t, "engine_update"), zap.NewNop())

	report, err := engine.Run(context.Background(), adapter,
		widgetRows("gadget", "sprocket"), ModeUpdate, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, `widget "sprocket" does not exist`, report.Errors[0].Message)
	assert.Equal(t, []string{"gadget"}, adapter.updated)
	assert.Empty(t, adapter.created)
}

func TestEngineRun_BothModeBranchesPerRow(t *testing.T) {
	adapter := &stubAdapter{existing: map[string]string{"gadget": "w-0"}}
	engine := NewEngine(setupEngineDB(t, "engine_both"), zap.NewNop())

	report, err := engine.Run(context.Background(), adapter,
		widgetRows("gadget", "sprocket"), ModeBoth, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Failed)
	assert.True(t, report.Success)
}

func TestEngineRun_EmptyRowsSkipped(t *testing.T) {
	adapter := &stubAdapter{}
	engine := NewEngine(setupEngineDB(t, "engine_skip"), zap.NewNop())

	report, err := engine.Run(context.Background(), adapter,
		widgetRows("sprocket", "", "  "), ModeCreate, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 0, report.Failed)
}

func TestEngineRun_ValidationFailureBlocksRow(t *testing.T) {
	adapter := &stubAdapter{}
	engine := NewEngine(setupEngineDB(t, "engine_validate"), zap.NewNop())

	rows := RowsFromPayload([]string{"name", "extra"}, []map[string]string{
		{"name": "sprocket"},
		{"extra": "populated but no name"},
	})

	report, err := engine.Run(context.Background(), adapter, rows, ModeCreate, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "Widget name is required", report.Errors[0].Message)
	assert.Equal(t, 2, report.Errors[0].Row)
}

func TestEngineRun_ManyRowsAcrossChunks(t *testing.T) {
	adapter := &stubAdapter{}
	engine := NewEngine(setupEngineDB(t, "engine_chunks"), zap.NewNop())

	// 25 rows span three chunks at the fixed chunk size of 10.
	names := make([]string, 25)
	for i := range names {
		names[i] = fmt.Sprintf("widget-%02d", i)
	}

	report, err := engine.Run(context.Background(), adapter, widgetRows(names...), ModeCreate, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 25, report.Total)
	assert.Equal(t, 25, report.Imported)
	assert.Len(t, adapter.created, 25)
	assert.True(t, report.Success)
}

func TestEngineRun_WarningsDoNotBlock(t *testing.T) {
	adapter := &stubAdapter{
		createWarn: func(name string) []Diagnostic {
			if name == "flange" {
				return []Diagnostic{{Row: 2, Message: "suspicious flange"}}
			}
			return nil
		},
	}
	engine := NewEngine(setupEngineDB(t, "engine_warn"), zap.NewNop())

	report, err := engine.Run(context.Background(), adapter,
		widgetRows("sprocket", "flange"), ModeCreate, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Len(t, report.Warnings, 1)
	assert.Equal(t, "suspicious flange", report.Warnings[0].Message)
	assert.Empty(t, report.Errors)
}

func TestEngineRun_RowErrorDoesNotAbortBatch(t *testing.T) {
	adapter := &stubAdapter{
		createErr: func(name string) error {
			if name == "flange" {
				return fmt.Errorf("flange rejected")
			}
			return nil
		},
	}
	engine := NewEngine(setupEngineDB(t, "engine_rowerr"), zap.NewNop())

	report, err := engine.Run(context.Background(), adapter,
		widgetRows("sprocket", "flange", "gizmo"), ModeCreate, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "flange rejected", report.Errors[0].Message)
}

func TestEngineRun_FatalErrorAbortsBatch(t *testing.T) {
	adapter := &stubAdapter{
		createErr: func(name string) error {
			if name == "flange" {
				return Fatal(fmt.Errorf("connection lost"))
			}
			return nil
		},
	}
	engine := NewEngine(setupEngineDB(t, "engine_fatal"), zap.NewNop())

	report, err := engine.Run(context.Background(), adapter,
		widgetRows("sprocket", "flange", "gizmo"), ModeCreate, "tester")

	assert.Error(t, err)
	assert.NotNil(t, report)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 3, report.Failed)
	assert.False(t, report.Success)
	assert.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "import aborted: ")
	assert.Contains(t, report.Errors[0].Message, "connection lost")
}

func TestEngineRun_PanicIsContainedToRow(t *testing.T) {
	adapter := &stubAdapter{panicOn: "flange"}
	engine := NewEngine(setupEngineDB(t, "engine_panic"), zap.NewNop())

	report, err := engine.Run(context.Background(), adapter,
		widgetRows("sprocket", "flange", "gizmo"), ModeCreate, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Errors[0].Message, "internal error:")
	assert.Equal(t, 2, report.Errors[0].Row)
}

func TestEngineRun_AllRowsFailedUnsuccessful(t *testing.T) {
	adapter := &stubAdapter{existing: map[string]string{"gadget": "w-0"}}
	engine := NewEngine(setupEngineDB(t, "engine_allfail"), zap.NewNop())

	report, err := engine.Run(context.Background(), adapter,
		widgetRows("gadget", "gadget"), ModeCreate, "tester")

	assert.NoError(t, err)
	assert.Equal(t, 2, report.Failed)
	assert.False(t, report.Success)
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(fmt.Errorf("ordinary")))
	assert.True(t, IsFatal(Fatal(fmt.Errorf("wrapped"))))
	assert.True(t, IsFatal(fmt.Errorf("wrap: %w", context.Canceled)))
	assert.True(t, IsFatal(gorm.ErrInvalidTransaction))
}
