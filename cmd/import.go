package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"property-manager/core/config"
	"property-manager/core/database"
	"property-manager/core/importer"
	"property-manager/core/logger"
	"property-manager/core/storage"
	"property-manager/feature/booking"
	"property-manager/feature/catalog"
	"property-manager/feature/contact"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	importEntity string
	importMode   string
	importFile   string
	importObject string
	importActor  string
)

// importCmd runs one bulk import batch from the command line. CSV parsing
// happens here, at the boundary; the engine only sees parsed rows.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Run a bulk import batch",
	Long: `Reads a CSV file from disk (--file) or from the configured bucket
(--object), runs it through the import pipeline for the chosen entity, and
prints the resulting report as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		mode := importer.Mode(importMode)
		if !mode.Valid() {
			return fmt.Errorf("unsupported import mode %q (use create, update or both)", importMode)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}

		ctx := context.Background()

		source, err := openSource(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer source.Close()

		rows, err := parseCSV(source)
		if err != nil {
			return err
		}
		logg.Info("Parsed import source",
			zap.String("entity", importEntity),
			zap.Int("rows", len(rows)),
		)

		report, err := runImport(ctx, db, logg, rows, mode)
		if err != nil {
			logg.Error("Import aborted", zap.Error(err))
		}
		if report == nil {
			return err
		}

		out, jsonErr := json.MarshalIndent(report, "", "  ")
		if jsonErr != nil {
			return jsonErr
		}
		fmt.Println(string(out))
		return err
	},
}

// openSource returns the CSV stream, from disk or from the bucket.
func openSource(ctx context.Context, cfg storage.Config) (io.ReadCloser, error) {
	if importFile != "" {
		f, err := os.Open(importFile)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", importFile, err)
		}
		return f, nil
	}
	if importObject != "" {
		client, err := storage.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		obj, err := client.GetObject(ctx, cfg.Bucket, importObject, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", importObject, err)
		}
		return obj, nil
	}
	return nil, fmt.Errorf("either --file or --object is required")
}

// parseCSV converts the stream into RawRows, treating the first record as the
// header. Data rows are numbered from 1 in source order.
func parseCSV(r io.Reader) ([]importer.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv source is empty")
	}

	columns := records[0]
	maps := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		values := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				values[col] = record[i]
			}
		}
		maps = append(maps, values)
	}
	return importer.RowsFromPayload(columns, maps), nil
}

// runImport dispatches to the feature service for the chosen entity. Report
// archival is skipped on the CLI path, so services get a nil store.
func runImport(ctx context.Context, db *gorm.DB, logg *zap.Logger, rows []importer.RawRow, mode importer.Mode) (*importer.Report, error) {
	switch importEntity {
	case "property":
		return catalog.NewService(db, logg, nil, "").ImportProperties(ctx, rows, mode, importActor)
	case "booking":
		return booking.NewService(db, logg, nil, "").ImportBookings(ctx, rows, mode, importActor)
	case "contact":
		return contact.NewService(db, logg, nil, "").ImportContacts(ctx, rows, mode, importActor)
	default:
		return nil, fmt.Errorf("unsupported entity %q (use property, booking or contact)", importEntity)
	}
}

func init() {
	importCmd.Flags().StringVar(&importEntity, "entity", "", "target entity: property, booking or contact")
	importCmd.Flags().StringVar(&importMode, "mode", "create", "import mode: create, update or both")
	importCmd.Flags().StringVar(&importFile, "file", "", "CSV file on disk")
	importCmd.Flags().StringVar(&importObject, "object", "", "CSV object in the configured bucket")
	importCmd.Flags().StringVar(&importActor, "actor", "cli", "actor attribution for audit entries")
	_ = importCmd.MarkFlagRequired("entity")
	RootCmd.AddCommand(importCmd)
}
