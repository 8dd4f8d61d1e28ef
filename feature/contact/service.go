package contact

import (
	"context"
	"fmt"
	"time"

	"property-manager/core/importer"
	"property-manager/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs contact operations: the bulk contact import pipeline plus
// report archiving.
type Service struct {
	db      *gorm.DB
	engine  *importer.Engine
	adapter *ImportAdapter
	writer  *Writer
	store   storage.Client
	bucket  string
	logger  *zap.Logger
}

// NewService creates a new contact service. store may be nil when object
// storage is not configured.
func NewService(db *gorm.DB, logger *zap.Logger, store storage.Client, bucket string) *Service {
	writer := NewWriter()
	return &Service{
		db:      db,
		engine:  importer.NewEngine(db, logger),
		adapter: NewImportAdapter(writer),
		writer:  writer,
		store:   store,
		bucket:  bucket,
		logger:  logger,
	}
}

// ImportContacts runs one bulk contact import batch and archives the report.
func (s *Service) ImportContacts(ctx context.Context, rows []importer.RawRow, mode importer.Mode, actor string) (*importer.Report, error) {
	report, err := s.engine.Run(ctx, s.adapter, rows, mode, actor)
	if err != nil {
		return report, err
	}
	s.archiveReport(ctx, report)
	return report, nil
}

// archiveReport uploads the finished report to object storage, best-effort.
func (s *Service) archiveReport(ctx context.Context, report *importer.Report) {
	if s.store == nil || s.bucket == "" {
		return
	}
	object := fmt.Sprintf("reports/contact-%s.json", time.Now().UTC().Format("20060102T150405"))
	if err := storage.PutJSON(ctx, s.store, s.bucket, object, report); err != nil {
		s.logger.Warn("failed to archive import report",
			zap.String("object", object),
			zap.Error(err),
		)
	}
}
