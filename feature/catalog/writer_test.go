package catalog

import (
	"context"
	"testing"

	"property-manager/core/importer"
	"property-manager/feature/catalog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestWriterCreateProperty_AuditedInSameStatementStream(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `properties`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `audit_logs`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return NewWriter().CreateProperty(context.Background(), tx, &models.Property{Name: "Villa Azure"}, "tester")
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriterCreateProperty_InsertErrorPropagates(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `properties`").WillReturnError(gorm.ErrInvalidData)
	mock.ExpectRollback()

	err := db.Transaction(func(tx *gorm.DB) error {
		return NewWriter().CreateProperty(context.Background(), tx, &models.Property{Name: "Villa Azure"}, "tester")
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "create property")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriterCreateReference_RejectsNonDestinationKinds(t *testing.T) {
	db, _ := setupMockDB(t)

	_, err := NewWriter().CreateReference(context.Background(), db, importer.RefProperty, "Villa Azure", "tester")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot auto-create")
}
