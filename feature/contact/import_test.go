package contact

import (
	"context"
	"fmt"
	"testing"

	"property-manager/core/audit"
	"property-manager/core/importer"
	catalogmodels "property-manager/feature/catalog/models"
	"property-manager/feature/contact/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var importColumns = []string{
	"firstName", "lastName", "email", "phone", "role", "propertyName",
}

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&catalogmodels.Property{}, &models.Contact{}, &models.ContactProperty{}, &audit.Entry{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := db.Create(&catalogmodels.Property{ID: "prop-1", Name: "Villa Azure"}).Error; err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}
	return db
}

func runImport(t *testing.T, db *gorm.DB, rows []map[string]string, mode importer.Mode) *importer.Report {
	engine := importer.NewEngine(db, zap.NewNop())
	adapter := NewImportAdapter(NewWriter())
	report, err := engine.Run(context.Background(), adapter,
		importer.RowsFromPayload(importColumns, rows), mode, "tester")
	assert.NoError(t, err)
	return report
}

func TestImportContacts_CreateWithPropertyLink(t *testing.T) {
	db := setupTestDB(t, "contact_create")

	report := runImport(t, db, []map[string]string{
		{"firstName": "Ana", "lastName": "Silva", "email": "ana@example.com", "role": "owner", "propertyName": "villa azure"},
	}, importer.ModeCreate)

	assert.True(t, report.Success)
	assert.Equal(t, 1, report.Imported)

	var c models.Contact
	assert.NoError(t, db.First(&c).Error)
	assert.Equal(t, "Ana Silva", c.FullName())
	assert.Equal(t, models.RoleOwner, c.Role)

	var link models.ContactProperty
	assert.NoError(t, db.First(&link).Error)
	assert.Equal(t, c.ID, link.ContactID)
	assert.Equal(t, "prop-1", link.PropertyID)
}

func TestImportContacts_EmailIdentityUpdates(t *testing.T) {
	db := setupTestDB(t, "contact_email_identity")
	email := "ana@example.com"
	assert.NoError(t, db.Create(&models.Contact{
		ID: "c-1", FirstName: "Ana", LastName: "Silva", Email: &email, Role: models.RoleOther,
	}).Error)

	// Same email, different name: matches the existing contact by email.
	report := runImport(t, db, []map[string]string{
		{"firstName": "Ana Maria", "lastName": "Silva", "email": "ANA@example.com", "phone": "+34 600 000 000"},
	}, importer.ModeBoth)

	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Imported)

	var c models.Contact
	assert.NoError(t, db.First(&c, "id = ?", "c-1").Error)
	assert.Equal(t, "Ana Maria", c.FirstName)
	assert.Equal(t, "+34 600 000 000", c.Phone)
}

func TestImportContacts_NameIdentityWithoutEmail(t *testing.T) {
	db := setupTestDB(t, "contact_name_identity")
	assert.NoError(t, db.Create(&models.Contact{
		ID: "c-1", FirstName: "Ana", LastName: "Silva", Role: models.RoleOther,
	}).Error)

	report := runImport(t, db, []map[string]string{
		{"firstName": "ana", "lastName": "silva", "phone": "+34 611 111 111"},
	}, importer.ModeBoth)

	assert.Equal(t, 1, report.Updated)

	var count int64
	assert.NoError(t, db.Model(&models.Contact{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestImportContacts_DuplicateRowsWithinBatch(t *testing.T) {
	db := setupTestDB(t, "contact_batch_dup")

	// The first row creates the contact and enters it into the batch index,
	// so the second row updates instead of duplicating.
	report := runImport(t, db, []map[string]string{
		{"firstName": "Ana", "lastName": "Silva", "email": "ana@example.com"},
		{"firstName": "Ana", "lastName": "Silva", "email": "ana@example.com", "phone": "+34 622 222 222"},
	}, importer.ModeBoth)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Updated)

	var count int64
	assert.NoError(t, db.Model(&models.Contact{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestImportContacts_MissingNamesFail(t *testing.T) {
	db := setupTestDB(t, "contact_missing")

	report := runImport(t, db, []map[string]string{
		{"email": "ghost@example.com"},
	}, importer.ModeCreate)

	assert.Equal(t, 1, report.Failed)
	assert.Len(t, report.Errors, 2)
	assert.Equal(t, "First name is required", report.Errors[0].Message)
	assert.Equal(t, "Last name is required", report.Errors[1].Message)
}

func TestImportContacts_UnknownPropertyFailsRow(t *testing.T) {
	db := setupTestDB(t, "contact_unknown_property")

	report := runImport(t, db, []map[string]string{
		{"firstName": "Ana", "lastName": "Silva", "propertyName": "Chalet Verde"},
	}, importer.ModeCreate)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, `unknown property "Chalet Verde"`, report.Errors[0].Message)

	// Resolution failed before the contact was written.
	var count int64
	assert.NoError(t, db.Model(&models.Contact{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestImportContacts_LinkIsIdempotent(t *testing.T) {
	db := setupTestDB(t, "contact_link_idempotent")

	rows := []map[string]string{
		{"firstName": "Ana", "lastName": "Silva", "email": "ana@example.com", "propertyName": "Villa Azure"},
	}
	runImport(t, db, rows, importer.ModeBoth)
	runImport(t, db, rows, importer.ModeBoth)

	var count int64
	assert.NoError(t, db.Model(&models.ContactProperty{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
