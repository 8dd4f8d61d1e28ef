package contact

import (
	"context"
	"fmt"
	"strings"

	"property-manager/core/importer"
	"property-manager/feature/contact/models"

	"gorm.io/gorm"
)

// Import column names.
const (
	colFirstName    = "firstName"
	colLastName     = "lastName"
	colEmail        = "email"
	colPhone        = "phone"
	colRole         = "role"
	colPropertyName = "propertyName"
)

// Contacts have two identity namespaces: lower-cased email when present,
// otherwise lower-cased full name.
const (
	refContactEmail importer.ReferenceKind = "contact-email"
	refContactName  importer.ReferenceKind = "contact-name"
)

// roleMapping defaults unrecognized contact roles to OTHER.
var roleMapping = importer.NewEnumMapping("contact-role", models.RoleOther,
	models.RoleOwner, models.RoleGuest, models.RoleAgency, models.RoleCleaner)

// contactSchema is the validation contract for bulk contact import rows.
var contactSchema = &importer.Schema{
	Entity: "contact",
	Fields: []importer.FieldSpec{
		{Name: colFirstName, Label: "First name", Type: importer.FieldString, Required: true},
		{Name: colLastName, Label: "Last name", Type: importer.FieldString, Required: true},
		{Name: colEmail, Label: "Email", Type: importer.FieldString},
		{Name: colPhone, Label: "Phone", Type: importer.FieldString},
		{Name: colRole, Label: "Role", Type: importer.FieldEnum, Enum: roleMapping},
		{Name: colPropertyName, Label: "Property", Type: importer.FieldString},
	},
}

// ImportAdapter binds the bulk contact import pipeline to the engine.
type ImportAdapter struct {
	writer *Writer
}

// NewImportAdapter returns the contact import adapter.
func NewImportAdapter(writer *Writer) *ImportAdapter {
	return &ImportAdapter{writer: writer}
}

// Name identifies the pipeline's target entity.
func (a *ImportAdapter) Name() string {
	return "contact"
}

// Schema returns the contact row contract.
func (a *ImportAdapter) Schema() *importer.Schema {
	return contactSchema
}

// Preload snapshots contacts into both identity indexes plus properties for
// link resolution, before the row loop.
func (a *ImportAdapter) Preload(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext) error {
	var contacts []models.Contact
	if err := tx.WithContext(ctx).Find(&contacts).Error; err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}
	emails := bc.Refs(refContactEmail)
	names := bc.Refs(refContactName)
	for _, c := range contacts {
		if c.Email != nil && *c.Email != "" {
			emails.Add(c.ID, *c.Email)
		}
		names.Add(c.ID, c.FullName())
	}

	type propertyRow struct {
		ID   string
		Name string
	}
	var properties []propertyRow
	if err := tx.WithContext(ctx).Table("properties").Select("id", "name").Find(&properties).Error; err != nil {
		return fmt.Errorf("load properties: %w", err)
	}
	propIndex := bc.Refs(importer.RefProperty)
	for _, p := range properties {
		propIndex.Add(p.ID, p.Name)
	}
	return nil
}

// Identify matches the row by email when present, falling back to full name.
func (a *ImportAdapter) Identify(bc *importer.BatchContext, rec *importer.Record) (string, bool) {
	if email := rec.String(colEmail); email != "" {
		return bc.Refs(refContactEmail).IDForName(email)
	}
	return bc.Refs(refContactName).IDForName(fullName(rec))
}

// Identity renders the row's identity for diagnostics.
func (a *ImportAdapter) Identity(rec *importer.Record) string {
	if email := rec.String(colEmail); email != "" {
		return fmt.Sprintf("contact %q", email)
	}
	return fmt.Sprintf("contact %q", fullName(rec))
}

// Create persists a new contact and, when the row names a property, links the
// two. The property reference is never auto-created. The new contact enters
// both identity indexes so later rows in the batch see it.
func (a *ImportAdapter) Create(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext, rec *importer.Record, _ importer.Mode, actor string) ([]importer.Diagnostic, error) {
	// Resolve the property reference before writing anything, so an unknown
	// property fails the row without leaving a half-applied contact behind.
	propertyID, err := a.resolveProperty(ctx, tx, bc, rec)
	if err != nil {
		return nil, err
	}

	c := &models.Contact{
		FirstName: rec.String(colFirstName),
		LastName:  rec.String(colLastName),
		Phone:     rec.String(colPhone),
		Role:      rec.String(colRole),
	}
	if email := strings.TrimSpace(rec.String(colEmail)); email != "" {
		c.Email = &email
	}

	if err := a.writer.CreateContact(ctx, tx, c, actor); err != nil {
		return nil, err
	}
	if c.Email != nil {
		bc.Refs(refContactEmail).Add(c.ID, *c.Email)
	}
	bc.Refs(refContactName).Add(c.ID, c.FullName())

	if propertyID == "" {
		return nil, nil
	}
	return nil, a.writer.LinkProperty(ctx, tx, c.ID, propertyID, actor)
}

// Update applies the row to an existing contact and refreshes the property
// link when one is named.
func (a *ImportAdapter) Update(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext, rec *importer.Record, id, actor string) ([]importer.Diagnostic, error) {
	var c models.Contact
	if err := tx.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("load contact %s: %w", id, err)
	}
	before := c

	propertyID, err := a.resolveProperty(ctx, tx, bc, rec)
	if err != nil {
		return nil, err
	}

	c.FirstName = rec.String(colFirstName)
	c.LastName = rec.String(colLastName)
	if phone := rec.String(colPhone); phone != "" {
		c.Phone = phone
	}
	if email := strings.TrimSpace(rec.String(colEmail)); email != "" {
		c.Email = &email
	}
	c.Role = rec.String(colRole)

	if err := a.writer.UpdateContact(ctx, tx, &before, &c, actor); err != nil {
		return nil, err
	}
	if propertyID == "" {
		return nil, nil
	}
	return nil, a.writer.LinkProperty(ctx, tx, id, propertyID, actor)
}

// resolveProperty resolves the row's optional property reference. Unknown
// property names fail the row with suggestions; references are never
// auto-created from contact rows.
func (a *ImportAdapter) resolveProperty(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext, rec *importer.Record) (string, error) {
	name := rec.String(colPropertyName)
	if name == "" {
		return "", nil
	}
	resolved, err := importer.NewResolver(bc).Resolve(ctx, tx, importer.RefProperty, name, importer.ResolveOptions{})
	if err != nil {
		return "", err
	}
	return resolved.ID, nil
}

func fullName(rec *importer.Record) string {
	return rec.String(colFirstName) + " " + rec.String(colLastName)
}
