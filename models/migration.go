package models

import "gorm.io/gorm"

// Migrate creates or updates the schema for every persisted model.
// Skipped when SKIP_MIGRATIONS is set.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&IncomeRecord{},
		&ExpenseInvoice{},
		&GeneratedDeclaration{},
	)
}
