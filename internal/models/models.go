// Package models defines the persisted entities.
package models

// All lists every model in dependency order, for AutoMigrate and table resets.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Transaction{},
		&Budget{},
		&AuditLog{},
	}
}
