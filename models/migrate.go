package models

import "gorm.io/gorm"

// All returns every model managed by AutoMigrate, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&Barber{},
		&Order{},
		&OrderItem{},
		&OrderEvent{},
		&Review{},
		&ReviewAuditLog{},
		&Notification{},
	}
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
