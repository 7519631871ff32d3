package dao

import "gorm.io/gorm"

// InitTables creates the account and catalog tables the API owns. Tickets,
// rounds, prizes and the engine functions are installed by the database
// migrations, not here. Only used for local development and integration tests.
func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Tenant{},
		&UserTenant{},
		&Lottery{},
		&LotterySchedule{},
	)
}
