package config

import (
	"fmt"

	"iot-ledger-backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	// Format: user:password@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local
	dsn := GetEnv("DB_DSN", "root:@tcp(127.0.0.1:3306)/iot_ledger?charset=utf8mb4&parseTime=True&loc=Local")

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to database!")
	}

	fmt.Println("Database connection established.")

	if err := Migrate(db); err != nil {
		panic(err)
	}

	DB = db
}

// Migrate creates or updates all tables. Shared with the test setup, which
// runs it against SQLite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RoleGrant{},
		&model.Device{},
		&model.DeviceTypeCount{},
		&model.PauseFlag{},
		&model.DataRecord{},
		&model.RewardConfig{},
		&model.Balance{},
		&model.ClaimedReward{},
		&model.SlashedBalance{},
		&model.VerificationRequest{},
		&model.Event{},
	)
}
