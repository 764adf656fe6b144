package main

import (
	"fmt"
	"log"

	"iot-ledger-backend/config"
	"iot-ledger-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Seeding database...")

	// Load .env manually since this runs as a separate binary
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using system environment variables.")
	}

	config.ConnectDB()
	database.SeedAll(config.DB)

	fmt.Println("Seeding done.")
}
