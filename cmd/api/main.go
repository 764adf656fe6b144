package main

import (
	"context"
	"fmt"

	"iot-ledger-backend/config"
	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/oracle"
	"iot-ledger-backend/internal/repository"
	"iot-ledger-backend/internal/routes"
	"iot-ledger-backend/internal/signature"
	"iot-ledger-backend/internal/usecase"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

// fulfillerFunc breaks the wiring cycle between the worker and the oracle
// usecase: the worker is a constructor argument of the usecase it calls into.
type fulfillerFunc func(caller, requestID string, isValid bool) error

func (f fulfillerFunc) FulfillVerification(caller, requestID string, isValid bool) error {
	return f(caller, requestID, isValid)
}

func main() {
	fmt.Println("1. Starting up... loading .env")
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: no .env file found, using system environment variables.")
	}

	fmt.Println("2. Connecting to database...")
	config.ConnectDB()
	fmt.Println("3. Database connected. Wiring components...")

	oracleSettings, err := config.LoadOracleSettings(config.GetEnv("ORACLE_CONFIG", "oracle.yml"))
	if err != nil {
		fmt.Println("Warning: failed to load oracle config, using defaults:", err)
	}

	publisher := events.NewNoop()
	if natsURL := config.GetEnv("NATS_URL", ""); natsURL != "" {
		p, err := events.NewNATS(natsURL)
		if err != nil {
			fmt.Println("Warning: NATS unreachable, events stay database-only:", err)
		} else {
			publisher = p
		}
	}

	domain := signature.Domain{
		Name:              "IoTDeviceRegistry",
		Version:           "1",
		ChainID:           uint64(config.GetEnvAsInt("CHAIN_ID", 1)),
		VerifyingContract: common.HexToAddress(config.GetEnv("REGISTRY_ADDRESS", "")),
	}

	registryUC := usecase.NewRegistryUsecase(config.DB, domain, publisher)
	ledgerUC := usecase.NewLedgerUsecase(config.DB, publisher)
	rewardsUC := usecase.NewRewardsUsecase(config.DB, publisher)

	var oracleUC *usecase.OracleUsecase
	worker := oracle.NewWorker(
		oracle.NewClient(oracleSettings.HTTPTimeout),
		fulfillerFunc(func(caller, requestID string, isValid bool) error {
			return oracleUC.FulfillVerification(caller, requestID, isValid)
		}),
		oracleSettings.Account,
		oracleSettings.QueueSize,
	)
	oracleUC = usecase.NewOracleUsecase(config.DB, ledgerUC, rewardsUC, worker, publisher,
		oracleSettings.Account, usecase.JobConfig{
			Method:         oracleSettings.Method,
			JSONPath:       oracleSettings.JSONPath,
			DisputeTimeout: oracleSettings.DisputeTimeout,
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	userUC := usecase.NewUserUsecase(
		repository.NewUserRepository(config.DB),
		config.GetEnv("JWT_SECRET", config.DefaultJWTSecret),
	)
	accessUC := usecase.NewAccessUsecase(
		repository.NewRoleRepository(config.DB),
		repository.NewEventRepository(config.DB),
		publisher,
	)

	app := fiber.New()

	// Global middleware
	app.Use(cors.New())
	app.Use(logger.New())

	routes.SetupAuthRoutes(app, userUC)
	routes.SetupDeviceRoutes(app, config.DB, registryUC)
	routes.SetupLedgerRoutes(app, config.DB, ledgerUC)
	routes.SetupRewardsRoutes(app, config.DB, rewardsUC)
	routes.SetupOracleRoutes(app, config.DB, oracleUC)
	routes.SetupRoleRoutes(app, config.DB, accessUC)
	routes.SetupAdminRoutes(app, config.DB, registryUC, ledgerUC, rewardsUC)
	routes.SetupEventRoutes(app, config.DB)

	port := config.GetEnv("PORT", "3000")
	fmt.Println("4. Server ready, listening on port :" + port)
	if err := app.Listen(":" + port); err != nil {
		panic(err)
	}
}
