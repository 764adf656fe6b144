package database

import (
	"log"

	"iot-ledger-backend/config"
	"iot-ledger-backend/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAll bootstraps the minimum state a fresh deployment needs: the first
// admin account holding default_admin and global_admin, the oracle service
// account with its operational roles, and the reward config singleton.
func SeedAll(db *gorm.DB) {
	adminAddress := common.HexToAddress(
		config.GetEnv("ADMIN_ADDRESS", "0x00000000000000000000000000000000000000A1")).Hex()
	oracleAddress := common.HexToAddress(
		config.GetEnv("ORACLE_ACCOUNT", "0x0000000000000000000000000000000000000001")).Hex()

	// 1. Seed the admin account
	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(config.GetEnv("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	admin := model.User{Address: adminAddress, Password: string(hashedPassword)}
	db.FirstOrCreate(&admin, model.User{Address: adminAddress})

	// 2. Seed role grants. The oracle service account also needs the data
	// manager role so fulfillments can validate records.
	grants := []model.RoleGrant{
		{Role: model.RoleDefaultAdmin, Account: adminAddress},
		{Role: model.RoleGlobalAdmin, Account: adminAddress},
		{Role: model.RoleOracle, Account: oracleAddress},
		{Role: model.RoleDataManager, Account: oracleAddress},
	}
	for _, g := range grants {
		db.FirstOrCreate(&g, model.RoleGrant{Role: g.Role, Account: g.Account})
	}

	// 3. Seed the reward config singleton
	cfg := model.RewardConfig{
		RewardRate:      model.DefaultRewardRate,
		SlashPercentage: model.DefaultSlashPercentage,
	}
	var count int64
	db.Model(&model.RewardConfig{}).Count(&count)
	if count == 0 {
		db.Create(&cfg)
	}
}
